package models

import (
	"time"

	"github.com/pd-assess/backend/internal/scorer"
)

type Topic string

const (
	TopicSTA     Topic = "sta"
	TopicCTS     Topic = "cts"
	TopicSignoff Topic = "signoff"
)

var ValidTopics = map[Topic]bool{
	TopicSTA:     true,
	TopicCTS:     true,
	TopicSignoff: true,
}

type SubmissionStatus string

const (
	SubmissionSubmitted SubmissionStatus = "submitted"
	SubmissionGraded    SubmissionStatus = "graded"
)

// ── Core Structs ───────────────────────────────────────

type Assignment struct {
	ID         int64     `json:"id"`
	Code       string    `json:"code"`
	EngineerID int64     `json:"engineer_id"`
	Topic      Topic     `json:"topic"`
	Questions  []string  `json:"questions"`
	CreatedBy  int64     `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
	DueDate    time.Time `json:"due_date"`
}

type Submission struct {
	ID              int64            `json:"id"`
	AssignmentID    int64            `json:"assignment_id"`
	EngineerID      int64            `json:"engineer_id"`
	Answers         []string         `json:"answers"`
	AutoScores      []scorer.Result  `json:"auto_scores"`
	AutoTotal       float64          `json:"auto_total"`
	FinalScore      *float64         `json:"final_score,omitempty"`
	Status          SubmissionStatus `json:"status"`
	ReviewerComment *string          `json:"reviewer_comment,omitempty"`
	SubmittedAt     time.Time        `json:"submitted_at"`
	GradedAt        *time.Time       `json:"graded_at,omitempty"`
	GradedBy        *int64           `json:"graded_by,omitempty"`
}

// ── Request Types ─────────────────────────────────────

type CreateAssignmentRequest struct {
	EngineerID int64  `json:"engineer_id"`
	Topic      string `json:"topic"`
	Count      int    `json:"count,omitempty"`
}

type SubmitAnswersRequest struct {
	Answers []string `json:"answers"`
}

type GradeRequest struct {
	FinalScore *float64 `json:"final_score,omitempty"`
	Comment    string   `json:"comment,omitempty"`
}

// ── Response Types ────────────────────────────────────

type AssignmentSummary struct {
	ID            int64      `json:"id"`
	Code          string     `json:"code"`
	EngineerID    int64      `json:"engineer_id"`
	EngineerName  string     `json:"engineer_name,omitempty"`
	Topic         Topic      `json:"topic"`
	QuestionCount int        `json:"question_count"`
	CreatedAt     time.Time  `json:"created_at"`
	DueDate       time.Time  `json:"due_date"`
	Submitted     bool       `json:"submitted"`
	Status        string     `json:"status,omitempty"`
	SubmittedAt   *time.Time `json:"submitted_at,omitempty"`
}

type AssignmentListResponse struct {
	Assignments []AssignmentSummary `json:"assignments"`
	Total       int                 `json:"total"`
}

type SubmitResponse struct {
	SubmissionID int64           `json:"submission_id"`
	AutoScores   []scorer.Result `json:"auto_scores"`
	AutoTotal    float64         `json:"auto_total"`
	Status       string          `json:"status"`
}

// ── Review Types ──────────────────────────────────────

type PendingSubmission struct {
	SubmissionID int64     `json:"submission_id"`
	AssignmentID int64     `json:"assignment_id"`
	Code         string    `json:"code"`
	EngineerID   int64     `json:"engineer_id"`
	EngineerName string    `json:"engineer_name"`
	Topic        Topic     `json:"topic"`
	AutoTotal    float64   `json:"auto_total"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

type ReviewItem struct {
	Index    int           `json:"index"`
	Question string        `json:"question"`
	Answer   string        `json:"answer"`
	Result   scorer.Result `json:"result"`
}

type ReviewResponse struct {
	SubmissionID int64            `json:"submission_id"`
	Code         string           `json:"code"`
	EngineerName string           `json:"engineer_name"`
	Topic        Topic            `json:"topic"`
	Items        []ReviewItem     `json:"items"`
	AutoTotal    float64          `json:"auto_total"`
	Status       SubmissionStatus `json:"status"`
	SubmittedAt  time.Time        `json:"submitted_at"`
}

type GradeResponse struct {
	SubmissionID int64    `json:"submission_id"`
	FinalScore   float64  `json:"final_score"`
	Status       string   `json:"status"`
	Comment      string   `json:"comment,omitempty"`
}

// ── Admin Types ───────────────────────────────────────

type TopicStat struct {
	Topic    Topic   `json:"topic"`
	Count    int     `json:"count"`
	AvgScore float64 `json:"avg_score"`
	MaxScore float64 `json:"max_score"`
	MinScore float64 `json:"min_score"`
}

type DashboardStats struct {
	TotalEngineers   int         `json:"total_engineers"`
	TotalAssignments int         `json:"total_assignments"`
	PendingReviews   int         `json:"pending_reviews"`
	CompletedReviews int         `json:"completed_reviews"`
	TopicStats       []TopicStat `json:"topic_stats"`
}
