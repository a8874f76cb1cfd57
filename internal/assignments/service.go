package assignments

import (
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/pd-assess/backend/internal/analytics"
	"github.com/pd-assess/backend/internal/generator"
	"github.com/pd-assess/backend/internal/models"
	"github.com/pd-assess/backend/internal/scorer"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrAlreadySubmitted = errors.New("assignment already submitted")
	ErrAlreadyGraded    = errors.New("submission already graded")
)

type Service struct {
	store     *Store
	generator *generator.Generator
	scorer    *scorer.Scorer
	analytics *analytics.Store
}

func NewService(store *Store, gen *generator.Generator, sc *scorer.Scorer, an *analytics.Store) *Service {
	return &Service{store: store, generator: gen, scorer: sc, analytics: an}
}

// ── Assignment Creation ─────────────────────────────────

func (s *Service) CreateAssignment(adminID int64, req models.CreateAssignmentRequest) (*models.Assignment, error) {
	engineer, err := s.store.GetEngineer(req.EngineerID)
	if err != nil {
		return nil, err
	}
	if engineer == nil {
		return nil, fmt.Errorf("engineer %d: %w", req.EngineerID, ErrNotFound)
	}

	topic := models.Topic(req.Topic)
	questions := s.generator.Generate(req.Topic, req.Count, engineer.ExperienceYears)

	now := time.Now()
	assignment := &models.Assignment{
		Code:       fmt.Sprintf("PD_%s_%d_%s", topic, engineer.ID, now.Format("20060102_150405")),
		EngineerID: engineer.ID,
		Topic:      topic,
		Questions:  questions,
		CreatedBy:  adminID,
		DueDate:    now.AddDate(0, 0, 7),
	}
	if err := s.store.CreateAssignment(assignment); err != nil {
		return nil, err
	}

	if err := s.analytics.LogEvent("assignment_created", adminID, map[string]interface{}{
		"assignment_id": assignment.ID,
		"engineer_id":   engineer.ID,
		"topic":         string(topic),
		"count":         len(questions),
	}); err != nil {
		log.Printf("WARN: failed to log assignment_created event: %v", err)
	}

	return assignment, nil
}

// ── Assignment Access ───────────────────────────────────

func (s *Service) ListAssignments(userID int64, isAdmin bool) ([]models.AssignmentSummary, error) {
	if isAdmin {
		return s.store.ListAllAssignments()
	}
	return s.store.ListAssignmentsByEngineer(userID)
}

func (s *Service) GetAssignment(userID int64, isAdmin bool, id int64) (*models.Assignment, error) {
	assignment, err := s.store.GetAssignment(id)
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		return nil, ErrNotFound
	}
	if !isAdmin && assignment.EngineerID != userID {
		return nil, ErrForbidden
	}
	return assignment, nil
}

func (s *Service) ListEngineers() ([]models.EngineerSummary, error) {
	return s.store.ListEngineers()
}

// ── Submission + Auto-Scoring ───────────────────────────

func (s *Service) SubmitAnswers(userID, assignmentID int64, answers []string) (*models.SubmitResponse, error) {
	assignment, err := s.store.GetAssignment(assignmentID)
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		return nil, ErrNotFound
	}
	if assignment.EngineerID != userID {
		return nil, ErrForbidden
	}

	exists, err := s.store.HasSubmission(assignmentID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadySubmitted
	}

	// Score every question; a missing answer is scored as empty text.
	results := make([]scorer.Result, len(assignment.Questions))
	for i, question := range assignment.Questions {
		answer := ""
		if i < len(answers) {
			answer = answers[i]
		}
		results[i] = s.scorer.Score(question, answer, string(assignment.Topic))
	}

	submission := &models.Submission{
		AssignmentID: assignmentID,
		EngineerID:   userID,
		Answers:      answers,
		AutoScores:   results,
		AutoTotal:    round1(scoresMean(results)),
		Status:       models.SubmissionSubmitted,
	}
	if err := s.store.CreateSubmission(submission); err != nil {
		return nil, err
	}

	if err := s.analytics.LogEvent("submission_received", userID, map[string]interface{}{
		"submission_id": submission.ID,
		"assignment_id": assignmentID,
		"auto_total":    submission.AutoTotal,
	}); err != nil {
		log.Printf("WARN: failed to log submission_received event: %v", err)
	}

	return &models.SubmitResponse{
		SubmissionID: submission.ID,
		AutoScores:   results,
		AutoTotal:    submission.AutoTotal,
		Status:       string(submission.Status),
	}, nil
}

// ── Review + Grading ────────────────────────────────────

func (s *Service) Review(submissionID int64) (*models.ReviewResponse, error) {
	submission, err := s.store.GetSubmission(submissionID)
	if err != nil {
		return nil, err
	}
	if submission == nil {
		return nil, ErrNotFound
	}

	assignment, err := s.store.GetAssignment(submission.AssignmentID)
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		return nil, ErrNotFound
	}

	engineer, err := s.store.GetEngineer(submission.EngineerID)
	if err != nil {
		return nil, err
	}
	engineerName := ""
	if engineer != nil {
		engineerName = engineer.DisplayName()
	}

	// Scoring is deterministic, so recomputing here always matches what was
	// stored at submission time while picking up the latest feedback wording.
	items := make([]models.ReviewItem, len(assignment.Questions))
	for i, question := range assignment.Questions {
		answer := ""
		if i < len(submission.Answers) {
			answer = submission.Answers[i]
		}
		result := s.scorer.Score(question, answer, string(assignment.Topic))
		items[i] = models.ReviewItem{
			Index:    i,
			Question: question,
			Answer:   answer,
			Result:   result,
		}
	}

	return &models.ReviewResponse{
		SubmissionID: submission.ID,
		Code:         assignment.Code,
		EngineerName: engineerName,
		Topic:        assignment.Topic,
		Items:        items,
		AutoTotal:    submission.AutoTotal,
		Status:       submission.Status,
		SubmittedAt:  submission.SubmittedAt,
	}, nil
}

func (s *Service) Grade(adminID, submissionID int64, req models.GradeRequest) (*models.GradeResponse, error) {
	submission, err := s.store.GetSubmission(submissionID)
	if err != nil {
		return nil, err
	}
	if submission == nil {
		return nil, ErrNotFound
	}
	if submission.Status == models.SubmissionGraded {
		return nil, ErrAlreadyGraded
	}

	// The reviewer can override the auto score; absent an override the
	// heuristic total stands.
	finalScore := submission.AutoTotal
	if req.FinalScore != nil {
		finalScore = *req.FinalScore
	}

	if err := s.store.GradeSubmission(submissionID, finalScore, req.Comment, adminID); err != nil {
		return nil, err
	}

	if err := s.analytics.LogEvent("submission_graded", adminID, map[string]interface{}{
		"submission_id": submissionID,
		"final_score":   finalScore,
		"overridden":    req.FinalScore != nil,
	}); err != nil {
		log.Printf("WARN: failed to log submission_graded event: %v", err)
	}

	return &models.GradeResponse{
		SubmissionID: submissionID,
		FinalScore:   finalScore,
		Status:       string(models.SubmissionGraded),
		Comment:      req.Comment,
	}, nil
}

func (s *Service) PendingSubmissions() ([]models.PendingSubmission, error) {
	return s.store.GetPendingSubmissions()
}

func scoresMean(results []scorer.Result) float64 {
	if len(results) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range results {
		sum += r.Score
	}
	return sum / float64(len(results))
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
