package assignments

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pd-assess/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ── Engineers ───────────────────────────────────────────

func (s *Store) GetEngineer(id int64) (*models.User, error) {
	var u models.User
	err := s.db.QueryRow(
		`SELECT id, email, name, COALESCE(username, ''), is_admin, experience_years, department, created_at, updated_at
		 FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Email, &u.Name, &u.Username, &u.IsAdmin, &u.ExperienceYears, &u.Department, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get engineer: %w", err)
	}
	return &u, nil
}

func (s *Store) ListEngineers() ([]models.EngineerSummary, error) {
	rows, err := s.db.Query(
		`SELECT id, name, email, experience_years, department
		 FROM users WHERE is_admin = FALSE
		 ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list engineers: %w", err)
	}
	defer rows.Close()

	engineers := []models.EngineerSummary{}
	for rows.Next() {
		var e models.EngineerSummary
		if err := rows.Scan(&e.ID, &e.Name, &e.Email, &e.ExperienceYears, &e.Department); err != nil {
			return nil, fmt.Errorf("scan engineer: %w", err)
		}
		engineers = append(engineers, e)
	}
	return engineers, rows.Err()
}

// ── Assignments ─────────────────────────────────────────

func (s *Store) CreateAssignment(a *models.Assignment) error {
	questionsJSON, err := json.Marshal(a.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}

	err = s.db.QueryRow(
		`INSERT INTO assignments (code, engineer_id, topic, questions, created_by, due_date)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		a.Code, a.EngineerID, a.Topic, questionsJSON, a.CreatedBy, a.DueDate,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

func (s *Store) GetAssignment(id int64) (*models.Assignment, error) {
	var a models.Assignment
	var questionsJSON []byte
	err := s.db.QueryRow(
		`SELECT id, code, engineer_id, topic, questions, created_by, created_at, due_date
		 FROM assignments WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.Code, &a.EngineerID, &a.Topic, &questionsJSON, &a.CreatedBy, &a.CreatedAt, &a.DueDate)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	if err := json.Unmarshal(questionsJSON, &a.Questions); err != nil {
		return nil, fmt.Errorf("unmarshal questions: %w", err)
	}
	return &a, nil
}

func (s *Store) listAssignments(query string, args ...interface{}) ([]models.AssignmentSummary, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	assignments := []models.AssignmentSummary{}
	for rows.Next() {
		var a models.AssignmentSummary
		var questionsJSON []byte
		var status sql.NullString
		var submittedAt sql.NullTime
		if err := rows.Scan(&a.ID, &a.Code, &a.EngineerID, &a.EngineerName, &a.Topic,
			&questionsJSON, &a.CreatedAt, &a.DueDate, &status, &submittedAt); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		var questions []string
		if err := json.Unmarshal(questionsJSON, &questions); err != nil {
			return nil, fmt.Errorf("unmarshal questions: %w", err)
		}
		a.QuestionCount = len(questions)
		if status.Valid {
			a.Submitted = true
			a.Status = status.String
		}
		if submittedAt.Valid {
			t := submittedAt.Time
			a.SubmittedAt = &t
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

func (s *Store) ListAllAssignments() ([]models.AssignmentSummary, error) {
	return s.listAssignments(
		`SELECT a.id, a.code, a.engineer_id, u.name, a.topic, a.questions, a.created_at, a.due_date,
		        sub.status, sub.submitted_at
		 FROM assignments a
		 JOIN users u ON u.id = a.engineer_id
		 LEFT JOIN submissions sub ON sub.assignment_id = a.id
		 ORDER BY a.created_at DESC`,
	)
}

func (s *Store) ListAssignmentsByEngineer(engineerID int64) ([]models.AssignmentSummary, error) {
	return s.listAssignments(
		`SELECT a.id, a.code, a.engineer_id, u.name, a.topic, a.questions, a.created_at, a.due_date,
		        sub.status, sub.submitted_at
		 FROM assignments a
		 JOIN users u ON u.id = a.engineer_id
		 LEFT JOIN submissions sub ON sub.assignment_id = a.id
		 WHERE a.engineer_id = $1
		 ORDER BY a.created_at DESC`,
		engineerID,
	)
}

// ── Submissions ─────────────────────────────────────────

func (s *Store) HasSubmission(assignmentID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM submissions WHERE assignment_id = $1)`,
		assignmentID,
	).Scan(&exists)
	return exists, err
}

func (s *Store) CreateSubmission(sub *models.Submission) error {
	answersJSON, err := json.Marshal(sub.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	scoresJSON, err := json.Marshal(sub.AutoScores)
	if err != nil {
		return fmt.Errorf("marshal auto scores: %w", err)
	}

	err = s.db.QueryRow(
		`INSERT INTO submissions (assignment_id, engineer_id, answers, auto_scores, auto_total, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, submitted_at`,
		sub.AssignmentID, sub.EngineerID, answersJSON, scoresJSON, sub.AutoTotal, sub.Status,
	).Scan(&sub.ID, &sub.SubmittedAt)
	if err != nil {
		// The unique constraint on assignment_id decides concurrent submits;
		// the loser gets the same answer as a repeat submit.
		if isDuplicateKey(err) {
			return ErrAlreadySubmitted
		}
		return fmt.Errorf("create submission: %w", err)
	}
	return nil
}

func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate key")
}

func (s *Store) GetSubmission(id int64) (*models.Submission, error) {
	var sub models.Submission
	var answersJSON, scoresJSON []byte
	err := s.db.QueryRow(
		`SELECT id, assignment_id, engineer_id, answers, auto_scores, auto_total,
		        final_score, status, reviewer_comment, submitted_at, graded_at, graded_by
		 FROM submissions WHERE id = $1`,
		id,
	).Scan(&sub.ID, &sub.AssignmentID, &sub.EngineerID, &answersJSON, &scoresJSON, &sub.AutoTotal,
		&sub.FinalScore, &sub.Status, &sub.ReviewerComment, &sub.SubmittedAt, &sub.GradedAt, &sub.GradedBy)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get submission: %w", err)
	}
	if err := json.Unmarshal(answersJSON, &sub.Answers); err != nil {
		return nil, fmt.Errorf("unmarshal answers: %w", err)
	}
	if err := json.Unmarshal(scoresJSON, &sub.AutoScores); err != nil {
		return nil, fmt.Errorf("unmarshal auto scores: %w", err)
	}
	return &sub, nil
}

func (s *Store) GetPendingSubmissions() ([]models.PendingSubmission, error) {
	rows, err := s.db.Query(
		`SELECT sub.id, a.id, a.code, a.engineer_id, u.name, a.topic, sub.auto_total, sub.submitted_at
		 FROM submissions sub
		 JOIN assignments a ON a.id = sub.assignment_id
		 JOIN users u ON u.id = a.engineer_id
		 WHERE sub.status = 'submitted'
		 ORDER BY sub.submitted_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("pending submissions: %w", err)
	}
	defer rows.Close()

	pending := []models.PendingSubmission{}
	for rows.Next() {
		var p models.PendingSubmission
		var fullName string
		if err := rows.Scan(&p.SubmissionID, &p.AssignmentID, &p.Code, &p.EngineerID,
			&fullName, &p.Topic, &p.AutoTotal, &p.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scan pending submission: %w", err)
		}
		p.EngineerName = models.User{Name: fullName}.DisplayName()
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

func (s *Store) GradeSubmission(id int64, finalScore float64, comment string, gradedBy int64) error {
	var commentPtr *string
	if comment != "" {
		commentPtr = &comment
	}
	result, err := s.db.Exec(
		`UPDATE submissions SET
		    final_score = $2, status = 'graded', reviewer_comment = $3,
		    graded_at = NOW(), graded_by = $4
		 WHERE id = $1 AND status = 'submitted'`,
		id, finalScore, commentPtr, gradedBy,
	)
	if err != nil {
		return fmt.Errorf("grade submission: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("submission not found or already graded")
	}
	return nil
}
