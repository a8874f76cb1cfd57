package analytics

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/pd-assess/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// LogEvent records an analytics event. Failures are returned but callers
// treat logging as best-effort; a lost event never fails the operation that
// produced it.
func (s *Store) LogEvent(eventType string, userID int64, data map[string]interface{}) error {
	var dataJSON *string
	if data != nil {
		b, err := json.Marshal(data)
		if err == nil {
			s := string(b)
			dataJSON = &s
		}
	}
	_, err := s.db.Exec(
		`INSERT INTO analytics_events (event_type, user_id, data)
		 VALUES ($1, $2, $3)`,
		eventType, userID, dataJSON,
	)
	return err
}

// GetDashboardStats aggregates the admin dashboard counters plus per-topic
// score statistics over graded submissions.
func (s *Store) GetDashboardStats() (*models.DashboardStats, error) {
	stats := &models.DashboardStats{TopicStats: []models.TopicStat{}}

	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM users WHERE is_admin = FALSE`,
	).Scan(&stats.TotalEngineers)
	if err != nil {
		return nil, fmt.Errorf("count engineers: %w", err)
	}

	err = s.db.QueryRow(
		`SELECT COUNT(*) FROM assignments`,
	).Scan(&stats.TotalAssignments)
	if err != nil {
		return nil, fmt.Errorf("count assignments: %w", err)
	}

	err = s.db.QueryRow(
		`SELECT
		    COUNT(*) FILTER (WHERE status = 'submitted'),
		    COUNT(*) FILTER (WHERE status = 'graded')
		 FROM submissions`,
	).Scan(&stats.PendingReviews, &stats.CompletedReviews)
	if err != nil {
		return nil, fmt.Errorf("count reviews: %w", err)
	}

	rows, err := s.db.Query(
		`SELECT a.topic,
		        COUNT(*),
		        COALESCE(AVG(sub.final_score), 0),
		        COALESCE(MAX(sub.final_score), 0),
		        COALESCE(MIN(sub.final_score), 0)
		 FROM submissions sub
		 JOIN assignments a ON a.id = sub.assignment_id
		 WHERE sub.status = 'graded'
		 GROUP BY a.topic
		 ORDER BY a.topic`,
	)
	if err != nil {
		return nil, fmt.Errorf("topic stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t models.TopicStat
		if err := rows.Scan(&t.Topic, &t.Count, &t.AvgScore, &t.MaxScore, &t.MinScore); err != nil {
			return nil, fmt.Errorf("scan topic stat: %w", err)
		}
		stats.TopicStats = append(stats.TopicStats, t)
	}
	return stats, rows.Err()
}
