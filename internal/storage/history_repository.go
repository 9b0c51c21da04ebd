package storage

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/example/elevate/pkg/models"
)

// HistoryRepository handles database operations for the local review log
type HistoryRepository struct {
	db *sqlx.DB
}

// NewHistoryRepository creates a new repository instance
func NewHistoryRepository(db *sqlx.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Create inserts a completed session record
func (r *HistoryRepository) Create(record *models.ReviewRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CompletedAt.IsZero() {
		record.CompletedAt = time.Now()
	}

	_, err := r.db.Exec(`
		INSERT INTO review_history (
			id, question_set_id, question_set_name, total_questions,
			average_score, time_spent, submitted, completed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		record.ID,
		record.QuestionSetID,
		record.QuestionSetName,
		record.TotalQuestions,
		record.AverageScore,
		record.TimeSpent,
		record.Submitted,
		record.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create review record: %v", err)
	}
	return nil
}

// ListRecent returns the most recent review records, newest first
func (r *HistoryRepository) ListRecent(limit int) ([]models.ReviewRecord, error) {
	var records []models.ReviewRecord
	err := r.db.Select(&records,
		"SELECT * FROM review_history ORDER BY completed_at DESC LIMIT $1", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list review history: %v", err)
	}
	return records, nil
}
