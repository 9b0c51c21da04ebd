package models

import "time"

// ReviewRecord is the local history entry written after a review session
// completes. It is a log of what happened, not resume state.
type ReviewRecord struct {
	ID              string    `json:"id" db:"id"`
	QuestionSetID   int64     `json:"question_set_id" db:"question_set_id"`
	QuestionSetName string    `json:"question_set_name" db:"question_set_name"`
	TotalQuestions  int       `json:"total_questions" db:"total_questions"`
	AverageScore    int       `json:"average_score" db:"average_score"`
	TimeSpent       int       `json:"time_spent" db:"time_spent"` // seconds
	Submitted       bool      `json:"submitted" db:"submitted"`
	CompletedAt     time.Time `json:"completed_at" db:"completed_at"`
}
