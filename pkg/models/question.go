package models

import "time"

// QuestionType classifies how a question should be presented and answered
type QuestionType string

const (
	// ShortAnswer is a free-text question
	ShortAnswer QuestionType = "SHORT_ANSWER"
	// TrueFalse is a question answered with "true" or "false"
	TrueFalse QuestionType = "TRUE_FALSE"
	// MultipleChoice is a question with enumerated options in its text
	MultipleChoice QuestionType = "MULTIPLE_CHOICE"
)

// Question represents a single question stored in a question set
type Question struct {
	ID            int64     `json:"id"`
	QuestionSetID int64     `json:"questionSetId"`
	Text          string    `json:"text"`
	Answer        string    `json:"answer"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ReviewQuestion is a question prepared for a review session. The type and
// options are derived once when the session loads and never change afterwards.
type ReviewQuestion struct {
	Question
	Type    QuestionType `json:"type"`
	Options []string     `json:"options,omitempty"`
}
