package models

// Evaluation is the scoring service's verdict on a single answer.
// ScoreAchieved and NewLearningStage are pointers because the service may
// omit either field.
type Evaluation struct {
	IsCorrect        bool     `json:"isCorrect"`
	ScoreAchieved    *float64 `json:"scoreAchieved"` // 0-100
	Feedback         string   `json:"feedback"`
	NewLearningStage *int     `json:"newLearningStage,omitempty"`
}
