package models

// UUEFocus is the pedagogical review stage a question currently sits in
type UUEFocus string

const (
	// FocusUnderstand covers the earliest learning stages
	FocusUnderstand UUEFocus = "Understand"
	// FocusUse covers the middle learning stages
	FocusUse UUEFocus = "Use"
	// FocusExplore covers the latest learning stages
	FocusExplore UUEFocus = "Explore"
)

// QuestionOutcome records the result of one answered question in a review
// session. Outcomes are appended in answer order and never mutated.
type QuestionOutcome struct {
	QuestionID    int64    `json:"questionId"`
	UserAnswer    string   `json:"userAnswer"`
	ScoreAchieved int      `json:"scoreAchieved"` // 0-100
	UUEFocus      UUEFocus `json:"uueFocus"`
}

// ReviewSubmission is the payload sent to the backend when a session completes
type ReviewSubmission struct {
	QuestionSetID int64             `json:"questionSetId"`
	Outcomes      []QuestionOutcome `json:"outcomes"`
	TimeSpent     int               `json:"timeSpent"` // seconds
}
