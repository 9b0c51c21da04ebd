package models

import "time"

// QuestionSet represents a named collection of questions inside a folder
type QuestionSet struct {
	ID        int64     `json:"id"`
	FolderID  int64     `json:"folderId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
