package model

import "time"

// UploadedFile is a photo attached to a photoUpload question
type UploadedFile struct {
	Name       string     `json:"name" bson:"name"`
	URL        string     `json:"url" bson:"url"`
	UploadDate *time.Time `json:"uploadDate,omitempty" bson:"uploadDate,omitempty"`
	FileSize   int64      `json:"fileSize,omitempty" bson:"fileSize,omitempty"`
	QuestionID string     `json:"questionId" bson:"questionId"`
}

// Draft is a saved, not yet submitted, answer set. Answers maps each state
// key to the tagged JSON encoding of its value.
type Draft struct {
	ID            string                  `json:"id" bson:"_id,omitempty"`
	AssignmentID  string                  `json:"assignmentId" bson:"assignmentId"`
	Account       string                  `json:"account" bson:"account"`
	Answers       map[string]string       `json:"answers" bson:"answers"`
	UploadedFiles map[string]UploadedFile `json:"uploadedFiles" bson:"uploadedFiles"`
	SavedAt       time.Time               `json:"savedAt" bson:"savedAt"`
}
