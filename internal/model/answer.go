package model

import "time"

// CompletionStatus is the lifecycle state reported to the completion endpoint
type CompletionStatus string

const (
	CompletionCompleted CompletionStatus = "completed"
)

// Deficiency is an answer flagged as a safety or compliance concern
type Deficiency struct {
	QuestionID  string `json:"questionId" bson:"questionId"`
	Label       string `json:"label" bson:"label"`
	Criticality string `json:"criticality,omitempty" bson:"criticality,omitempty"`
	Value       string `json:"value" bson:"value"`
}

// Completion is a submitted assignment
type Completion struct {
	ID           string            `json:"id" bson:"_id,omitempty"`
	AssignmentID string            `json:"assignmentId" bson:"assignmentId"`
	Account      string            `json:"account" bson:"account"`
	CompletedBy  string            `json:"completedBy" bson:"completedBy"`
	Status       CompletionStatus  `json:"status" bson:"status"`
	Date         string            `json:"date" bson:"date"` // MM/DD/YYYY
	LocationName string            `json:"locationName,omitempty" bson:"locationName,omitempty"`
	Content      map[string]any    `json:"content" bson:"content"`
	CommentsData map[string]string `json:"commentsData" bson:"commentsData"`
	Deficiencies []Deficiency      `json:"deficiencies" bson:"deficiencies"`
	SubmittedAt  time.Time         `json:"submittedAt" bson:"submittedAt"`
}

// SubmitResult is the completion endpoint's reply
type SubmitResult struct {
	Success      bool   `json:"success"`
	Error        string `json:"error,omitempty"`
	CompletionID string `json:"completionId,omitempty"`
}
