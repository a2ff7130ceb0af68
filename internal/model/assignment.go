package model

import "time"

// AssignmentType tells dashboards how to group an assignment
type AssignmentType string

const (
	AssignmentAssessment AssignmentType = "assessment"
	AssignmentDrill      AssignmentType = "drill"
	AssignmentInspection AssignmentType = "inspection"
)

// Assignment is a form template handed to an account for completion
type Assignment struct {
	ID          string               `json:"id" bson:"_id,omitempty"`
	Account     string               `json:"account" bson:"account"`
	Title       string               `json:"title" bson:"title"`
	Description string               `json:"description,omitempty" bson:"description,omitempty"`
	Type        AssignmentType       `json:"type" bson:"type"`
	Questions   []QuestionDefinition `json:"questions" bson:"questions"`
	CreatedAt   time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt" bson:"updatedAt"`
}
