package service

import (
	"campussafety/internal/form"
	"campussafety/internal/model"
	"encoding/json"
	"mime/multipart"
	"time"
)

// SubmissionDateLayout is the MM/DD/YYYY date sent with a completion
const SubmissionDateLayout = "01/02/2006"

// CompletionPayload is a normalized submission ready for the completion
// endpoint
type CompletionPayload struct {
	Content      map[string]any
	CommentsData map[string]string
	CompletedBy  string
	Account      string
	Status       model.CompletionStatus
	Date         string
	LocationName string
	Deficiencies []model.Deficiency
}

// BuildPayload normalizes every visible question of def, on all pages
func BuildPayload(def *form.Definition, answers form.Answers, claims *model.AccountClaims, now time.Time, loc *time.Location) (*CompletionPayload, []form.RuleWarning) {
	visible := def.Visible(answers)
	normalized := form.Normalize(visible, answers)
	deficiencies, warnings := form.Deficiencies(visible, normalized)

	if loc != nil {
		now = now.In(loc)
	}
	return &CompletionPayload{
		Content:      normalized.Content,
		CommentsData: normalized.Comments,
		CompletedBy:  claims.Email,
		Account:      claims.AccountID,
		Status:       model.CompletionCompleted,
		Date:         now.Format(SubmissionDateLayout),
		LocationName: def.LocationName(answers),
		Deficiencies: deficiencies,
	}, warnings
}

// WriteMultipart writes the completion form fields. locationName is only
// sent when a location was chosen.
func (p *CompletionPayload) WriteMultipart(w *multipart.Writer) error {
	content, err := json.Marshal(p.Content)
	if err != nil {
		return err
	}
	comments, err := json.Marshal(p.CommentsData)
	if err != nil {
		return err
	}

	fields := [][2]string{
		{"content", string(content)},
		{"commentsData", string(comments)},
		{"completedBy", p.CompletedBy},
		{"account", p.Account},
		{"status", string(p.Status)},
		{"date", p.Date},
	}
	if p.LocationName != "" {
		fields = append(fields, [2]string{"locationName", p.LocationName})
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return err
		}
	}
	return nil
}

// Completion converts the payload into the stored completion record
func (p *CompletionPayload) Completion(assignmentID string) *model.Completion {
	deficiencies := p.Deficiencies
	if deficiencies == nil {
		deficiencies = []model.Deficiency{}
	}
	return &model.Completion{
		AssignmentID: assignmentID,
		Account:      p.Account,
		CompletedBy:  p.CompletedBy,
		Status:       p.Status,
		Date:         p.Date,
		LocationName: p.LocationName,
		Content:      p.Content,
		CommentsData: p.CommentsData,
		Deficiencies: deficiencies,
	}
}
