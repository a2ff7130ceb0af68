package service

import (
	"campussafety/internal/fault"
	"campussafety/internal/model"
	"campussafety/internal/repository"
	"context"
	"sort"
)

// DeficiencySummary counts flagged answers across completions
type DeficiencySummary struct {
	Total         int             `json:"total"`
	ByCriticality map[string]int  `json:"byCriticality"`
	ByQuestion    []QuestionTally `json:"byQuestion"`
}

// QuestionTally is the number of times one question was flagged
type QuestionTally struct {
	QuestionID string `json:"questionId"`
	Label      string `json:"label"`
	Count      int    `json:"count"`
}

// AssignmentReport lists an assignment's completions
type AssignmentReport struct {
	AssignmentID string              `json:"assignmentId"`
	Title        string              `json:"title"`
	Completions  []*model.Completion `json:"completions"`
	Deficiencies DeficiencySummary   `json:"deficiencies"`
}

type ReportService struct {
	assignments repository.AssignmentRepo
	completions repository.CompletionRepo
}

func NewReportService(assignments repository.AssignmentRepo, completions repository.CompletionRepo) *ReportService {
	return &ReportService{assignments: assignments, completions: completions}
}

// Report returns the caller's completions of assignmentID with their
// deficiencies summarized
func (s *ReportService) Report(ctx context.Context, assignmentID string, claims *model.AccountClaims) (*AssignmentReport, error) {
	a, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, fault.NewInternalError("failed to load assignment", err)
	}
	if a == nil || a.Account != claims.AccountID {
		return nil, fault.NewNotFound("assignment not found")
	}

	completions, err := s.completions.GetByAssignment(ctx, assignmentID, claims.AccountID)
	if err != nil {
		return nil, fault.NewInternalError("failed to load completions", err)
	}
	if completions == nil {
		completions = []*model.Completion{}
	}

	return &AssignmentReport{
		AssignmentID: assignmentID,
		Title:        a.Title,
		Completions:  completions,
		Deficiencies: Summarize(completions),
	}, nil
}

// Summarize tallies deficiencies. Questions are ordered by count, then id.
// Deficiencies without a criticality are counted as "unrated".
func Summarize(completions []*model.Completion) DeficiencySummary {
	summary := DeficiencySummary{
		ByCriticality: map[string]int{},
		ByQuestion:    []QuestionTally{},
	}
	tallies := map[string]*QuestionTally{}

	for _, c := range completions {
		for _, d := range c.Deficiencies {
			summary.Total++
			crit := d.Criticality
			if crit == "" {
				crit = "unrated"
			}
			summary.ByCriticality[crit]++

			t, ok := tallies[d.QuestionID]
			if !ok {
				t = &QuestionTally{QuestionID: d.QuestionID, Label: d.Label}
				tallies[d.QuestionID] = t
			}
			t.Count++
		}
	}

	for _, t := range tallies {
		summary.ByQuestion = append(summary.ByQuestion, *t)
	}
	sort.Slice(summary.ByQuestion, func(i, j int) bool {
		a, b := summary.ByQuestion[i], summary.ByQuestion[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.QuestionID < b.QuestionID
	})
	return summary
}
