package service

import (
	"campussafety/internal/fault"
	"campussafety/internal/form"
	"campussafety/internal/model"
	"campussafety/internal/pkg/paginator"
	"campussafety/internal/repository"
	"context"
	"fmt"
)

// AssignmentService handles assignment CRUD operations
type AssignmentService struct {
	repo repository.AssignmentRepo
}

// NewAssignmentService creates a new assignment service
func NewAssignmentService(repo repository.AssignmentRepo) *AssignmentService {
	return &AssignmentService{repo: repo}
}

// Create validates and stores a new assignment for the caller's account
func (s *AssignmentService) Create(ctx context.Context, claims *model.AccountClaims, a *model.Assignment) ([]string, error) {
	a.Account = claims.AccountID
	warnings, err := ValidateDefinition(a)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.Create(ctx, a); err != nil {
		return nil, fault.NewInternalError("failed to create assignment", err)
	}
	return warnings, nil
}

// Get retrieves an assignment owned by the caller's account
func (s *AssignmentService) Get(ctx context.Context, claims *model.AccountClaims, id string) (*model.Assignment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fault.NewInternalError("failed to load assignment", err)
	}
	if a == nil || a.Account != claims.AccountID {
		return nil, fault.NewNotFound("assignment not found")
	}
	return a, nil
}

// List returns one page of the caller's assignments, without questions
func (s *AssignmentService) List(ctx context.Context, claims *model.AccountClaims, page, limit int) (*paginator.PaginatedResponse[*model.Assignment], error) {
	page, limit = paginator.Bounds(page, limit)
	items, total, err := s.repo.GetByAccount(ctx, claims.AccountID, page, limit)
	if err != nil {
		return nil, fault.NewInternalError("failed to list assignments", err)
	}
	return paginator.NewPage(items, page, limit, total), nil
}

// Update replaces the definition of an existing assignment
func (s *AssignmentService) Update(ctx context.Context, claims *model.AccountClaims, a *model.Assignment) ([]string, error) {
	existing, err := s.Get(ctx, claims, a.ID)
	if err != nil {
		return nil, err
	}
	a.Account = existing.Account
	a.CreatedAt = existing.CreatedAt
	warnings, err := ValidateDefinition(a)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fault.NewInternalError("failed to update assignment", err)
	}
	return warnings, nil
}

// Delete deletes an assignment
func (s *AssignmentService) Delete(ctx context.Context, claims *model.AccountClaims, id string) error {
	if _, err := s.Get(ctx, claims, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fault.NewInternalError("failed to delete assignment", err)
	}
	return nil
}

// ValidateDefinition rejects definitions the engine cannot address (missing
// or repeated ids, broken deficiency rules) and warns about ones it will
// degrade at render time.
func ValidateDefinition(a *model.Assignment) ([]string, error) {
	fields := map[string]string{}
	warnings := []string{}

	if a.Title == "" {
		fields["title"] = "title is required"
	}
	switch a.Type {
	case model.AssignmentAssessment, model.AssignmentDrill, model.AssignmentInspection:
	case "":
		a.Type = model.AssignmentAssessment
	default:
		fields["type"] = fmt.Sprintf("unknown assignment type %q", a.Type)
	}

	seen := make(map[string]bool, len(a.Questions))
	for i := range a.Questions {
		q := &a.Questions[i]
		path := fmt.Sprintf("questions[%d]", i)
		if q.ID == "" {
			fields[path+".id"] = "id is required"
			continue
		}
		if seen[q.ID] {
			fields[path+".id"] = fmt.Sprintf("duplicate id %q", q.ID)
		}
		seen[q.ID] = true

		if !form.Known(q.Component) {
			warnings = append(warnings, fmt.Sprintf("%s: unknown component %q is never answered", q.ID, q.Component))
		}
		if q.DeficiencyWhen != "" {
			if err := form.CompileRule(q.DeficiencyWhen); err != nil {
				fields[path+".deficiencyWhen"] = err.Error()
			}
		}
	}

	for i := range a.Questions {
		q := &a.Questions[i]
		if q.Conditional == nil {
			continue
		}
		switch {
		case q.Conditional.Field == q.ID:
			warnings = append(warnings, fmt.Sprintf("%s: conditional references itself, question is always hidden", q.ID))
		case !seen[q.Conditional.Field]:
			warnings = append(warnings, fmt.Sprintf("%s: conditional references unknown question %q, question is always hidden", q.ID, q.Conditional.Field))
		}
	}

	if len(fields) > 0 {
		return nil, fault.NewValidationError("invalid assignment definition", fields)
	}
	return warnings, nil
}
