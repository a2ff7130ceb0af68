package service

import (
	"campussafety/internal/fault"
	"campussafety/internal/model"
	"context"
	"strings"
	"testing"
)

func TestValidateDefinition(t *testing.T) {
	cases := []struct {
		name         string
		assignment   model.Assignment
		wantFields   []string
		wantWarnings int
	}{
		{
			name: "valid",
			assignment: model.Assignment{Title: "Drill", Questions: []model.QuestionDefinition{
				{ID: "q1", Component: model.ComponentText},
				{ID: "q2", Component: model.ComponentText, Conditional: &model.Conditional{Field: "q1", Value: model.ConditionValue{"x"}}},
			}},
		},
		{
			name: "missing title and bad type",
			assignment: model.Assignment{Type: "quiz", Questions: []model.QuestionDefinition{
				{ID: "q1", Component: model.ComponentText},
			}},
			wantFields: []string{"title", "type"},
		},
		{
			name: "duplicate and empty ids",
			assignment: model.Assignment{Title: "t", Questions: []model.QuestionDefinition{
				{ID: "q1", Component: model.ComponentText},
				{ID: "q1", Component: model.ComponentText},
				{Component: model.ComponentText},
			}},
			wantFields: []string{"questions[1].id", "questions[2].id"},
		},
		{
			name: "broken rule",
			assignment: model.Assignment{Title: "t", Questions: []model.QuestionDefinition{
				{ID: "q1", Component: model.ComponentNumber, DeficiencyWhen: "value >"},
			}},
			wantFields: []string{"questions[0].deficiencyWhen"},
		},
		{
			name: "degraded questions warn",
			assignment: model.Assignment{Title: "t", Questions: []model.QuestionDefinition{
				{ID: "q1", Component: "hologram"},
				{ID: "q2", Component: model.ComponentText, Conditional: &model.Conditional{Field: "q2", Value: model.ConditionValue{"x"}}},
				{ID: "q3", Component: model.ComponentText, Conditional: &model.Conditional{Field: "ghost", Value: model.ConditionValue{"x"}}},
			}},
			wantWarnings: 3,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			warnings, err := ValidateDefinition(&c.assignment)
			if len(c.wantFields) == 0 {
				if err != nil {
					t.Fatalf("unexpected error %v", err)
				}
				if len(warnings) != c.wantWarnings {
					t.Errorf("expected %d warnings, got %v", c.wantWarnings, warnings)
				}
				return
			}
			fields := fault.FieldsOf(err)
			if len(fields) != len(c.wantFields) {
				t.Fatalf("expected fields %v, got %v", c.wantFields, fields)
			}
			for _, f := range c.wantFields {
				if _, ok := fields[f]; !ok {
					t.Errorf("expected %s in %v", f, fields)
				}
			}
		})
	}
}

func TestValidateDefinition_DefaultType(t *testing.T) {
	a := &model.Assignment{Title: "t"}
	if _, err := ValidateDefinition(a); err != nil {
		t.Fatal(err)
	}
	if a.Type != model.AssignmentAssessment {
		t.Errorf("expected assessment default, got %q", a.Type)
	}
}

func TestAssignmentService_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAssignments()
	svc := NewAssignmentService(repo)

	a := &model.Assignment{Title: "Door audit", Questions: []model.QuestionDefinition{{ID: "q1", Component: model.ComponentText}}}
	if _, err := svc.Create(ctx, testClaims, a); err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.ID == "" || a.Account != "acct1" {
		t.Fatalf("expected stored assignment owned by acct1, got %+v", a)
	}

	if _, err := svc.Get(ctx, &model.AccountClaims{AccountID: "acct2"}, a.ID); !fault.IsNotFound(err) {
		t.Errorf("expected other account to get not found, got %v", err)
	}

	page, err := svc.List(ctx, testClaims, 0, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.TotalItems != 1 || len(page.Items) != 1 {
		t.Errorf("unexpected page %+v", page)
	}

	update := &model.Assignment{ID: a.ID, Title: "Door audit v2", Account: "someone-else"}
	if _, err := svc.Update(ctx, testClaims, update); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := svc.Get(ctx, testClaims, a.ID)
	if got.Title != "Door audit v2" || got.Account != "acct1" {
		t.Errorf("expected update to keep the owner, got %+v", got)
	}

	if err := svc.Delete(ctx, testClaims, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, testClaims, a.ID); !fault.IsNotFound(err) {
		t.Errorf("expected deleted assignment to be gone, got %v", err)
	}
}

func TestAssignmentService_CreateInvalid(t *testing.T) {
	repo := newFakeAssignments()
	svc := NewAssignmentService(repo)

	_, err := svc.Create(context.Background(), testClaims, &model.Assignment{})
	if fault.TypeOf(err) != fault.ErrValidation || !strings.Contains(fault.Message(err), "invalid") {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(repo.items) != 0 {
		t.Error("expected nothing stored")
	}
}
