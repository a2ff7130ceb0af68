package main

import (
	"campussafety/internal/config"
	"campussafety/internal/log"
	"campussafety/internal/model"
	"campussafety/internal/repository"
	"campussafety/internal/service"
	"context"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	cfg := config.Load()
	log.SetLevel(cfg.LogLevel)

	account := os.Getenv("SEED_ACCOUNT")
	if account == "" {
		account = "demo-account"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(cfg.MongoDB)
	locations := repository.NewLocationRepo(db)
	assignments := repository.NewAssignmentRepo(db)

	for _, loc := range []model.Location{
		{ID: account + "-lincoln", AccountID: account, LocationName: "Lincoln Elementary"},
		{ID: account + "-roosevelt", AccountID: account, LocationName: "Roosevelt Middle School"},
		{ID: account + "-central", AccountID: account, LocationName: "Central High School"},
	} {
		if err := locations.Upsert(ctx, &loc); err != nil {
			log.Fatalf("failed to seed location %s: %v", loc.LocationName, err)
		}
	}

	assignment := &model.Assignment{
		Account:     account,
		Title:       "Annual Exterior Safety Assessment",
		Description: "Walk the perimeter and record the condition of doors, fencing and lighting.",
		Type:        model.AssignmentAssessment,
		Questions:   sampleQuestions(),
	}

	warnings, err := service.ValidateDefinition(assignment)
	if err != nil {
		log.Fatalf("sample definition is invalid: %v", err)
	}
	for _, w := range warnings {
		log.Warnf("sample definition: %s", w)
	}

	id, err := assignments.Create(ctx, assignment)
	if err != nil {
		log.Fatalf("failed to seed assignment: %v", err)
	}

	log.WithFields(log.Fields{"account": account, "assignment": id}).Info("seeded sample data")
}

func sampleQuestions() []model.QuestionDefinition {
	return []model.QuestionDefinition{
		{
			ID:        "intro",
			Label:     "Complete this walk during school hours. Photograph anything you rate as needing repair.",
			Component: model.ComponentStaticContent,
			Section:   "General",
		},
		{
			ID:        "school",
			Label:     "School",
			Component: model.ComponentSchoolSelector,
			Required:  true,
			Section:   "General",
		},
		{
			ID:        "completed_on",
			Label:     "Date of assessment",
			Component: model.ComponentCompletionDate,
			Required:  true,
			Section:   "General",
		},
		{
			ID:               "doors_locked",
			Label:            "Are all exterior doors locked during instruction?",
			Component:        model.ComponentOptions,
			Options:          model.OptionsOf("Yes;No;Not Applicable"),
			Required:         true,
			Comment:          true,
			PhotoUpload:      true,
			Section:          "Perimeter",
			SubSection:       "Doors",
			PageNumber:       2,
			DeficiencyValues: []string{"No"},
			DeficiencyLabel:  "Exterior doors left unlocked",
			Criticality:      "high",
		},
		{
			ID:          "doors_followup",
			Label:       "Which doors were unlocked?",
			Component:   model.ComponentTextarea,
			Required:    true,
			Section:     "Perimeter",
			SubSection:  "Doors",
			PageNumber:  2,
			Conditional: &model.Conditional{Field: "doors_locked", Value: model.ConditionValue{"No"}},
		},
		{
			ID:        "fence_condition",
			Label:     "Fence condition",
			Component: model.ComponentButtonSelect,
			Options: model.OptionsOf([]any{
				map[string]any{"label": "Good", "value": "good"},
				map[string]any{"label": "Needs repair", "value": "repair"},
				map[string]any{"label": "Missing", "value": "missing"},
			}),
			Section:          "Perimeter",
			SubSection:       "Fencing",
			PageNumber:       2,
			DeficiencyValues: []string{"repair", "missing"},
			Criticality:      "medium",
		},
		{
			ID:             "lighting",
			Label:          "Working exterior lights (out of 10)",
			Component:      model.ComponentRange,
			Section:        "Perimeter",
			SubSection:     "Lighting",
			PageNumber:     2,
			DeficiencyWhen: "value < 7",
			Criticality:    "low",
		},
		{
			ID:         "entrance_photo",
			Label:      "Photo of the main entrance",
			Component:  model.ComponentPhotoUpload,
			Section:    "Perimeter",
			PageNumber: 3,
		},
		{
			ID:         "notes",
			Label:      "Additional notes",
			Component:  model.ComponentTextarea,
			Section:    "Wrap-up",
			PageNumber: 3,
		},
	}
}
