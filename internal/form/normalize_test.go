package form

import (
	"campussafety/internal/model"
	"reflect"
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	questions := []model.QuestionDefinition{
		{ID: "name", Component: model.ComponentText, Comment: true},
		{ID: "count", Component: model.ComponentNumber},
		{ID: "rating", Component: model.ComponentRange},
		{ID: "hazards", Component: model.ComponentCheckbox, Options: model.OptionsOf([]any{
			map[string]any{"label": "Fire", "value": "fire"},
			map[string]any{"label": "Flood", "value": "flood"},
			map[string]any{"label": "Wind", "value": "wind"},
		})},
		{ID: "ack", Component: model.ComponentCheckbox},
		{ID: "when", Component: model.ComponentDate},
		{ID: "bad_date", Component: model.ComponentCompletionDate},
		{ID: "Q3", Component: model.ComponentTime},
		{ID: "partial", Component: model.ComponentCompletionTime},
		{ID: "photo", Component: model.ComponentPhotoUpload},
		{ID: "nophoto", Component: model.ComponentPhotoUpload},
		{ID: "skipped", Component: model.ComponentSelect, Comment: true},
	}

	st := state(map[string]Value{
		"name":            Scalar("Ada"),
		"name_comment":    Scalar("checked twice"),
		"count":           Number(4),
		"rating":          Number(0),
		"hazards.fire":    Bool(true),
		"hazards.flood":   Bool(false),
		"hazards.wind":    Bool(true),
		"ack":             Bool(true),
		"when":            Date(time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)),
		"bad_date":        Scalar("2024-03-09"),
		"Q3.hour":         Scalar("5"),
		"Q3.minute":       Scalar("30"),
		"Q3.period":       Scalar("PM"),
		"partial.hour":    Scalar("5"),
		"skipped_comment": Scalar(""),
	})
	st.Files["photo"] = model.UploadedFile{Name: "door.jpg", URL: "/v1/files/abc", QuestionID: "photo"}

	got := Normalize(questions, st)

	want := map[string]any{
		"name":     "Ada",
		"count":    4.0,
		"rating":   0.0,
		"hazards":  []string{"fire", "wind"},
		"ack":      true,
		"when":     "2024-03-09",
		"bad_date": "",
		"Q3":       "5:30 PM",
		"partial":  "",
		"photo":    "door.jpg",
		"nophoto":  "",
		"skipped":  "",
	}
	if !reflect.DeepEqual(got.Content, want) {
		t.Errorf("content mismatch\n got: %#v\nwant: %#v", got.Content, want)
	}
	if want := map[string]string{"name": "checked twice"}; !reflect.DeepEqual(got.Comments, want) {
		t.Errorf("expected comments %v, got %v", want, got.Comments)
	}
}

func TestNormalize_TimeScenario(t *testing.T) {
	q := []model.QuestionDefinition{{ID: "Q3", Component: model.ComponentTime}}
	st := state(map[string]Value{"Q3.hour": Scalar("5"), "Q3.minute": Scalar("30"), "Q3.period": Scalar("PM")})

	if got := Normalize(q, st).Content["Q3"]; got != "5:30 PM" {
		t.Errorf("expected \"5:30 PM\", got %v", got)
	}
}

func TestNormalize_EmptyToggleSelection(t *testing.T) {
	q := []model.QuestionDefinition{{ID: "Q1", Component: model.ComponentMultiButtonSelect, Options: model.OptionsOf("a;b")}}
	got := Normalize(q, NewState()).Content["Q1"]
	list, ok := got.([]string)
	if !ok || len(list) != 0 {
		t.Errorf("expected empty selection list, got %#v", got)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	q := []model.QuestionDefinition{
		{ID: "a", Component: model.ComponentText, Comment: true},
		{ID: "b", Component: model.ComponentCheckbox, Options: model.OptionsOf("x;y")},
	}
	st := state(map[string]Value{"a": Scalar("v"), "a_comment": Scalar("c"), "b.y": Bool(true)})

	first := Normalize(q, st)
	second := Normalize(q, st)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical output, got %v and %v", first, second)
	}
}

func TestNormalize_HiddenAnswersExcludedNotErased(t *testing.T) {
	def := NewDefinition([]model.QuestionDefinition{
		{ID: "Q1", Component: model.ComponentOptions, Options: model.OptionsOf("yes;no")},
		{ID: "Q2", Component: model.ComponentText, Conditional: conditional("Q1", "yes")},
	}, nil)

	store := NewStore(nil)
	store.Set("Q1", Scalar("yes"))
	store.Set("Q2", Scalar("broken latch"))
	if got := def.Normalize(store).Content["Q2"]; got != "broken latch" {
		t.Fatalf("expected visible answer in payload, got %v", got)
	}

	store.Set("Q1", Scalar("no"))
	if _, ok := def.Normalize(store).Content["Q2"]; ok {
		t.Error("expected hidden question to be left out of the payload")
	}
	if v, ok := store.Get("Q2"); !ok || v.String() != "broken latch" {
		t.Error("expected hidden answer to stay in state")
	}

	store.Set("Q1", Scalar("yes"))
	if got := def.Normalize(store).Content["Q2"]; got != "broken latch" {
		t.Errorf("expected retained answer once visible again, got %v", got)
	}
}

func TestNormalize_TimePartsOverrideDefault(t *testing.T) {
	questions := []model.QuestionDefinition{{ID: "ct", Component: model.ComponentCompletionTime}}
	store := NewStore(Defaults(questions, time.Date(2024, 5, 1, 14, 5, 0, 0, time.UTC), time.UTC))

	for key, raw := range map[string]any{"ct.hour": "9", "ct.minute": "30", "ct.period": "AM"} {
		v, ok := Coerce(&questions[0], key, raw)
		if !ok {
			t.Fatalf("coerce %s failed", key)
		}
		store.Set(key, v)
	}

	if got := Normalize(questions, store).Content["ct"]; got != "9:30 AM" {
		t.Errorf("expected \"9:30 AM\", got %v", got)
	}
	if !IsAnswered(&questions[0], store) {
		t.Error("expected completed time parts to count as answered")
	}
}

func TestNormalize_MultiButtonSelectWithoutOptions(t *testing.T) {
	q := []model.QuestionDefinition{{ID: "gates", Component: model.ComponentMultiButtonSelect}}

	if got := Normalize(q, state(map[string]Value{"gates": Scalar("north")})).Content["gates"]; got != "north" {
		t.Errorf("expected raw scalar, got %#v", got)
	}
	if got := Normalize(q, NewState()).Content["gates"]; got != "" {
		t.Errorf("expected empty string, got %#v", got)
	}
}
