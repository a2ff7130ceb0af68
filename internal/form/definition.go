package form

import (
	"campussafety/internal/model"
	"strings"
	"time"
)

// Definition binds an assignment's questions to the account's locations
type Definition struct {
	questions []model.QuestionDefinition
	locations []model.Location
	byID      map[string]int
}

// NewDefinition indexes questions by id. When ids repeat the first wins.
func NewDefinition(questions []model.QuestionDefinition, locations []model.Location) *Definition {
	d := &Definition{
		questions: questions,
		locations: locations,
		byID:      make(map[string]int, len(questions)),
	}
	for i := range questions {
		if _, ok := d.byID[questions[i].ID]; !ok {
			d.byID[questions[i].ID] = i
		}
	}
	return d
}

func (d *Definition) Questions() []model.QuestionDefinition { return d.questions }

func (d *Definition) Question(id string) (*model.QuestionDefinition, bool) {
	i, ok := d.byID[id]
	if !ok {
		return nil, false
	}
	return &d.questions[i], true
}

// QuestionForKey resolves the question owning a state key: the id itself,
// its comment key, or an "id.sub" key. The longest matching id wins.
func (d *Definition) QuestionForKey(key string) (*model.QuestionDefinition, bool) {
	if q, ok := d.Question(key); ok {
		return q, true
	}
	if strings.HasSuffix(key, "_comment") {
		if q, ok := d.Question(strings.TrimSuffix(key, "_comment")); ok && q.Comment {
			return q, true
		}
	}
	for i := len(key) - 1; i > 0; i-- {
		if key[i] != '.' {
			continue
		}
		if q, ok := d.Question(key[:i]); ok {
			return q, true
		}
	}
	return nil, false
}

func (d *Definition) Options(q *model.QuestionDefinition) []model.Option {
	return ParseOptions(q.Options, q, d.locations)
}

func (d *Definition) IsVisible(q *model.QuestionDefinition, answers Answers) bool {
	return IsVisible(q, answers, d.questions)
}

func (d *Definition) Visible(answers Answers) []model.QuestionDefinition {
	return Visible(d.questions, answers)
}

func (d *Definition) Select(answers Answers, f Filter) Selection {
	return SelectQuestions(d.questions, answers, f)
}

func (d *Definition) Progress(answers Answers) Progress {
	return ComputeProgress(d.questions, answers)
}

// Normalize normalizes over every visible question, on all pages
func (d *Definition) Normalize(answers Answers) Normalized {
	return Normalize(d.Visible(answers), answers)
}

func (d *Definition) Deficiencies(answers Answers) ([]model.Deficiency, []RuleWarning) {
	visible := d.Visible(answers)
	return Deficiencies(visible, Normalize(visible, answers))
}

func (d *Definition) Defaults(now time.Time, loc *time.Location) *State {
	return Defaults(d.questions, now, loc)
}

// Coerce types a client value for key. The bool result is false when the
// key belongs to no question or the value has no usable shape.
func (d *Definition) Coerce(key string, raw any) (Value, bool) {
	q, ok := d.QuestionForKey(key)
	if !ok {
		return Value{}, false
	}
	return Coerce(q, key, raw)
}

// MissingRequired lists visible required questions that are not answered.
// Static questions never count.
func (d *Definition) MissingRequired(answers Answers) []model.QuestionDefinition {
	var out []model.QuestionDefinition
	for _, q := range d.Visible(answers) {
		if !q.Required || IsStatic(q.Component) {
			continue
		}
		if !IsAnswered(&q, answers) {
			out = append(out, q)
		}
	}
	return out
}

// SchoolSelector returns the first visible schoolSelector question
func (d *Definition) SchoolSelector(answers Answers) (*model.QuestionDefinition, bool) {
	for i := range d.questions {
		q := &d.questions[i]
		if q.Component == model.ComponentSchoolSelector && IsVisible(q, answers, d.questions) {
			return q, true
		}
	}
	return nil, false
}

// HasSchoolSelector reports whether any question picks a location
func (d *Definition) HasSchoolSelector() bool {
	for i := range d.questions {
		if d.questions[i].Component == model.ComponentSchoolSelector {
			return true
		}
	}
	return false
}

// LocationName returns the name of the location chosen in the visible
// schoolSelector question, or "" when none is answered.
func (d *Definition) LocationName(answers Answers) string {
	q, ok := d.SchoolSelector(answers)
	if !ok || !IsAnswered(q, answers) {
		return ""
	}
	v, _ := answers.Get(q.ID)
	id := v.String()
	for _, l := range d.locations {
		if l.ID == id {
			return l.LocationName
		}
	}
	return id
}
