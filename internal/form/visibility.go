package form

import (
	"campussafety/internal/model"
	"strings"
)

// IsVisible reports whether q is shown under the given answers. Malformed
// rules fail closed: a self reference or an unknown trigger hides q.
func IsVisible(q *model.QuestionDefinition, answers Answers, all []model.QuestionDefinition) bool {
	if q == nil {
		return false
	}
	rule := q.Conditional
	if rule == nil {
		return true
	}
	if rule.Field == q.ID {
		return false
	}
	trigger := findQuestion(all, rule.Field)
	if trigger == nil {
		return false
	}
	return matches(trigger, rule.Value, answers)
}

// Visible returns the visible subset of all in definition order
func Visible(all []model.QuestionDefinition, answers Answers) []model.QuestionDefinition {
	out := make([]model.QuestionDefinition, 0, len(all))
	for i := range all {
		if IsVisible(&all[i], answers, all) {
			out = append(out, all[i])
		}
	}
	return out
}

func matches(trigger *model.QuestionDefinition, want []string, answers Answers) bool {
	switch familyOf(trigger.Component) {
	case familyToggle:
		opts := ParseOptions(trigger.Options, trigger, nil)
		if len(opts) > 0 {
			for _, o := range opts {
				if !contains(want, o.Value) {
					continue
				}
				if v, ok := answers.Get(OptionKey(trigger.ID, o.Value)); ok && v.Kind == KindBool && v.Bool {
					return true
				}
			}
			return false
		}
		if !singleToggle(trigger, opts) {
			return matchesScalar(trigger.ID, want, answers)
		}
		v, ok := answers.Get(trigger.ID)
		if !ok {
			return false
		}
		s := v.String()
		for _, w := range want {
			if strings.EqualFold(s, w) {
				return true
			}
		}
		return false
	case familyTime:
		s := timeOf(trigger.ID, answers).String()
		return s != "" && contains(want, s)
	case familyText, familyChoice, familyRange, familyDate, familyFile, familyStatic, familyUnknown:
		return matchesScalar(trigger.ID, want, answers)
	}
	return false
}

func matchesScalar(id string, want []string, answers Answers) bool {
	v, ok := answers.Get(id)
	if !ok || v.Blank() {
		return false
	}
	return contains(want, v.String())
}

func findQuestion(all []model.QuestionDefinition, id string) *model.QuestionDefinition {
	for i := range all {
		if all[i].ID == id {
			return &all[i]
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
