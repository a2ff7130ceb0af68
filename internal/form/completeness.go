package form

import (
	"campussafety/internal/model"
	"strings"
)

// IsAnswered reports whether q counts as answered for progress and status
// filtering. It does not enforce required.
func IsAnswered(q *model.QuestionDefinition, answers Answers) bool {
	if q == nil {
		return false
	}
	switch familyOf(q.Component) {
	case familyText:
		v, ok := answers.Get(q.ID)
		return ok && strings.TrimSpace(v.String()) != ""
	case familyChoice:
		v, ok := answers.Get(q.ID)
		return ok && v.String() != ""
	case familyRange:
		v, ok := answers.Get(q.ID)
		return ok && !(v.Kind == KindScalar && v.Text == "")
	case familyDate:
		v, ok := answers.Get(q.ID)
		return ok && v.Kind == KindDate && !v.Date.IsZero()
	case familyTime:
		return timeOf(q.ID, answers).Complete()
	case familyToggle:
		opts := ParseOptions(q.Options, q, nil)
		if len(opts) > 0 {
			for _, o := range opts {
				if v, ok := answers.Get(OptionKey(q.ID, o.Value)); ok && v.Kind == KindBool && v.Bool {
					return true
				}
			}
			return false
		}
		if !singleToggle(q, opts) {
			return false
		}
		v, ok := answers.Get(q.ID)
		return ok && v.Kind == KindBool && v.Bool
	case familyFile:
		_, ok := answers.File(q.ID)
		return ok
	case familyStatic, familyUnknown:
		return false
	}
	return false
}

// Progress summarizes completion over the visible questions
type Progress struct {
	Answered int     `json:"answered"`
	Visible  int     `json:"visible"`
	Percent  float64 `json:"percent"`
}

// ComputeProgress counts visible and answered questions. Percent is 0 when
// nothing is visible.
func ComputeProgress(all []model.QuestionDefinition, answers Answers) Progress {
	var p Progress
	for i := range all {
		if !IsVisible(&all[i], answers, all) {
			continue
		}
		p.Visible++
		if IsAnswered(&all[i], answers) {
			p.Answered++
		}
	}
	if p.Visible > 0 {
		p.Percent = float64(p.Answered) / float64(p.Visible) * 100
	}
	return p
}

// timeOf reads a time answer stored whole at id. A part stored under its
// own sub-key replaces that part of the whole value.
func timeOf(id string, answers Answers) TimeValue {
	var t TimeValue
	if v, ok := answers.Get(id); ok && v.Kind == KindTime {
		t = v.Time
	}
	if v, ok := answers.Get(SubKey(id, "hour")); ok {
		t.Hour = v.String()
	}
	if v, ok := answers.Get(SubKey(id, "minute")); ok {
		t.Minute = v.String()
	}
	if v, ok := answers.Get(SubKey(id, "period")); ok {
		t.Period = v.String()
	}
	return t
}
