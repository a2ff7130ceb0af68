package form

import "campussafety/internal/model"

// Normalized is the submission shape of an Answer State
type Normalized struct {
	Content  map[string]any    `json:"content"`
	Comments map[string]string `json:"commentsData"`
}

// Normalize maps answers of the visible questions to their wire values.
// Answers of hidden questions stay in state but are not emitted.
func Normalize(visible []model.QuestionDefinition, answers Answers) Normalized {
	out := Normalized{
		Content:  make(map[string]any, len(visible)),
		Comments: make(map[string]string),
	}
	for i := range visible {
		q := &visible[i]
		out.Content[q.ID] = normalizeOne(q, answers)
		if q.Comment {
			if v, ok := answers.Get(CommentKey(q.ID)); ok {
				if s := v.String(); s != "" {
					out.Comments[q.ID] = s
				}
			}
		}
	}
	return out
}

func normalizeOne(q *model.QuestionDefinition, answers Answers) any {
	switch familyOf(q.Component) {
	case familyToggle:
		opts := ParseOptions(q.Options, q, nil)
		if len(opts) > 0 {
			selected := []string{}
			for _, o := range opts {
				if v, ok := answers.Get(OptionKey(q.ID, o.Value)); ok && v.Kind == KindBool && v.Bool {
					selected = append(selected, o.Value)
				}
			}
			return selected
		}
		if !singleToggle(q, opts) {
			return rawOf(q.ID, answers)
		}
		v, ok := answers.Get(q.ID)
		return ok && v.Kind == KindBool && v.Bool
	case familyDate:
		if v, ok := answers.Get(q.ID); ok && v.Kind == KindDate && !v.Date.IsZero() {
			return v.Date.Format(DateLayout)
		}
		return ""
	case familyTime:
		return timeOf(q.ID, answers).String()
	case familyFile:
		if f, ok := answers.File(q.ID); ok {
			return f.Name
		}
		return ""
	case familyText, familyChoice, familyRange, familyStatic, familyUnknown:
		return rawOf(q.ID, answers)
	}
	return ""
}

func rawOf(id string, answers Answers) any {
	if v, ok := answers.Get(id); ok {
		return v.Raw()
	}
	return ""
}
