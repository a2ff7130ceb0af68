package form

import "campussafety/internal/model"

const (
	// All is the wildcard value of every filter
	All = "all"
	// Unassigned selects questions without a section (or subSection)
	Unassigned = "__unassigned__"

	StatusAnswered   = "answered"
	StatusUnanswered = "unanswered"
)

// Filter narrows a page of questions. Empty fields behave like All.
type Filter struct {
	Page       int    `json:"page"`
	Section    string `json:"section"`
	SubSection string `json:"subSection"`
	Status     string `json:"status"`
}

// Selection is one page of visible questions
type Selection struct {
	Items       []model.QuestionDefinition `json:"items"`
	CurrentPage int                        `json:"current_page"`
	TotalPages  int                        `json:"total_pages"`
	PrevPage    *int                       `json:"prev_page"`
	NextPage    *int                       `json:"next_page"`
	TotalItems  int                        `json:"total_items"` // visible questions on every page
	Sections    []string                   `json:"sections"`    // distinct sections on the page
}

// SelectQuestions returns the visible questions of f.Page matching the
// section, subSection and status filters, in definition order.
func SelectQuestions(all []model.QuestionDefinition, answers Answers, f Filter) Selection {
	visible := Visible(all, answers)

	totalPages := 1
	for i := range visible {
		if p := visible[i].Page(); p > totalPages {
			totalPages = p
		}
	}
	page := f.Page
	if page < 1 {
		page = 1
	}

	sel := Selection{
		Items:       []model.QuestionDefinition{},
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  len(visible),
		Sections:    []string{},
	}
	if page > 1 {
		prev := page - 1
		sel.PrevPage = &prev
	}
	if page < totalPages {
		next := page + 1
		sel.NextPage = &next
	}

	seen := make(map[string]bool)
	for i := range visible {
		q := &visible[i]
		if q.Page() != page {
			continue
		}
		section := q.Section
		if section == "" {
			section = Unassigned
		}
		if !seen[section] {
			seen[section] = true
			sel.Sections = append(sel.Sections, section)
		}
		if !groupMatches(f.Section, q.Section) {
			continue
		}
		if !groupMatches(f.SubSection, q.SubSection) {
			continue
		}
		if !statusMatches(f.Status, q, answers) {
			continue
		}
		sel.Items = append(sel.Items, *q)
	}
	return sel
}

func groupMatches(filter, group string) bool {
	switch filter {
	case "", All:
		return true
	case Unassigned:
		return group == ""
	}
	return filter == group
}

func statusMatches(filter string, q *model.QuestionDefinition, answers Answers) bool {
	switch filter {
	case StatusAnswered:
		return IsAnswered(q, answers)
	case StatusUnanswered:
		return !IsAnswered(q, answers)
	}
	return true
}
