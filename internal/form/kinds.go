package form

import "campussafety/internal/model"

// family groups components that share answer typing rules
type family int

const (
	familyUnknown family = iota
	familyText           // free text typed inputs
	familyChoice         // single choice from options
	familyRange
	familyDate
	familyTime
	familyToggle // independent per-option booleans, or one boolean without options
	familyFile
	familyStatic
)

var families = map[model.Component]family{
	model.ComponentText:              familyText,
	model.ComponentTextarea:          familyText,
	model.ComponentEmail:             familyText,
	model.ComponentURL:               familyText,
	model.ComponentTelephone:         familyText,
	model.ComponentNumber:            familyText,
	model.ComponentDateTime:          familyText,
	model.ComponentSelect:            familyChoice,
	model.ComponentOptions:           familyChoice,
	model.ComponentButtonSelect:      familyChoice,
	model.ComponentSchoolSelector:    familyChoice,
	model.ComponentRange:             familyRange,
	model.ComponentDate:              familyDate,
	model.ComponentCompletionDate:    familyDate,
	model.ComponentTime:              familyTime,
	model.ComponentCompletionTime:    familyTime,
	model.ComponentCheckbox:          familyToggle,
	model.ComponentMultiButtonSelect: familyToggle,
	model.ComponentPhotoUpload:       familyFile,
	model.ComponentStaticContent:     familyStatic,
	model.ComponentStaticImage:       familyStatic,
}

func familyOf(c model.Component) family {
	if f, ok := families[c]; ok {
		return f
	}
	return familyUnknown
}

// singleToggle reports whether q is answered with one boolean at its id.
// Only a checkbox without options is; a multiButtonSelect without options
// has no toggles and takes a plain scalar.
func singleToggle(q *model.QuestionDefinition, opts []model.Option) bool {
	return len(opts) == 0 && q.Component == model.ComponentCheckbox
}

// Known reports whether the component tag is supported
func Known(c model.Component) bool {
	return familyOf(c) != familyUnknown
}

// IsStatic reports whether the component only displays content
func IsStatic(c model.Component) bool {
	return familyOf(c) == familyStatic
}
