package model

// Component selects the input variant of a question
type Component string

const (
	ComponentText              Component = "text"
	ComponentTextarea          Component = "textarea"
	ComponentEmail             Component = "email"
	ComponentURL               Component = "url"
	ComponentTelephone         Component = "telephone"
	ComponentNumber            Component = "number"
	ComponentDateTime          Component = "datetime"
	ComponentSelect            Component = "select"
	ComponentOptions           Component = "options" // radio group
	ComponentCheckbox          Component = "checkbox"
	ComponentButtonSelect      Component = "buttonSelect"
	ComponentMultiButtonSelect Component = "multiButtonSelect"
	ComponentRange             Component = "range"
	ComponentDate              Component = "date"
	ComponentCompletionDate    Component = "completionDate"
	ComponentTime              Component = "time"
	ComponentCompletionTime    Component = "completionTime"
	ComponentSchoolSelector    Component = "schoolSelector"
	ComponentPhotoUpload       Component = "photoUpload"
	ComponentStaticContent     Component = "staticContent"
	ComponentStaticImage       Component = "staticImage"
)

// Conditional makes a question visible only while the referenced question's
// answer matches one of Value.
type Conditional struct {
	Field string         `json:"field" bson:"field"`
	Value ConditionValue `json:"value" bson:"value"`
}

// QuestionDefinition is one entry of an assignment's ordered question list.
// Field must never equal the question's own ID; such rules hide the question.
type QuestionDefinition struct {
	ID          string       `json:"id" bson:"id"`
	Label       string       `json:"label" bson:"label"`
	Component   Component    `json:"component" bson:"component"`
	Options     RawOptions   `json:"options,omitempty" bson:"options,omitempty"`
	Required    bool         `json:"required,omitempty" bson:"required,omitempty"`
	Comment     bool         `json:"comment,omitempty" bson:"comment,omitempty"`
	PhotoUpload bool         `json:"photoUpload,omitempty" bson:"photoUpload,omitempty"`
	Section     string       `json:"section,omitempty" bson:"section,omitempty"`
	SubSection  string       `json:"subSection,omitempty" bson:"subSection,omitempty"`
	PageNumber  int          `json:"pageNumber,omitempty" bson:"pageNumber,omitempty"` // 0 means page 1
	Order       int          `json:"order,omitempty" bson:"order,omitempty"`           // not used for sorting
	Conditional *Conditional `json:"conditional,omitempty" bson:"conditional,omitempty"`

	// Reporting metadata, ignored while rendering
	DeficiencyValues []string `json:"deficiencyValues,omitempty" bson:"deficiencyValues,omitempty"`
	DeficiencyLabel  string   `json:"deficiencyLabel,omitempty" bson:"deficiencyLabel,omitempty"`
	Criticality      string   `json:"criticality,omitempty" bson:"criticality,omitempty"`
	DeficiencyWhen   string   `json:"deficiencyWhen,omitempty" bson:"deficiencyWhen,omitempty"` // expr rule over value/answers
}

// Page returns the 1-based page the question belongs to
func (q *QuestionDefinition) Page() int {
	if q.PageNumber < 1 {
		return 1
	}
	return q.PageNumber
}

// Option is a canonical choice entry
type Option struct {
	Label string `json:"label" bson:"label"`
	Value string `json:"value" bson:"value"`
}

// Location is a school or site belonging to an account
type Location struct {
	ID           string `json:"id" bson:"_id,omitempty"`
	AccountID    string `json:"accountId" bson:"accountId"`
	LocationName string `json:"locationName" bson:"locationName"`
}
