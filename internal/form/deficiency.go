package form

import (
	"campussafety/internal/model"
	"errors"
	"fmt"
	"strconv"

	"github.com/expr-lang/expr"
)

// RuleWarning reports a deficiencyWhen rule that could not be evaluated
type RuleWarning struct {
	QuestionID string
	Err        error
}

func (w RuleWarning) Error() string {
	return fmt.Sprintf("question %s: deficiency rule: %v", w.QuestionID, w.Err)
}

// Deficiencies flags visible answers listed in deficiencyValues, or matched
// by the question's deficiencyWhen rule. Rules that fail to compile or run
// count as no deficiency and come back as warnings.
func Deficiencies(visible []model.QuestionDefinition, n Normalized) ([]model.Deficiency, []RuleWarning) {
	var (
		found    []model.Deficiency
		warnings []RuleWarning
	)
	for i := range visible {
		q := &visible[i]
		value, ok := n.Content[q.ID]
		if !ok {
			continue
		}
		label := q.DeficiencyLabel
		if label == "" {
			label = q.Label
		}

		listed := false
		for _, s := range flatten(value) {
			if contains(q.DeficiencyValues, s) {
				found = append(found, model.Deficiency{
					QuestionID:  q.ID,
					Label:       label,
					Criticality: q.Criticality,
					Value:       s,
				})
				listed = true
			}
		}
		if listed || q.DeficiencyWhen == "" {
			continue
		}

		match, err := evaluateRule(q.DeficiencyWhen, map[string]any{
			"value":   value,
			"answers": n.Content,
		})
		if err != nil {
			warnings = append(warnings, RuleWarning{QuestionID: q.ID, Err: err})
			continue
		}
		if match {
			found = append(found, model.Deficiency{
				QuestionID:  q.ID,
				Label:       label,
				Criticality: q.Criticality,
				Value:       stringify(value),
			})
		}
	}
	return found, warnings
}

// CompileRule checks that a deficiencyWhen rule compiles against the
// evaluation environment
func CompileRule(rule string) error {
	_, err := expr.Compile(rule, expr.Env(map[string]any{
		"value":   nil,
		"answers": map[string]any{},
	}), expr.AsBool())
	return err
}

func evaluateRule(rule string, input map[string]any) (bool, error) {
	program, err := expr.Compile(rule, expr.Env(input))
	if err != nil {
		return false, err
	}

	output, err := expr.Run(program, input)
	if err != nil {
		return false, err
	}

	result, ok := output.(bool)
	if !ok {
		return false, errors.New("rule did not return a boolean")
	}
	return result, nil
}

func flatten(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case bool:
		return []string{strconv.FormatBool(t)}
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	}
	return []string{stringify(v)}
}
