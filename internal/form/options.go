package form

import (
	"campussafety/internal/model"
	"fmt"
	"strconv"
	"strings"
)

// OptionDelimiter separates entries of string-form options
const OptionDelimiter = ";"

// ParseOptions turns raw option input into an ordered {label, value} list.
// schoolSelector questions ignore raw and list the account's locations.
// Unparseable input yields an empty list. Entries are not de-duplicated;
// duplicate values make toggle keys collide and are an authoring error.
func ParseOptions(raw any, q *model.QuestionDefinition, locations []model.Location) []model.Option {
	if q != nil && q.Component == model.ComponentSchoolSelector {
		out := make([]model.Option, 0, len(locations))
		for _, l := range locations {
			out = append(out, model.Option{Label: l.LocationName, Value: l.ID})
		}
		return out
	}

	switch v := raw.(type) {
	case model.RawOptions:
		return ParseOptions(v.Value, q, locations)
	case *model.RawOptions:
		if v == nil {
			return []model.Option{}
		}
		return ParseOptions(v.Value, q, locations)
	case []model.Option:
		out := make([]model.Option, len(v))
		copy(out, v)
		return out
	case []string:
		out := make([]model.Option, 0, len(v))
		for _, s := range v {
			out = append(out, model.Option{Label: s, Value: s})
		}
		return out
	case []map[string]any:
		out := make([]model.Option, 0, len(v))
		for _, m := range v {
			if opt, ok := labelObject(m); ok {
				out = append(out, opt)
			}
		}
		return out
	case []any:
		out := make([]model.Option, 0, len(v))
		for _, item := range v {
			switch it := item.(type) {
			case string:
				out = append(out, model.Option{Label: it, Value: it})
			case map[string]any:
				if opt, ok := labelObject(it); ok {
					out = append(out, opt)
				}
			case model.Option:
				out = append(out, it)
			}
		}
		return out
	case string:
		parts := strings.Split(v, OptionDelimiter)
		out := make([]model.Option, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			out = append(out, model.Option{Label: p, Value: p})
		}
		return out
	}
	return []model.Option{}
}

func labelObject(m map[string]any) (model.Option, bool) {
	label, ok := m["label"]
	if !ok {
		return model.Option{}, false
	}
	value, ok := m["value"]
	if !ok || value == nil {
		value = label
	}
	return model.Option{Label: stringify(label), Value: stringify(value)}, true
}

// stringify renders loosely typed JSON values like the browser does
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case fmt.Stringer:
		return t.String()
	}
	return fmt.Sprint(v)
}
