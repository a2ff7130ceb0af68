package form

import (
	"campussafety/internal/model"
	"strconv"
	"strings"
	"time"
)

// Defaults builds the initial Answer State of a form without a draft
func Defaults(questions []model.QuestionDefinition, now time.Time, loc *time.Location) *State {
	if loc != nil {
		now = now.In(loc)
	}
	st := NewState()
	for i := range questions {
		q := &questions[i]
		switch familyOf(q.Component) {
		case familyDate:
			if q.Component == model.ComponentCompletionDate {
				y, m, d := now.Date()
				st.Values[q.ID] = Date(time.Date(y, m, d, 0, 0, 0, 0, now.Location()))
			}
		case familyTime:
			if q.Component == model.ComponentCompletionTime {
				st.Values[q.ID] = Clock(now)
			}
		case familyToggle:
			opts := ParseOptions(q.Options, q, nil)
			if len(opts) == 0 {
				if singleToggle(q, opts) {
					st.Values[q.ID] = Bool(false)
				} else {
					st.Values[q.ID] = Scalar("")
				}
				continue
			}
			for _, o := range opts {
				st.Values[OptionKey(q.ID, o.Value)] = Bool(false)
			}
		case familyText, familyChoice:
			st.Values[q.ID] = Scalar("")
		case familyRange, familyFile, familyStatic, familyUnknown:
		}
	}
	return st
}

// Clock renders t as a 12-hour time value, e.g. 5:07 PM
func Clock(t time.Time) Value {
	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	period := "AM"
	if t.Hour() >= 12 {
		period = "PM"
	}
	return Time(strconv.Itoa(hour), twoDigits(t.Minute()), period)
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// Coerce converts a plain JSON value sent for key into a typed Value using
// the kind of q. The bool result is false when raw has no usable shape.
func Coerce(q *model.QuestionDefinition, key string, raw any) (Value, bool) {
	if q == nil {
		return Value{}, false
	}
	if key == CommentKey(q.ID) {
		return Scalar(stringify(raw)), true
	}
	if key != q.ID {
		if !strings.HasPrefix(key, q.ID+".") {
			return Value{}, false
		}
		switch familyOf(q.Component) {
		case familyToggle:
			return coerceBool(raw)
		case familyTime:
			if !timePart(strings.TrimPrefix(key, q.ID+".")) {
				return Value{}, false
			}
			return Scalar(stringify(raw)), true
		}
		return Value{}, false
	}

	switch familyOf(q.Component) {
	case familyDate:
		s, ok := raw.(string)
		if !ok {
			return Scalar(""), raw == nil
		}
		if d, ok := ParseDate(s); ok {
			return Date(d), true
		}
		return Scalar(s), true
	case familyTime:
		switch v := raw.(type) {
		case map[string]any:
			return Time(stringify(v["hour"]), stringify(v["minute"]), stringify(v["period"])), true
		case nil:
			return Time("", "", ""), true
		}
		return Value{}, false
	case familyToggle:
		if len(ParseOptions(q.Options, q, nil)) == 0 && q.Component != model.ComponentCheckbox {
			return coerceScalar(raw)
		}
		return coerceBool(raw)
	case familyText, familyChoice, familyRange, familyFile, familyStatic, familyUnknown:
		return coerceScalar(raw)
	}
	return Value{}, false
}

func coerceScalar(raw any) (Value, bool) {
	switch v := raw.(type) {
	case nil:
		return Scalar(""), true
	case string:
		return Scalar(v), true
	case float64:
		return Number(v), true
	case int:
		return Number(float64(v)), true
	case bool:
		return Bool(v), true
	}
	return Value{}, false
}

func timePart(field string) bool {
	switch field {
	case "hour", "minute", "period":
		return true
	}
	return false
}

func coerceBool(raw any) (Value, bool) {
	switch v := raw.(type) {
	case bool:
		return Bool(v), true
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Value{}, false
		}
		return Bool(b), true
	case nil:
		return Bool(false), true
	}
	return Value{}, false
}

// ParseDate accepts YYYY-MM-DD or RFC 3339 and keeps the calendar date
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if d, err := time.Parse(DateLayout, s); err == nil {
		return d, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}
