package form

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ValueKind tags the variant held by a Value
type ValueKind string

const (
	KindScalar ValueKind = "scalar"
	KindNumber ValueKind = "number"
	KindBool   ValueKind = "bool"
	KindDate   ValueKind = "date"
	KindTime   ValueKind = "time"
)

// DateLayout is the wire layout of date answers
const DateLayout = "2006-01-02"

// TimeValue is the compound answer of time questions
type TimeValue struct {
	Hour   string `json:"hour"`
	Minute string `json:"minute"`
	Period string `json:"period"`
}

// Complete reports whether hour, minute and period are all set
func (t TimeValue) Complete() bool {
	return t.Hour != "" && t.Minute != "" && t.Period != ""
}

func (t TimeValue) String() string {
	if !t.Complete() {
		return ""
	}
	return fmt.Sprintf("%s:%s %s", t.Hour, t.Minute, t.Period)
}

// Value is a single Answer State entry. Only the field matching Kind is
// meaningful.
type Value struct {
	Kind   ValueKind
	Text   string
	Number float64
	Bool   bool
	Date   time.Time
	Time   TimeValue
}

func Scalar(s string) Value { return Value{Kind: KindScalar, Text: s} }
func Number(n float64) Value { return Value{Kind: KindNumber, Number: n} }
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }
func Date(t time.Time) Value { return Value{Kind: KindDate, Date: t} }
func Time(h, m, p string) Value { return Value{Kind: KindTime, Time: TimeValue{Hour: h, Minute: m, Period: p}} }

// String renders the value the way the browser form stringifies it
func (v Value) String() string {
	switch v.Kind {
	case KindScalar:
		return v.Text
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindDate:
		return v.Date.Format(DateLayout)
	case KindTime:
		return v.Time.String()
	}
	return ""
}

// Blank reports whether the value renders to whitespace only
func (v Value) Blank() bool {
	return strings.TrimSpace(v.String()) == ""
}

// Raw returns the plain Go value used in submission payloads
func (v Value) Raw() any {
	switch v.Kind {
	case KindNumber:
		return v.Number
	case KindBool:
		return v.Bool
	case KindDate, KindTime, KindScalar:
		return v.String()
	}
	return ""
}

type taggedValue struct {
	Kind   ValueKind  `json:"kind"`
	Text   string     `json:"text,omitempty"`
	Number *float64   `json:"number,omitempty"`
	Bool   *bool      `json:"bool,omitempty"`
	Date   *time.Time `json:"date,omitempty"`
	Time   *TimeValue `json:"time,omitempty"`
}

func (v Value) MarshalJSON() ([]byte, error) {
	t := taggedValue{Kind: v.Kind}
	switch v.Kind {
	case KindScalar:
		t.Text = v.Text
	case KindNumber:
		n := v.Number
		t.Number = &n
	case KindBool:
		b := v.Bool
		t.Bool = &b
	case KindDate:
		d := v.Date
		t.Date = &d
	case KindTime:
		tv := v.Time
		t.Time = &tv
	default:
		return nil, fmt.Errorf("unknown value kind %q", v.Kind)
	}
	return json.Marshal(t)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var t taggedValue
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	switch t.Kind {
	case KindScalar:
		*v = Scalar(t.Text)
	case KindNumber:
		if t.Number == nil {
			return fmt.Errorf("number value without number")
		}
		*v = Number(*t.Number)
	case KindBool:
		*v = Bool(t.Bool != nil && *t.Bool)
	case KindDate:
		if t.Date == nil {
			return fmt.Errorf("date value without date")
		}
		*v = Date(*t.Date)
	case KindTime:
		if t.Time == nil {
			return fmt.Errorf("time value without time")
		}
		*v = Value{Kind: KindTime, Time: *t.Time}
	default:
		return fmt.Errorf("unknown value kind %q", t.Kind)
	}
	return nil
}
