package model

import (
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// RawOptions holds option input in whatever shape the author wrote it:
// a ";" delimited string, a list of strings or a list of {label, value}
// objects. Value keeps the decoded JSON shape (string, []any, map[string]any).
type RawOptions struct {
	Value any
}

// OptionsOf wraps raw option input
func OptionsOf(v any) RawOptions {
	return RawOptions{Value: v}
}

// IsZero reports whether no options were given
func (o RawOptions) IsZero() bool {
	return o.Value == nil
}

func (o RawOptions) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Value)
}

func (o *RawOptions) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = v
	return nil
}

// MarshalBSONValue stores the raw shape as JSON text so mixed arrays survive
// the round trip unchanged.
func (o RawOptions) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if o.Value == nil {
		return bson.TypeNull, nil, nil
	}
	data, err := json.Marshal(o.Value)
	if err != nil {
		return 0, nil, fmt.Errorf("encode options: %w", err)
	}
	return bson.MarshalValue(string(data))
}

// UnmarshalBSONValue reads JSON text written by MarshalBSONValue. Documents
// seeded by hand with a plain delimited string are kept as that string.
func (o *RawOptions) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeNull, bson.TypeUndefined:
		o.Value = nil
		return nil
	case bson.TypeString:
		s := raw.StringValue()
		var v any
		if err := json.Unmarshal([]byte(s), &v); err == nil {
			switch v.(type) {
			case string, []any:
				o.Value = v
				return nil
			}
		}
		o.Value = s
		return nil
	case bson.TypeArray:
		var items []any
		if err := raw.Unmarshal(&items); err != nil {
			return err
		}
		out := make([]any, 0, len(items))
		for _, item := range items {
			switch it := item.(type) {
			case bson.D:
				out = append(out, map[string]any(it.Map()))
			default:
				out = append(out, it)
			}
		}
		o.Value = out
		return nil
	default:
		return fmt.Errorf("unsupported options type %s", t)
	}
}

// ConditionValue is the trigger value list of a conditional. Authors may
// write a single string or a list; both read back as a list.
type ConditionValue []string

func (c *ConditionValue) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = nil
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*c = ConditionValue{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("conditional value must be a string or a list of strings: %w", err)
	}
	*c = list
	return nil
}

func (c *ConditionValue) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeNull, bson.TypeUndefined:
		*c = nil
		return nil
	case bson.TypeString:
		*c = ConditionValue{raw.StringValue()}
		return nil
	case bson.TypeArray:
		var list []string
		if err := raw.Unmarshal(&list); err != nil {
			return err
		}
		*c = list
		return nil
	default:
		return fmt.Errorf("unsupported conditional value type %s", t)
	}
}
