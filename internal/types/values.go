package types

import (
	"encoding/json"
	"strconv"
	"time"
)

// ValueKind discriminates the closed Value union.
type ValueKind int

// Value kinds. KindNull is the zero value so an uninitialized Value
// behaves as an absent/null literal.
const (
	KindNull ValueKind = iota
	KindString
	KindNumber
	KindBoolean
	KindDate
)

// Value is a typed scalar used as a rule comparison literal and as the
// result of field resolution. The union is closed: every operator's
// behavior is defined per concrete kind pairing, so there is no
// host-language coercion ambiguity.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	b    bool
	t    time.Time
}

// NullValue returns the null literal.
func NullValue() Value { return Value{} }

// StringValue wraps a string literal.
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// NumberValue wraps a numeric literal.
func NumberValue(f float64) Value { return Value{kind: KindNumber, num: f} }

// BoolValue wraps a boolean literal.
func BoolValue(b bool) Value { return Value{kind: KindBoolean, b: b} }

// DateValue wraps a timestamp literal.
func DateValue(t time.Time) Value { return Value{kind: KindDate, t: t} }

// LiteralValue applies the authoring-time coercion policy to user-entered
// rule text: the text is stored as a Number if and only if ParseFloat
// round-trips exactly back to the original text; otherwise it stays a
// String. The coercion happens once, at save time; a stored Value never
// changes kind afterwards.
//
// "42" becomes Number(42); "42a" and "42.0" stay strings ("42.0" does
// not round-trip, it formats back as "42").
func LiteralValue(text string) Value {
	f, err := strconv.ParseFloat(text, 64)
	if err == nil && strconv.FormatFloat(f, 'f', -1, 64) == text {
		return NumberValue(f)
	}
	return StringValue(text)
}

// Kind returns the union discriminant.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether the value is the null literal.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsString returns the string payload when the kind is String.
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

// AsNumber returns the numeric payload when the kind is Number.
func (v Value) AsNumber() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// AsBool returns the boolean payload when the kind is Boolean.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBoolean
}

// AsTime returns the timestamp payload when the kind is Date.
func (v Value) AsTime() (time.Time, bool) {
	return v.t, v.kind == KindDate
}

// Equal compares two values. Mismatched kinds compare unequal.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num
	case KindBoolean:
		return v.b == o.b
	case KindDate:
		return v.t.Equal(o.t)
	default:
		return false
	}
}

// Type maps the value's kind onto the catalog type vocabulary.
func (v Value) Type() ValueType {
	switch v.kind {
	case KindString:
		return TypeString
	case KindNumber:
		return TypeNumber
	case KindBoolean:
		return TypeBoolean
	case KindDate:
		return TypeDate
	default:
		return TypeAny
	}
}

// MarshalJSON serializes the value as a native JSON scalar. Dates are
// written as RFC3339 strings, matching the document field format.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	case KindBoolean:
		return json.Marshal(v.b)
	case KindDate:
		return json.Marshal(v.t.UTC().Format(time.RFC3339))
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON restores a value from a native JSON scalar, inferring
// the kind from the JSON type. Stored rule literals are only ever
// strings, numbers, or booleans, so no date heuristic is applied here.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case nil:
		*v = NullValue()
	case string:
		*v = StringValue(x)
	case float64:
		*v = NumberValue(x)
	case bool:
		*v = BoolValue(x)
	default:
		return ErrInvalidValueLiteral
	}
	return nil
}
