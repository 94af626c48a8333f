package sweep

import (
	"encoding/json"
	"strconv"

	"github.com/rxtech-lab/argo-sweep/pkg/errors"
)

// ValueKind identifies the scalar type carried by a Value.
type ValueKind string

const (
	ValueKindInt    ValueKind = "int"
	ValueKindFloat  ValueKind = "float"
	ValueKindString ValueKind = "string"
)

// Value is a single candidate value of a distribution. Values are immutable
// and totally ordered within a kind; comparing values of different kinds is
// a configuration error caught when constraints are declared.
type Value struct {
	kind ValueKind
	i    int64
	f    float64
	s    string
}

// IntValue creates an integer Value.
func IntValue(v int64) Value {
	return Value{kind: ValueKindInt, i: v}
}

// FloatValue creates a floating-point Value.
func FloatValue(v float64) Value {
	return Value{kind: ValueKindFloat, f: v}
}

// StringValue creates a categorical Value.
func StringValue(v string) Value {
	return Value{kind: ValueKindString, s: v}
}

// Kind returns the scalar kind of the value.
func (v Value) Kind() ValueKind {
	return v.kind
}

// Int returns the integer payload. Only meaningful when Kind is ValueKindInt.
func (v Value) Int() int64 {
	return v.i
}

// Float returns the float payload. Only meaningful when Kind is ValueKindFloat.
func (v Value) Float() float64 {
	return v.f
}

// String returns the canonical text form of the value.
func (v Value) String() string {
	switch v.kind {
	case ValueKindInt:
		return strconv.FormatInt(v.i, 10)
	case ValueKindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case ValueKindString:
		return v.s
	}

	return ""
}

// Equal reports structural equality. Values of different kinds are never equal.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}

	switch v.kind {
	case ValueKindInt:
		return v.i == other.i
	case ValueKindFloat:
		return v.f == other.f
	case ValueKindString:
		return v.s == other.s
	}

	return false
}

// Compare returns -1, 0 or 1 using the natural ordering of the kind.
// Comparing values of different kinds returns an error.
func (v Value) Compare(other Value) (int, error) {
	if v.kind != other.kind {
		return 0, errors.Newf(errors.ErrCodeInvalidValueKind,
			"cannot compare %s value with %s value", v.kind, other.kind)
	}

	switch v.kind {
	case ValueKindInt:
		return compareOrdered(v.i, other.i), nil
	case ValueKindFloat:
		return compareOrdered(v.f, other.f), nil
	case ValueKindString:
		return compareOrdered(v.s, other.s), nil
	}

	return 0, errors.Newf(errors.ErrCodeInvalidValueKind, "unknown value kind %q", v.kind)
}

func compareOrdered[T int64 | float64 | string](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

type valueJSON struct {
	Kind   ValueKind `json:"kind"`
	Int    *int64    `json:"int,omitempty"`
	Float  *float64  `json:"float,omitempty"`
	String *string   `json:"string,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	out := valueJSON{Kind: v.kind}

	switch v.kind {
	case ValueKindInt:
		out.Int = &v.i
	case ValueKindFloat:
		out.Float = &v.f
	case ValueKindString:
		out.String = &v.s
	}

	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	var in valueJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	switch in.Kind {
	case ValueKindInt:
		if in.Int == nil {
			return errors.New(errors.ErrCodeInvalidValueKind, "int value payload missing")
		}

		*v = IntValue(*in.Int)
	case ValueKindFloat:
		if in.Float == nil {
			return errors.New(errors.ErrCodeInvalidValueKind, "float value payload missing")
		}

		*v = FloatValue(*in.Float)
	case ValueKindString:
		if in.String == nil {
			return errors.New(errors.ErrCodeInvalidValueKind, "string value payload missing")
		}

		*v = StringValue(*in.String)
	default:
		return errors.Newf(errors.ErrCodeInvalidValueKind, "unknown value kind %q", in.Kind)
	}

	return nil
}

// IntValues converts a slice of integers into candidate values.
func IntValues(vs ...int64) []Value {
	values := make([]Value, len(vs))
	for i, v := range vs {
		values[i] = IntValue(v)
	}

	return values
}
