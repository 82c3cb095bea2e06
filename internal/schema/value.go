package schema

import (
	"fmt"
	"strconv"
)

// Kind is the canonical type of a field value.
type Kind int

const (
	KindFloat Kind = iota
	KindInt
	KindBool
	KindEnum
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindEnum:
		return "enum"
	default:
		return "string"
	}
}

// Value is a typed canonical value. Exactly one of the payload fields
// is meaningful, selected by Kind.
type Value struct {
	Kind  Kind
	Float float64
	Int   int
	Bool  bool
	Str   string
}

func FloatValue(f float64) Value { return Value{Kind: KindFloat, Float: f} }
func IntValue(i int) Value       { return Value{Kind: KindInt, Int: i} }
func BoolValue(b bool) Value     { return Value{Kind: KindBool, Bool: b} }
func EnumValue(s string) Value   { return Value{Kind: KindEnum, Str: s} }
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }

// String renders the value in its canonical text form. Two equal values
// always render identically, so the rendering doubles as a tiebreak key.
func (v Value) String() string {
	switch v.Kind {
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	case KindInt:
		return strconv.Itoa(v.Int)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	default:
		return v.Str
	}
}

// Validate checks a value against the field's canonical type and range.
// Out-of-range values are rejected, never clamped.
func Validate(f Field, v Value) error {
	spec, ok := Registry[f]
	if !ok {
		return fmt.Errorf("unknown canonical field %q", f)
	}
	if v.Kind != spec.Kind {
		return fmt.Errorf("field %s: kind %s, want %s", f, v.Kind, spec.Kind)
	}
	switch spec.Kind {
	case KindFloat:
		if v.Float < spec.Min || v.Float > spec.Max {
			return fmt.Errorf("field %s: value %v outside range [%v, %v]", f, v.Float, spec.Min, spec.Max)
		}
	case KindInt:
		if float64(v.Int) < spec.Min || float64(v.Int) > spec.Max {
			return fmt.Errorf("field %s: value %d outside range [%v, %v]", f, v.Int, spec.Min, spec.Max)
		}
	case KindEnum:
		for _, e := range spec.Enum {
			if v.Str == e {
				return nil
			}
		}
		return fmt.Errorf("field %s: %q not in enum %v", f, v.Str, spec.Enum)
	}
	return nil
}
