package value

import (
	"fmt"
)

// Type tags a TypedValue with an explicit semantic type.
// The zero value Untyped means the type is inferred from the runtime representation.
type Type string

const (
	Untyped     Type = ""
	TypeInteger Type = "integer" // 32-bit
	TypeLong    Type = "long"    // 64-bit
	TypeDouble  Type = "double"
	TypeString  Type = "string"
	TypeBoolean Type = "boolean"
)

// Known reports whether t is a registered type tag (Untyped included).
func (t Type) Known() bool {
	switch t {
	case Untyped, TypeInteger, TypeLong, TypeDouble, TypeString, TypeBoolean:
		return true
	}
	return false
}

func (t Type) String() string {
	if t == Untyped {
		return "untyped"
	}
	return string(t)
}

// TypedValue is an immutable scalar with an optional explicit type tag.
// Explicitly typed values always hold the Go representation of their kind:
// int32, int64, float64, string or bool.
type TypedValue struct {
	typ Type
	val any
}

func Integer(v int32) TypedValue  { return TypedValue{typ: TypeInteger, val: v} }
func Long(v int64) TypedValue     { return TypedValue{typ: TypeLong, val: v} }
func Double(v float64) TypedValue { return TypedValue{typ: TypeDouble, val: v} }
func String(v string) TypedValue  { return TypedValue{typ: TypeString, val: v} }
func Boolean(v bool) TypedValue   { return TypedValue{typ: TypeBoolean, val: v} }

// UntypedValue wraps v without a type tag. Consumers infer its kind at runtime.
func UntypedValue(v any) TypedValue { return TypedValue{val: v} }

// Type returns the explicit type tag, or Untyped.
func (v TypedValue) Type() Type { return v.typ }

// Value returns the underlying scalar.
func (v TypedValue) Value() any { return v.val }

func (v TypedValue) IsUntyped() bool { return v.typ == Untyped }

// String renders the value for logs and error messages, e.g. `integer(3)` or `untyped("abc")`.
func (v TypedValue) String() string {
	if s, ok := v.val.(string); ok {
		return fmt.Sprintf("%s(%q)", v.typ, s)
	}
	return fmt.Sprintf("%s(%v)", v.typ, v.val)
}
