package schema

import (
	"fmt"
	"math/big"
	"regexp"

	"github.com/zclconf/go-cty/cty"
)

func bigFloat(n float64) *big.Float { return big.NewFloat(n) }

// FieldKind is the tagged variant of a field specification.
type FieldKind int

const (
	// KindString is a free-form string, optionally pattern-constrained.
	KindString FieldKind = iota
	// KindInt is an integer, optionally bounded.
	KindInt
	// KindFloat is a floating-point number, optionally bounded.
	KindFloat
	// KindBool is a boolean.
	KindBool
	// KindEnum is a closed set of allowed string values.
	KindEnum
	// KindObject is a nested schema.
	KindObject
	// KindList is a homogeneous ordered collection.
	KindList
	// KindMap is a string-keyed collection of homogeneous values.
	KindMap
)

// Field is a single field specification. Before Define it acts as a mutable
// builder; Define deep-copies and seals it, after which it never changes.
type Field struct {
	kind     FieldKind
	required bool

	hasDefault    bool
	defRaw        any
	def           cty.Value
	omitIfDefault bool

	min, max           *float64
	patternSrc         string
	pattern            *regexp.Regexp
	values             []string
	minItems, maxItems *int

	elem   *Field
	nested *Schema
}

// String declares a string field.
func String() *Field { return &Field{kind: KindString} }

// Int declares an integer field.
func Int() *Field { return &Field{kind: KindInt} }

// Float declares a floating-point field.
func Float() *Field { return &Field{kind: KindFloat} }

// Bool declares a boolean field.
func Bool() *Field { return &Field{kind: KindBool} }

// Enum declares a string field restricted to the given values.
func Enum(values ...string) *Field { return &Field{kind: KindEnum, values: values} }

// Object declares a field whose value is validated against a nested schema.
func Object(nested *Schema) *Field { return &Field{kind: KindObject, nested: nested} }

// List declares an ordered collection whose elements all follow elem.
func List(elem *Field) *Field { return &Field{kind: KindList, elem: elem} }

// Map declares a string-keyed collection whose values all follow elem.
func Map(elem *Field) *Field { return &Field{kind: KindMap, elem: elem} }

// Required marks the field as mandatory.
func (f *Field) Required() *Field {
	f.required = true
	return f
}

// Default declares the value substituted when the field is absent. The
// literal is type-checked against the field at Define time.
func (f *Field) Default(v any) *Field {
	f.hasDefault = true
	f.defRaw = v
	return f
}

// OmitIfDefault marks the field for omission from emitted output whenever
// its value equals the declared default.
func (f *Field) OmitIfDefault() *Field {
	f.omitIfDefault = true
	return f
}

// Min sets the inclusive lower numeric bound.
func (f *Field) Min(n float64) *Field {
	f.min = &n
	return f
}

// Max sets the inclusive upper numeric bound.
func (f *Field) Max(n float64) *Field {
	f.max = &n
	return f
}

// Pattern constrains a string field to match the given regular expression.
// The expression is compiled at Define time.
func (f *Field) Pattern(expr string) *Field {
	f.patternSrc = expr
	return f
}

// MinItems sets the inclusive lower size bound of a collection.
func (f *Field) MinItems(n int) *Field {
	f.minItems = &n
	return f
}

// MaxItems sets the inclusive upper size bound of a collection.
func (f *Field) MaxItems(n int) *Field {
	f.maxItems = &n
	return f
}

// Kind returns the field's variant tag.
func (f *Field) Kind() FieldKind { return f.kind }

// IsRequired reports whether the field must be present in raw input.
func (f *Field) IsRequired() bool { return f.required }

// HasDefault reports whether a default is declared.
func (f *Field) HasDefault() bool { return f.hasDefault }

// DefaultValue returns the sealed default, or cty.NilVal when none is set.
func (f *Field) DefaultValue() cty.Value { return f.def }

// OmitsIfDefault reports whether the emitter should drop the field when its
// value equals the default.
func (f *Field) OmitsIfDefault() bool { return f.omitIfDefault }

// Elem returns the element spec of a list or map field.
func (f *Field) Elem() *Field { return f.elem }

// Nested returns the nested schema of an object field.
func (f *Field) Nested() *Schema { return f.nested }

// EnumValues returns the allowed values of an enum field.
func (f *Field) EnumValues() []string {
	out := make([]string, len(f.values))
	copy(out, f.values)
	return out
}

// Check evaluates the field's value constraints against an already-coerced
// value and returns a description of the first violated rule, or "" when the
// value passes. Type agreement and recursion into collections are the
// validation engine's job; Check is strictly shallow.
func (f *Field) Check(v cty.Value) string {
	switch f.kind {
	case KindInt, KindFloat:
		bf := v.AsBigFloat()
		if f.min != nil && bf.Cmp(bigFloat(*f.min)) < 0 {
			return fmt.Sprintf("value %s is below the minimum %v", bf.Text('f', -1), *f.min)
		}
		if f.max != nil && bf.Cmp(bigFloat(*f.max)) > 0 {
			return fmt.Sprintf("value %s is above the maximum %v", bf.Text('f', -1), *f.max)
		}
	case KindString:
		if f.pattern != nil && !f.pattern.MatchString(v.AsString()) {
			return fmt.Sprintf("value %q does not match pattern %q", v.AsString(), f.patternSrc)
		}
	case KindEnum:
		s := v.AsString()
		for _, allowed := range f.values {
			if s == allowed {
				return ""
			}
		}
		return fmt.Sprintf("value %q is not one of the allowed values %v", s, f.values)
	case KindList, KindMap:
		n := v.LengthInt()
		if f.minItems != nil && n < *f.minItems {
			return fmt.Sprintf("collection has %d elements, fewer than the minimum %d", n, *f.minItems)
		}
		if f.maxItems != nil && n > *f.maxItems {
			return fmt.Sprintf("collection has %d elements, more than the maximum %d", n, *f.maxItems)
		}
	}
	return ""
}

// clone deep-copies the builder so sealed schemas never alias caller state.
func (f *Field) clone() *Field {
	cp := *f
	if f.min != nil {
		m := *f.min
		cp.min = &m
	}
	if f.max != nil {
		m := *f.max
		cp.max = &m
	}
	if f.minItems != nil {
		m := *f.minItems
		cp.minItems = &m
	}
	if f.maxItems != nil {
		m := *f.maxItems
		cp.maxItems = &m
	}
	if f.values != nil {
		cp.values = make([]string, len(f.values))
		copy(cp.values, f.values)
	}
	if f.elem != nil {
		cp.elem = f.elem.clone()
	}
	// nested schemas are already immutable; sharing them is composition,
	// not aliasing.
	return &cp
}
