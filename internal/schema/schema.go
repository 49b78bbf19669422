// Package schema models an AttributeSchema: an immutable tree of field
// specifications describing the valid shape and constraints of a resource
// kind's attributes. Schemas are built through the explicit builder API in
// field.go and sealed by Define; composition always yields a new schema and
// never mutates an existing one.
package schema

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/vk/stackforge/internal/synerr"
	"github.com/zclconf/go-cty/cty"
)

// Fields is the spec tree handed to Define: one builder per field name.
type Fields map[string]*Field

// Schema is a sealed set of field specifications. Field names are kept in
// lexical order so that every walk over a schema is deterministic.
type Schema struct {
	fields map[string]*Field
	names  []string
}

// Define validates the spec tree and seals it into an immutable Schema. The
// builders passed in are deep-copied, so reusing or further mutating them
// cannot affect the returned schema. Invalid spec trees fail with a
// structural error naming the offending path.
func Define(fields Fields) (*Schema, error) {
	s := &Schema{fields: make(map[string]*Field, len(fields))}
	for name := range fields {
		s.names = append(s.names, name)
	}
	sort.Strings(s.names)

	for _, name := range s.names {
		f := fields[name]
		if f == nil {
			return nil, synerr.InvalidSchema(name, "field spec is nil")
		}
		cp := f.clone()
		if err := cp.seal(name); err != nil {
			return nil, err
		}
		s.fields[name] = cp
	}
	return s, nil
}

// MustDefine is Define for statically known spec trees; it panics on a
// structural error. Catalog modules use it because a malformed built-in
// schema is a programmer error.
func MustDefine(fields Fields) *Schema {
	s, err := Define(fields)
	if err != nil {
		panic(err)
	}
	return s
}

// Field returns the specification for the named top-level field.
func (s *Schema) Field(name string) (*Field, bool) {
	f, ok := s.fields[name]
	return f, ok
}

// FieldNames returns the declared field names in lexical order.
func (s *Schema) FieldNames() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// seal validates a single field spec (and its subtree) in place, compiling
// patterns and coercing declared defaults to their cty representation.
func (f *Field) seal(path string) error {
	switch f.kind {
	case KindString, KindBool, KindInt, KindFloat:
		// no structural requirements beyond constraint sanity below
	case KindEnum:
		if len(f.values) == 0 {
			return synerr.InvalidSchema(path, "enum declares no allowed values")
		}
		seen := map[string]struct{}{}
		for _, v := range f.values {
			if _, dup := seen[v]; dup {
				return synerr.InvalidSchema(path, fmt.Sprintf("enum value %q is declared twice", v))
			}
			seen[v] = struct{}{}
		}
	case KindList, KindMap:
		if f.elem == nil {
			return synerr.InvalidSchema(path, "collection declares no element spec")
		}
		f.elem = f.elem.clone()
		if err := f.elem.seal(path + "[]"); err != nil {
			return err
		}
		if f.elem.required || f.elem.hasDefault {
			return synerr.InvalidSchema(path+"[]", "collection elements cannot be optional or carry defaults")
		}
	case KindObject:
		if f.nested == nil {
			return synerr.InvalidSchema(path, "nested field declares no schema")
		}
	default:
		return synerr.InvalidSchema(path, "unknown field kind")
	}

	if f.min != nil && f.max != nil && *f.min > *f.max {
		return synerr.InvalidSchema(path, fmt.Sprintf("minimum %v exceeds maximum %v", *f.min, *f.max))
	}
	if f.minItems != nil && f.maxItems != nil && *f.minItems > *f.maxItems {
		return synerr.InvalidSchema(path, fmt.Sprintf("minimum size %d exceeds maximum size %d", *f.minItems, *f.maxItems))
	}
	if (f.minItems != nil || f.maxItems != nil) && f.kind != KindList && f.kind != KindMap {
		return synerr.InvalidSchema(path, "size bounds apply only to collections")
	}
	if f.patternSrc != "" {
		if f.kind != KindString {
			return synerr.InvalidSchema(path, "pattern constraints apply only to string fields")
		}
		re, err := regexp.Compile(f.patternSrc)
		if err != nil {
			return synerr.InvalidSchema(path, fmt.Sprintf("pattern does not compile: %v", err))
		}
		f.pattern = re
	}
	if (f.min != nil || f.max != nil) && f.kind != KindInt && f.kind != KindFloat {
		return synerr.InvalidSchema(path, "numeric bounds apply only to numeric fields")
	}

	if f.hasDefault {
		if f.required {
			return synerr.InvalidSchema(path, "a field cannot be both required and carry a default")
		}
		dv, err := f.coerceDefault(path)
		if err != nil {
			return err
		}
		if rule := f.Check(dv); rule != "" {
			return synerr.InvalidSchema(path, "default violates the field's own constraints: "+rule)
		}
		f.def = dv
	}
	if f.omitIfDefault && !f.hasDefault {
		return synerr.InvalidSchema(path, "omit-if-default requires a declared default")
	}
	return nil
}

// coerceDefault converts the raw default literal into the field's cty type.
// Defaults are restricted to primitive fields; collection and nested defaults
// are expressed by the caller supplying the value explicitly.
func (f *Field) coerceDefault(path string) (cty.Value, error) {
	switch f.kind {
	case KindString:
		if s, ok := f.defRaw.(string); ok {
			return cty.StringVal(s), nil
		}
	case KindEnum:
		if s, ok := f.defRaw.(string); ok {
			for _, v := range f.values {
				if v == s {
					return cty.StringVal(s), nil
				}
			}
			return cty.NilVal, synerr.InvalidSchema(path, fmt.Sprintf("default %q is not an allowed enum value", s))
		}
	case KindBool:
		if b, ok := f.defRaw.(bool); ok {
			return cty.BoolVal(b), nil
		}
	case KindInt:
		switch n := f.defRaw.(type) {
		case int:
			return cty.NumberIntVal(int64(n)), nil
		case int64:
			return cty.NumberIntVal(n), nil
		}
	case KindFloat:
		switch n := f.defRaw.(type) {
		case float64:
			return cty.NumberFloatVal(n), nil
		case int:
			return cty.NumberFloatVal(float64(n)), nil
		}
	default:
		return cty.NilVal, synerr.InvalidSchema(path, "defaults are supported on primitive fields only")
	}
	return cty.NilVal, synerr.InvalidSchema(path, fmt.Sprintf("default %v does not match the field's type", f.defRaw))
}
