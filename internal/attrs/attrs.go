// Package attrs implements the validation engine: it consumes an
// AttributeSchema plus raw, loosely-typed input and produces an immutable,
// constraint-checked Attrs record, or a single structured error. Validation
// is two-phase and fail-fast: every field is coerced and checked
// individually first, then the kind's ordered cross-field invariants run.
package attrs

import (
	"sort"

	"github.com/vk/stackforge/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

// Attrs is the immutable output of running raw input through a schema. Every
// required field is present, every value satisfies its constraints, and any
// declared cross-field invariant holds. Absent optional fields without
// defaults are simply not stored.
type Attrs struct {
	schema *schema.Schema
	values map[string]cty.Value
}

// Schema returns the schema this record was validated against.
func (a *Attrs) Schema() *schema.Schema { return a.schema }

// Has reports whether the named top-level field carries a value.
func (a *Attrs) Has(name string) bool {
	_, ok := a.values[name]
	return ok
}

// Get returns the value of the named top-level field.
func (a *Attrs) Get(name string) (cty.Value, bool) {
	v, ok := a.values[name]
	return v, ok
}

// GetString returns the named field as a Go string. It reports false when
// the field is absent, a reference token, or not a string.
func (a *Attrs) GetString(name string) (string, bool) {
	v, ok := a.values[name]
	if !ok || !v.Type().Equals(cty.String) {
		return "", false
	}
	return v.AsString(), true
}

// GetInt returns the named field as an int64.
func (a *Attrs) GetInt(name string) (int64, bool) {
	v, ok := a.values[name]
	if !ok || !v.Type().Equals(cty.Number) {
		return 0, false
	}
	n, acc := v.AsBigFloat().Int64()
	if acc != 0 {
		return 0, false
	}
	return n, true
}

// GetFloat returns the named field as a float64.
func (a *Attrs) GetFloat(name string) (float64, bool) {
	v, ok := a.values[name]
	if !ok || !v.Type().Equals(cty.Number) {
		return 0, false
	}
	f, _ := v.AsBigFloat().Float64()
	return f, true
}

// GetBool returns the named field as a bool.
func (a *Attrs) GetBool(name string) (bool, bool) {
	v, ok := a.values[name]
	if !ok || !v.Type().Equals(cty.Bool) {
		return false, false
	}
	return v.True(), true
}

// GetStringSlice returns the named list field as Go strings. Elements that
// are reference tokens or non-strings are skipped.
func (a *Attrs) GetStringSlice(name string) ([]string, bool) {
	v, ok := a.values[name]
	if !ok || v.IsNull() {
		return nil, false
	}
	ty := v.Type()
	if !ty.IsTupleType() && !ty.IsListType() {
		return nil, false
	}
	var out []string
	for it := v.ElementIterator(); it.Next(); {
		_, ev := it.Element()
		if ev.Type().Equals(cty.String) {
			out = append(out, ev.AsString())
		}
	}
	return out, true
}

// FieldNames returns the names of the fields carrying values, in lexical
// order.
func (a *Attrs) FieldNames() []string {
	out := make([]string, 0, len(a.values))
	for name := range a.values {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
