package attrs

import (
	"errors"
	"fmt"
	"reflect"
	"sort"

	"github.com/vk/stackforge/internal/nodeid"
	"github.com/vk/stackforge/internal/ref"
	"github.com/vk/stackforge/internal/schema"
	"github.com/vk/stackforge/internal/synerr"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Invariant is a named cross-field predicate registered against a kind. The
// check runs only after every field has individually passed, and returns a
// non-nil error to report a violation.
type Invariant struct {
	Name  string
	Check func(*Attrs) error
}

// Validate runs the per-field phase over (schema, raw input) on behalf of the
// node identified by id. It is idempotent and side-effect-free: the same raw
// input always yields an equal record or the same error.
func Validate(id nodeid.Identity, s *schema.Schema, raw map[string]any) (*Attrs, error) {
	// Undeclared keys fail before anything else, in lexical order so the
	// reported field is stable.
	rawKeys := make([]string, 0, len(raw))
	for k := range raw {
		rawKeys = append(rawKeys, k)
	}
	sort.Strings(rawKeys)
	for _, k := range rawKeys {
		if _, ok := s.Field(k); !ok {
			return nil, synerr.Constraint(id.Kind, id.Name, k, "field is not declared by the schema")
		}
	}

	values := make(map[string]cty.Value, len(raw))
	for _, name := range s.FieldNames() {
		f, _ := s.Field(name)
		rv, present := raw[name]
		if !present {
			if f.IsRequired() {
				return nil, synerr.MissingField(id.Kind, id.Name, name)
			}
			if f.HasDefault() {
				values[name] = f.DefaultValue()
			}
			continue
		}
		v, err := coerceField(id, name, f, rv)
		if err != nil {
			return nil, err
		}
		values[name] = v
	}
	return &Attrs{schema: s, values: values}, nil
}

// CheckInvariants runs the kind's ordered cross-field predicates against an
// already field-valid record, failing fast on the first violation. Structured
// errors returned by a predicate are stamped with the node's identity and the
// invariant's name where the predicate left them blank.
func CheckInvariants(id nodeid.Identity, a *Attrs, invariants []Invariant) error {
	for _, inv := range invariants {
		err := inv.Check(a)
		if err == nil {
			continue
		}
		var se *synerr.Error
		if errors.As(err, &se) {
			stamped := *se
			stamped.Code = synerr.CodeInvariantViolation
			if stamped.Kind == "" {
				stamped.Kind = id.Kind
			}
			if stamped.Name == "" {
				stamped.Name = id.Name
			}
			if stamped.Rule == "" {
				stamped.Rule = inv.Name
			}
			return &stamped
		}
		return synerr.Invariant(id.Kind, id.Name, "", inv.Name+": "+err.Error())
	}
	return nil
}

// coerceField converts one raw value into the field's cty representation and
// checks the field's constraints. Reference tokens pass through unchecked;
// their value is unknown until the external tool runs.
func coerceField(id nodeid.Identity, path string, f *schema.Field, rv any) (cty.Value, error) {
	if t, ok := rv.(ref.Token); ok {
		return ref.Val(t), nil
	}
	if v, ok := rv.(cty.Value); ok {
		if tok, isTok := ref.FromVal(v); isTok {
			return ref.Val(tok), nil
		}
		return checkCoerced(id, path, f, v)
	}

	switch f.Kind() {
	case schema.KindString, schema.KindEnum:
		s, ok := rv.(string)
		if !ok {
			return cty.NilVal, typeErr(id, path, "string", rv)
		}
		return checkCoerced(id, path, f, cty.StringVal(s))

	case schema.KindBool:
		b, ok := rv.(bool)
		if !ok {
			return cty.NilVal, typeErr(id, path, "bool", rv)
		}
		return cty.BoolVal(b), nil

	case schema.KindInt, schema.KindFloat:
		v, err := gocty.ToCtyValue(rv, cty.Number)
		if err != nil {
			return cty.NilVal, typeErr(id, path, "number", rv)
		}
		if f.Kind() == schema.KindInt && !v.AsBigFloat().IsInt() {
			return cty.NilVal, synerr.Constraint(id.Kind, id.Name, path, fmt.Sprintf("value %v is not an integer", rv))
		}
		return checkCoerced(id, path, f, v)

	case schema.KindObject:
		m, ok := rv.(map[string]any)
		if !ok {
			return cty.NilVal, typeErr(id, path, "object", rv)
		}
		return coerceObject(id, path, f.Nested(), m)

	case schema.KindList:
		elems, ok := anySlice(rv)
		if !ok {
			return cty.NilVal, typeErr(id, path, "list", rv)
		}
		vals := make([]cty.Value, len(elems))
		for i, e := range elems {
			ev, err := coerceField(id, fmt.Sprintf("%s[%d]", path, i), f.Elem(), e)
			if err != nil {
				return cty.NilVal, err
			}
			vals[i] = ev
		}
		// Tuples rather than cty lists: elements may mix concrete values
		// with reference tokens, and optional attributes make nested
		// object types uneven. Homogeneity is the schema's contract.
		v := cty.EmptyTupleVal
		if len(vals) > 0 {
			v = cty.TupleVal(vals)
		}
		return checkCoerced(id, path, f, v)

	case schema.KindMap:
		m, ok := rv.(map[string]any)
		if !ok {
			return cty.NilVal, typeErr(id, path, "map", rv)
		}
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		vals := make(map[string]cty.Value, len(m))
		for _, k := range keys {
			ev, err := coerceField(id, path+"."+k, f.Elem(), m[k])
			if err != nil {
				return cty.NilVal, err
			}
			vals[k] = ev
		}
		v := cty.EmptyObjectVal
		if len(vals) > 0 {
			v = cty.ObjectVal(vals)
		}
		return checkCoerced(id, path, f, v)
	}
	return cty.NilVal, synerr.Constraint(id.Kind, id.Name, path, "unsupported field kind")
}

// coerceObject validates a nested raw object against its schema, prefixing
// reported paths with the parent field.
func coerceObject(id nodeid.Identity, path string, s *schema.Schema, raw map[string]any) (cty.Value, error) {
	rawKeys := make([]string, 0, len(raw))
	for k := range raw {
		rawKeys = append(rawKeys, k)
	}
	sort.Strings(rawKeys)
	for _, k := range rawKeys {
		if _, ok := s.Field(k); !ok {
			return cty.NilVal, synerr.Constraint(id.Kind, id.Name, path+"."+k, "field is not declared by the schema")
		}
	}

	values := make(map[string]cty.Value)
	for _, name := range s.FieldNames() {
		f, _ := s.Field(name)
		fieldPath := path + "." + name
		rv, present := raw[name]
		if !present {
			if f.IsRequired() {
				return cty.NilVal, synerr.MissingField(id.Kind, id.Name, fieldPath)
			}
			if f.HasDefault() {
				values[name] = f.DefaultValue()
			}
			continue
		}
		v, err := coerceField(id, fieldPath, f, rv)
		if err != nil {
			return cty.NilVal, err
		}
		values[name] = v
	}
	if len(values) == 0 {
		return cty.EmptyObjectVal, nil
	}
	return cty.ObjectVal(values), nil
}

// checkCoerced converts an already-cty value to the primitive type the field
// expects (when one applies) and runs the field's shallow constraints.
func checkCoerced(id nodeid.Identity, path string, f *schema.Field, v cty.Value) (cty.Value, error) {
	switch f.Kind() {
	case schema.KindString, schema.KindEnum:
		cv, err := convert.Convert(v, cty.String)
		if err != nil {
			return cty.NilVal, convErr(id, path, "string", v.Type())
		}
		v = cv
	case schema.KindInt, schema.KindFloat:
		cv, err := convert.Convert(v, cty.Number)
		if err != nil {
			return cty.NilVal, convErr(id, path, "number", v.Type())
		}
		v = cv
	case schema.KindBool:
		cv, err := convert.Convert(v, cty.Bool)
		if err != nil {
			return cty.NilVal, convErr(id, path, "bool", v.Type())
		}
		v = cv
	}
	if rule := f.Check(v); rule != "" {
		return cty.NilVal, synerr.Constraint(id.Kind, id.Name, path, rule)
	}
	return v, nil
}

func typeErr(id nodeid.Identity, path, want string, got any) *synerr.Error {
	return synerr.Constraint(id.Kind, id.Name, path, fmt.Sprintf("expected %s, got %T", want, got))
}

func convErr(id nodeid.Identity, path, want string, got cty.Type) *synerr.Error {
	return synerr.Constraint(id.Kind, id.Name, path, fmt.Sprintf("expected %s, got %s", want, got.FriendlyName()))
}

// anySlice widens any slice type to []any so callers can pass typed slices
// like []string without ceremony.
func anySlice(rv any) ([]any, bool) {
	if s, ok := rv.([]any); ok {
		return s, true
	}
	val := reflect.ValueOf(rv)
	if val.Kind() != reflect.Slice {
		return nil, false
	}
	out := make([]any, val.Len())
	for i := 0; i < val.Len(); i++ {
		out[i] = val.Index(i).Interface()
	}
	return out, true
}
