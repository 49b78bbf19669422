package registry

import (
	"fmt"
	"strings"
)

// Validate performs a strict integrity check over the catalog: every kind
// must carry a schema, output names must be unique, and outputs must not
// shadow declared input fields. It aggregates every problem found rather
// than failing on the first, because catalog mistakes are programmer errors
// best fixed in one pass.
func (r *Registry) Validate() error {
	errs := append([]string(nil), r.problems...)

	for _, kind := range r.Kinds() {
		def := r.kinds[kind]
		if def.Schema == nil {
			errs = append(errs, fmt.Sprintf("kind %q: no schema registered", kind))
			continue
		}
		seen := map[string]struct{}{}
		for _, out := range def.Outputs {
			if out == "" {
				errs = append(errs, fmt.Sprintf("kind %q: empty output name", kind))
				continue
			}
			if _, dup := seen[out]; dup {
				errs = append(errs, fmt.Sprintf("kind %q: output %q declared twice", kind, out))
			}
			seen[out] = struct{}{}
			if _, clash := def.Schema.Field(out); clash {
				errs = append(errs, fmt.Sprintf("kind %q: output %q shadows an input field", kind, out))
			}
		}
		for name, fn := range def.Computed {
			if fn == nil {
				errs = append(errs, fmt.Sprintf("kind %q: computed property %q has no function", kind, name))
			}
		}
		for i, inv := range def.Invariants {
			if inv.Check == nil {
				errs = append(errs, fmt.Sprintf("kind %q: invariant %d (%s) has no check", kind, i, inv.Name))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
