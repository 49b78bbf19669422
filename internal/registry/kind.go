package registry

import (
	"github.com/vk/stackforge/internal/attrs"
	"github.com/vk/stackforge/internal/schema"
)

// KindDef describes one resource kind: the schema its raw attributes must
// satisfy, the outputs the external tool will produce for it, the ordered
// cross-field invariants to enforce, and any eagerly-computed properties.
type KindDef struct {
	// Kind is the identifier used in build calls and emitted blocks.
	Kind string
	// Schema validates raw attributes at build time.
	Schema *schema.Schema
	// Outputs are the attribute names a node of this kind exposes as
	// reference tokens. They are promises about the external tool's
	// results, not validated input fields.
	Outputs []string
	// Invariants run in order after the per-field phase.
	Invariants []attrs.Invariant
	// Computed maps property names to pure derivations over the validated
	// attributes.
	Computed map[string]ComputedFunc
}

// HasOutput reports whether the kind declares the named output.
func (d *KindDef) HasOutput(name string) bool {
	for _, o := range d.Outputs {
		if o == name {
			return true
		}
	}
	return false
}
