// Package registry implements the kind catalog: the schema registration
// surface that makes `build(kind, ...)` available. A Registry belongs to a
// single application instance; there is no process-wide singleton.
package registry

import (
	"fmt"
	"sort"

	"github.com/vk/stackforge/internal/attrs"
	"github.com/zclconf/go-cty/cty"
)

// ComputedFunc derives a property eagerly from a node's validated attributes.
// Implementations must be pure: no network, no external state.
type ComputedFunc func(*attrs.Attrs) cty.Value

// Module is the interface catalog packages implement to contribute their
// kind definitions to a registry.
type Module interface {
	Register(r *Registry)
}

// Registry holds every registered kind definition for one application
// instance. Registration problems are collected and surfaced by Validate so
// module Register methods stay plain.
type Registry struct {
	kinds    map[string]*KindDef
	problems []string
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{kinds: make(map[string]*KindDef)}
}

// RegisterKind adds a kind definition to the catalog. A duplicate kind is
// recorded as a problem and reported by Validate.
func (r *Registry) RegisterKind(def *KindDef) {
	if def == nil || def.Kind == "" {
		r.problems = append(r.problems, "kind definition is nil or unnamed")
		return
	}
	if _, exists := r.kinds[def.Kind]; exists {
		r.problems = append(r.problems, fmt.Sprintf("kind %q is registered twice", def.Kind))
		return
	}
	r.kinds[def.Kind] = def
}

// Kind returns the definition registered under the given kind identifier.
func (r *Registry) Kind(kind string) (*KindDef, bool) {
	def, ok := r.kinds[kind]
	return def, ok
}

// Kinds returns every registered kind identifier in lexical order.
func (r *Registry) Kinds() []string {
	out := make([]string, 0, len(r.kinds))
	for k := range r.kinds {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
