// Package nodeid defines the structured identity of a resource node. A
// (kind, name) pair must be unique within a synthesis run and is the key the
// run-wide registry, reference tokens and the emitter all agree on.
package nodeid

import "strings"

// Identity is the unique (kind, name) address of a resource node.
type Identity struct {
	Kind string
	Name string
}

// New constructs an Identity.
func New(kind, name string) Identity {
	return Identity{Kind: kind, Name: name}
}

// String serializes the identity into its canonical dotted representation.
func (id Identity) String() string {
	var sb strings.Builder
	sb.WriteString(id.Kind)
	sb.WriteRune('.')
	sb.WriteString(id.Name)
	return sb.String()
}

// Less orders identities by kind, then name. The emitter relies on this for
// deterministic document output.
func (id Identity) Less(other Identity) bool {
	if id.Kind != other.Kind {
		return id.Kind < other.Kind
	}
	return id.Name < other.Name
}
