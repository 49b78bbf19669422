// Package node defines the ResourceNode: a uniquely identified, validated
// unit scheduled for emission. A node is created once, is immutable
// thereafter, and lives until its synthesis run ends.
package node

import (
	"github.com/vk/stackforge/internal/attrs"
	"github.com/vk/stackforge/internal/nodeid"
	"github.com/vk/stackforge/internal/ref"
	"github.com/vk/stackforge/internal/registry"
	"github.com/vk/stackforge/internal/synerr"
	"github.com/zclconf/go-cty/cty"
)

// Node owns exactly one validated attribute record and exposes typed output
// accessors yielding reference tokens, plus the kind's computed properties.
type Node struct {
	id    nodeid.Identity
	def   *registry.KindDef
	attrs *attrs.Attrs
}

// New assembles a node from its already-validated parts. Callers go through
// builder.Build, which performs validation and run registration.
func New(id nodeid.Identity, def *registry.KindDef, a *attrs.Attrs) *Node {
	return &Node{id: id, def: def, attrs: a}
}

// ID returns the node's structured (kind, name) identity.
func (n *Node) ID() nodeid.Identity { return n.id }

// Kind returns the node's kind identifier.
func (n *Node) Kind() string { return n.id.Kind }

// Name returns the node's instance name.
func (n *Node) Name() string { return n.id.Name }

// Attrs returns the node's immutable validated attributes.
func (n *Node) Attrs() *attrs.Attrs { return n.attrs }

// Output returns a reference token for one of the kind's declared outputs.
// The token carries no value; it resolves when the external tool runs.
func (n *Node) Output(name string) (ref.Token, error) {
	if !n.def.HasOutput(name) {
		return ref.Token{}, synerr.UnknownOutput(n.id.Kind, n.id.Name, name)
	}
	return ref.To(n.id.Kind, n.id.Name, name), nil
}

// Ref returns a token for an arbitrary attribute path on this node. Unlike
// Output it performs no declaration check; the path is the caller's
// contract.
func (n *Node) Ref(path string) ref.Token {
	return ref.To(n.id.Kind, n.id.Name, path)
}

// Computed evaluates one of the kind's computed properties over the node's
// validated attributes. Properties are pure functions and never touch
// external state.
func (n *Node) Computed(name string) (cty.Value, bool) {
	fn, ok := n.def.Computed[name]
	if !ok {
		return cty.NilVal, false
	}
	return fn(n.attrs), true
}
