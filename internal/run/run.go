// Package run defines the synthesis run context: the single owner of the
// run-wide identity registry. A Run is created at the start of a synthesis
// script, threaded explicitly through every build and compose call, consumed
// by the emitter, and discarded afterwards. The engine is synchronous by
// design, so the registry needs no locking.
package run

import (
	"sort"

	"github.com/google/uuid"
	"github.com/vk/stackforge/internal/node"
	"github.com/vk/stackforge/internal/nodeid"
	"github.com/vk/stackforge/internal/registry"
	"github.com/vk/stackforge/internal/synerr"
)

// Run owns the (kind, name) -> node registry for one synthesis execution.
type Run struct {
	id      string
	catalog *registry.Registry
	nodes   map[nodeid.Identity]*node.Node
}

// New starts a synthesis run against the given kind catalog.
func New(catalog *registry.Registry) *Run {
	return &Run{
		id:      uuid.NewString(),
		catalog: catalog,
		nodes:   make(map[nodeid.Identity]*node.Node),
	}
}

// ID returns the run's unique identifier, used for log correlation.
func (r *Run) ID() string { return r.id }

// Catalog returns the kind catalog this run builds against.
func (r *Run) Catalog() *registry.Registry { return r.catalog }

// Register inserts a node under its identity. Exactly one insertion happens
// per successful build; a second node under the same identity fails with
// DuplicateIdentity regardless of build order.
func (r *Run) Register(n *node.Node) error {
	if _, exists := r.nodes[n.ID()]; exists {
		return synerr.Duplicate(n.Kind(), n.Name())
	}
	r.nodes[n.ID()] = n
	return nil
}

// Lookup returns the node registered under the given identity.
func (r *Run) Lookup(id nodeid.Identity) (*node.Node, bool) {
	n, ok := r.nodes[id]
	return n, ok
}

// Nodes returns every registered node ordered by (kind, name). The emitter
// depends on this ordering for byte-identical repeated output.
func (r *Run) Nodes() []*node.Node {
	out := make([]*node.Node, 0, len(r.nodes))
	for _, n := range r.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID().Less(out[j].ID())
	})
	return out
}

// Len returns the number of registered nodes.
func (r *Run) Len() int { return len(r.nodes) }
