// Package builder implements the resource node builder: validate raw
// attributes against the kind's schema, enforce identity uniqueness, and
// register the node with the run. Build's only side effect is exactly one
// registry insertion.
package builder

import (
	"github.com/vk/stackforge/internal/attrs"
	"github.com/vk/stackforge/internal/node"
	"github.com/vk/stackforge/internal/nodeid"
	"github.com/vk/stackforge/internal/run"
	"github.com/vk/stackforge/internal/synerr"
)

// Build validates raw against the schema registered for kind, runs the
// kind's cross-field invariants, and registers the resulting node under
// (kind, name). On success it returns the node as a reference object
// exposing typed output accessors and computed properties.
func Build(r *run.Run, kind, name string, raw map[string]any) (*node.Node, error) {
	def, ok := r.Catalog().Kind(kind)
	if !ok {
		return nil, synerr.UnknownKind(kind, name)
	}

	id := nodeid.New(kind, name)
	a, err := attrs.Validate(id, def.Schema, raw)
	if err != nil {
		return nil, err
	}
	if err := attrs.CheckInvariants(id, a, def.Invariants); err != nil {
		return nil, err
	}

	n := node.New(id, def, a)
	if err := r.Register(n); err != nil {
		return nil, err
	}
	return n, nil
}
