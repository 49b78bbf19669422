// Package composite implements reusable architectures: named aggregates of
// resource nodes assembled by a blueprint with well-defined override and
// extension points. Overrides apply before finalization and at most once per
// point; extensions run against the finalized composite and only ever add.
package composite

import (
	"github.com/vk/stackforge/internal/run"
	"github.com/vk/stackforge/internal/synerr"
)

// BuildFunc assembles part of a composite: it may build nodes, wire
// reference tokens between them, and attach them to c.
type BuildFunc func(r *run.Run, c *Composite) error

// Blueprint is the explicit build phase of a composite: a base assembly, an
// ordered set of named extension points with default sub-builders, and a
// used-flags set enforcing single-use overrides. Finalize runs the base and
// every point exactly once.
type Blueprint struct {
	name       string
	base       BuildFunc
	points     []string
	defaults   map[string]BuildFunc
	overrides  map[string]BuildFunc
	overridden map[string]bool
	finalized  bool
}

// NewBlueprint creates a blueprint whose base assembly always runs first.
// base may be nil when every member comes from extension points.
func NewBlueprint(name string, base BuildFunc) *Blueprint {
	return &Blueprint{
		name:       name,
		base:       base,
		defaults:   make(map[string]BuildFunc),
		overrides:  make(map[string]BuildFunc),
		overridden: make(map[string]bool),
	}
}

// ExtensionPoint declares a named point with its default sub-builder. Points
// run after the base, in declaration order. A nil default means the point
// contributes nothing unless overridden.
func (b *Blueprint) ExtensionPoint(name string, def BuildFunc) *Blueprint {
	if _, exists := b.defaults[name]; !exists {
		b.points = append(b.points, name)
	}
	b.defaults[name] = def
	return b
}

// Override swaps the named point's default sub-builder for replacement. The
// replaced default is never invoked. Override is single-use per point and
// must happen before Finalize.
func (b *Blueprint) Override(point string, replacement BuildFunc) error {
	if b.finalized {
		return synerr.Lifecycle(b.name, "override attempted after finalization")
	}
	if _, known := b.defaults[point]; !known {
		return synerr.UnknownPoint(b.name, point)
	}
	if b.overridden[point] {
		return synerr.Overridden(b.name, point)
	}
	b.overridden[point] = true
	b.overrides[point] = replacement
	return nil
}

// Finalize assembles the composite: base first, then every extension point
// in declaration order, using the override where one was applied. The
// blueprint is single-shot; a second Finalize is a lifecycle error.
func (b *Blueprint) Finalize(r *run.Run) (*Composite, error) {
	if b.finalized {
		return nil, synerr.Lifecycle(b.name, "blueprint already finalized")
	}
	b.finalized = true

	c := &Composite{name: b.name, subs: make(map[string]int)}
	if b.base != nil {
		if err := b.base(r, c); err != nil {
			return nil, err
		}
	}
	for _, point := range b.points {
		fn, wasOverridden := b.overrides[point]
		if !wasOverridden {
			fn = b.defaults[point]
		}
		if fn == nil {
			continue
		}
		if err := fn(r, c); err != nil {
			return nil, err
		}
	}
	return c, nil
}
