// Package testutil provides a minimal kind catalog and run harness shared by
// the engine's package tests, so they do not depend on the real catalog
// modules.
package testutil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/stackforge/internal/attrs"
	"github.com/vk/stackforge/internal/registry"
	"github.com/vk/stackforge/internal/run"
	"github.com/vk/stackforge/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

// Catalog returns a registry with two small kinds: a "queue" exercising
// bounds, defaults and an invariant, and a "network" exercising patterns.
func Catalog(t *testing.T) *registry.Registry {
	t.Helper()
	r := registry.New()

	r.RegisterKind(&registry.KindDef{
		Kind: "queue",
		Schema: schema.MustDefine(schema.Fields{
			"queue_name":     schema.String().Required(),
			"retention_days": schema.Int().Min(1).Max(365).Default(7),
			"fifo":           schema.Bool().Default(false).OmitIfDefault(),
			"targets":        schema.List(schema.String()).MaxItems(4),
		}),
		Outputs: []string{"id", "url"},
		Invariants: []attrs.Invariant{
			{
				Name: "fifo retention is bounded",
				Check: func(a *attrs.Attrs) error {
					fifo, _ := a.GetBool("fifo")
					days, _ := a.GetInt("retention_days")
					if fifo && days > 30 {
						return errors.New("retention_days must be at most 30 for fifo queues")
					}
					return nil
				},
			},
		},
		Computed: map[string]registry.ComputedFunc{
			"effective_retention": func(a *attrs.Attrs) cty.Value {
				days, _ := a.GetInt("retention_days")
				return cty.NumberIntVal(days * 24)
			},
			"estimated_cost": func(a *attrs.Attrs) cty.Value {
				days, _ := a.GetInt("retention_days")
				return cty.NumberFloatVal(float64(days) * 0.5)
			},
		},
	})

	r.RegisterKind(&registry.KindDef{
		Kind: "network",
		Schema: schema.MustDefine(schema.Fields{
			"cidr": schema.String().Pattern(`^(\d{1,3}\.){3}\d{1,3}/\d{1,2}$`).Required(),
			"tags": schema.Map(schema.String()),
		}),
		Outputs: []string{"id", "default_route_table"},
	})

	require.NoError(t, r.Validate(), "test catalog must be well-formed")
	return r
}

// NewRun starts a synthesis run against the test catalog.
func NewRun(t *testing.T) *run.Run {
	t.Helper()
	return run.New(Catalog(t))
}
