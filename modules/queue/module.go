// Package queue registers the queue kind.
package queue

import (
	"errors"
	"strings"

	"github.com/vk/stackforge/internal/attrs"
	"github.com/vk/stackforge/internal/registry"
	"github.com/vk/stackforge/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the kind definitions with the catalog.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterKind(&registry.KindDef{
		Kind: "queue",
		Schema: schema.MustDefine(schema.Fields{
			"queue_name":         schema.String().Pattern(`^[a-zA-Z0-9_-]{1,80}$`).Required(),
			"retention_days":     schema.Int().Min(1).Max(365).Default(7),
			"visibility_timeout": schema.Int().Min(0).Max(43200).Default(30).OmitIfDefault(),
			"fifo":               schema.Bool().Default(false).OmitIfDefault(),
			"dead_letter_target": schema.String(),
			"max_receive_count":  schema.Int().Min(1).Max(1000),
		}),
		Outputs: []string{"id", "url"},
		Invariants: []attrs.Invariant{
			{
				Name: "fifo queue names carry the .fifo suffix",
				Check: func(a *attrs.Attrs) error {
					fifo, _ := a.GetBool("fifo")
					name, _ := a.GetString("queue_name")
					if fifo && !strings.HasSuffix(name, "_fifo") {
						return errors.New("queue_name must end in _fifo when fifo is enabled")
					}
					return nil
				},
			},
			{
				Name: "dead-letter settings travel together",
				Check: func(a *attrs.Attrs) error {
					hasTarget := a.Has("dead_letter_target")
					hasCount := a.Has("max_receive_count")
					if hasTarget != hasCount {
						return errors.New("dead_letter_target and max_receive_count must be set together")
					}
					return nil
				},
			},
		},
		Computed: map[string]registry.ComputedFunc{
			// effective_retention reports the retention window in hours.
			"effective_retention": func(a *attrs.Attrs) cty.Value {
				days, _ := a.GetInt("retention_days")
				return cty.NumberIntVal(days * 24)
			},
			"estimated_cost": func(a *attrs.Attrs) cty.Value {
				days, _ := a.GetInt("retention_days")
				return cty.NumberFloatVal(0.4 + float64(days)*0.01)
			},
		},
	})
}
