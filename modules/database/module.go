// Package database registers the database kind.
package database

import (
	"errors"

	"github.com/vk/stackforge/internal/attrs"
	"github.com/vk/stackforge/internal/registry"
	"github.com/vk/stackforge/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// perGBMonth is the rough storage price used by the cost estimate.
const perGBMonth = 0.115

// Register registers the kind definitions with the catalog.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterKind(&registry.KindDef{
		Kind: "database",
		Schema: schema.MustDefine(schema.Fields{
			"engine":     schema.Enum("postgres", "mysql", "mariadb").Required(),
			"version":    schema.String().Pattern(`^\d+(\.\d+)*$`),
			"storage_gb": schema.Int().Min(10).Max(65536).Required(),
			"replicas":   schema.Int().Min(0).Max(5).Default(0).OmitIfDefault(),
			"subnet_ids": schema.List(schema.String()).MinItems(1),
			"multi_az":   schema.Bool().Default(false).OmitIfDefault(),
			"parameters": schema.Map(schema.String()),
		}),
		Outputs: []string{"id", "endpoint", "reader_endpoint"},
		Invariants: []attrs.Invariant{
			{
				Name: "multi-az requires at least one replica",
				Check: func(a *attrs.Attrs) error {
					multi, _ := a.GetBool("multi_az")
					replicas, _ := a.GetInt("replicas")
					if multi && replicas < 1 {
						return errors.New("replicas must be at least 1 when multi_az is enabled")
					}
					return nil
				},
			},
		},
		Computed: map[string]registry.ComputedFunc{
			"estimated_cost": func(a *attrs.Attrs) cty.Value {
				gb, _ := a.GetInt("storage_gb")
				replicas, _ := a.GetInt("replicas")
				base := float64(gb) * perGBMonth
				return cty.NumberFloatVal(base * float64(1+replicas))
			},
			"is_highly_available": func(a *attrs.Attrs) cty.Value {
				multi, _ := a.GetBool("multi_az")
				return cty.BoolVal(multi)
			},
		},
	})
}
