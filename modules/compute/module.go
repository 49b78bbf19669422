// Package compute registers the function kind: a managed compute unit with
// conditional sizing and permission-model invariants.
package compute

import (
	"github.com/vk/stackforge/internal/attrs"
	"github.com/vk/stackforge/internal/registry"
	"github.com/vk/stackforge/internal/schema"
	"github.com/vk/stackforge/internal/synerr"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the kind definitions with the catalog.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterKind(&registry.KindDef{
		Kind: "function",
		Schema: schema.MustDefine(schema.Fields{
			"runtime":          schema.Enum("go", "node", "python").Required(),
			"handler":          schema.String().Required(),
			"cpu":              schema.Int().Min(128).Max(10240),
			"memory":           schema.Int().Min(128).Max(10240),
			"timeout_seconds":  schema.Int().Min(1).Max(900).Default(60).OmitIfDefault(),
			"compatibility":    schema.List(schema.Enum("standard", "provisioned", "gpu")).MaxItems(3),
			"permission_model": schema.Enum("role", "inline").Default("role"),
			"execution_role":   schema.String().Pattern(`^[a-zA-Z0-9:/_-]+$`),
			"environment":      schema.Map(schema.String()).MaxItems(64),
			"subnet_ids":       schema.List(schema.String()),
		}),
		Outputs: []string{"id", "invoke_url"},
		Invariants: []attrs.Invariant{
			{
				Name: "provisioned compatibility requires explicit sizing",
				Check: func(a *attrs.Attrs) error {
					flags, _ := a.GetStringSlice("compatibility")
					if !contains(flags, "provisioned") {
						return nil
					}
					if !a.Has("cpu") {
						return synerr.Invariant("", "", "cpu", "cpu must be set when compatibility includes \"provisioned\"")
					}
					if !a.Has("memory") {
						return synerr.Invariant("", "", "memory", "memory must be set when compatibility includes \"provisioned\"")
					}
					return nil
				},
			},
			{
				Name: "execution role follows the permission model",
				Check: func(a *attrs.Attrs) error {
					model, _ := a.GetString("permission_model")
					switch model {
					case "role":
						if !a.Has("execution_role") {
							return synerr.Invariant("", "", "execution_role", "execution_role is required under the \"role\" permission model")
						}
					case "inline":
						if a.Has("execution_role") {
							return synerr.Invariant("", "", "execution_role", "execution_role is forbidden under the \"inline\" permission model")
						}
					}
					return nil
				},
			},
		},
		Computed: map[string]registry.ComputedFunc{
			"estimated_cost": func(a *attrs.Attrs) cty.Value {
				cpu, ok := a.GetInt("cpu")
				if !ok {
					cpu = 128
				}
				mem, ok := a.GetInt("memory")
				if !ok {
					mem = 128
				}
				return cty.NumberFloatVal(float64(cpu)*0.00002 + float64(mem)*0.00001)
			},
			"is_provisioned": func(a *attrs.Attrs) cty.Value {
				flags, _ := a.GetStringSlice("compatibility")
				return cty.BoolVal(contains(flags, "provisioned"))
			},
		},
	})
}

func contains(ss []string, want string) bool {
	for _, s := range ss {
		if s == want {
			return true
		}
	}
	return false
}
