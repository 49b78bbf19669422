// Package storage registers the bucket kind.
package storage

import (
	"errors"

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
		Kind: "bucket",
		Schema: schema.MustDefine(schema.Fields{
			"bucket_name":     schema.String().Pattern(`^[a-z0-9][a-z0-9.-]{1,61}[a-z0-9]$`).Required(),
			"versioning":      schema.Bool().Default(false).OmitIfDefault(),
			"expire_days":     schema.Int().Min(1).Max(3650),
			"public_read":     schema.Bool().Default(false).OmitIfDefault(),
			"encryption_key":  schema.String(),
			"lifecycle_rules": schema.List(schema.Object(lifecycleRule())).MaxItems(20),
		}),
		Outputs: []string{"id", "domain"},
		Invariants: []attrs.Invariant{
			{
				Name: "public buckets cannot carry a customer encryption key",
				Check: func(a *attrs.Attrs) error {
					public, _ := a.GetBool("public_read")
					if public && a.Has("encryption_key") {
						return errors.New("encryption_key and public_read are mutually exclusive")
					}
					return nil
				},
			},
		},
		Computed: map[string]registry.ComputedFunc{
			"is_public": func(a *attrs.Attrs) cty.Value {
				public, _ := a.GetBool("public_read")
				return cty.BoolVal(public)
			},
		},
	})
}

// lifecycleRule describes one bucket lifecycle transition.
func lifecycleRule() *schema.Schema {
	return schema.MustDefine(schema.Fields{
		"prefix":        schema.String().Required(),
		"after_days":    schema.Int().Min(1).Max(3650).Required(),
		"storage_class": schema.Enum("standard", "infrequent", "archive").Default("infrequent"),
	})
}
