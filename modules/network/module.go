// Package network registers the network and subnet kinds.
package network

import (
	"github.com/vk/stackforge/internal/registry"
	"github.com/vk/stackforge/internal/schema"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// cidrPattern accepts IPv4 CIDR notation; the external tool performs the
// semantic range checks.
const cidrPattern = `^(\d{1,3}\.){3}\d{1,3}/\d{1,2}$`

// Register registers the kind definitions with the catalog.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterKind(&registry.KindDef{
		Kind: "network",
		Schema: schema.MustDefine(schema.Fields{
			"cidr":        schema.String().Pattern(cidrPattern).Required(),
			"dns_enabled": schema.Bool().Default(true).OmitIfDefault(),
			"tags":        schema.Map(schema.String()),
		}),
		Outputs: []string{"id", "default_route_table"},
	})

	r.RegisterKind(&registry.KindDef{
		Kind: "subnet",
		Schema: schema.MustDefine(schema.Fields{
			"network_id": schema.String().Required(),
			"cidr":       schema.String().Pattern(cidrPattern).Required(),
			"zone":       schema.String(),
			"public":     schema.Bool().Default(false).OmitIfDefault(),
		}),
		Outputs: []string{"id"},
	})
}
