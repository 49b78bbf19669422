// Package webstack is the built-in example architecture: a network with one
// subnet, a job queue, a compute function wired to the queue, and a database
// behind an extension point. It demonstrates the composite build phase:
// declare points, override at most once each, finalize, extend.
package webstack

import (
	"errors"

	"github.com/vk/stackforge/internal/builder"
	"github.com/vk/stackforge/internal/composite"
	"github.com/vk/stackforge/internal/node"
	"github.com/vk/stackforge/internal/run"
)

// Params is the plain parameter object for the architecture. Environment is
// ordinary input: it only influences the defaults supplied below.
type Params struct {
	Name        string
	Environment string
}

// storageFor sizes the default database by environment.
func storageFor(env string) int {
	if env == "prod" {
		return 100
	}
	return 20
}

// Blueprint assembles the architecture's build phase. Callers may override
// the "database" or "cache" extension points before finalizing.
func Blueprint(p Params) *composite.Blueprint {
	base := func(r *run.Run, c *composite.Composite) error {
		net, err := builder.Build(r, "network", p.Name+"-net", map[string]any{
			"cidr": "10.0.0.0/16",
			"tags": map[string]any{"environment": p.Environment},
		})
		if err != nil {
			return err
		}
		c.AddSub("network", net)

		netID, err := net.Output("id")
		if err != nil {
			return err
		}
		sub, err := builder.Build(r, "subnet", p.Name+"-subnet-a", map[string]any{
			"network_id": netID,
			"cidr":       "10.0.1.0/24",
			"zone":       "a",
		})
		if err != nil {
			return err
		}
		c.AddSub("subnet", sub)

		q, err := builder.Build(r, "queue", p.Name+"-jobs", map[string]any{
			"queue_name":     p.Name + "-jobs",
			"retention_days": 7,
		})
		if err != nil {
			return err
		}
		c.AddSub("queue", q)

		queueURL, err := q.Output("url")
		if err != nil {
			return err
		}
		subID, err := sub.Output("id")
		if err != nil {
			return err
		}
		app, err := builder.Build(r, "function", p.Name+"-app", map[string]any{
			"runtime":        "go",
			"handler":        "main",
			"execution_role": "service/" + p.Name + "-app",
			"environment": map[string]any{
				"ENVIRONMENT": p.Environment,
				"QUEUE_URL":   queueURL,
			},
			"subnet_ids": []any{subID},
		})
		if err != nil {
			return err
		}
		c.AddSub("app", app)
		return nil
	}

	bp := composite.NewBlueprint(p.Name, base)
	bp.ExtensionPoint("database", func(r *run.Run, c *composite.Composite) error {
		sub, ok := c.Sub("subnet")
		if !ok {
			return errors.New("webstack: base assembly did not attach a subnet")
		}
		subID, err := sub.Output("id")
		if err != nil {
			return err
		}
		db, err := builder.Build(r, "database", p.Name+"-db", map[string]any{
			"engine":     "postgres",
			"storage_gb": storageFor(p.Environment),
			"subnet_ids": []any{subID},
		})
		if err != nil {
			return err
		}
		c.AddSub("database", db)
		return nil
	})
	// No cache by default; override the point to attach one.
	bp.ExtensionPoint("cache", nil)
	return bp
}

// Compose finalizes the default blueprint without overrides.
func Compose(r *run.Run, p Params) (*composite.Composite, error) {
	return Blueprint(p).Finalize(r)
}

// EstimatedCost rolls up the per-node cost estimates. Recomputed on every
// call so it reflects overrides and extensions.
func EstimatedCost(c *composite.Composite) float64 {
	return c.TotalComputed("estimated_cost")
}

// Database returns the architecture's database sub-component, however the
// extension point produced it.
func Database(c *composite.Composite) (*node.Node, bool) {
	return c.Sub("database")
}
