package composite

import (
	"github.com/vk/stackforge/internal/node"
	"github.com/vk/stackforge/internal/nodeid"
	"github.com/vk/stackforge/internal/run"
	"github.com/zclconf/go-cty/cty"
)

// Composite is an ordered aggregate of resource nodes and nested composites
// representing a reusable infrastructure pattern. Its roll-up properties are
// pure functions over the current members, recomputed on every access so
// they always reflect post-override and post-extend state.
type Composite struct {
	name     string
	nodes    []*node.Node
	children []*Composite
	subs     map[string]int // named sub-component -> index into nodes
}

// Name returns the composite's name.
func (c *Composite) Name() string { return c.name }

// Add appends a member node.
func (c *Composite) Add(n *node.Node) {
	c.nodes = append(c.nodes, n)
}

// AddSub appends a member node and exposes it under a sub-component name.
func (c *Composite) AddSub(name string, n *node.Node) {
	c.subs[name] = len(c.nodes)
	c.nodes = append(c.nodes, n)
}

// AddChild nests another composite inside this one.
func (c *Composite) AddChild(child *Composite) {
	c.children = append(c.children, child)
}

// Sub returns the named sub-component.
func (c *Composite) Sub(name string) (*node.Node, bool) {
	i, ok := c.subs[name]
	if !ok {
		return nil, false
	}
	return c.nodes[i], true
}

// Nodes returns the transitively owned nodes in attachment order, each
// identity listed once even when reachable through several children.
func (c *Composite) Nodes() []*node.Node {
	seen := make(map[nodeid.Identity]struct{})
	var out []*node.Node
	c.collect(seen, &out)
	return out
}

func (c *Composite) collect(seen map[nodeid.Identity]struct{}, out *[]*node.Node) {
	for _, n := range c.nodes {
		if _, dup := seen[n.ID()]; dup {
			continue
		}
		seen[n.ID()] = struct{}{}
		*out = append(*out, n)
	}
	for _, child := range c.children {
		child.collect(seen, out)
	}
}

// Extend invokes ext with the finalized composite as context. Extensions may
// build further nodes and wiring; they never remove or mutate existing
// members (the API offers no removal).
func (c *Composite) Extend(r *run.Run, ext BuildFunc) error {
	return ext(r, c)
}

// Size returns the number of transitively owned nodes.
func (c *Composite) Size() int {
	return len(c.Nodes())
}

// HasKind reports whether any owned node is of the given kind.
func (c *Composite) HasKind(kind string) bool {
	for _, n := range c.Nodes() {
		if n.Kind() == kind {
			return true
		}
	}
	return false
}

// TotalComputed sums the named numeric computed property over every owned
// node that declares it. Like all roll-ups it is recomputed on each call.
func (c *Composite) TotalComputed(prop string) float64 {
	var total float64
	for _, n := range c.Nodes() {
		v, ok := n.Computed(prop)
		if !ok || v.IsNull() || !v.Type().Equals(cty.Number) {
			continue
		}
		f, _ := v.AsBigFloat().Float64()
		total += f
	}
	return total
}
