package composite_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/stackforge/internal/builder"
	"github.com/vk/stackforge/internal/composite"
	"github.com/vk/stackforge/internal/run"
	"github.com/vk/stackforge/internal/synerr"
	"github.com/vk/stackforge/internal/testutil"
)

// messagingBlueprint is a small two-point blueprint used across the tests:
// the base builds a network, the "queue" point builds a default queue, and
// the "audit" point contributes nothing unless overridden.
func messagingBlueprint() *composite.Blueprint {
	base := func(r *run.Run, c *composite.Composite) error {
		n, err := builder.Build(r, "network", "msg-net", map[string]any{"cidr": "10.0.0.0/16"})
		if err != nil {
			return err
		}
		c.AddSub("network", n)
		return nil
	}
	defaultQueue := func(r *run.Run, c *composite.Composite) error {
		n, err := builder.Build(r, "queue", "msg-q", map[string]any{"queue_name": "msg"})
		if err != nil {
			return err
		}
		c.AddSub("queue", n)
		return nil
	}
	return composite.NewBlueprint("messaging", base).
		ExtensionPoint("queue", defaultQueue).
		ExtensionPoint("audit", nil)
}

func TestFinalize_RunsBaseThenPoints(t *testing.T) {
	t.Parallel()

	r := testutil.NewRun(t)
	c, err := messagingBlueprint().Finalize(r)
	require.NoError(t, err)

	assert.Equal(t, "messaging", c.Name())
	assert.Equal(t, 2, c.Size())
	assert.True(t, c.HasKind("network"))
	assert.True(t, c.HasKind("queue"))
	assert.False(t, c.HasKind("database"))

	// Attachment order: base members before extension-point members.
	nodes := c.Nodes()
	require.Len(t, nodes, 2)
	assert.Equal(t, "network.msg-net", nodes[0].ID().String())
	assert.Equal(t, "queue.msg-q", nodes[1].ID().String())

	q, ok := c.Sub("queue")
	require.True(t, ok)
	assert.Equal(t, "msg-q", q.Name())
	_, ok = c.Sub("cache")
	assert.False(t, ok)
}

func TestOverride_ReplacesDefault(t *testing.T) {
	t.Parallel()

	r := testutil.NewRun(t)
	b := messagingBlueprint()
	require.NoError(t, b.Override("queue", func(r *run.Run, c *composite.Composite) error {
		n, err := builder.Build(r, "queue", "msg-q-v2", map[string]any{
			"queue_name":     "msg_v2",
			"retention_days": 30,
		})
		if err != nil {
			return err
		}
		c.AddSub("queue", n)
		return nil
	}))

	c, err := b.Finalize(r)
	require.NoError(t, err)

	q, ok := c.Sub("queue")
	require.True(t, ok)
	assert.Equal(t, "msg-q-v2", q.Name(), "the override's node replaces the default")

	// The replaced default never ran, so its node is absent from the run.
	for _, n := range r.Nodes() {
		assert.NotEqual(t, "queue.msg-q", n.ID().String())
	}
}

func TestOverride_Lifecycle(t *testing.T) {
	t.Parallel()

	noop := func(*run.Run, *composite.Composite) error { return nil }

	t.Run("unknown point", func(t *testing.T) {
		t.Parallel()
		err := messagingBlueprint().Override("cache", noop)
		require.Error(t, err)
		assert.Equal(t, synerr.CodeUnknownExtensionPoint, synerr.CodeOf(err))
	})

	t.Run("second override on the same point", func(t *testing.T) {
		t.Parallel()
		b := messagingBlueprint()
		require.NoError(t, b.Override("queue", noop))
		err := b.Override("queue", noop)
		require.Error(t, err)
		assert.Equal(t, synerr.CodeExtensionPointAlreadyOverridden, synerr.CodeOf(err))
	})

	t.Run("override after finalize", func(t *testing.T) {
		t.Parallel()
		b := messagingBlueprint()
		_, err := b.Finalize(testutil.NewRun(t))
		require.NoError(t, err)
		err = b.Override("queue", noop)
		require.Error(t, err)
		assert.Equal(t, synerr.CodeCompositeLifecycle, synerr.CodeOf(err))
	})

	t.Run("second finalize", func(t *testing.T) {
		t.Parallel()
		b := messagingBlueprint()
		_, err := b.Finalize(testutil.NewRun(t))
		require.NoError(t, err)
		_, err = b.Finalize(testutil.NewRun(t))
		require.Error(t, err)
		assert.Equal(t, synerr.CodeCompositeLifecycle, synerr.CodeOf(err))
	})
}

func TestFinalize_PropagatesBuildErrors(t *testing.T) {
	t.Parallel()

	b := composite.NewBlueprint("broken", func(*run.Run, *composite.Composite) error {
		return errors.New("base assembly failed")
	})
	_, err := b.Finalize(testutil.NewRun(t))
	require.EqualError(t, err, "base assembly failed")
}

func TestExtend_AddsMembers(t *testing.T) {
	t.Parallel()

	r := testutil.NewRun(t)
	c, err := messagingBlueprint().Finalize(r)
	require.NoError(t, err)
	require.Equal(t, 2, c.Size())

	err = c.Extend(r, func(r *run.Run, c *composite.Composite) error {
		n, err := builder.Build(r, "queue", "dead-letters", map[string]any{"queue_name": "dead"})
		if err != nil {
			return err
		}
		c.Add(n)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, c.Size(), "extensions add members after finalization")
}

func TestNodes_DedupesAcrossChildren(t *testing.T) {
	t.Parallel()

	r := testutil.NewRun(t)
	shared, err := builder.Build(r, "network", "shared", map[string]any{"cidr": "10.0.0.0/16"})
	require.NoError(t, err)

	child := composite.NewBlueprint("child", func(_ *run.Run, c *composite.Composite) error {
		c.Add(shared)
		return nil
	})
	inner, err := child.Finalize(r)
	require.NoError(t, err)

	parent := composite.NewBlueprint("parent", func(_ *run.Run, c *composite.Composite) error {
		c.Add(shared)
		c.AddChild(inner)
		return nil
	})
	outer, err := parent.Finalize(r)
	require.NoError(t, err)

	assert.Equal(t, 1, outer.Size(), "a node reachable twice is listed once")
}

func TestTotalComputed_RecomputesAfterChanges(t *testing.T) {
	t.Parallel()

	// estimated_cost in the test catalog is retention_days * 0.5.
	r := testutil.NewRun(t)
	b := composite.NewBlueprint("costed", func(r *run.Run, c *composite.Composite) error {
		n, err := builder.Build(r, "queue", "a", map[string]any{
			"queue_name":     "a",
			"retention_days": 10,
		})
		if err != nil {
			return err
		}
		c.Add(n)
		return nil
	})
	c, err := b.Finalize(r)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, c.TotalComputed("estimated_cost"), 1e-9)

	err = c.Extend(r, func(r *run.Run, c *composite.Composite) error {
		n, err := builder.Build(r, "queue", "b", map[string]any{
			"queue_name":     "b",
			"retention_days": 20,
		})
		if err != nil {
			return err
		}
		c.Add(n)
		return nil
	})
	require.NoError(t, err)
	assert.InDelta(t, 15.0, c.TotalComputed("estimated_cost"), 1e-9,
		"roll-ups reflect post-extend membership")

	// Nodes without the property are skipped, not errors.
	err = c.Extend(r, func(r *run.Run, c *composite.Composite) error {
		n, err := builder.Build(r, "network", "n", map[string]any{"cidr": "10.1.0.0/16"})
		if err != nil {
			return err
		}
		c.Add(n)
		return nil
	})
	require.NoError(t, err)
	assert.InDelta(t, 15.0, c.TotalComputed("estimated_cost"), 1e-9)
}
