package database_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/stackforge/internal/builder"
	"github.com/vk/stackforge/internal/registry"
	"github.com/vk/stackforge/internal/run"
	"github.com/vk/stackforge/internal/synerr"
	"github.com/vk/stackforge/modules/database"
)

func newRun(t *testing.T) *run.Run {
	t.Helper()
	r := registry.New()
	(&database.Module{}).Register(r)
	require.NoError(t, r.Validate())
	return run.New(r)
}

func valid() map[string]any {
	return map[string]any{
		"engine":     "postgres",
		"storage_gb": 100,
		"subnet_ids": []string{"subnet-a"},
	}
}

func TestDatabase_MultiAZNeedsReplicas(t *testing.T) {
	t.Parallel()

	t.Run("multi_az without replicas fails", func(t *testing.T) {
		t.Parallel()
		raw := valid()
		raw["multi_az"] = true
		_, err := builder.Build(newRun(t), "database", "main", raw)
		require.Error(t, err)
		assert.Equal(t, synerr.CodeInvariantViolation, synerr.CodeOf(err))
	})

	t.Run("multi_az with a replica passes", func(t *testing.T) {
		t.Parallel()
		raw := valid()
		raw["multi_az"] = true
		raw["replicas"] = 2
		n, err := builder.Build(newRun(t), "database", "main", raw)
		require.NoError(t, err)

		ha, ok := n.Computed("is_highly_available")
		require.True(t, ok)
		assert.True(t, ha.True())
	})
}

func TestDatabase_CostScalesWithReplicas(t *testing.T) {
	t.Parallel()

	raw := valid()
	raw["replicas"] = 2
	n, err := builder.Build(newRun(t), "database", "main", raw)
	require.NoError(t, err)

	v, ok := n.Computed("estimated_cost")
	require.True(t, ok)
	got, _ := v.AsBigFloat().Float64()
	assert.InDelta(t, 100*0.115*3, got, 1e-9)
}

func TestDatabase_FieldConstraints(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		mutate  func(map[string]any)
	}{
		{"unknown engine", func(m map[string]any) { m["engine"] = "oracle" }},
		{"storage below minimum", func(m map[string]any) { m["storage_gb"] = 5 }},
		{"bad version string", func(m map[string]any) { m["version"] = "v16" }},
		{"empty subnet list", func(m map[string]any) { m["subnet_ids"] = []string{} }},
		{"too many replicas", func(m map[string]any) { m["replicas"] = 9 }},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			raw := valid()
			tc.mutate(raw)
			_, err := builder.Build(newRun(t), "database", "main", raw)
			require.Error(t, err)
			assert.Equal(t, synerr.CodeConstraintViolation, synerr.CodeOf(err))
		})
	}
}
