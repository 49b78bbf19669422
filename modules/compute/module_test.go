package compute_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/stackforge/internal/builder"
	"github.com/vk/stackforge/internal/registry"
	"github.com/vk/stackforge/internal/run"
	"github.com/vk/stackforge/internal/synerr"
	"github.com/vk/stackforge/modules/compute"
)

func newRun(t *testing.T) *run.Run {
	t.Helper()
	r := registry.New()
	(&compute.Module{}).Register(r)
	require.NoError(t, r.Validate())
	return run.New(r)
}

func TestFunction_Minimal(t *testing.T) {
	t.Parallel()

	r := newRun(t)
	n, err := builder.Build(r, "function", "app", map[string]any{
		"runtime":        "go",
		"handler":        "main",
		"execution_role": "service/app",
	})
	require.NoError(t, err)

	model, ok := n.Attrs().GetString("permission_model")
	require.True(t, ok)
	assert.Equal(t, "role", model, "permission model defaults to role")

	timeout, ok := n.Attrs().GetInt("timeout_seconds")
	require.True(t, ok)
	assert.Equal(t, int64(60), timeout)
}

func TestFunction_ProvisionedRequiresSizing(t *testing.T) {
	t.Parallel()

	raw := func(overlay map[string]any) map[string]any {
		base := map[string]any{
			"runtime":        "go",
			"handler":        "main",
			"execution_role": "service/app",
			"compatibility":  []string{"standard", "provisioned"},
		}
		for k, v := range overlay {
			base[k] = v
		}
		return base
	}

	t.Run("missing memory names the field", func(t *testing.T) {
		t.Parallel()
		_, err := builder.Build(newRun(t), "function", "app", raw(map[string]any{"cpu": 512}))
		require.Error(t, err)

		var se *synerr.Error
		require.ErrorAs(t, err, &se)
		assert.Equal(t, synerr.CodeInvariantViolation, se.Code)
		assert.Equal(t, "function", se.Kind)
		assert.Equal(t, "app", se.Name)
		assert.Equal(t, "memory", se.Path)
	})

	t.Run("missing cpu names the field", func(t *testing.T) {
		t.Parallel()
		_, err := builder.Build(newRun(t), "function", "app", raw(map[string]any{"memory": 512}))
		var se *synerr.Error
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "cpu", se.Path)
	})

	t.Run("both present passes", func(t *testing.T) {
		t.Parallel()
		n, err := builder.Build(newRun(t), "function", "app", raw(map[string]any{
			"cpu":    512,
			"memory": 1024,
		}))
		require.NoError(t, err)

		v, ok := n.Computed("is_provisioned")
		require.True(t, ok)
		assert.True(t, v.True())
	})

	t.Run("standard only needs no sizing", func(t *testing.T) {
		t.Parallel()
		_, err := builder.Build(newRun(t), "function", "app", map[string]any{
			"runtime":        "node",
			"handler":        "index.handler",
			"execution_role": "service/app",
			"compatibility":  []string{"standard"},
		})
		require.NoError(t, err)
	})
}

func TestFunction_PermissionModel(t *testing.T) {
	t.Parallel()

	t.Run("role model requires execution_role", func(t *testing.T) {
		t.Parallel()
		_, err := builder.Build(newRun(t), "function", "app", map[string]any{
			"runtime": "go",
			"handler": "main",
		})
		var se *synerr.Error
		require.ErrorAs(t, err, &se)
		assert.Equal(t, synerr.CodeInvariantViolation, se.Code)
		assert.Equal(t, "execution_role", se.Path)
	})

	t.Run("inline model forbids execution_role", func(t *testing.T) {
		t.Parallel()
		_, err := builder.Build(newRun(t), "function", "app", map[string]any{
			"runtime":          "go",
			"handler":          "main",
			"permission_model": "inline",
			"execution_role":   "service/app",
		})
		var se *synerr.Error
		require.ErrorAs(t, err, &se)
		assert.Equal(t, synerr.CodeInvariantViolation, se.Code)
		assert.Equal(t, "execution_role", se.Path)
	})

	t.Run("inline model without role passes", func(t *testing.T) {
		t.Parallel()
		_, err := builder.Build(newRun(t), "function", "app", map[string]any{
			"runtime":          "python",
			"handler":          "handler.main",
			"permission_model": "inline",
		})
		require.NoError(t, err)
	})
}

func TestFunction_FieldConstraints(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  map[string]any
	}{
		{
			name: "unknown runtime",
			raw:  map[string]any{"runtime": "rust", "handler": "main", "execution_role": "r"},
		},
		{
			name: "cpu below minimum",
			raw:  map[string]any{"runtime": "go", "handler": "main", "execution_role": "r", "cpu": 64},
		},
		{
			name: "unknown compatibility flag",
			raw: map[string]any{
				"runtime": "go", "handler": "main", "execution_role": "r",
				"compatibility": []string{"burst"},
			},
		},
		{
			name: "execution role with illegal characters",
			raw:  map[string]any{"runtime": "go", "handler": "main", "execution_role": "role with spaces"},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := builder.Build(newRun(t), "function", "app", tc.raw)
			require.Error(t, err)
			assert.Equal(t, synerr.CodeConstraintViolation, synerr.CodeOf(err))
		})
	}
}

func TestFunction_EstimatedCost(t *testing.T) {
	t.Parallel()

	n, err := builder.Build(newRun(t), "function", "app", map[string]any{
		"runtime":        "go",
		"handler":        "main",
		"execution_role": "service/app",
		"cpu":            1000,
		"memory":         2000,
	})
	require.NoError(t, err)

	v, ok := n.Computed("estimated_cost")
	require.True(t, ok)
	got, _ := v.AsBigFloat().Float64()
	assert.InDelta(t, 1000*0.00002+2000*0.00001, got, 1e-9)
}
