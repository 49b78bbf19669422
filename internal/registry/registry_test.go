package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/stackforge/internal/attrs"
	"github.com/vk/stackforge/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

func minimalKind(kind string) *KindDef {
	return &KindDef{
		Kind:    kind,
		Schema:  schema.MustDefine(schema.Fields{"name": schema.String().Required()}),
		Outputs: []string{"id"},
	}
}

func TestRegisterAndLookup(t *testing.T) {
	t.Parallel()

	r := New()
	r.RegisterKind(minimalKind("queue"))
	r.RegisterKind(minimalKind("network"))
	require.NoError(t, r.Validate())

	def, ok := r.Kind("queue")
	require.True(t, ok)
	assert.Equal(t, "queue", def.Kind)
	assert.True(t, def.HasOutput("id"))
	assert.False(t, def.HasOutput("url"))

	_, ok = r.Kind("bucket")
	assert.False(t, ok)

	assert.Equal(t, []string{"network", "queue"}, r.Kinds())
}

func TestValidate_AggregatesProblems(t *testing.T) {
	t.Parallel()

	r := New()
	r.RegisterKind(nil)
	r.RegisterKind(minimalKind("queue"))
	r.RegisterKind(minimalKind("queue"))
	r.RegisterKind(&KindDef{Kind: "schemaless"})
	r.RegisterKind(&KindDef{
		Kind:    "messy",
		Schema:  schema.MustDefine(schema.Fields{"id": schema.String()}),
		Outputs: []string{"id", "url", "url", ""},
		Computed: map[string]ComputedFunc{
			"cost": nil,
		},
		Invariants: []attrs.Invariant{{Name: "unchecked"}},
	})

	err := r.Validate()
	require.Error(t, err)
	msg := err.Error()

	assert.Contains(t, msg, "kind definition is nil or unnamed")
	assert.Contains(t, msg, `kind "queue" is registered twice`)
	assert.Contains(t, msg, `kind "schemaless": no schema registered`)
	assert.Contains(t, msg, `kind "messy": output "url" declared twice`)
	assert.Contains(t, msg, `kind "messy": empty output name`)
	assert.Contains(t, msg, `kind "messy": output "id" shadows an input field`)
	assert.Contains(t, msg, `kind "messy": computed property "cost" has no function`)
	assert.Contains(t, msg, `kind "messy": invariant 0 (unchecked) has no check`)
}

func TestValidate_AcceptsWellFormedCatalog(t *testing.T) {
	t.Parallel()

	r := New()
	r.RegisterKind(&KindDef{
		Kind:    "queue",
		Schema:  schema.MustDefine(schema.Fields{"queue_name": schema.String().Required()}),
		Outputs: []string{"id", "url"},
		Invariants: []attrs.Invariant{
			{Name: "noop", Check: func(*attrs.Attrs) error { return nil }},
		},
		Computed: map[string]ComputedFunc{
			"estimated_cost": func(*attrs.Attrs) cty.Value { return cty.Zero },
		},
	})
	require.NoError(t, r.Validate())
}

// moduleFunc adapts a function to the Module interface for tests.
type moduleFunc func(r *Registry)

func (f moduleFunc) Register(r *Registry) { f(r) }

func TestModuleRegistration(t *testing.T) {
	t.Parallel()

	r := New()
	modules := []Module{
		moduleFunc(func(r *Registry) { r.RegisterKind(minimalKind("network")) }),
		moduleFunc(func(r *Registry) { r.RegisterKind(minimalKind("subnet")) }),
	}
	for _, m := range modules {
		m.Register(r)
	}
	require.NoError(t, r.Validate())
	assert.Equal(t, []string{"network", "subnet"}, r.Kinds())
}
