// Package emit converts a synthesis run's node graph into the external
// declarative document. Resources are written as `resource "kind" "name"`
// blocks in (kind, name) order, attribute values in lexical field order, and
// embedded reference tokens as native traversal expressions. Emission is
// deterministic: an unmodified run always produces byte-identical output.
package emit

import (
	"io"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/vk/stackforge/internal/attrs"
	"github.com/vk/stackforge/internal/nodeid"
	"github.com/vk/stackforge/internal/ref"
	"github.com/vk/stackforge/internal/run"
	"github.com/vk/stackforge/internal/synerr"
	"github.com/zclconf/go-cty/cty"
)

// Emit renders every node registered in the run. Nodes reached through
// composites are already in the run registry, so each identity is emitted
// exactly once. Before any byte is produced, every local reference token is
// checked against the registry; an unresolved one aborts the emission.
func Emit(r *run.Run) ([]byte, error) {
	nodes := r.Nodes()
	for _, n := range nodes {
		if err := checkResolved(r, n.Attrs()); err != nil {
			return nil, err
		}
	}

	f := hclwrite.NewEmptyFile()
	body := f.Body()
	for i, n := range nodes {
		if i > 0 {
			body.AppendNewline()
		}
		block := body.AppendNewBlock("resource", []string{n.Kind(), n.Name()})
		writeAttrs(block.Body(), n.Attrs())
	}
	return f.Bytes(), nil
}

// Write emits the run's document to w.
func Write(r *run.Run, w io.Writer) error {
	doc, err := Emit(r)
	if err != nil {
		return err
	}
	_, err = w.Write(doc)
	return err
}

// checkResolved walks every attribute value and fails on the first local
// token whose target is absent from the run. External (data) tokens are
// exempt: they point at infrastructure this run did not create.
func checkResolved(r *run.Run, a *attrs.Attrs) error {
	var unresolved *ref.Token
	for _, name := range a.FieldNames() {
		if unresolved != nil {
			break
		}
		v, _ := a.Get(name)
		ref.Walk(v, func(t ref.Token) {
			if unresolved != nil || t.External {
				return
			}
			if _, ok := r.Lookup(nodeid.New(t.Kind, t.Name)); !ok {
				tc := t
				unresolved = &tc
			}
		})
	}
	if unresolved != nil {
		return synerr.Unresolved(unresolved.Kind, unresolved.Name, unresolved.Path)
	}
	return nil
}

// writeAttrs renders the validated attribute record into an HCL body,
// honoring each field's omit-if-default marker.
func writeAttrs(body *hclwrite.Body, a *attrs.Attrs) {
	s := a.Schema()
	for _, name := range s.FieldNames() {
		v, ok := a.Get(name)
		if !ok {
			continue
		}
		f, _ := s.Field(name)
		if f.OmitsIfDefault() && f.HasDefault() && v.RawEquals(f.DefaultValue()) {
			continue
		}
		body.SetAttributeRaw(name, tokensForValue(v))
	}
}

// tokensForValue renders one attribute value. Values free of reference
// tokens go through hclwrite's stock renderer; values carrying tokens are
// rebuilt structurally so each token becomes a traversal expression instead
// of an evaluated value. cty iterates object attributes and map keys in
// lexical order, which keeps the rebuilt forms deterministic too.
func tokensForValue(v cty.Value) hclwrite.Tokens {
	if t, ok := ref.FromVal(v); ok {
		return hclwrite.TokensForTraversal(t.Traversal())
	}
	if !ref.ContainsToken(v) {
		return hclwrite.TokensForValue(v)
	}

	ty := v.Type()
	switch {
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		var elems []hclwrite.Tokens
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			elems = append(elems, tokensForValue(ev))
		}
		return hclwrite.TokensForTuple(elems)
	case ty.IsObjectType() || ty.IsMapType():
		var pairs []hclwrite.ObjectAttrTokens
		for it := v.ElementIterator(); it.Next(); {
			kv, ev := it.Element()
			pairs = append(pairs, hclwrite.ObjectAttrTokens{
				Name:  hclwrite.TokensForValue(kv),
				Value: tokensForValue(ev),
			})
		}
		return hclwrite.TokensForObject(pairs)
	default:
		return hclwrite.TokensForValue(v)
	}
}
