// Package ref implements reference tokens: opaque, lazily-resolved symbolic
// values standing in for an attribute of some node whose real value is
// unknown until the external provisioning tool runs. Tokens carry identity
// and path only; they are wrapped in a cty capsule type so they can travel
// structurally through nested attribute values and are only rendered to text
// by the emitter.
package ref

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Token identifies (kind, name, attribute-path). Equality is structural.
// External tokens target infrastructure not created by the current run; they
// are exempt from local registry existence checks but still carry the
// attribute-path contract.
type Token struct {
	Kind     string
	Name     string
	Path     string // dotted attribute path, e.g. "id" or "endpoint.host"
	External bool
}

// To returns a token targeting an attribute of a node in the current run.
func To(kind, name, path string) Token {
	return Token{Kind: kind, Name: name, Path: path}
}

// ToData returns an external (pre-existing infrastructure) lookup token.
func ToData(kind, name, path string) Token {
	return Token{Kind: kind, Name: name, Path: path, External: true}
}

// String renders the token in the external format's interpolation syntax.
func (t Token) String() string {
	if t.External {
		return fmt.Sprintf("${data.%s.%s.%s}", t.Kind, t.Name, t.Path)
	}
	return fmt.Sprintf("${%s.%s.%s}", t.Kind, t.Name, t.Path)
}

// Traversal returns the token as an HCL traversal, the native expression form
// the emitted document uses for cross-resource values.
func (t Token) Traversal() hcl.Traversal {
	var tr hcl.Traversal
	if t.External {
		tr = append(tr, hcl.TraverseRoot{Name: "data"}, hcl.TraverseAttr{Name: t.Kind})
	} else {
		tr = append(tr, hcl.TraverseRoot{Name: t.Kind})
	}
	tr = append(tr, hcl.TraverseAttr{Name: t.Name})
	for _, part := range strings.Split(t.Path, ".") {
		tr = append(tr, hcl.TraverseAttr{Name: part})
	}
	return tr
}

// Type is the capsule type carrying tokens through cty value trees. RawEquals
// is structural so two tokens for the same target compare equal wherever they
// are embedded.
var Type = cty.CapsuleWithOps("reference", reflect.TypeOf(Token{}), &cty.CapsuleOps{
	GoString: func(v any) string {
		return fmt.Sprintf("ref.Val(%#v)", *(v.(*Token)))
	},
	TypeGoString: func(_ reflect.Type) string {
		return "ref.Type"
	},
	RawEquals: func(a, b any) bool {
		return *(a.(*Token)) == *(b.(*Token))
	},
})

// Val wraps a token into a cty value for embedding in attribute trees.
func Val(t Token) cty.Value {
	return cty.CapsuleVal(Type, &t)
}

// FromVal unwraps a token from a cty value, reporting whether v is a token.
func FromVal(v cty.Value) (Token, bool) {
	if v.IsNull() || !v.Type().Equals(Type) {
		return Token{}, false
	}
	return *(v.EncapsulatedValue().(*Token)), true
}

// ContainsToken reports whether v is, or transitively contains, a token.
func ContainsToken(v cty.Value) bool {
	if v.IsNull() {
		return false
	}
	if v.Type().Equals(Type) {
		return true
	}
	ty := v.Type()
	if ty.IsTupleType() || ty.IsListType() || ty.IsSetType() || ty.IsMapType() || ty.IsObjectType() {
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			if ContainsToken(ev) {
				return true
			}
		}
	}
	return false
}

// Walk invokes fn for every token embedded anywhere in v.
func Walk(v cty.Value, fn func(Token)) {
	if v.IsNull() {
		return
	}
	if t, ok := FromVal(v); ok {
		fn(t)
		return
	}
	ty := v.Type()
	if ty.IsTupleType() || ty.IsListType() || ty.IsSetType() || ty.IsMapType() || ty.IsObjectType() {
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			Walk(ev, fn)
		}
	}
}
