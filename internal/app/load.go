package app

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	json "github.com/goccy/go-json"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

// LoadParams reads an architecture parameter file. The format follows the
// file extension: HCL attributes, JSON, or YAML. All three decode into the
// same loosely-typed map the engine validates downstream.
func LoadParams(path string) (map[string]any, error) {
	switch filepath.Ext(path) {
	case ".hcl":
		return loadHCLParams(path)
	case ".json":
		return loadJSONParams(path)
	case ".yaml", ".yml":
		return loadYAMLParams(path)
	default:
		return nil, fmt.Errorf("unsupported params format %q (want .hcl, .json, .yaml)", filepath.Ext(path))
	}
}

func loadHCLParams(path string) (map[string]any, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse %s: %w", path, diags)
	}
	hclAttrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to read attributes from %s: %w", path, diags)
	}

	// Evaluate in name order so any error reported is stable.
	names := make([]string, 0, len(hclAttrs))
	for name := range hclAttrs {
		names = append(names, name)
	}
	sort.Strings(names)

	params := make(map[string]any, len(hclAttrs))
	for _, name := range names {
		v, diags := hclAttrs[name].Expr.Value(&hcl.EvalContext{})
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to evaluate %s in %s: %w", name, path, diags)
		}
		params[name] = ctyToGo(v)
	}
	return params, nil
}

func loadJSONParams(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var params map[string]any
	if err := json.Unmarshal(data, &params); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return params, nil
}

func loadYAMLParams(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var params map[string]any
	if err := yaml.Unmarshal(data, &params); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return params, nil
}

// ctyToGo converts an evaluated HCL value into the loosely-typed shape the
// validation engine accepts.
func ctyToGo(v cty.Value) any {
	if v.IsNull() {
		return nil
	}
	ty := v.Type()
	switch {
	case ty.Equals(cty.String):
		return v.AsString()
	case ty.Equals(cty.Bool):
		return v.True()
	case ty.Equals(cty.Number):
		bf := v.AsBigFloat()
		if bf.IsInt() {
			n, _ := bf.Int64()
			return n
		}
		f, _ := bf.Float64()
		return f
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		var out []any
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			out = append(out, ctyToGo(ev))
		}
		return out
	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any)
		for it := v.ElementIterator(); it.Next(); {
			kv, ev := it.Element()
			out[kv.AsString()] = ctyToGo(ev)
		}
		return out
	default:
		return nil
	}
}
