package app

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/stackforge/internal/ctxlog"
	"github.com/vk/stackforge/internal/emit"
	"github.com/vk/stackforge/internal/run"
	"github.com/vk/stackforge/modules/webstack"
)

// Run executes one full synthesis: load parameters, compose the built-in
// architecture, emit the document. It either completes fully or returns the
// first validation/identity error; no document is written on failure.
func (a *App) Run(ctx context.Context) error {
	ctx = a.context(ctx)
	logger := ctxlog.FromContext(ctx)

	raw, err := LoadParams(a.config.ParamsPath)
	if err != nil {
		return err
	}
	params, err := stackParams(raw, a.config.Environment)
	if err != nil {
		return err
	}
	logger.Debug("Parameters loaded.", "path", a.config.ParamsPath, "stack", params.Name, "environment", params.Environment)

	r := run.New(a.catalog)
	logger.Info("Synthesis run started.", "run_id", r.ID())

	stack, err := webstack.Compose(r, params)
	if err != nil {
		return err
	}
	logger.Info("Architecture composed.",
		"name", stack.Name(),
		"nodes", stack.Size(),
		"estimated_cost", fmt.Sprintf("%.2f", webstack.EstimatedCost(stack)),
	)

	doc, err := emit.Emit(r)
	if err != nil {
		return err
	}

	if a.config.OutPath == "" {
		_, err = a.outW.Write(doc)
		return err
	}
	if err := os.WriteFile(a.config.OutPath, doc, 0o644); err != nil {
		return err
	}
	logger.Info("Document written.", "path", a.config.OutPath, "bytes", len(doc))
	return nil
}

// stackParams maps the loosely-typed parameter file onto the architecture's
// parameter object. An explicit -env flag wins over the file.
func stackParams(raw map[string]any, envOverride string) (webstack.Params, error) {
	p := webstack.Params{Environment: "dev"}

	name, ok := raw["name"].(string)
	if !ok || name == "" {
		return p, fmt.Errorf("params: \"name\" is required and must be a string")
	}
	p.Name = name

	if env, ok := raw["environment"].(string); ok && env != "" {
		p.Environment = env
	}
	if envOverride != "" {
		p.Environment = envOverride
	}
	return p, nil
}
