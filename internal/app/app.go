package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/vk/stackforge/internal/ctxlog"
	"github.com/vk/stackforge/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	catalog *registry.Registry
	config  *Config
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and catalog.
// The emitted document goes to outW; logs go to logW so a document written
// to stdout stays clean.
func NewApp(outW, logW io.Writer, cfg *Config, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	catalog := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(catalog)
	}
	logger.Debug("All catalog modules registered.", "count", len(modules))

	// A malformed built-in catalog is a programmer error, so we panic.
	if err := catalog.Validate(); err != nil {
		panic(err)
	}
	logger.Debug("Catalog validation passed.", "kinds", catalog.Kinds())

	return &App{
		outW:    outW,
		logger:  logger,
		catalog: catalog,
		config:  cfg,
	}
}

// Catalog returns the application's kind catalog. This is primarily for testing.
func (a *App) Catalog() *registry.Registry {
	return a.catalog
}

// context returns a base context carrying the app's logger.
func (a *App) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
