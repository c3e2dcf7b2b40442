package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/goliatone/go-activity-stream/components/stream"
	"github.com/goliatone/go-activity-stream/components/stream/sqlite"
)

// runtime bundles the collaborators every subcommand needs.
type runtime struct {
	cfg      *stream.Config
	logger   *slog.Logger
	renderer stream.Renderer
}

func (c *cli) runtime() (*runtime, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := stream.NewLogger(cfg.Log, os.Stderr)
	if err != nil {
		return nil, err
	}
	renderer, err := stream.NewTemplateRenderer()
	if err != nil {
		return nil, fmt.Errorf("streamctl: load templates: %w", err)
	}
	return &runtime{cfg: cfg, logger: logger, renderer: renderer}, nil
}

func (c *cli) loadConfig() (*stream.Config, error) {
	if c.Config == "" {
		cfg := stream.DefaultConfig()
		return &cfg, nil
	}
	return stream.LoadConfig(c.Config)
}

func (r *runtime) display(telemetry stream.Telemetry) (*stream.Display, error) {
	return stream.NewDisplayFromConfig(*r.cfg, stream.BootstrapOptions{
		Renderer:  r.renderer,
		Telemetry: telemetry,
		Logger:    r.logger,
	})
}

func (r *runtime) openStore(ctx context.Context) (*sqlite.DB, error) {
	db, err := sqlite.New(ctx, r.cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("streamctl: open database %s: %w", r.cfg.Database, err)
	}
	return db, nil
}
