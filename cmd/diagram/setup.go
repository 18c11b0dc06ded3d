package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/diagram"
	"github.com/aretw0/diagram/internal/config"
	"github.com/aretw0/diagram/internal/logging"
	"github.com/aretw0/diagram/pkg/adapters/file"
	"github.com/aretw0/diagram/pkg/domain"
	"github.com/aretw0/diagram/pkg/hover"
	"github.com/aretw0/diagram/pkg/layout"
	"github.com/aretw0/diagram/pkg/model"
	"github.com/aretw0/diagram/pkg/observability"
	"github.com/spf13/cobra"
)

var errNoModel = errors.New("no model file: pass one as argument, with --model, or set model.path")

// app is the configuration shared by every command.
type app struct {
	cfg    config.Config
	logger *slog.Logger
}

// loadApp reads the config file and applies the persistent flag overrides.
// A positional argument, when given, is the model file.
func loadApp(cmd *cobra.Command, args []string) (*app, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	cfg, err := config.Load(path, flags.Changed("config"))
	if err != nil {
		return nil, err
	}

	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("model") {
		cfg.Model.Path, _ = flags.GetString("model")
	}
	if len(args) > 0 {
		cfg.Model.Path = args[0]
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: logging.New(level)}, nil
}

// loader returns the file loader of the configured model.
func (a *app) loader() (*file.Loader, error) {
	if a.cfg.Model.Path == "" {
		return nil, errNoModel
	}
	return file.NewLoader(a.cfg.Model.Path, file.WithLogger(a.logger))
}

// loadModel reads and validates the configured model.
func (a *app) loadModel(ctx context.Context) (*domain.Element, error) {
	loader, err := a.loader()
	if err != nil {
		return nil, err
	}
	root, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := model.Validate(root); err != nil {
		return nil, fmt.Errorf("%s: %w", loader.Path(), err)
	}
	return root, nil
}

// newEngine builds an engine from the configuration plus extra options.
func (a *app) newEngine(extra ...diagram.Option) (*diagram.Engine, error) {
	engine, err := layout.ByName(a.cfg.Layout)
	if err != nil {
		return nil, err
	}
	opts := []diagram.Option{
		diagram.WithLogger(a.logger),
		diagram.WithClientLayout(a.cfg.Viewer.NeedsClientLayout),
		diagram.WithLayoutEngine(engine),
		diagram.WithPopupModelFactory(hover.Factory{}.PopupModelFactory()),
		diagram.WithLifecycleHooks(observability.LogHooks(a.logger)),
	}
	return diagram.New(append(opts, extra...)...)
}

// follow feeds the configured model file into eng until ctx is done.
// Without a model file the engine keeps its empty model.
func (a *app) follow(ctx context.Context, eng *diagram.Engine) {
	loader, err := a.loader()
	if errors.Is(err, errNoModel) {
		a.logger.Info("no model file configured, starting with an empty model")
		return
	}
	if err != nil {
		a.logger.Error("model file rejected", "error", err)
		return
	}
	go func() {
		if err := eng.Follow(ctx, loader); err != nil {
			a.logger.Error("following model file failed", "path", loader.Path(), "error", err)
		}
	}()
}
