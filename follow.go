package diagram

import (
	"context"
	"fmt"

	"github.com/aretw0/diagram/pkg/model"
	"github.com/aretw0/diagram/pkg/ports"
)

// Follow makes loader the producer of the model: the first load is set as a
// new model, and when the loader is ports.Watchable every later change is
// reloaded and patched in until ctx is done.
//
// Reloads that fail or do not validate are logged and skipped, so a file saved
// half-way does not tear down the running engine.
func (e *Engine) Follow(ctx context.Context, loader ports.ModelLoader) error {
	root, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("initial load: %w", err)
	}
	if err := model.Validate(root); err != nil {
		return fmt.Errorf("initial load: %w", err)
	}
	if err := e.SetModel(ctx, root); err != nil {
		return err
	}

	w, ok := loader.(ports.Watchable)
	if !ok {
		return nil
	}
	changes, err := w.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case name, open := <-changes:
			if !open {
				return nil
			}
			e.reload(ctx, loader, name)
		}
	}
}

func (e *Engine) reload(ctx context.Context, loader ports.ModelLoader, name string) {
	root, err := loader.Load(ctx)
	if err != nil {
		e.logger.Warn("reload failed", "source", name, "error", err)
		return
	}
	if err := model.Validate(root); err != nil {
		e.logger.Warn("reloaded model rejected", "source", name, "error", err)
		return
	}
	if err := e.PatchModel(ctx, root); err != nil {
		e.logger.Error("patch after reload failed", "source", name, "error", err)
		return
	}
	e.logger.Info("model reloaded", "source", name, "root_id", root.ID)
}
