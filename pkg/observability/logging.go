package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/diagram/pkg/domain"
)

// LogHooks returns lifecycle hooks writing one structured line per event.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnModelSubmitted: func(ctx context.Context, e *domain.SubmissionEvent) {
			logger.InfoContext(ctx, "model_submitted",
				"root_id", e.RootID,
				"action", e.ActionKind,
				"incremental", e.Incremental,
				"skipped", e.Skipped,
			)
		},
		OnBoundsRequest: func(ctx context.Context, e *domain.BoundsEvent) {
			logger.DebugContext(ctx, "bounds_requested", "root_id", e.RootID, "request_id", e.RequestID)
		},
		OnBoundsComputed: func(ctx context.Context, e *domain.BoundsEvent) {
			if e.Stale {
				logger.WarnContext(ctx, "bounds_stale", "root_id", e.RootID, "response_id", e.RequestID)
				return
			}
			logger.DebugContext(ctx, "bounds_computed",
				"root_id", e.RootID,
				"applied", e.Applied,
				"skipped", e.Skipped,
			)
		},
	}
}
