package ports

import (
	"context"

	"github.com/aretw0/diagram/pkg/domain"
)

// ActionDispatcher delivers actions to the handlers registered for their kind.
// The model source both sends actions through it and is registered as a handler.
type ActionDispatcher interface {
	Dispatch(ctx context.Context, action domain.Action) error
}

// ActionHandler reacts to one delivered action.
type ActionHandler interface {
	Handle(ctx context.Context, action domain.Action) error
}

// HandlerFunc adapts a plain function to ActionHandler.
type HandlerFunc func(ctx context.Context, action domain.Action) error

// Handle calls f(ctx, action).
func (f HandlerFunc) Handle(ctx context.Context, action domain.Action) error {
	return f(ctx, action)
}
