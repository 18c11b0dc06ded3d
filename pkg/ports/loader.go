package ports

import (
	"context"

	"github.com/aretw0/diagram/pkg/domain"
)

// ModelLoader defines how a whole model tree is obtained from an external producer.
type ModelLoader interface {
	// Load returns a freshly decoded tree. Callers own the result.
	Load(ctx context.Context) (*domain.Element, error)
}

// Watchable defines an interface for loaders that can notify about backend changes.
// This is typically used to push a changed file into a running engine.
type Watchable interface {
	// Watch returns a channel that receives the name of the changed source (e.g. a file path).
	// It abstracts away the specific event details, signaling only that a reload is required.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context) (<-chan string, error)
}
