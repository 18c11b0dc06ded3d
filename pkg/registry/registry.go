package registry

import (
	"slices"
	"sync"

	"github.com/aretw0/diagram/pkg/ports"
)

// Registry manages the handlers registered per action kind.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string][]ports.ActionHandler
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string][]ports.ActionHandler),
	}
}

// Register adds a handler for an action kind.
// Several handlers may share a kind; they run in registration order.
func (r *Registry) Register(kind string, h ports.ActionHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[kind] = append(r.handlers[kind], h)
}

// Handlers returns a snapshot of the handlers registered for kind.
func (r *Registry) Handlers(kind string) []ports.ActionHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.handlers[kind])
}

// Kinds returns the sorted list of kinds with at least one handler.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]string, 0, len(r.handlers))
	for k := range r.handlers {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}
