package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/aretw0/diagram/pkg/domain"
	"github.com/aretw0/diagram/pkg/model"
)

// Loader implements ports.ModelLoader and ports.Watchable over a tree held in memory.
// Safe for concurrent use.
type Loader struct {
	name string

	mu       sync.RWMutex
	root     *domain.Element
	watchers map[chan string]struct{}
}

// NewLoader creates a loader serving copies of root.
func NewLoader(name string, root *domain.Element) *Loader {
	return &Loader{
		name:     name,
		root:     model.Clone(root),
		watchers: make(map[chan string]struct{}),
	}
}

// NewFromJSON creates a loader from the JSON form of a tree.
// This handles deserialization automatically, improving DX for tests.
func NewFromJSON(name, data string) (*Loader, error) {
	var root domain.Element
	if err := json.Unmarshal([]byte(data), &root); err != nil {
		return nil, fmt.Errorf("failed to parse model %s: %w", name, err)
	}
	return NewLoader(name, &root), nil
}

// Load returns a deep copy of the held tree.
func (l *Loader) Load(_ context.Context) (*domain.Element, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.root == nil {
		return nil, fmt.Errorf("model %s is empty", l.name)
	}
	return model.Clone(l.root), nil
}

// Set replaces the held tree and signals every watcher.
// Watchers that are not ready to receive miss the signal.
func (l *Loader) Set(root *domain.Element) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.root = model.Clone(root)
	for ch := range l.watchers {
		select {
		case ch <- l.name:
		default:
		}
	}
}

// Watch implements ports.Watchable.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	ch := make(chan string, 1)
	l.mu.Lock()
	l.watchers[ch] = struct{}{}
	l.mu.Unlock()

	go func() {
		<-ctx.Done()
		l.mu.Lock()
		delete(l.watchers, ch)
		close(ch)
		l.mu.Unlock()
	}()
	return ch, nil
}
