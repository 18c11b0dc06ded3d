package testutils

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aretw0/diagram/pkg/domain"
	"github.com/stretchr/testify/require"
)

// RecordingDispatcher is a ports.ActionDispatcher that only records what it receives.
type RecordingDispatcher struct {
	mu      sync.Mutex
	actions []domain.Action
	// Err, when set, is returned by every Dispatch.
	Err error
}

// Dispatch records the action.
func (r *RecordingDispatcher) Dispatch(_ context.Context, action domain.Action) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, action)
	return r.Err
}

// Actions returns a copy of everything dispatched so far.
func (r *RecordingDispatcher) Actions() []domain.Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Action(nil), r.actions...)
}

// Kinds returns the kinds of the recorded actions, in order.
func (r *RecordingDispatcher) Kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]string, len(r.actions))
	for i, a := range r.actions {
		kinds[i] = a.Kind()
	}
	return kinds
}

// Last returns the most recent action, or nil.
func (r *RecordingDispatcher) Last() domain.Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.actions) == 0 {
		return nil
	}
	return r.actions[len(r.actions)-1]
}

// Reset forgets the recorded actions.
func (r *RecordingDispatcher) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = nil
}

// WriteModelFile writes content to name inside a fresh temp directory and
// returns the absolute path. It fails the test immediately on error.
func WriteModelFile(t *testing.T, name, content string) string {
	t.Helper()

	dir, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "Failed to write model file")
	return path
}

// SampleModel returns a small graph: ROOT(n1(l1), n2, e1).
func SampleModel() *domain.Element {
	label := domain.NewElement("l1", "label:text")
	label.SetFeature("text", "first")
	edge := domain.NewElement("e1", "edge:straight")
	edge.SetFeature("sourceId", "n1")
	edge.SetFeature("targetId", "n2")
	return domain.NewRoot(domain.DefaultRootID, "graph").Append(
		domain.NewElement("n1", "node:rect").Append(label),
		domain.NewElement("n2", "node:circle"),
		edge,
	)
}
