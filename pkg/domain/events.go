package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventModelSubmitted EventType = "model_submitted"
	EventBoundsRequest  EventType = "bounds_requested"
	EventBoundsComputed EventType = "bounds_computed"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RootID    string    `json:"root_id"`
}

// SubmissionEvent is emitted whenever a model reaches the rendering layer.
type SubmissionEvent struct {
	EventBase
	// ActionKind is the emitted action: setModel or updateModel.
	ActionKind string `json:"action_kind"`
	// Incremental is true when the update carried matches instead of a root.
	Incremental bool `json:"incremental,omitempty"`
	// Skipped counts matches that could not be applied.
	Skipped int `json:"skipped,omitempty"`
}

// BoundsEvent describes one side of the bounds round trip.
type BoundsEvent struct {
	EventBase
	RequestID string `json:"request_id,omitempty"`
	// Applied and Skipped count measurement entries (computed side only).
	Applied int `json:"applied,omitempty"`
	Skipped int `json:"skipped,omitempty"`
	// Stale is true when the response token did not match the outstanding request.
	Stale bool `json:"stale,omitempty"`
}

// LifecycleHooks defines callbacks for model source observability.
type LifecycleHooks struct {
	OnModelSubmitted func(context.Context, *SubmissionEvent)
	OnBoundsRequest  func(context.Context, *BoundsEvent)
	OnBoundsComputed func(context.Context, *BoundsEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnModelSubmitted: chain(h.OnModelSubmitted, other.OnModelSubmitted),
		OnBoundsRequest:  chain(h.OnBoundsRequest, other.OnBoundsRequest),
		OnBoundsComputed: chain(h.OnBoundsComputed, other.OnBoundsComputed),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
