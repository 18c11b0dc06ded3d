package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/diagram/internal/logging"
	"github.com/aretw0/diagram/pkg/domain"
	"github.com/aretw0/diagram/pkg/ports"
	"github.com/aretw0/diagram/pkg/registry"
)

// DeliveryHook observes every delivered action: the number of handlers it
// reached and their joined error.
type DeliveryHook func(ctx context.Context, action domain.Action, handlers int, err error)

// Dispatcher delivers actions to registered handlers one at a time, in FIFO order.
//
// A call from outside the dispatcher acquires the turn, enqueues the action and
// drains the queue before returning. A call made from inside a handler (its
// context carries the turn) only enqueues; the action is delivered after the
// current handler returns. The turn context must not escape the handler.
type Dispatcher struct {
	registry  *registry.Registry
	logger    *slog.Logger
	onDeliver DeliveryHook

	mu    sync.Mutex
	queue []domain.Action
}

var _ ports.ActionDispatcher = (*Dispatcher)(nil)

// Option configures the Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger used for dropped actions.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = l
	}
}

// WithRegistry shares an existing handler registry.
func WithRegistry(r *registry.Registry) Option {
	return func(d *Dispatcher) {
		d.registry = r
	}
}

// WithDeliveryHook installs an observer called after each delivery.
func WithDeliveryHook(h DeliveryHook) Option {
	return func(d *Dispatcher) {
		d.onDeliver = h
	}
}

// New creates a dispatcher with an empty registry unless one is supplied.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{}
	for _, opt := range opts {
		opt(d)
	}
	if d.registry == nil {
		d.registry = registry.NewRegistry()
	}
	if d.logger == nil {
		d.logger = logging.NewNop()
	}
	return d
}

// Register adds a handler for kind.
func (d *Dispatcher) Register(kind string, h ports.ActionHandler) {
	d.registry.Register(kind, h)
}

// Registry exposes the handler registry.
func (d *Dispatcher) Registry() *registry.Registry {
	return d.registry
}

type turnKey struct{}

func (d *Dispatcher) inTurn(ctx context.Context) bool {
	owner, _ := ctx.Value(turnKey{}).(*Dispatcher)
	return owner == d
}

// Dispatch implements ports.ActionDispatcher.
func (d *Dispatcher) Dispatch(ctx context.Context, action domain.Action) error {
	if action == nil {
		return fmt.Errorf("dispatch: %w: nil action", domain.ErrUnknownAction)
	}
	if d.inTurn(ctx) {
		d.queue = append(d.queue, action)
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.queue = append(d.queue, action)
	return d.drain(ctx)
}

// Run executes fn inside a dispatcher turn, then delivers whatever fn dispatched.
// It is how local API calls join the serialized action stream.
func (d *Dispatcher) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	if d.inTurn(ctx) {
		return fn(ctx)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	err := fn(context.WithValue(ctx, turnKey{}, d))
	return errors.Join(err, d.drain(ctx))
}

func (d *Dispatcher) drain(ctx context.Context) error {
	turn := context.WithValue(ctx, turnKey{}, d)
	var errs []error
	for len(d.queue) > 0 {
		action := d.queue[0]
		d.queue[0] = nil
		d.queue = d.queue[1:]
		if err := d.deliver(turn, action); err != nil {
			errs = append(errs, err)
		}
	}
	d.queue = nil
	return errors.Join(errs...)
}

func (d *Dispatcher) deliver(ctx context.Context, action domain.Action) error {
	handlers := d.registry.Handlers(action.Kind())
	if len(handlers) == 0 {
		d.logger.Debug("action dropped: no handler", "kind", action.Kind())
	}

	var errs []error
	for _, h := range handlers {
		if err := h.Handle(ctx, action); err != nil {
			d.logger.Error("action handler failed", "kind", action.Kind(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", action.Kind(), err))
		}
	}
	err := errors.Join(errs...)
	if d.onDeliver != nil {
		d.onDeliver(ctx, action, len(handlers), err)
	}
	return err
}
