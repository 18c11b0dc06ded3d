package diagram

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/diagram/internal/logging"
	"github.com/aretw0/diagram/internal/runtime"
	"github.com/aretw0/diagram/pkg/dispatch"
	"github.com/aretw0/diagram/pkg/domain"
	"github.com/aretw0/diagram/pkg/model"
	"github.com/aretw0/diagram/pkg/ports"
)

// Engine is the high-level entry point for the diagram library.
// It wires a serialized dispatcher to the model source and exposes the model
// operations as goroutine-safe calls.
type Engine struct {
	dispatcher *dispatch.Dispatcher
	source     *runtime.ModelSource

	clientLayout bool
	layout       ports.LayoutEngine
	popups       ports.PopupModelFactory
	hooks        domain.LifecycleHooks
	initial      *domain.Element
	requestIDs   func() string
	deliveryHook dispatch.DeliveryHook
	logger       *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks. Repeated calls are merged.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithClientLayout declares that the renderer measures every tree before it
// becomes authoritative (the bounds round trip).
func WithClientLayout(needed bool) Option {
	return func(e *Engine) {
		e.clientLayout = needed
	}
}

// WithLayoutEngine sets a synchronous layout engine.
func WithLayoutEngine(engine ports.LayoutEngine) Option {
	return func(e *Engine) {
		e.layout = engine
	}
}

// WithPopupModelFactory sets the factory answering popup requests.
func WithPopupModelFactory(f ports.PopupModelFactory) Option {
	return func(e *Engine) {
		e.popups = f
	}
}

// WithInitialModel sets the current model without submitting it.
func WithInitialModel(root *domain.Element) Option {
	return func(e *Engine) {
		e.initial = root
	}
}

// WithRequestIDs replaces the generator of bounds request tokens.
func WithRequestIDs(next func() string) Option {
	return func(e *Engine) {
		e.requestIDs = next
	}
}

// WithDeliveryHook observes every action delivered by the dispatcher.
func WithDeliveryHook(h dispatch.DeliveryHook) Option {
	return func(e *Engine) {
		e.deliveryHook = h
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New initializes a new Engine. The initial model, when given, must pass model.Validate.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.initial != nil {
		if err := model.Validate(eng.initial); err != nil {
			return nil, fmt.Errorf("invalid initial model: %w", err)
		}
	}

	dispatchOpts := []dispatch.Option{dispatch.WithLogger(eng.logger)}
	if eng.deliveryHook != nil {
		dispatchOpts = append(dispatchOpts, dispatch.WithDeliveryHook(eng.deliveryHook))
	}
	eng.dispatcher = dispatch.New(dispatchOpts...)

	sourceOpts := []runtime.SourceOption{
		runtime.WithClientLayout(eng.clientLayout),
		runtime.WithLayoutEngine(eng.layout),
		runtime.WithPopupModelFactory(eng.popups),
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
		runtime.WithInitialModel(eng.initial),
	}
	if eng.requestIDs != nil {
		sourceOpts = append(sourceOpts, runtime.WithRequestIDs(eng.requestIDs))
	}
	eng.source = runtime.NewModelSource(eng.dispatcher, sourceOpts...)

	for _, kind := range domain.InboundKinds() {
		eng.dispatcher.Register(kind, eng.source)
	}
	return eng, nil
}

// Dispatch delivers an action, e.g. a computedBounds response from the renderer.
func (e *Engine) Dispatch(ctx context.Context, action domain.Action) error {
	return e.dispatcher.Dispatch(ctx, action)
}

// RegisterHandler adds a handler for an action kind.
func (e *Engine) RegisterHandler(kind string, h ports.ActionHandler) {
	e.dispatcher.Register(kind, h)
}

// RegisterRenderer subscribes h to every action the engine emits towards the renderer.
func (e *Engine) RegisterRenderer(h ports.ActionHandler) {
	for _, kind := range domain.OutboundKinds() {
		e.dispatcher.Register(kind, h)
	}
}

// Model returns a deep copy of the current model.
func (e *Engine) Model(ctx context.Context) (*domain.Element, error) {
	var root *domain.Element
	err := e.dispatcher.Run(ctx, func(context.Context) error {
		root = model.Clone(e.source.Model())
		return nil
	})
	return root, err
}

// SetModel replaces the model and submits it as a new one.
func (e *Engine) SetModel(ctx context.Context, root *domain.Element) error {
	return e.dispatcher.Run(ctx, func(ctx context.Context) error {
		return e.source.SetModel(ctx, root)
	})
}

// UpdateModel replaces the model (nil keeps it) and submits it as an update.
func (e *Engine) UpdateModel(ctx context.Context, root *domain.Element) error {
	return e.dispatcher.Run(ctx, func(ctx context.Context) error {
		return e.source.UpdateModel(ctx, root)
	})
}

// PatchModel moves the model to root through computed matches.
func (e *Engine) PatchModel(ctx context.Context, root *domain.Element) error {
	return e.dispatcher.Run(ctx, func(ctx context.Context) error {
		return e.source.PatchModel(ctx, root)
	})
}

// ApplyMatches patches the model with caller supplied matches.
func (e *Engine) ApplyMatches(ctx context.Context, matches []domain.Match) error {
	return e.dispatcher.Run(ctx, func(ctx context.Context) error {
		return e.source.ApplyMatches(ctx, matches)
	})
}

// AddElements inserts elements (empty parent id = root).
func (e *Engine) AddElements(ctx context.Context, items ...domain.ElementInsertion) error {
	return e.dispatcher.Run(ctx, func(ctx context.Context) error {
		return e.source.AddElements(ctx, items...)
	})
}

// RemoveElements removes elements by id (empty parent id = root).
func (e *Engine) RemoveElements(ctx context.Context, items ...domain.ElementRemoval) error {
	return e.dispatcher.Run(ctx, func(ctx context.Context) error {
		return e.source.RemoveElements(ctx, items...)
	})
}

// InsertElement adds one element after checking, in the same turn, that its id
// is new and its parent exists. It returns ErrDuplicateElement or ErrUnknownParent
// and leaves the model untouched when a check fails.
func (e *Engine) InsertElement(ctx context.Context, item domain.ElementInsertion) error {
	return e.dispatcher.Run(ctx, func(ctx context.Context) error {
		if item.Element == nil {
			return fmt.Errorf("insert: nil element")
		}
		idx := model.IndexOf(e.source.Model())
		if _, ok := idx.GetByID(item.Element.ID); ok {
			return fmt.Errorf("insert %q: %w", item.Element.ID, domain.ErrDuplicateElement)
		}
		if item.ParentID != "" {
			if _, ok := idx.GetByID(item.ParentID); !ok {
				return fmt.Errorf("insert %q under %q: %w", item.Element.ID, item.ParentID, domain.ErrUnknownParent)
			}
		}
		return e.source.AddElements(ctx, item)
	})
}

// RemoveElement removes one element under its actual parent, resolved in the
// same turn. The root cannot be removed; both cases return ErrElementNotFound.
func (e *Engine) RemoveElement(ctx context.Context, id string) error {
	return e.dispatcher.Run(ctx, func(ctx context.Context) error {
		root := e.source.Model()
		idx := model.IndexOf(root)
		if _, ok := idx.GetByID(id); !ok || id == root.ID {
			return fmt.Errorf("remove %q: %w", id, domain.ErrElementNotFound)
		}
		parentID, _ := idx.ParentOf(id)
		return e.source.RemoveElements(ctx, domain.ElementRemoval{ElementID: id, ParentID: parentID})
	})
}

// ModelObserver is notified with every root submitted to the renderer.
type ModelObserver func(ctx context.Context, root *domain.Element)

// Subscribe registers an observer of submitted models.
// Observers run inside the dispatcher turn and must not block.
func (e *Engine) Subscribe(fn ModelObserver) (unsubscribe func()) {
	return e.source.Subscribe(runtime.ModelObserver(fn))
}

// PendingRequest returns the token of the outstanding bounds request, if any.
func (e *Engine) PendingRequest(ctx context.Context) (token string, pending bool, err error) {
	err = e.dispatcher.Run(ctx, func(context.Context) error {
		token, pending = e.source.PendingRequest()
		return nil
	})
	return token, pending, err
}
