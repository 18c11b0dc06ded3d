package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/aretw0/diagram/internal/logging"
	"github.com/aretw0/diagram/pkg/domain"
	"github.com/aretw0/diagram/pkg/model"
	"github.com/aretw0/diagram/pkg/ports"
	"github.com/google/uuid"
)

// ModelObserver is notified with the root that was just submitted to the rendering layer.
type ModelObserver func(ctx context.Context, root *domain.Element)

// ModelSource owns the current model tree and drives its submission to the
// rendering layer, including the optional bounds round trip.
//
// ModelSource is not safe for concurrent use: every call is expected to run
// inside one serialized dispatcher turn. Only Subscribe may be called from
// any goroutine.
type ModelSource struct {
	dispatcher   ports.ActionDispatcher
	clientLayout bool
	layout       ports.LayoutEngine
	popups       ports.PopupModelFactory
	hooks        domain.LifecycleHooks
	logger       *slog.Logger
	newRequestID func() string

	root *domain.Element
	// pending is the token of the latest RequestBounds still waiting for its response.
	pending string

	mu           sync.Mutex
	observers    map[int]ModelObserver
	nextObserver int
}

var _ ports.ActionHandler = (*ModelSource)(nil)

// SourceOption configures a ModelSource.
type SourceOption func(*ModelSource)

// WithClientLayout declares that the rendering layer must measure every
// submitted tree before it becomes the authoritative model.
func WithClientLayout(needed bool) SourceOption {
	return func(s *ModelSource) {
		s.clientLayout = needed
	}
}

// WithLayoutEngine sets the synchronous layout engine.
func WithLayoutEngine(engine ports.LayoutEngine) SourceOption {
	return func(s *ModelSource) {
		s.layout = engine
	}
}

// WithPopupModelFactory sets the factory answering popup requests.
func WithPopupModelFactory(f ports.PopupModelFactory) SourceOption {
	return func(s *ModelSource) {
		s.popups = f
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) SourceOption {
	return func(s *ModelSource) {
		s.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) SourceOption {
	return func(s *ModelSource) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRequestIDs replaces the generator of bounds request tokens (uuid by default).
func WithRequestIDs(next func() string) SourceOption {
	return func(s *ModelSource) {
		s.newRequestID = next
	}
}

// WithInitialModel sets the current root without submitting it.
func WithInitialModel(root *domain.Element) SourceOption {
	return func(s *ModelSource) {
		if root != nil {
			s.root = root
		}
	}
}

// NewModelSource creates a model source emitting through dispatcher.
// The current root starts as the empty placeholder {ROOT, NONE}.
func NewModelSource(dispatcher ports.ActionDispatcher, opts ...SourceOption) *ModelSource {
	s := &ModelSource{
		dispatcher:   dispatcher,
		logger:       logging.NewNop(),
		newRequestID: uuid.NewString,
		root:         domain.EmptyRoot(),
		observers:    make(map[int]ModelObserver),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Model returns the current root. The tree is shared, not copied.
func (s *ModelSource) Model() *domain.Element {
	return s.root
}

// PendingRequest returns the token of the outstanding bounds request, if any.
func (s *ModelSource) PendingRequest() (string, bool) {
	return s.pending, s.pending != ""
}

// Subscribe registers an observer of submitted models.
// The returned function removes it again.
func (s *ModelSource) Subscribe(fn ModelObserver) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextObserver
	s.nextObserver++
	s.observers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

// SetModel replaces the current root wholesale and submits it as a new model.
func (s *ModelSource) SetModel(ctx context.Context, root *domain.Element) error {
	if root == nil {
		root = domain.EmptyRoot()
	}
	s.root = root
	return s.submit(ctx, domain.KindSetModel, nil, 0)
}

// UpdateModel replaces the current root and submits it as an update.
// A nil root resubmits the current one.
func (s *ModelSource) UpdateModel(ctx context.Context, root *domain.Element) error {
	if root != nil {
		s.root = root
	}
	return s.submit(ctx, domain.KindUpdateModel, nil, 0)
}

// ApplyMatches patches the current root in place and submits the result.
// Without client layout the emitted update carries the matches rather than the root.
func (s *ModelSource) ApplyMatches(ctx context.Context, matches []domain.Match) error {
	skipped := model.ApplyMatches(s.root, matches)
	if skipped > 0 {
		s.logger.Debug("matches skipped", "skipped", skipped, "total", len(matches))
	}
	if matches == nil {
		matches = []domain.Match{}
	}
	return s.submit(ctx, domain.KindUpdateModel, matches, skipped)
}

// AddElements inserts elements; an empty parent id means the current root.
func (s *ModelSource) AddElements(ctx context.Context, items ...domain.ElementInsertion) error {
	matches := make([]domain.Match, 0, len(items))
	for _, item := range items {
		if item.Element == nil {
			continue
		}
		parentID := item.ParentID
		if parentID == "" {
			parentID = s.root.ID
		}
		matches = append(matches, domain.Match{Right: item.Element, RightParentID: parentID})
	}
	return s.ApplyMatches(ctx, matches)
}

// RemoveElements removes elements by id; an empty parent id means the current root.
// Ids that are not in the current model are skipped.
func (s *ModelSource) RemoveElements(ctx context.Context, items ...domain.ElementRemoval) error {
	idx := model.IndexOf(s.root)
	matches := make([]domain.Match, 0, len(items))
	for _, item := range items {
		element, ok := idx.GetByID(item.ElementID)
		if !ok {
			s.logger.Debug("remove skipped: unknown element", "element_id", item.ElementID)
			continue
		}
		parentID := item.ParentID
		if parentID == "" {
			parentID = s.root.ID
		}
		matches = append(matches, domain.Match{Left: element, LeftParentID: parentID})
	}
	return s.ApplyMatches(ctx, matches)
}

// PatchModel moves the current model to root with the smallest set of matches
// it can find. When no incremental patch exists (different root) it falls
// back to UpdateModel.
func (s *ModelSource) PatchModel(ctx context.Context, root *domain.Element) error {
	if root == nil {
		return s.UpdateModel(ctx, nil)
	}
	matches, ok := model.ComputeMatches(s.root, root)
	if !ok {
		s.logger.Debug("patch fell back to update", "current_root", s.root.ID, "new_root", root.ID)
		return s.UpdateModel(ctx, root)
	}
	return s.ApplyMatches(ctx, matches)
}

// Handle implements ports.ActionHandler for domain.InboundKinds.
func (s *ModelSource) Handle(ctx context.Context, action domain.Action) error {
	switch a := action.(type) {
	case domain.RequestModelAction:
		return s.submit(ctx, domain.KindSetModel, nil, 0)
	case domain.ComputedBoundsAction:
		return s.handleComputedBounds(ctx, a)
	case domain.RequestPopupModelAction:
		return s.handleRequestPopupModel(ctx, a)
	default:
		return fmt.Errorf("model source: %w: %s", domain.ErrUnknownAction, action.Kind())
	}
}

// submit emits the current root. kind selects SetModel or UpdateModel; a
// non-nil matches list turns the update into an incremental one.
func (s *ModelSource) submit(ctx context.Context, kind string, matches []domain.Match, skipped int) error {
	root := s.root
	if s.clientLayout {
		return s.requestBounds(ctx, root)
	}

	s.runLayout(ctx, root)

	var action domain.Action
	switch {
	case kind == domain.KindSetModel:
		action = domain.SetModelAction{NewRoot: root}
	case matches != nil:
		action = domain.UpdateModelAction{Matches: matches}
	default:
		action = domain.UpdateModelAction{NewRoot: root}
	}
	if err := s.dispatcher.Dispatch(ctx, action); err != nil {
		return fmt.Errorf("submit model: %w", err)
	}

	s.modelSubmitted(ctx, root, action.Kind(), matches != nil, skipped)
	return nil
}

func (s *ModelSource) requestBounds(ctx context.Context, root *domain.Element) error {
	token := s.newRequestID()
	if s.pending != "" {
		s.logger.Debug("bounds request superseded", "previous", s.pending, "request_id", token)
	}
	s.pending = token

	if s.hooks.OnBoundsRequest != nil {
		s.hooks.OnBoundsRequest(ctx, &domain.BoundsEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventBoundsRequest, RootID: root.ID},
			RequestID: token,
		})
	}
	if err := s.dispatcher.Dispatch(ctx, domain.RequestBoundsAction{NewRoot: root, RequestID: token}); err != nil {
		return fmt.Errorf("request bounds: %w", err)
	}
	return nil
}

func (s *ModelSource) handleComputedBounds(ctx context.Context, a domain.ComputedBoundsAction) error {
	root := s.root
	event := &domain.BoundsEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventBoundsComputed, RootID: root.ID},
		RequestID: a.ResponseID,
	}

	// An empty response id is accepted for renderers that do not echo tokens.
	if a.ResponseID != "" && a.ResponseID != s.pending {
		s.logger.Debug("stale bounds discarded", "response_id", a.ResponseID, "pending", s.pending)
		event.Stale = true
		event.Skipped = len(a.Bounds)
		if s.hooks.OnBoundsComputed != nil {
			s.hooks.OnBoundsComputed(ctx, event)
		}
		return nil
	}
	s.pending = ""

	idx := model.IndexOf(root)
	for _, b := range a.Bounds {
		element, ok := idx.GetByID(b.ElementID)
		if !ok {
			event.Skipped++
			continue
		}
		if !element.ApplyBounds(b.NewBounds) {
			s.logger.Debug("bounds applied to a variant without bounds capability", "element_id", element.ID, "type", element.Type)
		}
		event.Applied++
	}
	if event.Skipped > 0 {
		s.logger.Debug("bounds skipped", "skipped", event.Skipped, "applied", event.Applied)
	}
	if s.hooks.OnBoundsComputed != nil {
		s.hooks.OnBoundsComputed(ctx, event)
	}

	s.runLayout(ctx, root)

	// The rendering layer already received the tree with the bounds request,
	// so completion is always an update, even for the very first submission.
	action := domain.UpdateModelAction{NewRoot: root}
	if err := s.dispatcher.Dispatch(ctx, action); err != nil {
		return fmt.Errorf("submit measured model: %w", err)
	}
	s.modelSubmitted(ctx, root, action.Kind(), false, 0)
	return nil
}

func (s *ModelSource) handleRequestPopupModel(ctx context.Context, a domain.RequestPopupModelAction) error {
	if s.popups == nil {
		return nil
	}
	element := model.FindElement(s.root, a.ElementID)
	popup := s.popups(ctx, a, element)
	if popup == nil {
		return nil
	}
	canvas := a.Bounds
	popup.CanvasBounds = &canvas
	if err := s.dispatcher.Dispatch(ctx, domain.SetPopupModelAction{NewRoot: popup}); err != nil {
		return fmt.Errorf("set popup model: %w", err)
	}
	return nil
}

func (s *ModelSource) runLayout(ctx context.Context, root *domain.Element) {
	if s.layout != nil {
		s.layout(ctx, root)
	}
}

func (s *ModelSource) modelSubmitted(ctx context.Context, root *domain.Element, kind string, incremental bool, skipped int) {
	if s.hooks.OnModelSubmitted != nil {
		s.hooks.OnModelSubmitted(ctx, &domain.SubmissionEvent{
			EventBase:   domain.EventBase{Timestamp: time.Now(), Type: domain.EventModelSubmitted, RootID: root.ID},
			ActionKind:  kind,
			Incremental: incremental,
			Skipped:     skipped,
		})
	}

	s.mu.Lock()
	ids := slices.Sorted(maps.Keys(s.observers))
	observers := make([]ModelObserver, 0, len(ids))
	for _, id := range ids {
		observers = append(observers, s.observers[id])
	}
	s.mu.Unlock()

	for _, fn := range observers {
		fn(ctx, root)
	}
}
