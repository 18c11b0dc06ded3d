package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/aretw0/diagram/internal/logging"
	"github.com/aretw0/diagram/pkg/domain"
	"github.com/aretw0/diagram/pkg/ports"
	"github.com/aretw0/diagram/pkg/protocol"
	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"
)

// ErrClosed is returned by Run when the subscription channel closes.
var ErrClosed = errors.New("redis subscription closed")

// Engine is the part of diagram.Engine the bridge drives.
type Engine interface {
	Dispatch(ctx context.Context, action domain.Action) error
	RegisterRenderer(h ports.ActionHandler)
}

// Envelope is the pub/sub message: the encoded action and the bridge that sent it.
type Envelope struct {
	Origin string          `json:"origin"`
	Action json.RawMessage `json:"action"`
}

// Bridge relays actions between an engine and Redis pub/sub.
// Outbound actions are published to <prefix>out; envelopes published to
// <prefix>in are decoded and dispatched into the engine. Envelopes carrying
// the bridge's own origin are ignored.
type Bridge struct {
	client *backend.Client
	prefix string
	origin string
	logger *slog.Logger
}

type Option func(*Bridge)

// WithPrefix sets the channel prefix.
func WithPrefix(prefix string) Option {
	return func(b *Bridge) {
		b.prefix = prefix
	}
}

// WithOrigin overrides the random origin id.
func WithOrigin(origin string) Option {
	return func(b *Bridge) {
		b.origin = origin
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bridge) {
		b.logger = logger
	}
}

// New creates a bridge with its own client.
func New(address, password string, db int, opts ...Option) *Bridge {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a bridge from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Bridge {
	b := &Bridge{
		client: client,
		prefix: "diagram:",
		origin: uuid.NewString(),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Origin returns the id stamped on every published envelope.
func (b *Bridge) Origin() string { return b.origin }

// OutChannel carries outbound actions.
func (b *Bridge) OutChannel() string { return b.prefix + "out" }

// InChannel carries inbound actions.
func (b *Bridge) InChannel() string { return b.prefix + "in" }

// Attach registers the bridge as a renderer of engine.
func (b *Bridge) Attach(engine Engine) {
	engine.RegisterRenderer(ports.HandlerFunc(b.Publish))
}

// Publish sends action to the out channel.
func (b *Bridge) Publish(ctx context.Context, action domain.Action) error {
	return b.publish(ctx, b.OutChannel(), action)
}

// Send sends action to the in channel, as a remote renderer would.
func (b *Bridge) Send(ctx context.Context, action domain.Action) error {
	return b.publish(ctx, b.InChannel(), action)
}

func (b *Bridge) publish(ctx context.Context, channel string, action domain.Action) error {
	data, err := protocol.Encode(action)
	if err != nil {
		return err
	}
	msg, err := json.Marshal(Envelope{Origin: b.origin, Action: data})
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}
	if err := b.client.Publish(ctx, channel, msg).Err(); err != nil {
		return fmt.Errorf("redis publish to %s: %w", channel, err)
	}
	return nil
}

// Run subscribes to the in channel and dispatches every foreign inbound action
// into engine until ctx is done.
func (b *Bridge) Run(ctx context.Context, engine Engine) error {
	sub := b.client.Subscribe(ctx, b.InChannel())
	defer sub.Close()

	// Wait for the subscription to be confirmed before reading messages.
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("redis subscribe %s: %w", b.InChannel(), err)
	}
	b.logger.Info("redis bridge listening", "channel", b.InChannel(), "origin", b.origin)

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return ErrClosed
			}
			b.handle(ctx, engine, msg.Payload)
		}
	}
}

func (b *Bridge) handle(ctx context.Context, engine Engine, payload string) {
	var env Envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		b.logger.Warn("redis bridge: malformed envelope", "error", err)
		return
	}
	if env.Origin == b.origin {
		return
	}
	action, err := protocol.Decode(env.Action)
	if err != nil {
		b.logger.Warn("redis bridge: undecodable action", "origin", env.Origin, "error", err)
		return
	}
	if !slices.Contains(domain.InboundKinds(), action.Kind()) {
		b.logger.Warn("redis bridge: ignoring non-inbound action", "origin", env.Origin, "kind", action.Kind())
		return
	}
	if err := engine.Dispatch(ctx, action); err != nil {
		b.logger.Error("redis bridge: dispatch failed", "kind", action.Kind(), "error", err)
	}
}
