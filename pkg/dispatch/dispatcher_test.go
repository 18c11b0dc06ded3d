package dispatch_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/aretw0/diagram/pkg/dispatch"
	"github.com/aretw0/diagram/pkg/domain"
	"github.com/aretw0/diagram/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_DeliversToHandlers(t *testing.T) {
	d := dispatch.New()
	var got []domain.Action
	d.Register(domain.KindRequestModel, ports.HandlerFunc(func(_ context.Context, a domain.Action) error {
		got = append(got, a)
		return nil
	}))

	require.NoError(t, d.Dispatch(context.Background(), domain.RequestModelAction{}))
	require.NoError(t, d.Dispatch(context.Background(), domain.SetModelAction{}), "unhandled kinds are dropped")

	assert.Equal(t, []domain.Action{domain.RequestModelAction{}}, got)
}

func TestDispatcher_ReentrantDispatchIsQueued(t *testing.T) {
	d := dispatch.New()
	var order []string

	d.Register(domain.KindRequestModel, ports.HandlerFunc(func(ctx context.Context, _ domain.Action) error {
		order = append(order, "requestModel:start")
		require.NoError(t, d.Dispatch(ctx, domain.SetModelAction{}))
		require.NoError(t, d.Dispatch(ctx, domain.UpdateModelAction{}))
		order = append(order, "requestModel:end")
		return nil
	}))
	d.Register(domain.KindSetModel, ports.HandlerFunc(func(ctx context.Context, _ domain.Action) error {
		order = append(order, "setModel")
		return d.Dispatch(ctx, domain.SetPopupModelAction{})
	}))
	d.Register(domain.KindUpdateModel, ports.HandlerFunc(func(context.Context, domain.Action) error {
		order = append(order, "updateModel")
		return nil
	}))
	d.Register(domain.KindSetPopupModel, ports.HandlerFunc(func(context.Context, domain.Action) error {
		order = append(order, "setPopupModel")
		return nil
	}))

	require.NoError(t, d.Dispatch(context.Background(), domain.RequestModelAction{}))

	assert.Equal(t, []string{
		"requestModel:start",
		"requestModel:end",
		"setModel",
		"updateModel",
		"setPopupModel",
	}, order)
}

func TestDispatcher_RunJoinsTurn(t *testing.T) {
	d := dispatch.New()
	var delivered int
	d.Register(domain.KindSetModel, ports.HandlerFunc(func(context.Context, domain.Action) error {
		delivered++
		return nil
	}))

	err := d.Run(context.Background(), func(ctx context.Context) error {
		require.NoError(t, d.Dispatch(ctx, domain.SetModelAction{}))
		assert.Zero(t, delivered, "delivery waits for the end of the turn")

		// Nested Run executes inline.
		return d.Run(ctx, func(ctx context.Context) error {
			return d.Dispatch(ctx, domain.SetModelAction{})
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 2, delivered)
}

func TestDispatcher_JoinsHandlerErrors(t *testing.T) {
	errA := errors.New("a failed")
	errB := errors.New("b failed")

	var hooked []error
	d := dispatch.New(dispatch.WithDeliveryHook(func(_ context.Context, _ domain.Action, handlers int, err error) {
		assert.Equal(t, 2, handlers)
		hooked = append(hooked, err)
	}))
	d.Register(domain.KindRequestModel, ports.HandlerFunc(func(context.Context, domain.Action) error { return errA }))
	d.Register(domain.KindRequestModel, ports.HandlerFunc(func(context.Context, domain.Action) error { return errB }))

	err := d.Dispatch(context.Background(), domain.RequestModelAction{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	require.Len(t, hooked, 1)
	assert.ErrorIs(t, hooked[0], errA)

	assert.ErrorIs(t, d.Dispatch(context.Background(), nil), domain.ErrUnknownAction)
}

func TestDispatcher_SerializesConcurrentCallers(t *testing.T) {
	d := dispatch.New()
	inside := 0
	maxInside := 0
	total := 0
	d.Register(domain.KindRequestModel, ports.HandlerFunc(func(context.Context, domain.Action) error {
		inside++
		if inside > maxInside {
			maxInside = inside
		}
		total++
		inside--
		return nil
	}))

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = d.Dispatch(context.Background(), domain.RequestModelAction{})
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, total)
	assert.Equal(t, 1, maxInside)
}
