package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"multivendor-client/internal/models"
	"multivendor-client/internal/reducers"
)

func newTestStore(mw ...Middleware) *Store {
	return New(reducers.Root, reducers.Initial(), mw...)
}

func TestStore_DispatchReducesAndNotifiesInOrder(t *testing.T) {
	s := newTestStore()

	var seen []string
	var tokens []string
	s.Subscribe(func(state reducers.State, e models.Event) {
		seen = append(seen, e.EventType)
		tokens = append(tokens, state.Auth.Token)
	})

	s.Dispatch(models.NewEvent(models.EventTypeAuthLoginRequest, nil))
	s.Dispatch(models.NewEvent(models.EventTypeAuthLoginSuccess, models.AuthToken{Token: "abc"}))

	assert.Equal(t, []string{models.EventTypeAuthLoginRequest, models.EventTypeAuthLoginSuccess}, seen)
	assert.Equal(t, []string{"", "abc"}, tokens)
	assert.Equal(t, "abc", s.State().Auth.Token)
}

func TestStore_Unsubscribe(t *testing.T) {
	s := newTestStore()

	calls := 0
	unsubscribe := s.Subscribe(func(reducers.State, models.Event) { calls++ })
	s.Dispatch(models.NewEvent(models.EventTypeCartLoading, nil))
	unsubscribe()
	s.Dispatch(models.NewEvent(models.EventTypeCartLoaded, nil))

	assert.Equal(t, 1, calls)
}

func TestStore_ListenerPanicDoesNotStopOthers(t *testing.T) {
	s := newTestStore()

	s.Subscribe(func(reducers.State, models.Event) { panic("boom") })
	called := false
	s.Subscribe(func(reducers.State, models.Event) { called = true })

	s.Dispatch(models.NewEvent(models.EventTypeCartLoading, nil))
	assert.True(t, called)
	assert.True(t, s.State().Cart.Fetching)
}

func TestStore_MiddlewareOrder(t *testing.T) {
	var trace []string
	mark := func(name string) Middleware {
		return func(next DispatchFunc) DispatchFunc {
			return func(e models.Event) {
				trace = append(trace, name+">")
				next(e)
				trace = append(trace, "<"+name)
			}
		}
	}

	s := newTestStore(mark("a"), mark("b"))
	s.Subscribe(func(reducers.State, models.Event) { trace = append(trace, "listener") })
	s.Dispatch(models.NewEvent(models.EventTypeCartLoading, nil))

	assert.Equal(t, []string{"a>", "b>", "listener", "<b", "<a"}, trace)
}

func TestStore_MiddlewareCanDropEvents(t *testing.T) {
	drop := func(next DispatchFunc) DispatchFunc {
		return func(e models.Event) {
			if e.EventType == models.EventTypeCartLoading {
				return
			}
			next(e)
		}
	}
	s := newTestStore(drop, Metrics())
	s.Dispatch(models.NewEvent(models.EventTypeCartLoading, nil))
	assert.False(t, s.State().Cart.Fetching)
}

func TestStore_DoRunsThunk(t *testing.T) {
	s := newTestStore()
	failure := errors.New("offline")

	err := s.Do(context.Background(), func(ctx context.Context, d Dispatcher) error {
		d.Dispatch(models.NewEvent(models.EventTypeCartLoading, nil))
		assert.True(t, d.State().Cart.Fetching)
		d.Dispatch(models.FailEvent(models.EventTypeCartFail, failure))
		return failure
	})

	require.ErrorIs(t, err, failure)
	assert.False(t, s.State().Cart.Fetching)
}

func TestStore_ConcurrentDispatchIsSerialised(t *testing.T) {
	s := newTestStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Dispatch(models.NewEvent(models.EventTypeNotificationShow, models.Notification{ID: string(rune('a' + i%26))}))
		}(i)
	}
	wg.Wait()

	assert.Len(t, s.State().Notifications.Items, 50)
}

func TestSequencer(t *testing.T) {
	q := NewSequencer()

	first := q.Issue(KeyCart)
	second := q.Issue(KeyCart)
	other := q.Issue(ProductPriceKey(7))

	assert.True(t, second > first)
	assert.False(t, q.IsCurrent(KeyCart, first))
	assert.True(t, q.IsCurrent(KeyCart, second))
	assert.True(t, q.IsCurrent("product_price:7", other))

	assert.True(t, q.Discard(KeyCart, first))
	assert.False(t, q.Discard(KeyCart, second))

	q.Reset()
	assert.False(t, q.IsCurrent(KeyCart, second))

	third := q.Issue(KeyCart)
	assert.True(t, third > other, "tags keep increasing after a reset")
}

func TestResourceLabel(t *testing.T) {
	assert.Equal(t, "cart", resourceLabel(KeyCart))
	assert.Equal(t, "product_price", resourceLabel(ProductPriceKey(12)))
}
