package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"multivendor-client/internal/models"
	"multivendor-client/internal/reducers"
	"multivendor-client/internal/util"
)

// Reducer computes the next state tree
type Reducer func(state reducers.State, e models.Event) reducers.State

// DispatchFunc submits one event
type DispatchFunc func(e models.Event)

// Middleware wraps the dispatch chain
type Middleware func(next DispatchFunc) DispatchFunc

// Listener is notified after every reduction with the new state
type Listener func(state reducers.State, e models.Event)

// Thunk is a unit of asynchronous work that dispatches events as it goes
type Thunk func(ctx context.Context, d Dispatcher) error

// Dispatcher is what thunks see of the store
type Dispatcher interface {
	Dispatch(e models.Event)
	State() reducers.State
	Do(ctx context.Context, t Thunk) error
	Sequencer() *Sequencer
}

// Store holds the state tree. Dispatches are serialised: each event is reduced
// and every listener has returned before the next event is reduced.
type Store struct {
	reducer  Reducer
	dispatch DispatchFunc
	seq      *Sequencer
	logger   *zap.Logger

	reduceMu sync.Mutex

	stateMu sync.RWMutex
	state   reducers.State

	listenersMu sync.Mutex
	listeners   []subscription
	nextID      int
}

type subscription struct {
	id int
	fn Listener
}

func New(reducer Reducer, initial reducers.State, middleware ...Middleware) *Store {
	s := &Store{
		reducer: reducer,
		state:   initial,
		seq:     NewSequencer(),
		logger:  util.GetLogger(),
	}

	chain := DispatchFunc(s.reduce)
	for i := len(middleware) - 1; i >= 0; i-- {
		chain = middleware[i](chain)
	}
	s.dispatch = chain
	return s
}

// Dispatch runs e through the middleware chain and reduces it. Listeners must
// not call Dispatch synchronously; thunks started from a listener are fine.
func (s *Store) Dispatch(e models.Event) {
	s.dispatch(e)
}

// State returns the current state tree
func (s *Store) State() reducers.State {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

// Do runs a thunk against the store
func (s *Store) Do(ctx context.Context, t Thunk) error {
	return t(ctx, s)
}

func (s *Store) Sequencer() *Sequencer {
	return s.seq
}

// Subscribe registers fn and returns a function that removes it
func (s *Store) Subscribe(fn Listener) func() {
	s.listenersMu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})
	s.listenersMu.Unlock()

	return func() {
		s.listenersMu.Lock()
		defer s.listenersMu.Unlock()
		for i, sub := range s.listeners {
			if sub.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) reduce(e models.Event) {
	s.reduceMu.Lock()
	defer s.reduceMu.Unlock()

	s.stateMu.Lock()
	next := s.reducer(s.state, e)
	s.state = next
	s.stateMu.Unlock()

	s.listenersMu.Lock()
	listeners := make([]subscription, len(s.listeners))
	copy(listeners, s.listeners)
	s.listenersMu.Unlock()

	for _, sub := range listeners {
		s.notify(sub, next, e)
	}
}

func (s *Store) notify(sub subscription, state reducers.State, e models.Event) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Store listener panicked",
				zap.String("event_type", e.EventType),
				zap.Any("panic", r),
			)
		}
	}()
	sub.fn(state, e)
}
