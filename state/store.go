package state

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Listener observes every dispatched action together with the states before
// and after it. Listeners run after the new state is installed, outside the
// store lock, and must not block.
type Listener func(action Action, prev, next State)

// Store owns the portal state. Dispatch is the only way to change it and
// dispatches are applied one at a time.
type Store struct {
	mu        sync.Mutex
	state     State
	reducer   *Reducer
	ids       IDSource
	toastTTL  time.Duration
	timers    map[string]*time.Timer
	listeners []Listener
	logger    *zap.Logger
	closed    bool
}

type Option func(*Store)

// WithToastTTL sets how long a toast stays before it is removed. Zero
// disables auto-removal.
func WithToastTTL(ttl time.Duration) Option {
	return func(s *Store) { s.toastTTL = ttl }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func WithListener(l Listener) Option {
	return func(s *Store) { s.listeners = append(s.listeners, l) }
}

// NewStore builds a store around reducer, starting from initial.
func NewStore(reducer *Reducer, ids IDSource, initial State, opts ...Option) *Store {
	s := &Store{
		state:    initial,
		reducer:  reducer,
		ids:      ids,
		toastTTL: 4 * time.Second,
		timers:   make(map[string]*time.Timer),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// New wires a store over the seeded mock dataset with the given clock and id
// source.
func New(now Clock, ids IDSource, opts ...Option) *Store {
	reducer := NewReducer(now, ids, Seed)
	return NewStore(reducer, ids, Seed(), opts...)
}

// Subscribe registers a listener for subsequent dispatches.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// NewID issues an identifier from the store's id source, for callers that
// need to know the id of an entity before dispatching its creation.
func (s *Store) NewID() string {
	return s.ids.NewID()
}

// Dispatch applies action and returns the resulting state.
func (s *Store) Dispatch(action Action) State {
	_, next := s.apply(action)
	return next
}

// apply reduces action and returns the states on either side of it. prev is
// exactly the state the reducer saw, even under concurrent dispatches.
func (s *Store) apply(action Action) (State, State) {
	s.mu.Lock()
	if s.closed {
		st := s.state
		s.mu.Unlock()
		return st, st
	}
	prev := s.state
	next := s.reducer.Reduce(prev, action)
	s.state = next
	s.syncToastTimers(next)
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	s.logger.Debug("action dispatched",
		zap.String("action", action.Kind()),
		zap.Int("toasts", len(next.Toasts)),
	)
	for _, l := range listeners {
		l(action, prev, next)
	}
	return prev, next
}

// DispatchAfter waits delay, standing in for network latency, then
// dispatches action. It returns the state just before and just after the
// action, or ctx.Err() without dispatching if ctx ends first.
func (s *Store) DispatchAfter(ctx context.Context, delay time.Duration, action Action) (prev, next State, err error) {
	if delay > 0 {
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return State{}, State{}, ctx.Err()
		}
	}
	prev, next = s.apply(action)
	return prev, next, nil
}

// Close stops pending toast timers. Dispatches after Close are ignored.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

// syncToastTimers schedules removal of new toasts and cancels timers of
// toasts that are gone. Callers hold s.mu.
func (s *Store) syncToastTimers(next State) {
	if s.toastTTL <= 0 {
		return
	}

	live := make(map[string]struct{}, len(next.Toasts))
	for _, t := range next.Toasts {
		live[t.ID] = struct{}{}
		if _, ok := s.timers[t.ID]; ok {
			continue
		}
		id := t.ID
		s.timers[id] = time.AfterFunc(s.toastTTL, func() {
			s.Dispatch(RemoveToast{ID: id})
		})
	}
	for id, timer := range s.timers {
		if _, ok := live[id]; !ok {
			timer.Stop()
			delete(s.timers, id)
		}
	}
}

// PendingToastTimers reports how many toast timers are scheduled.
func (s *Store) PendingToastTimers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}
