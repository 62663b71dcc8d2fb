package memory

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/aretw0/oodux/internal/logging"
	"github.com/aretw0/oodux/pkg/domain"
	"github.com/aretw0/oodux/pkg/middleware"
	"github.com/aretw0/oodux/pkg/ports"
)

// Option configures a Store.
type Option func(*options)

type options struct {
	logger     *slog.Logger
	middleware []middleware.Middleware
	hooks      domain.LifecycleHooks
}

// WithLogger sets the store logger. Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMiddleware wraps the dispatch path. The first middleware runs first.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(o *options) {
		o.middleware = append(o.middleware, mws...)
	}
}

// WithHooks registers lifecycle callbacks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(o *options) {
		o.hooks = hooks
	}
}

// Store implements ports.Backend in memory.
// Safe for concurrent use: reductions are serialized and listeners run
// after the lock is released, so a listener may dispatch again.
type Store[T any] struct {
	mu         sync.RWMutex
	state      T
	revision   uint64
	transition ports.Transition[T]

	dispatch middleware.Handler
	logger   *slog.Logger
	hooks    domain.LifecycleHooks

	lmu       sync.Mutex
	listeners map[uint64]ports.Listener[T]
	nextID    uint64
}

// NewStore creates a store holding initial and reducing with transition.
func NewStore[T any](transition ports.Transition[T], initial T, opts ...Option) *Store[T] {
	o := options{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	s := &Store[T]{
		state:      initial,
		transition: transition,
		logger:     o.logger,
		hooks:      o.hooks,
		listeners:  make(map[uint64]ports.Listener[T]),
	}
	s.dispatch = middleware.Chain(o.middleware...)(s.reduce)
	return s
}

// Dispatch runs action through the middleware chain and the transition.
func (s *Store[T]) Dispatch(action domain.Action) error {
	start := time.Now()
	handled, err := s.dispatch(action)
	if s.hooks.OnDispatch != nil {
		s.hooks.OnDispatch(&domain.DispatchEvent{
			Timestamp: start,
			Action:    action,
			Duration:  time.Since(start),
			Revision:  s.Revision(),
			Handled:   handled,
			Err:       err,
		})
	}
	return err
}

func (s *Store[T]) reduce(action domain.Action) (bool, error) {
	s.mu.Lock()
	prev := s.state
	next, handled, err := s.transition(prev, action)
	if err != nil || !handled {
		s.mu.Unlock()
		return false, err
	}
	s.state = next
	s.revision++
	rev := s.revision
	s.mu.Unlock()

	s.logger.Debug("state updated", "action", action.Type, "revision", rev)
	s.notify(prev, next)
	return true, nil
}

// CurrentState returns the latest snapshot.
func (s *Store[T]) CurrentState() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Revision counts the handled dispatches.
func (s *Store[T]) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Replace installs state as the current snapshot without a transition and
// notifies listeners. It is used to restore persisted snapshots.
func (s *Store[T]) Replace(state T) {
	s.mu.Lock()
	prev := s.state
	s.state = state
	s.revision++
	s.mu.Unlock()
	s.notify(prev, state)
}

// Subscribe registers l and returns a function that removes it.
func (s *Store[T]) Subscribe(l ports.Listener[T]) func() {
	s.lmu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.lmu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.lmu.Lock()
			delete(s.listeners, id)
			s.lmu.Unlock()
		})
	}
}

func (s *Store[T]) notify(prev, next T) {
	s.lmu.Lock()
	ids := make([]uint64, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	s.lmu.Unlock()
	slices.Sort(ids)

	for _, id := range ids {
		s.lmu.Lock()
		l, ok := s.listeners[id]
		s.lmu.Unlock()
		if ok {
			l(prev, next)
		}
	}
}
