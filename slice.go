package oodux

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/oodux/internal/runtime"
	"github.com/aretw0/oodux/pkg/adapters/memory"
	"github.com/aretw0/oodux/pkg/domain"
	"github.com/aretw0/oodux/pkg/immutable"
	"github.com/aretw0/oodux/pkg/memo"
	"github.com/aretw0/oodux/pkg/ports"
	"github.com/aretw0/oodux/pkg/registry"
	"github.com/aretw0/oodux/pkg/schema"
)

// binding connects a definition to the store that owns its state.
type binding struct {
	read  func() any
	send  func(domain.Action) error
	watch func(func(prev, next any)) func()
}

// definition is the type independent part of a Slice.
type definition struct {
	name    string
	schema  *schema.Schema
	table   *runtime.Table
	reducer *runtime.Reducer
	actions *registry.Registry
	memo    *memo.Cache
	logger  *slog.Logger

	mu sync.RWMutex
	b  *binding
}

func (d *definition) bound() *binding {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.b
}

// bind attaches the definition to a store. A slice belongs to exactly one
// store; binding it twice panics with domain.ErrAlreadyInitialized.
func (d *definition) bind(b *binding) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.b != nil {
		panic(fmt.Errorf("slice %s: %w", d.name, domain.ErrAlreadyInitialized))
	}
	d.b = b
}

func (d *definition) deliver(a domain.Action) error {
	b := d.bound()
	if b == nil {
		return fmt.Errorf("slice %s: %w", d.name, domain.ErrNotInitialized)
	}
	return b.send(a)
}

// Slice is a state type S turned into a reducer, a set of action creators
// and dispatchers, and a cache of derived values.
type Slice[S any] struct {
	def *definition
}

// Define reflects over S and synthesizes its mutators. S must be a struct;
// anything else panics with domain.ErrAbstractSlice. A method of S that
// returns S and takes more than one argument panics with
// domain.ErrArityExceeded.
func Define[S any](opts ...Option) *Slice[S] {
	c := newConfig(opts)
	sch := schema.MustDescribe(immutable.TypeOf[S]())

	name := c.name
	if name == "" {
		name = sch.Name
	}
	table := runtime.Synthesize(sch)
	d := &definition{
		name:    name,
		schema:  sch,
		table:   table,
		reducer: runtime.NewReducer(name, table),
		memo:    memo.NewCache(sch.GetterMap()),
		logger:  c.logger.With("slice", name),
	}

	mutators := table.Mutators()
	descs := make([]domain.Descriptor, len(mutators))
	for i, m := range mutators {
		descs[i] = m.Descriptor()
	}
	d.actions = registry.Build(name, descs, d.deliver)

	d.logger.Debug("slice defined",
		"fields", len(sch.Fields),
		"actions", len(descs),
		"getters", len(sch.Getters))
	return &Slice[S]{def: d}
}

func (s *Slice[S]) definition() *definition {
	return s.def
}

// Name returns the slice name, which is also its key in a combined tree.
func (s *Slice[S]) Name() string {
	return s.def.name
}

// Schema returns the reflected description of S.
func (s *Slice[S]) Schema() *schema.Schema {
	return s.def.schema
}

// Actions returns the per-slice registry. Its creators always target this
// slice.
func (s *Slice[S]) Actions() *registry.Registry {
	return s.def.actions
}

// Descriptors lists the actions of the slice sorted by name.
func (s *Slice[S]) Descriptors() []domain.Descriptor {
	return s.def.actions.Descriptors()
}

// Init creates a standalone store for the slice. Calling Init or Combine
// on an already bound slice panics with domain.ErrAlreadyInitialized.
func (s *Slice[S]) Init(opts ...Option) *Store[S] {
	d := s.def
	if d.bound() != nil {
		panic(fmt.Errorf("slice %s: %w", d.name, domain.ErrAlreadyInitialized))
	}
	c := newConfig(append([]Option{WithLogger(d.logger)}, opts...))

	initial, _ := d.reducer.Initial.(S)
	backend := memory.NewStore[S](s.transition, initial, c.storeOptions()...)
	d.bind(&binding{
		read: func() any { return backend.CurrentState() },
		send: backend.Dispatch,
		watch: func(l func(prev, next any)) func() {
			return backend.Subscribe(func(prev, next S) { l(prev, next) })
		},
	})
	logChanges(c.logger, backend)

	c.logger.Debug("store initialized")
	return &Store[S]{slice: s, backend: backend}
}

func (s *Slice[S]) transition(state S, a domain.Action) (S, bool, error) {
	out, handled, err := s.def.reducer.Reduce(state, a)
	if err != nil || !handled {
		return state, false, err
	}
	return out.(S), true, nil
}

// State returns the current snapshot of the slice. Before Init or Combine
// it returns the default instance.
func (s *Slice[S]) State() S {
	if b := s.def.bound(); b != nil {
		v, _ := b.read().(S)
		return v
	}
	v, _ := s.def.reducer.Initial.(S)
	return v
}

// Dispatch sends the action name, targeted at this slice, with at most one
// payload value.
func (s *Slice[S]) Dispatch(name string, data ...any) error {
	payload, err := single(name, data)
	if err != nil {
		return err
	}
	return s.def.actions.Dispatch(name, payload)
}

// Dispatcher returns the bound dispatcher of name.
func (s *Slice[S]) Dispatcher(name string) (domain.Dispatcher, error) {
	return s.def.actions.Dispatcher(name)
}

// Creator returns the action creator of name.
func (s *Slice[S]) Creator(name string) (domain.Creator, error) {
	return s.def.actions.Creator(name)
}

// Apply invokes the mutator name directly on state, without a store.
func (s *Slice[S]) Apply(state S, name string, data ...any) (S, error) {
	payload, err := single(name, data)
	if err != nil {
		return state, err
	}
	out, handled, err := s.def.table.Apply(state, name, payload)
	if err != nil {
		return state, err
	}
	if !handled {
		return state, fmt.Errorf("%s: %q: %w", s.def.name, name, domain.ErrUnknownAction)
	}
	return out.(S), nil
}

// Derived evaluates the derived value name against the current snapshot.
// The result is cached until one of the fields it read changes.
func (s *Slice[S]) Derived(name string) (any, error) {
	v, err := s.def.memo.Get(name, s.State())
	if err != nil {
		return nil, fmt.Errorf("slice %s: %w", s.def.name, err)
	}
	return v, nil
}

// CacheStats reports hit and recompute counts of the derived values.
func (s *Slice[S]) CacheStats() memo.Stats {
	return s.def.memo.Stats()
}

// Subscribe calls l after every dispatch that changed the slice snapshot.
// It fails with domain.ErrNotInitialized before Init or Combine.
func (s *Slice[S]) Subscribe(l ports.Listener[S]) (func(), error) {
	b := s.def.bound()
	if b == nil {
		return nil, fmt.Errorf("slice %s: %w", s.def.name, domain.ErrNotInitialized)
	}
	return b.watch(func(prev, next any) {
		if immutable.Same(prev, next) {
			return
		}
		p, _ := prev.(S)
		n, _ := next.(S)
		l(p, n)
	}), nil
}

// Derive is Derived with a typed result.
func Derive[T, S any](s *Slice[S], name string) (T, error) {
	var zero T
	v, err := s.Derived(name)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("slice %s: getter %q returned %T, not %T", s.Name(), name, v, zero)
	}
	return t, nil
}

// Store is the standalone store of one slice.
type Store[S any] struct {
	slice   *Slice[S]
	backend *memory.Store[S]
}

// Slice returns the slice the store was initialized from.
func (st *Store[S]) Slice() *Slice[S] {
	return st.slice
}

// Backend exposes the underlying in-memory store.
func (st *Store[S]) Backend() *memory.Store[S] {
	return st.backend
}

// State returns the current snapshot.
func (st *Store[S]) State() S {
	return st.backend.CurrentState()
}

// Revision counts the dispatches that changed the state.
func (st *Store[S]) Revision() uint64 {
	return st.backend.Revision()
}

// Dispatch is Slice.Dispatch.
func (st *Store[S]) Dispatch(name string, data ...any) error {
	return st.slice.Dispatch(name, data...)
}

// DispatchAction sends a raw action.
func (st *Store[S]) DispatchAction(a domain.Action) error {
	return st.backend.Dispatch(a)
}

// Subscribe registers a state listener.
func (st *Store[S]) Subscribe(l ports.Listener[S]) func() {
	return st.backend.Subscribe(l)
}

// Replace installs state without running a mutator.
func (st *Store[S]) Replace(state S) {
	st.backend.Replace(state)
}

func single(name string, data []any) (any, error) {
	switch len(data) {
	case 0:
		return nil, nil
	case 1:
		return data[0], nil
	}
	return nil, fmt.Errorf("%q called with %d arguments: %w", name, len(data), domain.ErrArityExceeded)
}

// logChanges logs the changed keys of every transition when debug logging
// is enabled.
func logChanges[T any](logger *slog.Logger, backend *memory.Store[T]) {
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	backend.Subscribe(func(prev, next T) {
		logger.Debug("state changed", "fields", schema.Diff(prev, next))
	})
}
