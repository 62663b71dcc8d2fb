package oodux

import (
	"fmt"
	"log/slog"
	"reflect"
	"sort"

	"github.com/aretw0/oodux/internal/runtime"
	"github.com/aretw0/oodux/pkg/adapters/memory"
	"github.com/aretw0/oodux/pkg/domain"
	"github.com/aretw0/oodux/pkg/ports"
	"github.com/aretw0/oodux/pkg/registry"
)

// Member is a slice that can be combined. *Slice[S] implements it.
type Member interface {
	Name() string
	Descriptors() []domain.Descriptor
	definition() *definition
}

// Root is a store combining several slices under their names.
type Root struct {
	members  map[string]Member
	combined *runtime.Combined
	actions  *registry.Registry
	backend  *memory.Store[domain.Tree]
	logger   *slog.Logger
}

// Combine builds a store whose state is a domain.Tree keyed by slice name.
// Default actions produced by a single slice are hoisted to the root;
// names produced by several slices are disabled there and stay reachable
// through each slice. Binding an already bound slice panics with
// domain.ErrAlreadyInitialized and duplicate names panic with
// domain.ErrDuplicateSlice.
func Combine(slices ...Member) *Root {
	return CombineWith(slices)
}

// CombineWith is Combine with root options such as WithLogger.
func CombineWith(slices []Member, opts ...Option) *Root {
	c := newConfig(opts)

	members := make(map[string]Member, len(slices))
	reducers := make([]*runtime.Reducer, 0, len(slices))
	regs := make([]*registry.Registry, 0, len(slices))
	for _, m := range slices {
		d := m.definition()
		if d.bound() != nil {
			panic(fmt.Errorf("slice %s: %w", d.name, domain.ErrAlreadyInitialized))
		}
		members[d.name] = m
		reducers = append(reducers, d.reducer)
		regs = append(regs, d.actions)
	}
	combined := runtime.Combine(reducers...)
	top := registry.Combine(regs...)

	shadowed := registry.Shadowed(regs...)
	names := make([]string, 0, len(shadowed))
	for name := range shadowed {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c.logger.Warn("action defined by several slices, raw dispatch reaches all of them",
			"action", name, "slices", shadowed[name])
	}
	for _, name := range top.Conflicts() {
		c.logger.Debug("default action disabled at root", "action", name)
	}

	backend := memory.NewStore[domain.Tree](combined.Reduce, combined.Initial(), c.storeOptions()...)
	for _, m := range slices {
		d := m.definition()
		name := d.name
		d.bind(&binding{
			read: func() any { return backend.CurrentState()[name] },
			send: backend.Dispatch,
			watch: func(l func(prev, next any)) func() {
				return backend.Subscribe(func(prev, next domain.Tree) { l(prev[name], next[name]) })
			},
		})
	}
	logChanges(c.logger, backend)

	c.logger.Debug("slices combined", "slices", combined.Names())
	return &Root{
		members:  members,
		combined: combined,
		actions:  top,
		backend:  backend,
		logger:   c.logger,
	}
}

// Names returns the slice names, sorted.
func (r *Root) Names() []string {
	return r.combined.Names()
}

// Slice returns the member registered under name.
func (r *Root) Slice(name string) (Member, bool) {
	m, ok := r.members[name]
	return m, ok
}

// Types maps every slice name to its state type.
func (r *Root) Types() map[string]reflect.Type {
	out := make(map[string]reflect.Type, len(r.members))
	for name, m := range r.members {
		out[name] = m.definition().schema.Type
	}
	return out
}

// Actions returns the root registry.
func (r *Root) Actions() *registry.Registry {
	return r.actions
}

// Backend exposes the underlying in-memory store.
func (r *Root) Backend() *memory.Store[domain.Tree] {
	return r.backend
}

// State returns the current tree.
func (r *Root) State() domain.Tree {
	return r.backend.CurrentState()
}

// Revision counts the dispatches that changed the tree.
func (r *Root) Revision() uint64 {
	return r.backend.Revision()
}

// Dispatch sends a hoisted default action. Conflicting names fail with an
// error wrapping domain.ErrConflict.
func (r *Root) Dispatch(name string, data ...any) error {
	payload, err := single(name, data)
	if err != nil {
		return err
	}
	return r.actions.Dispatch(name, payload)
}

// Dispatcher returns the root dispatcher of name.
func (r *Root) Dispatcher(name string) (domain.Dispatcher, error) {
	return r.actions.Dispatcher(name)
}

// Creator returns the root creator of name.
func (r *Root) Creator(name string) (domain.Creator, error) {
	return r.actions.Creator(name)
}

// Descriptors lists the root actions, conflicting ones included.
func (r *Root) Descriptors() []domain.Descriptor {
	return r.actions.Descriptors()
}

// Conflicts lists the disabled root action names.
func (r *Root) Conflicts() []string {
	return r.actions.Conflicts()
}

// DispatchAction sends a raw action. Without a Target it reaches every
// slice that knows the type, user mutators included.
func (r *Root) DispatchAction(a domain.Action) error {
	return r.backend.Dispatch(a)
}

// Subscribe registers a tree listener.
func (r *Root) Subscribe(l ports.Listener[domain.Tree]) func() {
	return r.backend.Subscribe(l)
}

// Replace installs tree without running a mutator.
func (r *Root) Replace(tree domain.Tree) {
	r.backend.Replace(tree)
}
