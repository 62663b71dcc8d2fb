// Package registry turns mutator descriptors into action creators and
// dispatchers, and merges the registries of several slices into one
// top-level namespace.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/aretw0/oodux/pkg/domain"
)

// Sender delivers an action to a store. Registries hold a Sender instead of
// a store so the store can be bound after the registry is built.
type Sender func(domain.Action) error

// Entry is one registered action.
type Entry struct {
	domain.Descriptor

	// Creator is nil when the name is disabled by a conflict.
	Creator    domain.Creator
	Dispatcher domain.Dispatcher

	// Producers lists the slices whose default mutators produce the name.
	Producers []string
}

// Disabled reports whether the entry was disabled by a conflict.
func (e Entry) Disabled() bool {
	return e.Creator == nil
}

// ConflictError is returned by a top-level dispatcher whose name is produced
// by the default mutators of more than one slice.
type ConflictError struct {
	Name   string
	Slices []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("action %q is produced by slices %s; dispatch it through the owning slice",
		e.Name, strings.Join(e.Slices, ", "))
}

func (e *ConflictError) Unwrap() error {
	return domain.ErrConflict
}

// Registry manages the actions of one slice or of a combined store.
type Registry struct {
	mu      sync.RWMutex
	slice   string
	entries map[string]Entry
}

// NewRegistry creates an empty registry owned by slice. The top-level
// registry has an empty slice name.
func NewRegistry(slice string) *Registry {
	return &Registry{
		slice:   slice,
		entries: make(map[string]Entry),
	}
}

// Build registers a creator and a dispatcher for every descriptor. Creators
// target the owning slice. A descriptor with arity above domain.MaxArity is
// a configuration error and panics with domain.ErrArityExceeded.
func Build(slice string, descs []domain.Descriptor, send Sender) *Registry {
	r := NewRegistry(slice)
	for _, d := range descs {
		if d.Arity > domain.MaxArity || d.Arity < 0 {
			panic(fmt.Errorf("%s.%s takes %d arguments: %w", slice, d.Name, d.Arity, domain.ErrArityExceeded))
		}
		d.Slice = slice
		create := Creator(d, slice)
		e := Entry{
			Descriptor: d,
			Creator:    create,
			Dispatcher: func(data any) error {
				return send(create(data))
			},
		}
		if d.Default {
			e.Producers = []string{slice}
		}
		r.Register(e)
	}
	return r
}

// Creator returns the action creator for d. Arity-0 creators drop their
// argument.
func Creator(d domain.Descriptor, target string) domain.Creator {
	if d.Arity == 0 {
		return func(any) domain.Action {
			return domain.Action{Type: d.Name, Target: target}
		}
	}
	return func(data any) domain.Action {
		return domain.Action{Type: d.Name, Data: data, Target: target}
	}
}

// Register adds an entry. An entry with the same name is overwritten.
func (r *Registry) Register(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[e.Name] = e
}

// Slice returns the owning slice name.
func (r *Registry) Slice() string {
	return r.slice
}

// Lookup finds an entry by name.
func (r *Registry) Lookup(name string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e, ok
}

// Creator returns the creator of name. It fails with domain.ErrUnknownAction
// for unregistered names and with a *ConflictError for disabled ones.
func (r *Registry) Creator(name string) (domain.Creator, error) {
	e, ok := r.Lookup(name)
	if !ok {
		return nil, r.unknown(name)
	}
	if e.Disabled() {
		return nil, &ConflictError{Name: name, Slices: e.Producers}
	}
	return e.Creator, nil
}

// Dispatcher returns the dispatcher of name. Disabled names still return a
// dispatcher; calling it yields the conflict.
func (r *Registry) Dispatcher(name string) (domain.Dispatcher, error) {
	e, ok := r.Lookup(name)
	if !ok {
		return nil, r.unknown(name)
	}
	return e.Dispatcher, nil
}

// Dispatch sends name with data through its dispatcher.
func (r *Registry) Dispatch(name string, data any) error {
	d, err := r.Dispatcher(name)
	if err != nil {
		return err
	}
	return d(data)
}

// Entries returns every entry sorted by name.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Descriptors returns the descriptor of every entry sorted by name.
func (r *Registry) Descriptors() []domain.Descriptor {
	entries := r.Entries()
	out := make([]domain.Descriptor, len(entries))
	for i, e := range entries {
		out[i] = e.Descriptor
	}
	return out
}

// Conflicts returns the disabled names, sorted.
func (r *Registry) Conflicts() []string {
	var names []string
	for _, e := range r.Entries() {
		if e.Disabled() {
			names = append(names, e.Name)
		}
	}
	return names
}

func (r *Registry) unknown(name string) error {
	if r.slice == "" {
		return fmt.Errorf("%q: %w", name, domain.ErrUnknownAction)
	}
	return fmt.Errorf("%s: %q: %w", r.slice, name, domain.ErrUnknownAction)
}

// Combine builds the top-level registry. Only default mutators take part:
// a name produced by exactly one slice is hoisted unchanged, keeping its
// creator and dispatcher scoped to that slice; a name produced by two or
// more slices gets a nil creator and a dispatcher returning *ConflictError.
// User mutators are never hoisted.
func Combine(regs ...*Registry) *Registry {
	top := NewRegistry("")
	producers := make(map[string][]Entry)
	for _, r := range regs {
		for _, e := range r.Entries() {
			if !e.Default {
				continue
			}
			producers[e.Name] = append(producers[e.Name], e)
		}
	}

	for name, entries := range producers {
		if len(entries) == 1 {
			top.Register(entries[0])
			continue
		}
		slices := make([]string, len(entries))
		for i, e := range entries {
			slices[i] = e.Slice
		}
		sort.Strings(slices)
		conflict := &ConflictError{Name: name, Slices: slices}
		top.Register(Entry{
			Descriptor: domain.Descriptor{Name: name, Arity: entries[0].Arity, Default: true},
			Dispatcher: func(any) error { return conflict },
			Producers:  slices,
		})
	}
	return top
}

// Shadowed returns the user mutator names defined by more than one slice,
// mapped to the sorted slice names. A raw untargeted action with such a
// name reaches every one of them.
func Shadowed(regs ...*Registry) map[string][]string {
	owners := make(map[string][]string)
	for _, r := range regs {
		for _, e := range r.Entries() {
			if !e.Default {
				owners[e.Name] = append(owners[e.Name], r.slice)
			}
		}
	}
	out := make(map[string][]string)
	for name, slices := range owners {
		if len(slices) > 1 {
			sort.Strings(slices)
			out[name] = slices
		}
	}
	return out
}
