package runtime

import (
	"fmt"
	"sort"

	"github.com/aretw0/oodux/pkg/domain"
)

// Reducer is the transition function of one named slice.
type Reducer struct {
	Name    string
	Initial any
	Table   *Table
}

// NewReducer creates the reducer of a slice whose initial snapshot is the
// schema default.
func NewReducer(name string, table *Table) *Reducer {
	return &Reducer{Name: name, Initial: table.Schema().Default, Table: table}
}

// Reduce applies a to state. Actions targeted at another slice and unknown
// action types return state unchanged with handled false.
func (r *Reducer) Reduce(state any, a domain.Action) (any, bool, error) {
	if a.Target != "" && a.Target != r.Name {
		return state, false, nil
	}
	return r.Table.Apply(state, a.Type, a.Data)
}

// Combined reduces a keyed tree of slices, each key independently.
type Combined struct {
	reducers []*Reducer
}

// Combine composes reducers. Slice names must be unique; a duplicate is a
// configuration error and panics with domain.ErrDuplicateSlice.
func Combine(reducers ...*Reducer) *Combined {
	seen := make(map[string]bool, len(reducers))
	c := &Combined{reducers: append([]*Reducer(nil), reducers...)}
	for _, r := range c.reducers {
		if seen[r.Name] {
			panic(fmt.Errorf("slice %q: %w", r.Name, domain.ErrDuplicateSlice))
		}
		seen[r.Name] = true
	}
	sort.Slice(c.reducers, func(i, j int) bool { return c.reducers[i].Name < c.reducers[j].Name })
	return c
}

// Names returns the slice names, sorted.
func (c *Combined) Names() []string {
	names := make([]string, len(c.reducers))
	for i, r := range c.reducers {
		names[i] = r.Name
	}
	return names
}

// Initial returns the initial tree.
func (c *Combined) Initial() domain.Tree {
	tree := make(domain.Tree, len(c.reducers))
	for _, r := range c.reducers {
		tree[r.Name] = r.Initial
	}
	return tree
}

// Reduce applies a to every slice of tree. When no slice handles the action
// the same tree is returned. An error from any slice discards the whole
// dispatch and returns the input tree.
func (c *Combined) Reduce(tree domain.Tree, a domain.Action) (domain.Tree, bool, error) {
	var next domain.Tree
	for _, r := range c.reducers {
		out, handled, err := r.Reduce(tree[r.Name], a)
		if err != nil {
			return tree, false, fmt.Errorf("slice %s: %w", r.Name, err)
		}
		if !handled {
			continue
		}
		if next == nil {
			next = make(domain.Tree, len(tree))
			for k, v := range tree {
				next[k] = v
			}
		}
		next[r.Name] = out
	}
	if next == nil {
		return tree, false, nil
	}
	return next, true, nil
}
