package http

import (
	"github.com/aretw0/oodux"
	"github.com/aretw0/oodux/pkg/domain"
)

// Store is the view of a store the devtools server drives.
type Store interface {
	State() any
	Revision() uint64
	Descriptors() []domain.Descriptor
	Dispatch(name string, data any) error
	DispatchAction(a domain.Action) error
	Watch(fn func(prev, next any)) (unsubscribe func())
}

type rootStore struct {
	root *oodux.Root
}

// FromRoot exposes a combined store. Dispatch goes through the root
// registry, so conflicting names are rejected.
func FromRoot(root *oodux.Root) Store {
	return rootStore{root: root}
}

func (s rootStore) State() any                           { return s.root.State() }
func (s rootStore) Revision() uint64                     { return s.root.Revision() }
func (s rootStore) Descriptors() []domain.Descriptor     { return s.root.Descriptors() }
func (s rootStore) Dispatch(name string, data any) error { return s.root.Dispatch(name, data) }
func (s rootStore) DispatchAction(a domain.Action) error { return s.root.DispatchAction(a) }

func (s rootStore) Watch(fn func(prev, next any)) func() {
	return s.root.Subscribe(func(prev, next domain.Tree) { fn(prev, next) })
}

type sliceStore[S any] struct {
	store *oodux.Store[S]
}

// FromStore exposes a standalone slice store.
func FromStore[S any](store *oodux.Store[S]) Store {
	return sliceStore[S]{store: store}
}

func (s sliceStore[S]) State() any                           { return s.store.State() }
func (s sliceStore[S]) Revision() uint64                     { return s.store.Revision() }
func (s sliceStore[S]) Descriptors() []domain.Descriptor     { return s.store.Slice().Descriptors() }
func (s sliceStore[S]) Dispatch(name string, data any) error { return s.store.Dispatch(name, data) }
func (s sliceStore[S]) DispatchAction(a domain.Action) error { return s.store.DispatchAction(a) }

func (s sliceStore[S]) Watch(fn func(prev, next any)) func() {
	return s.store.Subscribe(func(prev, next S) { fn(prev, next) })
}
