package ports

import "github.com/aretw0/oodux/pkg/domain"

// Transition is the pure transition function of a store. It must be total:
// an unrecognized action returns state unchanged with handled false. An
// error discards the dispatch.
type Transition[T any] func(state T, action domain.Action) (next T, handled bool, err error)

// Backend is the unidirectional store an oodux slice runs in.
type Backend[T any] interface {
	// Dispatch applies the transition to the current state and installs the result.
	Dispatch(action domain.Action) error

	// CurrentState returns the latest installed snapshot.
	CurrentState() T
}

// Listener is called after a dispatch changed the state.
type Listener[T any] func(prev, next T)

// Subscribable is implemented by backends that publish state changes.
type Subscribable[T any] interface {
	// Subscribe registers l and returns a function that removes it.
	Subscribe(l Listener[T]) (unsubscribe func())
}
