package domain

import "errors"

// Configuration errors. They are raised as panics at wiring time and never
// caught internally.
var (
	// ErrAlreadyInitialized is raised when a slice or root registry is wired twice.
	ErrAlreadyInitialized = errors.New("store has already been initialized")

	// ErrArityExceeded is raised when a mutator takes more than one argument.
	ErrArityExceeded = errors.New("mutator arity exceeded")

	// ErrAbstractSlice is raised when the wired type is not a concrete struct.
	ErrAbstractSlice = errors.New("slice type must be a concrete struct")
)

// ErrConflict is returned by a top-level dispatcher whose action name is
// produced by the default mutators of more than one slice.
var ErrConflict = errors.New("conflicting default action")

// ErrUnknownAction is returned when a dispatcher is requested for a name that
// was never registered.
var ErrUnknownAction = errors.New("unknown action")

// ErrInvalidPayload is returned when an action payload cannot be applied to
// the target field or method argument.
var ErrInvalidPayload = errors.New("invalid action payload")

// ErrUnknownGetter is returned when a derived value is not declared by the slice.
var ErrUnknownGetter = errors.New("unknown derived value")

// ErrNotInitialized is returned when dispatching through a slice that is not
// bound to a store yet.
var ErrNotInitialized = errors.New("store is not initialized")

// ErrDuplicateSlice is raised when two combined slices share a name.
var ErrDuplicateSlice = errors.New("duplicate slice name")

// ErrSnapshotNotFound is returned by snapshot stores for unknown keys.
var ErrSnapshotNotFound = errors.New("snapshot not found")
