package domain

import (
	"time"
)

// DispatchEvent describes one completed dispatch.
type DispatchEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	Action    Action        `json:"action"`
	Duration  time.Duration `json:"duration"`

	// Revision is the store revision after the dispatch.
	Revision uint64 `json:"revision"`

	// Handled is false when no reducer recognized the action type.
	Handled bool  `json:"handled"`
	Err     error `json:"-"`
}

// LifecycleHooks defines optional callbacks for store observability.
type LifecycleHooks struct {
	OnDispatch func(*DispatchEvent)
}
