package domain

import "time"

// Snapshot is the persisted form of a store state. State holds the
// JSON-normalized snapshot: a slice's fields by key, or a combined tree by
// slice name.
type Snapshot struct {
	Revision uint64         `json:"revision" yaml:"revision"`
	SavedAt  time.Time      `json:"saved_at" yaml:"saved_at"`
	State    map[string]any `json:"state" yaml:"state"`
}
