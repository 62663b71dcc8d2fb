// Package memory provides the in-memory adapters of oodux: the default
// store backend (Store) and a snapshot store (SnapshotStore) for tests and
// single-process persistence.
package memory
