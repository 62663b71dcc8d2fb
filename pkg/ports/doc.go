/*
Package ports defines the driven ports (interfaces) of the oodux store.

These interfaces decouple the reflected slices from the machinery that holds
their state, so the same slices run on the in-memory backend or on any other
implementation, and snapshots can be persisted to any storage.

# Key Interfaces

  - Backend: holds the current state and applies a Transition per dispatched action.
  - Subscribable: notifies listeners after every state change.
  - SnapshotStore: persists and loads state snapshots (memory, Redis).
*/
package ports
