package ports

import (
	"context"

	"github.com/aretw0/oodux/pkg/domain"
)

// SnapshotStore defines the interface for persisting state snapshots.
// Persistence lives outside the store core; adapters consume it through a
// store subscription.
type SnapshotStore interface {
	// Save persists the snapshot under key.
	Save(ctx context.Context, key string, snap *domain.Snapshot) error

	// Load retrieves the snapshot stored under key.
	// Returns domain.ErrSnapshotNotFound if the key does not exist.
	Load(ctx context.Context, key string) (*domain.Snapshot, error)

	// Delete removes the snapshot stored under key.
	Delete(ctx context.Context, key string) error

	// List returns every stored key.
	List(ctx context.Context) ([]string, error)
}
