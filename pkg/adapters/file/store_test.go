package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/oodux/pkg/adapters/file"
	"github.com/aretw0/oodux/pkg/domain"
	"github.com/aretw0/oodux/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	ports.RunSnapshotStoreContract(t, file.New(t.TempDir()))
}

func TestFileStore_YAMLContract(t *testing.T) {
	ports.RunSnapshotStoreContract(t, file.New(t.TempDir(), file.WithFormat(file.YAML)))
}

func TestFileStore_YAMLOnDisk(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir, file.WithFormat(file.YAML))
	ctx := context.Background()

	savedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(ctx, "cart", &domain.Snapshot{
		Revision: 2,
		SavedAt:  savedAt,
		State:    map[string]any{"items": []any{"apple"}, "total": 3},
	}))

	raw, err := os.ReadFile(filepath.Join(dir, "cart.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "revision: 2")
	assert.Contains(t, string(raw), "- apple")

	snap, err := store.Load(ctx, "cart")
	require.NoError(t, err)
	assert.True(t, savedAt.Equal(snap.SavedAt))
	assert.Equal(t, 3, snap.State["total"])
	assert.Equal(t, []any{"apple"}, snap.State["items"])
}

func TestFileStore_InvalidKey(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	assert.Error(t, store.Save(ctx, "../escape", &domain.Snapshot{}))
	_, err := store.Load(ctx, "")
	assert.Error(t, err)
	assert.Error(t, store.Delete(ctx, "a/b"))
}

func TestFileStore_ListMissingDir(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "missing"))
	keys, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, keys)
}
