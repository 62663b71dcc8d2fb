package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/oodux/pkg/adapters/redis"
	"github.com/aretw0/oodux/pkg/domain"
	"github.com/aretw0/oodux/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, opts ...redis.Option) (*redis.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := redis.NewFromClient(client, opts...)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisStore_Contract(t *testing.T) {
	store, _ := newStore(t)
	ports.RunSnapshotStoreContract(t, store)
}

func TestRedisStore_RoundTrip(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()
	require.NoError(t, store.Ping(ctx))

	saved := &domain.Snapshot{
		Revision: 9,
		SavedAt:  time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		State:    map[string]any{"user": map[string]any{"id": 3, "data": []any{"x"}}},
	}
	require.NoError(t, store.Save(ctx, "app", saved))

	loaded, err := store.Load(ctx, "app")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"user": map[string]any{"id": 3.0, "data": []any{"x"}}}, loaded.State)
	assert.EqualValues(t, 9, loaded.Revision)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	store, mr := newStore(t, redis.WithTTL(1*time.Second))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "short", &domain.Snapshot{State: map[string]any{"foo": "bar"}}))

	keys, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, keys, "short")

	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, "short")
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)

	// The index is pruned against the wall clock, not miniredis time.
	time.Sleep(1200 * time.Millisecond)

	keys, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestRedisStore_Prefix(t *testing.T) {
	store, mr := newStore(t, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "mine", &domain.Snapshot{State: map[string]any{}}))

	assert.True(t, mr.Exists("custom:app:mine"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "Expected index with custom prefix to exist")

	keys, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, keys, "mine")
}

func TestNewFromURL(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := redis.NewFromURL("redis://" + mr.Addr() + "/0")
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Ping(context.Background()))

	_, err = redis.NewFromURL("::bad")
	assert.Error(t, err)
}
