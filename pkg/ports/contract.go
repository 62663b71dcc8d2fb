package ports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/oodux/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSnapshotStoreContract runs a suite of tests to verify that a
// SnapshotStore implementation adheres to the defined interface contract.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	ctx := context.Background()
	key := "contract-test-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		snap := &domain.Snapshot{
			Revision: 3,
			SavedAt:  time.Now().UTC().Truncate(time.Second),
			State: map[string]any{
				"counter": 4,
				"items":   []any{"a", "b"},
			},
		}

		err := store.Save(ctx, key, snap)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, uint64(3), loaded.Revision)
		assert.True(t, snap.SavedAt.Equal(loaded.SavedAt))
		// JSON-backed stores turn numbers into float64; only check presence.
		assert.NotNil(t, loaded.State["counter"])
		assert.Len(t, loaded.State["items"], 2)
	})

	t.Run("Saved snapshot is isolated", func(t *testing.T) {
		snap := &domain.Snapshot{State: map[string]any{"name": "before"}}
		require.NoError(t, store.Save(ctx, key, snap))
		snap.State["name"] = "after"

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "before", loaded.State["name"])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+key)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, key, &domain.Snapshot{State: map[string]any{}})
		require.NoError(t, err)

		err = store.Delete(ctx, key)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, key)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound, "Load after Delete should return ErrSnapshotNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := key + "-1"
		id2 := key + "-2"
		_ = store.Save(ctx, id1, &domain.Snapshot{State: map[string]any{}})
		_ = store.Save(ctx, id2, &domain.Snapshot{State: map[string]any{}})

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		keys, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, keys, id1)
		assert.Contains(t, keys, id2)
	})
}

// ErrContractRejected is the error the contract transition returns for
// the "reject" action.
var ErrContractRejected = errors.New("rejected by contract transition")

// ContractTransition is the transition used by RunBackendContract: "add"
// adds its int payload, "reject" fails, anything else is unhandled.
func ContractTransition(state int, a domain.Action) (int, bool, error) {
	switch a.Type {
	case "add":
		n, _ := a.Data.(int)
		return state + n, true, nil
	case "reject":
		return state, false, ErrContractRejected
	}
	return state, false, nil
}

// RunBackendContract verifies that backends created by newBackend apply
// ContractTransition in dispatch order and honour its no-op and error paths.
func RunBackendContract(t *testing.T, newBackend func(transition Transition[int], initial int) Backend[int]) {
	t.Run("Initial State", func(t *testing.T) {
		b := newBackend(ContractTransition, 7)
		assert.Equal(t, 7, b.CurrentState())
	})

	t.Run("Dispatch In Order", func(t *testing.T) {
		b := newBackend(ContractTransition, 0)
		require.NoError(t, b.Dispatch(domain.Action{Type: "add", Data: 2}))
		require.NoError(t, b.Dispatch(domain.Action{Type: "add", Data: 2}))
		assert.Equal(t, 4, b.CurrentState())
	})

	t.Run("Unknown Action Is No-Op", func(t *testing.T) {
		b := newBackend(ContractTransition, 4)
		require.NoError(t, b.Dispatch(domain.Action{Type: "noop"}))
		assert.Equal(t, 4, b.CurrentState())
	})

	t.Run("Error Keeps State", func(t *testing.T) {
		b := newBackend(ContractTransition, 4)
		err := b.Dispatch(domain.Action{Type: "reject"})
		assert.ErrorIs(t, err, ErrContractRejected)
		assert.Equal(t, 4, b.CurrentState())
	})

	t.Run("Subscribers", func(t *testing.T) {
		b := newBackend(ContractTransition, 0)
		sub, ok := b.(Subscribable[int])
		if !ok {
			t.Skip("backend does not publish changes")
		}
		var seen [][2]int
		unsubscribe := sub.Subscribe(func(prev, next int) {
			seen = append(seen, [2]int{prev, next})
		})
		require.NoError(t, b.Dispatch(domain.Action{Type: "add", Data: 1}))
		require.NoError(t, b.Dispatch(domain.Action{Type: "noop"}))
		unsubscribe()
		require.NoError(t, b.Dispatch(domain.Action{Type: "add", Data: 1}))
		assert.Equal(t, [][2]int{{0, 1}}, seen, "only handled dispatches notify, and only while subscribed")
	})
}
