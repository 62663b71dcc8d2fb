package ports_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/aretw0/oodux/pkg/domain"
	"github.com/aretw0/oodux/pkg/ports"
)

// MockStore is a JSON round-tripping implementation of SnapshotStore for
// testing purposes.
type MockStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMockStore() *MockStore {
	return &MockStore{data: make(map[string][]byte)}
}

func (m *MockStore) Save(_ context.Context, key string, snap *domain.Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = raw
	return nil
}

func (m *MockStore) Load(_ context.Context, key string) (*domain.Snapshot, error) {
	m.mu.Lock()
	raw, ok := m.data[key]
	m.mu.Unlock()
	if !ok {
		return nil, domain.ErrSnapshotNotFound
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (m *MockStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MockStore) List(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	return keys, nil
}

func TestSnapshotStore_Contract(t *testing.T) {
	ports.RunSnapshotStoreContract(t, NewMockStore())
}

// naiveBackend is the smallest Backend: no locking, no listeners.
type naiveBackend struct {
	state      int
	transition ports.Transition[int]
}

func (b *naiveBackend) Dispatch(a domain.Action) error {
	next, _, err := b.transition(b.state, a)
	if err != nil {
		return err
	}
	b.state = next
	return nil
}

func (b *naiveBackend) CurrentState() int { return b.state }

func TestBackend_Contract(t *testing.T) {
	ports.RunBackendContract(t, func(tr ports.Transition[int], initial int) ports.Backend[int] {
		return &naiveBackend{state: initial, transition: tr}
	})
}
