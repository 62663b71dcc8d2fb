package memory_test

import (
	"sync"
	"testing"

	"github.com/aretw0/oodux/pkg/adapters/memory"
	"github.com/aretw0/oodux/pkg/domain"
	"github.com/aretw0/oodux/pkg/middleware"
	"github.com/aretw0/oodux/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_BackendContract(t *testing.T) {
	ports.RunBackendContract(t, func(tr ports.Transition[int], initial int) ports.Backend[int] {
		return memory.NewStore(tr, initial)
	})
}

func TestMemorySnapshotStore_Contract(t *testing.T) {
	ports.RunSnapshotStoreContract(t, memory.NewSnapshotStore())
}

func TestStore_RevisionAndHooks(t *testing.T) {
	var events []domain.DispatchEvent
	s := memory.NewStore(ports.ContractTransition, 0, memory.WithHooks(domain.LifecycleHooks{
		OnDispatch: func(e *domain.DispatchEvent) { events = append(events, *e) },
	}))

	require.NoError(t, s.Dispatch(domain.Action{Type: "add", Data: 1}))
	require.NoError(t, s.Dispatch(domain.Action{Type: "noop"}))
	assert.ErrorIs(t, s.Dispatch(domain.Action{Type: "reject"}), ports.ErrContractRejected)

	assert.Equal(t, uint64(1), s.Revision())
	require.Len(t, events, 3)
	assert.True(t, events[0].Handled)
	assert.Equal(t, uint64(1), events[0].Revision)
	assert.False(t, events[1].Handled)
	assert.ErrorIs(t, events[2].Err, ports.ErrContractRejected)
}

func TestStore_Middleware(t *testing.T) {
	blocked := 0
	s := memory.NewStore(ports.ContractTransition, 0, memory.WithMiddleware(
		middleware.Guard(func(a domain.Action) error {
			if n, _ := a.Data.(int); n < 0 {
				blocked++
				return domain.ErrInvalidPayload
			}
			return nil
		}),
	))

	assert.ErrorIs(t, s.Dispatch(domain.Action{Type: "add", Data: -5}), domain.ErrInvalidPayload)
	require.NoError(t, s.Dispatch(domain.Action{Type: "add", Data: 5}))
	assert.Equal(t, 5, s.CurrentState())
	assert.Equal(t, 1, blocked)
}

func TestStore_ListenerMayDispatch(t *testing.T) {
	s := memory.NewStore(ports.ContractTransition, 0)
	s.Subscribe(func(prev, next int) {
		if next == 1 {
			require.NoError(t, s.Dispatch(domain.Action{Type: "add", Data: 10}))
		}
	})
	require.NoError(t, s.Dispatch(domain.Action{Type: "add", Data: 1}))
	assert.Equal(t, 11, s.CurrentState())
}

func TestStore_Replace(t *testing.T) {
	s := memory.NewStore(ports.ContractTransition, 0)
	var got []int
	unsubscribe := s.Subscribe(func(_, next int) { got = append(got, next) })
	defer unsubscribe()

	s.Replace(42)
	assert.Equal(t, 42, s.CurrentState())
	assert.Equal(t, []int{42}, got)
}

func TestStore_ConcurrentDispatch(t *testing.T) {
	s := memory.NewStore(ports.ContractTransition, 0)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Dispatch(domain.Action{Type: "add", Data: 1})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, s.CurrentState())
	assert.Equal(t, uint64(50), s.Revision())
}
