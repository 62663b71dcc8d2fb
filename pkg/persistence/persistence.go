// Package persistence saves store snapshots to a ports.SnapshotStore and
// restores them. It works through store subscriptions and never touches
// the store core.
package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/aretw0/oodux/internal/logging"
	"github.com/aretw0/oodux/pkg/domain"
	"github.com/aretw0/oodux/pkg/immutable"
	"github.com/aretw0/oodux/pkg/ports"
)

// Source is a store whose snapshots can be persisted.
type Source[T any] interface {
	ports.Subscribable[T]
	Revision() uint64
}

// Persister writes snapshots under a fixed key.
type Persister struct {
	store   ports.SnapshotStore
	key     string
	logger  *slog.Logger
	timeout time.Duration
	onError func(error)
	now     func() time.Time
}

// Option configures a Persister.
type Option func(*Persister)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Persister) {
		p.logger = logger
	}
}

// WithTimeout bounds every save triggered by a subscription.
// Defaults to 5 seconds.
func WithTimeout(d time.Duration) Option {
	return func(p *Persister) {
		p.timeout = d
	}
}

// WithErrorHandler receives the errors of subscription driven saves, which
// otherwise are only logged.
func WithErrorHandler(fn func(error)) Option {
	return func(p *Persister) {
		p.onError = fn
	}
}

// New creates a Persister saving to store under key.
func New(store ports.SnapshotStore, key string, opts ...Option) *Persister {
	p := &Persister{
		store:   store,
		key:     key,
		logger:  logging.NewNop(),
		timeout: 5 * time.Second,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Key returns the snapshot key.
func (p *Persister) Key() string {
	return p.key
}

// Save encodes state and stores it with revision.
func (p *Persister) Save(ctx context.Context, state any, revision uint64) error {
	encoded, err := Encode(state)
	if err != nil {
		return err
	}
	snap := &domain.Snapshot{
		Revision: revision,
		SavedAt:  p.now().UTC(),
		State:    encoded,
	}
	if err := p.store.Save(ctx, p.key, snap); err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", p.key, err)
	}
	p.logger.Debug("snapshot saved", "key", p.key, "revision", revision)
	return nil
}

// Load returns the stored snapshot.
func (p *Persister) Load(ctx context.Context) (*domain.Snapshot, error) {
	return p.store.Load(ctx, p.key)
}

// Attach saves a snapshot after every change of src and returns a function
// that stops it.
func Attach[T any](p *Persister, src Source[T]) (detach func()) {
	return src.Subscribe(func(_, next T) {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()
		if err := p.Save(ctx, next, src.Revision()); err != nil {
			p.logger.Warn("snapshot save failed", "key", p.key, "error", err)
			if p.onError != nil {
				p.onError(err)
			}
		}
	})
}

// Restore loads the snapshot under key and decodes it as an S.
func Restore[S any](ctx context.Context, store ports.SnapshotStore, key string) (S, *domain.Snapshot, error) {
	var zero S
	snap, err := store.Load(ctx, key)
	if err != nil {
		return zero, nil, err
	}
	s, err := immutable.From[S](snap.State)
	if err != nil {
		return zero, nil, fmt.Errorf("snapshot %s: %w", key, err)
	}
	return s, snap, nil
}

// RestoreTree loads a combined snapshot. types maps every slice name to its
// state type; slices missing from the snapshot get their default instance
// and unknown names are dropped.
func RestoreTree(ctx context.Context, store ports.SnapshotStore, key string, types map[string]reflect.Type) (domain.Tree, *domain.Snapshot, error) {
	snap, err := store.Load(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	tree, err := DecodeTree(snap.State, types)
	if err != nil {
		return nil, nil, fmt.Errorf("snapshot %s: %w", key, err)
	}
	return tree, snap, nil
}

// DecodeTree rebuilds typed slice snapshots from an encoded tree.
func DecodeTree(state map[string]any, types map[string]reflect.Type) (domain.Tree, error) {
	tree := make(domain.Tree, len(types))
	for name, t := range types {
		raw, _ := state[name].(map[string]any)
		v, err := immutable.FromOf(t, raw)
		if err != nil {
			return nil, fmt.Errorf("slice %s: %w", name, err)
		}
		tree[name] = v
	}
	return tree, nil
}

// Encode turns a slice snapshot or a combined tree into its JSON-shaped
// form keyed by state keys.
func Encode(state any) (map[string]any, error) {
	v := reflect.ValueOf(state)
	switch {
	case v.Kind() == reflect.Struct:
		out := make(map[string]any)
		for _, key := range immutable.Keys(v.Type()) {
			f, _ := immutable.Field(state, key)
			n, err := normalize(f)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", key, err)
			}
			out[key] = n
		}
		return out, nil
	case v.Kind() == reflect.Map && v.Type().Key().Kind() == reflect.String:
		out := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			name, member := iter.Key().String(), iter.Value().Interface()
			var (
				n   any
				err error
			)
			if reflect.ValueOf(member).Kind() == reflect.Struct {
				n, err = Encode(member)
			} else {
				n, err = normalize(member)
			}
			if err != nil {
				return nil, fmt.Errorf("slice %s: %w", name, err)
			}
			out[name] = n
		}
		return out, nil
	}
	return nil, fmt.Errorf("cannot encode %T: %w", state, domain.ErrAbstractSlice)
}

func normalize(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
