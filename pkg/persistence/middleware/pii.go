package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/oodux/pkg/domain"
	"github.com/aretw0/oodux/pkg/ports"
)

// Mask replaces every masked value.
const Mask = "***"

type piiMiddleware struct {
	next     ports.SnapshotStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks the values of state keys
// matching any of the patterns, at any depth. Masking is one way: a masked
// snapshot restores with the mask as the field value.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.SnapshotStore) ports.SnapshotStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

func (m *piiMiddleware) Save(ctx context.Context, key string, snap *domain.Snapshot) error {
	masked := *snap
	masked.State = m.maskMap(snap.State)
	return m.next.Save(ctx, key, &masked)
}

func (m *piiMiddleware) Load(ctx context.Context, key string) (*domain.Snapshot, error) {
	return m.next.Load(ctx, key)
}

func (m *piiMiddleware) Delete(ctx context.Context, key string) error {
	return m.next.Delete(ctx, key)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

// maskMap returns a masked copy; in is never modified.
func (m *piiMiddleware) maskMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		if m.sensitive(k) {
			out[k] = Mask
			continue
		}
		out[k] = m.mask(v)
	}
	return out
}

func (m *piiMiddleware) mask(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return m.maskMap(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = m.mask(e)
		}
		return out
	}
	return v
}

func (m *piiMiddleware) sensitive(key string) bool {
	for _, p := range m.patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}
