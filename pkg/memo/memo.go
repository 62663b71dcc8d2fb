// Package memo implements lazily evaluated derived values whose dependencies
// are discovered from the reads performed during their last evaluation.
//
// A derived value is a Func that reads state through a Reader:
//
//	func (Cart) Getters() memo.Getters {
//		return memo.Getters{
//			"total": func(r memo.Reader) any {
//				return len(memo.Get[[]Item](r, "items"))
//			},
//		}
//	}
//
// The Cache records every key the Func read together with the value it saw.
// The next access compares only those keys against the current snapshot and
// reruns the Func when one of them changed.
package memo

import (
	"sort"
	"sync"

	"github.com/aretw0/oodux/pkg/domain"
	"github.com/aretw0/oodux/pkg/immutable"
)

// Reader gives a derived value access to the fields of a snapshot.
type Reader interface {
	Field(key string) any
}

// Func computes a derived value.
type Func func(Reader) any

// Getters maps derived value names to their evaluators.
type Getters map[string]Func

// Provider is implemented by slice types that declare derived values.
type Provider interface {
	Getters() Getters
}

// Get reads key from r as a T. A missing key or a value of another type
// yields the zero T.
func Get[T any](r Reader, key string) T {
	v, _ := r.Field(key).(T)
	return v
}

// Stats counts cache activity.
type Stats struct {
	Hits       uint64 `json:"hits"`
	Recomputes uint64 `json:"recomputes"`
}

type entry struct {
	used  bool
	value any
	reads map[string]any
}

// Cache owns the memoized results of one slice's derived values.
// It is safe for concurrent use; evaluators run without the lock held.
type Cache struct {
	mu      sync.Mutex
	getters Getters
	entries map[string]*entry
	stats   Stats
}

// NewCache creates a cache for the given evaluators.
func NewCache(getters Getters) *Cache {
	g := make(Getters, len(getters))
	for name, fn := range getters {
		g[name] = fn
	}
	return &Cache{
		getters: g,
		entries: make(map[string]*entry, len(g)),
	}
}

// Names returns the declared derived value names, sorted.
func (c *Cache) Names() []string {
	names := make([]string, 0, len(c.getters))
	for name := range c.getters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether name is a declared derived value.
func (c *Cache) Has(name string) bool {
	_, ok := c.getters[name]
	return ok
}

// Get returns the derived value name for snapshot, recomputing it only when
// it never ran or a field it read last time no longer matches.
func (c *Cache) Get(name string, snapshot any) (any, error) {
	fn, ok := c.getters[name]
	if !ok {
		return nil, domain.ErrUnknownGetter
	}

	c.mu.Lock()
	e := c.entries[name]
	if e != nil && e.used && fresh(e.reads, snapshot) {
		c.stats.Hits++
		v := e.value
		c.mu.Unlock()
		return v, nil
	}
	c.mu.Unlock()

	t := &tracker{src: snapshot, reads: make(map[string]any)}
	v := fn(t)

	c.mu.Lock()
	c.entries[name] = &entry{used: true, value: v, reads: t.reads}
	c.stats.Recomputes++
	c.mu.Unlock()
	return v, nil
}

// Stats returns a copy of the counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Reset drops every cached entry. Counters are kept.
func (c *Cache) Reset() {
	c.mu.Lock()
	c.entries = make(map[string]*entry, len(c.getters))
	c.mu.Unlock()
}

func fresh(reads map[string]any, snapshot any) bool {
	for key, seen := range reads {
		if !immutable.Same(read(snapshot, key), seen) {
			return false
		}
	}
	return true
}

func read(snapshot any, key string) any {
	v, _ := immutable.Field(snapshot, key)
	return v
}

// tracker records every field read during one evaluation.
type tracker struct {
	src   any
	reads map[string]any
}

func (t *tracker) Field(key string) any {
	v := read(t.src, key)
	t.reads[key] = v
	return v
}
