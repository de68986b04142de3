package planecache

import (
	"sort"
	"sync"
	"time"

	"github.com/five82/fsefeed/internal/records"
)

// State is the metadata kept for one bucket.
type State struct {
	FetchedAt time.Time // time of the last successful Put
	Valid     bool
	Size      int
}

type bucket struct {
	rows  []records.Airplane
	state State
}

// Cache holds one bucket of aircraft per key. The zero value is ready to use.
type Cache struct {
	mu      sync.RWMutex
	buckets map[string]*bucket
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{buckets: make(map[string]*bucket)}
}

// Get returns a copy of the bucket for key. The boolean is false when key
// has never been populated or was invalidated.
func (c *Cache) Get(key string) ([]records.Airplane, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	b, ok := c.buckets[key]
	if !ok {
		return nil, false
	}
	return clonePlanes(b.rows), true
}

// Put replaces the whole bucket for key with rows and returns how many
// rows were stored. Repeated registrations keep their first occurrence.
func (c *Cache) Put(key string, rows []records.Airplane) int {
	deduped := dedupe(rows)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.buckets == nil {
		c.buckets = make(map[string]*bucket)
	}
	c.buckets[key] = &bucket{
		rows: deduped,
		state: State{
			FetchedAt: time.Now(),
			Valid:     true,
			Size:      len(deduped),
		},
	}
	return len(deduped)
}

// Invalidate drops the bucket for key. Other buckets are untouched.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.buckets, key)
}

// InvalidateAll drops every bucket.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buckets = make(map[string]*bucket)
}

// State reports the metadata for key.
func (c *Cache) State(key string) (State, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	b, ok := c.buckets[key]
	if !ok {
		return State{}, false
	}
	return b.state, true
}

// Keys returns the populated keys in sorted order.
func (c *Cache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.buckets))
	for k := range c.buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of populated buckets.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.buckets)
}

func dedupe(rows []records.Airplane) []records.Airplane {
	out := make([]records.Airplane, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		if _, dup := seen[r.Registration]; dup {
			continue
		}
		seen[r.Registration] = struct{}{}
		out = append(out, r)
	}
	return out
}

func clonePlanes(rows []records.Airplane) []records.Airplane {
	dup := make([]records.Airplane, len(rows))
	copy(dup, rows)
	return dup
}
