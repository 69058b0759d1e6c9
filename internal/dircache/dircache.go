// Package dircache implements the Directory Cache (C2): a bounded LRU of
// directory listings keyed by (canonical path, show-hidden), with
// per-entry TTL and explicit prefix invalidation after mutations.
package dircache

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/go-nc/nc/internal/fsadapter"
)

// DefaultMaxEntries and DefaultTTL match the defaults spec.md §4.2
// prescribes.
const (
	DefaultMaxEntries = 100
	DefaultTTL        = 60 * time.Second
)

// Key identifies one cached listing.
type Key struct {
	Path       string
	ShowHidden bool
}

type entry struct {
	listing    *fsadapter.Listing
	insertedAt time.Time
}

// Cache is the bounded, TTL-aware directory listing cache.
type Cache struct {
	mu      sync.Mutex
	lru     *lru.Cache
	ttl     time.Duration
	enabled bool
	now     func() time.Time
}

// New constructs a Cache. maxEntries <= 0 uses DefaultMaxEntries; ttl <= 0
// uses DefaultTTL. enabled=false makes every Get a permanent miss (Put is
// still accepted, harmlessly, so callers don't need to branch).
func New(maxEntries int, ttl time.Duration, enabled bool) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	l, err := lru.New(maxEntries)
	if err != nil {
		// lru.New only errors on size <= 0, already guarded above.
		panic(err)
	}
	return &Cache{lru: l, ttl: ttl, enabled: enabled, now: time.Now}
}

// Get returns the cached listing for key, or (nil, false) on a miss —
// absent, evicted, or past its TTL. An expired entry is evicted on read.
func (c *Cache) Get(key Key) (*fsadapter.Listing, bool) {
	if !c.enabled {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	e := v.(entry)
	if c.now().Sub(e.insertedAt) > c.ttl {
		c.lru.Remove(key)
		return nil, false
	}
	return e.listing, true
}

// Put stores listing under key, evicting the least-recently-used entry if
// the cache is at capacity.
func (c *Cache) Put(key Key, listing *fsadapter.Listing) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(key, entry{listing: listing, insertedAt: c.now()})
}

// Invalidate removes every cached entry whose path is exactly dir or a
// subdirectory of dir (both show-hidden variants), per spec.md §4.2. This
// is the only path by which mutations the process itself performs are
// guaranteed not to be served stale.
func (c *Cache) Invalidate(dir string) {
	dir = filepath.Clean(dir)
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, rawKey := range c.lru.Keys() {
		key := rawKey.(Key)
		if isSameOrBelow(dir, key.Path) {
			c.lru.Remove(rawKey)
		}
	}
}

// isSameOrBelow reports whether candidate is dir itself or nested under it.
func isSameOrBelow(dir, candidate string) bool {
	dir = filepath.Clean(dir)
	candidate = filepath.Clean(candidate)
	if dir == candidate {
		return true
	}
	prefix := dir
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(candidate, prefix)
}

// Clear empties the cache entirely (used on a global "forced refresh all"
// or when cache settings change at runtime).
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
}

// SetEnabled toggles the cache live (config reload), without losing
// already-cached entries — Get stops serving them while disabled; Put
// still stores new entries.
func (c *Cache) SetEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = enabled
}

// Len reports the number of entries currently cached (for diagnostics).
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
