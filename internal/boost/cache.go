// Package boost holds the score-rewriting helpers of boost steps: the boost function
// table, compiled boost expressions and the term-boost result cache.
package boost

import (
	"sync"

	"github.com/PSeitz/veloci-sub001/model"
)

// DefaultCacheSize is the number of term-boost results kept when no size is configured.
const DefaultCacheSize = 1000

// Cache keeps the anchor-level hits of term-boost subqueries so that repeated requests
// do not recompute them. It is owned by the caller of the executor. Indexes are immutable,
// so an index and its cache are created and dropped together.
type Cache struct {
	mu      sync.RWMutex
	entries map[string][]model.Hit
	maxSize int
}

// NewCache creates a cache bounded to maxSize entries.
func NewCache(maxSize int) *Cache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}
	return &Cache{
		entries: make(map[string][]model.Hit),
		maxSize: maxSize,
	}
}

// GetOrCompute returns the cached hits for key, computing and storing them on a miss.
// Two concurrent misses may both compute; the first stored value wins.
// Cached slices are shared and must be treated as read-only.
func (c *Cache) GetOrCompute(key string, compute func() ([]model.Hit, error)) ([]model.Hit, error) {
	c.mu.RLock()
	if hits, exists := c.entries[key]; exists {
		c.mu.RUnlock()
		return hits, nil
	}
	c.mu.RUnlock()

	hits, err := compute()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, exists := c.entries[key]; exists {
		return cached, nil
	}
	// Once full, results are served but no longer retained
	if len(c.entries) < c.maxSize {
		c.entries[key] = hits
	}
	return hits, nil
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
