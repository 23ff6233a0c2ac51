package embed

import "sync"

// DefaultCacheCapacity is the default maximum number of cached embeddings.
const DefaultCacheCapacity = 1000

// Cache memoizes text to mean-vector computations. It is bounded by a
// maximum entry count; when an insert would exceed the cap the entire cache
// is cleared first. That is deliberately not an LRU: the original engine
// shipped with whole-cache eviction and callers depend on the resulting
// behavior (see DESIGN.md for the open question). Entries are never
// individually invalidated.
//
// The mutex keeps the cache safe under the worker deployment, where the
// engine goroutine is the only logical writer but may race a caller reading
// stats.
type Cache struct {
	mu       sync.Mutex
	entries  map[string][]float32
	capacity int
}

// NewCache creates a cache with the given capacity.
// A capacity < 1 falls back to DefaultCacheCapacity.
func NewCache(capacity int) *Cache {
	if capacity < 1 {
		capacity = DefaultCacheCapacity
	}
	return &Cache{
		entries:  make(map[string][]float32),
		capacity: capacity,
	}
}

// Get returns the cached vector for text, if present.
func (c *Cache) Get(text string) ([]float32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[text]
	return v, ok
}

// Put stores a vector for text. If the insert would push the entry count
// past the capacity, the whole cache is cleared before inserting.
func (c *Cache) Put(text string, vector []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[text]; !exists && len(c.entries) >= c.capacity {
		c.entries = make(map[string][]float32)
	}
	c.entries[text] = vector
}

// Len returns the current entry count.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Capacity returns the configured maximum entry count.
func (c *Cache) Capacity() int {
	return c.capacity
}
