package vector

import (
	"container/list"
	"sync"
)

// QueryCache is an LRU cache of vectorized query text. One cache belongs to one
// fitted model, so entries never outlive the vocabulary they were built against.
// A nil *QueryCache or zero capacity disables caching.
type QueryCache struct {
	capacity int
	cache    map[string]*list.Element
	lru      *list.List
	mu       sync.Mutex
}

type cacheEntry struct {
	key   string
	value SparseVector
}

// NewQueryCache creates a cache holding up to capacity vectors. It returns nil when capacity <= 0.
func NewQueryCache(capacity int) *QueryCache {
	if capacity <= 0 {
		return nil
	}
	return &QueryCache{
		capacity: capacity,
		cache:    make(map[string]*list.Element),
		lru:      list.New(),
	}
}

// Get returns the cached vector for key if present.
func (c *QueryCache) Get(key string) (SparseVector, bool) {
	if c == nil {
		return SparseVector{}, false
	}
	// MoveToFront mutates the list, so reads take the write lock.
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.cache[key]; ok {
		c.lru.MoveToFront(elem)
		return elem.Value.(*cacheEntry).value, true
	}
	return SparseVector{}, false
}

// Set stores the vector for key, evicting the least recently used entry at capacity.
func (c *QueryCache) Set(key string, value SparseVector) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.cache[key]; ok {
		c.lru.MoveToFront(elem)
		elem.Value.(*cacheEntry).value = value
		return
	}

	elem := c.lru.PushFront(&cacheEntry{key: key, value: value})
	c.cache[key] = elem

	if c.lru.Len() > c.capacity {
		if oldest := c.lru.Back(); oldest != nil {
			c.lru.Remove(oldest)
			delete(c.cache, oldest.Value.(*cacheEntry).key)
		}
	}
}

// Len returns the number of cached entries.
func (c *QueryCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
