package cache

import (
	"container/list"
	"sync"
	"sync/atomic"
)

// LRU is a byte-bounded least-recently-used cache of immutable byte
// blobs keyed by name. Returned slices must be treated as read-only.
//
// Thread-safe.
type LRU struct {
	mu        sync.Mutex
	capacity  int64
	size      int64
	items     map[string]*list.Element
	evictList *list.List

	hits   atomic.Int64
	misses atomic.Int64
}

type entry struct {
	key   string
	value []byte
}

// NewLRU creates a cache holding at most capacity bytes of values.
func NewLRU(capacity int64) *LRU {
	return &LRU{
		capacity:  capacity,
		items:     make(map[string]*list.Element),
		evictList: list.New(),
	}
}

// Get returns a cached value. ok=false if missing.
func (c *LRU) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		c.hits.Add(1)
		c.evictList.MoveToFront(ent)
		return ent.Value.(*entry).value, true
	}

	c.misses.Add(1)
	return nil, false
}

// Set caches a value, evicting old entries as needed. Values larger
// than the capacity are not cached.
func (c *LRU) Set(key string, b []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if int64(len(b)) > c.capacity {
		return
	}

	if ent, ok := c.items[key]; ok {
		c.evictList.MoveToFront(ent)
		c.size += int64(len(b)) - int64(len(ent.Value.(*entry).value))
		ent.Value.(*entry).value = b
		c.evict()
		return
	}

	ent := c.evictList.PushFront(&entry{key: key, value: b})
	c.items[key] = ent
	c.size += int64(len(b))
	c.evict()
}

// Invalidate removes entries matching the predicate.
func (c *LRU) Invalidate(predicate func(key string) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, ent := range c.items {
		if predicate(key) {
			c.removeElement(ent)
		}
	}
}

// Stats returns hit and miss counters.
func (c *LRU) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Len returns the number of cached entries.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.items)
}

// evict removes entries from the back until size fits capacity.
// Caller must hold c.mu.
func (c *LRU) evict() {
	for c.size > c.capacity {
		ent := c.evictList.Back()
		if ent == nil {
			return
		}
		c.removeElement(ent)
	}
}

// removeElement removes an element. Caller must hold c.mu.
func (c *LRU) removeElement(ent *list.Element) {
	c.evictList.Remove(ent)
	e := ent.Value.(*entry)
	delete(c.items, e.key)
	c.size -= int64(len(e.value))
}
