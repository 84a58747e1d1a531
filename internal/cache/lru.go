// Package cache provides the small LRU the engine memoizes reports in.
// Entries are keyed by content hash, so a hit is always safe to reuse.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// LRU is a fixed-capacity cache with optional TTL expiry. Safe for
// concurrent use.
type LRU[T any] struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration // zero disables expiry
	items   map[string]*list.Element
	order   *list.List
}

type entry[T any] struct {
	key     string
	value   T
	addedAt time.Time
}

// NewLRU creates a cache holding up to maxSize entries. A zero ttl keeps
// entries until they are evicted by capacity.
func NewLRU[T any](maxSize int, ttl time.Duration) *LRU[T] {
	if maxSize < 1 {
		maxSize = 1
	}
	return &LRU[T]{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]*list.Element),
		order:   list.New(),
	}
}

// Get returns the cached value for key, if present and unexpired.
func (c *LRU[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	el, ok := c.items[key]
	if !ok {
		return zero, false
	}
	e := el.Value.(*entry[T])
	if c.ttl > 0 && time.Since(e.addedAt) > c.ttl {
		c.order.Remove(el)
		delete(c.items, key)
		return zero, false
	}
	c.order.MoveToFront(el)
	return e.value, true
}

// Set stores value under key, evicting the least-recently-used entry
// when full.
func (c *LRU[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*entry[T]).value = value
		el.Value.(*entry[T]).addedAt = time.Now()
		c.order.MoveToFront(el)
		return
	}
	c.items[key] = c.order.PushFront(&entry[T]{key: key, value: value, addedAt: time.Now()})
	if c.order.Len() > c.maxSize {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*entry[T]).key)
	}
}

// Len returns the current entry count.
func (c *LRU[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
