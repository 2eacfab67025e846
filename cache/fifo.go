package cache

import (
	"sync"

	"github.com/polycache/polycache/internal/util"
)

// fifoNode is an element of the singly linked insertion queue.
// FIFO never relocates nodes, so a single forward link suffices.
type fifoNode[K comparable, V any] struct {
	key  K
	val  V
	next *fifoNode[K, V]
}

// FIFO is a fixed-capacity cache that evicts entries in insertion order.
// Access (Get, Contains) never affects a key's position: the head of the
// queue is always the oldest insertion, and updating an existing key's
// value does not move it.
type FIFO[K comparable, V any] struct {
	// ---- guarded by mu ----
	mu   sync.RWMutex
	m    map[K]*fifoNode[K, V]
	head *fifoNode[K, V] // oldest insertion
	tail *fifoNode[K, V] // newest insertion
	cap  int
	opt  Options[K, V]

	_      util.CacheLinePad
	hits   util.PaddedAtomicUint64
	misses util.PaddedAtomicUint64
	evicts util.PaddedAtomicUint64
}

// NewFIFO constructs a FIFO engine with the provided Options.
// It fails with ErrInvalidCapacity if opt.Capacity is not positive.
func NewFIFO[K comparable, V any](opt Options[K, V]) (*FIFO[K, V], error) {
	if err := opt.validate(); err != nil {
		return nil, err
	}
	return &FIFO[K, V]{
		m:   make(map[K]*fifoNode[K, V], opt.Capacity),
		cap: opt.Capacity,
		opt: opt,
	}, nil
}

// Get returns the value for k. Unlike LRU, a FIFO read mutates no ordering
// state, so a shared lock is sufficient; the hit/miss counters are atomics.
func (c *FIFO[K, V]) Get(k K) (V, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n, ok := c.m[k]
	if !ok {
		c.misses.Add(1)
		c.opt.Metrics.Miss()
		var zero V
		return zero, ErrNotFound
	}
	c.hits.Add(1)
	c.opt.Metrics.Hit()
	return n.val, nil
}

// Put inserts or updates k→v. An update replaces the value in place without
// changing the queue; a new key is appended at the tail, evicting the head
// first when the cache is full.
func (c *FIFO[K, V]) Put(k K, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.m[k]; ok {
		n.val = v
		return
	}

	if len(c.m) >= c.cap {
		c.evictHead()
	}

	n := &fifoNode[K, V]{key: k, val: v}
	c.m[k] = n
	if c.tail != nil {
		c.tail.next = n
	}
	c.tail = n
	if c.head == nil {
		c.head = n
	}
	c.opt.Metrics.Size(len(c.m))
}

// Contains reports whether k is resident.
func (c *FIFO[K, V]) Contains(k K) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.m[k]
	return ok
}

// Len returns the number of resident entries.
func (c *FIFO[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

// Cap returns the capacity.
func (c *FIFO[K, V]) Cap() int { return c.cap }

// Empty reports whether the cache holds no entries.
func (c *FIFO[K, V]) Empty() bool { return c.Len() == 0 }

// Clear removes all entries. Capacity and counters are unaffected.
func (c *FIFO[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m = make(map[K]*fifoNode[K, V], c.cap)
	c.head, c.tail = nil, nil
	c.opt.Metrics.Size(0)
}

// PolicyName identifies the eviction policy.
func (c *FIFO[K, V]) PolicyName() string { return "FIFO" }

// Stats returns a snapshot of the internal counters.
func (c *FIFO[K, V]) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evicts.Load(),
	}
}

// evictHead removes the oldest insertion. Called with mu held.
func (c *FIFO[K, V]) evictHead() {
	n := c.head
	if n == nil {
		return
	}
	c.head = n.next
	if c.head == nil {
		c.tail = nil
	}
	n.next = nil
	delete(c.m, n.key)

	c.evicts.Add(1)
	c.opt.Metrics.Evict(EvictCapacity)
	if cb := c.opt.OnEvict; cb != nil {
		cb(n.key, n.val, EvictCapacity)
	}
}

var _ Cache[string, int] = (*FIFO[string, int])(nil)
