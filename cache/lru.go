package cache

import (
	"sync"

	"github.com/polycache/polycache/internal/util"
)

// lruNode is an intrusive doubly linked list element owned by an LRU engine.
type lruNode[K comparable, V any] struct {
	key K
	val V

	// List links: head is most-recently-used, tail is least.
	prev *lruNode[K, V]
	next *lruNode[K, V]
}

// LRU is a fixed-capacity cache that evicts the least-recently-used entry.
// Both Get and Put count as use and promote the entry to the front of the
// recency list in O(1).
type LRU[K comparable, V any] struct {
	// ---- guarded by mu ----
	mu   sync.RWMutex
	m    map[K]*lruNode[K, V]
	head *lruNode[K, V] // MRU
	tail *lruNode[K, V] // LRU
	cap  int
	opt  Options[K, V]

	// ---- hot counters (separate cache lines to avoid false sharing) ----
	_      util.CacheLinePad
	hits   util.PaddedAtomicUint64
	misses util.PaddedAtomicUint64
	evicts util.PaddedAtomicUint64
}

// NewLRU constructs an LRU engine with the provided Options.
// It fails with ErrInvalidCapacity if opt.Capacity is not positive.
func NewLRU[K comparable, V any](opt Options[K, V]) (*LRU[K, V], error) {
	if err := opt.validate(); err != nil {
		return nil, err
	}
	return &LRU[K, V]{
		m:   make(map[K]*lruNode[K, V], opt.Capacity),
		cap: opt.Capacity,
		opt: opt,
	}, nil
}

// Get returns the value for k and promotes the entry to MRU.
// Get mutates the recency list, so it holds the write lock for its full
// duration; a shared lock with a later upgrade would let another goroutine
// evict the node between lookup and promotion.
func (c *LRU[K, V]) Get(k K) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.m[k]
	if !ok {
		c.misses.Add(1)
		c.opt.Metrics.Miss()
		var zero V
		return zero, ErrNotFound
	}
	c.moveToFront(n)
	c.hits.Add(1)
	c.opt.Metrics.Hit()
	return n.val, nil
}

// Put inserts or updates k→v. An update replaces the value in place and
// promotes the entry; a new key evicts the tail first when the cache is full.
func (c *LRU[K, V]) Put(k K, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.m[k]; ok {
		n.val = v
		c.moveToFront(n)
		return
	}

	if len(c.m) >= c.cap {
		c.evictNode(c.tail)
	}

	n := &lruNode[K, V]{key: k, val: v}
	c.m[k] = n
	c.insertFront(n)
	c.opt.Metrics.Size(len(c.m))
}

// Contains reports whether k is resident. It never touches the recency list.
func (c *LRU[K, V]) Contains(k K) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.m[k]
	return ok
}

// Len returns the number of resident entries.
func (c *LRU[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

// Cap returns the capacity. It is fixed at construction, so no lock is needed.
func (c *LRU[K, V]) Cap() int { return c.cap }

// Empty reports whether the cache holds no entries.
func (c *LRU[K, V]) Empty() bool { return c.Len() == 0 }

// Clear removes all entries. Capacity and counters are unaffected.
func (c *LRU[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m = make(map[K]*lruNode[K, V], c.cap)
	c.head, c.tail = nil, nil
	c.opt.Metrics.Size(0)
}

// PolicyName identifies the eviction policy.
func (c *LRU[K, V]) PolicyName() string { return "LRU" }

// Stats returns a snapshot of the internal counters.
func (c *LRU[K, V]) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evicts.Load(),
	}
}

// -------------------- internals (mu held) --------------------

// insertFront inserts n at MRU in O(1).
func (c *LRU[K, V]) insertFront(n *lruNode[K, V]) {
	n.prev = nil
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
}

// moveToFront promotes n to MRU in O(1).
func (c *LRU[K, V]) moveToFront(n *lruNode[K, V]) {
	if n == c.head {
		return
	}
	// detach
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if c.tail == n {
		c.tail = n.prev
	}
	// insert at head
	n.prev = nil
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
}

// evictNode unlinks n, deletes it from the index, and fires callbacks.
func (c *LRU[K, V]) evictNode(n *lruNode[K, V]) {
	if n == nil {
		return
	}
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if c.head == n {
		c.head = n.next
	}
	if c.tail == n {
		c.tail = n.prev
	}
	n.prev, n.next = nil, nil
	delete(c.m, n.key)

	c.evicts.Add(1)
	c.opt.Metrics.Evict(EvictCapacity)
	if cb := c.opt.OnEvict; cb != nil {
		cb(n.key, n.val, EvictCapacity)
	}
}

var _ Cache[string, int] = (*LRU[string, int])(nil)
