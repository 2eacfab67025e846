package cache

import (
	"sync"

	"github.com/polycache/polycache/internal/util"
)

// lfuNode carries the entry, its current access frequency, and intrusive
// links within the frequency bucket it belongs to.
type lfuNode[K comparable, V any] struct {
	key  K
	val  V
	freq int

	prev *lfuNode[K, V]
	next *lfuNode[K, V]
}

// lfuBucket is a doubly linked list of nodes sharing one frequency value.
// Head is the most recently touched node at that frequency, tail the least:
// recency is the tie-breaker inside a bucket.
type lfuBucket[K comparable, V any] struct {
	head *lfuNode[K, V]
	tail *lfuNode[K, V]
}

func (b *lfuBucket[K, V]) pushFront(n *lfuNode[K, V]) {
	n.prev = nil
	n.next = b.head
	if b.head != nil {
		b.head.prev = n
	}
	b.head = n
	if b.tail == nil {
		b.tail = n
	}
}

func (b *lfuBucket[K, V]) remove(n *lfuNode[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if b.head == n {
		b.head = n.next
	}
	if b.tail == n {
		b.tail = n.prev
	}
	n.prev, n.next = nil, nil
}

func (b *lfuBucket[K, V]) empty() bool { return b.head == nil }

// LFU is a fixed-capacity cache that evicts the least-frequently-used entry,
// breaking frequency ties by recency. Entries start at frequency 1; every Get
// and every Put on an existing key increments the frequency by exactly one
// and relocates the node to the head of the next bucket.
type LFU[K comparable, V any] struct {
	// ---- guarded by mu ----
	mu      sync.RWMutex
	m       map[K]*lfuNode[K, V]
	buckets map[int]*lfuBucket[K, V]
	minFreq int // smallest frequency with a non-empty bucket; 1 when empty
	cap     int
	opt     Options[K, V]

	_      util.CacheLinePad
	hits   util.PaddedAtomicUint64
	misses util.PaddedAtomicUint64
	evicts util.PaddedAtomicUint64
}

// NewLFU constructs an LFU engine with the provided Options.
// It fails with ErrInvalidCapacity if opt.Capacity is not positive.
func NewLFU[K comparable, V any](opt Options[K, V]) (*LFU[K, V], error) {
	if err := opt.validate(); err != nil {
		return nil, err
	}
	return &LFU[K, V]{
		m:       make(map[K]*lfuNode[K, V], opt.Capacity),
		buckets: make(map[int]*lfuBucket[K, V]),
		minFreq: 1,
		cap:     opt.Capacity,
		opt:     opt,
	}, nil
}

// Get returns the value for k and bumps its frequency. The relocation between
// buckets requires the write lock for the whole call.
func (c *LFU[K, V]) Get(k K) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.m[k]
	if !ok {
		c.misses.Add(1)
		c.opt.Metrics.Miss()
		var zero V
		return zero, ErrNotFound
	}
	c.touch(n)
	c.hits.Add(1)
	c.opt.Metrics.Hit()
	return n.val, nil
}

// Put inserts or updates k→v. An update replaces the value and bumps the
// frequency like Get does. A new key always enters the frequency-1 bucket;
// when the cache is full, the tail of the minimum-frequency bucket is
// evicted first.
func (c *LFU[K, V]) Put(k K, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.m[k]; ok {
		n.val = v
		c.touch(n)
		return
	}

	if len(c.m) >= c.cap {
		c.evictMin()
	}

	n := &lfuNode[K, V]{key: k, val: v, freq: 1}
	c.m[k] = n
	c.bucketFor(1).pushFront(n)
	// A frequency-1 bucket now certainly exists.
	c.minFreq = 1
	c.opt.Metrics.Size(len(c.m))
}

// Contains reports whether k is resident without affecting its frequency.
func (c *LFU[K, V]) Contains(k K) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.m[k]
	return ok
}

// Len returns the number of resident entries.
func (c *LFU[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

// Cap returns the capacity.
func (c *LFU[K, V]) Cap() int { return c.cap }

// Empty reports whether the cache holds no entries.
func (c *LFU[K, V]) Empty() bool { return c.Len() == 0 }

// Clear removes all entries and resets the minimum frequency.
func (c *LFU[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m = make(map[K]*lfuNode[K, V], c.cap)
	c.buckets = make(map[int]*lfuBucket[K, V])
	c.minFreq = 1
	c.opt.Metrics.Size(0)
}

// PolicyName identifies the eviction policy.
func (c *LFU[K, V]) PolicyName() string { return "LFU" }

// Stats returns a snapshot of the internal counters.
func (c *LFU[K, V]) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evicts.Load(),
	}
}

// MinFrequency returns the smallest frequency with a resident entry
// (1 when the cache is empty). Exposed for tests and introspection.
func (c *LFU[K, V]) MinFrequency() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.minFreq
}

// -------------------- internals (mu held) --------------------

// bucketFor returns the bucket for freq, creating it if absent.
func (c *LFU[K, V]) bucketFor(freq int) *lfuBucket[K, V] {
	b, ok := c.buckets[freq]
	if !ok {
		b = &lfuBucket[K, V]{}
		c.buckets[freq] = b
	}
	return b
}

// touch moves n from its current bucket to the head of the next one.
// Removing the last node of the minimum bucket is the only event that can
// raise minFreq, and then only by one: the node itself lands at freq+1.
func (c *LFU[K, V]) touch(n *lfuNode[K, V]) {
	b := c.buckets[n.freq]
	b.remove(n)
	if b.empty() {
		delete(c.buckets, n.freq)
		if c.minFreq == n.freq {
			c.minFreq = n.freq + 1
		}
	}
	n.freq++
	c.bucketFor(n.freq).pushFront(n)
}

// evictMin removes the tail of the minimum-frequency bucket.
func (c *LFU[K, V]) evictMin() {
	b, ok := c.buckets[c.minFreq]
	if !ok || b.tail == nil {
		return
	}
	n := b.tail
	b.remove(n)
	if b.empty() {
		delete(c.buckets, c.minFreq)
	}
	delete(c.m, n.key)

	c.evicts.Add(1)
	c.opt.Metrics.Evict(EvictCapacity)
	if cb := c.opt.OnEvict; cb != nil {
		cb(n.key, n.val, EvictCapacity)
	}
}

var _ Cache[string, int] = (*LFU[string, int])(nil)
