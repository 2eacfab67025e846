package cache

import (
	"fmt"
	"sync"

	"github.com/polycache/polycache/internal/util"
)

// historyRecord tracks accesses to a key that has not yet reached K of them.
// It holds no value; stamps is ordered oldest first and always shorter than K
// between operations (reaching K triggers promotion).
type historyRecord struct {
	stamps []int64
}

// hotRecord is a promoted entry: the value plus the K most recent access
// timestamps, oldest first.
type hotRecord[V any] struct {
	val    V
	stamps []int64
}

// LRUK is a fixed-capacity cache implementing the LRU-K policy. A key becomes
// resident only after K accesses: until then Put merely records a timestamp in
// the history table, and Get/Contains do not see the key. On the K-th access
// the key is promoted, carrying the value of the triggering Put.
//
// Eviction prefers discarding a cold history record (earliest first access)
// over a promoted entry; among promoted entries the victim is the one whose
// oldest retained timestamp — the K-th most recent access — is earliest,
// which penalizes bursty one-off access patterns better than plain LRU.
type LRUK[K comparable, V any] struct {
	// ---- guarded by mu ----
	mu      sync.RWMutex
	history map[K]*historyRecord
	hot     map[K]*hotRecord[V]
	cap     int
	k       int
	opt     Options[K, V]

	_      util.CacheLinePad
	hits   util.PaddedAtomicUint64
	misses util.PaddedAtomicUint64
	evicts util.PaddedAtomicUint64
}

// NewLRUK constructs an LRU-K engine with the provided Options.
// It fails with ErrInvalidCapacity if opt.Capacity is not positive and with
// ErrInvalidK if opt.K is negative. opt.K == 0 selects DefaultK.
func NewLRUK[K comparable, V any](opt Options[K, V]) (*LRUK[K, V], error) {
	if err := opt.validate(); err != nil {
		return nil, err
	}
	if opt.K < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidK, opt.K)
	}
	if opt.K == 0 {
		opt.K = DefaultK
	}
	return &LRUK[K, V]{
		history: make(map[K]*historyRecord),
		hot:     make(map[K]*hotRecord[V], opt.Capacity),
		cap:     opt.Capacity,
		k:       opt.K,
		opt:     opt,
	}, nil
}

// Get returns the value for k if the key has been promoted, stamping the
// access. Keys still in the history stage fail with ErrNotFound, and a failed
// Get records nothing: NotFound never mutates state.
func (c *LRUK[K, V]) Get(k K) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.hot[k]
	if !ok {
		c.misses.Add(1)
		c.opt.Metrics.Miss()
		var zero V
		return zero, ErrNotFound
	}
	r.stamps = appendStamp(r.stamps, c.opt.now(), c.k)
	c.hits.Add(1)
	c.opt.Metrics.Hit()
	return r.val, nil
}

// Put inserts or updates k→v. A promoted key is updated in place. Otherwise
// the access is appended to the key's history; on reaching K accesses the key
// is promoted, evicting first if the promoted table is full.
func (c *LRUK[K, V]) Put(k K, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if r, ok := c.hot[k]; ok {
		r.val = v
		r.stamps = appendStamp(r.stamps, c.opt.now(), c.k)
		return
	}

	h, ok := c.history[k]
	if !ok {
		h = &historyRecord{stamps: make([]int64, 0, c.k)}
		c.history[k] = h
	}
	h.stamps = appendStamp(h.stamps, c.opt.now(), c.k)

	if len(h.stamps) < c.k {
		// Below K accesses: tracked, but not yet resident.
		return
	}

	// K-th access recorded: promote, making room first if needed.
	for len(c.hot) >= c.cap {
		c.evictVictim()
	}
	stamps := make([]int64, len(h.stamps), c.k)
	copy(stamps, h.stamps)
	c.hot[k] = &hotRecord[V]{val: v, stamps: stamps}
	delete(c.history, k)
	c.opt.Metrics.Size(len(c.hot))
}

// Contains reports whether k has been promoted. History-stage keys are not
// visible.
func (c *LRUK[K, V]) Contains(k K) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.hot[k]
	return ok
}

// Len returns the number of promoted entries.
func (c *LRUK[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.hot)
}

// Cap returns the capacity of the promoted table.
func (c *LRUK[K, V]) Cap() int { return c.cap }

// Empty reports whether no entries have been promoted.
func (c *LRUK[K, V]) Empty() bool { return c.Len() == 0 }

// Clear empties both the promoted table and the access-history table.
func (c *LRUK[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = make(map[K]*historyRecord)
	c.hot = make(map[K]*hotRecord[V], c.cap)
	c.opt.Metrics.Size(0)
}

// PolicyName identifies the eviction policy.
func (c *LRUK[K, V]) PolicyName() string { return "LRU-K" }

// Stats returns a snapshot of the internal counters.
func (c *LRUK[K, V]) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evicts.Load(),
	}
}

// K returns the configured history depth.
func (c *LRUK[K, V]) K() int { return c.k }

// HistoryAccessCount returns how many accesses are recorded for a key still
// in the history stage, or 0 if the key is not tracked there.
func (c *LRUK[K, V]) HistoryAccessCount(k K) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if h, ok := c.history[k]; ok {
		return len(h.stamps)
	}
	return 0
}

// CacheAccessCount returns how many of the last K accesses are retained for a
// promoted key, or 0 if the key is not promoted.
func (c *LRUK[K, V]) CacheAccessCount(k K) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if r, ok := c.hot[k]; ok {
		return len(r.stamps)
	}
	return 0
}

// -------------------- internals (mu held) --------------------

// appendStamp appends now to stamps, keeping at most k entries by dropping
// the oldest.
func appendStamp(stamps []int64, now int64, k int) []int64 {
	stamps = append(stamps, now)
	if len(stamps) > k {
		copy(stamps, stamps[1:])
		stamps = stamps[:k]
	}
	return stamps
}

// evictVictim removes one record. History records (all below K accesses by
// construction) are discarded first, earliest first access first: they hold
// no value and are the cheapest candidates. Only when the history table is
// empty does a promoted entry go, the one with the earliest oldest retained
// timestamp. Evicting a promoted entry is what actually frees a slot, so a
// promotion at capacity may discard several cold history records before one.
func (c *LRUK[K, V]) evictVictim() {
	var (
		victimKey K
		earliest  int64
		found     bool
	)
	for k, h := range c.history {
		if len(h.stamps) >= c.k {
			continue // the key being promoted right now
		}
		if !found || h.stamps[0] < earliest {
			victimKey, earliest, found = k, h.stamps[0], true
		}
	}
	if found {
		delete(c.history, victimKey)
		c.evicts.Add(1)
		c.opt.Metrics.Evict(EvictHistory)
		if cb := c.opt.OnEvict; cb != nil {
			var zero V
			cb(victimKey, zero, EvictHistory)
		}
		return
	}

	for k, r := range c.hot {
		if !found || r.stamps[0] < earliest {
			victimKey, earliest, found = k, r.stamps[0], true
		}
	}
	if !found {
		return
	}
	victim := c.hot[victimKey]
	delete(c.hot, victimKey)
	c.evicts.Add(1)
	c.opt.Metrics.Evict(EvictCapacity)
	if cb := c.opt.OnEvict; cb != nil {
		cb(victimKey, victim.val, EvictCapacity)
	}
}

var _ Cache[string, int] = (*LRUK[string, int])(nil)
