package cache

// Cache is a fixed-capacity, in-memory key/value store with a policy-defined
// eviction order. All methods are safe for concurrent use by multiple goroutines.
//
// Typical complexity for operations is amortized O(1): a map lookup plus
// constant-time adjustments of the ordering structure under the engine lock.
type Cache[K comparable, V any] interface {
	// Get returns the value for k and records the access according to the
	// active policy (recency, frequency, or access history).
	// It returns ErrNotFound if k has no visible entry; a failed Get does
	// not mutate the ordering structure.
	Get(k K) (V, error)

	// Put inserts or updates k→v. Updating an existing key replaces the
	// value in place and counts as an access where the policy defines it so.
	// If k is new and the cache is full, a victim is evicted first.
	Put(k K, v V)

	// Contains reports whether k has a visible entry.
	// It never mutates the eviction order.
	Contains(k K) bool

	// Len returns the number of resident entries.
	Len() int

	// Cap returns the capacity the cache was constructed with.
	Cap() int

	// Empty reports whether the cache holds no entries.
	Empty() bool

	// Clear removes all entries and resets policy bookkeeping (frequency
	// minimum, access histories). Capacity is unaffected.
	Clear()

	// PolicyName identifies the eviction policy ("LRU", "FIFO", "LFU", "LRU-K").
	PolicyName() string

	// Stats returns a snapshot of the hit/miss/eviction counters.
	Stats() Stats
}

// Stats is a point-in-time snapshot of an engine's internal counters.
// Counters are cumulative since construction; Clear does not reset them.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// HitRate returns Hits/(Hits+Misses) in [0,1], or 0 before any Get.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}
