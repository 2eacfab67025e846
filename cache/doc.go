// Package cache provides a family of fixed-capacity, generic, in-memory
// key/value stores, one per eviction policy: LRU, FIFO, LFU, and LRU-K.
//
// # Design
//
//   - Concurrency: each engine is guarded by a single RWMutex covering the
//     key index and the ordering structure together, so no operation can
//     observe a partial update. Reads that mutate ordering state (LRU, LFU,
//     and LRU-K Get) hold the write lock for their full duration; pure reads
//     (Contains, Len, Empty, FIFO Get) take the shared lock.
//
//   - Storage: every engine keeps a map from key to a node in its ordering
//     structure — a doubly linked recency list (LRU), a singly linked
//     insertion queue (FIFO), per-frequency doubly linked buckets plus a
//     tracked minimum frequency (LFU), or a pair of tables holding bounded
//     access-timestamp queues (LRU-K). All operations are amortized O(1)
//     except LRU-K victim selection, which scans its tables.
//
//   - Errors: Get reports a miss with ErrNotFound; constructors report bad
//     configuration with ErrInvalidCapacity or ErrInvalidK. There are no
//     internal retries and no partial mutations: every method either
//     completes with its documented side effects or fails atomically.
//
//   - Metrics: Options.Metrics receives Hit/Miss/Evict/Size signals.
//     NoopMetrics is the default; metrics/prom exports to Prometheus.
//
//   - Callbacks: Options.OnEvict(k, v, reason) fires for every eviction
//     under the engine lock.
//
// # Basic usage
//
//	c, err := cache.NewLRU[string, string](cache.Options[string, string]{Capacity: 1024})
//	if err != nil {
//	    // capacity was not positive
//	}
//	c.Put("a", "1")
//	v, err := c.Get("a")
//	if errors.Is(err, cache.ErrNotFound) {
//	    // miss
//	}
//
// # Selecting a policy by name
//
//	t, err := cache.ParsePolicy("lru-k")
//	c, err := cache.New[string, string](t, cache.Options[string, string]{Capacity: 1024, K: 2})
//
// # Loading through the cache
//
//	lc, err := cache.NewLoading[string, string](c, func(ctx context.Context, k string) (string, error) {
//	    return fetch(ctx, k) // e.g. from a database
//	})
//	v, err := lc.GetOrLoad(ctx, "key")
//
// LRU-K differs from the others in visibility: a key put fewer than K times
// is tracked in a history table but is not yet resident — Get returns
// ErrNotFound and Contains reports false until the K-th access promotes it.
package cache
