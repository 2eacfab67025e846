package cache

import (
	"context"

	"github.com/polycache/polycache/internal/singleflight"
)

// LoaderFunc fetches the value for a key on a cache miss.
type LoaderFunc[K comparable, V any] func(ctx context.Context, k K) (V, error)

// LoadingCache wraps any engine with a miss loader. Concurrent loads for the
// same key are coalesced so the loader runs at most once per in-flight key.
// All Cache methods are forwarded to the wrapped engine.
type LoadingCache[K comparable, V any] struct {
	Cache[K, V]

	load LoaderFunc[K, V]
	sf   singleflight.Group[K, V]
}

// NewLoading wraps c with the given loader.
// It fails with ErrNilLoader if load is nil.
func NewLoading[K comparable, V any](c Cache[K, V], load LoaderFunc[K, V]) (*LoadingCache[K, V], error) {
	if load == nil {
		return nil, ErrNilLoader
	}
	return &LoadingCache[K, V]{Cache: c, load: load}, nil
}

// GetOrLoad returns the value for k, invoking the loader on a miss and
// storing the result. A follower whose ctx is cancelled while waiting
// returns ctx.Err(); the leader's load is not cancelled by followers.
//
// With LRU-K a stored key stays invisible until it accumulates K accesses,
// so the loader may run on several distinct misses before the entry is
// resident. Coalescing still holds for concurrent calls.
func (l *LoadingCache[K, V]) GetOrLoad(ctx context.Context, k K) (V, error) {
	// Fast path: resident.
	if v, err := l.Cache.Get(k); err == nil {
		return v, nil
	}

	return l.sf.Do(ctx, k, func() (V, error) {
		// Double-check after joining the flight: the leader may have
		// populated the entry while we were queued.
		if v, err := l.Cache.Get(k); err == nil {
			return v, nil
		}
		v, err := l.load(ctx, k)
		if err == nil {
			l.Cache.Put(k, v)
		}
		return v, err
	})
}
