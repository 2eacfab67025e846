package cache

import (
	"fmt"
	"time"
)

// EvictReason explains why an entry was removed.
type EvictReason int

const (
	// EvictCapacity — displaced by a new key while the cache was full.
	EvictCapacity EvictReason = iota
	// EvictHistory — an LRU-K access-history record discarded before it
	// accumulated K accesses. Such records carry no value.
	EvictHistory
)

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	Hit()
	Miss()
	Evict(reason EvictReason)
	Size(entries int)
}

// Clock provides time in UnixNano; useful for deterministic tests.
// LRU-K uses it to stamp accesses.
type Clock interface{ NowUnixNano() int64 }

// Options configures an engine. Zero values are safe; defaults are applied
// by the constructors:
//   - nil Metrics => NoopMetrics
//   - nil Clock   => time.Now
//   - K == 0      => DefaultK (LRU-K only)
type Options[K comparable, V any] struct {
	// Capacity is the entry count limit. It must be positive and is fixed
	// for the lifetime of the engine.
	Capacity int

	// K is the access-history depth for LRU-K; ignored by other policies.
	// Zero selects DefaultK; negative values are rejected.
	K int

	// OnEvict is called for every eviction while the engine lock is held;
	// keep callbacks lightweight. For EvictHistory the value is the zero V,
	// since history records store no value.
	OnEvict func(k K, v V, reason EvictReason)

	// Metrics receives Hit/Miss/Evict/Size signals. Nil => NoopMetrics.
	Metrics Metrics

	// Clock overrides the time source (tests). Nil => time.Now().
	Clock Clock
}

// DefaultK is the history depth used when Options.K is zero.
const DefaultK = 2

// validate applies defaults and checks the capacity bound shared by all engines.
func (o *Options[K, V]) validate() error {
	if o.Capacity <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCapacity, o.Capacity)
	}
	if o.Metrics == nil {
		o.Metrics = NoopMetrics{}
	}
	return nil
}

// now returns the current timestamp from the configured clock.
func (o *Options[K, V]) now() int64 {
	if o.Clock != nil {
		return o.Clock.NowUnixNano()
	}
	return time.Now().UnixNano()
}
