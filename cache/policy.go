package cache

import (
	"fmt"
	"strings"
)

// PolicyType selects one of the provided eviction policies.
type PolicyType int

const (
	PolicyLRU PolicyType = iota
	PolicyLFU
	PolicyFIFO
	PolicyLRUK
)

// String returns the canonical policy name.
func (t PolicyType) String() string {
	switch t {
	case PolicyLRU:
		return "LRU"
	case PolicyLFU:
		return "LFU"
	case PolicyFIFO:
		return "FIFO"
	case PolicyLRUK:
		return "LRU-K"
	default:
		return fmt.Sprintf("PolicyType(%d)", int(t))
	}
}

// ParsePolicy maps a user-facing name (case-insensitive; "lru-k" and "lruk"
// are both accepted) to a PolicyType. Intended for CLI flags and config.
func ParsePolicy(s string) (PolicyType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lru":
		return PolicyLRU, nil
	case "lfu":
		return PolicyLFU, nil
	case "fifo":
		return PolicyFIFO, nil
	case "lru-k", "lruk":
		return PolicyLRUK, nil
	default:
		return 0, fmt.Errorf("cache: unknown policy %q (use lru, lfu, fifo, or lru-k)", s)
	}
}

// New constructs an engine for the given policy type. It is the enum-dispatch
// counterpart of the typed constructors; errors are theirs (ErrInvalidCapacity,
// ErrInvalidK).
func New[K comparable, V any](t PolicyType, opt Options[K, V]) (Cache[K, V], error) {
	var (
		c   Cache[K, V]
		err error
	)
	switch t {
	case PolicyLRU:
		c, err = NewLRU(opt)
	case PolicyLFU:
		c, err = NewLFU(opt)
	case PolicyFIFO:
		c, err = NewFIFO(opt)
	case PolicyLRUK:
		c, err = NewLRUK(opt)
	default:
		return nil, fmt.Errorf("cache: unknown policy %v", t)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}
