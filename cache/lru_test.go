package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	c, err := NewLRU[int, string](Options[int, string]{Capacity: 3})
	require.NoError(t, err)

	c.Put(1, "a")
	c.Put(2, "b")
	c.Put(3, "c")

	// Promote 1: the LRU entry is now 2.
	_, err = c.Get(1)
	require.NoError(t, err)

	c.Put(4, "d")

	assert.False(t, c.Contains(2), "2 was least recently used")
	assert.True(t, c.Contains(1))
	assert.True(t, c.Contains(3))
	assert.True(t, c.Contains(4))
	assert.Equal(t, 3, c.Len())
}

func TestLRU_UpdatePromotes(t *testing.T) {
	t.Parallel()

	c, err := NewLRU[string, int](Options[string, int]{Capacity: 2})
	require.NoError(t, err)

	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("a", 11) // update counts as use: "b" becomes LRU
	c.Put("c", 3)

	assert.False(t, c.Contains("b"))
	v, err := c.Get("a")
	require.NoError(t, err)
	assert.Equal(t, 11, v, "update must replace the value in place")
}

func TestLRU_GetMiss(t *testing.T) {
	t.Parallel()

	c, err := NewLRU[string, int](Options[string, int]{Capacity: 2})
	require.NoError(t, err)

	_, err = c.Get("nope")
	require.ErrorIs(t, err, ErrNotFound)

	// A failed Get must not create an entry.
	assert.Equal(t, 0, c.Len())
}

func TestLRU_OnEvictAndStats(t *testing.T) {
	t.Parallel()

	type evicted struct {
		k      int
		v      string
		reason EvictReason
	}
	var log []evicted

	c, err := NewLRU[int, string](Options[int, string]{
		Capacity: 2,
		OnEvict: func(k int, v string, r EvictReason) {
			log = append(log, evicted{k, v, r})
		},
	})
	require.NoError(t, err)

	c.Put(1, "a")
	c.Put(2, "b")
	c.Put(3, "c") // evicts 1
	c.Put(4, "d") // evicts 2

	require.Equal(t, []evicted{{1, "a", EvictCapacity}, {2, "b", EvictCapacity}}, log)

	c.Get(3)  // hit
	c.Get(99) // miss
	s := c.Stats()
	assert.Equal(t, uint64(1), s.Hits)
	assert.Equal(t, uint64(1), s.Misses)
	assert.Equal(t, uint64(2), s.Evictions)
	assert.InDelta(t, 0.5, s.HitRate(), 1e-9)
}
