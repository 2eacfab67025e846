package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFIFO_AccessNeverProtects(t *testing.T) {
	t.Parallel()

	c, err := NewFIFO[int, string](Options[int, string]{Capacity: 3})
	require.NoError(t, err)

	c.Put(1, "a")
	c.Put(2, "b")
	c.Put(3, "c")

	// Hammering 1 with reads must not move it off the head of the queue.
	for i := 0; i < 10; i++ {
		_, err := c.Get(1)
		require.NoError(t, err)
	}

	c.Put(4, "d")

	assert.False(t, c.Contains(1), "oldest insertion goes regardless of access")
	assert.True(t, c.Contains(2))
	assert.True(t, c.Contains(3))
	assert.True(t, c.Contains(4))
}

func TestFIFO_UpdateKeepsPosition(t *testing.T) {
	t.Parallel()

	c, err := NewFIFO[int, string](Options[int, string]{Capacity: 2})
	require.NoError(t, err)

	c.Put(1, "a")
	c.Put(2, "b")
	c.Put(1, "a2") // value replaced, position unchanged

	v, err := c.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "a2", v)

	c.Put(3, "c")
	assert.False(t, c.Contains(1), "1 is still the oldest insertion")
	assert.True(t, c.Contains(2))
}

func TestFIFO_EvictionOrderIsInsertionOrder(t *testing.T) {
	t.Parallel()

	var order []int
	c, err := NewFIFO[int, int](Options[int, int]{
		Capacity: 3,
		OnEvict:  func(k, v int, _ EvictReason) { order = append(order, k) },
	})
	require.NoError(t, err)

	for i := 1; i <= 7; i++ {
		c.Put(i, i)
	}
	assert.Equal(t, []int{1, 2, 3, 4}, order)
	assert.Equal(t, 3, c.Len())
}
