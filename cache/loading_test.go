package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestLoading_NilLoader(t *testing.T) {
	t.Parallel()

	c, err := NewLRU[string, string](Options[string, string]{Capacity: 4})
	require.NoError(t, err)

	_, err = NewLoading[string, string](c, nil)
	require.ErrorIs(t, err, ErrNilLoader)
}

func TestLoading_LoadsOnMissAndCaches(t *testing.T) {
	t.Parallel()

	c, err := NewLRU[string, string](Options[string, string]{Capacity: 4})
	require.NoError(t, err)

	var calls int64
	lc, err := NewLoading(c, func(_ context.Context, k string) (string, error) {
		atomic.AddInt64(&calls, 1)
		return "v:" + k, nil
	})
	require.NoError(t, err)

	v, err := lc.GetOrLoad(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "v:a", v)

	// Second call is a pure cache hit.
	v, err = lc.GetOrLoad(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "v:a", v)
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
}

func TestLoading_LoaderErrorNotCached(t *testing.T) {
	t.Parallel()

	c, err := NewLRU[string, string](Options[string, string]{Capacity: 4})
	require.NoError(t, err)

	boom := errors.New("backend down")
	lc, err := NewLoading(c, func(_ context.Context, k string) (string, error) {
		return "", boom
	})
	require.NoError(t, err)

	_, err = lc.GetOrLoad(context.Background(), "a")
	require.ErrorIs(t, err, boom)
	assert.False(t, c.Contains("a"))
}

// Concurrent GetOrLoad calls for the same key should trigger the loader
// at most once; subsequent calls are cache hits.
func TestLoading_Singleflight(t *testing.T) {
	c, err := NewLRU[string, string](Options[string, string]{Capacity: 64})
	require.NoError(t, err)

	var calls int64
	lc, err := NewLoading(c, func(_ context.Context, k string) (string, error) {
		atomic.AddInt64(&calls, 1)
		time.Sleep(5 * time.Millisecond) // simulate I/O
		return "v:" + k, nil
	})
	require.NoError(t, err)

	const N = 64
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var g errgroup.Group
	for i := 0; i < N; i++ {
		g.Go(func() error {
			v, err := lc.GetOrLoad(ctx, "k")
			if err != nil {
				return err
			}
			if v != "v:k" {
				return fmt.Errorf("got %q", v)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	if got := atomic.LoadInt64(&calls); got != 1 {
		t.Fatalf("loader must run exactly once, got %d", got)
	}
}
