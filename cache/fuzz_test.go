package cache

import (
	"errors"
	"strings"
	"testing"
)

// Fuzz basic Put/Get/Clear semantics under arbitrary string inputs across all
// policies. Guards against panics and checks the round-trip invariant.
// NOTE: key/value lengths are capped to avoid pathological memory usage
// during fuzzing (this does not weaken the invariants we check).
func FuzzCache_PutGetClear(f *testing.F) {
	// Seed corpus: empty, ASCII, Unicode, long strings.
	f.Add("", "")
	f.Add("a", "1")
	f.Add("b", "2")
	f.Add("αβγ", "δ")
	f.Add("emoji🙂", "🙂🙂")
	f.Add("long", strings.Repeat("x", 1024))

	f.Fuzz(func(t *testing.T, k, v string) {
		const limit = 1 << 12 // 4096
		if len(k) > limit {
			k = k[:limit]
		}
		if len(v) > limit {
			v = v[:limit]
		}

		for _, pt := range []PolicyType{PolicyLRU, PolicyLFU, PolicyFIFO, PolicyLRUK} {
			c, err := New[string, string](pt, Options[string, string]{Capacity: 16, K: 2})
			if err != nil {
				t.Fatal(err)
			}

			// Put until visible (LRU-K needs K accesses), then Get must
			// return the stored value.
			c.Put(k, v)
			if !c.Contains(k) {
				c.Put(k, v)
			}
			got, err := c.Get(k)
			if err != nil || got != v {
				t.Fatalf("%v: after Put/Get: want %q, got %q err=%v", pt, v, got, err)
			}
			if c.Len() > c.Cap() {
				t.Fatalf("%v: Len %d exceeds Cap %d", pt, c.Len(), c.Cap())
			}

			// Clear must make the key invisible again.
			c.Clear()
			if c.Contains(k) || !c.Empty() {
				t.Fatalf("%v: key visible after Clear", pt)
			}
			if _, err := c.Get(k); !errors.Is(err, ErrNotFound) {
				t.Fatalf("%v: Get after Clear: want ErrNotFound, got %v", pt, err)
			}
		}
	})
}
