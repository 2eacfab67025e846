package cache

import (
	"errors"
	"math/rand"
	"runtime"
	"strconv"
	"sync"
	"testing"
	"time"
)

// A mixed workload of concurrent Put/Get/Contains/Clear on random keys
// against every policy. Should pass under `-race` without detector reports.
func TestRace_MixedWorkload(t *testing.T) {
	policies := []PolicyType{PolicyLRU, PolicyLFU, PolicyFIFO, PolicyLRUK}

	for _, pt := range policies {
		t.Run(pt.String(), func(t *testing.T) {
			c, err := New[string, []byte](pt, Options[string, []byte]{Capacity: 1024, K: 2})
			if err != nil {
				t.Fatal(err)
			}

			workers := 4 * runtime.GOMAXPROCS(0)
			keyspace := 8_192
			deadline := time.Now().Add(500 * time.Millisecond)

			var wg sync.WaitGroup
			wg.Add(workers)
			for w := 0; w < workers; w++ {
				go func(id int) {
					defer wg.Done()
					r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(id)*9973))
					for time.Now().Before(deadline) {
						k := "k:" + strconv.Itoa(r.Intn(keyspace))
						switch r.Intn(100) {
						case 0: // ~1% — Clear
							c.Clear()
						case 1, 2, 3, 4, 5: // ~5% — Contains
							c.Contains(k)
						case 6, 7, 8: // ~3% — size queries
							if c.Len() > c.Cap() {
								t.Errorf("Len %d exceeds Cap %d", c.Len(), c.Cap())
								return
							}
							c.Empty()
						case 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20: // ~12% — Put
							c.Put(k, []byte("x"))
						default: // ~79% — Get
							if _, err := c.Get(k); err != nil && !errors.Is(err, ErrNotFound) {
								t.Errorf("unexpected Get error: %v", err)
								return
							}
						}
					}
				}(w)
			}
			wg.Wait()

			if c.Len() > c.Cap() {
				t.Fatalf("post-run Len %d exceeds Cap %d", c.Len(), c.Cap())
			}
		})
	}
}
