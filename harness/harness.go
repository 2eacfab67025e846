// Package harness drives concurrent workloads against a cache engine and
// collects statistics. It backs the bench command and the stress tests; the
// library core does not depend on it.
package harness

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"runtime"
	"strconv"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/polycache/polycache/cache"
	"github.com/polycache/polycache/internal/util"
)

// Config tunes a Runner. Zero values select defaults.
type Config struct {
	// Workers is the number of concurrent goroutines (0 => 2*GOMAXPROCS).
	Workers int

	// OpsPerWorker bounds each worker's operation count (0 => run until the
	// context is cancelled).
	OpsPerWorker int

	// Keyspace is the number of distinct keys (0 => 1024). Keys are "k:<n>".
	Keyspace int

	// ReadPct is the Get percentage for the Mixed driver, 0..100 (0 => 80).
	ReadPct int

	// ZipfS/ZipfV select a Zipf key distribution when ZipfS > 1;
	// otherwise keys are uniform.
	ZipfS float64
	ZipfV float64

	// Seed makes the workload reproducible (0 => time-based).
	Seed int64

	// OpLogSize bounds the retained per-operation log (0 disables logging
	// of individual operations).
	OpLogSize int

	// Logger receives run lifecycle events (nil => no logging).
	Logger log.Logger
}

// Runner executes workload drivers against a cache. A Runner may be reused;
// each driver call resets the counters and the operation log.
type Runner struct {
	cfg    Config
	id     string
	logger log.Logger

	ops *opLog

	puts   util.PaddedAtomicUint64
	gets   util.PaddedAtomicUint64
	hits   util.PaddedAtomicUint64
	misses util.PaddedAtomicUint64
}

// New constructs a Runner with a fresh run ID.
func New(cfg Config) *Runner {
	if cfg.Workers <= 0 {
		cfg.Workers = 2 * runtime.GOMAXPROCS(0)
	}
	if cfg.Keyspace <= 0 {
		cfg.Keyspace = 1024
	}
	if cfg.ReadPct <= 0 {
		cfg.ReadPct = 80
	}
	if cfg.ReadPct > 100 {
		cfg.ReadPct = 100
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	id := uuid.NewString()
	return &Runner{
		cfg:    cfg,
		id:     id,
		logger: log.With(logger, "run", id),
	}
}

// ID returns the run identifier attached to all log events.
func (r *Runner) ID() string { return r.id }

// Ops returns the retained operation log of the last run, oldest first.
func (r *Runner) Ops() []Op { return r.ops.snapshot() }

// ConcurrentPut hammers the cache with Puts over the keyspace.
func (r *Runner) ConcurrentPut(ctx context.Context, c cache.Cache[string, string]) (Stats, error) {
	return r.run(ctx, c, "put", func(w *worker, c cache.Cache[string, string]) error {
		k := w.key()
		c.Put(k, "v:"+strconv.Itoa(w.rng.Int()))
		r.puts.Add(1)
		r.ops.record(Op{Worker: w.id, Kind: OpPut, Key: k, At: time.Now()})
		return nil
	})
}

// ConcurrentGet hammers the cache with Gets over the keyspace.
func (r *Runner) ConcurrentGet(ctx context.Context, c cache.Cache[string, string]) (Stats, error) {
	return r.run(ctx, c, "get", func(w *worker, c cache.Cache[string, string]) error {
		return r.get(w, c)
	})
}

// Mixed issues Gets and Puts in the configured ratio.
func (r *Runner) Mixed(ctx context.Context, c cache.Cache[string, string]) (Stats, error) {
	return r.run(ctx, c, "mixed", func(w *worker, c cache.Cache[string, string]) error {
		if int(w.rng.Int31n(100)) < r.cfg.ReadPct {
			return r.get(w, c)
		}
		k := w.key()
		c.Put(k, "v:"+strconv.Itoa(w.rng.Int()))
		r.puts.Add(1)
		r.ops.record(Op{Worker: w.id, Kind: OpPut, Key: k, At: time.Now()})
		return nil
	})
}

// get issues one Get and validates the engine's error contract.
func (r *Runner) get(w *worker, c cache.Cache[string, string]) error {
	k := w.key()
	_, err := c.Get(k)
	r.gets.Add(1)
	switch {
	case err == nil:
		r.hits.Add(1)
	case errors.Is(err, cache.ErrNotFound):
		r.misses.Add(1)
	default:
		return fmt.Errorf("harness: unexpected Get error for %q: %w", k, err)
	}
	r.ops.record(Op{Worker: w.id, Kind: OpGet, Key: k, Hit: err == nil, At: time.Now()})
	return nil
}

// worker is per-goroutine state: its own RNG and key distribution
// (rand.Rand and rand.Zipf are not goroutine-safe).
type worker struct {
	id   int
	rng  *rand.Rand
	zipf *rand.Zipf
	span int
}

func (w *worker) key() string {
	if w.zipf != nil {
		return "k:" + strconv.FormatUint(w.zipf.Uint64(), 10)
	}
	return "k:" + strconv.Itoa(w.rng.Intn(w.span))
}

func (r *Runner) run(ctx context.Context, c cache.Cache[string, string], name string,
	op func(*worker, cache.Cache[string, string]) error) (Stats, error) {

	r.reset()
	level.Info(r.logger).Log("msg", "starting driver", "driver", name,
		"policy", c.PolicyName(), "workers", r.cfg.Workers, "keyspace", r.cfg.Keyspace, "seed", r.cfg.Seed)

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < r.cfg.Workers; i++ {
		w := &worker{
			id:   i,
			rng:  rand.New(rand.NewSource(r.cfg.Seed + int64(i)*9973)),
			span: r.cfg.Keyspace,
		}
		if r.cfg.ZipfS > 1 {
			v := r.cfg.ZipfV
			if v < 1 {
				v = 1
			}
			w.zipf = rand.NewZipf(w.rng, r.cfg.ZipfS, v, uint64(r.cfg.Keyspace-1))
		}
		g.Go(func() error {
			for n := 0; r.cfg.OpsPerWorker == 0 || n < r.cfg.OpsPerWorker; n++ {
				select {
				case <-ctx.Done():
					return nil
				default:
				}
				if err := op(w, c); err != nil {
					return err
				}
			}
			return nil
		})
	}
	err := g.Wait()
	stats := r.snapshot(time.Since(start))

	if err != nil {
		level.Error(r.logger).Log("msg", "driver failed", "driver", name, "err", err)
		return stats, err
	}
	level.Info(r.logger).Log("msg", "driver finished", "driver", name,
		"ops", stats.Ops(), "hits", stats.Hits, "misses", stats.Misses,
		"elapsed", stats.Elapsed, "ops_per_sec", fmt.Sprintf("%.0f", stats.Throughput()))
	return stats, nil
}

func (r *Runner) reset() {
	r.puts.Store(0)
	r.gets.Store(0)
	r.hits.Store(0)
	r.misses.Store(0)
	r.ops = newOpLog(r.cfg.OpLogSize)
}

func (r *Runner) snapshot(elapsed time.Duration) Stats {
	return Stats{
		Puts:    r.puts.Load(),
		Gets:    r.gets.Load(),
		Hits:    r.hits.Load(),
		Misses:  r.misses.Load(),
		Elapsed: elapsed,
	}
}
