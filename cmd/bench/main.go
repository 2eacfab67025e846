// Command bench runs a synthetic workload against a cache engine and exposes
// optional pprof/Prometheus endpoints.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/polycache/polycache/cache"
	"github.com/polycache/polycache/harness"
	pmet "github.com/polycache/polycache/metrics/prom"
)

func main() {
	var (
		capacity = flag.Int("cap", 100_000, "cache capacity (entries)")
		policy   = flag.String("policy", "lru", "eviction policy: lru | lfu | fifo | lru-k")
		kDepth   = flag.Int("k", 2, "history depth for lru-k")

		workers  = flag.Int("workers", 2*runtime.GOMAXPROCS(0), "number of worker goroutines")
		duration = flag.Duration("duration", 10*time.Second, "benchmark duration")
		readPct  = flag.Int("reads", 80, "read percentage [0..100]")

		keys    = flag.Int("keys", 1_000_000, "keyspace size")
		zipfS   = flag.Float64("zipf_s", 1.1, "Zipf s > 1 (skew); <= 1 selects uniform keys")
		zipfV   = flag.Float64("zipf_v", 1.0, "Zipf v")
		seed    = flag.Int64("seed", time.Now().UnixNano(), "random seed")
		preload = flag.Int("preload", 0, "preload entries (0 = cap/2)")

		pprofAddr   = flag.String("pprof", "", "serve pprof at addr (e.g. :6060); empty = disabled")
		metricsAddr = flag.String("http", ":8080", "serve Prometheus metrics at addr")
	)
	flag.Parse()

	logger := level.NewFilter(log.NewLogfmtLogger(os.Stderr), level.AllowInfo())
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)

	if *pprofAddr != "" {
		go func() {
			level.Info(logger).Log("msg", "serving pprof", "addr", *pprofAddr)
			level.Error(logger).Log("err", http.ListenAndServe(*pprofAddr, nil))
		}()
	}

	metrics := pmet.New(nil, "polycache", "bench", nil)
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		level.Info(logger).Log("msg", "serving metrics", "addr", *metricsAddr)
		level.Error(logger).Log("err", http.ListenAndServe(*metricsAddr, nil))
	}()

	// ---- Build cache ----
	pt, err := cache.ParsePolicy(*policy)
	if err != nil {
		level.Error(logger).Log("err", err)
		os.Exit(1)
	}
	c, err := cache.New[string, string](pt, cache.Options[string, string]{
		Capacity: *capacity,
		K:        *kDepth,
		Metrics:  metrics,
	})
	if err != nil {
		level.Error(logger).Log("err", err)
		os.Exit(1)
	}

	// ---- Preload half capacity to get a realistic hit-rate ----
	pl := *preload
	if pl == 0 {
		pl = *capacity / 2
	}
	for i := 0; i < pl; i++ {
		k := "k:" + strconv.Itoa(i)
		c.Put(k, "v"+strconv.Itoa(i))
	}

	// ---- Load generation ----
	r := harness.New(harness.Config{
		Workers:  *workers,
		Keyspace: *keys,
		ReadPct:  *readPct,
		ZipfS:    *zipfS,
		ZipfV:    *zipfV,
		Seed:     *seed,
		Logger:   logger,
	})

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	stats, err := r.Mixed(ctx, c)
	if err != nil {
		level.Error(logger).Log("err", err)
		os.Exit(1)
	}

	// ---- Report ----
	fmt.Printf("policy=%s cap=%d workers=%d keys=%d dur=%v seed=%d run=%s\n",
		c.PolicyName(), *capacity, *workers, *keys, stats.Elapsed, *seed, r.ID())
	fmt.Printf("ops=%d (%.0f ops/s)  reads=%d  writes=%d\n",
		stats.Ops(), stats.Throughput(), stats.Gets, stats.Puts)
	fmt.Printf("hits=%d  misses=%d  hit-rate=%.2f%%\n", stats.Hits, stats.Misses, 100*stats.HitRate())
	fmt.Printf("Len()=%d\n", c.Len())
}
