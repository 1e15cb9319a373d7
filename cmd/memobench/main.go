// Command memobench runs a synthetic workload against a memoized function and
// exposes optional pprof/Prometheus endpoints.
package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"os"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/IvanBrykalov/memokit/memo"
	pmet "github.com/IvanBrykalov/memokit/metrics/prom"
)

func main() {
	// ---- Flags ----
	var (
		shards = flag.Int("shards", 0, "number of shards (0=auto)")
		rounds = flag.Int("rounds", 1_000, "sha256 rounds per computation (cost of a miss)")

		workers  = flag.Int("workers", 2*runtime.GOMAXPROCS(0), "number of worker goroutines")
		duration = flag.Duration("duration", 10*time.Second, "benchmark duration")

		keys  = flag.Int("keys", 100_000, "keyspace size")
		zipfS = flag.Float64("zipf_s", 1.1, "Zipf s > 1 (skew)")
		zipfV = flag.Float64("zipf_v", 1.0, "Zipf v")
		seed  = flag.Int64("seed", time.Now().UnixNano(), "random seed")
		debug = flag.Bool("debug", false, "log every hit/miss (very noisy)")

		pprofAddr   = flag.String("pprof", "", "serve pprof at addr (e.g. :6060); empty = disabled")
		metricsAddr = flag.String("http", ":8080", "serve Prometheus metrics at addr; empty = disabled")
	)
	flag.Parse()

	level := zap.InfoLevel
	if *debug {
		level = zap.DebugLevel
	}
	logger := zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.Lock(os.Stderr),
		level,
	))
	defer func() { _ = logger.Sync() }()

	// ---- pprof / metrics servers (on DefaultServeMux) ----
	if *pprofAddr != "" {
		go func() {
			logger.Info("pprof: serving", zap.String("addr", *pprofAddr))
			logger.Warn("pprof server stopped", zap.Error(http.ListenAndServe(*pprofAddr, nil)))
		}()
	}
	metrics := pmet.New(nil, "memokit", "bench", prometheus.Labels{"memo": "digest"})
	if *metricsAddr != "" {
		http.Handle("/metrics", promhttp.Handler())
		go func() {
			logger.Info("metrics: serving", zap.String("addr", *metricsAddr))
			logger.Warn("metrics server stopped", zap.Error(http.ListenAndServe(*metricsAddr, nil)))
		}()
	}

	// ---- Build memo ----
	var computations atomic.Uint64
	digest := memo.New(func(k string) (string, error) {
		computations.Add(1)
		return expensiveDigest(k, *rounds), nil
	}, memo.Options{
		Name:    "digest",
		Shards:  *shards,
		Metrics: metrics,
		Logger:  logger,
	})

	// ---- Snapshot flags for goroutines ----
	keysMax := uint64(*keys - 1)
	seedBase := *seed
	workersN := *workers
	if workersN <= 0 {
		workersN = 1
	}

	// ---- Load generation ----
	var total atomic.Uint64
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workersN; w++ {
		g.Go(func() error {
			// Each worker gets its own RNG + Zipf (rand.Rand is NOT goroutine-safe).
			r := rand.New(rand.NewSource(seedBase + int64(w)*9973))
			z := rand.NewZipf(r, *zipfS, *zipfV, keysMax)
			for ctx.Err() == nil {
				if _, err := digest.Call("k:" + strconv.FormatUint(z.Uint64(), 10)); err != nil {
					return err
				}
				total.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Fatal("workload failed", zap.Error(err))
	}
	elapsed := time.Since(start)

	// ---- Report ----
	st := digest.Stats()
	ops := total.Load()
	hitRate := 0.0
	if lookups := st.Hits + st.Misses; lookups > 0 {
		hitRate = float64(st.Hits) / float64(lookups) * 100
	}

	fmt.Printf("workers=%d keys=%d dur=%v seed=%d rounds=%d\n", workersN, *keys, elapsed, seedBase, *rounds)
	fmt.Printf("calls=%d (%.0f calls/s)  computations=%d\n", ops, float64(ops)/elapsed.Seconds(), computations.Load())
	fmt.Printf("hits=%d  misses=%d  hit-rate=%.2f%%  entries=%d\n", st.Hits, st.Misses, hitRate, digest.Len())
}

// expensiveDigest stands in for a costly pure computation.
func expensiveDigest(k string, rounds int) string {
	sum := sha256.Sum256([]byte(k))
	for i := 1; i < rounds; i++ {
		sum = sha256.Sum256(sum[:])
	}
	return hex.EncodeToString(sum[:8])
}
