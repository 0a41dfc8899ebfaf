// bunmem-load seeds a store with synthetic documents and drives a timed mixed
// workload through a bounded worker pool. It is the in-process half of the
// benchmark rig; orchestration and statistics beyond basic throughput live
// outside this repository.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kartikbazzad/bunmem"
	"github.com/kartikbazzad/bunmem/internal/config"
	"github.com/kartikbazzad/bunmem/internal/logger"
)

var statuses = []string{"active", "inactive", "pending"}
var regions = []string{"us-east", "us-west", "eu-central", "ap-south"}

type opStats struct {
	count    uint64
	duration uint64 // nanoseconds
}

func (s *opStats) record(start time.Time) {
	atomic.AddUint64(&s.count, 1)
	atomic.AddUint64(&s.duration, uint64(time.Since(start)))
}

func main() {
	configPath := flag.String("config", "", "Optional config file path")
	flag.Parse()

	cfg := config.DefaultConfig()
	if err := config.Load(*configPath, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Default()
	log.SetLevel(logger.ParseLevel(cfg.LogLevel))

	if cfg.Metrics.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			log.Info("metrics listening on %s", cfg.Metrics.ListenAddr)
			if err := http.ListenAndServe(cfg.Metrics.ListenAddr, mux); err != nil {
				log.Error("metrics listener failed: %v", err)
			}
		}()
	}

	store := bunmem.NewStore()

	seedStart := time.Now()
	seed(store, cfg, log)
	log.Info("seeded %d documents across %d collections in %s",
		cfg.Load.Documents, cfg.Load.Collections, time.Since(seedStart))

	workers := cfg.Load.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	pool, err := ants.NewPool(workers, ants.WithPanicHandler(func(v any) {
		log.Error("workload worker panic: %v", v)
	}))
	if err != nil {
		log.Error("failed to create worker pool: %v", err)
		os.Exit(1)
	}
	defer pool.Release()

	stats := map[string]*opStats{
		"find":      {},
		"insertOne": {},
		"updateOne": {},
		"count":     {},
		"aggregate": {},
		"deleteOne": {},
	}

	var wg sync.WaitGroup
	runStart := time.Now()

	// Each task gets its own rand source: collections serialize writers
	// internally, but rand.Rand is not safe for concurrent use.
	for i := 0; i < cfg.Load.Operations; i++ {
		taskSeed := cfg.Load.Seed + int64(i)
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			rng := rand.New(rand.NewSource(taskSeed))
			runOp(store, cfg, rng, stats)
		})
		if submitErr != nil {
			wg.Done()
			log.Warn("submit failed: %v", submitErr)
		}
	}
	wg.Wait()
	elapsed := time.Since(runStart)

	log.Info("ran %d operations in %s (%.0f ops/sec, %d workers)",
		cfg.Load.Operations, elapsed,
		float64(cfg.Load.Operations)/elapsed.Seconds(), workers)
	for name, s := range stats {
		count := atomic.LoadUint64(&s.count)
		if count == 0 {
			continue
		}
		mean := time.Duration(atomic.LoadUint64(&s.duration) / count)
		log.Info("  %-10s count=%-8d mean=%s", name, count, mean)
	}
	for _, name := range store.CollectionNames() {
		log.Info("  collection %s: %d documents", name, store.Collection(name).CountDocuments(nil))
	}
}

// seed fills the store with synthetic documents in InsertMany batches.
func seed(store *bunmem.Store, cfg *config.Config, log *logger.Logger) {
	rng := rand.New(rand.NewSource(cfg.Load.Seed))

	batch := make([]bunmem.Document, 0, cfg.Load.BatchSize)
	for i := 0; i < cfg.Load.Documents; i++ {
		batch = append(batch, syntheticDoc(rng, i))
		if len(batch) == cfg.Load.BatchSize || i == cfg.Load.Documents-1 {
			col := store.Collection(collectionName(rng.Intn(cfg.Load.Collections)))
			col.InsertMany(batch)
			batch = make([]bunmem.Document, 0, cfg.Load.BatchSize)
		}
	}

	// Registered up front the way real drivers do; deliberately has no
	// effect on query behavior.
	for i := 0; i < cfg.Load.Collections; i++ {
		name := store.Collection(collectionName(i)).CreateIndex(map[string]int{"user": 1})
		log.Debug("registered index %s on %s", name, collectionName(i))
	}
}

func collectionName(i int) string {
	return fmt.Sprintf("bench_%d", i)
}

func syntheticDoc(rng *rand.Rand, seq int) bunmem.Document {
	return bunmem.Document{
		"seq":    seq,
		"user":   fmt.Sprintf("user_%d", rng.Intn(1000)),
		"status": statuses[rng.Intn(len(statuses))],
		"region": regions[rng.Intn(len(regions))],
		"amount": rng.Float64() * 500,
		"items":  []interface{}{rng.Intn(10), rng.Intn(10)},
	}
}

func runOp(store *bunmem.Store, cfg *config.Config, rng *rand.Rand, stats map[string]*opStats) {
	col := store.Collection(collectionName(rng.Intn(cfg.Load.Collections)))
	user := fmt.Sprintf("user_%d", rng.Intn(1000))
	start := time.Now()

	switch p := rng.Intn(100); {
	case p < 40:
		col.Find(bunmem.Filter{"user": user}).
			Sort(bunmem.SortKey{Field: "amount", Direction: -1}).
			Limit(10).
			ToArray()
		stats["find"].record(start)
	case p < 60:
		col.InsertOne(syntheticDoc(rng, -1))
		stats["insertOne"].record(start)
	case p < 75:
		col.UpdateOne(
			bunmem.Filter{"user": user},
			map[string]interface{}{"$inc": map[string]interface{}{"hits": 1}},
		)
		stats["updateOne"].record(start)
	case p < 85:
		col.CountDocuments(bunmem.Filter{"status": statuses[rng.Intn(len(statuses))]})
		stats["count"].record(start)
	case p < 95:
		col.Aggregate(
			bunmem.MatchStage{Filter: bunmem.Filter{"amount": map[string]interface{}{"$gte": 100}}},
			bunmem.GroupStage{
				Key: "$status",
				Accumulators: map[string]bunmem.Accumulator{
					"count": {Op: bunmem.AccSum, Arg: 1},
					"total": {Op: bunmem.AccSum, Arg: "$amount"},
				},
			},
		).ToArray()
		stats["aggregate"].record(start)
	default:
		col.DeleteOne(bunmem.Filter{"user": user})
		stats["deleteOne"].record(start)
	}
}
