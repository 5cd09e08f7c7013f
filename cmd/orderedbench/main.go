// Command orderedbench runs a synthetic workload against the ordered
// containers, checks their invariants afterwards and reports throughput.
package main

import (
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/metailurini/ordered"
	"github.com/metailurini/ordered/internal/workload"
	"github.com/metailurini/ordered/stats"
)

// publishEvery is how many operations run between snapshots handed to the
// metrics collector.
const publishEvery = 1 << 16

type result struct {
	name     string
	elapsed  time.Duration
	refused  int
	stats    ordered.Stats
	peak     uint64
	bounded  bool
	verified error
}

// run drives one container through the workload.
func run(cfg *config, name string, published *stats.Published) result {
	var (
		alloc  = ordered.Heap()
		budget *ordered.Budget
	)
	if cfg.budgetBytes > 0 {
		budget = ordered.NewBudget(uintptr(cfg.budgetBytes))
		alloc = budget
	}
	t := containers[name](cfg, alloc)
	gen := workload.NewGenerator(cfg.distribution, cfg.Keys, cfg.WritePercent, int64(cfg.Seed))

	res := result{name: name}
	start := time.Now()
	for i := 0; i < cfg.Ops; i++ {
		op, key, value := gen.Next()
		switch op {
		case workload.OpPut:
			if err := t.put(key, value); err != nil {
				if !errors.Is(err, ordered.ErrOutOfMemory) {
					res.verified = err
					return res
				}
				res.refused++
			}
		case workload.OpDelete:
			t.del(key)
		case workload.OpGet:
			t.get(key)
		case workload.OpContains:
			t.contains(key)
		}
		if i%publishEvery == 0 {
			published.Publish(t.Stats())
		}
	}
	res.elapsed = time.Since(start)
	res.stats = t.Stats()
	published.Publish(res.stats)
	res.verified = t.Verify()

	if budget != nil {
		res.peak = uint64(budget.Peak())
		res.bounded = true
	}
	t.Clear()
	if budget != nil && budget.InUse() != 0 {
		res.verified = errors.Errorf("%d bytes still reserved after Clear", budget.InUse())
	}
	return res
}

func report(cfg *config, res result) {
	if res.verified != nil {
		log.Errorf("%s: %v", res.name, res.verified)
		return
	}
	perSec := float64(cfg.Ops) / res.elapsed.Seconds()
	log.Infof("%-9s %s ops in %v (%s ops/s), %s entries, %s nodes, height %d",
		res.name, humanize.Comma(int64(cfg.Ops)), res.elapsed.Round(time.Millisecond),
		humanize.Comma(int64(perSec)), humanize.Comma(int64(res.stats.Len)),
		humanize.Comma(int64(res.stats.Nodes)), res.stats.Height)
	if res.bounded {
		log.Infof("%-9s peak reservation %s, %s puts refused",
			res.name, humanize.IBytes(res.peak), humanize.Comma(int64(res.refused)))
	}
	log.Debugf("%-9s inserts=%d updates=%d deletes=%d splits=%d merges=%d rotations=%d rebalances=%d",
		res.name, res.stats.Inserts, res.stats.Updates, res.stats.Deletes,
		res.stats.Splits, res.stats.Merges, res.stats.Rotations, res.stats.Rebalances)
}

// realMain is the real main function for the utility. It is necessary to work
// around the fact that deferred functions do not run when os.Exit() is called.
func realMain() error {
	defer os.Stdout.Sync()

	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	setLogLevels(cfg.logLevel)
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	log.Infof("workload %s, %s ops over %s keys, %d%% writes, seed %d",
		cfg.distribution, humanize.Comma(int64(cfg.Ops)), humanize.Comma(int64(cfg.Keys)),
		cfg.WritePercent, cfg.Seed)

	collector := stats.NewCollector()
	published := make(map[string]*stats.Published, len(cfg.names))
	for _, name := range cfg.names {
		p := new(stats.Published)
		published[name] = p
		if err := collector.Register(name, p); err != nil {
			return err
		}
	}

	var srv *http.Server
	if cfg.MetricsListen != "" {
		reg := prometheus.NewRegistry()
		if err := reg.Register(collector); err != nil {
			return errors.Wrap(err, "registering collector")
		}
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv = &http.Server{Addr: cfg.MetricsListen, Handler: mux}
		go func() {
			log.Infof("serving metrics on %s", cfg.MetricsListen)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Errorf("metrics server: %v", err)
			}
		}()
	}

	failed := false
	for _, name := range cfg.names {
		res := run(cfg, name, published[name])
		report(cfg, res)
		failed = failed || res.verified != nil
	}

	if srv != nil {
		log.Infof("run finished, still serving metrics; interrupt to exit")
		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt)
		<-interrupt
		srv.Close()
	}

	if failed {
		return errors.New("invariant check failed")
	}
	return nil
}

func main() {
	// Work around defer not working after os.Exit()
	if err := realMain(); err != nil {
		os.Exit(1)
	}
}
