// Package stats exports container counters to Prometheus.
package stats

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/metailurini/ordered"
)

// Reporter is anything that can produce a Stats snapshot. Stats is called
// from the scrape goroutine, so it must be safe to call concurrently with
// the container's users: synced.Map and synced.Sharded are, and Published
// is for single-threaded containers.
type Reporter interface {
	Stats() ordered.Stats
}

// Published holds the most recent snapshot a single-threaded owner handed
// over. The zero value reports zero counters.
type Published struct {
	last atomic.Pointer[ordered.Stats]
}

// Publish replaces the reported snapshot.
func (p *Published) Publish(s ordered.Stats) {
	p.last.Store(&s)
}

// Stats implements Reporter.
func (p *Published) Stats() ordered.Stats {
	if s := p.last.Load(); s != nil {
		return *s
	}
	return ordered.Stats{}
}

var (
	label = []string{"container"}

	lenDesc = prometheus.NewDesc("ordered_entries",
		"Number of entries held by the container.", label, nil)
	nodesDesc = prometheus.NewDesc("ordered_nodes",
		"Number of nodes, or backing array slots, held by the container.", label, nil)
	heightDesc = prometheus.NewDesc("ordered_height",
		"Height of the container's structure.", label, nil)

	insertsDesc = prometheus.NewDesc("ordered_inserts_total",
		"Entries added.", label, nil)
	updatesDesc = prometheus.NewDesc("ordered_updates_total",
		"Existing entries overwritten.", label, nil)
	deletesDesc = prometheus.NewDesc("ordered_deletes_total",
		"Entries removed.", label, nil)
	splitsDesc = prometheus.NewDesc("ordered_splits_total",
		"Node splits.", label, nil)
	mergesDesc = prometheus.NewDesc("ordered_merges_total",
		"Node merges.", label, nil)
	rotationsDesc = prometheus.NewDesc("ordered_rotations_total",
		"Tree rotations.", label, nil)
	rebalancesDesc = prometheus.NewDesc("ordered_rebalances_total",
		"Other restructuring steps.", label, nil)
	allocFailuresDesc = prometheus.NewDesc("ordered_alloc_failures_total",
		"Operations refused by the allocator.", label, nil)
)

// Collector is a prometheus.Collector over a set of named containers.
type Collector struct {
	mu        sync.Mutex
	reporters map[string]Reporter
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{reporters: make(map[string]Reporter)}
}

// Register adds r under name. Names must be unique.
func (c *Collector) Register(name string, r Reporter) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.reporters[name]; ok {
		return errors.Errorf("stats: container %q already registered", name)
	}
	c.reporters[name] = r
	return nil
}

// Unregister removes name and reports whether it was registered.
func (c *Collector) Unregister(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.reporters[name]
	delete(c.reporters, name)
	return ok
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range []*prometheus.Desc{
		lenDesc, nodesDesc, heightDesc,
		insertsDesc, updatesDesc, deletesDesc,
		splitsDesc, mergesDesc, rotationsDesc, rebalancesDesc,
		allocFailuresDesc,
	} {
		ch <- d
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	names := make([]string, 0, len(c.reporters))
	for name := range c.reporters {
		names = append(names, name)
	}
	reporters := make([]Reporter, len(names))
	sort.Strings(names)
	for i, name := range names {
		reporters[i] = c.reporters[name]
	}
	c.mu.Unlock()

	for i, r := range reporters {
		name := names[i]
		s := r.Stats()
		gauge := func(d *prometheus.Desc, v int) {
			ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, float64(v), name)
		}
		counter := func(d *prometheus.Desc, v uint64) {
			ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v), name)
		}
		gauge(lenDesc, s.Len)
		gauge(nodesDesc, s.Nodes)
		gauge(heightDesc, s.Height)
		counter(insertsDesc, s.Inserts)
		counter(updatesDesc, s.Updates)
		counter(deletesDesc, s.Deletes)
		counter(splitsDesc, s.Splits)
		counter(mergesDesc, s.Merges)
		counter(rotationsDesc, s.Rotations)
		counter(rebalancesDesc, s.Rebalances)
		counter(allocFailuresDesc, s.AllocFailures)
	}
}
