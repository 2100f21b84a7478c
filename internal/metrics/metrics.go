// Package metrics exposes keccache counters as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/calvinalkan/keccache/pkg/keccache"
)

// Source is the read side of a cache. *keccache.Cache satisfies it.
type Source interface {
	Stats() keccache.Stats
	Len() int
	Capacity() uint64
}

// Collector reads a Source on every scrape. It holds no counters of its own,
// so the cache stays the single source of truth.
type Collector struct {
	src Source

	lookups   *prometheus.Desc
	writes    *prometheus.Desc
	evictions *prometheus.Desc
	dropped   *prometheus.Desc
	bypasses  *prometheus.Desc
	entries   *prometheus.Desc
	capacity  *prometheus.Desc
}

// NewCollector creates a collector for src. Every metric carries the cache
// label, so several caches can share a registry.
func NewCollector(src Source, cache string) *Collector {
	constLabels := prometheus.Labels{"cache": cache}

	return &Collector{
		src: src,
		lookups: prometheus.NewDesc("keccache_lookups_total",
			"Table lookups by result and key size class", []string{"result", "size"}, constLabels),
		writes: prometheus.NewDesc("keccache_writes_total",
			"Digests published to the table", nil, constLabels),
		evictions: prometheus.NewDesc("keccache_evictions_total",
			"Writes that replaced a different key", nil, constLabels),
		dropped: prometheus.NewDesc("keccache_dropped_writes_total",
			"Misses whose write-back lost the slot claim", nil, constLabels),
		bypasses: prometheus.NewDesc("keccache_bypasses_total",
			"Calls that never touched the table", []string{"reason"}, constLabels),
		entries: prometheus.NewDesc("keccache_entries",
			"Occupied slots", nil, constLabels),
		capacity: prometheus.NewDesc("keccache_capacity",
			"Total slots", nil, constLabels),
	}
}

// Register creates a collector for src and registers it with reg.
func Register(reg prometheus.Registerer, src Source, cache string) (*Collector, error) {
	c := NewCollector(src, cache)

	err := reg.Register(c)
	if err != nil {
		return nil, err
	}

	return c, nil
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.lookups
	ch <- c.writes
	ch <- c.evictions
	ch <- c.dropped
	ch <- c.bypasses
	ch <- c.entries
	ch <- c.capacity
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()

	counter := func(desc *prometheus.Desc, v uint64, labels ...string) {
		ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, float64(v), labels...)
	}

	counter(c.lookups, s.Hits20, "hit", "20")
	counter(c.lookups, s.Hits32, "hit", "32")
	counter(c.lookups, remainder(s.Hits, s.Hits20, s.Hits32), "hit", "other")
	counter(c.lookups, s.Misses20, "miss", "20")
	counter(c.lookups, s.Misses32, "miss", "32")
	counter(c.lookups, remainder(s.Misses, s.Misses20, s.Misses32), "miss", "other")

	counter(c.writes, s.Writes)
	counter(c.evictions, s.Evictions)
	counter(c.dropped, s.Dropped)
	counter(c.bypasses, s.Empty, "empty")
	counter(c.bypasses, s.Oversized, "oversized")

	ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(c.src.Len()))
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(c.src.Capacity()))
}

// remainder returns total minus the per-class counts, clamped at zero. The
// counters are read one by one, so a class may briefly run ahead of its total.
func remainder(total, class20, class32 uint64) uint64 {
	if class20+class32 > total {
		return 0
	}

	return total - class20 - class32
}
