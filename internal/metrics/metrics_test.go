package metrics_test

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/keccache/internal/metrics"
	"github.com/calvinalkan/keccache/pkg/keccache"
)

type fakeSource struct {
	stats    keccache.Stats
	len      int
	capacity uint64
}

func (f fakeSource) Stats() keccache.Stats { return f.stats }
func (f fakeSource) Len() int              { return f.len }
func (f fakeSource) Capacity() uint64      { return f.capacity }

func Test_Collector_Exports_Stats_When_Scraped(t *testing.T) {
	t.Parallel()

	src := fakeSource{
		stats: keccache.Stats{
			Hits: 10, Misses: 6, Writes: 5, Evictions: 2, Dropped: 1,
			Empty: 3, Oversized: 4,
			Hits20: 7, Hits32: 2, Misses20: 1, Misses32: 1,
		},
		len:      5,
		capacity: 16,
	}

	reg := prometheus.NewRegistry()
	_, err := metrics.Register(reg, src, "test")
	require.NoError(t, err)

	expected := `
# HELP keccache_bypasses_total Calls that never touched the table
# TYPE keccache_bypasses_total counter
keccache_bypasses_total{cache="test",reason="empty"} 3
keccache_bypasses_total{cache="test",reason="oversized"} 4
# HELP keccache_capacity Total slots
# TYPE keccache_capacity gauge
keccache_capacity{cache="test"} 16
# HELP keccache_dropped_writes_total Misses whose write-back lost the slot claim
# TYPE keccache_dropped_writes_total counter
keccache_dropped_writes_total{cache="test"} 1
# HELP keccache_entries Occupied slots
# TYPE keccache_entries gauge
keccache_entries{cache="test"} 5
# HELP keccache_evictions_total Writes that replaced a different key
# TYPE keccache_evictions_total counter
keccache_evictions_total{cache="test"} 2
# HELP keccache_lookups_total Table lookups by result and key size class
# TYPE keccache_lookups_total counter
keccache_lookups_total{cache="test",result="hit",size="20"} 7
keccache_lookups_total{cache="test",result="hit",size="32"} 2
keccache_lookups_total{cache="test",result="hit",size="other"} 1
keccache_lookups_total{cache="test",result="miss",size="20"} 1
keccache_lookups_total{cache="test",result="miss",size="32"} 1
keccache_lookups_total{cache="test",result="miss",size="other"} 4
# HELP keccache_writes_total Digests published to the table
# TYPE keccache_writes_total counter
keccache_writes_total{cache="test"} 5
`

	err = testutil.GatherAndCompare(reg, strings.NewReader(expected))
	require.NoError(t, err)
}

func Test_Collector_Clamps_Other_Class_When_Snapshot_Skewed(t *testing.T) {
	t.Parallel()

	src := fakeSource{stats: keccache.Stats{Hits: 1, Hits20: 2}}

	reg := prometheus.NewRegistry()
	_, err := metrics.Register(reg, src, "skew")
	require.NoError(t, err)

	expected := `
# HELP keccache_lookups_total Table lookups by result and key size class
# TYPE keccache_lookups_total counter
keccache_lookups_total{cache="skew",result="hit",size="20"} 2
keccache_lookups_total{cache="skew",result="hit",size="32"} 0
keccache_lookups_total{cache="skew",result="hit",size="other"} 0
keccache_lookups_total{cache="skew",result="miss",size="20"} 0
keccache_lookups_total{cache="skew",result="miss",size="32"} 0
keccache_lookups_total{cache="skew",result="miss",size="other"} 0
`

	err = testutil.GatherAndCompare(reg, strings.NewReader(expected), "keccache_lookups_total")
	require.NoError(t, err)
}

func Test_Collector_Tracks_Live_Cache_When_Scraped_Repeatedly(t *testing.T) {
	t.Parallel()

	c, err := keccache.New(keccache.Options{Capacity: 64, TrackStats: true})
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	_, err = metrics.Register(reg, c, "live")
	require.NoError(t, err)

	// 6 lookup series, 2 bypass series and one each for the rest.
	require.Equal(t, 13, testutil.CollectAndCount(metrics.NewCollector(c, "live")))

	_ = c.Compute([]byte("abc"))
	_ = c.Compute([]byte("abc"))

	families, err := reg.Gather()
	require.NoError(t, err)

	values := map[string]float64{}

	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				values[mf.GetName()] += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				values[mf.GetName()] = m.GetGauge().GetValue()
			}
		}
	}

	require.InDelta(t, 2.0, values["keccache_lookups_total"], 0)
	require.InDelta(t, 1.0, values["keccache_writes_total"], 0)
	require.InDelta(t, 1.0, values["keccache_entries"], 0)
	require.InDelta(t, 64.0, values["keccache_capacity"], 0)
}

func Test_Register_Fails_When_Same_Cache_Label_Registered_Twice(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	src := fakeSource{capacity: 1}

	_, err := metrics.Register(reg, src, "dup")
	require.NoError(t, err)

	_, err = metrics.Register(reg, src, "dup")
	require.Error(t, err)
}
