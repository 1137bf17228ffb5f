// Package promexport exposes profiling-pool occupancy as Prometheus
// metrics, for applications that already run a Prometheus registry and
// want pool exhaustion visible on the same dashboards as everything else.
package promexport

import "github.com/prometheus/client_golang/prometheus"

// StatsProvider is the narrow slice of *profiler.Engine's behavior
// Collector needs; satisfied directly by *profiler.Engine.
type StatsProvider interface {
	Identifier() string
	PoolCapacity() int
	PoolOccupied() int
}

// Collector is a prometheus.Collector reporting one engine's pool
// occupancy, labeled by its identifier so multiple engines in the same
// process don't collide.
type Collector struct {
	stats StatsProvider

	capacity *prometheus.Desc
	occupied *prometheus.Desc
}

// NewCollector returns a Collector for stats. Register it with a
// prometheus.Registerer, or pass the registerer directly to
// profiler.WithMetricsRegisterer instead.
func NewCollector(stats StatsProvider) *Collector {
	constLabels := prometheus.Labels{"identifier": stats.Identifier()}
	return &Collector{
		stats: stats,
		capacity: prometheus.NewDesc(
			"profiler_pool_capacity_records",
			"Number of allocatable record slots in the pool (excluding the reserved null slot).",
			nil, constLabels,
		),
		occupied: prometheus.NewDesc(
			"profiler_pool_occupied_records",
			"Number of record slots currently allocated (open spans plus undrained completed trees).",
			nil, constLabels,
		),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.capacity
	ch <- c.occupied
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(c.stats.PoolCapacity()))
	ch <- prometheus.MustNewConstMetric(c.occupied, prometheus.GaugeValue, float64(c.stats.PoolOccupied()))
}
