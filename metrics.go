package profiler

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/qqzhong/foundation-lib/promexport"
)

// Identifier returns the label an Engine was constructed with, for use by
// package promexport to distinguish multiple engines in one process.
func (e *Engine) Identifier() string { return e.identifier }

// PoolCapacity reports the total allocatable slot count (excluding the
// reserved null slot).
func (e *Engine) PoolCapacity() int { return e.poolCapacity() }

// PoolOccupied reports the number of currently-allocated (non-free) slots.
func (e *Engine) PoolOccupied() int { return e.poolOccupied() }

// registerPoolMetrics registers a promexport.Collector for e with
// registerer, at Initialize time when WithMetricsRegisterer was supplied.
func registerPoolMetrics(registerer prometheus.Registerer, e *Engine) error {
	return registerer.Register(promexport.NewCollector(e))
}
