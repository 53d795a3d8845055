// Package metrics exposes Prometheus counters for seat validation and
// allocation outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "seatpicker"
	subsystem = "seating"
)

// Recorder is what the seat picker service reports into.
type Recorder interface {
	RecordVerdict(operation, verdict string)
	RecordAllocation(outcome string, partySize int)
	RecordOccupancy(occupied, total int)
}

// SeatingCollector handles all seating metrics
type SeatingCollector struct {
	verdictsTotal    *prometheus.CounterVec
	allocationsTotal *prometheus.CounterVec
	partySize        prometheus.Histogram
	occupiedSeats    prometheus.Gauge
	totalSeats       prometheus.Gauge
}

// NewSeatingCollector creates a new seating metrics collector
func NewSeatingCollector() *SeatingCollector {
	return &SeatingCollector{
		// Verdicts by operation (check, order) and verdict name
		verdictsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "verdicts_total",
				Help:      "Total number of selection verdicts by operation and verdict",
			},
			[]string{"operation", "verdict"},
		),

		// Allocation outcomes: strict, loose, no_capacity
		allocationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "allocations_total",
				Help:      "Total number of allocation requests by outcome",
			},
			[]string{"outcome"},
		),

		partySize: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "party_size",
				Help:      "Distribution of requested party sizes",
				Buckets:   []float64{1, 2, 3, 4, 5, 6, 8, 10},
			},
		),

		occupiedSeats: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "occupied_seats",
				Help:      "Seats currently occupied",
			},
		),

		totalSeats: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "total_seats",
				Help:      "Seats in the layout",
			},
		),
	}
}

// Register registers all seating metrics with the given registry.  A nil
// registry is a no-op so callers can run with metrics disabled.
func (c *SeatingCollector) Register(reg prometheus.Registerer) error {
	if reg == nil {
		return nil
	}

	metrics := []prometheus.Collector{
		c.verdictsTotal,
		c.allocationsTotal,
		c.partySize,
		c.occupiedSeats,
		c.totalSeats,
	}

	for _, metric := range metrics {
		if err := reg.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// RecordVerdict counts one validation outcome.
func (c *SeatingCollector) RecordVerdict(operation, verdict string) {
	c.verdictsTotal.WithLabelValues(operation, verdict).Inc()
}

// RecordAllocation counts one allocator outcome.
func (c *SeatingCollector) RecordAllocation(outcome string, partySize int) {
	c.allocationsTotal.WithLabelValues(outcome).Inc()
	c.partySize.Observe(float64(partySize))
}

// RecordOccupancy publishes the current fill level.
func (c *SeatingCollector) RecordOccupancy(occupied, total int) {
	c.occupiedSeats.Set(float64(occupied))
	c.totalSeats.Set(float64(total))
}
