// Package metrics exports canonical-search statistics to Prometheus.
//
// A Collector implements canon.Observer; install it with canon.WithObserver
// and register it once per process:
//
//	reg := prometheus.NewRegistry()
//	col, err := metrics.NewCollector(reg)
//	res, err := canon.Canonicalize(ctx, a, canon.WithObserver(col))
package metrics

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/katalvlaran/oacanon/canon"
)

const (
	namespace = "oacanon"
	subsystem = "canon"
)

// Search outcome label values.
const (
	StatusOK       = "ok"
	StatusBudget   = "budget_exceeded"
	StatusRejected = "error"
)

// Collector holds the Prometheus metrics of the canonical search.
type Collector struct {
	searches      *prometheus.CounterVec // by status
	inFlight      prometheus.Gauge
	nodes         prometheus.Counter
	leaves        prometheus.Counter
	pruned        *prometheus.CounterVec // by kind: prefix, orbit
	automorphisms prometheus.Counter
	duration      prometheus.Histogram
	arrayCells    prometheus.Histogram
}

// NewCollector creates the search metrics and registers them with reg.
// A nil reg registers with prometheus.DefaultRegisterer.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &Collector{
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "searches_total",
			Help:      "Canonical searches finished, by status",
		}, []string{"status"}), // ok, budget_exceeded, error

		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "searches_in_flight",
			Help:      "Canonical searches currently running",
		}),

		nodes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "nodes_total",
			Help:      "Search-tree nodes visited",
		}),

		leaves: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "leaves_total",
			Help:      "Discrete leaves evaluated",
		}),

		pruned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "pruned_total",
			Help:      "Subtrees cut, by pruning kind",
		}, []string{"kind"}), // prefix, orbit

		automorphisms: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "automorphisms_total",
			Help:      "Automorphisms recorded during search",
		}),

		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "search_duration_seconds",
			Help:      "Wall-clock time of one canonical search",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10), // 100µs to ~26s
		}),

		arrayCells: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "array_cells",
			Help:      "Size N·k of arrays submitted for canonicalization",
			Buckets:   prometheus.ExponentialBuckets(4, 4, 8),
		}),
	}

	for _, m := range []prometheus.Collector{
		c.searches, c.inFlight, c.nodes, c.leaves,
		c.pruned, c.automorphisms, c.duration, c.arrayCells,
	} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// OnSearchStart implements canon.Observer.
func (c *Collector) OnSearchStart(_ context.Context, rows, cols int) {
	if c == nil {
		return
	}
	c.inFlight.Inc()
	c.arrayCells.Observe(float64(rows * cols))
}

// OnSearchComplete implements canon.Observer.
func (c *Collector) OnSearchComplete(_ context.Context, s canon.Stats, err error) {
	if c == nil {
		return
	}
	c.inFlight.Dec()
	c.searches.WithLabelValues(Status(err)).Inc()
	c.nodes.Add(float64(s.Nodes))
	c.leaves.Add(float64(s.Leaves))
	c.pruned.WithLabelValues("prefix").Add(float64(s.Pruned))
	c.pruned.WithLabelValues("orbit").Add(float64(s.OrbitPruned))
	c.automorphisms.Add(float64(s.Automorphisms))
	c.duration.Observe(s.Elapsed.Seconds())
}

// Status maps a search error to its status label.
func Status(err error) string {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, canon.ErrSearchBudgetExceeded):
		return StatusBudget
	}

	return StatusRejected
}

var _ canon.Observer = (*Collector)(nil)
