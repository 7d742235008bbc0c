// Package metrics exposes prometheus collectors for computation graph
// construction and reverse sweeps.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "aadmc"

// Collector groups the collectors updated by a tape.
// A nil *Collector is valid and records nothing.
type Collector struct {
	nodes         *prometheus.CounterVec
	sweeps        prometheus.Counter
	sweepDuration prometheus.Histogram
	sweepNodes    prometheus.Histogram
	spreadSamples prometheus.Histogram
}

// New creates a Collector and registers it on reg.
// Registering twice on the same registry panics, as with promauto.
func New(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		nodes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_total",
			Help:      "Values recorded on a tape, by producing operation.",
		}, []string{"op"}),
		sweeps: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweeps_total",
			Help:      "Reverse sweeps run.",
		}),
		sweepDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sweep_duration_seconds",
			Help:      "Wall time of a reverse sweep.",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 10),
		}),
		sweepNodes: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sweep_nodes",
			Help:      "Nodes visited by a reverse sweep.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		spreadSamples: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "call_spread_samples",
			Help:      "Samples falling inside the call spread of a smoothed choose.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
	}
}

// NodeCreated counts a value produced by op.
func (c *Collector) NodeCreated(op string) {
	if c == nil {
		return
	}
	c.nodes.WithLabelValues(op).Inc()
}

// SweepFinished records one reverse sweep.
func (c *Collector) SweepFinished(nodes int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.sweeps.Inc()
	c.sweepNodes.Observe(float64(nodes))
	c.sweepDuration.Observe(elapsed.Seconds())
}

// CallSpreadSamples records how many samples a choose smoothed.
func (c *Collector) CallSpreadSamples(n int) {
	if c == nil {
		return
	}
	c.spreadSamples.Observe(float64(n))
}
