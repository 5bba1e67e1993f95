// Package monitoring exposes prometheus metrics for the assistant:
// turn outcomes, model call health, and undo activity. The metrics
// server in cmd serves them via promhttp.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the assistant's prometheus collectors. All methods
// are safe on a nil receiver so callers can run unmetered.
type Metrics struct {
	turns         *prometheus.CounterVec
	modelRequests prometheus.Counter
	modelFailures prometheus.Counter
	modelLatency  prometheus.Histogram
	undos         prometheus.Counter
}

// New registers the assistant's collectors with the default registry.
func New() *Metrics {
	return &Metrics{
		turns: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "larder_turns_total",
			Help: "Resolved conversational turns by action kind.",
		}, []string{"action"}),
		modelRequests: promauto.NewCounter(prometheus.CounterOpts{
			Name: "larder_model_requests_total",
			Help: "Requests sent to the external language model.",
		}),
		modelFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "larder_model_failures_total",
			Help: "External model calls that failed or returned no usable payload.",
		}),
		modelLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "larder_model_latency_seconds",
			Help:    "External model call latency.",
			Buckets: prometheus.DefBuckets,
		}),
		undos: promauto.NewCounter(prometheus.CounterOpts{
			Name: "larder_undo_total",
			Help: "Undo operations that reversed at least one entry.",
		}),
	}
}

// Turn records a resolved turn by action kind.
func (m *Metrics) Turn(action string) {
	if m == nil {
		return
	}
	m.turns.WithLabelValues(action).Inc()
}

// ModelRequest counts one model call attempt.
func (m *Metrics) ModelRequest() {
	if m == nil {
		return
	}
	m.modelRequests.Inc()
}

// ModelFailure counts one failed model call.
func (m *Metrics) ModelFailure() {
	if m == nil {
		return
	}
	m.modelFailures.Inc()
}

// ModelLatency observes one model call duration.
func (m *Metrics) ModelLatency(d time.Duration) {
	if m == nil {
		return
	}
	m.modelLatency.Observe(d.Seconds())
}

// UndoApplied counts one successful undo.
func (m *Metrics) UndoApplied() {
	if m == nil {
		return
	}
	m.undos.Inc()
}
