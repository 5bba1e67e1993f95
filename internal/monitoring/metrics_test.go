package monitoring

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCountEachEventOnce(t *testing.T) {
	m := New()

	m.ModelRequest()
	m.ModelFailure()
	m.ModelLatency(10 * time.Millisecond)
	m.Turn("add_items")
	m.UndoApplied()

	assert.Equal(t, float64(1), testutil.ToFloat64(m.modelRequests))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.modelFailures))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.turns.WithLabelValues("add_items")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.undos))
}

func TestMetricsNilReceiverIsSafe(t *testing.T) {
	var m *Metrics

	m.Turn("none")
	m.ModelRequest()
	m.ModelFailure()
	m.ModelLatency(time.Second)
	m.UndoApplied()
}
