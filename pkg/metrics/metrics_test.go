package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Observe(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry(), "test")

	m.ObserveTransition("CREATED")
	m.ObserveTransition("CREATED")
	m.ObserveSlotConflict("artist")
	m.ObserveTxRetry()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BookingTransitions.WithLabelValues("CREATED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SlotConflicts.WithLabelValues("artist")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TxRetries))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveTransition("CREATED")
		m.ObserveSlotConflict("artist")
		m.ObserveTxRetry()
		m.ObserveNotifyFailure()
	})
}
