package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestChatMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewChatMetrics(reg)
	m.ObserveTurn("model")
	m.ObserveTurn("model")
	m.ObserveTurn("fallback")
	m.ObserveModelLatency("ok", 1500*time.Millisecond)
	m.ObserveFallback("model_unavailable")
	m.ObserveBooking("confirmed")
	m.ObserveCommand("create_booking")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.turnsTotal.WithLabelValues("model")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.turnsTotal.WithLabelValues("fallback")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.bookingsTotal.WithLabelValues("confirmed")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.modelLatency))
}

func TestIntakeMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewIntakeMetrics(reg)
	m.ObserveRequest("accepted")
	m.ObserveForward("email", true)
	m.ObserveForward("queue", false)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.requestsTotal.WithLabelValues("accepted")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.forwardTotal.WithLabelValues("queue", "error")))
}

func TestMetricsNilSafe(t *testing.T) {
	var chat *ChatMetrics
	chat.ObserveTurn("model")
	chat.ObserveModelLatency("ok", time.Second)
	chat.ObserveFallback("timeout")
	chat.ObserveBooking("failed")
	chat.ObserveCommand("none")

	var intake *IntakeMetrics
	intake.ObserveRequest("invalid")
	intake.ObserveForward("email", false)
}
