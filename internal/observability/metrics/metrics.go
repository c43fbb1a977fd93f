package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "clinicasj"

// ChatMetrics exposes counters/histograms for assistant turns.
type ChatMetrics struct {
	turnsTotal    *prometheus.CounterVec
	modelLatency  *prometheus.HistogramVec
	fallbackTotal *prometheus.CounterVec
	bookingsTotal *prometheus.CounterVec
	commandsTotal *prometheus.CounterVec
}

func NewChatMetrics(reg prometheus.Registerer) *ChatMetrics {
	m := &ChatMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chat",
			Name:      "turns_total",
			Help:      "Assistant replies by the branch that produced them",
		}, []string{"source"}),
		modelLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "chat",
			Name:      "model_latency_seconds",
			Help:      "Latency of language model completions",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		}, []string{"outcome"}),
		fallbackTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chat",
			Name:      "fallback_total",
			Help:      "Replies served by the static knowledge responder after a model failure",
		}, []string{"reason"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chat",
			Name:      "booking_submissions_total",
			Help:      "Structured booking commands by outcome",
		}, []string{"status"}),
		commandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chat",
			Name:      "commands_total",
			Help:      "Model replies by detected command kind",
		}, []string{"kind"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.modelLatency, m.fallbackTotal, m.bookingsTotal, m.commandsTotal)
	return m
}

func (m *ChatMetrics) ObserveTurn(source string) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(source).Inc()
}

func (m *ChatMetrics) ObserveModelLatency(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.modelLatency.WithLabelValues(outcome).Observe(d.Seconds())
}

func (m *ChatMetrics) ObserveFallback(reason string) {
	if m == nil {
		return
	}
	m.fallbackTotal.WithLabelValues(reason).Inc()
}

func (m *ChatMetrics) ObserveBooking(status string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(status).Inc()
}

func (m *ChatMetrics) ObserveCommand(kind string) {
	if m == nil {
		return
	}
	m.commandsTotal.WithLabelValues(kind).Inc()
}

// IntakeMetrics exposes counters for the booking intake endpoint.
type IntakeMetrics struct {
	requestsTotal *prometheus.CounterVec
	forwardTotal  *prometheus.CounterVec
}

func NewIntakeMetrics(reg prometheus.Registerer) *IntakeMetrics {
	m := &IntakeMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "intake",
			Name:      "requests_total",
			Help:      "Booking intake requests by outcome",
		}, []string{"status"}),
		forwardTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "intake",
			Name:      "forward_total",
			Help:      "Forwarding attempts of accepted booking requests",
		}, []string{"forwarder", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requestsTotal, m.forwardTotal)
	return m
}

func (m *IntakeMetrics) ObserveRequest(status string) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(status).Inc()
}

func (m *IntakeMetrics) ObserveForward(forwarder string, ok bool) {
	if m == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "error"
	}
	m.forwardTotal.WithLabelValues(forwarder, status).Inc()
}
