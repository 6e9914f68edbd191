package ledger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for ledger event delivery.
type Metrics struct {
	Published             *prometheus.CounterVec
	DeliveryFailures      prometheus.Counter
	CircuitBreakerDropped prometheus.Counter
	BufferDropped         prometheus.Counter
	CircuitBreakerState   prometheus.Gauge
}

// NewMetrics registers the ledger metrics on the default registry.
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.DefaultRegisterer)
}

func NewMetricsWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Published: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "contactledger_events_published_total",
			Help: "Ledger events delivered to the sink, by type",
		}, []string{"type"}),
		DeliveryFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "contactledger_events_delivery_failures_total",
			Help: "Ledger events the sink rejected",
		}),
		CircuitBreakerDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "contactledger_events_circuit_breaker_dropped_total",
			Help: "Ledger events dropped while the circuit breaker was open",
		}),
		BufferDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "contactledger_events_buffer_dropped_total",
			Help: "Ledger events dropped because the async buffer was full",
		}),
		CircuitBreakerState: factory.NewGauge(prometheus.GaugeOpts{
			Name: "contactledger_events_circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed/healthy, 1=open/unhealthy)",
		}),
	}
}

func (m *Metrics) IncPublished(t EventType) {
	m.Published.WithLabelValues(string(t)).Inc()
}

func (m *Metrics) IncDeliveryFailures() {
	m.DeliveryFailures.Inc()
}

func (m *Metrics) IncCircuitBreakerDropped() {
	m.CircuitBreakerDropped.Inc()
}

func (m *Metrics) IncBufferDropped() {
	m.BufferDropped.Inc()
}

func (m *Metrics) SetCircuitBreakerState(open bool) {
	if open {
		m.CircuitBreakerState.Set(1)
	} else {
		m.CircuitBreakerState.Set(0)
	}
}
