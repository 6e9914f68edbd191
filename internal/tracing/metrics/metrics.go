package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for state transition commands.
type Metrics struct {
	Commands          *prometheus.CounterVec
	EnqueuedRequests  *prometheus.CounterVec
	EventEmitFailures prometheus.Counter
}

// New registers the command metrics on the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Commands: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "contactledger_commands_total",
			Help: "State transition commands by name and result code",
		}, []string{"command", "result"}),
		EnqueuedRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "contactledger_offchain_requests_enqueued_total",
			Help: "Offchain requests enqueued by kind",
		}, []string{"kind"}),
		EventEmitFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "contactledger_event_emit_failures_total",
			Help: "Ledger events that could not be emitted",
		}),
	}
}

func (m *Metrics) IncCommand(command, result string) {
	m.Commands.WithLabelValues(command, result).Inc()
}

func (m *Metrics) IncEnqueued(kind string) {
	m.EnqueuedRequests.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncEventEmitFailures() {
	m.EventEmitFailures.Inc()
}
