package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the notification processor.
type Metrics struct {
	Passes          *prometheus.CounterVec
	RequestsApplied *prometheus.CounterVec
	ApplyFailures   *prometheus.CounterVec
	Checkpoint      prometheus.Gauge
	PassDuration    prometheus.Histogram
	BatchSize       prometheus.Histogram
}

// New registers the processor metrics on the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Passes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "contactledger_ocw_passes_total",
			Help: "Processor passes by outcome",
		}, []string{"outcome"}),
		RequestsApplied: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "contactledger_ocw_requests_applied_total",
			Help: "Offchain requests applied by kind",
		}, []string{"kind"}),
		ApplyFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "contactledger_ocw_apply_failures_total",
			Help: "Offchain requests that failed to apply, by kind",
		}, []string{"kind"}),
		Checkpoint: factory.NewGauge(prometheus.GaugeOpts{
			Name: "contactledger_ocw_checkpoint",
			Help: "Last committed processor checkpoint",
		}),
		PassDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "contactledger_ocw_pass_duration_seconds",
			Help:    "Duration of processor passes that held the lock",
			Buckets: prometheus.DefBuckets,
		}),
		BatchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "contactledger_ocw_batch_size",
			Help:    "Requests per drained batch",
			Buckets: []float64{0, 1, 5, 10, 50, 100, 500, 1000, 5000},
		}),
	}
}

func (m *Metrics) IncPass(outcome string) {
	m.Passes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncApplied(kind string) {
	m.RequestsApplied.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncApplyFailure(kind string) {
	m.ApplyFailures.WithLabelValues(kind).Inc()
}

func (m *Metrics) SetCheckpoint(epoch uint64) {
	m.Checkpoint.Set(float64(epoch))
}

func (m *Metrics) ObservePassDuration(seconds float64) {
	m.PassDuration.Observe(seconds)
}

func (m *Metrics) ObserveBatchSize(n int) {
	m.BatchSize.Observe(float64(n))
}
