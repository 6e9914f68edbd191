package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts command admission decisions.
type Metrics struct {
	Decisions     *prometheus.CounterVec
	StoreFailures prometheus.Counter
	FallbackMode  prometheus.Gauge
}

func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "contactledger_ratelimit_decisions_total",
			Help: "Signed command admission decisions",
		}, []string{"decision"}),
		StoreFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "contactledger_ratelimit_store_failures_total",
			Help: "Rate limit checks that failed against the primary store",
		}),
		FallbackMode: factory.NewGauge(prometheus.GaugeOpts{
			Name: "contactledger_ratelimit_fallback_mode",
			Help: "1 while rate limiting runs on the local fallback store",
		}),
	}
}

func (m *Metrics) IncAllowed() { m.Decisions.WithLabelValues("allowed").Inc() }

func (m *Metrics) IncDenied() { m.Decisions.WithLabelValues("denied").Inc() }

func (m *Metrics) IncStoreFailures() { m.StoreFailures.Inc() }

func (m *Metrics) SetFallback(on bool) {
	if on {
		m.FallbackMode.Set(1)
		return
	}
	m.FallbackMode.Set(0)
}
