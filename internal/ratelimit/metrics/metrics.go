package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Denied         *prometheus.CounterVec
	FallbackChecks prometheus.Counter
	Degraded       prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Denied: f.NewCounterVec(prometheus.CounterOpts{
			Name: "brewleaf_ratelimit_denied_total",
			Help: "Requests rejected by the rate limiter, by endpoint class",
		}, []string{"class"}),
		FallbackChecks: f.NewCounter(prometheus.CounterOpts{
			Name: "brewleaf_ratelimit_fallback_checks_total",
			Help: "Checks answered by the in-process fallback store",
		}),
		Degraded: f.NewGauge(prometheus.GaugeOpts{
			Name: "brewleaf_ratelimit_degraded",
			Help: "1 while the shared rate limit store is bypassed",
		}),
	}
}

func (m *Metrics) IncrementDenied(class string) {
	if m == nil {
		return
	}
	m.Denied.WithLabelValues(class).Inc()
}

func (m *Metrics) IncrementFallback() {
	if m == nil {
		return
	}
	m.FallbackChecks.Inc()
}

func (m *Metrics) SetDegraded(degraded bool) {
	if m == nil {
		return
	}
	if degraded {
		m.Degraded.Set(1)
		return
	}
	m.Degraded.Set(0)
}
