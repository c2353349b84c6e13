package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks taste quiz usage.
type Metrics struct {
	Submissions  *prometheus.CounterVec
	EmptyResults prometheus.Counter
	SaveFailures prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Submissions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "brewleaf_quiz_submissions_total",
			Help: "Taste quiz submissions by category",
		}, []string{"category"}),
		EmptyResults: f.NewCounter(prometheus.CounterOpts{
			Name: "brewleaf_quiz_empty_results_total",
			Help: "Quiz submissions that matched no in-stock product",
		}),
		SaveFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "brewleaf_quiz_result_save_failures_total",
			Help: "Quiz results that could not be persisted",
		}),
	}
}

func (m *Metrics) ObserveSubmission(category string, results int) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(category).Inc()
	if results == 0 {
		m.EmptyResults.Inc()
	}
}

func (m *Metrics) IncrementSaveFailure() {
	if m == nil {
		return
	}
	m.SaveFailures.Inc()
}
