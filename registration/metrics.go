package registration

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricLabel = "metric"
)

var (
	evaluationCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cloudfit_evaluations_total",
		Help: "The total number of candidate poses evaluated.",
	})

	degenerateScoreCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cloudfit_degenerate_scores_total",
		Help: "The total number of scores that fell back to the maximal error.",
	}, []string{metricLabel})

	evaluationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cloudfit_evaluation_duration_seconds",
		Help:    "Time spent transforming, sampling and scoring one pose.",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
	})
)

func instrumentEvaluation(seconds float64) {
	evaluationCount.Inc()
	evaluationDuration.Observe(seconds)
}

func instrumentDegenerateScore(metric string) {
	degenerateScoreCount.
		With(prometheus.Labels{metricLabel: metric}).
		Inc()
}
