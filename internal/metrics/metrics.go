package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OutcomeSuccess labels successfully generated reports.
	OutcomeSuccess = "success"
	// OutcomeError labels failed report runs (pipeline or dependency issues).
	OutcomeError = "error"
)

var (
	reportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "survey_insights",
			Name:      "reports_total",
			Help:      "Total number of report runs handled, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	reportDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "survey_insights",
			Name:      "report_seconds",
			Help:      "Report generation latency in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 10},
		},
	)

	answersClassifiedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "survey_insights",
			Name:      "answers_classified_total",
			Help:      "Total number of answers classified, partitioned by category.",
		},
		[]string{"category"},
	)

	diagnosticsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "survey_insights",
			Name:      "data_quality_diagnostics_total",
			Help:      "Total number of data-quality diagnostics emitted, partitioned by kind.",
		},
		[]string{"kind"},
	)
)

// Register attaches the service collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		reportsTotal,
		reportDurationSeconds,
		answersClassifiedTotal,
		diagnosticsTotal,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveReport records a report run duration and outcome label.
func ObserveReport(duration time.Duration, outcome string) {
	label := outcome
	if label != OutcomeError {
		label = OutcomeSuccess
	}
	reportsTotal.WithLabelValues(label).Inc()
	if duration < 0 {
		duration = 0
	}
	reportDurationSeconds.Observe(duration.Seconds())
}

// CountAnswers bumps the classification counter for each tallied category.
func CountAnswers(counts map[string]int) {
	for category, n := range counts {
		answersClassifiedTotal.WithLabelValues(category).Add(float64(n))
	}
}

// CountDiagnostics bumps the diagnostics counter per kind.
func CountDiagnostics(kinds map[string]int) {
	for kind, n := range kinds {
		diagnosticsTotal.WithLabelValues(kind).Add(float64(n))
	}
}
