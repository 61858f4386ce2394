package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "wikiquiz"

// Outcomes recorded for quiz generation.
const (
	OutcomeGenerated = "generated"
	OutcomeCached    = "cached"
	OutcomeFailed    = "failed"
)

// Metrics holds Prometheus metrics for the quiz API
type Metrics struct {
	Registry *prometheus.Registry

	RequestCounter   *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
	QuizGenerations  *prometheus.CounterVec
	ScoreSubmissions prometheus.Counter
}

// NewMetrics creates a new metrics instance on its own registry, so tests and
// multiple servers in one process never collide on registration.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		RequestCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		RequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_in_flight",
				Help:      "Number of requests currently being processed",
			},
		),
		QuizGenerations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "quiz",
				Name:      "generations_total",
				Help:      "Quiz generation requests by outcome",
			},
			[]string{"outcome"},
		),
		ScoreSubmissions: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "quiz",
				Name:      "score_submissions_total",
				Help:      "Number of stored quiz scores",
			},
		),
	}
}

// RecordGeneration counts one generation request. A nil receiver is a no-op.
func (m *Metrics) RecordGeneration(outcome string) {
	if m == nil {
		return
	}
	m.QuizGenerations.WithLabelValues(outcome).Inc()
}

// RecordScore counts one stored score. A nil receiver is a no-op.
func (m *Metrics) RecordScore() {
	if m == nil {
		return
	}
	m.ScoreSubmissions.Inc()
}
