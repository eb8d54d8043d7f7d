// Package telemetry exposes operational counters for the serving pipeline
// in Prometheus exposition format.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry        *prometheus.Registry
	scoreRequests   *prometheus.CounterVec
	persistFailures *prometheus.CounterVec
	scoreDuration   prometheus.Histogram
}

// New creates a Metrics with its own registry, so tests can hold isolated
// instances without tripping duplicate-registration panics.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		scoreRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "loanserve",
				Name:      "score_requests_total",
				Help:      "Total scoring requests by outcome",
			},
			[]string{"status"},
		),
		persistFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "loanserve",
				Name:      "persist_failures_total",
				Help:      "Store write failures by operation",
			},
			[]string{"op"},
		),
		scoreDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "loanserve",
				Name:      "score_duration_seconds",
				Help:      "Duration of inference plus persistence per request",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}

	m.registry.MustRegister(
		m.scoreRequests,
		m.persistFailures,
		m.scoreDuration,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *Metrics) ObserveScore(status string, elapsed time.Duration) {
	m.scoreRequests.WithLabelValues(status).Inc()
	m.scoreDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) PersistFailure(op string) {
	m.persistFailures.WithLabelValues(op).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}
