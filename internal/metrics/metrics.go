// Package metrics exposes engine counters in the Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "resumematch"

type Metrics struct {
	Registry *prometheus.Registry

	Analyses     *prometheus.CounterVec
	MatchScores  prometheus.Histogram
	Fetches      *prometheus.CounterVec
	Documents    *prometheus.CounterVec
	UsageDenied  prometheus.Counter
	HTTPRequests *prometheus.CounterVec
}

// New builds a Metrics on its own registry so tests can create as many as
// they like.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Resume/job description analyses by entry point.",
		}, []string{"source"}),
		MatchScores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_score",
			Help:      "Distribution of match scores.",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),
		Fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_description_fetches_total",
			Help:      "Job description fetches by result.",
		}, []string{"result"}),
		Documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_parsed_total",
			Help:      "Uploaded documents by extension and result.",
		}, []string{"ext", "result"}),
		UsageDenied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "usage_denied_total",
			Help:      "Analyses refused by the daily usage limit.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status code.",
		}, []string{"method", "code"}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Analyses,
		m.MatchScores,
		m.Fetches,
		m.Documents,
		m.UsageDenied,
		m.HTTPRequests,
	)
	return m
}

// ObserveAnalysis records one analysis and its score.
func (m *Metrics) ObserveAnalysis(source string, score int) {
	if m == nil {
		return
	}
	m.Analyses.WithLabelValues(source).Inc()
	m.MatchScores.Observe(float64(score))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
