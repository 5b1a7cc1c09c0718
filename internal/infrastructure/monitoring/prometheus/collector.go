// Package prometheus exposes the service's operational metrics.
package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/radassist/report-engine/internal/config"
)

var httpDurationBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}

// Metrics holds every registered metric on its own registry so tests can
// build isolated instances.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	sentencesClassified *prometheus.CounterVec
	sentencesSaved      *prometheus.CounterVec
	mergeFailures       *prometheus.CounterVec
	cacheOps            *prometheus.CounterVec
}

// NewMetrics registers all collectors under cfg.Namespace.
func NewMetrics(cfg config.MetricsConfig) *Metrics {
	ns := cfg.Namespace
	if ns == "" {
		ns = "reporteng"
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: reg,
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration by method and route.",
			Buckets:   httpDurationBuckets,
		}, []string{"method", "route"}),
		sentencesClassified: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "sentences_classified_total",
			Help:      "Classified candidate sentences by outcome.",
		}, []string{"outcome"}),
		sentencesSaved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "sentences_saved_total",
			Help:      "Sentence save outcomes per batch item.",
		}, []string{"outcome"}),
		mergeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "merge_failures_total",
			Help:      "Structure merge verification failures by kind.",
		}, []string{"kind"}),
		cacheOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "profile_cache_ops_total",
			Help:      "Profile context cache operations by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.sentencesClassified,
		m.sentencesSaved,
		m.mergeFailures,
		m.cacheOps,
	)
	return m
}

// RecordClassification implements dedup.Recorder.
func (m *Metrics) RecordClassification(unique, duplicates, errors int) {
	m.sentencesClassified.WithLabelValues("unique").Add(float64(unique))
	m.sentencesClassified.WithLabelValues("duplicate").Add(float64(duplicates))
	m.sentencesClassified.WithLabelValues("error").Add(float64(errors))
}

// RecordSave implements dedup.Recorder.
func (m *Metrics) RecordSave(saved, skipped, missed int) {
	m.sentencesSaved.WithLabelValues("saved").Add(float64(saved))
	m.sentencesSaved.WithLabelValues("skipped").Add(float64(skipped))
	m.sentencesSaved.WithLabelValues("missed").Add(float64(missed))
}

// RecordMergeFailure counts a failed merge verification.  Kind is either
// "paragraph_count" or "title_mismatch".
func (m *Metrics) RecordMergeFailure(kind string) {
	m.mergeFailures.WithLabelValues(kind).Inc()
}

// RecordCacheOp counts a profile cache operation ("hit", "miss", "error").
func (m *Metrics) RecordCacheOp(result string) {
	m.cacheOps.WithLabelValues(result).Inc()
}

// ObserveHTTPRequest records one served request.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler returns the exposition endpoint handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
