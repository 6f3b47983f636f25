// Package metrics exposes prometheus metrics for index builds, recommendation queries and HTTP traffic.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "metaboost"

// Query outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeNotReady = "not_ready"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

var (
	indexBuildsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_builds_total",
			Help:      "Total number of index builds",
		},
		[]string{"outcome"},
	)

	indexBuildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "index_build_duration_seconds",
			Help:      "Index build duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	indexDocuments = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "index_documents",
			Help:      "Number of documents in the published index",
		},
	)

	indexVocabularySize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "index_vocabulary_size",
			Help:      "Number of vocabulary terms in the published index",
		},
	)

	recommendQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommend_queries_total",
			Help:      "Total number of recommendation queries",
		},
		[]string{"mode", "outcome"},
	)

	recommendDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recommend_duration_seconds",
			Help:      "Recommendation query duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"mode"},
	)
)

func init() {
	prometheus.MustRegister(indexBuildsTotal)
	prometheus.MustRegister(indexBuildDuration)
	prometheus.MustRegister(indexDocuments)
	prometheus.MustRegister(indexVocabularySize)
	prometheus.MustRegister(recommendQueriesTotal)
	prometheus.MustRegister(recommendDuration)
}

// ObserveBuild records a finished index build. Gauges only move on success.
func ObserveBuild(d time.Duration, docs, vocabulary int, err error) {
	indexBuildDuration.Observe(d.Seconds())
	if err != nil {
		indexBuildsTotal.WithLabelValues(OutcomeError).Inc()
		return
	}
	indexBuildsTotal.WithLabelValues(OutcomeOK).Inc()
	indexDocuments.Set(float64(docs))
	indexVocabularySize.Set(float64(vocabulary))
}

// ObserveQuery records one recommendation query.
func ObserveQuery(mode, outcome string, d time.Duration) {
	if mode == "" {
		mode = "unknown"
	}
	recommendQueriesTotal.WithLabelValues(mode, outcome).Inc()
	recommendDuration.WithLabelValues(mode).Observe(d.Seconds())
}
