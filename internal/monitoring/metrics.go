// internal/monitoring/metrics.go

// Package monitoring exposes run progress over HTTP: Prometheus
// counters on /metrics, a liveness probe on /healthz, and a JSON
// progress snapshot on /progress.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "evscout"

// Metrics holds the Prometheus instruments for one run. Counters are
// registered on a private registry so tests can build as many Metrics
// as they like without collisions.
type Metrics struct {
	registry *prometheus.Registry

	PagesFetched     *prometheus.CounterVec
	FetchErrors      *prometheus.CounterVec
	RecordsExtracted *prometheus.CounterVec
	RecordsAccepted  prometheus.Counter
	RecordsRejected  prometheus.Counter
	Duplicates       prometheus.Counter
	CheckpointSaves  prometheus.Counter
	SourcesCompleted prometheus.Counter
	SourcesSkipped   prometheus.Counter
	SourceDuration   *prometheus.HistogramVec
}

// NewMetrics builds a metrics set on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		PagesFetched: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_fetched_total",
			Help:      "Pages fetched per dealership source",
		}, []string{"source"}),
		FetchErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_errors_total",
			Help:      "Detail page fetches that failed after retries",
		}, []string{"source"}),
		RecordsExtracted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_extracted_total",
			Help:      "Vehicle records extracted per dealership source",
		}, []string{"source"}),
		RecordsAccepted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_accepted_total",
			Help:      "Records that passed validation",
		}),
		RecordsRejected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_rejected_total",
			Help:      "Records dropped by validation",
		}),
		Duplicates: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicates_removed_total",
			Help:      "Records collapsed by deduplication",
		}),
		CheckpointSaves: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkpoint_saves_total",
			Help:      "Successful checkpoint writes",
		}),
		SourcesCompleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sources_completed_total",
			Help:      "Dealership sources scraped to completion",
		}),
		SourcesSkipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sources_skipped_total",
			Help:      "Dealership sources skipped because a checkpoint marked them done",
		}),
		SourceDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "source_duration_seconds",
			Help:      "Wall time spent scraping one dealership source",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}, []string{"source"}),
	}
}

// Registry exposes the underlying registry for the HTTP server.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
