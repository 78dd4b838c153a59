// Package metrics exposes Prometheus collectors for indexing and search.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the service collectors on a private registry. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	documentsIndexed prometheus.Counter
	ingestFailures   *prometheus.CounterVec
	indexSize        prometheus.Gauge
	indexing         prometheus.Gauge
	searches         prometheus.Counter
	searchResults    prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		documentsIndexed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cuadro",
			Name:      "documents_indexed_total",
			Help:      "Documents added to the search index.",
		}),
		ingestFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cuadro",
			Name:      "ingest_failures_total",
			Help:      "Group pages that could not be retrieved or parsed.",
		}, []string{"reason"}),
		indexSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cuadro",
			Name:      "index_documents",
			Help:      "Documents currently in the index.",
		}),
		indexing: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cuadro",
			Name:      "indexing_in_progress",
			Help:      "1 while the index is being built.",
		}),
		searches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cuadro",
			Name:      "searches_total",
			Help:      "Search queries served.",
		}),
		searchResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cuadro",
			Name:      "search_results",
			Help:      "Number of results per search.",
			Buckets:   []float64{0, 1, 2, 5, 10, 23},
		}),
	}
	m.registry.MustRegister(
		m.documentsIndexed,
		m.ingestFailures,
		m.indexSize,
		m.indexing,
		m.searches,
		m.searchResults,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) DocumentIndexed(size int) {
	if m == nil {
		return
	}
	m.documentsIndexed.Inc()
	m.indexSize.Set(float64(size))
}

func (m *Metrics) IngestFailed(reason string) {
	if m == nil {
		return
	}
	m.ingestFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) IndexingStarted() {
	if m == nil {
		return
	}
	m.indexing.Set(1)
	m.indexSize.Set(0)
}

func (m *Metrics) IndexingFinished() {
	if m == nil {
		return
	}
	m.indexing.Set(0)
}

func (m *Metrics) Searched(results int) {
	if m == nil {
		return
	}
	m.searches.Inc()
	m.searchResults.Observe(float64(results))
}
