// Package metrics exposes the Prometheus counters and histograms the
// server and executors update. Like package logging, the vector-index
// core itself is metrics-free -- instrumentation lives at the boundary
// where a query becomes a statement, not inside build/insert/scan.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every metric this server publishes, registered against
// its own prometheus.Registry rather than the global default so tests can
// construct disposable instances.
type Registry struct {
	reg *prometheus.Registry

	QueriesTotal     *prometheus.CounterVec
	QueryLatency     *prometheus.HistogramVec
	IndexScanTotal   *prometheus.CounterVec
	IndexScanLatency *prometheus.HistogramVec
}

func New() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Registry{
		reg: reg,
		QueriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "coraldb_queries_total",
			Help: "Total statements executed, by outcome.",
		}, []string{"outcome"}),
		QueryLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "coraldb_query_duration_seconds",
			Help:    "Statement execution latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"outcome"}),
		IndexScanTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "coraldb_index_scan_total",
			Help: "Total VectorIndexScan invocations, by index kind.",
		}, []string{"kind"}),
		IndexScanLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "coraldb_index_scan_duration_seconds",
			Help:    "VectorIndexScan latency, by index kind.",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
	}
}

// Gatherer exposes the underlying prometheus.Registry for wiring into an
// HTTP handler via promhttp.HandlerFor.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }
