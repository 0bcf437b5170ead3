package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lims"

// Metrics owns its registry so tests can build as many instances as they like.
type Metrics struct {
	registry *prometheus.Registry

	importRows      *prometheus.CounterVec
	importChunks    *prometheus.CounterVec
	chunkDuration   *prometheus.HistogramVec
	rowsPerSecond   *prometheus.GaugeVec
	apiRequests     *prometheus.CounterVec
	apiLatency      *prometheus.HistogramVec
	apiInflight     prometheus.Gauge
	progressPublish *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		importRows: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_rows_total",
			Help:      "Import rows by kind and outcome (processed, skipped, rejected).",
		}, []string{"kind", "outcome"}),
		importChunks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_chunks_total",
			Help:      "Import chunk transactions by kind and status.",
		}, []string{"kind", "status"}),
		chunkDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "import_chunk_duration_seconds",
			Help:      "Wall time of one chunk transaction.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}, []string{"kind"}),
		rowsPerSecond: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "import_rows_per_second",
			Help:      "Throughput of the most recent import run per kind.",
		}, []string{"kind"}),
		apiRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		apiLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		apiInflight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "api_requests_inflight",
			Help:      "HTTP requests currently being served.",
		}),
		progressPublish: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_progress_events_total",
			Help:      "Chunk progress events by publish status.",
		}, []string{"status"}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) AddImportRows(kind, outcome string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.importRows.WithLabelValues(kind, outcome).Add(float64(n))
}

func (m *Metrics) ObserveChunk(kind, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.importChunks.WithLabelValues(kind, status).Inc()
	m.chunkDuration.WithLabelValues(kind).Observe(dur.Seconds())
}

func (m *Metrics) SetRowsPerSecond(kind string, rate float64) {
	if m == nil {
		return
	}
	m.rowsPerSecond.WithLabelValues(kind).Set(rate)
}

func (m *Metrics) IncProgressPublish(status string) {
	if m == nil {
		return
	}
	m.progressPublish.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route).Observe(dur.Seconds())
}

func (m *Metrics) APIInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) APIInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}
