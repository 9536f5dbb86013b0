package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	filingsIngested *prometheus.CounterVec
	tradesInserted  prometheus.Counter
	errorsTotal     *prometheus.CounterVec
	cacheRequests   *prometheus.CounterVec
	queryDuration   *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		filingsIngested: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webapi_filings_ingested_total",
				Help: "Total number of insider filings consumed from Kafka",
			},
			[]string{"source"},
		),
		tradesInserted: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "webapi_trades_inserted_total",
				Help: "Total number of transactions written to storage",
			},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webapi_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		cacheRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webapi_cache_requests_total",
				Help: "Cache lookups partitioned by outcome",
			},
			[]string{"endpoint", "outcome"},
		),
		queryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "webapi_query_duration_seconds",
				Help:    "Duration of analytics queries in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordFilingIngested records a consumed insider filing.
func (r *Recorder) RecordFilingIngested(source string) {
	r.filingsIngested.WithLabelValues(source).Inc()
}

// RecordTradesInserted records transactions written to storage.
func (r *Recorder) RecordTradesInserted(n int) {
	r.tradesInserted.Add(float64(n))
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordCacheRequest records a cache lookup outcome (hit or miss).
func (r *Recorder) RecordCacheRequest(endpoint, outcome string) {
	r.cacheRequests.WithLabelValues(endpoint, outcome).Inc()
}

// RecordQueryDuration records analytics query latency in seconds.
func (r *Recorder) RecordQueryDuration(op string, seconds float64) {
	r.queryDuration.WithLabelValues(op).Observe(seconds)
}
