package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Sync metrics
	ShardHighWater = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "snaprag_shard_high_water",
			Help: "Last processed block height per shard",
		},
		[]string{"shard_id"},
	)

	ShardSyncStatus = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "snaprag_shard_sync_status",
			Help: "Per-shard sync status (1 = current value, 0 otherwise) by status label",
		},
		[]string{"shard_id", "status"},
	)

	PollIterationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snaprag_poll_iterations_total",
			Help: "Total number of shard poll iterations by shard and outcome",
		},
		[]string{"shard_id", "outcome"},
	)

	PollDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "snaprag_poll_duration_seconds",
			Help:    "Time taken for one GetBlocks RPC round trip",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"shard_id"},
	)

	// Batch/flush metrics
	BatchFlushDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "snaprag_batch_flush_duration_seconds",
			Help:    "Time taken to flush one batch to storage",
			Buckets: prometheus.DefBuckets,
		},
	)

	BatchRowsFlushed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snaprag_batch_rows_flushed_total",
			Help: "Total number of rows flushed by entity type",
		},
		[]string{"entity"},
	)

	BatchFlushErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snaprag_batch_flush_errors_total",
			Help: "Total number of failed batch flushes by error category",
		},
		[]string{"category"},
	)

	// Parser metrics
	MessagesParsedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snaprag_messages_parsed_total",
			Help: "Total number of messages parsed by message type",
		},
		[]string{"message_type"},
	)

	ParseWarningsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snaprag_parse_warnings_total",
			Help: "Total number of messages dropped as unsupported by reason",
		},
		[]string{"reason"},
	)

	// Embedding backfill metrics
	CastsWithoutEmbeddings = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "snaprag_casts_without_embeddings",
			Help: "Number of casts still missing a vector embedding",
		},
	)

	BackfillProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snaprag_backfill_processed_total",
			Help: "Total number of casts processed by the backfill engine by outcome",
		},
		[]string{"outcome"},
	)

	BackfillPageDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "snaprag_backfill_page_duration_seconds",
			Help:    "Time taken to embed and persist one backfill page",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Retrieval metrics
	RetrievalRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snaprag_retrieval_requests_total",
			Help: "Total number of retrieval queries by mode",
		},
		[]string{"mode"},
	)

	RetrievalLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "snaprag_retrieval_latency_seconds",
			Help:    "Retrieval query latency in seconds by mode",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mode"},
	)

	// API metrics
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snaprag_api_requests_total",
			Help: "Total number of API requests by route and status",
		},
		[]string{"route", "status"},
	)

	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "snaprag_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
)

func init() {
	prometheus.MustRegister(ShardHighWater)
	prometheus.MustRegister(ShardSyncStatus)
	prometheus.MustRegister(PollIterationsTotal)
	prometheus.MustRegister(PollDuration)

	prometheus.MustRegister(BatchFlushDuration)
	prometheus.MustRegister(BatchRowsFlushed)
	prometheus.MustRegister(BatchFlushErrorsTotal)

	prometheus.MustRegister(MessagesParsedTotal)
	prometheus.MustRegister(ParseWarningsTotal)

	prometheus.MustRegister(CastsWithoutEmbeddings)
	prometheus.MustRegister(BackfillProcessedTotal)
	prometheus.MustRegister(BackfillPageDuration)

	prometheus.MustRegister(RetrievalRequestsTotal)
	prometheus.MustRegister(RetrievalLatency)

	prometheus.MustRegister(APIRequestsTotal)
	prometheus.MustRegister(APIRequestDuration)
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	duration := time.Since(t.start).Seconds()
	histogram.Observe(duration)
}

// ObserveDurationVec records the duration to a histogram vec with labels.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	duration := time.Since(t.start).Seconds()
	histogram.WithLabelValues(labels...).Observe(duration)
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
