package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Success labels for metrics
const (
	SuccessTrue  = "true"
	SuccessFalse = "false"
)

var (
	// HTTP request metrics
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ragpipe_http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint", "status_code"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ragpipe_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "endpoint", "status_code"})

	// Document loading metrics
	LoadDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ragpipe_load_duration_seconds",
		Help:    "Duration of document load operations in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"format", "success"})

	LoadRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ragpipe_load_requests_total",
		Help: "Total number of document load requests",
	}, []string{"format", "success"})

	RecordsLoaded = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ragpipe_records_loaded",
		Help:    "Number of records produced per loaded document",
		Buckets: []float64{1, 2, 5, 10, 20, 50, 100, 500},
	}, []string{"format"})

	// Splitting metrics
	SplitDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ragpipe_split_duration_seconds",
		Help:    "Duration of document split operations in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"success"})

	ChunksProduced = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ragpipe_chunks_produced",
		Help:    "Number of chunks produced per split operation",
		Buckets: []float64{1, 2, 5, 10, 20, 50, 100, 500, 1000},
	}, []string{})

	// Ingest metrics
	IngestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ragpipe_ingest_duration_seconds",
		Help:    "Duration of end-to-end ingest operations in seconds",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"success"})

	IngestRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ragpipe_ingest_requests_total",
		Help: "Total number of ingest requests",
	}, []string{"success"})

	DocumentsStored = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ragpipe_documents_total",
		Help: "Total number of documents stored in the system",
	}, []string{})

	// System metrics
	DatabaseSize = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ragpipe_database_size_bytes",
		Help: "Size of the database file in bytes",
	}, []string{})
)

// Helper functions for recording metrics with timing
func RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	status := prometheus.Labels{
		"method":      method,
		"endpoint":    endpoint,
		"status_code": strconv.Itoa(statusCode),
	}
	HTTPRequestDuration.With(status).Observe(duration.Seconds())
	HTTPRequestsTotal.With(status).Inc()
}

func RecordLoad(format string, duration time.Duration, success bool, recordCount int) {
	successLabel := SuccessFalse
	if success {
		successLabel = SuccessTrue
	}

	LoadDuration.WithLabelValues(format, successLabel).Observe(duration.Seconds())
	LoadRequestsTotal.WithLabelValues(format, successLabel).Inc()

	if success {
		RecordsLoaded.WithLabelValues(format).Observe(float64(recordCount))
	}
}

func RecordSplit(duration time.Duration, success bool, chunkCount int) {
	successLabel := SuccessFalse
	if success {
		successLabel = SuccessTrue
	}

	SplitDuration.WithLabelValues(successLabel).Observe(duration.Seconds())

	if success {
		ChunksProduced.WithLabelValues().Observe(float64(chunkCount))
	}
}

func RecordIngest(duration time.Duration, success bool) {
	successLabel := SuccessFalse
	if success {
		successLabel = SuccessTrue
	}

	IngestDuration.WithLabelValues(successLabel).Observe(duration.Seconds())
	IngestRequestsTotal.WithLabelValues(successLabel).Inc()
}

func UpdateDocumentCount(count int) {
	DocumentsStored.WithLabelValues().Set(float64(count))
}

func UpdateDatabaseSize(sizeBytes int64) {
	DatabaseSize.WithLabelValues().Set(float64(sizeBytes))
}
