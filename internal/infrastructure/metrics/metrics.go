package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clipstream",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "clipstream",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	// Upload counters
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clipstream",
			Subsystem: "api",
			Name:      "uploads_total",
			Help:      "Total file uploads",
		},
		[]string{"content_type", "status"},
	)

	// Upload bytes counter
	UploadBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clipstream",
			Subsystem: "api",
			Name:      "upload_bytes_total",
			Help:      "Total bytes uploaded",
		},
		[]string{"content_type"},
	)

	// Media stream counters
	StreamsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clipstream",
			Subsystem: "api",
			Name:      "streams_total",
			Help:      "Total media stream responses",
		},
		[]string{"kind", "status"},
	)

	// Streamed bytes counter
	StreamBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clipstream",
			Subsystem: "api",
			Name:      "stream_bytes_total",
			Help:      "Total bytes streamed to clients",
		},
		[]string{"kind"},
	)

	// Record store operations counter
	StoreOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clipstream",
			Subsystem: "api",
			Name:      "store_operations_total",
			Help:      "Total record store operations",
		},
		[]string{"operation", "status"},
	)

	// Record store operation duration
	StoreOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "clipstream",
			Subsystem: "api",
			Name:      "store_operation_duration_seconds",
			Help:      "Record store operation duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"operation"},
	)
)

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

// RecordUpload records a file upload
func RecordUpload(contentType, status string, bytes int64) {
	UploadsTotal.WithLabelValues(contentType, status).Inc()
	if status == "success" {
		UploadBytesTotal.WithLabelValues(contentType).Add(float64(bytes))
	}
}

// RecordStream records a media stream response
func RecordStream(kind, status string, bytes int64) {
	StreamsTotal.WithLabelValues(kind, status).Inc()
	if bytes > 0 {
		StreamBytesTotal.WithLabelValues(kind).Add(float64(bytes))
	}
}

// RecordStoreOp records a record store operation
func RecordStoreOp(operation, status string, durationSec float64) {
	StoreOpsTotal.WithLabelValues(operation, status).Inc()
	StoreOpDuration.WithLabelValues(operation).Observe(durationSec)
}
