package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// SyncPushTotal counts per-record sync pushes by collection and outcome
	// (synced, failed, conflict, error).
	SyncPushTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_push_total",
			Help: "Total sync pushes by collection and outcome",
		},
		[]string{"collection", "outcome"},
	)

	// SyncPassDuration tracks the duration of a full reconciliation pass.
	SyncPassDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sync_pass_duration_seconds",
			Help:    "Duration of a full sync reconciliation pass in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// PendingRows is the number of rows still awaiting sync, per collection.
	PendingRows = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sync_pending_rows",
			Help: "Rows with pending sync status per collection",
		},
		[]string{"collection"},
	)

	// OptimizePrunedTotal counts rows removed by optimize runs, per collection.
	OptimizePrunedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "optimize_pruned_rows_total",
			Help: "Rows pruned by the optimize routine, by collection",
		},
		[]string{"collection"},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			RequestDuration,
			RequestTotal,
			SyncPushTotal,
			SyncPassDuration,
			PendingRows,
			OptimizePrunedTotal,
		)
	})
}

// NormalizePath reduces cardinality by replacing numeric path segments with {id}.
// E.g. /v1/assets/123 -> /v1/assets/{id}.
func NormalizePath(path string) string {
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request. Call from middleware with method, path, statusCode, duration.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}
