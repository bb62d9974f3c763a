package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the application metrics registry exposed on /api/metrics
var Registry = prometheus.NewRegistry()

var (
	// Custom histogram buckets optimized for API response times ranging from milliseconds to 30+ seconds
	CustomAPIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13, 21, 34, 55}

	factory = promauto.With(Registry)

	// HTTP Metrics
	HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_server_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"http_request_method"},
	)

	// Database Client Metrics
	DBRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_client_operation_duration_seconds",
			Help:    "Database client operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	DBRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_client_operation_total",
			Help: "Total number of database client operations",
		},
		[]string{"operation", "status"},
	)

	// Cache Metrics
	CacheHits = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_name"},
	)

	CacheMisses = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_name"},
	)

	// Storage Client Metrics
	ObjectStorageRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storage_client_operation_duration_seconds",
			Help:    "Storage client operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	ObjectStorageRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_client_operation_total",
			Help: "Total number of storage client operations",
		},
		[]string{"operation", "status"},
	)

	// Business Metrics
	MatchScoringDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mentormesh_match_scoring_duration_seconds",
			Help:    "Candidate scoring duration in seconds",
			Buckets: CustomAPIBuckets,
		},
	)

	MatchCandidatesReturned = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mentormesh_match_candidates_returned",
			Help:    "Number of candidates returned per scoring call",
			Buckets: []float64{0, 1, 3, 5, 10, 20, 50, 100},
		},
		[]string{"role"},
	)

	SuggestionsCreated = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mentormesh_suggestions_created_total",
			Help: "Total number of suggestions created",
		},
		[]string{"status"},
	)

	SuggestionResponses = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mentormesh_suggestion_responses_total",
			Help: "Total number of suggestion responses",
		},
		[]string{"decision", "status"},
	)

	MentorshipTransitions = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mentormesh_mentorship_transitions_total",
			Help: "Total number of mentorship status transitions",
		},
		[]string{"from_status", "to_status", "status"},
	)

	MessagesSent = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mentormesh_messages_sent_total",
			Help: "Total number of messages sent",
		},
		[]string{"channel", "status"},
	)

	AuthLoginRequests = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mentormesh_auth_login_requests_total",
			Help: "Total number of login requests",
		},
		[]string{"status"},
	)

	AuthVerifyRequests = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mentormesh_auth_verify_requests_total",
			Help: "Total number of login verifications",
		},
		[]string{"status"},
	)

	NotificationsDispatched = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mentormesh_notifications_dispatched_total",
			Help: "Total number of notification webhook dispatches",
		},
		[]string{"event", "status"},
	)

	// Infrastructure Metrics
	GoRoutines = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_goroutines",
			Help: "Number of goroutines",
		},
	)

	HeapAlloc = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_mem_heap_alloc_bytes",
			Help: "Heap allocated bytes",
		},
	)
)

func init() {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}

// RecordInfrastructureMetrics collects infrastructure metrics periodically
func RecordInfrastructureMetrics() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		for range ticker.C {
			var m runtime.MemStats
			runtime.ReadMemStats(&m)

			GoRoutines.Set(float64(runtime.NumGoroutine()))
			HeapAlloc.Set(float64(m.HeapAlloc))
		}
	}()
}

// MeasureDuration measures the duration of an operation
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}
