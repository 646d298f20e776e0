// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	// Aggregation metrics
	AggregationCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aggregation_cache_hits_total",
			Help: "Total number of aggregation results served from cache",
		},
		[]string{"operation"},
	)

	AggregationCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aggregation_cache_misses_total",
			Help: "Total number of aggregation results computed against the store",
		},
		[]string{"operation"},
	)

	AggregationCacheInvalidations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aggregation_cache_invalidations_total",
			Help: "Total number of aggregation cache flushes caused by facility updates",
		},
	)

	// Facility update metrics
	FacilityUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "facility_updates_total",
			Help: "Total number of facility update attempts by outcome",
		},
		[]string{"outcome"}, // applied, invalid, not_found, store_error
	)

	// Marker projection metrics
	MarkersProjected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "map_markers_projected_total",
			Help: "Total number of markers produced by the projector",
		},
		[]string{"layer"},
	)

	MarkersSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "map_markers_skipped_total",
			Help: "Total number of records skipped during projection",
		},
		[]string{"layer", "reason"},
	)

	ClustersFormed = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "map_clusters_per_render",
			Help:    "Number of cluster glyphs produced per render",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)

	// Filter coordination metrics
	FilterGenerations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "filter_generations_total",
			Help: "Total number of filter changes that started a fan-out",
		},
	)

	FilterResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filter_results_total",
			Help: "Total number of fan-out results by kind and disposition",
		},
		[]string{"kind", "disposition"}, // applied, stale, error
	)

	// API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// WebSocket metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSMessagesReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_received_total",
			Help: "Total number of WebSocket messages received",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)

	// Circuit breaker metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Event metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "domain_events_published_total",
			Help: "Total number of domain events published",
		},
		[]string{"topic"},
	)

	EventsHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "domain_events_handled_total",
			Help: "Total number of domain events handled by result",
		},
		[]string{"topic", "result"},
	)
)

// RecordDBQuery records a database query metric.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks in-flight API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordCacheLookup counts an aggregation cache hit or miss.
func RecordCacheLookup(operation string, hit bool) {
	if hit {
		AggregationCacheHits.WithLabelValues(operation).Inc()
		return
	}
	AggregationCacheMisses.WithLabelValues(operation).Inc()
}

// RecordFacilityUpdate counts an update attempt by outcome.
func RecordFacilityUpdate(outcome string) {
	FacilityUpdates.WithLabelValues(outcome).Inc()
}

// RecordProjection counts projected and skipped markers for one layer.
func RecordProjection(layer string, projected int, skippedByReason map[string]int) {
	MarkersProjected.WithLabelValues(layer).Add(float64(projected))
	for reason, n := range skippedByReason {
		MarkersSkipped.WithLabelValues(layer, reason).Add(float64(n))
	}
}

// RecordFilterResult counts one fan-out result.
func RecordFilterResult(kind, disposition string) {
	FilterResults.WithLabelValues(kind, disposition).Inc()
}
