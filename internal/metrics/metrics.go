// OpportunityFeed - Personalized Feed Mixing and Cold-Start Recommendations
// Copyright 2026 The OpportunityFeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/athenahq/opportunityfeed

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for production observability:
// - API endpoint latency and throughput
// - Feed mixing throughput and per-pool candidate flow
// - Sponsored pacing and session store health
// - Cold-start evaluation outcomes
// - Event bus publishing

var (
	// API Endpoint Metrics
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

	// Feed Mixing Metrics
	FeedPagesMixed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_pages_mixed_total",
			Help: "Total number of feed pages assembled by the mixer",
		},
	)

	FeedMixDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feed_mix_duration_seconds",
			Help:    "Duration of a single feed mix in seconds",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		},
	)

	FeedPoolCandidates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_pool_candidates_total",
			Help: "Total number of candidates received per content pool",
		},
		[]string{"pool"},
	)

	FeedCandidatesDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_candidates_dropped_total",
			Help: "Total number of candidates dropped during normalization",
		},
		[]string{"pool", "reason"}, // "missing_id", "duplicate", "seen", "excluded"
	)

	FeedPoolFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_pool_failures_total",
			Help: "Total number of pool fetch failures degraded to empty pools",
		},
		[]string{"pool"},
	)

	FeedItemsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_items_served_total",
			Help: "Total number of feed items served per pool",
		},
		[]string{"pool"},
	)

	SponsoredImpressions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_sponsored_impressions_total",
			Help: "Total number of sponsored items served",
		},
	)

	ScoreClamps = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_score_clamps_total",
			Help: "Total number of non-finite or negative scores clamped to zero",
		},
	)

	// Cold-Start Metrics
	ColdStartEvaluations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coldstart_evaluations_total",
			Help: "Total number of cold-start evaluations",
		},
		[]string{"result"}, // "cold", "warm", "profile_missing"
	)

	ColdStartRecommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coldstart_recommendations_total",
			Help: "Total number of cold-start recommendations served per kind",
		},
		[]string{"kind"},
	)

	// Session Pacing Store Metrics
	PacingStoreOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_pacing_store_ops_total",
			Help: "Total number of pacing store operations",
		},
		[]string{"op", "status"}, // op: "get", "record"; status: "ok", "error"
	)

	PacingSessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "session_pacing_sessions_active",
			Help: "Current number of tracked pacing sessions (memory store only)",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Event Bus Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of events published to the bus",
		},
		[]string{"topic"},
	)

	EventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_consumed_total",
			Help: "Total number of events consumed from the bus",
		},
		[]string{"topic", "status"}, // status: "ok", "decode_error"
	)
)

// RecordAPIRequest records metrics for an API request.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments the active request gauge and returns a
// function to decrement it. Use with defer:
//
//	defer metrics.TrackActiveRequest()()
func TrackActiveRequest() func() {
	APIActiveRequests.Inc()
	return func() {
		APIActiveRequests.Dec()
	}
}

// RecordMix records metrics for a completed feed mix.
func RecordMix(duration time.Duration, served map[string]int, sponsored int) {
	FeedPagesMixed.Inc()
	FeedMixDuration.Observe(duration.Seconds())
	for pool, count := range served {
		FeedItemsServed.WithLabelValues(pool).Add(float64(count))
	}
	if sponsored > 0 {
		SponsoredImpressions.Add(float64(sponsored))
	}
}
