// OpportunityFeed - Personalized Feed Mixing and Cold-Start Recommendations
// Copyright 2026 The OpportunityFeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/athenahq/opportunityfeed

// Package provider supplies content-pool and profile data sources for
// the feed service, plus the resilience wrapping around them.
package provider

import (
	"context"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/athenahq/opportunityfeed/internal/feed"
	"github.com/athenahq/opportunityfeed/internal/logging"
	"github.com/athenahq/opportunityfeed/internal/metrics"
)

// BreakerPoolProvider wraps a PoolProvider with one circuit breaker per
// content pool, so a single failing upstream pool cannot drag down the
// other three. An open breaker surfaces as a pool fetch error, which the
// feed service already degrades to an empty pool.
type BreakerPoolProvider struct {
	inner    feed.PoolProvider
	breakers map[feed.PoolType]*gobreaker.CircuitBreaker[[]feed.Candidate]
}

var _ feed.PoolProvider = (*BreakerPoolProvider)(nil)

// NewBreakerPoolProvider wraps inner with per-pool circuit breakers.
// Breakers open after a 60% failure rate over at least 10 requests in a
// one-minute window, and retry after 30 seconds.
func NewBreakerPoolProvider(inner feed.PoolProvider) *BreakerPoolProvider {
	breakers := make(map[feed.PoolType]*gobreaker.CircuitBreaker[[]feed.Candidate], len(feed.AllPools))
	for _, pool := range feed.AllPools {
		name := "pool-" + pool.String()
		metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

		breakers[pool] = gobreaker.NewCircuitBreaker[[]feed.Candidate](gobreaker.Settings{
			Name:        name,
			MaxRequests: 3,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				if counts.Requests < 10 {
					return false
				}
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return failureRatio >= 0.6
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				fromStr := stateToString(from)
				toStr := stateToString(to)
				logging.Warn().
					Str("breaker", name).
					Str("from", fromStr).
					Str("to", toStr).
					Msg("Pool circuit breaker state change")
				metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
				metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			},
		})
	}
	return &BreakerPoolProvider{inner: inner, breakers: breakers}
}

// Pool fetches candidates through the pool's circuit breaker.
func (p *BreakerPoolProvider) Pool(ctx context.Context, userID string, pool feed.PoolType, limit int) ([]feed.Candidate, error) {
	return p.breakers[pool].Execute(func() ([]feed.Candidate, error) {
		return p.inner.Pool(ctx, userID, pool, limit)
	})
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
