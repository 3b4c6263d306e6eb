// OpportunityFeed - Personalized Feed Mixing and Cold-Start Recommendations
// Copyright 2026 The OpportunityFeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/athenahq/opportunityfeed

package feed

import (
	"math"
	"sort"
	"time"

	"github.com/athenahq/opportunityfeed/internal/logging"
	"github.com/athenahq/opportunityfeed/internal/metrics"
)

const (
	// recencyDecayFloor keeps old high-engagement items orderable instead
	// of collapsing them all to zero.
	recencyDecayFloor = 0.01

	// recencyHalfLifeHours halves an item's score every 24 hours of age.
	recencyHalfLifeHours = 24.0

	commentWeight = 2.0
	shareWeight   = 3.0
)

// Normalize converts raw pool candidates into scored, deduplicated items.
//
// It drops candidates with a missing ID (logged, non-fatal), duplicates
// within the batch, and IDs the session has already seen. Scores are
// engagement weight times exponential recency decay, clamped finite and
// non-negative.
func Normalize(pool PoolType, candidates []Candidate, seen map[string]struct{}, now time.Time) []NormalizedItem {
	metrics.FeedPoolCandidates.WithLabelValues(pool.String()).Add(float64(len(candidates)))

	out := make([]NormalizedItem, 0, len(candidates))
	inBatch := make(map[string]struct{}, len(candidates))

	for _, c := range candidates {
		if c.ID == "" {
			logging.Warn().
				Str("pool", pool.String()).
				Str("title", c.Title).
				Msg("Dropping candidate with missing ID")
			metrics.FeedCandidatesDropped.WithLabelValues(pool.String(), "missing_id").Inc()
			continue
		}
		if _, dup := inBatch[c.ID]; dup {
			metrics.FeedCandidatesDropped.WithLabelValues(pool.String(), "duplicate").Inc()
			continue
		}
		inBatch[c.ID] = struct{}{}
		if _, ok := seen[c.ID]; ok {
			metrics.FeedCandidatesDropped.WithLabelValues(pool.String(), "seen").Inc()
			continue
		}

		out = append(out, NormalizedItem{
			ID:        c.ID,
			Pool:      pool,
			Kind:      c.Kind,
			Score:     clampScore(c.ID, engagementWeight(c)*recencyDecay(now.Sub(c.CreatedAt))),
			Reason:    defaultReason(pool, c),
			Candidate: c,
		})
	}

	return out
}

// engagementWeight weighs shares over comments over likes, with a base of 1
// so zero-engagement items still carry recency ordering.
func engagementWeight(c Candidate) float64 {
	return 1 + float64(c.Likes) + commentWeight*float64(c.Comments) + shareWeight*float64(c.Shares)
}

// recencyDecay returns the exponential age decay with a positive floor.
func recencyDecay(age time.Duration) float64 {
	hours := age.Hours()
	if hours < 0 {
		hours = 0
	}
	d := math.Exp(-hours * math.Ln2 / recencyHalfLifeHours)
	if d < recencyDecayFloor {
		return recencyDecayFloor
	}
	return d
}

// clampScore enforces the finite non-negative score invariant. Violations
// are clamped to zero and logged rather than propagated.
func clampScore(id string, score float64) float64 {
	if math.IsNaN(score) || math.IsInf(score, 0) || score < 0 {
		logging.Warn().
			Str("item_id", id).
			Float64("score", score).
			Msg("Clamping invalid score to zero")
		metrics.ScoreClamps.Inc()
		return 0
	}
	return score
}

// defaultReason explains why an item entered its pool.
func defaultReason(pool PoolType, c Candidate) string {
	switch pool {
	case PoolOrganic:
		if c.AuthorFollowed {
			return "From someone you follow"
		}
		return "Popular in your network"
	case PoolDiscovery:
		if c.Trending {
			return "Trending now"
		}
		return "Based on your interests"
	case PoolSponsored:
		return "Sponsored"
	case PoolOpportunity:
		switch c.Kind {
		case KindJob:
			return "Job opportunity"
		case KindCourse:
			return "Recommended learning"
		case KindEvent:
			return "Event for you"
		default:
			return "Opportunity for you"
		}
	default:
		return ""
	}
}

// sortByScore orders items score descending, ties broken by ID ascending.
// This is the single ordering rule used everywhere in the pipeline.
func sortByScore(items []NormalizedItem) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].ID < items[j].ID
	})
}
