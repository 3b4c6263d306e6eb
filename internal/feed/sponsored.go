// OpportunityFeed - Personalized Feed Mixing and Cold-Start Recommendations
// Copyright 2026 The OpportunityFeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/athenahq/opportunityfeed

package feed

import (
	"strings"

	"github.com/athenahq/opportunityfeed/internal/metrics"
)

const (
	// personaBoost multiplies relevance when the ad targets the user's persona.
	personaBoost = 1.5

	// locationBoost multiplies relevance when the ad targets the user's location.
	locationBoost = 1.3

	// interestBoostPerMatch adds 10% relevance per overlapping interest.
	interestBoostPerMatch = 0.1

	// sponsoredRelevanceFloor drops sponsored items whose boosted score is
	// too low to be worth a paid slot.
	sponsoredRelevanceFloor = 0.05
)

// FilterSponsored re-scores sponsored items for the given user and orders
// them within the pool. Targeting matches multiply the decay-aware base
// score; an advertiser priority multiplier is applied last. Items below the
// relevance floor are dropped.
//
// A nil profile skips targeting boosts; base ordering still applies. The
// filter only orders the pool, it never decides insertion position.
func FilterSponsored(items []NormalizedItem, profile *UserProfile) []NormalizedItem {
	out := make([]NormalizedItem, 0, len(items))

	for _, it := range items {
		c := it.Candidate

		boost := 1.0
		if profile != nil {
			if profile.Persona != "" && containsFold(c.TargetPersonas, profile.Persona) {
				boost *= personaBoost
			}
			if profile.Location != "" && containsFold(c.TargetLocations, profile.Location) {
				boost *= locationBoost
			}
			if n := overlapFold(c.TargetInterests, profile.Interests); n > 0 {
				boost *= 1 + interestBoostPerMatch*float64(n)
			}
		}

		priority := c.PriorityMultiplier
		if priority <= 0 {
			priority = 1
		}

		it.Score = clampScore(it.ID, it.Score*boost*priority)
		if it.Score < sponsoredRelevanceFloor {
			metrics.FeedCandidatesDropped.WithLabelValues(PoolSponsored.String(), "low_relevance").Inc()
			continue
		}
		it.Reason = "Sponsored"
		out = append(out, it)
	}

	sortByScore(out)
	return out
}

// containsFold reports whether list contains s, case-insensitively.
func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(s)) {
			return true
		}
	}
	return false
}

// overlapFold counts case-insensitive overlap between two string lists.
func overlapFold(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, v := range a {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			set[v] = struct{}{}
		}
	}
	n := 0
	for _, v := range b {
		if _, ok := set[strings.ToLower(strings.TrimSpace(v))]; ok {
			n++
		}
	}
	return n
}
