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
	// titleSkillBonus is awarded per profile skill found in the title.
	// Title matches weigh three times description matches.
	titleSkillBonus = 15.0

	// descriptionSkillBonus is awarded per profile skill found only in the
	// description.
	descriptionSkillBonus = 5.0

	// remoteMatchBonus rewards remote listings for remote-preferring users.
	remoteMatchBonus = 10.0

	// remoteMismatchPenalty penalizes on-site listings for remote-preferring
	// users.
	remoteMismatchPenalty = 5.0
)

// PersonalizeOpportunities re-ranks opportunity items for the given user.
//
// Items in the excluded set (already applied or enrolled) are removed before
// any ranking happens, so they can never resurface regardless of score.
// Skill matches are case-insensitive substring checks against title and
// description. A nil profile leaves base scores untouched.
func PersonalizeOpportunities(items []NormalizedItem, profile *UserProfile, excluded map[string]struct{}) []NormalizedItem {
	out := make([]NormalizedItem, 0, len(items))

	for _, it := range items {
		if _, ok := excluded[it.ID]; ok {
			metrics.FeedCandidatesDropped.WithLabelValues(PoolOpportunity.String(), "excluded").Inc()
			continue
		}

		if profile != nil {
			c := it.Candidate
			title := strings.ToLower(c.Title)
			desc := strings.ToLower(c.Description)

			score := it.Score
			for _, skill := range profile.Skills {
				s := strings.ToLower(strings.TrimSpace(skill))
				if s == "" {
					continue
				}
				switch {
				case strings.Contains(title, s):
					score += titleSkillBonus
				case strings.Contains(desc, s):
					score += descriptionSkillBonus
				}
			}

			if profile.RemotePreferred {
				if c.Remote {
					score += remoteMatchBonus
				} else {
					score -= remoteMismatchPenalty
				}
			}

			it.Score = clampScore(it.ID, score)
		}

		out = append(out, it)
	}

	sortByScore(out)
	return out
}
