// OpportunityFeed - Personalized Feed Mixing and Cold-Start Recommendations
// Copyright 2026 The OpportunityFeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/athenahq/opportunityfeed

package coldstart

import "github.com/athenahq/opportunityfeed/internal/feed"

// Suggestion is one onboarding checklist entry. Lower priority values
// come first.
type Suggestion struct {
	Step     string `json:"step"`
	Action   string `json:"action"`
	Priority int    `json:"priority"`
}

// OnboardingSuggestions builds the profile-completion checklist for a
// user. Steps are emitted in ascending priority order; a user with a
// complete, active profile gets none. A nil profile gets none either,
// there is nothing to suggest against.
func (d *Detector) OnboardingSuggestions(profile *feed.UserProfile) []Suggestion {
	if profile == nil {
		return nil
	}

	var suggestions []Suggestion

	// Profile completion
	if profile.Persona == "" {
		suggestions = append(suggestions, Suggestion{
			Step:     "Select your persona",
			Action:   "/onboarding/persona",
			Priority: 1,
		})
	}
	if profile.Bio == "" {
		suggestions = append(suggestions, Suggestion{
			Step:     "Add a bio",
			Action:   "/settings/profile",
			Priority: 2,
		})
	}
	if len(profile.Skills) < d.cfg.MinSkills {
		suggestions = append(suggestions, Suggestion{
			Step:     "Add your skills",
			Action:   "/settings/skills",
			Priority: 3,
		})
	}
	if !profile.AvatarSet {
		suggestions = append(suggestions, Suggestion{
			Step:     "Upload a profile photo",
			Action:   "/settings/profile",
			Priority: 4,
		})
	}

	// Social engagement
	if profile.FollowingCount < 5 {
		suggestions = append(suggestions, Suggestion{
			Step:     "Follow 5 people in your field",
			Action:   "/discover/people",
			Priority: 5,
		})
	}
	if profile.PostCount == 0 {
		suggestions = append(suggestions, Suggestion{
			Step:     "Create your first post",
			Action:   "/compose",
			Priority: 6,
		})
	}

	return suggestions
}
