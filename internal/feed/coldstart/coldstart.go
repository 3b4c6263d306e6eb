// OpportunityFeed - Personalized Feed Mixing and Cold-Start Recommendations
// Copyright 2026 The OpportunityFeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/athenahq/opportunityfeed

// Package coldstart detects users without enough history for behavioral
// ranking and produces demographic recommendations for them.
package coldstart

import (
	"time"

	"github.com/athenahq/opportunityfeed/internal/feed"
	"github.com/athenahq/opportunityfeed/internal/metrics"
)

// Config controls cold-start detection thresholds.
type Config struct {
	// InteractionThreshold is the interaction count below which a recent
	// account is considered cold. Default: 10.
	InteractionThreshold int

	// AccountAgeWindow bounds how long a low-activity account stays cold.
	// Default: 336h (14 days).
	AccountAgeWindow time.Duration

	// MinSkills is the profile skill count below which a user is
	// considered cold regardless of activity. Default: 3.
	MinSkills int
}

// DefaultConfig returns the production detection thresholds.
func DefaultConfig() Config {
	return Config{
		InteractionThreshold: 10,
		AccountAgeWindow:     14 * 24 * time.Hour,
		MinSkills:            3,
	}
}

// Detector classifies users as cold-start and scores how cold they are.
type Detector struct {
	cfg Config
	now func() time.Time
}

// NewDetector creates a detector with the given thresholds.
func NewDetector(cfg Config) *Detector {
	return &Detector{cfg: cfg, now: time.Now}
}

// IsColdStart reports whether the user should be served demographic
// recommendations instead of behavioral ranking. A nil profile is always
// cold.
func (d *Detector) IsColdStart(profile *feed.UserProfile) bool {
	cold := d.isColdStart(profile)
	if cold {
		metrics.ColdStartEvaluations.WithLabelValues("cold").Inc()
	} else {
		metrics.ColdStartEvaluations.WithLabelValues("warm").Inc()
	}
	return cold
}

func (d *Detector) isColdStart(profile *feed.UserProfile) bool {
	if profile == nil {
		return true
	}
	if profile.InteractionCount == 0 {
		return true
	}
	if profile.Persona == "" || len(profile.Skills) < d.cfg.MinSkills {
		return true
	}
	if profile.InteractionCount < d.cfg.InteractionThreshold {
		if profile.AccountCreatedAt.IsZero() {
			return true
		}
		if d.now().Sub(profile.AccountCreatedAt) < d.cfg.AccountAgeWindow {
			return true
		}
	}
	return false
}

// Score rates how cold a user is on a 0-100 scale, higher meaning colder.
// Deductions accrue for profile completeness, interaction history, and
// account age; the result never increases when activity counters grow.
func (d *Detector) Score(profile *feed.UserProfile) int {
	if profile == nil {
		return 100
	}

	score := 100

	// Profile completeness
	if profile.Persona != "" {
		score -= 15
	}
	if profile.CurrentJobTitle != "" {
		score -= 10
	}
	if profile.Bio != "" {
		score -= 10
	}
	if len(profile.Skills) >= d.cfg.MinSkills {
		score -= 15
	}
	if len(profile.Skills) >= d.cfg.MinSkills+2 {
		score -= 10
	}

	// Interaction history
	if profile.LikeCount >= 5 {
		score -= 10
	}
	if profile.LikeCount >= 20 {
		score -= 10
	}
	if profile.PostCount >= 1 {
		score -= 5
	}
	if profile.CommentCount >= 5 {
		score -= 5
	}
	if profile.FollowingCount >= 5 {
		score -= 10
	}

	// Account age
	if !profile.AccountCreatedAt.IsZero() && d.now().Sub(profile.AccountCreatedAt) >= d.cfg.AccountAgeWindow {
		score -= 10
	}

	if score < 0 {
		score = 0
	}
	return score
}
