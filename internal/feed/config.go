// OpportunityFeed - Personalized Feed Mixing and Cold-Start Recommendations
// Copyright 2026 The OpportunityFeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/athenahq/opportunityfeed

package feed

import "fmt"

// MixerConfig holds pool ratios and sponsored pacing constraints for the
// mixer. Values are plain data; the mixer never consults globals, so two
// mixes with equal inputs and equal configs produce identical pages.
type MixerConfig struct {
	// OrganicRatio is the target share of organic content per page.
	// Default: 0.45
	OrganicRatio float64 `json:"organicRatio"`

	// DiscoveryRatio is the target share of discovery content per page.
	// Default: 0.30
	DiscoveryRatio float64 `json:"discoveryRatio"`

	// SponsoredRatio is the target share of sponsored content per page.
	// Default: 0.10
	SponsoredRatio float64 `json:"sponsoredRatio"`

	// OpportunityRatio is the target share of opportunity content per page.
	// Default: 0.15
	OpportunityRatio float64 `json:"opportunityRatio"`

	// MaxConsecutiveSponsored is the maximum run of adjacent sponsored items.
	// Default: 1
	MaxConsecutiveSponsored int `json:"maxConsecutiveSponsored"`

	// MinPostsBetweenSponsored is the minimum number of non-sponsored items
	// between two sponsored items. The count carries across page boundaries
	// within a session.
	// Default: 4
	MinPostsBetweenSponsored int `json:"minPostsBetweenSponsored"`

	// MaxSponsoredPerSession caps sponsored impressions per session.
	// 0 disables sponsored content entirely.
	// Default: 10
	MaxSponsoredPerSession int `json:"maxSponsoredPerSession"`

	// SponsoredStartPosition is the first slot (0-based) eligible for a
	// sponsored item on the first page of a session.
	// Default: 3
	SponsoredStartPosition int `json:"sponsoredStartPosition"`

	// OpportunityInsertEvery guarantees at least one opportunity in every
	// window of this many consecutive slots while the pool has items.
	// Default: 6
	OpportunityInsertEvery int `json:"opportunityInsertEvery"`
}

// DefaultMixerConfig returns the product defaults for the opportunity feed.
func DefaultMixerConfig() MixerConfig {
	return MixerConfig{
		OrganicRatio:             0.45,
		DiscoveryRatio:           0.30,
		SponsoredRatio:           0.10,
		OpportunityRatio:         0.15,
		MaxConsecutiveSponsored:  1,
		MinPostsBetweenSponsored: 4,
		MaxSponsoredPerSession:   10,
		SponsoredStartPosition:   3,
		OpportunityInsertEvery:   6,
	}
}

// Validate checks ratios and pacing constraints.
func (c MixerConfig) Validate() error {
	sum := c.OrganicRatio + c.DiscoveryRatio + c.SponsoredRatio + c.OpportunityRatio
	for _, r := range []float64{c.OrganicRatio, c.DiscoveryRatio, c.SponsoredRatio, c.OpportunityRatio} {
		if r < 0 || r > 1 {
			return fmt.Errorf("pool ratios must be in [0,1], got %v", r)
		}
	}
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("pool ratios must sum to 1.0, got %v", sum)
	}
	if c.MaxConsecutiveSponsored < 1 {
		return fmt.Errorf("maxConsecutiveSponsored must be >= 1, got %d", c.MaxConsecutiveSponsored)
	}
	if c.MinPostsBetweenSponsored < 0 {
		return fmt.Errorf("minPostsBetweenSponsored must be >= 0, got %d", c.MinPostsBetweenSponsored)
	}
	if c.MaxSponsoredPerSession < 0 {
		return fmt.Errorf("maxSponsoredPerSession must be >= 0, got %d", c.MaxSponsoredPerSession)
	}
	if c.SponsoredStartPosition < 0 {
		return fmt.Errorf("sponsoredStartPosition must be >= 0, got %d", c.SponsoredStartPosition)
	}
	if c.OpportunityInsertEvery < 1 {
		return fmt.Errorf("opportunityInsertEvery must be >= 1, got %d", c.OpportunityInsertEvery)
	}
	return nil
}
