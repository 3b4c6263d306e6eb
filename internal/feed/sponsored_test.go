// OpportunityFeed - Personalized Feed Mixing and Cold-Start Recommendations
// Copyright 2026 The OpportunityFeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/athenahq/opportunityfeed

package feed

import (
	"testing"
)

func sponsoredItem(id string, score float64, c Candidate) NormalizedItem {
	c.ID = id
	return NormalizedItem{
		ID:        id,
		Pool:      PoolSponsored,
		Kind:      KindAd,
		Score:     score,
		Reason:    "Sponsored",
		Candidate: c,
	}
}

func TestFilterSponsoredPersonaBoost(t *testing.T) {
	profile := &UserProfile{Persona: "EARLY_CAREER"}
	items := []NormalizedItem{
		sponsoredItem("targeted", 10, Candidate{TargetPersonas: []string{"EARLY_CAREER"}}),
		sponsoredItem("untargeted", 10, Candidate{TargetPersonas: []string{"MENTOR"}}),
	}

	out := FilterSponsored(items, profile)

	if len(out) != 2 {
		t.Fatalf("got %d items, want 2", len(out))
	}
	if out[0].ID != "targeted" {
		t.Errorf("expected targeted ad first, got %q", out[0].ID)
	}
	if out[0].Score != 15 {
		t.Errorf("targeted score = %v, want 15 (10 x 1.5)", out[0].Score)
	}
	if out[1].Score != 10 {
		t.Errorf("untargeted score = %v, want 10", out[1].Score)
	}
}

func TestFilterSponsoredLocationBoost(t *testing.T) {
	profile := &UserProfile{Location: "Nairobi"}
	items := []NormalizedItem{
		sponsoredItem("local", 10, Candidate{TargetLocations: []string{"nairobi"}}),
	}

	out := FilterSponsored(items, profile)

	if out[0].Score != 13 {
		t.Errorf("score = %v, want 13 (10 x 1.3, case-insensitive match)", out[0].Score)
	}
}

func TestFilterSponsoredInterestOverlap(t *testing.T) {
	profile := &UserProfile{Interests: []string{"startup", "funding", "networking"}}
	items := []NormalizedItem{
		sponsoredItem("two-matches", 10, Candidate{TargetInterests: []string{"Startup", "Funding", "golf"}}),
	}

	out := FilterSponsored(items, profile)

	// 10 x (1 + 0.1*2) = 12
	if out[0].Score != 12 {
		t.Errorf("score = %v, want 12", out[0].Score)
	}
}

func TestFilterSponsoredPriorityMultiplier(t *testing.T) {
	items := []NormalizedItem{
		sponsoredItem("boosted", 10, Candidate{PriorityMultiplier: 2}),
		sponsoredItem("plain", 10, Candidate{}),
	}

	out := FilterSponsored(items, nil)

	if out[0].ID != "boosted" || out[0].Score != 20 {
		t.Errorf("expected boosted first with score 20, got %q score %v", out[0].ID, out[0].Score)
	}
	// Zero multiplier defaults to 1, not 0.
	if out[1].Score != 10 {
		t.Errorf("plain score = %v, want 10", out[1].Score)
	}
}

func TestFilterSponsoredNilProfileKeepsBaseOrder(t *testing.T) {
	items := []NormalizedItem{
		sponsoredItem("low", 1, Candidate{TargetPersonas: []string{"CREATOR"}}),
		sponsoredItem("high", 5, Candidate{}),
	}

	out := FilterSponsored(items, nil)

	if len(out) != 2 || out[0].ID != "high" {
		t.Errorf("expected base-score ordering with nil profile, got %+v", out)
	}
}

func TestFilterSponsoredRelevanceFloor(t *testing.T) {
	items := []NormalizedItem{
		sponsoredItem("stale", 0.01, Candidate{}),
		sponsoredItem("fine", 1, Candidate{}),
	}

	out := FilterSponsored(items, nil)

	if len(out) != 1 || out[0].ID != "fine" {
		t.Errorf("expected stale ad dropped below relevance floor, got %+v", out)
	}
}

func TestFilterSponsoredTieBreakByID(t *testing.T) {
	items := []NormalizedItem{
		sponsoredItem("b", 10, Candidate{}),
		sponsoredItem("a", 10, Candidate{}),
	}

	out := FilterSponsored(items, nil)

	if out[0].ID != "a" || out[1].ID != "b" {
		t.Errorf("expected ID-ascending tie break, got %q then %q", out[0].ID, out[1].ID)
	}
}

func TestOverlapFold(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want int
	}{
		{"empty", nil, nil, 0},
		{"disjoint", []string{"a"}, []string{"b"}, 0},
		{"case insensitive", []string{"Go", "Rust"}, []string{"go", "rust"}, 2},
		{"whitespace", []string{" go "}, []string{"go"}, 1},
		{"partial", []string{"a", "b", "c"}, []string{"b", "d"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := overlapFold(tt.a, tt.b); got != tt.want {
				t.Errorf("overlapFold = %d, want %d", got, tt.want)
			}
		})
	}
}
