// OpportunityFeed - Personalized Feed Mixing and Cold-Start Recommendations
// Copyright 2026 The OpportunityFeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/athenahq/opportunityfeed

package feed

import (
	"math"
	"testing"
	"time"
)

var testNow = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func TestNormalizeDropsMissingID(t *testing.T) {
	candidates := []Candidate{
		{ID: "", Title: "no id", CreatedAt: testNow},
		{ID: "a", CreatedAt: testNow},
	}

	out := Normalize(PoolOrganic, candidates, nil, testNow)

	if len(out) != 1 || out[0].ID != "a" {
		t.Errorf("got %d items, want only item a", len(out))
	}
}

func TestNormalizeDedupes(t *testing.T) {
	candidates := []Candidate{
		{ID: "a", Likes: 10, CreatedAt: testNow},
		{ID: "a", Likes: 99, CreatedAt: testNow},
		{ID: "b", CreatedAt: testNow},
	}

	out := Normalize(PoolOrganic, candidates, nil, testNow)

	if len(out) != 2 {
		t.Fatalf("got %d items, want 2", len(out))
	}
	// First occurrence wins.
	if out[0].ID != "a" || out[0].Candidate.Likes != 10 {
		t.Errorf("expected first occurrence of a to survive, got %+v", out[0])
	}
}

func TestNormalizeRemovesSeen(t *testing.T) {
	candidates := []Candidate{
		{ID: "a", CreatedAt: testNow},
		{ID: "b", CreatedAt: testNow},
		{ID: "c", CreatedAt: testNow},
	}
	seen := map[string]struct{}{"b": {}}

	out := Normalize(PoolOrganic, candidates, seen, testNow)

	if len(out) != 2 {
		t.Fatalf("got %d items, want 2", len(out))
	}
	for _, it := range out {
		if it.ID == "b" {
			t.Error("seen item b survived normalization")
		}
	}
}

func TestNormalizeScoreFavorsEngagement(t *testing.T) {
	candidates := []Candidate{
		{ID: "quiet", CreatedAt: testNow},
		{ID: "busy", Likes: 10, Comments: 5, Shares: 2, CreatedAt: testNow},
	}

	out := Normalize(PoolOrganic, candidates, nil, testNow)

	var quiet, busy float64
	for _, it := range out {
		switch it.ID {
		case "quiet":
			quiet = it.Score
		case "busy":
			busy = it.Score
		}
	}
	if busy <= quiet {
		t.Errorf("busy score %v should exceed quiet score %v", busy, quiet)
	}
	// likes=10, comments=5 (x2), shares=2 (x3), base 1 => 27 at zero age
	if busy != 27 {
		t.Errorf("busy score = %v, want 27", busy)
	}
}

func TestNormalizeRecencyDecay(t *testing.T) {
	candidates := []Candidate{
		{ID: "fresh", Likes: 10, CreatedAt: testNow},
		{ID: "day-old", Likes: 10, CreatedAt: testNow.Add(-24 * time.Hour)},
		{ID: "ancient", Likes: 10, CreatedAt: testNow.Add(-365 * 24 * time.Hour)},
	}

	out := Normalize(PoolOrganic, candidates, nil, testNow)

	scores := map[string]float64{}
	for _, it := range out {
		scores[it.ID] = it.Score
	}

	if scores["day-old"] >= scores["fresh"] {
		t.Errorf("day-old %v should score below fresh %v", scores["day-old"], scores["fresh"])
	}
	// One half-life halves the score.
	if got, want := scores["day-old"], scores["fresh"]/2; got < want*0.99 || got > want*1.01 {
		t.Errorf("day-old score = %v, want ~%v", got, want)
	}
	// Ancient items keep the floor, not zero.
	if scores["ancient"] <= 0 {
		t.Errorf("ancient score = %v, want > 0 (decay floor)", scores["ancient"])
	}
	if got, want := scores["ancient"], 11*recencyDecayFloor; got != want {
		t.Errorf("ancient score = %v, want floor %v", got, want)
	}
}

func TestNormalizeFutureTimestampTreatedAsFresh(t *testing.T) {
	candidates := []Candidate{
		{ID: "future", Likes: 4, CreatedAt: testNow.Add(2 * time.Hour)},
	}

	out := Normalize(PoolOrganic, candidates, nil, testNow)

	if out[0].Score != 5 {
		t.Errorf("future item score = %v, want 5 (no negative-age boost)", out[0].Score)
	}
}

func TestClampScore(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  float64
	}{
		{"nan", math.NaN(), 0},
		{"positive inf", math.Inf(1), 0},
		{"negative inf", math.Inf(-1), 0},
		{"negative", -4.2, 0},
		{"zero", 0, 0},
		{"positive", 3.5, 3.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clampScore("x", tt.score); got != tt.want {
				t.Errorf("clampScore(%v) = %v, want %v", tt.score, got, tt.want)
			}
		})
	}
}

func TestDefaultReasons(t *testing.T) {
	tests := []struct {
		name string
		pool PoolType
		c    Candidate
		want string
	}{
		{"followed author", PoolOrganic, Candidate{AuthorFollowed: true}, "From someone you follow"},
		{"network", PoolOrganic, Candidate{}, "Popular in your network"},
		{"trending", PoolDiscovery, Candidate{Trending: true}, "Trending now"},
		{"interests", PoolDiscovery, Candidate{}, "Based on your interests"},
		{"sponsored", PoolSponsored, Candidate{}, "Sponsored"},
		{"job", PoolOpportunity, Candidate{Kind: KindJob}, "Job opportunity"},
		{"course", PoolOpportunity, Candidate{Kind: KindCourse}, "Recommended learning"},
		{"event", PoolOpportunity, Candidate{Kind: KindEvent}, "Event for you"},
		{"other", PoolOpportunity, Candidate{Kind: KindPost}, "Opportunity for you"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := defaultReason(tt.pool, tt.c); got != tt.want {
				t.Errorf("defaultReason = %q, want %q", got, tt.want)
			}
		})
	}
}
