// OpportunityFeed - Personalized Feed Mixing and Cold-Start Recommendations
// Copyright 2026 The OpportunityFeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/athenahq/opportunityfeed

// Package feed implements the personalized feed pipeline: candidate
// normalization, sponsored filtering, opportunity personalization, and
// deterministic page mixing with session-wide sponsored pacing.
package feed

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// PoolType identifies one of the four content pools the mixer interleaves.
type PoolType int

const (
	// PoolOrganic holds content from the user's network.
	PoolOrganic PoolType = iota

	// PoolDiscovery holds trending and interest-based content.
	PoolDiscovery

	// PoolSponsored holds paid placements subject to pacing constraints.
	PoolSponsored

	// PoolOpportunity holds jobs, courses, and events.
	PoolOpportunity
)

// AllPools lists every pool in mixing preference order.
var AllPools = []PoolType{PoolOrganic, PoolDiscovery, PoolSponsored, PoolOpportunity}

// String returns the wire name of the pool.
func (p PoolType) String() string {
	switch p {
	case PoolOrganic:
		return "organic"
	case PoolDiscovery:
		return "discovery"
	case PoolSponsored:
		return "sponsored"
	case PoolOpportunity:
		return "opportunity"
	default:
		return fmt.Sprintf("unknown(%d)", int(p))
	}
}

// ParsePoolType converts a wire name to a PoolType.
func ParsePoolType(s string) (PoolType, error) {
	switch s {
	case "organic":
		return PoolOrganic, nil
	case "discovery":
		return PoolDiscovery, nil
	case "sponsored":
		return PoolSponsored, nil
	case "opportunity":
		return PoolOpportunity, nil
	default:
		return 0, fmt.Errorf("unknown pool type %q", s)
	}
}

// MarshalJSON serializes the pool as its wire name.
func (p PoolType) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON parses the pool from its wire name.
func (p *PoolType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParsePoolType(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ContentKind identifies what a candidate represents.
type ContentKind int

const (
	// KindPost is a regular social post.
	KindPost ContentKind = iota

	// KindJob is a job listing.
	KindJob

	// KindCourse is a learning course.
	KindCourse

	// KindEvent is an event listing.
	KindEvent

	// KindAd is a sponsored creative.
	KindAd
)

// String returns the wire name of the content kind.
func (k ContentKind) String() string {
	switch k {
	case KindPost:
		return "POST"
	case KindJob:
		return "JOB"
	case KindCourse:
		return "COURSE"
	case KindEvent:
		return "EVENT"
	case KindAd:
		return "AD"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(k))
	}
}

// ParseContentKind converts a wire name to a ContentKind.
func ParseContentKind(s string) (ContentKind, error) {
	switch s {
	case "POST":
		return KindPost, nil
	case "JOB":
		return KindJob, nil
	case "COURSE":
		return KindCourse, nil
	case "EVENT":
		return KindEvent, nil
	case "AD":
		return KindAd, nil
	default:
		return 0, fmt.Errorf("unknown content kind %q", s)
	}
}

// MarshalJSON serializes the kind as its wire name.
func (k ContentKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON parses the kind from its wire name.
func (k *ContentKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseContentKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Candidate is a raw item fetched from a content pool before normalization.
type Candidate struct {
	ID          string      `json:"id"`
	Kind        ContentKind `json:"kind"`
	Title       string      `json:"title,omitempty"`
	Description string      `json:"description,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`

	// Engagement counters
	Likes    int `json:"likes,omitempty"`
	Comments int `json:"comments,omitempty"`
	Shares   int `json:"shares,omitempty"`

	// Organic/discovery signals
	AuthorFollowed bool `json:"author_followed,omitempty"`
	Trending       bool `json:"trending,omitempty"`

	// Sponsored targeting
	TargetPersonas     []string `json:"target_personas,omitempty"`
	TargetLocations    []string `json:"target_locations,omitempty"`
	TargetInterests    []string `json:"target_interests,omitempty"`
	PriorityMultiplier float64  `json:"priority_multiplier,omitempty"`

	// Opportunity attributes
	RequiredSkills []string `json:"required_skills,omitempty"`
	Remote         bool     `json:"remote,omitempty"`

	// Payload is the opaque content body passed through to clients.
	Payload interface{} `json:"payload,omitempty"`
}

// NormalizedItem is a candidate after normalization: unique within its pool,
// unseen by the session, with a finite non-negative score.
type NormalizedItem struct {
	ID        string
	Pool      PoolType
	Kind      ContentKind
	Score     float64
	Reason    string
	Candidate Candidate
}

// MixedItem is one slot of an assembled feed page.
type MixedItem struct {
	ID     string      `json:"id"`
	Pool   PoolType    `json:"type"`
	Kind   ContentKind `json:"contentType"`
	Score  float64     `json:"score"`
	Reason string      `json:"reason,omitempty"`
	Data   interface{} `json:"data,omitempty"`
}

// PageMeta summarizes page composition and degraded pools.
type PageMeta struct {
	OrganicCount     int      `json:"organicCount"`
	DiscoveryCount   int      `json:"discoveryCount"`
	SponsoredCount   int      `json:"sponsoredCount"`
	OpportunityCount int      `json:"opportunityCount"`
	FailedPools      []string `json:"failedPools,omitempty"`
}

// Page is one assembled feed page.
type Page struct {
	Items   []MixedItem `json:"items"`
	HasMore bool        `json:"hasMore"`
	Meta    PageMeta    `json:"meta"`
}
