// OpportunityFeed - Personalized Feed Mixing and Cold-Start Recommendations
// Copyright 2026 The OpportunityFeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/athenahq/opportunityfeed

package feed

import "math"

// MixInput carries everything a single mix depends on. Mix is a pure
// function of this input and the config: no clocks, no globals, no RNG.
type MixInput struct {
	Organic     []NormalizedItem
	Discovery   []NormalizedItem
	Sponsored   []NormalizedItem
	Opportunity []NormalizedItem

	// Page is the 1-based page number within the session. The sponsored
	// start-position floor applies to page 1 only.
	Page int

	// PageSize is the number of slots to fill. Zero yields an empty page
	// with hasMore still computed from the pools.
	PageSize int

	// SponsoredServed is how many sponsored items this session has already
	// received, from the pacing store.
	SponsoredServed int

	// SinceLastSponsored is how many non-sponsored items were emitted since
	// the session's last sponsored item. Spacing is session-wide: a
	// sponsored item at the end of one page constrains the start of the
	// next. Until the session serves its first sponsored item the counter
	// is meaningless and spacing does not apply.
	SinceLastSponsored int

	// FailedPools names pools that degraded to empty this request; passed
	// through to the page meta.
	FailedPools []string
}

// MixResult is the assembled page plus the pacing deltas the caller must
// persist. The mixer itself never touches the pacing store.
type MixResult struct {
	Page Page

	// SponsoredEmitted is how many sponsored items this page contains.
	SponsoredEmitted int

	// SinceLastSponsored is the updated session-wide spacing counter after
	// this page.
	SinceLastSponsored int
}

// poolState tracks one pool's cursor during a mix.
type poolState struct {
	typ     PoolType
	ratio   float64
	items   []NormalizedItem
	next    int
	emitted int
}

func (p *poolState) remaining() bool { return p.next < len(p.items) }

// Mix interleaves the four pools into one page.
//
// Selection is proportional round-robin: each slot goes to the most
// underserved pool (largest ratio minus served share), with ties broken in
// fixed pool order for determinism. Hard constraints are checked in
// precedence order before a sponsored item may be placed:
//
//  1. start-position floor (first page of the session only)
//  2. maximum consecutive sponsored run
//  3. minimum spacing since the session's last sponsored item (vacuous
//     until the session has served one)
//  4. session-wide sponsored cap
//
// The opportunity cadence guarantees no window of OpportunityInsertEvery
// consecutive slots lacks an opportunity while that pool has items; items
// displaced by a forced insertion stay queued for later slots. Mixing stops
// early when every pool is exhausted; hasMore is true iff any pool retains
// items afterward.
func Mix(cfg MixerConfig, in MixInput) MixResult {
	pools := []*poolState{
		{typ: PoolOrganic, ratio: cfg.OrganicRatio, items: sortedCopy(in.Organic)},
		{typ: PoolDiscovery, ratio: cfg.DiscoveryRatio, items: sortedCopy(in.Discovery)},
		{typ: PoolOpportunity, ratio: cfg.OpportunityRatio, items: sortedCopy(in.Opportunity)},
		{typ: PoolSponsored, ratio: cfg.SponsoredRatio, items: sortedCopy(in.Sponsored)},
	}
	opportunity := pools[2]

	pageSize := in.PageSize
	if pageSize < 0 {
		pageSize = 0
	}

	items := make([]MixedItem, 0, pageSize)
	meta := PageMeta{FailedPools: in.FailedPools}

	sponsoredEmitted := 0
	sponsoredRun := 0
	sinceLastSponsored := in.SinceLastSponsored
	sinceOpportunity := 0

	sponsoredEligible := func() bool {
		if in.Page <= 1 && len(items) < cfg.SponsoredStartPosition {
			return false
		}
		if sponsoredRun >= cfg.MaxConsecutiveSponsored {
			return false
		}
		// Spacing measures distance from the last sponsored item, so it
		// only constrains once the session has served one. A fresh session
		// is gated by the start-position floor alone.
		if in.SponsoredServed+sponsoredEmitted > 0 && sinceLastSponsored < cfg.MinPostsBetweenSponsored {
			return false
		}
		if in.SponsoredServed+sponsoredEmitted >= cfg.MaxSponsoredPerSession {
			return false
		}
		return true
	}

	for len(items) < pageSize {
		var pick *poolState

		// Cadence check first: if the next slot would complete a full
		// window without an opportunity, force one in.
		if opportunity.remaining() && sinceOpportunity >= cfg.OpportunityInsertEvery-1 {
			pick = opportunity
		} else {
			bestDeficit := math.Inf(-1)
			for _, p := range pools {
				if !p.remaining() {
					continue
				}
				if p.typ == PoolSponsored && !sponsoredEligible() {
					continue
				}
				deficit := p.ratio - float64(p.emitted)/float64(len(items)+1)
				// Strict comparison keeps the earlier pool on ties.
				if deficit > bestDeficit+1e-12 {
					bestDeficit = deficit
					pick = p
				}
			}
		}

		if pick == nil {
			break
		}

		it := pick.items[pick.next]
		pick.next++
		pick.emitted++

		items = append(items, MixedItem{
			ID:     it.ID,
			Pool:   it.Pool,
			Kind:   it.Kind,
			Score:  it.Score,
			Reason: it.Reason,
			Data:   it.Candidate.Payload,
		})

		switch pick.typ {
		case PoolOrganic:
			meta.OrganicCount++
		case PoolDiscovery:
			meta.DiscoveryCount++
		case PoolSponsored:
			meta.SponsoredCount++
		case PoolOpportunity:
			meta.OpportunityCount++
		}

		if pick.typ == PoolSponsored {
			sponsoredEmitted++
			sponsoredRun++
			sinceLastSponsored = 0
		} else {
			sponsoredRun = 0
			sinceLastSponsored++
		}
		if pick.typ == PoolOpportunity {
			sinceOpportunity = 0
		} else {
			sinceOpportunity++
		}
	}

	hasMore := false
	for _, p := range pools {
		if p.remaining() {
			hasMore = true
			break
		}
	}

	return MixResult{
		Page: Page{
			Items:   items,
			HasMore: hasMore,
			Meta:    meta,
		},
		SponsoredEmitted:   sponsoredEmitted,
		SinceLastSponsored: sinceLastSponsored,
	}
}

// sortedCopy returns the pool sorted score descending, ID ascending on ties,
// without mutating the caller's slice.
func sortedCopy(items []NormalizedItem) []NormalizedItem {
	out := make([]NormalizedItem, len(items))
	copy(out, items)
	sortByScore(out)
	return out
}
