// OpportunityFeed - Personalized Feed Mixing and Cold-Start Recommendations
// Copyright 2026 The OpportunityFeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/athenahq/opportunityfeed

package feed

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/athenahq/opportunityfeed/internal/logging"
	"github.com/athenahq/opportunityfeed/internal/metrics"
)

// PoolProvider fetches raw candidates for one content pool.
type PoolProvider interface {
	Pool(ctx context.Context, userID string, pool PoolType, limit int) ([]Candidate, error)
}

// ProfileProvider looks up the personalization profile for a user.
// Implementations return ErrProfileNotFound for unknown users.
type ProfileProvider interface {
	Profile(ctx context.Context, userID string) (*UserProfile, error)
}

// PacingState is the per-session sponsored pacing counters.
type PacingState struct {
	// SponsoredServed is the total sponsored impressions this session.
	SponsoredServed int `json:"sponsored_served"`

	// SinceLastSponsored counts non-sponsored items emitted since the last
	// sponsored item, across page boundaries.
	SinceLastSponsored int `json:"since_last_sponsored"`
}

// PacingStore persists pacing state per session. Record must be an atomic
// read-modify-write: it adds sponsoredDelta to the served total and replaces
// the spacing counter.
type PacingStore interface {
	Get(ctx context.Context, sessionID string) (PacingState, error)
	Record(ctx context.Context, sessionID string, sponsoredDelta, sinceLastSponsored int) (PacingState, error)
}

// ColdStartSeeder supplies demographic fallback candidates when a user's
// organic and discovery pools are both empty.
type ColdStartSeeder interface {
	Seed(ctx context.Context, profile *UserProfile, limit int) ([]Candidate, error)
}

// PageServedEvent is published after every successfully assembled page.
type PageServedEvent struct {
	UserID         string    `json:"user_id"`
	SessionID      string    `json:"session_id"`
	Page           int       `json:"page"`
	ItemCount      int       `json:"item_count"`
	SponsoredCount int       `json:"sponsored_count"`
	FailedPools    []string  `json:"failed_pools,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// PagePublisher emits feed lifecycle events. A nil publisher disables
// event emission.
type PagePublisher interface {
	PublishPageServed(ctx context.Context, ev PageServedEvent) error
}

// minPoolFetch is the floor for per-pool fetch sizes, so small pages still
// give the personalizer and filter enough candidates to rank.
const minPoolFetch = 30

// sessionLocks serializes the pacing read-mix-record window per session.
// Cap admission happens against the value read from the pacing store, so
// two concurrent pages of one session that both read before either records
// would each believe the sponsored budget is still free. Locks are striped
// by session ID hash; a collision only costs serialization, never safety.
type sessionLocks struct {
	shards [64]sync.Mutex
}

func (l *sessionLocks) forSession(sessionID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(sessionID))
	return &l.shards[h.Sum32()%uint32(len(l.shards))]
}

// Service orchestrates one feed request end to end: cursor resolution,
// profile lookup, concurrent pool fetches, normalization, personalization,
// pacing-aware mixing, and pacing-state persistence.
type Service struct {
	cfg       MixerConfig
	pools     PoolProvider
	profiles  ProfileProvider
	pacing    PacingStore
	seeder    ColdStartSeeder
	publisher PagePublisher
	now       func() time.Time
	locks     sessionLocks
}

// ServiceOption configures optional Service collaborators.
type ServiceOption func(*Service)

// WithColdStartSeeder enables demographic seeding for empty feeds.
func WithColdStartSeeder(s ColdStartSeeder) ServiceOption {
	return func(svc *Service) { svc.seeder = s }
}

// WithPublisher enables page-served event emission.
func WithPublisher(p PagePublisher) ServiceOption {
	return func(svc *Service) { svc.publisher = p }
}

// WithClock overrides the time source. Tests use this for deterministic
// recency decay.
func WithClock(now func() time.Time) ServiceOption {
	return func(svc *Service) { svc.now = now }
}

// NewService creates a feed service.
func NewService(cfg MixerConfig, pools PoolProvider, profiles ProfileProvider, pacing PacingStore, opts ...ServiceOption) *Service {
	svc := &Service{
		cfg:      cfg,
		pools:    pools,
		profiles: profiles,
		pacing:   pacing,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Config returns the active mixer configuration.
func (s *Service) Config() MixerConfig {
	return s.cfg
}

// PageRequest identifies one feed page fetch.
type PageRequest struct {
	UserID string
	Cursor string // empty starts a new session
	Limit  int
}

// PageResponse is the assembled page plus the continuation cursor.
type PageResponse struct {
	Page       Page
	NextCursor string
	SessionID  string
}

// Page assembles one feed page.
//
// Requests for the same session are serialized around the pacing window,
// so the sponsored cap is always admitted against current counters.
//
// Collaborator failures degrade instead of propagating: a missing profile
// disables personalization, a failed pool is served empty and recorded in
// the page meta, and a pacing store error falls back to zero state with a
// warning. Only an invalid cursor is a hard error.
func (s *Service) Page(ctx context.Context, req PageRequest) (*PageResponse, error) {
	start := s.now()

	cur := Cursor{SessionID: uuid.New().String(), Page: 1}
	if req.Cursor != "" {
		var err error
		cur, err = DecodeCursor(req.Cursor)
		if err != nil {
			return nil, err
		}
	}

	seen := make(map[string]struct{}, len(cur.Seen))
	for _, id := range cur.Seen {
		seen[id] = struct{}{}
	}

	profile := s.lookupProfile(ctx, req.UserID)

	fetchLimit := req.Limit * 3
	if fetchLimit < minPoolFetch {
		fetchLimit = minPoolFetch
	}
	raw, failed := s.fetchPools(ctx, req.UserID, fetchLimit)

	// Empty organic and discovery pools mean the graph has nothing for
	// this user; fall back to demographic cold-start candidates.
	if len(raw[PoolOrganic]) == 0 && len(raw[PoolDiscovery]) == 0 && s.seeder != nil && profile != nil {
		seeded, err := s.seeder.Seed(ctx, profile, fetchLimit)
		if err != nil {
			logging.CtxErr(ctx, err).Str("user_id", req.UserID).Msg("Cold-start seeding failed")
		} else if len(seeded) > 0 {
			logging.Ctx(ctx).Debug().
				Str("user_id", req.UserID).
				Int("count", len(seeded)).
				Msg("Seeded empty feed from cold-start recommendations")
			raw[PoolOrganic] = seeded
		}
	}

	now := s.now()
	organic := Normalize(PoolOrganic, raw[PoolOrganic], seen, now)
	discovery := Normalize(PoolDiscovery, raw[PoolDiscovery], seen, now)
	sponsored := FilterSponsored(Normalize(PoolSponsored, raw[PoolSponsored], seen, now), profile)
	opportunity := PersonalizeOpportunities(
		Normalize(PoolOpportunity, raw[PoolOpportunity], seen, now),
		profile,
		profile.ExcludedOpportunityIDs(),
	)

	// Hold the session lock across read, mix, and record. Sponsored cap
	// admission inside Mix uses the state read here; without the lock two
	// concurrent pages of the same session could both admit against the
	// same stale counter and overshoot MaxSponsoredPerSession.
	lock := s.locks.forSession(cur.SessionID)
	lock.Lock()

	state, err := s.pacing.Get(ctx, cur.SessionID)
	if err != nil {
		logging.CtxErr(ctx, err).Str("session_id", cur.SessionID).Msg("Pacing store read failed, using zero state")
		metrics.PacingStoreOps.WithLabelValues("get", "error").Inc()
		state = PacingState{}
	} else {
		metrics.PacingStoreOps.WithLabelValues("get", "ok").Inc()
	}

	result := Mix(s.cfg, MixInput{
		Organic:            organic,
		Discovery:          discovery,
		Sponsored:          sponsored,
		Opportunity:        opportunity,
		Page:               cur.Page,
		PageSize:           req.Limit,
		SponsoredServed:    state.SponsoredServed,
		SinceLastSponsored: state.SinceLastSponsored,
		FailedPools:        failed,
	})

	if _, err := s.pacing.Record(ctx, cur.SessionID, result.SponsoredEmitted, result.SinceLastSponsored); err != nil {
		logging.CtxErr(ctx, err).Str("session_id", cur.SessionID).Msg("Pacing store write failed")
		metrics.PacingStoreOps.WithLabelValues("record", "error").Inc()
	} else {
		metrics.PacingStoreOps.WithLabelValues("record", "ok").Inc()
	}

	lock.Unlock()

	next := Cursor{
		SessionID: cur.SessionID,
		Page:      cur.Page + 1,
		Seen:      appendSeen(cur.Seen, result.Page.Items),
	}
	nextCursor, err := next.Encode()
	if err != nil {
		return nil, err
	}

	metrics.RecordMix(s.now().Sub(start), map[string]int{
		PoolOrganic.String():     result.Page.Meta.OrganicCount,
		PoolDiscovery.String():   result.Page.Meta.DiscoveryCount,
		PoolSponsored.String():   result.Page.Meta.SponsoredCount,
		PoolOpportunity.String(): result.Page.Meta.OpportunityCount,
	}, result.SponsoredEmitted)

	if s.publisher != nil {
		ev := PageServedEvent{
			UserID:         req.UserID,
			SessionID:      cur.SessionID,
			Page:           cur.Page,
			ItemCount:      len(result.Page.Items),
			SponsoredCount: result.SponsoredEmitted,
			FailedPools:    failed,
			Timestamp:      now,
		}
		if err := s.publisher.PublishPageServed(ctx, ev); err != nil {
			logging.CtxErr(ctx, err).Msg("Failed to publish page served event")
		}
	}

	return &PageResponse{
		Page:       result.Page,
		NextCursor: nextCursor,
		SessionID:  cur.SessionID,
	}, nil
}

// lookupProfile fetches the user profile, degrading to nil on any failure.
func (s *Service) lookupProfile(ctx context.Context, userID string) *UserProfile {
	profile, err := s.profiles.Profile(ctx, userID)
	if err != nil {
		logging.Ctx(ctx).Debug().
			Err(err).
			Str("user_id", userID).
			Msg("Profile unavailable, serving unpersonalized feed")
		return nil
	}
	return profile
}

// fetchPools fetches all four pools concurrently. A failed pool degrades to
// empty and is reported in the returned failure list.
func (s *Service) fetchPools(ctx context.Context, userID string, limit int) (map[PoolType][]Candidate, []string) {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		out    = make(map[PoolType][]Candidate, len(AllPools))
		failed []string
	)

	for _, pool := range AllPools {
		wg.Add(1)
		go func(pool PoolType) {
			defer wg.Done()
			candidates, err := s.pools.Pool(ctx, userID, pool, limit)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logging.CtxErr(ctx, err).
					Str("pool", pool.String()).
					Str("user_id", userID).
					Msg("Pool fetch failed, serving degraded page")
				metrics.FeedPoolFailures.WithLabelValues(pool.String()).Inc()
				failed = append(failed, pool.String())
				out[pool] = nil
				return
			}
			out[pool] = candidates
		}(pool)
	}
	wg.Wait()

	// Deterministic meta ordering regardless of goroutine completion order.
	if len(failed) > 1 {
		ordered := make([]string, 0, len(failed))
		for _, pool := range AllPools {
			for _, f := range failed {
				if f == pool.String() {
					ordered = append(ordered, f)
				}
			}
		}
		failed = ordered
	}

	return out, failed
}
