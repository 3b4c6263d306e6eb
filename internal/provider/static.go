// OpportunityFeed - Personalized Feed Mixing and Cold-Start Recommendations
// Copyright 2026 The OpportunityFeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/athenahq/opportunityfeed

package provider

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/athenahq/opportunityfeed/internal/feed"
	"github.com/athenahq/opportunityfeed/internal/feed/coldstart"
)

// Static is a deterministic in-memory data source implementing the pool,
// profile, and cold-start source interfaces. It backs the default dev
// wiring and the tests; production deployments swap in real upstreams.
type Static struct {
	mu       sync.RWMutex
	pools    map[feed.PoolType][]feed.Candidate
	profiles map[string]*feed.UserProfile

	posts   []coldstart.SourceItem
	courses []coldstart.SourceItem
	jobs    []coldstart.SourceItem
	mentors []coldstart.SourceItem
	users   []coldstart.SourceItem
	groups  []coldstart.SourceItem
}

var (
	_ feed.PoolProvider        = (*Static)(nil)
	_ feed.ProfileProvider     = (*Static)(nil)
	_ coldstart.SourceProvider = (*Static)(nil)
)

// NewStatic creates an empty static provider. Populate it with SetPool,
// AddProfile, and SetSources.
func NewStatic() *Static {
	return &Static{
		pools:    make(map[feed.PoolType][]feed.Candidate),
		profiles: make(map[string]*feed.UserProfile),
	}
}

// NewSampleStatic creates a static provider preloaded with deterministic
// sample content, sized so every pool and cold-start source has data.
func NewSampleStatic(now time.Time) *Static {
	s := NewStatic()

	s.SetPool(feed.PoolOrganic, sampleCandidates("post", feed.KindPost, 40, now, func(c *feed.Candidate, i int) {
		c.AuthorFollowed = i%3 == 0
	}))
	s.SetPool(feed.PoolDiscovery, sampleCandidates("disc", feed.KindPost, 40, now, func(c *feed.Candidate, i int) {
		c.Trending = i%4 == 0
	}))
	s.SetPool(feed.PoolSponsored, sampleCandidates("ad", feed.KindAd, 20, now, func(c *feed.Candidate, i int) {
		c.TargetPersonas = []string{"EARLY_CAREER", "ENTREPRENEUR"}
		c.TargetInterests = []string{"networking", "startup"}
		c.PriorityMultiplier = 1 + float64(i%3)*0.5
	}))
	s.SetPool(feed.PoolOpportunity, sampleCandidates("opp", feed.KindJob, 20, now, func(c *feed.Candidate, i int) {
		c.Remote = i%2 == 0
		c.RequiredSkills = []string{"Communication", "Go"}
		if i%4 == 0 {
			c.Kind = feed.KindCourse
		}
	}))

	s.SetSources(
		sampleItems("popular-post", 8, now),
		sampleItems("course", 6, now),
		sampleItems("job", 6, now),
		sampleItems("mentor", 4, now),
		sampleItems("member", 6, now),
		sampleItems("group", 4, now),
	)
	return s
}

func sampleCandidates(prefix string, kind feed.ContentKind, n int, now time.Time, mutate func(*feed.Candidate, int)) []feed.Candidate {
	out := make([]feed.Candidate, n)
	for i := 0; i < n; i++ {
		c := feed.Candidate{
			ID:        fmt.Sprintf("%s-%03d", prefix, i),
			Kind:      kind,
			Title:     fmt.Sprintf("Sample %s %d", prefix, i),
			CreatedAt: now.Add(-time.Duration(i) * 2 * time.Hour),
			Likes:     (n - i) * 2,
			Comments:  (n - i) / 2,
			Shares:    (n - i) / 4,
		}
		if mutate != nil {
			mutate(&c, i)
		}
		out[i] = c
	}
	return out
}

func sampleItems(prefix string, n int, now time.Time) []coldstart.SourceItem {
	out := make([]coldstart.SourceItem, n)
	for i := 0; i < n; i++ {
		out[i] = coldstart.SourceItem{
			ID:        fmt.Sprintf("%s-%03d", prefix, i),
			Title:     fmt.Sprintf("Sample %s %d", prefix, i),
			CreatedAt: now.Add(-time.Duration(i) * time.Hour),
		}
	}
	return out
}

// SetPool replaces the candidate set for a pool.
func (s *Static) SetPool(pool feed.PoolType, candidates []feed.Candidate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pools[pool] = candidates
}

// AddProfile registers a user profile.
func (s *Static) AddProfile(profile *feed.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.UserID] = profile
}

// SetSources replaces the cold-start source fixtures.
func (s *Static) SetSources(posts, courses, jobs, mentors, users, groups []coldstart.SourceItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = posts
	s.courses = courses
	s.jobs = jobs
	s.mentors = mentors
	s.users = users
	s.groups = groups
}

// Pool returns up to limit candidates for the pool.
func (s *Static) Pool(_ context.Context, _ string, pool feed.PoolType, limit int) ([]feed.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clipCandidates(s.pools[pool], limit), nil
}

// Profile returns the registered profile or ErrProfileNotFound.
func (s *Static) Profile(_ context.Context, userID string) (*feed.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[userID]
	if !ok {
		return nil, feed.ErrProfileNotFound
	}
	return profile, nil
}

func (s *Static) PopularPosts(_ context.Context, _ string, limit int) ([]coldstart.SourceItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clipItems(s.posts, limit), nil
}

func (s *Static) CoursesForSkills(_ context.Context, _ []string, limit int) ([]coldstart.SourceItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clipItems(s.courses, limit), nil
}

func (s *Static) JobsForPersona(_ context.Context, _, _ string, limit int) ([]coldstart.SourceItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clipItems(s.jobs, limit), nil
}

func (s *Static) MentorsForPersona(_ context.Context, _ string, limit int) ([]coldstart.SourceItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clipItems(s.mentors, limit), nil
}

func (s *Static) SuggestedUsers(_ context.Context, userID, _ string, limit int) ([]coldstart.SourceItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]coldstart.SourceItem, 0, len(s.users))
	for _, u := range s.users {
		if u.ID != userID {
			out = append(out, u)
		}
	}
	return clipItems(out, limit), nil
}

func (s *Static) GroupsForPersona(_ context.Context, _ string, limit int) ([]coldstart.SourceItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clipItems(s.groups, limit), nil
}

func clipCandidates(in []feed.Candidate, limit int) []feed.Candidate {
	if limit > 0 && len(in) > limit {
		in = in[:limit]
	}
	out := make([]feed.Candidate, len(in))
	copy(out, in)
	return out
}

func clipItems(in []coldstart.SourceItem, limit int) []coldstart.SourceItem {
	if limit > 0 && len(in) > limit {
		in = in[:limit]
	}
	out := make([]coldstart.SourceItem, len(in))
	copy(out, in)
	return out
}
