// OpportunityFeed - Personalized Feed Mixing and Cold-Start Recommendations
// Copyright 2026 The OpportunityFeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/athenahq/opportunityfeed

package coldstart

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/athenahq/opportunityfeed/internal/feed"
	"github.com/athenahq/opportunityfeed/internal/logging"
	"github.com/athenahq/opportunityfeed/internal/metrics"
)

// Kind identifies what a recommendation points at.
type Kind string

const (
	KindPost   Kind = "POST"
	KindCourse Kind = "COURSE"
	KindJob    Kind = "JOB"
	KindMentor Kind = "MENTOR"
	KindUser   Kind = "USER"
	KindGroup  Kind = "GROUP"
)

// Base scores per recommendation kind. Courses rank highest because a
// skill gap is the strongest demographic signal available.
const (
	scorePost   = 80
	scoreCourse = 85
	scoreJob    = 75
	scoreMentor = 70
	scoreUser   = 65
	scoreGroup  = 60
)

// Per-source fetch sizes before the merged sort and cut.
const (
	postFetch   = 5
	courseFetch = 3
	jobFetch    = 4
	mentorFetch = 3
	userFetch   = 5
	groupFetch  = 3
)

// defaultRecommendationLimit applies when the caller passes limit <= 0.
const defaultRecommendationLimit = 20

// SourceItem is one candidate returned by a recommendation source.
type SourceItem struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	CreatedAt time.Time   `json:"created_at,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

// SourceProvider supplies demographic candidate sets. Each method scopes
// its results to the given persona or skill set; implementations should
// return their best-ranked items first.
type SourceProvider interface {
	PopularPosts(ctx context.Context, persona string, limit int) ([]SourceItem, error)
	CoursesForSkills(ctx context.Context, skills []string, limit int) ([]SourceItem, error)
	JobsForPersona(ctx context.Context, persona, location string, limit int) ([]SourceItem, error)
	MentorsForPersona(ctx context.Context, persona string, limit int) ([]SourceItem, error)
	SuggestedUsers(ctx context.Context, userID, persona string, limit int) ([]SourceItem, error)
	GroupsForPersona(ctx context.Context, persona string, limit int) ([]SourceItem, error)
}

// Recommendation is one scored, reason-tagged suggestion for a cold user.
type Recommendation struct {
	Kind      Kind        `json:"type"`
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Reason    string      `json:"reason"`
	Score     int         `json:"score"`
	CreatedAt time.Time   `json:"created_at,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

// Recommender assembles demographic recommendations from multiple sources.
type Recommender struct {
	sources SourceProvider
}

// NewRecommender creates a recommender backed by the given sources.
func NewRecommender(sources SourceProvider) *Recommender {
	return &Recommender{sources: sources}
}

// Recommendations builds up to limit demographic suggestions for the user.
// A failed source is skipped with a warning; results from healthy sources
// still come back. A missing profile means there is no user to recommend
// for, so the result is empty; a profile that merely lacks a persona falls
// back to DefaultPersona.
func (r *Recommender) Recommendations(ctx context.Context, profile *feed.UserProfile, limit int) ([]Recommendation, error) {
	if profile == nil {
		return []Recommendation{}, nil
	}
	if limit <= 0 {
		limit = defaultRecommendationLimit
	}

	persona := DefaultPersona
	if profile.Persona != "" {
		persona = profile.Persona
	}
	userID := profile.UserID
	location := profile.Location
	skills := profile.Skills

	var recs []Recommendation

	posts, err := r.sources.PopularPosts(ctx, persona, postFetch)
	if err != nil {
		r.warnSource(ctx, "posts", err)
	}
	for _, p := range posts {
		recs = append(recs, Recommendation{
			Kind:      KindPost,
			ID:        p.ID,
			Title:     p.Title,
			Reason:    fmt.Sprintf("Popular in the %s community", personaLabel(persona)),
			Score:     scorePost,
			CreatedAt: p.CreatedAt,
			Data:      p.Data,
		})
	}

	if gaps := skillGaps(persona, skills); len(gaps) > 0 {
		courses, err := r.sources.CoursesForSkills(ctx, gaps, courseFetch)
		if err != nil {
			r.warnSource(ctx, "courses", err)
		}
		for _, c := range courses {
			recs = append(recs, Recommendation{
				Kind:      KindCourse,
				ID:        c.ID,
				Title:     c.Title,
				Reason:    "Build essential skills for your career",
				Score:     scoreCourse,
				CreatedAt: c.CreatedAt,
				Data:      c.Data,
			})
		}
	}

	jobReason := "Recommended for your profile"
	if location != "" {
		jobReason = "Jobs near " + location
	}
	jobs, err := r.sources.JobsForPersona(ctx, persona, location, jobFetch)
	if err != nil {
		r.warnSource(ctx, "jobs", err)
	}
	for _, j := range jobs {
		recs = append(recs, Recommendation{
			Kind:      KindJob,
			ID:        j.ID,
			Title:     j.Title,
			Reason:    jobReason,
			Score:     scoreJob,
			CreatedAt: j.CreatedAt,
			Data:      j.Data,
		})
	}

	mentors, err := r.sources.MentorsForPersona(ctx, persona, mentorFetch)
	if err != nil {
		r.warnSource(ctx, "mentors", err)
	}
	for _, m := range mentors {
		recs = append(recs, Recommendation{
			Kind:      KindMentor,
			ID:        m.ID,
			Title:     m.Title,
			Reason:    "Mentor in your field",
			Score:     scoreMentor,
			CreatedAt: m.CreatedAt,
			Data:      m.Data,
		})
	}

	users, err := r.sources.SuggestedUsers(ctx, userID, persona, userFetch)
	if err != nil {
		r.warnSource(ctx, "users", err)
	}
	for _, u := range users {
		recs = append(recs, Recommendation{
			Kind:      KindUser,
			ID:        u.ID,
			Title:     u.Title,
			Reason:    "Active member in your community",
			Score:     scoreUser,
			CreatedAt: u.CreatedAt,
			Data:      u.Data,
		})
	}

	groups, err := r.sources.GroupsForPersona(ctx, persona, groupFetch)
	if err != nil {
		r.warnSource(ctx, "groups", err)
	}
	for _, g := range groups {
		recs = append(recs, Recommendation{
			Kind:      KindGroup,
			ID:        g.ID,
			Title:     g.Title,
			Reason:    fmt.Sprintf("Popular %s community", personaLabel(persona)),
			Score:     scoreGroup,
			CreatedAt: g.CreatedAt,
			Data:      g.Data,
		})
	}

	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		if !recs[i].CreatedAt.Equal(recs[j].CreatedAt) {
			return recs[i].CreatedAt.After(recs[j].CreatedAt)
		}
		return recs[i].ID < recs[j].ID
	})

	if len(recs) > limit {
		recs = recs[:limit]
	}

	for _, rec := range recs {
		metrics.ColdStartRecommendations.WithLabelValues(string(rec.Kind)).Inc()
	}

	return recs, nil
}

func (r *Recommender) warnSource(ctx context.Context, source string, err error) {
	logging.Ctx(ctx).Warn().
		Err(err).
		Str("source", source).
		Msg("Cold-start source failed, skipping")
}

// skillGaps returns the persona's recommended skills the user does not
// already have, compared case-insensitively.
func skillGaps(persona string, userSkills []string) []string {
	have := make(map[string]struct{}, len(userSkills))
	for _, s := range userSkills {
		have[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}

	var gaps []string
	for _, s := range DefaultsFor(persona).RecommendedSkills {
		if _, ok := have[strings.ToLower(s)]; !ok {
			gaps = append(gaps, s)
		}
	}
	return gaps
}
