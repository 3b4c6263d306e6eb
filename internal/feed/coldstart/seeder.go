// OpportunityFeed - Personalized Feed Mixing and Cold-Start Recommendations
// Copyright 2026 The OpportunityFeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/athenahq/opportunityfeed

package coldstart

import (
	"context"
	"time"

	"github.com/athenahq/opportunityfeed/internal/feed"
)

// Seeder adapts demographic recommendations into feed candidates for
// users whose organic and discovery pools came back empty.
type Seeder struct {
	recommender *Recommender
	now         func() time.Time
}

var _ feed.ColdStartSeeder = (*Seeder)(nil)

// NewSeeder creates a seeder over the given recommender.
func NewSeeder(recommender *Recommender) *Seeder {
	return &Seeder{recommender: recommender, now: time.Now}
}

// Seed returns demographic candidates shaped for the organic pool.
// Recommendation scores are carried through the like counter so the
// normalizer's engagement weight reproduces the cold-start ranking.
func (s *Seeder) Seed(ctx context.Context, profile *feed.UserProfile, limit int) ([]feed.Candidate, error) {
	recs, err := s.recommender.Recommendations(ctx, profile, limit)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]feed.Candidate, 0, len(recs))
	for _, rec := range recs {
		out = append(out, feed.Candidate{
			ID:        rec.ID,
			Kind:      candidateKind(rec.Kind),
			Title:     rec.Title,
			CreatedAt: now,
			Likes:     rec.Score - 1,
			Payload:   rec.Data,
		})
	}
	return out, nil
}

// candidateKind maps recommendation kinds onto feed content kinds.
// People and group suggestions surface as regular posts.
func candidateKind(k Kind) feed.ContentKind {
	switch k {
	case KindJob:
		return feed.KindJob
	case KindCourse:
		return feed.KindCourse
	default:
		return feed.KindPost
	}
}
