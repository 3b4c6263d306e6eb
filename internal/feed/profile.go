// OpportunityFeed - Personalized Feed Mixing and Cold-Start Recommendations
// Copyright 2026 The OpportunityFeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/athenahq/opportunityfeed

package feed

import "time"

// UserProfile carries the demographic and activity signals used for
// personalization and cold-start detection. All fields are optional;
// zero values mean the signal is absent.
type UserProfile struct {
	UserID string `json:"user_id"`

	// Demographic signals
	Persona         string   `json:"persona,omitempty"`
	Interests       []string `json:"interests,omitempty"`
	Skills          []string `json:"skills,omitempty"`
	Location        string   `json:"location,omitempty"`
	Industry        string   `json:"industry,omitempty"`
	CareerLevel     string   `json:"career_level,omitempty"`
	Goals           []string `json:"goals,omitempty"`
	CurrentJobTitle string   `json:"current_job_title,omitempty"`
	Bio             string   `json:"bio,omitempty"`
	AvatarSet       bool     `json:"avatar_set,omitempty"`
	RemotePreferred bool     `json:"remote_preferred,omitempty"`

	// Activity counters
	InteractionCount int `json:"interaction_count"`
	LikeCount        int `json:"like_count"`
	PostCount        int `json:"post_count"`
	CommentCount     int `json:"comment_count"`
	FollowingCount   int `json:"following_count"`

	AccountCreatedAt time.Time `json:"account_created_at"`

	// Opportunities the user already acted on; hard-excluded from the
	// opportunity pool before ranking.
	AppliedJobIDs     []string `json:"applied_job_ids,omitempty"`
	EnrolledCourseIDs []string `json:"enrolled_course_ids,omitempty"`
}

// ExcludedOpportunityIDs returns the set of opportunity IDs the user has
// already applied to or enrolled in.
func (p *UserProfile) ExcludedOpportunityIDs() map[string]struct{} {
	if p == nil {
		return nil
	}
	out := make(map[string]struct{}, len(p.AppliedJobIDs)+len(p.EnrolledCourseIDs))
	for _, id := range p.AppliedJobIDs {
		out[id] = struct{}{}
	}
	for _, id := range p.EnrolledCourseIDs {
		out[id] = struct{}{}
	}
	return out
}
