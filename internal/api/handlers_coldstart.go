// OpportunityFeed - Personalized Feed Mixing and Cold-Start Recommendations
// Copyright 2026 The OpportunityFeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/athenahq/opportunityfeed

package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/athenahq/opportunityfeed/internal/feed"
	"github.com/athenahq/opportunityfeed/internal/feed/coldstart"
	"github.com/athenahq/opportunityfeed/internal/logging"
)

// coldStartStatusResponse is the payload of the cold-start status check.
type coldStartStatusResponse struct {
	UserID      string `json:"user_id"`
	IsColdStart bool   `json:"is_cold_start"`
	Score       int    `json:"score"`
}

// lookupProfileDegraded fetches a profile for the cold-start endpoints.
// Unknown users and lookup failures degrade to a nil profile: the status
// endpoint reports a cold start, while recommendation and onboarding
// lists come back empty.
func (h *Handler) lookupProfileDegraded(ctx context.Context, userID string) *feed.UserProfile {
	profile, err := h.profiles.Profile(ctx, userID)
	if err != nil {
		logging.Ctx(ctx).Debug().
			Err(err).
			Str("user_id", userID).
			Msg("Profile unavailable for cold-start evaluation")
		return nil
	}
	return profile
}

// ColdStartStatus serves GET /api/v1/users/{userID}/coldstart.
func (h *Handler) ColdStartStatus(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID := chi.URLParam(r, "userID")
	if userID == "" {
		rw.BadRequest("userID is required")
		return
	}

	profile := h.lookupProfileDegraded(r.Context(), userID)

	rw.Success(coldStartStatusResponse{
		UserID:      userID,
		IsColdStart: h.detector.IsColdStart(profile),
		Score:       h.detector.Score(profile),
	})
}

// ColdStartRecommendations serves
// GET /api/v1/users/{userID}/coldstart/recommendations.
func (h *Handler) ColdStartRecommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID := chi.URLParam(r, "userID")
	if userID == "" {
		rw.BadRequest("userID is required")
		return
	}

	req, verr := parseRecommendationsRequest(r, h.defaultPageSize)
	if verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	profile := h.lookupProfileDegraded(r.Context(), userID)

	recs, err := h.recommender.Recommendations(r.Context(), profile, req.Limit)
	if err != nil {
		logging.CtxErr(r.Context(), err).Str("user_id", userID).Msg("Cold-start recommendations failed")
		rw.InternalError("Failed to build recommendations")
		return
	}

	rw.SuccessWithPagination(recs, &PaginationMeta{
		Count:   len(recs),
		Limit:   req.Limit,
		HasMore: false,
	})
}

// Onboarding serves GET /api/v1/users/{userID}/onboarding.
func (h *Handler) Onboarding(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID := chi.URLParam(r, "userID")
	if userID == "" {
		rw.BadRequest("userID is required")
		return
	}

	profile := h.lookupProfileDegraded(r.Context(), userID)

	suggestions := h.detector.OnboardingSuggestions(profile)
	if suggestions == nil {
		suggestions = []coldstart.Suggestion{}
	}
	rw.Success(suggestions)
}
