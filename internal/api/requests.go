// OpportunityFeed - Personalized Feed Mixing and Cold-Start Recommendations
// Copyright 2026 The OpportunityFeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/athenahq/opportunityfeed

package api

import (
	"net/http"
	"strconv"

	"github.com/athenahq/opportunityfeed/internal/validation"
)

// FeedRequest carries the query parameters of a feed page fetch.
type FeedRequest struct {
	Limit  int    `validate:"min=1,max=50"`
	Cursor string `validate:"omitempty,base64rawurl"`
}

// RecommendationsRequest carries the query parameters of a cold-start
// recommendations fetch.
type RecommendationsRequest struct {
	Limit int `validate:"min=1,max=50"`
}

// parseFeedRequest extracts and validates feed query parameters.
// A missing limit falls back to defaultLimit before validation, so the
// bounds in the struct tags always apply.
func parseFeedRequest(r *http.Request, defaultLimit int) (FeedRequest, *validation.RequestValidationError) {
	req := FeedRequest{
		Limit:  defaultLimit,
		Cursor: r.URL.Query().Get("cursor"),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			// Force a min violation so the client gets a bounds message.
			limit = 0
		}
		req.Limit = limit
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
		return FeedRequest{}, verr
	}
	return req, nil
}

// parseRecommendationsRequest extracts and validates the limit parameter.
func parseRecommendationsRequest(r *http.Request, defaultLimit int) (RecommendationsRequest, *validation.RequestValidationError) {
	req := RecommendationsRequest{Limit: defaultLimit}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			limit = 0
		}
		req.Limit = limit
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
		return RecommendationsRequest{}, verr
	}
	return req, nil
}
