// OpportunityFeed - Personalized Feed Mixing and Cold-Start Recommendations
// Copyright 2026 The OpportunityFeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/athenahq/opportunityfeed

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/athenahq/opportunityfeed/internal/feed"
	"github.com/athenahq/opportunityfeed/internal/feed/coldstart"
	"github.com/athenahq/opportunityfeed/internal/logging"
)

// Handler holds the dependencies shared by all HTTP handlers.
type Handler struct {
	feedSvc     *feed.Service
	profiles    feed.ProfileProvider
	detector    *coldstart.Detector
	recommender *coldstart.Recommender

	defaultPageSize int
	startTime       time.Time
}

// NewHandler creates the API handler set.
func NewHandler(feedSvc *feed.Service, profiles feed.ProfileProvider, detector *coldstart.Detector, recommender *coldstart.Recommender, defaultPageSize int) *Handler {
	return &Handler{
		feedSvc:         feedSvc,
		profiles:        profiles,
		detector:        detector,
		recommender:     recommender,
		defaultPageSize: defaultPageSize,
		startTime:       time.Now(),
	}
}

// feedResponse is the data payload of a feed page.
type feedResponse struct {
	SessionID string           `json:"session_id"`
	Items     []feed.MixedItem `json:"items"`
	Meta      feed.PageMeta    `json:"meta"`
}

// Feed serves GET /api/v1/users/{userID}/feed.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID := chi.URLParam(r, "userID")
	if userID == "" {
		rw.BadRequest("userID is required")
		return
	}

	req, verr := parseFeedRequest(r, h.defaultPageSize)
	if verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	resp, err := h.feedSvc.Page(r.Context(), feed.PageRequest{
		UserID: userID,
		Cursor: req.Cursor,
		Limit:  req.Limit,
	})
	if err != nil {
		if errors.Is(err, feed.ErrInvalidCursor) {
			rw.InvalidCursor()
			return
		}
		logging.CtxErr(r.Context(), err).Str("user_id", userID).Msg("Feed page assembly failed")
		rw.InternalError("Failed to assemble feed page")
		return
	}

	rw.SuccessWithPagination(feedResponse{
		SessionID: resp.SessionID,
		Items:     resp.Page.Items,
		Meta:      resp.Page.Meta,
	}, &PaginationMeta{
		Count:      len(resp.Page.Items),
		Limit:      req.Limit,
		HasMore:    resp.Page.HasMore,
		NextCursor: resp.NextCursor,
	})
}

// FeedConfig serves GET /api/v1/feed/config with the active mixer
// configuration, read-only.
func (h *Handler) FeedConfig(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(h.feedSvc.Config())
}
