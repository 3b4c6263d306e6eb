// OpportunityFeed - Personalized Feed Mixing and Cold-Start Recommendations
// Copyright 2026 The OpportunityFeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/athenahq/opportunityfeed

package api

import (
	"net/http"
	"time"
)

// healthResponse is the payload of the full health check.
type healthResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// Health serves GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(healthResponse{
		Status:        "healthy",
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
	})
}

// HealthLive serves GET /api/v1/health/live. Liveness only proves the
// process is serving requests.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "alive"})
}

// HealthReady serves GET /api/v1/health/ready. The service has no
// startup warm-up phase, so readiness follows liveness.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "ready"})
}
