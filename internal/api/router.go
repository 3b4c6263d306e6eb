// OpportunityFeed - Personalized Feed Mixing and Cold-Start Recommendations
// Copyright 2026 The OpportunityFeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/athenahq/opportunityfeed

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/athenahq/opportunityfeed/internal/config"
	"github.com/athenahq/opportunityfeed/internal/middleware"
)

// NewRouter builds the HTTP routing tree: request-ID and Prometheus
// middleware on every API route, CORS globally, and per-IP rate
// limiting on the data endpoints.
func NewRouter(h *Handler, cfg config.SecurityConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)

		r.Route("/health", func(r chi.Router) {
			r.Get("/", h.Health)
			r.Get("/live", h.HealthLive)
			r.Get("/ready", h.HealthReady)
		})

		r.Group(func(r chi.Router) {
			if !cfg.RateLimitDisabled {
				r.Use(httprate.LimitByIP(cfg.RateLimitReqs, rateWindow(cfg.RateLimitWindow)))
			}

			r.Get("/feed/config", h.FeedConfig)

			r.Route("/users/{userID}", func(r chi.Router) {
				r.Get("/feed", h.Feed)
				r.Get("/coldstart", h.ColdStartStatus)
				r.Get("/coldstart/recommendations", h.ColdStartRecommendations)
				r.Get("/onboarding", h.Onboarding)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

func rateWindow(window time.Duration) time.Duration {
	if window <= 0 {
		return time.Minute
	}
	return window
}
