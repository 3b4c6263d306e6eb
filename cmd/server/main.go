// OpportunityFeed - Personalized Feed Mixing and Cold-Start Recommendations
// Copyright 2026 The OpportunityFeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/athenahq/opportunityfeed

// Package main is the entry point for the OpportunityFeed server.
//
// OpportunityFeed assembles personalized feed pages for a professional
// community platform. Each page mixes four content pools (organic,
// discovery, sponsored, opportunity) under sponsored pacing constraints,
// with a cold-start recommendation engine backfilling brand-new users.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: layered env > YAML > defaults (Koanf v2)
//  2. Pacing store: in-memory with janitor, or BadgerDB for persistence
//  3. Providers: content pools wrapped in per-pool circuit breakers
//  4. Cold-start engine: detector, recommender, and feed seeder
//  5. Event bus: in-process Watermill pub/sub (optional)
//  6. Supervisor tree: sessions, events, and API layers under suture
//  7. HTTP server: chi router with versioned REST API
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): OPPFEED_-prefixed environment variables, a config.yaml
// file, then built-in defaults.
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: the supervisor
// tree stops its layers, the HTTP server drains in-flight requests within
// the configured shutdown timeout, and the pacing store is closed.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/athenahq/opportunityfeed/internal/api"
	"github.com/athenahq/opportunityfeed/internal/config"
	"github.com/athenahq/opportunityfeed/internal/events"
	"github.com/athenahq/opportunityfeed/internal/feed"
	"github.com/athenahq/opportunityfeed/internal/feed/coldstart"
	"github.com/athenahq/opportunityfeed/internal/logging"
	"github.com/athenahq/opportunityfeed/internal/provider"
	"github.com/athenahq/opportunityfeed/internal/session"
	"github.com/athenahq/opportunityfeed/internal/supervisor"
	"github.com/athenahq/opportunityfeed/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("session_store", cfg.Session.Store).
		Bool("events_enabled", cfg.Events.Enabled).
		Int("port", cfg.Server.Port).
		Msg("Starting OpportunityFeed")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slogLogger := slog.New(logging.NewSlogHandler())

	tree, err := supervisor.NewTree(slogLogger, supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// Pacing store: badger for persistence across restarts, memory otherwise.
	var pacing feed.PacingStore
	switch cfg.Session.Store {
	case "badger":
		store, err := session.OpenBadger(cfg.Session.Path, cfg.Session.TTL)
		if err != nil {
			logging.Fatal().Err(err).Str("path", cfg.Session.Path).Msg("Failed to open session store")
		}
		defer func() {
			if err := store.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing session store")
			}
		}()
		pacing = store
		logging.Info().Str("path", cfg.Session.Path).Msg("BadgerDB session store initialized")
	default:
		store := session.NewMemoryStore(cfg.Session.TTL)
		tree.AddSessionService(services.NewJanitorService(store, cfg.Session.JanitorInterval))
		pacing = store
		logging.Info().Dur("ttl", cfg.Session.TTL).Msg("In-memory session store initialized")
	}

	// Content providers behind per-pool circuit breakers. The static
	// provider stands in until the platform content services are wired up.
	static := provider.NewSampleStatic(time.Now())
	pools := provider.NewBreakerPoolProvider(static)

	detector := coldstart.NewDetector(coldstart.Config{
		InteractionThreshold: cfg.ColdStart.InteractionThreshold,
		AccountAgeWindow:     cfg.ColdStart.AccountAgeWindow,
		MinSkills:            cfg.ColdStart.MinSkills,
	})
	recommender := coldstart.NewRecommender(static)
	seeder := coldstart.NewSeeder(recommender)

	feedOpts := []feed.ServiceOption{
		feed.WithColdStartSeeder(seeder),
	}

	if cfg.Events.Enabled {
		bus := events.NewBus(cfg.Events.BufferSize, nil)
		defer func() {
			if err := bus.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing event bus")
			}
		}()
		tree.AddEventService(events.NewMetricsConsumer(bus))
		feedOpts = append(feedOpts, feed.WithPublisher(bus))
		logging.Info().Int("buffer_size", cfg.Events.BufferSize).Msg("Event bus initialized")
	}

	feedSvc := feed.NewService(mixerConfig(cfg.Mixer), pools, static, pacing, feedOpts...)

	handler := api.NewHandler(feedSvc, static, detector, recommender, cfg.API.DefaultPageSize)
	router := api.NewRouter(handler, cfg.Security)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	logging.Info().Str("addr", server.Addr).Msg("Serving API")

	if err := tree.Serve(ctx); err != nil && ctx.Err() == nil {
		logging.Error().Err(err).Msg("Supervisor tree exited with error")
		os.Exit(1)
	}

	logging.Info().Msg("Shutdown complete")
}

// mixerConfig maps the loaded configuration onto the mixer's config type.
func mixerConfig(m config.MixerConfig) feed.MixerConfig {
	return feed.MixerConfig{
		OrganicRatio:             m.OrganicRatio,
		DiscoveryRatio:           m.DiscoveryRatio,
		SponsoredRatio:           m.SponsoredRatio,
		OpportunityRatio:         m.OpportunityRatio,
		MaxConsecutiveSponsored:  m.MaxConsecutiveSponsored,
		MinPostsBetweenSponsored: m.MinPostsBetweenSponsored,
		MaxSponsoredPerSession:   m.MaxSponsoredPerSession,
		SponsoredStartPosition:   m.SponsoredStartPosition,
		OpportunityInsertEvery:   m.OpportunityInsertEvery,
	}
}
