// OpportunityFeed - Personalized Feed Mixing and Cold-Start Recommendations
// Copyright 2026 The OpportunityFeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/athenahq/opportunityfeed

// Package config provides typed, layered configuration for OpportunityFeed.
//
// Configuration is loaded in three layers with clear precedence:
// environment variables > YAML config file > built-in defaults.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the service.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	API       APIConfig       `koanf:"api"`
	Security  SecurityConfig  `koanf:"security"`
	Mixer     MixerConfig     `koanf:"mixer"`
	ColdStart ColdStartConfig `koanf:"coldstart"`
	Session   SessionConfig   `koanf:"session"`
	Events    EventsConfig    `koanf:"events"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the listen address.
	// Default: 0.0.0.0
	Host string `koanf:"host"`

	// Port is the listen port.
	// Default: 8086
	Port int `koanf:"port"`

	// Timeout is the read/write timeout for HTTP requests.
	// Default: 30s
	Timeout time.Duration `koanf:"timeout"`

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// Default: 10s
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// APIConfig holds API pagination settings.
type APIConfig struct {
	// DefaultPageSize is the page size used when the client omits limit.
	// Default: 20
	DefaultPageSize int `koanf:"default_page_size"`

	// MaxPageSize is the maximum allowed page size.
	// Default: 50
	MaxPageSize int `koanf:"max_page_size"`
}

// SecurityConfig holds rate limiting and CORS settings.
type SecurityConfig struct {
	// RateLimitReqs is the number of requests allowed per window per IP.
	// Default: 100
	RateLimitReqs int `koanf:"rate_limit_reqs"`

	// RateLimitWindow is the rate limit window duration.
	// Default: 1m
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// RateLimitDisabled disables rate limiting entirely (dev/test only).
	// Default: false
	RateLimitDisabled bool `koanf:"rate_limit_disabled"`

	// CORSOrigins is the list of allowed CORS origins.
	// Default: ["*"]
	CORSOrigins []string `koanf:"cors_origins"`
}

// MixerConfig holds feed mixing ratios and sponsored pacing constraints.
// These values mirror the product defaults for the opportunity feed.
type MixerConfig struct {
	// OrganicRatio is the target share of organic content per page.
	// Default: 0.45
	OrganicRatio float64 `koanf:"organic_ratio"`

	// DiscoveryRatio is the target share of discovery content per page.
	// Default: 0.30
	DiscoveryRatio float64 `koanf:"discovery_ratio"`

	// SponsoredRatio is the target share of sponsored content per page.
	// Default: 0.10
	SponsoredRatio float64 `koanf:"sponsored_ratio"`

	// OpportunityRatio is the target share of opportunity content per page.
	// Default: 0.15
	OpportunityRatio float64 `koanf:"opportunity_ratio"`

	// MaxConsecutiveSponsored is the maximum run of adjacent sponsored items.
	// Default: 1
	MaxConsecutiveSponsored int `koanf:"max_consecutive_sponsored"`

	// MinPostsBetweenSponsored is the minimum number of non-sponsored items
	// between two sponsored items, tracked across the whole session.
	// Default: 4
	MinPostsBetweenSponsored int `koanf:"min_posts_between_sponsored"`

	// MaxSponsoredPerSession caps sponsored impressions per session.
	// Default: 10
	MaxSponsoredPerSession int `koanf:"max_sponsored_per_session"`

	// SponsoredStartPosition is the first slot (0-based) eligible for a
	// sponsored item on the first page of a session.
	// Default: 3
	SponsoredStartPosition int `koanf:"sponsored_start_position"`

	// OpportunityInsertEvery guarantees an opportunity at least once per
	// this many consecutive slots while the pool has items.
	// Default: 6
	OpportunityInsertEvery int `koanf:"opportunity_insert_every"`
}

// ColdStartConfig holds cold-start detection thresholds.
type ColdStartConfig struct {
	// InteractionThreshold is the interaction count below which a recent
	// account is considered cold.
	// Default: 10
	InteractionThreshold int `koanf:"interaction_threshold"`

	// AccountAgeWindow is the account age below which low interaction
	// counts indicate a cold start.
	// Default: 336h (14 days)
	AccountAgeWindow time.Duration `koanf:"account_age_window"`

	// MinSkills is the number of profile skills below which the user is
	// treated as cold regardless of activity.
	// Default: 3
	MinSkills int `koanf:"min_skills"`
}

// SessionConfig holds session pacing store settings.
type SessionConfig struct {
	// Store selects the pacing store backend: "memory" or "badger".
	// Default: memory
	Store string `koanf:"store"`

	// Path is the BadgerDB directory (badger store only).
	// Default: /data/sessions
	Path string `koanf:"path"`

	// TTL is how long pacing state survives without activity.
	// Default: 30m
	TTL time.Duration `koanf:"ttl"`

	// JanitorInterval is how often expired sessions are swept (memory store).
	// Default: 5m
	JanitorInterval time.Duration `koanf:"janitor_interval"`
}

// EventsConfig holds event bus settings.
type EventsConfig struct {
	// Enabled toggles the in-process event bus.
	// Default: true
	Enabled bool `koanf:"enabled"`

	// BufferSize is the per-subscriber channel buffer.
	// Default: 256
	BufferSize int `koanf:"buffer_size"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level.
	// Default: info
	Level string `koanf:"level"`

	// Format is "json" or "console".
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file/line in log output.
	// Default: false
	Caller bool `koanf:"caller"`
}

// Validate checks the configuration for invalid or inconsistent values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 1-65535, got %d", c.Server.Port)
	}
	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("api.default_page_size must be >= 1, got %d", c.API.DefaultPageSize)
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("api.max_page_size (%d) must be >= api.default_page_size (%d)",
			c.API.MaxPageSize, c.API.DefaultPageSize)
	}
	if err := c.Mixer.Validate(); err != nil {
		return fmt.Errorf("mixer: %w", err)
	}
	if c.ColdStart.InteractionThreshold < 1 {
		return fmt.Errorf("coldstart.interaction_threshold must be >= 1, got %d", c.ColdStart.InteractionThreshold)
	}
	if c.ColdStart.MinSkills < 0 {
		return fmt.Errorf("coldstart.min_skills must be >= 0, got %d", c.ColdStart.MinSkills)
	}
	switch c.Session.Store {
	case "memory", "badger":
	default:
		return fmt.Errorf("session.store must be \"memory\" or \"badger\", got %q", c.Session.Store)
	}
	if c.Session.Store == "badger" && c.Session.Path == "" {
		return fmt.Errorf("session.path is required when session.store is badger")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be > 0, got %s", c.Session.TTL)
	}
	return nil
}

// Validate checks mixer ratios and pacing constraints.
func (m *MixerConfig) Validate() error {
	ratios := map[string]float64{
		"organic_ratio":     m.OrganicRatio,
		"discovery_ratio":   m.DiscoveryRatio,
		"sponsored_ratio":   m.SponsoredRatio,
		"opportunity_ratio": m.OpportunityRatio,
	}
	sum := 0.0
	for name, r := range ratios {
		if r < 0 || r > 1 {
			return fmt.Errorf("%s must be in [0,1], got %v", name, r)
		}
		sum += r
	}
	// Allow small float drift when the four ratios are meant to sum to 1.
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("pool ratios must sum to 1.0, got %v", sum)
	}
	if m.MaxConsecutiveSponsored < 1 {
		return fmt.Errorf("max_consecutive_sponsored must be >= 1, got %d", m.MaxConsecutiveSponsored)
	}
	if m.MinPostsBetweenSponsored < 0 {
		return fmt.Errorf("min_posts_between_sponsored must be >= 0, got %d", m.MinPostsBetweenSponsored)
	}
	if m.MaxSponsoredPerSession < 0 {
		return fmt.Errorf("max_sponsored_per_session must be >= 0, got %d", m.MaxSponsoredPerSession)
	}
	if m.SponsoredStartPosition < 0 {
		return fmt.Errorf("sponsored_start_position must be >= 0, got %d", m.SponsoredStartPosition)
	}
	if m.OpportunityInsertEvery < 1 {
		return fmt.Errorf("opportunity_insert_every must be >= 1, got %d", m.OpportunityInsertEvery)
	}
	return nil
}
