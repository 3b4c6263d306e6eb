// OpportunityFeed - Personalized Feed Mixing and Cold-Start Recommendations
// Copyright 2026 The OpportunityFeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/athenahq/opportunityfeed

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order
// of priority. The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/opportunityfeed/config.yaml",
	"/etc/opportunityfeed/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "OPPFEED_CONFIG_PATH"

// envPrefix is stripped from environment variables before mapping to config paths.
const envPrefix = "OPPFEED_"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8086,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		API: APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     50,
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Mixer: MixerConfig{
			OrganicRatio:             0.45,
			DiscoveryRatio:           0.30,
			SponsoredRatio:           0.10,
			OpportunityRatio:         0.15,
			MaxConsecutiveSponsored:  1,
			MinPostsBetweenSponsored: 4,
			MaxSponsoredPerSession:   10,
			SponsoredStartPosition:   3,
			OpportunityInsertEvery:   6,
		},
		ColdStart: ColdStartConfig{
			InteractionThreshold: 10,
			AccountAgeWindow:     14 * 24 * time.Hour,
			MinSkills:            3,
		},
		Session: SessionConfig{
			Store:           "memory",
			Path:            "/data/sessions",
			TTL:             30 * time.Minute,
			JanitorInterval: 5 * time.Minute,
		},
		Events: EventsConfig{
			Enabled:    true,
			BufferSize: 256,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: built-in sensible defaults
//  2. Config file: optional YAML config file (if exists)
//  3. Environment variables: override any setting (OPPFEED_ prefix)
//
// This provides:
//   - Type-safe configuration unmarshaling
//   - Clear precedence: ENV > File > Defaults
//   - Support for nested configuration via koanf struct tags
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	// OPPFEED_SERVER_PORT -> server.port
	// OPPFEED_MIXER_ORGANIC_RATIO -> mixer.organic_ratio
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known
// slice fields. Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (from YAML file or defaults)
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envTransformFunc maps OPPFEED_ environment variables to koanf config paths.
// Variables without the prefix are ignored so random environment variables do
// not pollute the config.
//
// Examples:
//   - OPPFEED_SERVER_PORT -> server.port
//   - OPPFEED_MIXER_MAX_SPONSORED_PER_SESSION -> mixer.max_sponsored_per_session
//   - OPPFEED_SESSION_STORE -> session.store
func envTransformFunc(key string) string {
	if !strings.HasPrefix(key, envPrefix) {
		return ""
	}
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))

	envMappings := map[string]string{
		// Server
		"server_host":             "server.host",
		"server_port":             "server.port",
		"server_timeout":          "server.timeout",
		"server_shutdown_timeout": "server.shutdown_timeout",

		// API
		"api_default_page_size": "api.default_page_size",
		"api_max_page_size":     "api.max_page_size",

		// Security
		"rate_limit_requests": "security.rate_limit_reqs",
		"rate_limit_window":   "security.rate_limit_window",
		"disable_rate_limit":  "security.rate_limit_disabled",
		"cors_origins":        "security.cors_origins",

		// Mixer
		"mixer_organic_ratio":               "mixer.organic_ratio",
		"mixer_discovery_ratio":             "mixer.discovery_ratio",
		"mixer_sponsored_ratio":             "mixer.sponsored_ratio",
		"mixer_opportunity_ratio":           "mixer.opportunity_ratio",
		"mixer_max_consecutive_sponsored":   "mixer.max_consecutive_sponsored",
		"mixer_min_posts_between_sponsored": "mixer.min_posts_between_sponsored",
		"mixer_max_sponsored_per_session":   "mixer.max_sponsored_per_session",
		"mixer_sponsored_start_position":    "mixer.sponsored_start_position",
		"mixer_opportunity_insert_every":    "mixer.opportunity_insert_every",

		// Cold start
		"coldstart_interaction_threshold": "coldstart.interaction_threshold",
		"coldstart_account_age_window":    "coldstart.account_age_window",
		"coldstart_min_skills":            "coldstart.min_skills",

		// Session store
		"session_store":            "session.store",
		"session_path":             "session.path",
		"session_ttl":              "session.ttl",
		"session_janitor_interval": "session.janitor_interval",

		// Events
		"events_enabled":     "events.enabled",
		"events_buffer_size": "events.buffer_size",

		// Logging
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// Unmapped keys are skipped.
	return ""
}
