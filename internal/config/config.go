// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

// Package config loads PowerAtlas configuration from built-in defaults, an
// optional YAML file and environment variables, in that order of precedence.
//
// Environment variables use flat legacy-style names (DUCKDB_PATH, HTTP_PORT,
// MICRO_THRESHOLD_MW, ...). See envMappings in koanf.go for the full table;
// unmapped variables are ignored.
package config

import "time"

// Config holds all application configuration.
type Config struct {
	Database  DatabaseConfig  `koanf:"database"`
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
	Analytics AnalyticsConfig `koanf:"analytics"`
	Map       MapConfig       `koanf:"map"`
	LiveView  LiveViewConfig  `koanf:"live_view"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	Path         string `koanf:"path"`
	MaxMemory    string `koanf:"max_memory"`
	Threads      int    `koanf:"threads"`        // 0 = DuckDB default (NumCPU)
	SeedDemoData bool   `koanf:"seed_demo_data"` // load a small demo dataset on startup
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// SecurityConfig holds API protection settings.
type SecurityConfig struct {
	// APIKey authorizes facility updates via the x-api-key header.
	// Empty disables every mutating route.
	APIKey            string        `koanf:"api_key"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds zerolog settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// AnalyticsConfig tunes the aggregation engine.
type AnalyticsConfig struct {
	// MicroThresholdMW is the capacity below which a facility counts as micro.
	// A facility exactly at the threshold is not micro.
	MicroThresholdMW float64 `koanf:"micro_threshold_mw"`

	// CacheTTL is how long aggregation results are cached. Zero disables caching.
	CacheTTL time.Duration `koanf:"cache_ttl"`

	// BreakerMaxFailures consecutive store failures open the circuit breaker.
	BreakerMaxFailures uint32 `koanf:"breaker_max_failures"`

	// BreakerTimeout is how long the breaker stays open before probing.
	BreakerTimeout time.Duration `koanf:"breaker_timeout"`
}

// MapConfig holds marker projection and clustering settings.
type MapConfig struct {
	ClusterPixelRadius      float64 `koanf:"cluster_pixel_radius"`
	DisableClusteringAtZoom int     `koanf:"disable_clustering_at_zoom"`
	FocusZoom               int     `koanf:"focus_zoom"`

	FacilityMinRadius   float64 `koanf:"facility_min_radius"`
	FacilityMaxRadius   float64 `koanf:"facility_max_radius"`
	FacilityMaxCapacity float64 `koanf:"facility_max_capacity"`

	DataCenterMinRadius   float64 `koanf:"datacenter_min_radius"`
	DataCenterMaxRadius   float64 `koanf:"datacenter_max_radius"`
	DataCenterMaxCapacity float64 `koanf:"datacenter_max_capacity"`
}

// LiveViewConfig holds WebSocket live view settings.
type LiveViewConfig struct {
	MessagesPerSecond float64 `koanf:"messages_per_second"`
	Burst             int     `koanf:"burst"`
	SendBuffer        int     `koanf:"send_buffer"`
}

// Load reads configuration from defaults, config file and environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
