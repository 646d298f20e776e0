// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

package config

import (
	"fmt"
	"strings"
)

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateAnalytics(); err != nil {
		return err
	}
	if err := c.validateMap(); err != nil {
		return err
	}
	if err := c.validateLiveView(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH must not be empty")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be >= 0, got %d", c.Database.Threads)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

func (c *Config) validateAnalytics() error {
	if c.Analytics.MicroThresholdMW < 0 {
		return fmt.Errorf("MICRO_THRESHOLD_MW must be >= 0, got %v", c.Analytics.MicroThresholdMW)
	}
	if c.Analytics.CacheTTL < 0 {
		return fmt.Errorf("ANALYTICS_CACHE_TTL must be >= 0")
	}
	if c.Analytics.BreakerMaxFailures == 0 {
		return fmt.Errorf("BREAKER_MAX_FAILURES must be at least 1")
	}
	return nil
}

func (c *Config) validateMap() error {
	m := c.Map
	if m.ClusterPixelRadius <= 0 {
		return fmt.Errorf("CLUSTER_PIXEL_RADIUS must be positive, got %v", m.ClusterPixelRadius)
	}
	if m.DisableClusteringAtZoom < 0 || m.DisableClusteringAtZoom > 22 {
		return fmt.Errorf("DISABLE_CLUSTERING_AT_ZOOM must be between 0 and 22, got %d", m.DisableClusteringAtZoom)
	}
	if m.FocusZoom < 0 || m.FocusZoom > 22 {
		return fmt.Errorf("MAP_FOCUS_ZOOM must be between 0 and 22, got %d", m.FocusZoom)
	}
	if m.FacilityMaxCapacity <= 1 || m.DataCenterMaxCapacity <= 1 {
		return fmt.Errorf("map max capacities must be greater than 1 MW")
	}
	if m.FacilityMinRadius <= 0 || m.FacilityMaxRadius < m.FacilityMinRadius {
		return fmt.Errorf("facility radius range [%v, %v] is invalid", m.FacilityMinRadius, m.FacilityMaxRadius)
	}
	if m.DataCenterMinRadius <= 0 || m.DataCenterMaxRadius < m.DataCenterMinRadius {
		return fmt.Errorf("data center radius range [%v, %v] is invalid", m.DataCenterMinRadius, m.DataCenterMaxRadius)
	}
	return nil
}

func (c *Config) validateLiveView() error {
	if c.LiveView.MessagesPerSecond <= 0 {
		return fmt.Errorf("WS_MESSAGES_PER_SECOND must be positive")
	}
	if c.LiveView.Burst < 1 {
		return fmt.Errorf("WS_BURST must be at least 1")
	}
	if c.LiveView.SendBuffer < 1 {
		return fmt.Errorf("WS_SEND_BUFFER must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
