// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

/*
Package middleware provides chi-compatible HTTP middleware.

Every constructor returns func(http.Handler) http.Handler so it can be
passed straight to chi's Router.Use:

	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.Compression)
	r.With(middleware.RequireAPIKey(cfg.Security.APIKey)).Put("/facilities/{id}", h.UpdateFacility)

Components:

  - RequestID: reuses or generates X-Request-ID and stores it in the logging
    context so every log line of the request carries request_id.
  - AccessLog: one zerolog line per request with status and duration.
  - PrometheusMetrics: api_requests_total and api_request_duration_seconds,
    labelled with the chi route pattern rather than the raw path so ids in
    the URL do not create new series.
  - Compression: gzip for clients that accept it. WebSocket upgrades pass
    through untouched.
  - RequireAPIKey: guards mutating routes with the x-api-key header using a
    constant-time comparison. An empty configured key rejects every request.

Response writer wrappers implement http.Hijacker and http.Flusher so the
WebSocket upgrade keeps working behind them.
*/
package middleware
