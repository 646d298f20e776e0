// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

package api

import (
	"context"
	"time"

	"github.com/tomtom215/poweratlas/internal/analytics"
	"github.com/tomtom215/poweratlas/internal/config"
	"github.com/tomtom215/poweratlas/internal/facilities"
	"github.com/tomtom215/poweratlas/internal/markers"
	ws "github.com/tomtom215/poweratlas/internal/websocket"
)

// Version is reported by the health endpoint.
var Version = "dev"

// Pinger checks store connectivity. *database.DB satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handler.go: Handler struct and constructor (this file)
//   - helpers.go: response writing, error mapping, parameter parsing
//   - handlers_health.go: health and readiness
//   - handlers_capacity.go: filters, capacity and generation
//   - handlers_facilities.go: facility list, detail, update, data centers
//   - handlers_map.go: marker layers
//   - handlers_websocket.go: live view upgrade
type Handler struct {
	engine     *analytics.Engine
	facilities *facilities.Service
	projector  *markers.Projector
	wsHub      *ws.Hub
	db         Pinger
	config     *config.Config
	startTime  time.Time
}

// NewHandler creates a handler. hub may be nil, which disables /ws.
func NewHandler(engine *analytics.Engine, svc *facilities.Service, projector *markers.Projector, hub *ws.Hub, cfg *config.Config) *Handler {
	if projector == nil {
		projector = markers.NewProjector()
	}
	return &Handler{
		engine:     engine,
		facilities: svc,
		projector:  projector,
		wsHub:      hub,
		config:     cfg,
		startTime:  time.Now(),
	}
}

// SetDatabase enables the database check in the health endpoints.
func (h *Handler) SetDatabase(db Pinger) {
	h.db = db
}
