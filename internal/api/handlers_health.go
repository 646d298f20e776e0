// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/poweratlas/internal/cache"
	"github.com/tomtom215/poweratlas/internal/models"
)

// HealthStatus is the body of /health.
type HealthStatus struct {
	Status            string      `json:"status"`
	Version           string      `json:"version"`
	DatabaseConnected bool        `json:"database_connected"`
	BreakerState      string      `json:"breaker_state"`
	Cache             cache.Stats `json:"cache"`
	WebSocketClients  int         `json:"websocket_clients"`
	Uptime            float64     `json:"uptime"`
}

func (h *Handler) health(r *http.Request) HealthStatus {
	dbConnected := h.db != nil && h.db.Ping(r.Context()) == nil
	breaker := h.engine.Breaker().State()

	status := "healthy"
	if !dbConnected || breaker != "closed" {
		status = "degraded"
	}

	clients := 0
	if h.wsHub != nil {
		clients = h.wsHub.GetClientCount()
	}

	return HealthStatus{
		Status:            status,
		Version:           Version,
		DatabaseConnected: dbConnected,
		BreakerState:      breaker,
		Cache:             h.engine.CacheStats(),
		WebSocketClients:  clients,
		Uptime:            time.Since(h.startTime).Seconds(),
	}
}

// Health reports component status. It always answers 200.
//
// @Summary System health
// @Tags Core
// @Success 200 {object} models.APIResponse{data=HealthStatus}
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     h.health(r),
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// HealthLive answers 200 while the process runs.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// HealthReady answers 503 while the database is unreachable or the store
// breaker is open.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	status := h.health(r)
	if status.Status != "healthy" {
		respondJSON(w, http.StatusServiceUnavailable, &models.APIResponse{
			Status:   "error",
			Data:     status,
			Metadata: models.Metadata{Timestamp: time.Now()},
			Error: &models.APIError{
				Code:    CodeUnavailable,
				Message: "Service is not ready",
				Details: map[string]interface{}{"retryable": true},
			},
		})
		return
	}
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     status,
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}
