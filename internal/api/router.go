// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/poweratlas/internal/config"
	"github.com/tomtom215/poweratlas/internal/middleware"
	"github.com/tomtom215/poweratlas/internal/models"
)

// Router binds handlers to routes.
type Router struct {
	handler       *Handler
	apiKey        string
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. cfg may be nil, which leaves CORS closed,
// rate limiting at its defaults and mutation disabled.
func NewRouter(handler *Handler, cfg *config.Config) *Router {
	r := &Router{handler: handler}
	if cfg != nil {
		r.apiKey = cfg.Security.APIKey
		r.chiMiddleware = NewChiMiddleware(NewChiMiddlewareConfig(cfg.Security))
	} else {
		r.chiMiddleware = NewChiMiddleware(nil)
	}
	return r
}

// SetupChi builds the chi route tree.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered
	r.Use(middleware.AccessLog)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, &models.APIError{Code: CodeNotFound, Message: "Route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, &models.APIError{Code: "METHOD_NOT_ALLOWED", Message: "Method not allowed"})
	})

	r.Route("/health", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		r.Get("/ws", router.handler.WebSocket)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Compression)

			r.Get("/filters", router.handler.Filters)
			r.Get("/generation", router.handler.Generation)
			r.Get("/datacenters", router.handler.DataCenters)
			r.Get("/map/markers", router.handler.MapMarkers)

			r.Route("/capacity", func(r chi.Router) {
				r.Get("/countries", router.handler.CapacityByCountry)
				r.Get("/fuels", router.handler.CapacityByFuel)
				r.Get("/country-fuel", router.handler.CapacityByCountryAndFuel)
			})

			r.Route("/facilities", func(r chi.Router) {
				r.Get("/", router.handler.ListFacilities)
				r.Get("/{id}", router.handler.GetFacility)
				r.With(middleware.RequireAPIKey(router.apiKey)).Put("/{id}", router.handler.UpdateFacility)
			})
		})
	})

	return r
}
