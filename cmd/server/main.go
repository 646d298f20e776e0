// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

// Package main runs the PowerAtlas server.
//
// Startup order:
//
//  1. Configuration (koanf: defaults, config.yaml, environment)
//  2. DuckDB store, seeded with demo data when SEED_DEMO_DATA=true
//  3. Aggregation engine with its TTL cache and circuit breaker
//  4. In-process event bus and the facility update service
//  5. Marker projector and the live view hub
//  6. HTTP router and server
//  7. Supervisor tree; blocks until SIGINT or SIGTERM
//
// The default port 3857 refers to EPSG:3857, the Web Mercator projection
// used by web maps.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/tomtom215/poweratlas/docs" // swagger document for /swagger/doc.json
	"github.com/tomtom215/poweratlas/internal/analytics"
	"github.com/tomtom215/poweratlas/internal/api"
	"github.com/tomtom215/poweratlas/internal/config"
	"github.com/tomtom215/poweratlas/internal/database"
	"github.com/tomtom215/poweratlas/internal/events"
	"github.com/tomtom215/poweratlas/internal/facilities"
	"github.com/tomtom215/poweratlas/internal/fuel"
	"github.com/tomtom215/poweratlas/internal/logging"
	"github.com/tomtom215/poweratlas/internal/markers"
	"github.com/tomtom215/poweratlas/internal/models"
	"github.com/tomtom215/poweratlas/internal/supervisor"
	"github.com/tomtom215/poweratlas/internal/supervisor/services"
	ws "github.com/tomtom215/poweratlas/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.ConfigFrom(cfg.Logging))

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Float64("micro_threshold_mw", cfg.Analytics.MicroThresholdMW).
		Bool("mutation_enabled", cfg.Security.APIKey != "").
		Msg("Starting PowerAtlas")

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Server stopped with error")
	}
	logging.Info().Msg("Shutdown complete")
}

func run(cfg *config.Config) error {
	catalog := fuel.Default()

	db, err := database.New(&cfg.Database,
		database.WithCatalog(catalog),
		database.WithMicroThreshold(cfg.Analytics.MicroThresholdMW),
	)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	engine := analytics.NewEngine(db, cfg.Analytics)
	defer engine.Close()

	bus := events.NewBus(0)
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Warn().Err(err).Msg("Error closing event bus")
		}
	}()

	updates := facilities.NewService(db,
		facilities.WithPublisher(&invalidatingPublisher{
			engine: engine,
			next:   events.NewPublisher(bus.Publisher()),
		}),
		facilities.WithBreaker(engine.Breaker()),
		facilities.WithFocusZoom(cfg.Map.FocusZoom),
	)

	projector := markers.NewProjectorFromConfig(cfg.Map, markers.PaletteFromCatalog(catalog))
	hub := ws.NewHub(engine, projector, cfg.LiveView)

	listener := events.NewListener(bus)
	listener.OnFacilityUpdated("flush-aggregation-cache", func(context.Context, *events.FacilityUpdatedEvent) error {
		engine.Invalidate()
		return nil
	})
	listener.OnFacilityUpdated("broadcast-live-view", func(_ context.Context, ev *events.FacilityUpdatedEvent) error {
		hub.BroadcastFacilityUpdated(&ev.Facility)
		return nil
	})

	handler := api.NewHandler(engine, updates, projector, hub, cfg)
	handler.SetDatabase(db)
	router := api.NewRouter(handler, cfg)

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return err
	}
	tree.AddEventService(listener)
	tree.AddLiveService(hub)
	tree.AddAPIService(services.NewHTTPServerService(
		services.NewHTTPServer(cfg.Server, router.SetupChi()),
		cfg.Server.ShutdownTimeout,
	))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = tree.Serve(ctx)
	if report, rerr := tree.UnstoppedServiceReport(); rerr == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop within the shutdown timeout")
		}
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// invalidatingPublisher flushes the aggregation cache before announcing an
// update, so the caller's next read already sees the new values. The
// listener flushes again when the event arrives.
type invalidatingPublisher struct {
	engine *analytics.Engine
	next   facilities.EventPublisher
}

func (p *invalidatingPublisher) FacilityUpdated(ctx context.Context, f *models.Facility) error {
	p.engine.Invalidate()
	return p.next.FacilityUpdated(ctx, f)
}
