// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

// Package facilities implements the facility edit operation: validate,
// apply through the store breaker, then announce the change.
package facilities

import (
	"context"
	"errors"
	"strings"

	"github.com/tomtom215/poweratlas/internal/analytics"
	"github.com/tomtom215/poweratlas/internal/database"
	"github.com/tomtom215/poweratlas/internal/logging"
	"github.com/tomtom215/poweratlas/internal/markers"
	"github.com/tomtom215/poweratlas/internal/metrics"
	"github.com/tomtom215/poweratlas/internal/models"
	"github.com/tomtom215/poweratlas/internal/validation"
)

const opUpdateFacility = "update_facility"

// Update outcomes recorded in metrics.
const (
	OutcomeApplied    = "applied"
	OutcomeInvalid    = "invalid"
	OutcomeNotFound   = "not_found"
	OutcomeStoreError = "store_error"
)

// Updater applies a validated update. *database.DB and
// *analytics.MemoryStore both satisfy it.
type Updater interface {
	UpdateFacility(ctx context.Context, u *models.FacilityUpdate) (*models.Facility, error)
}

// EventPublisher announces applied updates.
type EventPublisher interface {
	FacilityUpdated(ctx context.Context, f *models.Facility) error
}

// Outcome is a successful update and where the map should go next.
type Outcome struct {
	Facility *models.Facility `json:"facility"`
	Focus    models.MapFocus  `json:"focus"`
}

// Service runs facility updates.
type Service struct {
	store     Updater
	breaker   *analytics.StoreBreaker
	events    EventPublisher
	focusZoom int
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher announces every applied update on p.
func WithPublisher(p EventPublisher) Option {
	return func(s *Service) { s.events = p }
}

// WithBreaker shares b with other store callers so that failures observed
// anywhere open it for everyone.
func WithBreaker(b *analytics.StoreBreaker) Option {
	return func(s *Service) { s.breaker = b }
}

// WithFocusZoom sets the zoom of the returned MapFocus.
func WithFocusZoom(zoom int) Option {
	return func(s *Service) { s.focusZoom = zoom }
}

// NewService creates a Service over store.
func NewService(store Updater, opts ...Option) *Service {
	s := &Service{store: store, focusZoom: markers.DefaultFocusZoom}
	for _, opt := range opts {
		opt(s)
	}
	if s.breaker == nil {
		s.breaker = analytics.NewStoreBreaker("facility-update", 5, 0)
	}
	return s
}

// Update validates u, applies it and publishes facility.updated.
//
// Errors: a *validation.RequestValidationError for field failures and
// dangling references, database.ErrNotFound for an unknown id, and a
// *database.StoreError for store faults. A publish failure after the commit
// is logged and does not fail the update.
func (s *Service) Update(ctx context.Context, u *models.FacilityUpdate) (*Outcome, error) {
	if res := Validate(u); !res.OK() {
		metrics.RecordFacilityUpdate(OutcomeInvalid)
		return nil, res.Err()
	}

	normalized := *u
	normalized.ID = strings.TrimSpace(u.ID)
	normalized.Name = strings.TrimSpace(u.Name)

	updated, err := analytics.Execute(s.breaker, opUpdateFacility, func() (*models.Facility, error) {
		return s.store.UpdateFacility(ctx, &normalized)
	})
	if err != nil {
		metrics.RecordFacilityUpdate(classify(err))
		return nil, err
	}
	metrics.RecordFacilityUpdate(OutcomeApplied)

	logging.Ctx(ctx).Info().
		Str("facility_id", updated.ID).
		Msg("Facility updated")

	if s.events != nil {
		if perr := s.events.FacilityUpdated(ctx, updated); perr != nil {
			logging.Ctx(ctx).Warn().Err(perr).
				Str("facility_id", updated.ID).
				Msg("Failed to publish facility update")
		}
	}

	return &Outcome{
		Facility: updated,
		Focus:    markers.FocusOn(*updated, s.focusZoom),
	}, nil
}

func classify(err error) string {
	if _, ok := validation.AsValidationError(err); ok {
		return OutcomeInvalid
	}
	if errors.Is(err, database.ErrNotFound) {
		return OutcomeNotFound
	}
	return OutcomeStoreError
}
