// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

package filterstate

import (
	"github.com/tomtom215/poweratlas/internal/markers"
	"github.com/tomtom215/poweratlas/internal/models"
)

// Kind names one of the fetches of a generation.
type Kind string

const (
	KindCapacityByFuel Kind = "capacity_by_fuel"
	KindCountryFuel    Kind = "country_fuel_capacity"
	KindFacilities     Kind = "facilities"
)

// Result dispositions recorded in metrics.
const (
	DispositionApplied = "applied"
	DispositionStale   = "stale"
	DispositionError   = "error"
)

// Result is one completed fetch. Exactly one payload field is set unless Err
// is non-nil.
type Result struct {
	Generation uint64
	Spec       models.FilterSpec
	Kind       Kind
	Err        error

	CapacityByFuel []models.FuelCapacity
	CountryFuel    []models.CountryFuelCapacity
	Layer          *markers.Layer
}

// Data returns the payload for Kind, or nil for an error result.
func (r Result) Data() interface{} {
	if r.Err != nil {
		return nil
	}
	switch r.Kind {
	case KindCapacityByFuel:
		return r.CapacityByFuel
	case KindCountryFuel:
		return r.CountryFuel
	case KindFacilities:
		return r.Layer
	default:
		return nil
	}
}
