// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/poweratlas/internal/models"
)

// CountryFuelResponse is the cross-tab with its dense pivot.
type CountryFuelResponse struct {
	Rows  []models.CountryFuelCapacity `json:"rows"`
	Pivot models.CapacityPivot         `json:"pivot"`
}

// Filters returns the country and fuel choices for the filter controls.
//
// @Summary Filter metadata
// @Tags Capacity
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.FilterMetadata}
// @Router /filters [get]
func (h *Handler) Filters(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	meta, err := h.engine.FilterMetadata(r.Context())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondData(w, start, meta, -1)
}

// CapacityByCountry totals capacity per country, optionally for one fuel.
// Micro facilities are always included.
//
// @Summary Capacity by country
// @Tags Capacity
// @Param fuel query int false "Fuel code (1-16)"
// @Success 200 {object} models.APIResponse{data=[]models.CountryCapacity}
// @Failure 400 {object} models.APIResponse
// @Failure 503 {object} models.APIResponse
// @Router /capacity/countries [get]
func (h *Handler) CapacityByCountry(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := newQueryParams(r)
	fuel := q.fuel("fuel")
	if err := q.err(); err != nil {
		respondErr(w, r, err)
		return
	}

	rows, err := h.engine.CapacityByCountry(r.Context(), fuel)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondData(w, start, rows, len(rows))
}

// CapacityByFuel totals capacity per fuel for one country or the world.
//
// @Summary Capacity by fuel
// @Tags Capacity
// @Param country query string false "ISO-3 country code"
// @Param includeMicro query bool false "Include facilities below the micro threshold"
// @Success 200 {object} models.APIResponse{data=[]models.FuelCapacity}
// @Router /capacity/fuels [get]
func (h *Handler) CapacityByFuel(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := newQueryParams(r)
	country := q.country("country")
	includeMicro := q.boolean("includeMicro", false)
	if err := q.err(); err != nil {
		respondErr(w, r, err)
		return
	}

	rows, err := h.engine.CapacityByFuel(r.Context(), country, includeMicro)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondData(w, start, rows, len(rows))
}

// CapacityByCountryAndFuel returns the country by fuel cross-tab.
//
// @Summary Capacity by country and fuel
// @Tags Capacity
// @Param country query string false "ISO-3 country code"
// @Param includeMicro query bool false "Include facilities below the micro threshold"
// @Success 200 {object} models.APIResponse{data=CountryFuelResponse}
// @Router /capacity/country-fuel [get]
func (h *Handler) CapacityByCountryAndFuel(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := newQueryParams(r)
	country := q.country("country")
	includeMicro := q.boolean("includeMicro", false)
	if err := q.err(); err != nil {
		respondErr(w, r, err)
		return
	}

	rows, err := h.engine.CapacityByCountryAndFuel(r.Context(), country, includeMicro)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondData(w, start, CountryFuelResponse{Rows: rows, Pivot: models.PivotCapacity(rows)}, len(rows))
}

// Generation returns yearly generation for the requested countries.
//
// @Summary Generation by country
// @Tags Capacity
// @Param countries query string true "Comma-separated ISO-3 codes"
// @Success 200 {object} models.APIResponse{data=[]models.CountryGeneration}
// @Failure 400 {object} models.APIResponse
// @Router /generation [get]
func (h *Handler) Generation(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	countries := newQueryParams(r).list("countries")

	rows, err := h.engine.GenerationByCountries(r.Context(), countries)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondData(w, start, rows, len(rows))
}
