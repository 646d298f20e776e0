// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/poweratlas/internal/models"
	"github.com/tomtom215/poweratlas/internal/validation"
)

const maxUpdateBodyBytes = 64 << 10

// ListFacilities returns the facilities matching the filter, ordered by id.
//
// @Summary List facilities
// @Tags Facilities
// @Param country query string false "ISO-3 country code"
// @Param fuel query int false "Fuel code (1-16)"
// @Param includeMicro query bool false "Include facilities below the micro threshold"
// @Success 200 {object} models.APIResponse{data=[]models.Facility}
// @Router /facilities [get]
func (h *Handler) ListFacilities(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := newQueryParams(r)
	spec := q.filterSpec()
	if err := q.err(); err != nil {
		respondErr(w, r, err)
		return
	}

	fs, err := h.engine.ListFacilities(r.Context(), spec)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondData(w, start, fs, len(fs))
}

// GetFacility returns one facility.
//
// @Summary Get facility
// @Tags Facilities
// @Param id path string true "Facility id (gppd_idnr)"
// @Success 200 {object} models.APIResponse{data=models.Facility}
// @Failure 404 {object} models.APIResponse
// @Router /facilities/{id} [get]
func (h *Handler) GetFacility(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	f, err := h.engine.Facility(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondData(w, start, f, -1)
}

// UpdateFacility applies an edit. The path id wins; a body id that differs
// is rejected.
//
// @Summary Update facility
// @Tags Facilities
// @Accept json
// @Param id path string true "Facility id (gppd_idnr)"
// @Param x-api-key header string true "API key"
// @Param body body models.FacilityUpdate true "New field values"
// @Success 200 {object} models.APIResponse{data=facilities.Outcome}
// @Failure 400 {object} models.APIResponse
// @Failure 403 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Failure 503 {object} models.APIResponse
// @Router /facilities/{id} [put]
func (h *Handler) UpdateFacility(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	var u models.FacilityUpdate
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUpdateBodyBytes))
	if err := dec.Decode(&u); err != nil {
		var tooLarge *http.MaxBytesError
		msg := "body must be a JSON facility update"
		if errors.As(err, &tooLarge) {
			msg = "body is too large"
		}
		respondErr(w, r, validation.NewFieldError("body", "json", nil, msg))
		return
	}

	switch body := strings.TrimSpace(u.ID); {
	case body == "":
		u.ID = id
	case body != id:
		respondErr(w, r, validation.NewFieldError("gppd_idnr", "eqpath", u.ID, "gppd_idnr must match the id in the path"))
		return
	}

	out, err := h.facilities.Update(r.Context(), &u)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondData(w, start, out, -1)
}

// DataCenters returns every data center, largest first.
//
// @Summary List data centers
// @Tags Facilities
// @Success 200 {object} models.APIResponse{data=[]models.DataCenter}
// @Router /datacenters [get]
func (h *Handler) DataCenters(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	dcs, err := h.engine.DataCenters(r.Context())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondData(w, start, dcs, len(dcs))
}
