// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/poweratlas/internal/markers"
	"github.com/tomtom215/poweratlas/internal/models"
)

// MarkersResponse holds both marker layers and the palette that colored
// them.
type MarkersResponse struct {
	Filter      models.FilterSpec `json:"filter"`
	Facilities  markers.Layer     `json:"facilities"`
	DataCenters markers.Layer     `json:"datacenters"`
	Palette     markers.Palette   `json:"palette"`
}

// MapMarkers projects the filtered facilities and all data centers.
//
// @Summary Map markers
// @Tags Map
// @Param country query string false "ISO-3 country code"
// @Param fuel query int false "Fuel code (1-16)"
// @Param includeMicro query bool false "Include facilities below the micro threshold"
// @Param zoom query int false "Map zoom (0-22)"
// @Success 200 {object} models.APIResponse{data=MarkersResponse}
// @Router /map/markers [get]
func (h *Handler) MapMarkers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := newQueryParams(r)
	spec := q.filterSpec()
	zoom := q.zoom("zoom", defaultMapZoom)
	if err := q.err(); err != nil {
		respondErr(w, r, err)
		return
	}

	fs, err := h.engine.ListFacilities(r.Context(), spec)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	dcs, err := h.engine.DataCenters(r.Context())
	if err != nil {
		respondErr(w, r, err)
		return
	}

	resp := MarkersResponse{
		Filter:      spec,
		Facilities:  h.projector.Facilities(fs, zoom),
		DataCenters: h.projector.DataCenters(dcs),
		Palette:     h.projector.Palette(),
	}
	respondData(w, start, resp, len(resp.Facilities.Markers)+len(resp.DataCenters.Markers))
}
