// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

package markers

import "github.com/tomtom215/poweratlas/internal/models"

// DefaultFocusZoom is the zoom the map uses to show one facility.
const DefaultFocusZoom = 9

// FitBounds returns the smallest box containing every marker. It reports
// false for an empty slice.
func FitBounds(ms []Marker) (models.Bounds, bool) {
	if len(ms) == 0 {
		return models.Bounds{}, false
	}
	b := models.PointBounds(ms[0].Latitude, ms[0].Longitude)
	for _, m := range ms[1:] {
		b = b.Extend(m.Latitude, m.Longitude)
	}
	return b, true
}

// FocusOn centers the map on f at zoom (DefaultFocusZoom when zoom <= 0).
func FocusOn(f models.Facility, zoom int) models.MapFocus {
	if zoom <= 0 {
		zoom = DefaultFocusZoom
	}
	return models.MapFocus{
		FacilityID: f.ID,
		Latitude:   f.Latitude,
		Longitude:  f.Longitude,
		Zoom:       ClampZoom(zoom),
	}
}
