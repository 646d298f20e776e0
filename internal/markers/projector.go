// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

package markers

import (
	"math"

	"github.com/tomtom215/poweratlas/internal/config"
	"github.com/tomtom215/poweratlas/internal/logging"
	"github.com/tomtom215/poweratlas/internal/metrics"
	"github.com/tomtom215/poweratlas/internal/models"
)

// Zoom bounds accepted by the projector.
const (
	MinZoom = 0
	MaxZoom = 22
)

// Projector builds marker layers.
type Projector struct {
	palette         Palette
	facilityScale   RadiusScale
	dataCenterScale RadiusScale
	cluster         ClusterOptions
	focusZoom       int
}

// NewProjector creates a projector with the default palette, scales and
// clustering options.
func NewProjector() *Projector {
	return &Projector{
		palette:         DefaultPalette(),
		facilityScale:   DefaultFacilityScale(),
		dataCenterScale: DefaultDataCenterScale(),
		cluster:         DefaultClusterOptions(),
		focusZoom:       DefaultFocusZoom,
	}
}

// NewProjectorFromConfig applies cfg over the defaults. Zero values keep the default.
func NewProjectorFromConfig(cfg config.MapConfig, palette Palette) *Projector {
	p := NewProjector()
	p.palette = palette

	setIf := func(dst *float64, v float64) {
		if v > 0 {
			*dst = v
		}
	}
	setIf(&p.facilityScale.MinRadius, cfg.FacilityMinRadius)
	setIf(&p.facilityScale.MaxRadius, cfg.FacilityMaxRadius)
	setIf(&p.facilityScale.MaxCapacity, cfg.FacilityMaxCapacity)
	setIf(&p.dataCenterScale.MinRadius, cfg.DataCenterMinRadius)
	setIf(&p.dataCenterScale.MaxRadius, cfg.DataCenterMaxRadius)
	setIf(&p.dataCenterScale.MaxCapacity, cfg.DataCenterMaxCapacity)
	setIf(&p.cluster.PixelRadius, cfg.ClusterPixelRadius)
	if cfg.DisableClusteringAtZoom > 0 {
		p.cluster.DisableAtZoom = cfg.DisableClusteringAtZoom
	}
	if cfg.FocusZoom > 0 {
		p.focusZoom = cfg.FocusZoom
	}
	return p
}

// Palette returns the palette in use.
func (p *Projector) Palette() Palette {
	return p.palette
}

// FocusZoom returns the zoom used when focusing a single facility.
func (p *Projector) FocusZoom() int {
	return p.focusZoom
}

// ClampZoom limits zoom to [MinZoom, MaxZoom].
func ClampZoom(zoom int) int {
	if zoom < MinZoom {
		return MinZoom
	}
	if zoom > MaxZoom {
		return MaxZoom
	}
	return zoom
}

// checkCoordinate returns the reason a point cannot be drawn, or "".
func checkCoordinate(lat, lon float64) SkipReason {
	switch {
	case math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0):
		return SkipNonFinite
	case lat < -90 || lat > 90:
		return SkipLatitudeRange
	case lon < -180 || lon > 180:
		return SkipLongitudeRange
	}
	return ""
}

// Facilities projects fs into a clustered layer at zoom.
// Records with unusable coordinates or repeated ids are skipped and
// reported; they never fail the layer.
func (p *Projector) Facilities(fs []models.Facility, zoom int) Layer {
	zoom = ClampZoom(zoom)
	layer := newLayer(KindFacility, zoom)
	layer.facilities = make(map[string]models.Facility, len(fs))
	skipped := map[string]int{}

	for _, f := range fs {
		if reason := p.admit(&layer, f.ID, f.Latitude, f.Longitude); reason != "" {
			skipped[string(reason)]++
			continue
		}
		style := p.palette.Style(f.FuelCode)
		layer.facilities[f.ID] = f
		layer.Markers = append(layer.Markers, Marker{
			ID:         f.ID,
			Kind:       KindFacility,
			Name:       f.Name,
			Latitude:   f.Latitude,
			Longitude:  f.Longitude,
			Radius:     p.facilityScale.Radius(f.CapacityMW),
			Color:      style.Color,
			Shape:      ShapeCircle,
			Label:      style.Label,
			FuelCode:   f.FuelCode,
			CapacityMW: f.CapacityMW,
			Priority:   style.Priority,
		})
	}

	SortForDraw(layer.Markers)
	clustered := Group(layer.Markers, zoom, p.cluster)
	layer.Clusters = clustered.Clusters
	layer.Singletons = clustered.Singletons
	p.finish(&layer, skipped)

	metrics.ClustersFormed.Observe(float64(len(layer.Clusters)))
	return layer
}

// DataCenters projects dcs into an unclustered diamond layer.
func (p *Projector) DataCenters(dcs []models.DataCenter) Layer {
	layer := newLayer(KindDataCenter, 0)
	layer.dataCenters = make(map[string]models.DataCenter, len(dcs))
	skipped := map[string]int{}

	for _, dc := range dcs {
		if reason := p.admit(&layer, dc.ID, dc.Latitude, dc.Longitude); reason != "" {
			skipped[string(reason)]++
			continue
		}
		layer.dataCenters[dc.ID] = dc
		layer.Markers = append(layer.Markers, Marker{
			ID:         dc.ID,
			Kind:       KindDataCenter,
			Name:       dc.Name,
			Latitude:   dc.Latitude,
			Longitude:  dc.Longitude,
			Radius:     p.dataCenterScale.Radius(dc.CapacityMW),
			Color:      DataCenterColor,
			Shape:      ShapeDiamond,
			Label:      DataCenterLabel,
			CapacityMW: dc.CapacityMW,
		})
	}

	SortForDraw(layer.Markers)
	layer.Singletons = append(layer.Singletons, layer.Markers...)
	p.finish(&layer, skipped)
	return layer
}

// admit validates one record and records a skip when it is rejected.
func (p *Projector) admit(layer *Layer, id string, lat, lon float64) SkipReason {
	reason := checkCoordinate(lat, lon)
	if reason == "" {
		if _, dup := layer.markerIdx[id]; dup {
			reason = SkipDuplicateID
		} else {
			layer.markerIdx[id] = -1
		}
	}
	if reason != "" {
		layer.Skipped = append(layer.Skipped, Skipped{ID: id, Reason: reason})
		logging.Warn().
			Str("layer", string(layer.Kind)).
			Str("id", id).
			Str("reason", string(reason)).
			Float64("latitude", lat).
			Float64("longitude", lon).
			Msg("Skipping marker")
	}
	return reason
}

// finish indexes markers and clusters, computes bounds and records metrics.
func (p *Projector) finish(layer *Layer, skipped map[string]int) {
	for i, m := range layer.Markers {
		layer.markerIdx[m.ID] = i
	}
	for i, c := range layer.Clusters {
		layer.clusterIdx[c.ID] = i
	}
	if b, ok := FitBounds(layer.Markers); ok {
		layer.Bounds = &b
	}
	metrics.RecordProjection(string(layer.Kind), len(layer.Markers), skipped)
}
