// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

package markers

import (
	"sort"

	"github.com/tomtom215/poweratlas/internal/models"
)

// Kind distinguishes facility markers from data center markers.
type Kind string

const (
	KindFacility   Kind = "facility"
	KindDataCenter Kind = "datacenter"
)

// Shape is the glyph drawn for a marker.
type Shape string

const (
	ShapeCircle  Shape = "circle"
	ShapeDiamond Shape = "diamond"
)

// Marker is one drawable point.
type Marker struct {
	ID         string   `json:"id"`
	Kind       Kind     `json:"kind"`
	Name       string   `json:"name"`
	Latitude   float64  `json:"latitude"`
	Longitude  float64  `json:"longitude"`
	Radius     float64  `json:"radius"`
	Color      string   `json:"color"`
	Shape      Shape    `json:"shape"`
	Label      string   `json:"label"`
	FuelCode   *int     `json:"fuel_code,omitempty"`
	CapacityMW *float64 `json:"capacity_mw"`
	Priority   int      `json:"priority"`

	// Z is the position in draw order, 0 drawn first.
	Z int `json:"z"`
}

func (m Marker) capacity() float64 {
	if m.CapacityMW == nil {
		return 0
	}
	return *m.CapacityMW
}

// drawLess orders markers by ascending priority, then descending capacity,
// then id.
func drawLess(a, b Marker) bool {
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	if ca, cb := a.capacity(), b.capacity(); ca != cb {
		return ca > cb
	}
	return a.ID < b.ID
}

// SortForDraw sorts markers into draw order in place and assigns Z.
// The order is a total order over distinct ids, so the result does not
// depend on the input order.
func SortForDraw(ms []Marker) {
	sort.Slice(ms, func(i, j int) bool { return drawLess(ms[i], ms[j]) })
	for i := range ms {
		ms[i].Z = i
	}
}

// SkipReason says why a record produced no marker.
type SkipReason string

const (
	SkipNonFinite      SkipReason = "non_finite_coordinate"
	SkipLatitudeRange  SkipReason = "latitude_out_of_range"
	SkipLongitudeRange SkipReason = "longitude_out_of_range"
	SkipDuplicateID    SkipReason = "duplicate_id"
)

// Skipped records one rejected input.
type Skipped struct {
	ID     string     `json:"id"`
	Reason SkipReason `json:"reason"`
}

// Layer is the projected result for one kind of record.
type Layer struct {
	Kind       Kind      `json:"kind"`
	Zoom       int       `json:"zoom"`
	Markers    []Marker  `json:"markers"`
	Clusters   []Cluster `json:"clusters"`
	Singletons []Marker  `json:"singletons"`
	Skipped    []Skipped `json:"skipped"`

	// Bounds covers every marker; nil for an empty layer.
	Bounds *models.Bounds `json:"bounds,omitempty"`

	facilities  map[string]models.Facility
	dataCenters map[string]models.DataCenter
	clusterIdx  map[string]int
	markerIdx   map[string]int
}

func newLayer(kind Kind, zoom int) Layer {
	return Layer{
		Kind:       kind,
		Zoom:       zoom,
		Markers:    []Marker{},
		Clusters:   []Cluster{},
		Singletons: []Marker{},
		Skipped:    []Skipped{},
		clusterIdx: map[string]int{},
		markerIdx:  map[string]int{},
	}
}
