// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

package models

// Bounds is a geographic bounding box in degrees.
type Bounds struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// Extend grows b to include the point. The zero Bounds is not a valid seed;
// start from PointBounds.
func (b Bounds) Extend(lat, lon float64) Bounds {
	if lat < b.South {
		b.South = lat
	}
	if lat > b.North {
		b.North = lat
	}
	if lon < b.West {
		b.West = lon
	}
	if lon > b.East {
		b.East = lon
	}
	return b
}

// PointBounds is the degenerate box around a single point.
func PointBounds(lat, lon float64) Bounds {
	return Bounds{South: lat, West: lon, North: lat, East: lon}
}

// MapFocus tells the map where to center after a selection or update.
type MapFocus struct {
	FacilityID string  `json:"facility_id"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Zoom       int     `json:"zoom"`
}
