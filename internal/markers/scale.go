// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

package markers

import "math"

// RadiusScale maps capacity (MW) to a marker radius in pixels:
//
//	minR + log(clamp(c, minC, maxC)) / log(maxC) * (maxR - minR)
//
// Missing, zero, negative or NaN capacity is treated as 1 MW, so it always
// gets the smallest radius.
type RadiusScale struct {
	MinCapacity float64
	MaxCapacity float64
	MinRadius   float64
	MaxRadius   float64
}

// DefaultFacilityScale sizes facilities from 12 px (1 MW) to 24 px (1000 MW).
func DefaultFacilityScale() RadiusScale {
	return RadiusScale{MinCapacity: 1, MaxCapacity: 1000, MinRadius: 12, MaxRadius: 24}
}

// DefaultDataCenterScale sizes data centers from 10 px (1 MW) to 26 px (800 MW).
func DefaultDataCenterScale() RadiusScale {
	return RadiusScale{MinCapacity: 1, MaxCapacity: 800, MinRadius: 10, MaxRadius: 26}
}

// Radius returns the marker radius for capacity.
func (s RadiusScale) Radius(capacity *float64) float64 {
	c := 1.0
	if capacity != nil && *capacity > 0 && !math.IsNaN(*capacity) {
		c = *capacity
	}

	minC := s.MinCapacity
	if minC < 1 {
		minC = 1
	}
	maxC := s.MaxCapacity
	if maxC <= minC {
		return s.MinRadius
	}
	c = math.Max(minC, math.Min(c, maxC))
	return s.MinRadius + math.Log(c)/math.Log(maxC)*(s.MaxRadius-s.MinRadius)
}
