// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

package markers

import (
	"fmt"
	"math"
	"sort"

	"github.com/tomtom215/poweratlas/internal/models"
)

// ClusterOptions controls grouping.
type ClusterOptions struct {
	// PixelRadius is the maximum screen distance between a cluster seed
	// and the markers it absorbs.
	PixelRadius float64

	// DisableAtZoom turns clustering off at this zoom and above.
	DisableAtZoom int
}

// DefaultClusterOptions groups within 80 px and stops clustering at zoom 7.
func DefaultClusterOptions() ClusterOptions {
	return ClusterOptions{PixelRadius: 80, DisableAtZoom: 7}
}

// Cluster is one glyph standing in for several nearby markers.
type Cluster struct {
	ID        string        `json:"id"`
	Count     int           `json:"count"`
	Latitude  float64       `json:"latitude"`
	Longitude float64       `json:"longitude"`
	Bounds    models.Bounds `json:"bounds"`
	MemberIDs []string      `json:"member_ids"`
}

// ClusterResult splits markers into clusters and markers drawn on their own.
type ClusterResult struct {
	Clusters   []Cluster
	Singletons []Marker
}

const maxMercatorLat = 85.05112878

// mercatorPixel projects a point to Web Mercator pixel space at zoom,
// where the world is 256 * 2^zoom pixels wide.
func mercatorPixel(lat, lon float64, zoom int) (x, y float64) {
	size := 256 * math.Exp2(float64(zoom))
	lat = math.Max(-maxMercatorLat, math.Min(maxMercatorLat, lat))
	sinLat := math.Sin(lat * math.Pi / 180)

	x = (lon + 180) / 360 * size
	y = (0.5 - math.Log((1+sinLat)/(1-sinLat))/(4*math.Pi)) * size
	return x, y
}

// Group clusters markers for display at zoom.
//
// Below opts.DisableAtZoom markers are visited in id order; each marker not
// yet assigned seeds a group and claims every unassigned marker within
// opts.PixelRadius of it. Groups of one stay singletons. At or above the
// threshold every marker is a singleton.
//
// The result depends only on the marker set, zoom and options. Clusters are
// listed by seed id, members by id, singletons in draw order.
func Group(markers []Marker, zoom int, opts ClusterOptions) ClusterResult {
	ordered := make([]Marker, len(markers))
	copy(ordered, markers)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	result := ClusterResult{Clusters: []Cluster{}, Singletons: []Marker{}}

	if zoom >= opts.DisableAtZoom || opts.PixelRadius <= 0 {
		result.Singletons = append(result.Singletons, ordered...)
		SortForDraw(result.Singletons)
		return result
	}

	xs := make([]float64, len(ordered))
	ys := make([]float64, len(ordered))
	grid := newPixelGrid(opts.PixelRadius)
	for i, m := range ordered {
		xs[i], ys[i] = mercatorPixel(m.Latitude, m.Longitude, zoom)
		grid.insert(i, xs[i], ys[i])
	}

	assigned := make([]bool, len(ordered))
	r2 := opts.PixelRadius * opts.PixelRadius

	for seed := range ordered {
		if assigned[seed] {
			continue
		}
		assigned[seed] = true
		members := []int{seed}

		for _, j := range grid.nearby(xs[seed], ys[seed], opts.PixelRadius) {
			if assigned[j] {
				continue
			}
			dx, dy := xs[j]-xs[seed], ys[j]-ys[seed]
			if dx*dx+dy*dy <= r2 {
				assigned[j] = true
				members = append(members, j)
			}
		}

		if len(members) == 1 {
			result.Singletons = append(result.Singletons, ordered[seed])
			continue
		}
		result.Clusters = append(result.Clusters, buildCluster(ordered, members, zoom))
	}

	SortForDraw(result.Singletons)
	return result
}

func buildCluster(ordered []Marker, members []int, zoom int) Cluster {
	sort.Ints(members)
	seed := ordered[members[0]]

	c := Cluster{
		ID:        fmt.Sprintf("%d:%s", zoom, seed.ID),
		Count:     len(members),
		Bounds:    models.PointBounds(seed.Latitude, seed.Longitude),
		MemberIDs: make([]string, 0, len(members)),
	}
	var sumLat, sumLon float64
	for _, i := range members {
		m := ordered[i]
		sumLat += m.Latitude
		sumLon += m.Longitude
		c.Bounds = c.Bounds.Extend(m.Latitude, m.Longitude)
		c.MemberIDs = append(c.MemberIDs, m.ID)
	}
	c.Latitude = sumLat / float64(len(members))
	c.Longitude = sumLon / float64(len(members))
	return c
}
