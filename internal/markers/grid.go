// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

package markers

import "math"

type cellKey struct {
	X, Y int
}

// pixelGrid buckets points into square cells so a radius query only looks
// at the cells the radius can reach. It is built once per clustering pass
// and never shared, so it carries no lock.
type pixelGrid struct {
	cellSize float64
	cells    map[cellKey][]int
}

func newPixelGrid(cellSize float64) *pixelGrid {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &pixelGrid{cellSize: cellSize, cells: make(map[cellKey][]int)}
}

func (g *pixelGrid) key(x, y float64) cellKey {
	return cellKey{X: int(math.Floor(x / g.cellSize)), Y: int(math.Floor(y / g.cellSize))}
}

// insert adds point index i at (x, y).
func (g *pixelGrid) insert(i int, x, y float64) {
	k := g.key(x, y)
	g.cells[k] = append(g.cells[k], i)
}

// nearby returns candidate indices whose cell can lie within radius of
// (x, y). Callers check the exact distance.
func (g *pixelGrid) nearby(x, y, radius float64) []int {
	reach := int(math.Ceil(radius / g.cellSize))
	center := g.key(x, y)

	var out []int
	for dx := -reach; dx <= reach; dx++ {
		for dy := -reach; dy <= reach; dy++ {
			out = append(out, g.cells[cellKey{X: center.X + dx, Y: center.Y + dy}]...)
		}
	}
	return out
}
