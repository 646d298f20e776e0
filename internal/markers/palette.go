// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

package markers

import "github.com/tomtom215/poweratlas/internal/fuel"

// FuelStyle is how one fuel is drawn.
type FuelStyle struct {
	Label    string `json:"label"`
	Color    string `json:"color"`
	Priority int    `json:"priority"`
}

// Palette is the immutable fuel styling table.
type Palette struct {
	Version      string            `json:"version"`
	Entries      map[int]FuelStyle `json:"entries"`
	UnknownColor string            `json:"unknown_color"`
	UnknownLabel string            `json:"unknown_label"`
}

// Data center styling is fixed and shared by no fuel.
const (
	DataCenterColor = "#9b59b6"
	DataCenterLabel = "Data center"
)

// PaletteFromCatalog derives a palette from a fuel catalog.
func PaletteFromCatalog(c *fuel.Catalog) Palette {
	entries := c.Entries()
	p := Palette{
		Version:      c.Version(),
		Entries:      make(map[int]FuelStyle, len(entries)),
		UnknownColor: "#6c757d",
		UnknownLabel: "Unknown",
	}
	for _, e := range entries {
		p.Entries[e.Code] = FuelStyle{Label: e.Name, Color: e.Color, Priority: e.Priority}
	}
	return p
}

// DefaultPalette is the palette of the default fuel catalog.
func DefaultPalette() Palette {
	return PaletteFromCatalog(fuel.Default())
}

// Style returns the style for code. Unknown or missing codes get the
// unknown style with priority 0.
func (p Palette) Style(code *int) FuelStyle {
	if code != nil {
		if s, ok := p.Entries[*code]; ok {
			return s
		}
	}
	return FuelStyle{Label: p.UnknownLabel, Color: p.UnknownColor}
}
