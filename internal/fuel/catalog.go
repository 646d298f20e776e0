// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

// Package fuel holds the versioned fuel source catalog: codes 1..16, their
// display names, map colors and draw priority.
//
// The catalog is static configuration. The database seeds fuel_sources from
// it and the marker projector derives its palette from it, so both agree on
// names for a given Version.
package fuel

import "sort"

// Version identifies the catalog revision.
const Version = "gppd-1.3"

// Fuel codes.
const (
	Hydro        = 1
	Solar        = 2
	Gas          = 3
	Other        = 4
	Oil          = 5
	Wind         = 6
	Nuclear      = 7
	Coal         = 8
	Waste        = 9
	Biomass      = 10
	WaveAndTidal = 11
	Petcoke      = 12
	Geothermal   = 13
	Storage      = 14
	Cogeneration = 15
	None         = 16
)

// Entry describes one fuel code.
type Entry struct {
	Code  int
	Name  string
	Color string

	// Priority orders markers bottom to top; higher draws later. Fuels
	// without an explicit priority sit at 0.
	Priority int
}

// Catalog is an immutable set of fuel entries.
type Catalog struct {
	version string
	entries map[int]Entry
}

// New builds a catalog from entries. Later duplicates replace earlier ones.
func New(version string, entries []Entry) *Catalog {
	m := make(map[int]Entry, len(entries))
	for _, e := range entries {
		m[e.Code] = e
	}
	return &Catalog{version: version, entries: m}
}

var defaultCatalog = New(Version, []Entry{
	{Code: Hydro, Name: "Hydro", Color: "#0d6efd", Priority: 2},
	{Code: Solar, Name: "Solar", Color: "#ffc107", Priority: 1},
	{Code: Gas, Name: "Gas", Color: "#fd7e14", Priority: 5},
	{Code: Other, Name: "Other", Color: "#6c757d"},
	{Code: Oil, Name: "Oil", Color: "#212529"},
	{Code: Wind, Name: "Wind", Color: "#20c997", Priority: 3},
	{Code: Nuclear, Name: "Nuclear", Color: "#6f42c1", Priority: 4},
	{Code: Coal, Name: "Coal", Color: "#495057", Priority: 6},
	{Code: Waste, Name: "Waste", Color: "#795548"},
	{Code: Biomass, Name: "Biomass", Color: "#198754"},
	{Code: WaveAndTidal, Name: "Wave and Tidal", Color: "#0dcaf0"},
	{Code: Petcoke, Name: "Petcoke", Color: "#adb5bd"},
	{Code: Geothermal, Name: "Geothermal", Color: "#e83e8c"},
	{Code: Storage, Name: "Storage", Color: "#ced4da"},
	{Code: Cogeneration, Name: "Cogeneration", Color: "#dc3545"},
	{Code: None, Name: "None", Color: "#6c757d"},
})

// Default returns the built-in catalog. The returned value is shared and must
// not be modified.
func Default() *Catalog {
	return defaultCatalog
}

// Version returns the catalog revision.
func (c *Catalog) Version() string {
	return c.version
}

// Lookup returns the entry for code.
func (c *Catalog) Lookup(code int) (Entry, bool) {
	e, ok := c.entries[code]
	return e, ok
}

// Entries returns all entries ordered by code.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Valid reports whether code is in the catalog.
func (c *Catalog) Valid(code int) bool {
	_, ok := c.entries[code]
	return ok
}
