// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

package models

import "sort"

// CountryCapacity is one row of capacity grouped by country.
type CountryCapacity struct {
	CountryCode string  `json:"country_code"`
	CountryName string  `json:"country_long"`
	CapacityMW  float64 `json:"capacity_mw"`
}

// FuelCapacity is one row of capacity grouped by fuel.
type FuelCapacity struct {
	FuelCode     int     `json:"fuel_code"`
	FuelName     string  `json:"fuel"`
	GenerationMW float64 `json:"generation_mw"`
}

// CountryFuelCapacity is one cell of the country by fuel cross-tab.
type CountryFuelCapacity struct {
	CountryCode string  `json:"country_code"`
	CountryName string  `json:"country_long"`
	FuelCode    int     `json:"fuel_code"`
	FuelName    string  `json:"fuel"`
	CapacityMW  float64 `json:"capacity_mw"`
}

// CountryGeneration is the annual generation total of one country.
type CountryGeneration struct {
	CountryCode     string  `json:"country_code"`
	Year            int     `json:"year"`
	TotalGeneration float64 `json:"total_generation"`
}

// FilterMetadata lists the values a client may filter on.
type FilterMetadata struct {
	Countries []Country  `json:"countries"`
	Fuels     []FuelType `json:"fuels"`
}

// CapacityPivot is the dense country by fuel table built from cross-tab rows.
// Cells[i][j] is the capacity of Countries[i] for Fuels[j], zero when no row exists.
type CapacityPivot struct {
	Countries    []Country   `json:"countries"`
	Fuels        []FuelType  `json:"fuels"`
	Cells        [][]float64 `json:"cells"`
	CountryTotal []float64   `json:"country_totals"`
	FuelTotal    []float64   `json:"fuel_totals"`
}

// PivotCapacity fills in the zero cells the sparse cross-tab leaves out.
// Countries and fuels keep the name ordering of the cross-tab.
func PivotCapacity(rows []CountryFuelCapacity) CapacityPivot {
	countryIdx := make(map[string]int)
	fuelIdx := make(map[int]int)
	var countries []Country
	var fuels []FuelType

	for _, r := range rows {
		if _, ok := countryIdx[r.CountryCode]; !ok {
			countryIdx[r.CountryCode] = len(countries)
			countries = append(countries, Country{Code: r.CountryCode, Name: r.CountryName})
		}
		if _, ok := fuelIdx[r.FuelCode]; !ok {
			fuelIdx[r.FuelCode] = len(fuels)
			fuels = append(fuels, FuelType{Code: r.FuelCode, Name: r.FuelName})
		}
	}

	sort.SliceStable(fuels, func(i, j int) bool {
		if fuels[i].Name != fuels[j].Name {
			return fuels[i].Name < fuels[j].Name
		}
		return fuels[i].Code < fuels[j].Code
	})
	for i, f := range fuels {
		fuelIdx[f.Code] = i
	}

	p := CapacityPivot{
		Countries:    countries,
		Fuels:        fuels,
		Cells:        make([][]float64, len(countries)),
		CountryTotal: make([]float64, len(countries)),
		FuelTotal:    make([]float64, len(fuels)),
	}
	for i := range p.Cells {
		p.Cells[i] = make([]float64, len(fuels))
	}
	for _, r := range rows {
		ci, fi := countryIdx[r.CountryCode], fuelIdx[r.FuelCode]
		p.Cells[ci][fi] += r.CapacityMW
		p.CountryTotal[ci] += r.CapacityMW
		p.FuelTotal[fi] += r.CapacityMW
	}
	return p
}
