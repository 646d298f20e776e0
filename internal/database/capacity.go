// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

package database

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/poweratlas/internal/database/query"
	"github.com/tomtom215/poweratlas/internal/models"
)

// Aggregations group vw_facilities with a non-null joined name, so a
// facility whose country (or fuel) is missing or unknown is left out, and a
// group with no contributing facility is absent rather than zero.
// Totals are rounded to whole MW; ordering uses the unrounded sum.

// CapacityByCountry sums capacity per country under spec, largest first,
// ties broken by country code.
func (db *DB) CapacityByCountry(ctx context.Context, spec models.FilterSpec) (result []models.CountryCapacity, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { observe("capacity_by_country", "vw_facilities", start, err) }()

	where, args := query.ForFilter(spec, db.microThreshold).Build()
	// #nosec G201 -- where is built from fixed column names; values are bound
	q := fmt.Sprintf(`
		SELECT country_code, country_long, ROUND(SUM(COALESCE(capacity_mw, 0)), 0) AS capacity_mw
		FROM vw_facilities
		WHERE country_long IS NOT NULL AND %s
		GROUP BY country_code, country_long
		ORDER BY SUM(COALESCE(capacity_mw, 0)) DESC, country_code ASC`, where)

	rows, err := db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, storeErr("capacity_by_country", err)
	}
	defer closeQuietly(rows)

	result = make([]models.CountryCapacity, 0)
	for rows.Next() {
		var r models.CountryCapacity
		if err := rows.Scan(&r.CountryCode, &r.CountryName, &r.CapacityMW); err != nil {
			return nil, storeErr("capacity_by_country", fmt.Errorf("scan: %w", err))
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("capacity_by_country", err)
	}
	return result, nil
}

// CapacityByFuel sums capacity per fuel under spec, largest first, ties
// broken by fuel code.
func (db *DB) CapacityByFuel(ctx context.Context, spec models.FilterSpec) (result []models.FuelCapacity, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { observe("capacity_by_fuel", "vw_facilities", start, err) }()

	where, args := query.ForFilter(spec, db.microThreshold).Build()
	// #nosec G201 -- where is built from fixed column names; values are bound
	q := fmt.Sprintf(`
		SELECT fuel_code, fuel, ROUND(SUM(COALESCE(capacity_mw, 0)), 0) AS generation_mw
		FROM vw_facilities
		WHERE fuel IS NOT NULL AND %s
		GROUP BY fuel_code, fuel
		ORDER BY SUM(COALESCE(capacity_mw, 0)) DESC, fuel_code ASC`, where)

	rows, err := db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, storeErr("capacity_by_fuel", err)
	}
	defer closeQuietly(rows)

	result = make([]models.FuelCapacity, 0)
	for rows.Next() {
		var r models.FuelCapacity
		if err := rows.Scan(&r.FuelCode, &r.FuelName, &r.GenerationMW); err != nil {
			return nil, storeErr("capacity_by_fuel", fmt.Errorf("scan: %w", err))
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("capacity_by_fuel", err)
	}
	return result, nil
}

// CapacityByCountryAndFuel returns the country by fuel cross-tab under spec,
// ordered by country name then fuel name.
func (db *DB) CapacityByCountryAndFuel(ctx context.Context, spec models.FilterSpec) (result []models.CountryFuelCapacity, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { observe("capacity_by_country_fuel", "vw_facilities", start, err) }()

	where, args := query.ForFilter(spec, db.microThreshold).Build()
	// #nosec G201 -- where is built from fixed column names; values are bound
	q := fmt.Sprintf(`
		SELECT country_code, country_long, fuel_code, fuel,
			ROUND(SUM(COALESCE(capacity_mw, 0)), 0) AS capacity_mw
		FROM vw_facilities
		WHERE country_long IS NOT NULL AND fuel IS NOT NULL AND %s
		GROUP BY country_code, country_long, fuel_code, fuel
		ORDER BY country_long ASC, fuel ASC, country_code ASC, fuel_code ASC`, where)

	rows, err := db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, storeErr("capacity_by_country_fuel", err)
	}
	defer closeQuietly(rows)

	result = make([]models.CountryFuelCapacity, 0)
	for rows.Next() {
		var r models.CountryFuelCapacity
		if err := rows.Scan(&r.CountryCode, &r.CountryName, &r.FuelCode, &r.FuelName, &r.CapacityMW); err != nil {
			return nil, storeErr("capacity_by_country_fuel", fmt.Errorf("scan: %w", err))
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("capacity_by_country_fuel", err)
	}
	return result, nil
}

// NormalizeCountryCodes trims, upper-cases and de-duplicates codes, dropping
// blanks. The result is sorted.
func NormalizeCountryCodes(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// GenerationByCountries returns annual generation totals for the given
// countries, ordered by country then year. An empty (or all-blank) set is
// ErrInvalidArgument.
func (db *DB) GenerationByCountries(ctx context.Context, countries []string) (result []models.CountryGeneration, err error) {
	codes := NormalizeCountryCodes(countries)
	if len(codes) == 0 {
		return nil, fmt.Errorf("generation by countries: at least one country code is required: %w", ErrInvalidArgument)
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { observe("generation_by_countries", "vw_generation_by_country", start, err) }()

	where, args := query.NewWhereBuilder().Add(query.In(query.FieldCountryCode, codes)).Build()
	// #nosec G201 -- where is built from fixed column names; values are bound
	q := fmt.Sprintf(`
		SELECT country_code, year, total_generation
		FROM vw_generation_by_country
		WHERE %s
		ORDER BY country_code ASC, year ASC`, where)

	rows, err := db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, storeErr("generation_by_countries", err)
	}
	defer closeQuietly(rows)

	result = make([]models.CountryGeneration, 0)
	for rows.Next() {
		var r models.CountryGeneration
		if err := rows.Scan(&r.CountryCode, &r.Year, &r.TotalGeneration); err != nil {
			return nil, storeErr("generation_by_countries", fmt.Errorf("scan: %w", err))
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("generation_by_countries", err)
	}
	return result, nil
}
