// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/poweratlas/internal/models"
)

// FilterMetadata returns the filter choices: countries and fuels, each
// ordered by display name.
func (db *DB) FilterMetadata(ctx context.Context) (meta *models.FilterMetadata, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { observe("filter_metadata", "countries", start, err) }()

	meta = &models.FilterMetadata{
		Countries: make([]models.Country, 0),
		Fuels:     make([]models.FuelType, 0),
	}

	rows, err := db.conn.QueryContext(ctx,
		"SELECT country_code, country_long FROM countries ORDER BY country_long, country_code")
	if err != nil {
		return nil, storeErr("filter_metadata", err)
	}
	for rows.Next() {
		var c models.Country
		if err = rows.Scan(&c.Code, &c.Name); err != nil {
			closeQuietly(rows)
			return nil, storeErr("filter_metadata", fmt.Errorf("scan country: %w", err))
		}
		meta.Countries = append(meta.Countries, c)
	}
	err = rows.Err()
	closeQuietly(rows)
	if err != nil {
		return nil, storeErr("filter_metadata", err)
	}

	rows, err = db.conn.QueryContext(ctx,
		"SELECT fuel_code, fuel FROM fuel_sources ORDER BY fuel, fuel_code")
	if err != nil {
		return nil, storeErr("filter_metadata", err)
	}
	defer closeQuietly(rows)
	for rows.Next() {
		var f models.FuelType
		if err = rows.Scan(&f.Code, &f.Name); err != nil {
			return nil, storeErr("filter_metadata", fmt.Errorf("scan fuel: %w", err))
		}
		meta.Fuels = append(meta.Fuels, f)
	}
	if err = rows.Err(); err != nil {
		return nil, storeErr("filter_metadata", err)
	}
	return meta, nil
}

// DataCenters returns every data center, largest capacity first with
// unknown capacity last, then by id.
func (db *DB) DataCenters(ctx context.Context) (result []models.DataCenter, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { observe("data_centers", "data_centers", start, err) }()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, name, project, address, latitude, longitude, owner, users,
			capacity_mw, h100_equiv, capex_bn
		FROM data_centers
		ORDER BY capacity_mw DESC NULLS LAST, id ASC`)
	if err != nil {
		return nil, storeErr("data_centers", err)
	}
	defer closeQuietly(rows)

	result = make([]models.DataCenter, 0)
	for rows.Next() {
		var (
			dc                      models.DataCenter
			project, address, owner sql.NullString
			users                   sql.NullString
			capacity, h100, capex   sql.NullFloat64
		)
		if err := rows.Scan(&dc.ID, &dc.Name, &project, &address, &dc.Latitude, &dc.Longitude,
			&owner, &users, &capacity, &h100, &capex); err != nil {
			return nil, storeErr("data_centers", fmt.Errorf("scan: %w", err))
		}
		dc.Project = stringPtr(project)
		dc.Address = stringPtr(address)
		dc.Owner = stringPtr(owner)
		dc.Users = stringPtr(users)
		dc.CapacityMW = floatPtr(capacity)
		dc.H100Equivalents = floatPtr(h100)
		dc.CapexBn = floatPtr(capex)
		result = append(result, dc)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("data_centers", err)
	}
	return result, nil
}
