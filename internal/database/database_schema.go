// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/poweratlas/internal/logging"
)

func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// Referential integrity between facilities and the reference tables is
// checked explicitly by UpdateFacility. DuckDB foreign keys are not used
// because DuckDB rejects updates to rows of constrained tables in ways that
// would break the single-statement facility update.
var tableCreationQueries = []string{
	`CREATE TABLE IF NOT EXISTS countries (
		country_code VARCHAR PRIMARY KEY,
		country_long VARCHAR NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS fuel_sources (
		fuel_code INTEGER PRIMARY KEY,
		fuel VARCHAR NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS facilities (
		gppd_idnr VARCHAR PRIMARY KEY,
		name VARCHAR NOT NULL,
		latitude DOUBLE NOT NULL,
		longitude DOUBLE NOT NULL,
		capacity_mw DOUBLE,
		owner VARCHAR,
		fuel_code INTEGER,
		country_code VARCHAR
	)`,
	`CREATE TABLE IF NOT EXISTS facility_generation (
		gppd_idnr VARCHAR NOT NULL,
		year INTEGER NOT NULL,
		generation_gwh DOUBLE,
		PRIMARY KEY (gppd_idnr, year)
	)`,
	`CREATE TABLE IF NOT EXISTS data_centers (
		id VARCHAR PRIMARY KEY,
		name VARCHAR NOT NULL,
		project VARCHAR,
		address VARCHAR,
		latitude DOUBLE NOT NULL,
		longitude DOUBLE NOT NULL,
		owner VARCHAR,
		users VARCHAR,
		capacity_mw DOUBLE,
		h100_equiv DOUBLE,
		capex_bn DOUBLE
	)`,
}

var viewCreationQueries = []string{
	`CREATE OR REPLACE VIEW vw_facilities AS
		SELECT
			f.gppd_idnr, f.name, f.latitude, f.longitude, f.capacity_mw, f.owner,
			f.fuel_code, fs.fuel,
			f.country_code, c.country_long
		FROM facilities f
		LEFT JOIN fuel_sources fs ON f.fuel_code = fs.fuel_code
		LEFT JOIN countries c ON f.country_code = c.country_code`,
	`CREATE OR REPLACE VIEW vw_generation_by_country AS
		SELECT
			f.country_code,
			g.year,
			SUM(COALESCE(g.generation_gwh, 0)) AS total_generation
		FROM facility_generation g
		JOIN facilities f ON g.gppd_idnr = f.gppd_idnr
		WHERE f.country_code IS NOT NULL
		GROUP BY f.country_code, g.year`,
}

func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, q := range tableCreationQueries {
		if _, err := db.conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", q, err)
		}
	}
	return nil
}

func (db *DB) createViews() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, q := range viewCreationQueries {
		if _, err := db.conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to create view: %s: %w", q, err)
		}
	}
	return nil
}

// seedFuelCatalog upserts every catalog entry into fuel_sources.
func (db *DB) seedFuelCatalog() error {
	ctx, cancel := schemaContext()
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin fuel catalog seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO fuel_sources (fuel_code, fuel) VALUES (?, ?)
		ON CONFLICT (fuel_code) DO UPDATE SET fuel = EXCLUDED.fuel`)
	if err != nil {
		return fmt.Errorf("failed to prepare fuel catalog seed: %w", err)
	}
	defer closeQuietly(stmt)

	entries := db.catalog.Entries()
	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.Code, e.Name); err != nil {
			return fmt.Errorf("failed to seed fuel %d: %w", e.Code, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit fuel catalog seed: %w", err)
	}

	logging.Debug().Int("fuels", len(entries)).Str("version", db.catalog.Version()).Msg("Fuel catalog seeded")
	return nil
}
