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

	"github.com/tomtom215/poweratlas/internal/fuel"
	"github.com/tomtom215/poweratlas/internal/logging"
	"github.com/tomtom215/poweratlas/internal/models"
)

// InsertCountries upserts reference countries.
func (db *DB) InsertCountries(ctx context.Context, countries []models.Country) error {
	return db.bulkInsert(ctx, "insert_countries", `
		INSERT INTO countries (country_code, country_long) VALUES (?, ?)
		ON CONFLICT (country_code) DO UPDATE SET country_long = EXCLUDED.country_long`,
		len(countries), func(i int) []interface{} {
			return []interface{}{countries[i].Code, countries[i].Name}
		})
}

// InsertFacilities inserts facilities, replacing rows with the same id.
// Denormalized name fields are ignored.
func (db *DB) InsertFacilities(ctx context.Context, facilities []models.Facility) error {
	return db.bulkInsert(ctx, "insert_facilities", `
		INSERT OR REPLACE INTO facilities
			(gppd_idnr, name, latitude, longitude, capacity_mw, owner, fuel_code, country_code)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		len(facilities), func(i int) []interface{} {
			f := facilities[i]
			return []interface{}{f.ID, f.Name, f.Latitude, f.Longitude,
				nullable(f.CapacityMW), nullable(f.Owner), nullable(f.FuelCode), nullable(f.CountryCode)}
		})
}

// InsertGeneration inserts annual generation records.
func (db *DB) InsertGeneration(ctx context.Context, records []models.GenerationRecord) error {
	return db.bulkInsert(ctx, "insert_generation", `
		INSERT OR REPLACE INTO facility_generation (gppd_idnr, year, generation_gwh)
		VALUES (?, ?, ?)`,
		len(records), func(i int) []interface{} {
			r := records[i]
			return []interface{}{r.FacilityID, r.Year, nullable(r.GenerationGWh)}
		})
}

// InsertDataCenters inserts data centers, replacing rows with the same id.
func (db *DB) InsertDataCenters(ctx context.Context, dcs []models.DataCenter) error {
	return db.bulkInsert(ctx, "insert_data_centers", `
		INSERT OR REPLACE INTO data_centers
			(id, name, project, address, latitude, longitude, owner, users, capacity_mw, h100_equiv, capex_bn)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		len(dcs), func(i int) []interface{} {
			d := dcs[i]
			return []interface{}{d.ID, d.Name, nullable(d.Project), nullable(d.Address), d.Latitude, d.Longitude,
				nullable(d.Owner), nullable(d.Users), nullable(d.CapacityMW), nullable(d.H100Equivalents), nullable(d.CapexBn)}
		})
}

// bulkInsert runs one prepared statement n times inside a transaction.
func (db *DB) bulkInsert(ctx context.Context, op, stmtSQL string, n int, argsAt func(int) []interface{}) (err error) {
	if n == 0 {
		return nil
	}
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { observe(op, "bulk", start, err) }()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return storeErr(op, fmt.Errorf("begin: %w", err))
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var stmt *sql.Stmt
	stmt, err = tx.PrepareContext(ctx, stmtSQL)
	if err != nil {
		return storeErr(op, fmt.Errorf("prepare: %w", err))
	}
	defer closeQuietly(stmt)

	for i := 0; i < n; i++ {
		if _, err = stmt.ExecContext(ctx, argsAt(i)...); err != nil {
			return storeErr(op, fmt.Errorf("row %d: %w", i, err))
		}
	}
	if err = tx.Commit(); err != nil {
		return storeErr(op, fmt.Errorf("commit: %w", err))
	}
	return nil
}

// SeedDemoData loads a small fixed dataset so a fresh instance has something
// to show. Rows are upserted, so seeding twice is harmless.
func (db *DB) SeedDemoData(ctx context.Context) error {
	if err := db.InsertCountries(ctx, demoCountries); err != nil {
		return err
	}
	if err := db.InsertFacilities(ctx, demoFacilities()); err != nil {
		return err
	}
	if err := db.InsertGeneration(ctx, demoGeneration()); err != nil {
		return err
	}
	if err := db.InsertDataCenters(ctx, demoDataCenters()); err != nil {
		return err
	}
	logging.Info().
		Int("countries", len(demoCountries)).
		Int("facilities", len(demoFacilities())).
		Msg("Demo data seeded")
	return nil
}

var demoCountries = []models.Country{
	{Code: "USA", Name: "United States of America"},
	{Code: "CAN", Name: "Canada"},
	{Code: "FRA", Name: "France"},
	{Code: "DEU", Name: "Germany"},
	{Code: "BRA", Name: "Brazil"},
	{Code: "CHN", Name: "China"},
	{Code: "IND", Name: "India"},
	{Code: "AUS", Name: "Australia"},
}

type demoPlant struct {
	id, name, country, owner string
	lat, lon, capacity       float64
	fuel                     int
}

var demoPlants = []demoPlant{
	{"USA0006160", "Grand Coulee", "USA", "US Bureau of Reclamation", 47.9567, -118.9818, 6809, fuel.Hydro},
	{"USA0006008", "Palo Verde", "USA", "Arizona Public Service", 33.3881, -112.8617, 3937, fuel.Nuclear},
	{"USA0006166", "W A Parish", "USA", "NRG Texas Power", 29.4828, -95.6311, 3653, fuel.Coal},
	{"USA0055000", "Alta Wind Energy Center", "USA", "Terra-Gen", 35.0372, -118.3194, 1548, fuel.Wind},
	{"USA0059999", "Solar Star", "USA", "BHE Renewables", 34.8311, -118.3981, 579, fuel.Solar},
	{"USA0061234", "Main Street Rooftop Solar", "USA", "", 40.7128, -74.0060, 2.5, fuel.Solar},
	{"CAN0001001", "Robert-Bourassa", "CAN", "Hydro-Québec", 53.7833, -77.4500, 5616, fuel.Hydro},
	{"CAN0002002", "Bruce Nuclear", "CAN", "Bruce Power", 44.3253, -81.5994, 6550, fuel.Nuclear},
	{"CAN0003003", "Nanticoke Solar", "CAN", "Ontario Power Generation", 42.7972, -80.0572, 44, fuel.Solar},
	{"FRA0000001", "Gravelines", "FRA", "EDF", 51.0150, 2.1361, 5460, fuel.Nuclear},
	{"FRA0000002", "Cestas Solar Farm", "FRA", "Neoen", 44.7436, -0.6811, 300, fuel.Solar},
	{"DEU0000001", "Neurath", "DEU", "RWE", 51.0381, 6.6164, 4400, fuel.Coal},
	{"DEU0000002", "Gode Wind", "DEU", "Orsted", 54.0500, 7.0300, 582, fuel.Wind},
	{"BRA0000001", "Itaipu (Brazilian side)", "BRA", "Itaipu Binacional", -25.4083, -54.5889, 7000, fuel.Hydro},
	{"CHN0000001", "Three Gorges", "CHN", "China Yangtze Power", 30.8231, 111.0031, 22500, fuel.Hydro},
	{"CHN0000002", "Tuoketuo", "CHN", "Datang International", 40.1969, 111.3581, 6720, fuel.Coal},
	{"IND0000001", "Bhadla Solar Park", "IND", "", 27.5392, 71.9156, 2245, fuel.Solar},
	{"IND0000002", "Vindhyachal", "IND", "NTPC", 24.0983, 82.6717, 4760, fuel.Coal},
	{"AUS0000001", "Bayswater", "AUS", "AGL Energy", -32.3953, 150.9489, 2640, fuel.Coal},
	{"AUS0000002", "Hornsdale Power Reserve", "AUS", "Neoen", -33.0856, 138.5186, 150, fuel.Storage},
}

func demoFacilities() []models.Facility {
	out := make([]models.Facility, 0, len(demoPlants))
	for _, p := range demoPlants {
		p := p
		f := models.Facility{
			ID:          p.id,
			Name:        p.name,
			Latitude:    p.lat,
			Longitude:   p.lon,
			CapacityMW:  &p.capacity,
			FuelCode:    &p.fuel,
			CountryCode: &p.country,
		}
		if p.owner != "" {
			f.Owner = &p.owner
		}
		out = append(out, f)
	}
	return out
}

// demoGeneration derives plausible annual output from capacity and a fixed
// capacity factor per fuel.
func demoGeneration() []models.GenerationRecord {
	factors := map[int]float64{
		fuel.Hydro:   0.45,
		fuel.Solar:   0.22,
		fuel.Coal:    0.55,
		fuel.Wind:    0.35,
		fuel.Nuclear: 0.9,
		fuel.Storage: 0.05,
	}
	var out []models.GenerationRecord
	for _, p := range demoPlants {
		factor := factors[p.fuel]
		for year := 2017; year <= 2019; year++ {
			gwh := p.capacity * 8.76 * factor * (0.97 + 0.015*float64(year-2017))
			out = append(out, models.GenerationRecord{FacilityID: p.id, Year: year, GenerationGWh: &gwh})
		}
	}
	return out
}

func demoDataCenters() []models.DataCenter {
	str := func(s string) *string { return &s }
	num := func(v float64) *float64 { return &v }
	return []models.DataCenter{
		{ID: "dc-abilene", Name: "Stargate Abilene", Project: str("Stargate"), Latitude: 32.5908, Longitude: -99.6853,
			Owner: str("Crusoe"), Users: str("OpenAI"), CapacityMW: num(1200), H100Equivalents: num(400000), CapexBn: num(15)},
		{ID: "dc-new-carlisle", Name: "New Carlisle", Project: str("Rainier"), Latitude: 41.7002, Longitude: -86.5089,
			Owner: str("Amazon"), Users: str("Anthropic"), CapacityMW: num(2200), CapexBn: num(11)},
		{ID: "dc-memphis", Name: "Colossus", Latitude: 35.0594, Longitude: -90.1549,
			Owner: str("xAI"), Users: str("xAI"), CapacityMW: num(300), H100Equivalents: num(200000)},
		{ID: "dc-unknown", Name: "Undisclosed Campus", Latitude: 39.0438, Longitude: -77.4874},
	}
}
