// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/poweratlas/internal/database/query"
	"github.com/tomtom215/poweratlas/internal/logging"
	"github.com/tomtom215/poweratlas/internal/models"
	"github.com/tomtom215/poweratlas/internal/validation"
)

const facilityColumns = `gppd_idnr, name, latitude, longitude, capacity_mw, owner,
	fuel_code, fuel, country_code, country_long`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanFacility(row rowScanner) (models.Facility, error) {
	var (
		f           models.Facility
		capacity    sql.NullFloat64
		owner       sql.NullString
		fuelCode    sql.NullInt64
		fuelName    sql.NullString
		countryCode sql.NullString
		countryName sql.NullString
	)
	if err := row.Scan(&f.ID, &f.Name, &f.Latitude, &f.Longitude, &capacity, &owner,
		&fuelCode, &fuelName, &countryCode, &countryName); err != nil {
		return models.Facility{}, err
	}
	f.CapacityMW = floatPtr(capacity)
	f.Owner = stringPtr(owner)
	f.FuelCode = intPtr(fuelCode)
	f.FuelName = stringPtr(fuelName)
	f.CountryCode = stringPtr(countryCode)
	f.CountryName = stringPtr(countryName)
	return f, nil
}

// ListFacilities returns the denormalized facilities matching spec, ordered
// by id. No match yields an empty slice.
func (db *DB) ListFacilities(ctx context.Context, spec models.FilterSpec) (result []models.Facility, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { observe("list_facilities", "vw_facilities", start, err) }()

	where, args := query.ForFilter(spec, db.microThreshold).Build()
	// #nosec G201 -- where is built from fixed column names; values are bound
	q := fmt.Sprintf("SELECT %s FROM vw_facilities WHERE %s ORDER BY gppd_idnr", facilityColumns, where)

	rows, err := db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, storeErr("list_facilities", err)
	}
	defer closeQuietly(rows)

	result = make([]models.Facility, 0)
	for rows.Next() {
		f, err := scanFacility(rows)
		if err != nil {
			return nil, storeErr("list_facilities", fmt.Errorf("scan facility: %w", err))
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list_facilities", err)
	}
	return result, nil
}

// GetFacility returns one denormalized facility or ErrNotFound.
func (db *DB) GetFacility(ctx context.Context, id string) (f *models.Facility, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { observe("get_facility", "vw_facilities", start, err) }()

	return getFacility(ctx, db.conn, id)
}

// queryer lets reads run on either the pool or an open transaction.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func getFacility(ctx context.Context, q queryer, id string) (*models.Facility, error) {
	row := q.QueryRowContext(ctx,
		"SELECT "+facilityColumns+" FROM vw_facilities WHERE gppd_idnr = ?", id)
	f, err := scanFacility(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("facility %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, storeErr("get_facility", err)
	}
	return &f, nil
}

// UpdateFacility applies u in a single transaction and returns the record as
// read back from vw_facilities. The facility id never changes.
//
// Returns ErrNotFound when no facility has u.ID, and a validation error when
// u references a country or fuel that does not exist. u is assumed to have
// passed field validation already.
func (db *DB) UpdateFacility(ctx context.Context, u *models.FacilityUpdate) (updated *models.Facility, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { observe("update_facility", "facilities", start, err) }()

	id := strings.TrimSpace(u.ID)

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, storeErr("update_facility", fmt.Errorf("begin: %w", err))
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var count int
	if err = tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM facilities WHERE gppd_idnr = ?", id).Scan(&count); err != nil {
		return nil, storeErr("update_facility", fmt.Errorf("check existence: %w", err))
	}
	if count == 0 {
		err = fmt.Errorf("facility %q: %w", id, ErrNotFound)
		return nil, err
	}

	if err = checkReferences(ctx, tx, u); err != nil {
		return nil, err
	}

	sb := query.NewSetBuilder().
		Set("name", strings.TrimSpace(u.Name))
	query.SetIfPresent(sb, "capacity_mw", u.CapacityMW)
	query.SetIfPresent(sb, "latitude", u.Latitude)
	query.SetIfPresent(sb, "longitude", u.Longitude)
	query.SetIfPresent(sb, "country_code", u.CountryCode)
	query.SetIfPresent(sb, "fuel_code", u.FuelCode)
	if u.Owner != nil {
		if owner := strings.TrimSpace(*u.Owner); owner != "" {
			sb.Set("owner", owner)
		} else {
			sb.Set("owner", nil)
		}
	}

	setClause, args := sb.Build()
	args = append(args, id)
	// #nosec G201 -- setClause holds fixed column names; values are bound
	if _, err = tx.ExecContext(ctx, "UPDATE facilities SET "+setClause+" WHERE gppd_idnr = ?", args...); err != nil {
		return nil, storeErr("update_facility", fmt.Errorf("update: %w", err))
	}

	updated, err = getFacility(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, storeErr("update_facility", fmt.Errorf("commit: %w", err))
	}

	logging.Debug().Str("facility_id", id).Int("fields", sb.Len()).Msg("Facility updated")
	return updated, nil
}

// checkReferences rejects updates pointing at a country or fuel that does not exist.
func checkReferences(ctx context.Context, tx *sql.Tx, u *models.FacilityUpdate) error {
	if u.CountryCode != nil {
		var n int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM countries WHERE country_code = ?", *u.CountryCode).Scan(&n); err != nil {
			return storeErr("update_facility", fmt.Errorf("check country: %w", err))
		}
		if n == 0 {
			return validation.NewFieldError("country_code", "exists", *u.CountryCode,
				fmt.Sprintf("country_code %s does not exist", *u.CountryCode))
		}
	}
	if u.FuelCode != nil {
		var n int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM fuel_sources WHERE fuel_code = ?", *u.FuelCode).Scan(&n); err != nil {
			return storeErr("update_facility", fmt.Errorf("check fuel: %w", err))
		}
		if n == 0 {
			return validation.NewFieldError("fuel_code", "exists", *u.FuelCode,
				fmt.Sprintf("fuel_code %d does not exist", *u.FuelCode))
		}
	}
	return nil
}
