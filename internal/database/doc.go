// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

/*
Package database is the DuckDB-backed facility store.

Schema:

  - countries(country_code PK, country_long)
  - fuel_sources(fuel_code PK, fuel), seeded from the fuel catalog
  - facilities(gppd_idnr PK, name, latitude, longitude, capacity_mw, owner, fuel_code, country_code)
  - facility_generation(gppd_idnr, year, generation_gwh)
  - data_centers(id PK, ...)
  - vw_facilities: facilities left-joined to fuel and country names
  - vw_generation_by_country: annual generation summed per country

Aggregations read vw_facilities and require the joined name to be present,
which gives inner-join semantics: rows whose country (or fuel) is missing or
dangling never appear in a grouped result, and groups with no matching
facility are omitted rather than reported as zero.

Errors:

  - ErrNotFound: the keyed row does not exist
  - ErrInvalidArgument: the caller passed an argument the query cannot run with
  - *StoreError: DuckDB failed; wraps the driver error unchanged
  - *validation.RequestValidationError: an update references a missing country or fuel

Every method accepts a context; one without a deadline gets a 30 second timeout.
*/
package database
