// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

/*
Package models defines the data structures shared across PowerAtlas.

Categories:

 1. Reference data: Country and FuelType, immutable once loaded.
 2. Facility data: Facility (denormalized with country and fuel names),
    DataCenter and GenerationRecord.
 3. Query inputs: FilterSpec, the (country, fuel, includeMicro) triple that
    drives aggregation and marker selection, and FacilityUpdate.
 4. Aggregation rows: CountryCapacity, FuelCapacity, CountryFuelCapacity,
    CountryGeneration and the CapacityPivot presentation helper.
 5. API envelope: APIResponse, APIError and Metadata.

Nullable columns are modelled as pointers and serialize as JSON null.
*/
package models
