// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/tomtom215/poweratlas/internal/database"
	"github.com/tomtom215/poweratlas/internal/fuel"
	"github.com/tomtom215/poweratlas/internal/models"
	"github.com/tomtom215/poweratlas/internal/validation"
)

// MemoryStore is a Store held entirely in process memory. It follows the
// same grouping, rounding, ordering and join rules as the DuckDB store and
// backs the tests of every package above the database layer.
type MemoryStore struct {
	mu             sync.RWMutex
	countries      map[string]string
	catalog        *fuel.Catalog
	facilities     map[string]models.Facility
	generation     []models.GenerationRecord
	dataCenters    []models.DataCenter
	microThreshold float64

	// Err, when set, is returned by every call.
	Err error
}

// NewMemoryStore creates an empty store using the default fuel catalog.
func NewMemoryStore(microThreshold float64) *MemoryStore {
	return &MemoryStore{
		countries:      make(map[string]string),
		catalog:        fuel.Default(),
		facilities:     make(map[string]models.Facility),
		microThreshold: microThreshold,
	}
}

// AddCountries registers reference countries.
func (m *MemoryStore) AddCountries(countries ...models.Country) *MemoryStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range countries {
		m.countries[c.Code] = c.Name
	}
	return m
}

// AddFacilities stores facilities by id. Denormalized names are recomputed on read.
func (m *MemoryStore) AddFacilities(facilities ...models.Facility) *MemoryStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range facilities {
		m.facilities[f.ID] = f
	}
	return m
}

// AddGeneration appends generation records.
func (m *MemoryStore) AddGeneration(records ...models.GenerationRecord) *MemoryStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generation = append(m.generation, records...)
	return m
}

// AddDataCenters appends data centers.
func (m *MemoryStore) AddDataCenters(dcs ...models.DataCenter) *MemoryStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dataCenters = append(m.dataCenters, dcs...)
	return m
}

// SetErr makes every subsequent call fail with err (nil restores normal operation).
func (m *MemoryStore) SetErr(err error) {
	m.mu.Lock()
	m.Err = err
	m.mu.Unlock()
}

// denormalize fills the joined names; caller holds the lock.
func (m *MemoryStore) denormalize(f models.Facility) models.Facility {
	f.FuelName, f.CountryName = nil, nil
	if f.FuelCode != nil {
		if e, ok := m.catalog.Lookup(*f.FuelCode); ok {
			name := e.Name
			f.FuelName = &name
		}
	}
	if f.CountryCode != nil {
		if name, ok := m.countries[*f.CountryCode]; ok {
			f.CountryName = &name
		}
	}
	return f
}

// matching returns denormalized facilities satisfying spec, ordered by id.
func (m *MemoryStore) matching(spec models.FilterSpec) []models.Facility {
	out := make([]models.Facility, 0, len(m.facilities))
	for _, f := range m.facilities {
		if spec.Country != nil && (f.CountryCode == nil || *f.CountryCode != *spec.Country) {
			continue
		}
		if spec.Fuel != nil && (f.FuelCode == nil || *f.FuelCode != *spec.Fuel) {
			continue
		}
		if !spec.IncludeMicro && models.IsMicro(f.CapacityMW, m.microThreshold) {
			continue
		}
		out = append(out, m.denormalize(f))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *MemoryStore) ListFacilities(ctx context.Context, spec models.FilterSpec) ([]models.Facility, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.check(ctx); err != nil {
		return nil, err
	}
	return m.matching(spec), nil
}

func (m *MemoryStore) GetFacility(ctx context.Context, id string) (*models.Facility, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.check(ctx); err != nil {
		return nil, err
	}
	f, ok := m.facilities[id]
	if !ok {
		return nil, fmt.Errorf("facility %q: %w", id, database.ErrNotFound)
	}
	f = m.denormalize(f)
	return &f, nil
}

func (m *MemoryStore) CapacityByCountry(ctx context.Context, spec models.FilterSpec) ([]models.CountryCapacity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.check(ctx); err != nil {
		return nil, err
	}

	totals := make(map[string]*models.CountryCapacity)
	for _, f := range m.matching(spec) {
		if f.CountryName == nil {
			continue
		}
		row, ok := totals[*f.CountryCode]
		if !ok {
			row = &models.CountryCapacity{CountryCode: *f.CountryCode, CountryName: *f.CountryName}
			totals[*f.CountryCode] = row
		}
		row.CapacityMW += f.Capacity()
	}

	out := make([]models.CountryCapacity, 0, len(totals))
	for _, row := range totals {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CapacityMW != out[j].CapacityMW {
			return out[i].CapacityMW > out[j].CapacityMW
		}
		return out[i].CountryCode < out[j].CountryCode
	})
	for i := range out {
		out[i].CapacityMW = math.Round(out[i].CapacityMW)
	}
	return out, nil
}

func (m *MemoryStore) CapacityByFuel(ctx context.Context, spec models.FilterSpec) ([]models.FuelCapacity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.check(ctx); err != nil {
		return nil, err
	}

	totals := make(map[int]*models.FuelCapacity)
	for _, f := range m.matching(spec) {
		if f.FuelName == nil {
			continue
		}
		row, ok := totals[*f.FuelCode]
		if !ok {
			row = &models.FuelCapacity{FuelCode: *f.FuelCode, FuelName: *f.FuelName}
			totals[*f.FuelCode] = row
		}
		row.GenerationMW += f.Capacity()
	}

	out := make([]models.FuelCapacity, 0, len(totals))
	for _, row := range totals {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].GenerationMW != out[j].GenerationMW {
			return out[i].GenerationMW > out[j].GenerationMW
		}
		return out[i].FuelCode < out[j].FuelCode
	})
	for i := range out {
		out[i].GenerationMW = math.Round(out[i].GenerationMW)
	}
	return out, nil
}

func (m *MemoryStore) CapacityByCountryAndFuel(ctx context.Context, spec models.FilterSpec) ([]models.CountryFuelCapacity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.check(ctx); err != nil {
		return nil, err
	}

	type cell struct {
		country string
		fuel    int
	}
	totals := make(map[cell]*models.CountryFuelCapacity)
	for _, f := range m.matching(spec) {
		if f.CountryName == nil || f.FuelName == nil {
			continue
		}
		k := cell{*f.CountryCode, *f.FuelCode}
		row, ok := totals[k]
		if !ok {
			row = &models.CountryFuelCapacity{
				CountryCode: k.country, CountryName: *f.CountryName,
				FuelCode: k.fuel, FuelName: *f.FuelName,
			}
			totals[k] = row
		}
		row.CapacityMW += f.Capacity()
	}

	out := make([]models.CountryFuelCapacity, 0, len(totals))
	for _, row := range totals {
		row.CapacityMW = math.Round(row.CapacityMW)
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.CountryName != b.CountryName {
			return a.CountryName < b.CountryName
		}
		if a.FuelName != b.FuelName {
			return a.FuelName < b.FuelName
		}
		if a.CountryCode != b.CountryCode {
			return a.CountryCode < b.CountryCode
		}
		return a.FuelCode < b.FuelCode
	})
	return out, nil
}

func (m *MemoryStore) GenerationByCountries(ctx context.Context, countries []string) ([]models.CountryGeneration, error) {
	codes := database.NormalizeCountryCodes(countries)
	if len(codes) == 0 {
		return nil, fmt.Errorf("generation by countries: %w", database.ErrInvalidArgument)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.check(ctx); err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(codes))
	for _, c := range codes {
		wanted[c] = true
	}
	type key struct {
		country string
		year    int
	}
	totals := make(map[key]float64)
	for _, g := range m.generation {
		f, ok := m.facilities[g.FacilityID]
		if !ok || f.CountryCode == nil || !wanted[*f.CountryCode] {
			continue
		}
		k := key{*f.CountryCode, g.Year}
		var gwh float64
		if g.GenerationGWh != nil {
			gwh = *g.GenerationGWh
		}
		totals[k] += gwh
	}

	out := make([]models.CountryGeneration, 0, len(totals))
	for k, total := range totals {
		out = append(out, models.CountryGeneration{CountryCode: k.country, Year: k.year, TotalGeneration: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CountryCode != out[j].CountryCode {
			return out[i].CountryCode < out[j].CountryCode
		}
		return out[i].Year < out[j].Year
	})
	return out, nil
}

func (m *MemoryStore) FilterMetadata(ctx context.Context) (*models.FilterMetadata, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.check(ctx); err != nil {
		return nil, err
	}

	meta := &models.FilterMetadata{
		Countries: make([]models.Country, 0, len(m.countries)),
		Fuels:     make([]models.FuelType, 0, 16),
	}
	for code, name := range m.countries {
		meta.Countries = append(meta.Countries, models.Country{Code: code, Name: name})
	}
	sort.Slice(meta.Countries, func(i, j int) bool {
		if meta.Countries[i].Name != meta.Countries[j].Name {
			return meta.Countries[i].Name < meta.Countries[j].Name
		}
		return meta.Countries[i].Code < meta.Countries[j].Code
	})
	for _, e := range m.catalog.Entries() {
		meta.Fuels = append(meta.Fuels, models.FuelType{Code: e.Code, Name: e.Name})
	}
	sort.SliceStable(meta.Fuels, func(i, j int) bool { return meta.Fuels[i].Name < meta.Fuels[j].Name })
	return meta, nil
}

func (m *MemoryStore) DataCenters(ctx context.Context) ([]models.DataCenter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.check(ctx); err != nil {
		return nil, err
	}

	out := make([]models.DataCenter, len(m.dataCenters))
	copy(out, m.dataCenters)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].CapacityMW, out[j].CapacityMW
		switch {
		case a != nil && b != nil && *a != *b:
			return *a > *b
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// UpdateFacility applies u with the same rules as the DuckDB store:
// not found, then reference checks, then the field writes.
func (m *MemoryStore) UpdateFacility(ctx context.Context, u *models.FacilityUpdate) (*models.Facility, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(ctx); err != nil {
		return nil, err
	}

	id := strings.TrimSpace(u.ID)
	f, ok := m.facilities[id]
	if !ok {
		return nil, fmt.Errorf("facility %q: %w", id, database.ErrNotFound)
	}
	if u.CountryCode != nil {
		if _, ok := m.countries[*u.CountryCode]; !ok {
			return nil, validation.NewFieldError("country_code", "exists", *u.CountryCode,
				fmt.Sprintf("country_code %s does not exist", *u.CountryCode))
		}
	}
	if u.FuelCode != nil && !m.catalog.Valid(*u.FuelCode) {
		return nil, validation.NewFieldError("fuel_code", "exists", *u.FuelCode,
			fmt.Sprintf("fuel_code %d does not exist", *u.FuelCode))
	}

	f.Name = strings.TrimSpace(u.Name)
	if u.CapacityMW != nil {
		v := *u.CapacityMW
		f.CapacityMW = &v
	}
	if u.Latitude != nil {
		f.Latitude = *u.Latitude
	}
	if u.Longitude != nil {
		f.Longitude = *u.Longitude
	}
	if u.CountryCode != nil {
		v := *u.CountryCode
		f.CountryCode = &v
	}
	if u.FuelCode != nil {
		v := *u.FuelCode
		f.FuelCode = &v
	}
	if u.Owner != nil {
		if owner := strings.TrimSpace(*u.Owner); owner != "" {
			f.Owner = &owner
		} else {
			f.Owner = nil
		}
	}
	m.facilities[id] = f

	out := m.denormalize(f)
	return &out, nil
}

// check returns the injected error or the context error; caller holds the lock.
func (m *MemoryStore) check(ctx context.Context) error {
	if m.Err != nil {
		return m.Err
	}
	return ctx.Err()
}
