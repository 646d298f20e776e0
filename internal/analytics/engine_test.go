// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

package analytics

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/poweratlas/internal/config"
	"github.com/tomtom215/poweratlas/internal/database"
	"github.com/tomtom215/poweratlas/internal/fuel"
	"github.com/tomtom215/poweratlas/internal/models"
)

func strPtr(s string) *string   { return &s }
func fltPtr(f float64) *float64 { return &f }
func intPtr(i int) *int         { return &i }

func scenarioStore() *MemoryStore {
	return NewMemoryStore(models.DefaultMicroThresholdMW).
		AddCountries(
			models.Country{Code: "USA", Name: "United States of America"},
			models.Country{Code: "CAN", Name: "Canada"},
		).
		AddFacilities(
			models.Facility{ID: "A", Name: "A", CapacityMW: fltPtr(100), FuelCode: intPtr(fuel.Hydro), CountryCode: strPtr("USA")},
			models.Facility{ID: "B", Name: "B", CapacityMW: fltPtr(50), FuelCode: intPtr(fuel.Solar), CountryCode: strPtr("USA")},
			models.Facility{ID: "C", Name: "C", CapacityMW: fltPtr(10), FuelCode: intPtr(fuel.Hydro), CountryCode: strPtr("CAN")},
		)
}

func testConfig() config.AnalyticsConfig {
	return config.AnalyticsConfig{
		MicroThresholdMW:   models.DefaultMicroThresholdMW,
		CacheTTL:           time.Minute,
		BreakerMaxFailures: 3,
		BreakerTimeout:     time.Minute,
	}
}

// countingStore counts calls that reach the store.
type countingStore struct {
	*MemoryStore
	calls atomic.Int32
}

func (c *countingStore) CapacityByFuel(ctx context.Context, spec models.FilterSpec) ([]models.FuelCapacity, error) {
	c.calls.Add(1)
	return c.MemoryStore.CapacityByFuel(ctx, spec)
}

func (c *countingStore) GenerationByCountries(ctx context.Context, countries []string) ([]models.CountryGeneration, error) {
	c.calls.Add(1)
	return c.MemoryStore.GenerationByCountries(ctx, countries)
}

func TestEngine_CapacityByCountry_Scenario(t *testing.T) {
	t.Parallel()
	e := NewEngine(scenarioStore(), testConfig())
	defer e.Close()

	got, err := e.CapacityByCountry(context.Background(), nil)
	if err != nil {
		t.Fatalf("CapacityByCountry: %v", err)
	}
	want := []models.CountryCapacity{
		{CountryCode: "USA", CountryName: "United States of America", CapacityMW: 150},
		{CountryCode: "CAN", CountryName: "Canada", CapacityMW: 10},
	}
	if len(got) != len(want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestEngine_CapacityByCountry_FuelFilter(t *testing.T) {
	t.Parallel()
	e := NewEngine(scenarioStore(), testConfig())
	defer e.Close()

	got, err := e.CapacityByCountry(context.Background(), intPtr(fuel.Solar))
	if err != nil {
		t.Fatalf("CapacityByCountry: %v", err)
	}
	if len(got) != 1 || got[0].CountryCode != "USA" || got[0].CapacityMW != 50 {
		t.Errorf("got %+v, want only USA 50", got)
	}
}

func TestEngine_TotalsAgreeAcrossGroupings(t *testing.T) {
	t.Parallel()
	e := NewEngine(scenarioStore(), testConfig())
	defer e.Close()
	ctx := context.Background()

	for _, country := range []*string{nil, strPtr("USA"), strPtr("CAN")} {
		for _, micro := range []bool{false, true} {
			spec := models.FilterSpec{Country: country, IncludeMicro: micro}
			byCountry, err := e.CapacityByCountryFiltered(ctx, spec)
			if err != nil {
				t.Fatalf("CapacityByCountryFiltered(%s): %v", spec, err)
			}
			byFuel, err := e.CapacityByFuel(ctx, country, micro)
			if err != nil {
				t.Fatalf("CapacityByFuel(%s): %v", spec, err)
			}
			var a, b float64
			for _, r := range byCountry {
				a += r.CapacityMW
			}
			for _, r := range byFuel {
				b += r.GenerationMW
			}
			if a != b {
				t.Errorf("%s: by-country total %v != by-fuel total %v", spec, a, b)
			}
		}
	}
}

func TestEngine_MicroExcluded(t *testing.T) {
	t.Parallel()
	e := NewEngine(scenarioStore(), testConfig())
	defer e.Close()

	rows, err := e.CapacityByFuel(context.Background(), nil, false)
	if err != nil {
		t.Fatalf("CapacityByFuel: %v", err)
	}
	var hydro float64
	for _, r := range rows {
		if r.FuelCode == fuel.Hydro {
			hydro = r.GenerationMW
		}
	}
	if hydro != 100 {
		t.Errorf("hydro = %v with micro excluded, want 100 (C is micro)", hydro)
	}
}

func TestEngine_GenerationByCountries_EmptyIsInvalidArgument(t *testing.T) {
	t.Parallel()
	store := &countingStore{MemoryStore: scenarioStore()}
	e := NewEngine(store, testConfig())
	defer e.Close()

	for _, input := range [][]string{nil, {}, {"  "}} {
		_, err := e.GenerationByCountries(context.Background(), input)
		if !errors.Is(err, database.ErrInvalidArgument) {
			t.Errorf("GenerationByCountries(%q) = %v, want ErrInvalidArgument", input, err)
		}
	}
	if store.calls.Load() != 0 {
		t.Errorf("store called %d times for invalid input", store.calls.Load())
	}
}

func TestEngine_GenerationByCountries_CollapsesDuplicates(t *testing.T) {
	t.Parallel()
	ms := scenarioStore().AddGeneration(
		models.GenerationRecord{FacilityID: "A", Year: 2019, GenerationGWh: fltPtr(10)},
		models.GenerationRecord{FacilityID: "C", Year: 2019, GenerationGWh: fltPtr(5)},
	)
	store := &countingStore{MemoryStore: ms}
	e := NewEngine(store, testConfig())
	defer e.Close()
	ctx := context.Background()

	first, err := e.GenerationByCountries(ctx, []string{"usa", "USA", "CAN"})
	if err != nil {
		t.Fatalf("GenerationByCountries: %v", err)
	}
	if len(first) != 2 || first[0].CountryCode != "CAN" || first[1].TotalGeneration != 10 {
		t.Errorf("got %+v", first)
	}

	// same set in a different spelling hits the cache
	if _, err := e.GenerationByCountries(ctx, []string{"CAN", "usa"}); err != nil {
		t.Fatalf("GenerationByCountries: %v", err)
	}
	if store.calls.Load() != 1 {
		t.Errorf("store calls = %d, want 1", store.calls.Load())
	}
}

func TestEngine_CacheAndInvalidate(t *testing.T) {
	t.Parallel()
	store := &countingStore{MemoryStore: scenarioStore()}
	e := NewEngine(store, testConfig())
	defer e.Close()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := e.CapacityByFuel(ctx, nil, true); err != nil {
			t.Fatalf("CapacityByFuel: %v", err)
		}
	}
	if store.calls.Load() != 1 {
		t.Fatalf("store calls = %d, want 1 (cached)", store.calls.Load())
	}

	e.Invalidate()
	if _, err := e.CapacityByFuel(ctx, nil, true); err != nil {
		t.Fatalf("CapacityByFuel: %v", err)
	}
	if store.calls.Load() != 2 {
		t.Errorf("store calls = %d after invalidate, want 2", store.calls.Load())
	}
	if stats := e.CacheStats(); stats.Hits != 2 || stats.Flushes != 1 {
		t.Errorf("cache stats = %+v, want 2 hits and 1 flush", stats)
	}
}

// gatedStore reads a facility, then parks until release is closed, so a
// write and a flush can land while the read is in flight.
type gatedStore struct {
	*MemoryStore
	read    chan struct{}
	release chan struct{}
	gated   atomic.Bool
}

func (g *gatedStore) GetFacility(ctx context.Context, id string) (*models.Facility, error) {
	f, err := g.MemoryStore.GetFacility(ctx, id)
	if g.gated.CompareAndSwap(true, false) {
		close(g.read)
		<-g.release
	}
	return f, err
}

func TestEngine_FlushDuringReadIsNotCachedStale(t *testing.T) {
	t.Parallel()
	store := &gatedStore{
		MemoryStore: scenarioStore(),
		read:        make(chan struct{}),
		release:     make(chan struct{}),
	}
	store.gated.Store(true)
	e := NewEngine(store, testConfig())
	defer e.Close()
	ctx := context.Background()

	type readResult struct {
		f   *models.Facility
		err error
	}
	done := make(chan readResult, 1)
	go func() {
		f, err := e.Facility(ctx, "A")
		done <- readResult{f, err}
	}()

	<-store.read
	if _, err := store.UpdateFacility(ctx, &models.FacilityUpdate{
		ID:         "A",
		Name:       "A",
		CapacityMW: fltPtr(200),
		Latitude:   fltPtr(0),
		Longitude:  fltPtr(0),
	}); err != nil {
		t.Fatalf("UpdateFacility: %v", err)
	}
	e.Invalidate()
	close(store.release)

	res := <-done
	if res.err != nil {
		t.Fatalf("in-flight Facility: %v", res.err)
	}
	if got := *res.f.CapacityMW; got != 100 {
		t.Fatalf("in-flight read capacity = %v, want the pre-update 100", got)
	}

	f, err := e.Facility(ctx, "A")
	if err != nil {
		t.Fatalf("Facility after flush: %v", err)
	}
	if got := *f.CapacityMW; got != 200 {
		t.Errorf("capacity after flush = %v, want 200", got)
	}
}

func TestEngine_CacheDisabled(t *testing.T) {
	t.Parallel()
	store := &countingStore{MemoryStore: scenarioStore()}
	cfg := testConfig()
	cfg.CacheTTL = 0
	e := NewEngine(store, cfg)
	defer e.Close()

	for i := 0; i < 2; i++ {
		if _, err := e.CapacityByFuel(context.Background(), nil, true); err != nil {
			t.Fatalf("CapacityByFuel: %v", err)
		}
	}
	if store.calls.Load() != 2 {
		t.Errorf("store calls = %d, want 2 with caching disabled", store.calls.Load())
	}
	e.Invalidate()
}

func TestEngine_StoreErrorSurfaces(t *testing.T) {
	t.Parallel()
	ms := scenarioStore()
	cause := errors.New("IO Error: could not read file")
	ms.SetErr(&database.StoreError{Op: "capacity_by_fuel", Err: cause})

	e := NewEngine(ms, testConfig())
	defer e.Close()

	_, err := e.CapacityByFuel(context.Background(), nil, true)
	var se *database.StoreError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *database.StoreError", err)
	}
	if !errors.Is(err, cause) {
		t.Error("StoreError should wrap the original cause unmodified")
	}
}

func TestEngine_PlainStoreErrorIsWrapped(t *testing.T) {
	t.Parallel()
	ms := scenarioStore()
	ms.SetErr(errors.New("boom"))

	e := NewEngine(ms, testConfig())
	defer e.Close()

	_, err := e.ListFacilities(context.Background(), models.FilterSpec{})
	if !database.IsStoreError(err) {
		t.Errorf("error = %v, want StoreError", err)
	}
}

func TestEngine_BreakerOpensAndFailsFast(t *testing.T) {
	t.Parallel()
	ms := scenarioStore()
	ms.SetErr(&database.StoreError{Op: "x", Err: errors.New("down")})

	cfg := testConfig()
	cfg.CacheTTL = 0
	e := NewEngine(ms, cfg)
	defer e.Close()
	ctx := context.Background()

	for i := 0; i < int(cfg.BreakerMaxFailures); i++ {
		_, _ = e.CapacityByFuel(ctx, nil, true)
	}
	if e.Breaker().State() != "open" {
		t.Fatalf("breaker state = %s, want open", e.Breaker().State())
	}

	ms.SetErr(nil)
	_, err := e.CapacityByFuel(ctx, nil, true)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("error = %v, want ErrOpenState", err)
	}
	if !database.IsStoreError(err) {
		t.Error("open breaker error should be a StoreError")
	}
}

func TestEngine_CallerErrorsDoNotTripBreaker(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.CacheTTL = 0
	e := NewEngine(scenarioStore(), cfg)
	defer e.Close()
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		if _, err := e.Facility(ctx, "missing"); !errors.Is(err, database.ErrNotFound) {
			t.Fatalf("Facility error = %v, want ErrNotFound", err)
		}
	}
	if e.Breaker().State() != "closed" {
		t.Errorf("breaker state = %s, want closed", e.Breaker().State())
	}
}

func TestEngine_FacilityAndMetadata(t *testing.T) {
	t.Parallel()
	e := NewEngine(scenarioStore(), testConfig())
	defer e.Close()
	ctx := context.Background()

	f, err := e.Facility(ctx, "A")
	if err != nil {
		t.Fatalf("Facility: %v", err)
	}
	if f.FuelName == nil || *f.FuelName != "Hydro" {
		t.Errorf("FuelName = %v, want Hydro", f.FuelName)
	}

	meta, err := e.FilterMetadata(ctx)
	if err != nil {
		t.Fatalf("FilterMetadata: %v", err)
	}
	if len(meta.Countries) != 2 || meta.Countries[0].Code != "CAN" {
		t.Errorf("countries = %+v, want CAN first (ordered by name)", meta.Countries)
	}
}

func TestEngine_DataCentersOrdering(t *testing.T) {
	t.Parallel()
	ms := scenarioStore().AddDataCenters(
		models.DataCenter{ID: "z", Name: "Z"},
		models.DataCenter{ID: "small", Name: "S", CapacityMW: fltPtr(5)},
		models.DataCenter{ID: "big", Name: "B", CapacityMW: fltPtr(900)},
		models.DataCenter{ID: "a", Name: "A"},
	)
	e := NewEngine(ms, testConfig())
	defer e.Close()

	got, err := e.DataCenters(context.Background())
	if err != nil {
		t.Fatalf("DataCenters: %v", err)
	}
	want := []string{"big", "small", "a", "z"}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d = %s, want %s", i, got[i].ID, id)
		}
	}
}
