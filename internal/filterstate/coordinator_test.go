// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

package filterstate

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/poweratlas/internal/analytics"
	"github.com/tomtom215/poweratlas/internal/fuel"
	"github.com/tomtom215/poweratlas/internal/models"
)

func strPtr(s string) *string   { return &s }
func fltPtr(f float64) *float64 { return &f }
func intPtr(i int) *int         { return &i }

func testStore() *analytics.MemoryStore {
	return analytics.NewMemoryStore(models.DefaultMicroThresholdMW).
		AddCountries(
			models.Country{Code: "USA", Name: "United States of America"},
			models.Country{Code: "CAN", Name: "Canada"},
		).
		AddFacilities(
			models.Facility{ID: "A", Name: "A", Latitude: 40, Longitude: -100, CapacityMW: fltPtr(100), FuelCode: intPtr(fuel.Hydro), CountryCode: strPtr("USA")},
			models.Facility{ID: "B", Name: "B", Latitude: 35, Longitude: -110, CapacityMW: fltPtr(50), FuelCode: intPtr(fuel.Solar), CountryCode: strPtr("USA")},
			models.Facility{ID: "C", Name: "C", Latitude: 50, Longitude: -75, CapacityMW: fltPtr(10), FuelCode: intPtr(fuel.Hydro), CountryCode: strPtr("CAN")},
		)
}

type recordingSink struct {
	mu      sync.Mutex
	results []Result
}

func (s *recordingSink) Apply(r Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
}

func (s *recordingSink) snapshot() []Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Result(nil), s.results...)
}

func (s *recordingSink) countFor(gen uint64) int {
	n := 0
	for _, r := range s.snapshot() {
		if r.Generation == gen {
			n++
		}
	}
	return n
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// gatedSource blocks every query for the gated country until release is
// closed. It ignores cancellation so stale results really complete.
type gatedSource struct {
	*analytics.MemoryStore
	gated   string
	release chan struct{}
}

func (g *gatedSource) wait(country *string) {
	if country != nil && *country == g.gated {
		<-g.release
	}
}

func (g *gatedSource) CapacityByFuel(ctx context.Context, country *string, includeMicro bool) ([]models.FuelCapacity, error) {
	g.wait(country)
	return g.MemoryStore.CapacityByFuel(context.Background(), models.FilterSpec{Country: country, IncludeMicro: includeMicro})
}

func (g *gatedSource) CapacityByCountryAndFuel(ctx context.Context, country *string, includeMicro bool) ([]models.CountryFuelCapacity, error) {
	g.wait(country)
	return g.MemoryStore.CapacityByCountryAndFuel(context.Background(), models.FilterSpec{Country: country, IncludeMicro: includeMicro})
}

func (g *gatedSource) ListFacilities(ctx context.Context, spec models.FilterSpec) ([]models.Facility, error) {
	g.wait(spec.Country)
	return g.MemoryStore.ListFacilities(context.Background(), spec)
}

// engineSource adapts the store's FilterSpec methods to Source.
type engineSource struct {
	*analytics.MemoryStore
}

func (e engineSource) CapacityByFuel(ctx context.Context, country *string, includeMicro bool) ([]models.FuelCapacity, error) {
	return e.MemoryStore.CapacityByFuel(ctx, models.FilterSpec{Country: country, IncludeMicro: includeMicro})
}

func (e engineSource) CapacityByCountryAndFuel(ctx context.Context, country *string, includeMicro bool) ([]models.CountryFuelCapacity, error) {
	return e.MemoryStore.CapacityByCountryAndFuel(ctx, models.FilterSpec{Country: country, IncludeMicro: includeMicro})
}

func TestSetCountryFansOut(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	c := New(engineSource{testStore()}, sink)
	defer c.Close()

	gen := c.SetCountry(strPtr("USA"))
	if gen != 1 {
		t.Fatalf("generation = %d, want 1", gen)
	}
	waitFor(t, func() bool { return sink.countFor(gen) == 3 })

	kinds := map[Kind]Result{}
	for _, r := range sink.snapshot() {
		if r.Err != nil {
			t.Fatalf("unexpected error result: %v", r.Err)
		}
		kinds[r.Kind] = r
	}

	byFuel := kinds[KindCapacityByFuel].CapacityByFuel
	if len(byFuel) != 2 || byFuel[0].FuelName != "Hydro" || byFuel[0].GenerationMW != 100 {
		t.Errorf("capacity by fuel = %+v, want Hydro 100 first", byFuel)
	}
	if cross := kinds[KindCountryFuel].CountryFuel; len(cross) != 2 {
		t.Errorf("cross-tab = %+v, want 2 rows for USA", cross)
	}
	layer := kinds[KindFacilities].Layer
	if layer == nil || len(layer.Markers) != 2 {
		t.Fatalf("facility layer = %+v, want 2 markers", layer)
	}
	if _, ok := layer.Select("A"); !ok {
		t.Error("layer should contain facility A")
	}
	if c.Stats().Applied != 3 {
		t.Errorf("applied = %d, want 3", c.Stats().Applied)
	}
}

func TestStaleGenerationsAreDropped(t *testing.T) {
	t.Parallel()

	src := &gatedSource{MemoryStore: testStore(), gated: "USA", release: make(chan struct{})}
	sink := &recordingSink{}
	c := New(src, sink)

	first := c.SetCountry(strPtr("USA"))
	second := c.SetCountry(strPtr("CAN"))
	if second != first+1 {
		t.Fatalf("generations %d then %d, want consecutive", first, second)
	}

	waitFor(t, func() bool { return sink.countFor(second) == 3 })
	close(src.release)
	waitFor(t, func() bool { return c.Stats().Stale == 3 })
	c.Close()

	for _, r := range sink.snapshot() {
		if r.Generation != second {
			t.Errorf("sink received generation %d, want only %d", r.Generation, second)
		}
		if r.Spec.Country == nil || *r.Spec.Country != "CAN" {
			t.Errorf("sink received spec %s", r.Spec)
		}
	}
	if got := c.Stats(); got.Applied != 3 || got.Stale != 3 {
		t.Errorf("stats = %+v, want 3 applied and 3 stale", got)
	}
}

func TestStoreErrorIsDelivered(t *testing.T) {
	t.Parallel()

	store := testStore()
	store.SetErr(errors.New("store down"))
	sink := &recordingSink{}
	c := New(engineSource{store}, sink)
	defer c.Close()

	gen := c.Refresh()
	waitFor(t, func() bool { return sink.countFor(gen) == 3 })

	for _, r := range sink.snapshot() {
		if r.Err == nil {
			t.Errorf("%s result has no error", r.Kind)
		}
		if r.Data() != nil {
			t.Errorf("%s error result carries data", r.Kind)
		}
	}
	if c.Stats().Errors != 3 {
		t.Errorf("errors = %d, want 3", c.Stats().Errors)
	}
}

func TestRefreshKeepsSpec(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	c := New(engineSource{testStore()}, sink, WithInitialSpec(models.FilterSpec{Fuel: intPtr(fuel.Hydro)}))
	defer c.Close()

	c.SetIncludeMicro(true)
	before := c.Spec()
	gen := c.Refresh()

	if gen != 2 {
		t.Errorf("generation = %d, want 2", gen)
	}
	if !c.Spec().Equal(before) {
		t.Errorf("spec changed: %s -> %s", before, c.Spec())
	}
	if c.Spec().Fuel == nil || *c.Spec().Fuel != fuel.Hydro || !c.Spec().IncludeMicro {
		t.Errorf("spec = %s", c.Spec())
	}
	waitFor(t, func() bool { return sink.countFor(gen) == 3 })
}

func TestIncludeMicroChangesLayer(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	c := New(engineSource{testStore()}, sink)
	defer c.Close()

	layerFor := func(gen uint64) int {
		for _, r := range sink.snapshot() {
			if r.Generation == gen && r.Kind == KindFacilities {
				return len(r.Layer.Markers)
			}
		}
		return -1
	}

	excl := c.SetIncludeMicro(false)
	waitFor(t, func() bool { return sink.countFor(excl) == 3 })
	incl := c.SetIncludeMicro(true)
	waitFor(t, func() bool { return sink.countFor(incl) == 3 })

	if got := layerFor(excl); got != 2 {
		t.Errorf("without micro: %d markers, want 2", got)
	}
	if got := layerFor(incl); got != 3 {
		t.Errorf("with micro: %d markers, want 3", got)
	}
}

func TestSubscribe(t *testing.T) {
	t.Parallel()

	c := New(engineSource{testStore()}, SinkFunc(func(Result) {}))
	defer c.Close()

	var mu sync.Mutex
	var changes []Change
	unsubscribe := c.Subscribe(func(ch Change) {
		mu.Lock()
		changes = append(changes, ch)
		mu.Unlock()
	})

	c.SetFuel(intPtr(fuel.Coal))
	c.SetCountry(strPtr("USA"))
	unsubscribe()
	unsubscribe()
	c.SetCountry(nil)

	mu.Lock()
	defer mu.Unlock()
	if len(changes) != 2 {
		t.Fatalf("got %d changes, want 2", len(changes))
	}
	if changes[0].Generation != 1 || changes[1].Generation != 2 {
		t.Errorf("generations = %d, %d", changes[0].Generation, changes[1].Generation)
	}
	if changes[1].Spec.Fuel == nil || *changes[1].Spec.Fuel != fuel.Coal ||
		changes[1].Spec.Country == nil || *changes[1].Spec.Country != "USA" {
		t.Errorf("second change spec = %s", changes[1].Spec)
	}
}

func TestCloseStopsChanges(t *testing.T) {
	t.Parallel()

	src := &gatedSource{MemoryStore: testStore(), gated: "USA", release: make(chan struct{})}
	sink := &recordingSink{}
	c := New(src, sink)

	gen := c.SetCountry(strPtr("USA"))
	done := make(chan struct{})
	go func() {
		c.Close()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Close returned while fetches were still running")
	case <-time.After(50 * time.Millisecond):
	}
	close(src.release)
	<-done

	if got := c.SetCountry(strPtr("CAN")); got != gen {
		t.Errorf("SetCountry after Close = %d, want %d", got, gen)
	}
	if n := len(sink.snapshot()); n != 0 {
		t.Errorf("sink received %d results after Close", n)
	}
	c.Close()
}
