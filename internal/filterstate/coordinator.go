// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

// Package filterstate coordinates one view's filter selection.
//
// Every change to the selection starts a new generation and fans out three
// concurrent fetches (capacity by fuel, the country by fuel cross-tab and
// the projected facility layer). A fetch result reaches the Sink only while
// its generation is still current; anything older is dropped and counted.
package filterstate

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/tomtom215/poweratlas/internal/logging"
	"github.com/tomtom215/poweratlas/internal/markers"
	"github.com/tomtom215/poweratlas/internal/metrics"
	"github.com/tomtom215/poweratlas/internal/models"
)

// Source answers the queries a generation needs. *analytics.Engine
// satisfies it.
type Source interface {
	CapacityByFuel(ctx context.Context, country *string, includeMicro bool) ([]models.FuelCapacity, error)
	CapacityByCountryAndFuel(ctx context.Context, country *string, includeMicro bool) ([]models.CountryFuelCapacity, error)
	ListFacilities(ctx context.Context, spec models.FilterSpec) ([]models.Facility, error)
}

// Sink receives results that are current when delivered. Apply is never
// called concurrently for one coordinator.
type Sink interface {
	Apply(r Result)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(r Result)

// Apply calls f(r).
func (f SinkFunc) Apply(r Result) { f(r) }

// Change is sent to subscribers when the selection changes.
type Change struct {
	Generation uint64
	Spec       models.FilterSpec
}

// Stats counts delivered results by disposition.
type Stats struct {
	Applied uint64
	Errors  uint64
	Stale   uint64
}

// Coordinator owns one FilterSpec and its generation counter.
type Coordinator struct {
	source    Source
	projector *markers.Projector
	sink      Sink
	zoom      int

	mu         sync.Mutex
	spec       models.FilterSpec
	generation uint64
	cancel     context.CancelFunc
	closed     bool
	subs       map[int]func(Change)
	nextSub    int

	// deliverMu serializes the currency check and Sink.Apply.
	deliverMu sync.Mutex

	baseCtx    context.Context
	baseCancel context.CancelFunc
	wg         sync.WaitGroup

	applied atomic.Uint64
	errored atomic.Uint64
	stale   atomic.Uint64
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithProjector sets the projector for the facility layer.
func WithProjector(p *markers.Projector) Option {
	return func(c *Coordinator) { c.projector = p }
}

// WithZoom sets the zoom the facility layer is clustered at.
func WithZoom(zoom int) Option {
	return func(c *Coordinator) { c.zoom = markers.ClampZoom(zoom) }
}

// WithInitialSpec sets the selection before the first change.
func WithInitialSpec(spec models.FilterSpec) Option {
	return func(c *Coordinator) { c.spec = spec }
}

// New creates a Coordinator. No fetch runs until the first change or Refresh.
func New(source Source, sink Sink, opts ...Option) *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Coordinator{
		source:     source,
		sink:       sink,
		subs:       make(map[int]func(Change)),
		baseCtx:    ctx,
		baseCancel: cancel,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.projector == nil {
		c.projector = markers.NewProjector()
	}
	return c
}

// Spec returns the current selection.
func (c *Coordinator) Spec() models.FilterSpec {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.spec
}

// Generation returns the current generation, 0 before the first change.
func (c *Coordinator) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// Stats returns result counters.
func (c *Coordinator) Stats() Stats {
	return Stats{
		Applied: c.applied.Load(),
		Errors:  c.errored.Load(),
		Stale:   c.stale.Load(),
	}
}

// SetCountry selects a country, or all countries when country is nil.
func (c *Coordinator) SetCountry(country *string) uint64 {
	return c.change(func(s models.FilterSpec) models.FilterSpec { return s.WithCountry(country) })
}

// SetFuel selects a fuel code, or all fuels when fuel is nil.
func (c *Coordinator) SetFuel(fuel *int) uint64 {
	return c.change(func(s models.FilterSpec) models.FilterSpec { return s.WithFuel(fuel) })
}

// SetIncludeMicro toggles facilities below the micro threshold.
func (c *Coordinator) SetIncludeMicro(include bool) uint64 {
	return c.change(func(s models.FilterSpec) models.FilterSpec { return s.WithIncludeMicro(include) })
}

// Refresh re-runs the fetches for the current selection under a new
// generation.
func (c *Coordinator) Refresh() uint64 {
	return c.change(func(s models.FilterSpec) models.FilterSpec { return s })
}

// Subscribe registers fn for selection changes. Changes from concurrent
// callers may arrive out of generation order.
func (c *Coordinator) Subscribe(fn func(Change)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
		})
	}
}

// Close cancels in-flight fetches and waits for them. Later changes are
// ignored.
func (c *Coordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		c.wg.Wait()
		return
	}
	c.closed = true
	if c.cancel != nil {
		c.cancel()
	}
	c.mu.Unlock()

	c.baseCancel()
	c.wg.Wait()
}

func (c *Coordinator) change(update func(models.FilterSpec) models.FilterSpec) uint64 {
	c.mu.Lock()
	if c.closed {
		gen := c.generation
		c.mu.Unlock()
		return gen
	}

	c.spec = update(c.spec)
	c.generation++
	gen, spec := c.generation, c.spec

	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(c.baseCtx)
	c.cancel = cancel

	subs := make([]func(Change), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.wg.Add(3)
	c.mu.Unlock()

	metrics.FilterGenerations.Inc()
	logging.Debug().
		Uint64("generation", gen).
		Str("filter", spec.String()).
		Msg("Filter changed")

	for _, fn := range subs {
		fn(Change{Generation: gen, Spec: spec})
	}

	go c.fetch(ctx, gen, spec, KindCapacityByFuel, func(ctx context.Context) Result {
		rows, err := c.source.CapacityByFuel(ctx, spec.Country, spec.IncludeMicro)
		return Result{CapacityByFuel: rows, Err: err}
	})
	go c.fetch(ctx, gen, spec, KindCountryFuel, func(ctx context.Context) Result {
		rows, err := c.source.CapacityByCountryAndFuel(ctx, spec.Country, spec.IncludeMicro)
		return Result{CountryFuel: rows, Err: err}
	})
	go c.fetch(ctx, gen, spec, KindFacilities, func(ctx context.Context) Result {
		fs, err := c.source.ListFacilities(ctx, spec)
		if err != nil {
			return Result{Err: err}
		}
		layer := c.projector.Facilities(fs, c.zoom)
		return Result{Layer: &layer}
	})

	return gen
}

func (c *Coordinator) fetch(ctx context.Context, gen uint64, spec models.FilterSpec, kind Kind, run func(context.Context) Result) {
	defer c.wg.Done()

	r := run(ctx)
	r.Generation, r.Spec, r.Kind = gen, spec, kind
	c.deliver(r)
}

func (c *Coordinator) deliver(r Result) {
	c.deliverMu.Lock()
	defer c.deliverMu.Unlock()

	c.mu.Lock()
	current := !c.closed && r.Generation == c.generation
	c.mu.Unlock()

	if !current {
		c.stale.Add(1)
		metrics.RecordFilterResult(string(r.Kind), DispositionStale)
		return
	}

	if r.Err != nil {
		c.errored.Add(1)
		metrics.RecordFilterResult(string(r.Kind), DispositionError)
		logging.Warn().Err(r.Err).
			Uint64("generation", r.Generation).
			Str("kind", string(r.Kind)).
			Msg("Filter fetch failed")
	} else {
		c.applied.Add(1)
		metrics.RecordFilterResult(string(r.Kind), DispositionApplied)
	}
	c.sink.Apply(r)
}
