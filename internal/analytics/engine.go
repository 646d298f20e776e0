// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

package analytics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/poweratlas/internal/cache"
	"github.com/tomtom215/poweratlas/internal/config"
	"github.com/tomtom215/poweratlas/internal/database"
	"github.com/tomtom215/poweratlas/internal/logging"
	"github.com/tomtom215/poweratlas/internal/metrics"
	"github.com/tomtom215/poweratlas/internal/models"
)

// Store is the read side of the facility store.
// *database.DB satisfies it; MemoryStore is an in-process implementation.
type Store interface {
	CapacityByCountry(ctx context.Context, spec models.FilterSpec) ([]models.CountryCapacity, error)
	CapacityByFuel(ctx context.Context, spec models.FilterSpec) ([]models.FuelCapacity, error)
	CapacityByCountryAndFuel(ctx context.Context, spec models.FilterSpec) ([]models.CountryFuelCapacity, error)
	GenerationByCountries(ctx context.Context, countries []string) ([]models.CountryGeneration, error)
	ListFacilities(ctx context.Context, spec models.FilterSpec) ([]models.Facility, error)
	GetFacility(ctx context.Context, id string) (*models.Facility, error)
	FilterMetadata(ctx context.Context) (*models.FilterMetadata, error)
	DataCenters(ctx context.Context) ([]models.DataCenter, error)
}

// Operation names, used for cache keys, metrics and StoreError.Op.
const (
	OpCapacityByCountry        = "capacity_by_country"
	OpCapacityByFuel           = "capacity_by_fuel"
	OpCapacityByCountryAndFuel = "capacity_by_country_fuel"
	OpGenerationByCountries    = "generation_by_countries"
	OpListFacilities           = "list_facilities"
	OpFacility                 = "facility"
	OpFilterMetadata           = "filter_metadata"
	OpDataCenters              = "data_centers"
)

// Engine answers aggregation queries against a Store.
type Engine struct {
	store   Store
	cache   *cache.Cache
	breaker *StoreBreaker

	// epoch counts flushes. A result computed under an older epoch is
	// returned to its caller but never cached.
	epochMu sync.RWMutex
	epoch   uint64
}

// NewEngine creates an engine over store. A zero cfg.CacheTTL disables caching.
func NewEngine(store Store, cfg config.AnalyticsConfig) *Engine {
	e := &Engine{
		store:   store,
		breaker: NewStoreBreaker("facility-store", cfg.BreakerMaxFailures, cfg.BreakerTimeout),
	}
	if cfg.CacheTTL > 0 {
		e.cache = cache.New(cfg.CacheTTL)
	}
	return e
}

// Breaker exposes the store breaker so writers can share it with readers.
func (e *Engine) Breaker() *StoreBreaker {
	return e.breaker
}

// Close releases the cache sweeper.
func (e *Engine) Close() {
	if e.cache != nil {
		e.cache.Close()
	}
}

// Invalidate drops every cached result. Called after a facility changes.
func (e *Engine) Invalidate() {
	if e.cache == nil {
		return
	}
	e.epochMu.Lock()
	e.epoch++
	removed := e.cache.Clear()
	e.epochMu.Unlock()
	metrics.AggregationCacheInvalidations.Inc()
	logging.Debug().Int("entries", removed).Msg("Aggregation cache flushed")
}

func (e *Engine) currentEpoch() uint64 {
	e.epochMu.RLock()
	defer e.epochMu.RUnlock()
	return e.epoch
}

// storeResult caches result unless a flush happened since epoch.
func (e *Engine) storeResult(key string, epoch uint64, result interface{}) bool {
	e.epochMu.RLock()
	defer e.epochMu.RUnlock()
	if e.epoch != epoch {
		return false
	}
	e.cache.Set(key, result)
	return true
}

// CacheStats returns cache statistics, or zero stats when caching is off.
func (e *Engine) CacheStats() cache.Stats {
	if e.cache == nil {
		return cache.Stats{}
	}
	return e.cache.GetStats()
}

// cached serves op from the cache or computes it through the breaker.
func cached[T any](ctx context.Context, e *Engine, op string, params interface{}, fn func(context.Context) (T, error)) (T, error) {
	var (
		key   string
		epoch uint64
	)
	if e.cache != nil {
		epoch = e.currentEpoch()
		key = cache.GenerateKey(op, params)
		if v, ok := e.cache.Get(key); ok {
			if typed, ok := v.(T); ok {
				metrics.RecordCacheLookup(op, true)
				return typed, nil
			}
		}
		metrics.RecordCacheLookup(op, false)
	}

	start := time.Now()
	result, err := Execute(e.breaker, op, func() (T, error) {
		return fn(ctx)
	})
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Str("operation", op).Dur("elapsed", time.Since(start)).Msg("Aggregation failed")
		var zero T
		return zero, err
	}

	if e.cache != nil && !e.storeResult(key, epoch, result) {
		logging.Ctx(ctx).Debug().Str("operation", op).Msg("Result outlived a cache flush; not cached")
	}
	return result, nil
}

// CapacityByCountry returns total capacity per country, optionally for one
// fuel. Every facility contributes regardless of size.
func (e *Engine) CapacityByCountry(ctx context.Context, fuel *int) ([]models.CountryCapacity, error) {
	return e.CapacityByCountryFiltered(ctx, models.FilterSpec{Fuel: fuel, IncludeMicro: true})
}

// CapacityByCountryFiltered returns total capacity per country under the full filter.
func (e *Engine) CapacityByCountryFiltered(ctx context.Context, spec models.FilterSpec) ([]models.CountryCapacity, error) {
	return cached(ctx, e, OpCapacityByCountry, spec, func(ctx context.Context) ([]models.CountryCapacity, error) {
		return e.store.CapacityByCountry(ctx, spec)
	})
}

// CapacityByFuel returns total capacity per fuel, largest first.
func (e *Engine) CapacityByFuel(ctx context.Context, country *string, includeMicro bool) ([]models.FuelCapacity, error) {
	spec := models.FilterSpec{Country: country, IncludeMicro: includeMicro}
	return cached(ctx, e, OpCapacityByFuel, spec, func(ctx context.Context) ([]models.FuelCapacity, error) {
		return e.store.CapacityByFuel(ctx, spec)
	})
}

// CapacityByCountryAndFuel returns the country by fuel cross-tab.
func (e *Engine) CapacityByCountryAndFuel(ctx context.Context, country *string, includeMicro bool) ([]models.CountryFuelCapacity, error) {
	spec := models.FilterSpec{Country: country, IncludeMicro: includeMicro}
	return cached(ctx, e, OpCapacityByCountryAndFuel, spec, func(ctx context.Context) ([]models.CountryFuelCapacity, error) {
		return e.store.CapacityByCountryAndFuel(ctx, spec)
	})
}

// GenerationByCountries returns annual generation for the given countries.
// Codes are normalized and de-duplicated first; an empty set is
// database.ErrInvalidArgument and never reaches the store.
func (e *Engine) GenerationByCountries(ctx context.Context, countries []string) ([]models.CountryGeneration, error) {
	codes := database.NormalizeCountryCodes(countries)
	if len(codes) == 0 {
		return nil, fmt.Errorf("%s: at least one country code is required: %w", OpGenerationByCountries, database.ErrInvalidArgument)
	}
	return cached(ctx, e, OpGenerationByCountries, codes, func(ctx context.Context) ([]models.CountryGeneration, error) {
		return e.store.GenerationByCountries(ctx, codes)
	})
}

// ListFacilities returns the facilities matching every set predicate of spec.
func (e *Engine) ListFacilities(ctx context.Context, spec models.FilterSpec) ([]models.Facility, error) {
	return cached(ctx, e, OpListFacilities, spec, func(ctx context.Context) ([]models.Facility, error) {
		return e.store.ListFacilities(ctx, spec)
	})
}

// Facility returns one facility or database.ErrNotFound.
func (e *Engine) Facility(ctx context.Context, id string) (*models.Facility, error) {
	return cached(ctx, e, OpFacility, id, func(ctx context.Context) (*models.Facility, error) {
		return e.store.GetFacility(ctx, id)
	})
}

// FilterMetadata returns the selectable countries and fuels.
func (e *Engine) FilterMetadata(ctx context.Context) (*models.FilterMetadata, error) {
	return cached(ctx, e, OpFilterMetadata, nil, func(ctx context.Context) (*models.FilterMetadata, error) {
		return e.store.FilterMetadata(ctx)
	})
}

// DataCenters returns every data center.
func (e *Engine) DataCenters(ctx context.Context) ([]models.DataCenter, error) {
	return cached(ctx, e, OpDataCenters, nil, func(ctx context.Context) ([]models.DataCenter, error) {
		return e.store.DataCenters(ctx)
	})
}
