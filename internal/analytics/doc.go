// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

// Package analytics is the aggregation engine: capacity by country, by fuel
// and by country and fuel, generation by country, and the filtered facility
// list, computed by an injected Store.
//
// Results are cached per operation and parameters until the cache TTL
// expires or Invalidate is called after a facility update. Store calls run
// behind a circuit breaker, so a failing store fails fast with a
// *database.StoreError instead of queueing more work against it. The engine
// never retries.
//
// Cached slices are shared between callers and must be treated as read-only.
package analytics
