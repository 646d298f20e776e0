// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

/*
Package cache provides the thread-safe TTL cache that holds aggregation
results between facility updates.

Entries expire after the cache TTL and are swept in the background. A
facility update flushes the whole cache through Clear, since any capacity
change can move totals in every grouping.

Keys come from GenerateKey, which hashes the JSON encoding of the query
parameters:

	key := cache.GenerateKey("capacity_by_fuel", spec)
	if v, ok := c.Get(key); ok {
		return v.([]models.FuelCapacity), nil
	}
*/
package cache
