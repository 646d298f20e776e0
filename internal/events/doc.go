// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

/*
Package events carries domain events between components over an in-process
Watermill gochannel pub/sub.

One topic exists today:

  - facility.updated: published by the facility service after an update
    commits. The payload is FacilityUpdatedEvent encoded as JSON.

A Listener runs as a supervised service. Each registered handler gets its own
subscription, so every handler sees every event. Handler errors are logged and
counted but never retried: a missed cache flush ages out with the cache TTL
and a missed broadcast is repaired by the next client refresh.
*/
package events
