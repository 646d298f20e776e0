// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

// Package metrics defines the Prometheus instruments exported on /metrics.
//
// Instruments are package-level promauto vectors registered with the default
// registry. Callers use the Record* helpers so label sets stay consistent.
package metrics
