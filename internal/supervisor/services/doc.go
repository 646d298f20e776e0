// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

// Package services adapts PowerAtlas components with blocking or
// Start/Shutdown lifecycles to suture's Serve(ctx) error contract.
//
// The websocket hub and the event listener already implement Serve and are
// added to the tree directly; only the HTTP server needs a wrapper.
package services
