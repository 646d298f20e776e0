// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

// @title PowerAtlas API
// @version 1.0
// @description Capacity and generation analytics for the world's power plants,
// @description with map marker layers and a live filtered view over WebSocket.
// @description
// @description ## Errors
// @description
// @description Every response uses one JSON envelope. Validation failures answer 400,
// @description unknown facilities 404, and store outages 503 with `details.retryable = true`.
// @description
// @description ## Authentication
// @description
// @description Read endpoints are open. `PUT /facilities/{id}` requires the `x-api-key` header
// @description and is disabled when no key is configured.
// @description
// @description ## Rate Limiting
// @description
// @description Default rate limit: 100 requests per minute per IP address.
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:3857
// @BasePath /api/v1
// @schemes http https
//
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
package main
