// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

/*
Package api serves the PowerAtlas HTTP interface.

Routes (chi, see router.go):

	GET  /health, /health/live, /health/ready
	GET  /metrics
	GET  /api/v1/filters
	GET  /api/v1/capacity/countries?fuel=
	GET  /api/v1/capacity/fuels?country=&includeMicro=
	GET  /api/v1/capacity/country-fuel?country=&includeMicro=
	GET  /api/v1/generation?countries=USA,CAN
	GET  /api/v1/facilities?country=&fuel=&includeMicro=
	GET  /api/v1/facilities/{id}
	PUT  /api/v1/facilities/{id}          (x-api-key)
	GET  /api/v1/datacenters
	GET  /api/v1/map/markers?country=&fuel=&includeMicro=&zoom=
	GET  /api/v1/ws

Every JSON response uses the models.APIResponse envelope. Errors map to
status codes by kind:

	validation failure        400 VALIDATION_ERROR
	invalid argument          400 INVALID_ARGUMENT
	unknown facility          404 NOT_FOUND
	missing/invalid API key   403 FORBIDDEN
	store failure             503 STORE_ERROR, details.retryable = true

Clients can retry 503 responses; 4xx responses will fail again unchanged.
*/
package api
