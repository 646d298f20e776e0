// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

// Package docs holds the OpenAPI 2.0 document served at /swagger/doc.json.
//
// The layout is the one swag init emits from the annotations in cmd/server
// and internal/api; regenerate with:
//
//	swag init -g cmd/server/docs.go --parseInternal
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "AGPL-3.0-or-later",
            "url": "https://www.gnu.org/licenses/agpl-3.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/capacity/countries": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Capacity"],
                "summary": "Capacity by country",
                "parameters": [
                    {"type": "integer", "description": "Fuel code (1-16)", "name": "fuel", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"allOf": [{"$ref": "#/definitions/models.APIResponse"}, {"type": "object", "properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/models.CountryCapacity"}}}}]}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/capacity/country-fuel": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Capacity"],
                "summary": "Capacity by country and fuel",
                "parameters": [
                    {"type": "string", "description": "ISO-3 country code", "name": "country", "in": "query"},
                    {"type": "boolean", "description": "Include facilities below the micro threshold", "name": "includeMicro", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"allOf": [{"$ref": "#/definitions/models.APIResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/api.CountryFuelResponse"}}}]}}
                }
            }
        },
        "/capacity/fuels": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Capacity"],
                "summary": "Capacity by fuel",
                "parameters": [
                    {"type": "string", "description": "ISO-3 country code", "name": "country", "in": "query"},
                    {"type": "boolean", "description": "Include facilities below the micro threshold", "name": "includeMicro", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"allOf": [{"$ref": "#/definitions/models.APIResponse"}, {"type": "object", "properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/models.FuelCapacity"}}}}]}}
                }
            }
        },
        "/datacenters": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Facilities"],
                "summary": "List data centers",
                "responses": {
                    "200": {"description": "OK", "schema": {"allOf": [{"$ref": "#/definitions/models.APIResponse"}, {"type": "object", "properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/models.DataCenter"}}}}]}}
                }
            }
        },
        "/facilities": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Facilities"],
                "summary": "List facilities",
                "parameters": [
                    {"type": "string", "description": "ISO-3 country code", "name": "country", "in": "query"},
                    {"type": "integer", "description": "Fuel code (1-16)", "name": "fuel", "in": "query"},
                    {"type": "boolean", "description": "Include facilities below the micro threshold", "name": "includeMicro", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"allOf": [{"$ref": "#/definitions/models.APIResponse"}, {"type": "object", "properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/models.Facility"}}}}]}}
                }
            }
        },
        "/facilities/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Facilities"],
                "summary": "Get facility",
                "parameters": [
                    {"type": "string", "description": "Facility id (gppd_idnr)", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"allOf": [{"$ref": "#/definitions/models.APIResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/models.Facility"}}}]}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            },
            "put": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Facilities"],
                "summary": "Update facility",
                "parameters": [
                    {"type": "string", "description": "Facility id (gppd_idnr)", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "API key", "name": "x-api-key", "in": "header", "required": true},
                    {"description": "New field values", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.FacilityUpdate"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/filters": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Capacity"],
                "summary": "Filter metadata",
                "responses": {
                    "200": {"description": "OK", "schema": {"allOf": [{"$ref": "#/definitions/models.APIResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/models.FilterMetadata"}}}]}}
                }
            }
        },
        "/generation": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Capacity"],
                "summary": "Generation by country",
                "parameters": [
                    {"type": "string", "description": "Comma-separated ISO-3 codes", "name": "countries", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"allOf": [{"$ref": "#/definitions/models.APIResponse"}, {"type": "object", "properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/models.CountryGeneration"}}}}]}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/map/markers": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Map"],
                "summary": "Map markers",
                "parameters": [
                    {"type": "string", "description": "ISO-3 country code", "name": "country", "in": "query"},
                    {"type": "integer", "description": "Fuel code (1-16)", "name": "fuel", "in": "query"},
                    {"type": "boolean", "description": "Include facilities below the micro threshold", "name": "includeMicro", "in": "query"},
                    {"type": "integer", "description": "Map zoom (0-22)", "name": "zoom", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/ws": {
            "get": {
                "tags": ["Realtime"],
                "summary": "Live view WebSocket",
                "responses": {
                    "101": {"description": "Switching Protocols", "schema": {"type": "string"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.CountryFuelResponse": {
            "type": "object",
            "properties": {
                "rows": {"type": "array", "items": {"$ref": "#/definitions/models.CountryFuelCapacity"}},
                "pivot": {"$ref": "#/definitions/models.CapacityPivot"}
            }
        },
        "models.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {"type": "object", "additionalProperties": true}
            }
        },
        "models.APIResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "data": {},
                "metadata": {"$ref": "#/definitions/models.Metadata"},
                "error": {"$ref": "#/definitions/models.APIError"}
            }
        },
        "models.CapacityPivot": {
            "type": "object",
            "properties": {
                "countries": {"type": "array", "items": {"$ref": "#/definitions/models.Country"}},
                "fuels": {"type": "array", "items": {"$ref": "#/definitions/models.FuelType"}},
                "cells": {"type": "array", "items": {"type": "array", "items": {"type": "number"}}},
                "country_totals": {"type": "array", "items": {"type": "number"}},
                "fuel_totals": {"type": "array", "items": {"type": "number"}}
            }
        },
        "models.Country": {
            "type": "object",
            "properties": {
                "country_code": {"type": "string"},
                "country_long": {"type": "string"}
            }
        },
        "models.CountryCapacity": {
            "type": "object",
            "properties": {
                "country_code": {"type": "string"},
                "country_long": {"type": "string"},
                "capacity_mw": {"type": "number"}
            }
        },
        "models.CountryFuelCapacity": {
            "type": "object",
            "properties": {
                "country_code": {"type": "string"},
                "country_long": {"type": "string"},
                "fuel_code": {"type": "integer"},
                "fuel": {"type": "string"},
                "capacity_mw": {"type": "number"}
            }
        },
        "models.CountryGeneration": {
            "type": "object",
            "properties": {
                "country_code": {"type": "string"},
                "year": {"type": "integer"},
                "total_generation": {"type": "number"}
            }
        },
        "models.DataCenter": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "project": {"type": "string"},
                "address": {"type": "string"},
                "latitude": {"type": "number"},
                "longitude": {"type": "number"},
                "owner": {"type": "string"},
                "users": {"type": "string"},
                "capacity_mw": {"type": "number"},
                "h100_equivalents": {"type": "number"},
                "capex_bn": {"type": "number"}
            }
        },
        "models.Facility": {
            "type": "object",
            "properties": {
                "gppd_idnr": {"type": "string"},
                "name": {"type": "string"},
                "latitude": {"type": "number"},
                "longitude": {"type": "number"},
                "capacity_mw": {"type": "number"},
                "owner": {"type": "string"},
                "fuel_code": {"type": "integer"},
                "fuel": {"type": "string"},
                "country_code": {"type": "string"},
                "country_long": {"type": "string"}
            }
        },
        "models.FacilityUpdate": {
            "type": "object",
            "required": ["capacity_mw", "gppd_idnr", "latitude", "longitude", "name"],
            "properties": {
                "gppd_idnr": {"type": "string", "maxLength": 64},
                "name": {"type": "string", "maxLength": 255},
                "capacity_mw": {"type": "number", "minimum": 0},
                "latitude": {"type": "number"},
                "longitude": {"type": "number"},
                "country_code": {"type": "string"},
                "fuel_code": {"type": "integer"},
                "owner": {"type": "string", "maxLength": 255}
            }
        },
        "models.FilterMetadata": {
            "type": "object",
            "properties": {
                "countries": {"type": "array", "items": {"$ref": "#/definitions/models.Country"}},
                "fuels": {"type": "array", "items": {"$ref": "#/definitions/models.FuelType"}}
            }
        },
        "models.FuelCapacity": {
            "type": "object",
            "properties": {
                "fuel_code": {"type": "integer"},
                "fuel": {"type": "string"},
                "generation_mw": {"type": "number"}
            }
        },
        "models.FuelType": {
            "type": "object",
            "properties": {
                "fuel_code": {"type": "integer"},
                "fuel": {"type": "string"}
            }
        },
        "models.Metadata": {
            "type": "object",
            "properties": {
                "timestamp": {"type": "string"},
                "query_time_ms": {"type": "integer"},
                "cached": {"type": "boolean"},
                "count": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "type": "apiKey",
            "name": "x-api-key",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3857",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "PowerAtlas API",
	Description:      "Capacity and generation analytics for the world's power plants,\nwith map marker layers and a live filtered view over WebSocket.\n\n## Errors\n\nEvery response uses one JSON envelope. Validation failures answer 400,\nunknown facilities 404, and store outages 503 with details.retryable = true.\n\n## Authentication\n\nRead endpoints are open. PUT /facilities/{id} requires the x-api-key header\nand is disabled when no key is configured.\n\n## Rate Limiting\n\nDefault rate limit: 100 requests per minute per IP address.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
