// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/poweratlas/internal/database"
	"github.com/tomtom215/poweratlas/internal/logging"
	"github.com/tomtom215/poweratlas/internal/markers"
	"github.com/tomtom215/poweratlas/internal/models"
	"github.com/tomtom215/poweratlas/internal/validation"
)

// Error codes.
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeNotFound        = "NOT_FOUND"
	CodeStoreError      = "STORE_ERROR"
	CodeInternal        = "INTERNAL_ERROR"
	CodeUnavailable     = "SERVICE_UNAVAILABLE"
)

const defaultMapZoom = 2

// sanitizeLogValue escapes control characters so request input cannot forge
// log lines.
func sanitizeLogValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// respondJSON sends a JSON response with proper headers
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if status == http.StatusOK {
		w.Header().Set("ETag", generateETag(data))
	}
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag hashes data with FNV-1a.
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return `"` + strconv.FormatUint(uint64(hash), 16) + `"`
}

// respondData wraps data in a success envelope. count is set for slices.
func respondData(w http.ResponseWriter, start time.Time, data interface{}, count int) {
	meta := models.Metadata{
		Timestamp:   time.Now(),
		QueryTimeMS: time.Since(start).Milliseconds(),
	}
	if count >= 0 {
		meta.Count = &count
	}
	respondJSON(w, http.StatusOK, &models.APIResponse{Status: "success", Data: data, Metadata: meta})
}

// respondError sends an error envelope.
func respondError(w http.ResponseWriter, status int, apiErr *models.APIError) {
	respondJSON(w, status, &models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now()},
		Error:    apiErr,
	})
}

// respondErr maps err to a status code and error envelope.
func respondErr(w http.ResponseWriter, r *http.Request, err error) {
	status, apiErr := classifyError(err)

	event := logging.Ctx(r.Context()).Warn()
	if status >= 500 {
		event = logging.Ctx(r.Context()).Error()
	}
	event.
		Str("code", apiErr.Code).
		Str("path", r.URL.Path).
		Str("error", sanitizeLogValue(err.Error())).
		Msg("API error")

	respondError(w, status, apiErr)
}

func classifyError(err error) (int, *models.APIError) {
	if ve, ok := validation.AsValidationError(err); ok {
		v := ve.ToAPIError()
		return http.StatusBadRequest, &models.APIError{Code: v.Code, Message: v.Message, Details: v.Details}
	}

	var storeErr *database.StoreError
	switch {
	case errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound, &models.APIError{Code: CodeNotFound, Message: err.Error()}
	case errors.Is(err, database.ErrInvalidArgument):
		return http.StatusBadRequest, &models.APIError{Code: CodeInvalidArgument, Message: err.Error()}
	case errors.As(err, &storeErr):
		return http.StatusServiceUnavailable, &models.APIError{
			Code:    CodeStoreError,
			Message: "The facility store is temporarily unavailable",
			Details: map[string]interface{}{
				"retryable": true,
				"operation": storeErr.Op,
			},
		}
	default:
		return http.StatusInternalServerError, &models.APIError{Code: CodeInternal, Message: "Internal server error"}
	}
}

// queryParams accumulates field errors while parsing query strings.
type queryParams struct {
	values url.Values
	errs   []*validation.RequestValidationError
}

func newQueryParams(r *http.Request) *queryParams {
	return &queryParams{values: r.URL.Query()}
}

// country returns a trimmed, upper-cased ISO-3 code, or nil when absent.
func (q *queryParams) country(key string) *string {
	raw := strings.ToUpper(strings.TrimSpace(q.values.Get(key)))
	if raw == "" {
		return nil
	}
	if verr := validation.GetValidator().Var(raw, "countrycode"); verr != nil {
		q.fail(key, "countrycode", raw, key+" must be a three-letter country code")
		return nil
	}
	return &raw
}

// fuel returns a catalog fuel code, or nil when absent.
func (q *queryParams) fuel(key string) *int {
	raw := strings.TrimSpace(q.values.Get(key))
	if raw == "" {
		return nil
	}
	code, err := strconv.Atoi(raw)
	if err != nil {
		q.fail(key, "int", raw, key+" must be an integer")
		return nil
	}
	if verr := validation.GetValidator().Var(code, "fuelcode"); verr != nil {
		q.fail(key, "fuelcode", code, key+" must be a known fuel code (1-16)")
		return nil
	}
	return &code
}

// boolean accepts exactly "true" or "false"; absent means def.
func (q *queryParams) boolean(key string, def bool) bool {
	switch raw := strings.TrimSpace(q.values.Get(key)); raw {
	case "":
		return def
	case "true":
		return true
	case "false":
		return false
	default:
		q.fail(key, "boolean", raw, key+" must be true or false")
		return def
	}
}

// zoom returns an integer in [markers.MinZoom, markers.MaxZoom].
func (q *queryParams) zoom(key string, def int) int {
	raw := strings.TrimSpace(q.values.Get(key))
	if raw == "" {
		return def
	}
	z, err := strconv.Atoi(raw)
	if err != nil || z < markers.MinZoom || z > markers.MaxZoom {
		q.fail(key, "zoom", raw, fmt.Sprintf("%s must be an integer between %d and %d", key, markers.MinZoom, markers.MaxZoom))
		return def
	}
	return z
}

// list splits a comma-separated value and drops empty entries.
func (q *queryParams) list(key string) []string {
	var out []string
	for _, part := range strings.Split(q.values.Get(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// filterSpec parses the shared country, fuel and includeMicro parameters.
func (q *queryParams) filterSpec() models.FilterSpec {
	return models.FilterSpec{
		Country:      q.country("country"),
		Fuel:         q.fuel("fuel"),
		IncludeMicro: q.boolean("includeMicro", false),
	}
}

func (q *queryParams) fail(field, tag string, value interface{}, message string) {
	q.errs = append(q.errs, validation.NewFieldError(field, tag, value, message))
}

// err merges every recorded failure into one validation error.
func (q *queryParams) err() error {
	if len(q.errs) == 0 {
		return nil
	}
	return validation.Merge(q.errs...)
}
