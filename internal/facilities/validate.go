// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

package facilities

import (
	"github.com/tomtom215/poweratlas/internal/models"
	"github.com/tomtom215/poweratlas/internal/validation"
)

// Result is the outcome of validating an update. The zero value is OK.
type Result struct {
	failure *validation.RequestValidationError
}

// OK reports whether the update passed every rule.
func (r Result) OK() bool {
	return r.failure == nil
}

// Errors returns the field failures, or nil when OK.
func (r Result) Errors() []validation.ValidationError {
	if r.failure == nil {
		return nil
	}
	return r.failure.Errors()
}

// Err returns the failures as an error, or nil when OK.
func (r Result) Err() error {
	if r.failure == nil {
		return nil
	}
	return r.failure
}

// Validate checks u against the field rules of models.FacilityUpdate.
// Expected failures are reported in the Result, never as a panic.
func Validate(u *models.FacilityUpdate) Result {
	if u == nil {
		return Result{failure: validation.NewFieldError("body", "required", nil, "body is required")}
	}
	return Result{failure: validation.ValidateStruct(u)}
}
