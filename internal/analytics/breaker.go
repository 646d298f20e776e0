// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

package analytics

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/poweratlas/internal/database"
	"github.com/tomtom215/poweratlas/internal/logging"
	"github.com/tomtom215/poweratlas/internal/metrics"
	"github.com/tomtom215/poweratlas/internal/validation"
)

// StoreBreaker guards store calls with a consecutive-failure circuit breaker.
// Only store faults count as failures: not found, invalid arguments,
// validation failures and caller cancellation pass through untouched.
type StoreBreaker struct {
	name string
	cb   *gobreaker.CircuitBreaker[interface{}]
}

// NewStoreBreaker creates a breaker that opens after maxFailures consecutive
// store faults and probes again after timeout.
func NewStoreBreaker(name string, maxFailures uint32, timeout time.Duration) *StoreBreaker {
	if maxFailures == 0 {
		maxFailures = 5
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			trip := counts.ConsecutiveFailures >= maxFailures
			if trip {
				logging.Warn().
					Str("breaker", name).
					Uint32("consecutive_failures", counts.ConsecutiveFailures).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return trip
		},
		IsSuccessful: isCallerError,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", stateToString(from)).
				Str("to", stateToString(to)).
				Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, stateToString(from), stateToString(to)).Inc()
		},
	})

	return &StoreBreaker{name: name, cb: cb}
}

// isCallerError reports whether err should not count against the store.
func isCallerError(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, database.ErrNotFound) ||
		errors.Is(err, database.ErrInvalidArgument) ||
		errors.Is(err, context.Canceled) {
		return true
	}
	_, isValidation := validation.AsValidationError(err)
	return isValidation
}

// State returns the current breaker state name.
func (b *StoreBreaker) State() string {
	return stateToString(b.cb.State())
}

// Execute runs fn through the breaker. When the breaker rejects the call the
// error is a *database.StoreError wrapping gobreaker.ErrOpenState or
// gobreaker.ErrTooManyRequests. Any other store fault that is not already a
// StoreError is wrapped as one under op.
func Execute[T any](b *StoreBreaker, op string, fn func() (T, error)) (T, error) {
	var zero T
	result, err := b.cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, &database.StoreError{Op: op, Err: err}
		}
		if !isCallerError(err) && !database.IsStoreError(err) {
			return zero, &database.StoreError{Op: op, Err: err}
		}
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, nil
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
