// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

package models

import (
	"fmt"
	"strings"
)

// DefaultMicroThresholdMW is the capacity below which a facility is micro.
const DefaultMicroThresholdMW = 50.0

// FilterSpec is the request-scoped filter driving aggregations and the map.
// A nil Country or Fuel means "all".
type FilterSpec struct {
	Country      *string `json:"country"`
	Fuel         *int    `json:"fuel"`
	IncludeMicro bool    `json:"include_micro"`
}

// WithCountry returns a copy of f restricted to country (nil clears it).
func (f FilterSpec) WithCountry(country *string) FilterSpec {
	f.Country = cloneString(country)
	return f
}

// WithFuel returns a copy of f restricted to fuel (nil clears it).
func (f FilterSpec) WithFuel(fuel *int) FilterSpec {
	if fuel == nil {
		f.Fuel = nil
		return f
	}
	v := *fuel
	f.Fuel = &v
	return f
}

// WithIncludeMicro returns a copy of f with the micro flag set.
func (f FilterSpec) WithIncludeMicro(include bool) FilterSpec {
	f.IncludeMicro = include
	return f
}

// Equal reports whether two specs select the same facilities.
func (f FilterSpec) Equal(o FilterSpec) bool {
	return f.IncludeMicro == o.IncludeMicro &&
		equalPtr(f.Country, o.Country) &&
		equalPtr(f.Fuel, o.Fuel)
}

// String renders the spec for logs and cache keys.
func (f FilterSpec) String() string {
	var b strings.Builder
	b.WriteString("country=")
	if f.Country != nil {
		b.WriteString(*f.Country)
	} else {
		b.WriteString("*")
	}
	b.WriteString(" fuel=")
	if f.Fuel != nil {
		fmt.Fprintf(&b, "%d", *f.Fuel)
	} else {
		b.WriteString("*")
	}
	fmt.Fprintf(&b, " micro=%t", f.IncludeMicro)
	return b.String()
}

// IsMicro reports whether capacity falls below threshold. Nil counts as 0.
func IsMicro(capacity *float64, threshold float64) bool {
	if capacity == nil {
		return 0 < threshold
	}
	return *capacity < threshold
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
