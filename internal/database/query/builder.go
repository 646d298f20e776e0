// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

package query

import (
	"fmt"
	"strings"

	"github.com/tomtom215/poweratlas/internal/models"
)

// Field is a facility column a predicate may reference.
type Field string

// Filterable facility columns.
const (
	FieldID          Field = "gppd_idnr"
	FieldCountryCode Field = "country_code"
	FieldFuelCode    Field = "fuel_code"
	FieldCapacityMW  Field = "capacity_mw"
)

// Op is a comparison operator.
type Op string

// Supported comparisons.
const (
	OpEq  Op = "="
	OpGte Op = ">="
	OpIn  Op = "IN"
)

// Predicate is one filter condition.
type Predicate struct {
	Field Field
	Op    Op
	Value interface{}

	// NullAsZero compares COALESCE(field, 0) instead of the raw column.
	NullAsZero bool
}

// Eq returns field = value.
func Eq(field Field, value interface{}) Predicate {
	return Predicate{Field: field, Op: OpEq, Value: value}
}

// Gte returns field >= value.
func Gte(field Field, value interface{}) Predicate {
	return Predicate{Field: field, Op: OpGte, Value: value}
}

// In returns field IN (values...). Value holds the slice.
func In(field Field, values []string) Predicate {
	return Predicate{Field: field, Op: OpIn, Value: values}
}

// sql renders the predicate with the column qualified by alias (may be empty).
func (p Predicate) sql(alias string) (string, []interface{}) {
	col := string(p.Field)
	if alias != "" {
		col = alias + "." + col
	}
	if p.NullAsZero {
		col = "COALESCE(" + col + ", 0)"
	}

	if p.Op == OpIn {
		values, _ := p.Value.([]string)
		if len(values) == 0 {
			return "1=0", nil
		}
		placeholders := make([]string, len(values))
		args := make([]interface{}, len(values))
		for i, v := range values {
			placeholders[i] = "?"
			args[i] = v
		}
		return fmt.Sprintf("%s IN (%s)", col, strings.Join(placeholders, ", ")), args
	}
	return fmt.Sprintf("%s %s ?", col, p.Op), []interface{}{p.Value}
}

// WhereBuilder accumulates predicates combined with AND.
type WhereBuilder struct {
	predicates []Predicate
}

// NewWhereBuilder creates an empty builder.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{}
}

// Add appends predicates.
func (wb *WhereBuilder) Add(predicates ...Predicate) *WhereBuilder {
	wb.predicates = append(wb.predicates, predicates...)
	return wb
}

// ForFilter translates a FilterSpec into its predicate list.
// Country and fuel become equality predicates when set. Unless micro
// facilities are included, capacity (null as zero) must reach threshold.
func ForFilter(spec models.FilterSpec, microThreshold float64) *WhereBuilder {
	wb := NewWhereBuilder()
	if spec.Country != nil {
		wb.Add(Eq(FieldCountryCode, *spec.Country))
	}
	if spec.Fuel != nil {
		wb.Add(Eq(FieldFuelCode, *spec.Fuel))
	}
	if !spec.IncludeMicro {
		p := Gte(FieldCapacityMW, microThreshold)
		p.NullAsZero = true
		wb.Add(p)
	}
	return wb
}

// Predicates returns a copy of the accumulated predicates.
func (wb *WhereBuilder) Predicates() []Predicate {
	out := make([]Predicate, len(wb.predicates))
	copy(out, wb.predicates)
	return out
}

// Build returns the AND-joined clause and its arguments, or "1=1" when empty.
func (wb *WhereBuilder) Build() (string, []interface{}) {
	return wb.BuildQualified("")
}

// BuildQualified is Build with every column prefixed by alias.
func (wb *WhereBuilder) BuildQualified(alias string) (string, []interface{}) {
	if len(wb.predicates) == 0 {
		return "1=1", []interface{}{}
	}
	clauses := make([]string, 0, len(wb.predicates))
	args := make([]interface{}, 0, len(wb.predicates))
	for _, p := range wb.predicates {
		clause, pargs := p.sql(alias)
		clauses = append(clauses, clause)
		args = append(args, pargs...)
	}
	return strings.Join(clauses, " AND "), args
}

// IsEmpty reports whether no predicate was added.
func (wb *WhereBuilder) IsEmpty() bool {
	return len(wb.predicates) == 0
}
