// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

package query

import "strings"

// SetBuilder builds the SET list of an UPDATE statement.
type SetBuilder struct {
	columns []string
	args    []interface{}
}

// NewSetBuilder creates an empty SetBuilder.
func NewSetBuilder() *SetBuilder {
	return &SetBuilder{}
}

// Set assigns value to column.
func (sb *SetBuilder) Set(column string, value interface{}) *SetBuilder {
	sb.columns = append(sb.columns, column+" = ?")
	sb.args = append(sb.args, value)
	return sb
}

// SetIfPresent assigns *value when value is non-nil.
func SetIfPresent[T any](sb *SetBuilder, column string, value *T) *SetBuilder {
	if value != nil {
		sb.Set(column, *value)
	}
	return sb
}

// Build returns "a = ?, b = ?" and the bound values.
func (sb *SetBuilder) Build() (string, []interface{}) {
	return strings.Join(sb.columns, ", "), sb.args
}

// Len returns the number of assignments.
func (sb *SetBuilder) Len() int {
	return len(sb.columns)
}
