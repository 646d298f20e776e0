// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

// Package query builds parameterized SQL fragments for the database package.
//
// Filters are an explicit list of Predicate values, each naming a known
// facility column and a comparison. The list is combined with AND:
//
//	wb := query.ForFilter(spec, 50)
//	where, args := wb.BuildQualified("f")
//	// f.country_code = ? AND f.fuel_code = ? AND COALESCE(f.capacity_mw, 0) >= ?
//
// Because predicates are plain values, a filter's predicate set can be
// inspected and tested without a database. Column names come from a fixed
// whitelist and values are always bound as arguments, never interpolated.
//
// SetBuilder does the same for the SET list of an UPDATE statement.
package query
