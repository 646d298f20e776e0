// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

package query

import (
	"testing"

	"github.com/tomtom215/poweratlas/internal/models"
)

func TestWhereBuilder_Empty(t *testing.T) {
	wb := NewWhereBuilder()

	if !wb.IsEmpty() {
		t.Error("Expected new builder to be empty")
	}
	whereClause, args := wb.Build()
	if whereClause != "1=1" {
		t.Errorf("Expected '1=1' for empty builder, got %q", whereClause)
	}
	if len(args) != 0 {
		t.Errorf("Expected 0 args, got %d", len(args))
	}
}

func TestForFilter_Predicates(t *testing.T) {
	country := "USA"
	fuel := 3

	tests := []struct {
		name   string
		spec   models.FilterSpec
		fields []Field
	}{
		{"all null excludes micro", models.FilterSpec{}, []Field{FieldCapacityMW}},
		{"all null includes micro", models.FilterSpec{IncludeMicro: true}, nil},
		{"country only", models.FilterSpec{Country: &country, IncludeMicro: true}, []Field{FieldCountryCode}},
		{"everything", models.FilterSpec{Country: &country, Fuel: &fuel}, []Field{FieldCountryCode, FieldFuelCode, FieldCapacityMW}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			preds := ForFilter(tt.spec, 50).Predicates()
			if len(preds) != len(tt.fields) {
				t.Fatalf("Expected %d predicates, got %d (%+v)", len(tt.fields), len(preds), preds)
			}
			for i, f := range tt.fields {
				if preds[i].Field != f {
					t.Errorf("predicate %d: Expected field %q, got %q", i, f, preds[i].Field)
				}
			}
		})
	}
}

func TestForFilter_MicroThresholdIsInclusive(t *testing.T) {
	preds := ForFilter(models.FilterSpec{}, 50).Predicates()
	if len(preds) != 1 {
		t.Fatalf("Expected 1 predicate, got %d", len(preds))
	}
	p := preds[0]
	if p.Op != OpGte || p.Value != 50.0 || !p.NullAsZero {
		t.Errorf("Expected COALESCE(capacity) >= 50, got %+v", p)
	}
}

func TestWhereBuilder_BuildQualified(t *testing.T) {
	country := "USA"
	fuel := 3
	wb := ForFilter(models.FilterSpec{Country: &country, Fuel: &fuel}, 50)

	whereClause, args := wb.BuildQualified("f")
	expected := "f.country_code = ? AND f.fuel_code = ? AND COALESCE(f.capacity_mw, 0) >= ?"
	if whereClause != expected {
		t.Errorf("Expected %q, got %q", expected, whereClause)
	}
	if len(args) != 3 || args[0] != "USA" || args[1] != 3 || args[2] != 50.0 {
		t.Errorf("unexpected args %v", args)
	}

	unqualified, _ := wb.Build()
	if unqualified != "country_code = ? AND fuel_code = ? AND COALESCE(capacity_mw, 0) >= ?" {
		t.Errorf("unexpected unqualified clause %q", unqualified)
	}
}

func TestWhereBuilder_In(t *testing.T) {
	wb := NewWhereBuilder().Add(In(FieldCountryCode, []string{"USA", "CAN"}))
	whereClause, args := wb.Build()
	if whereClause != "country_code IN (?, ?)" {
		t.Errorf("Expected IN clause, got %q", whereClause)
	}
	if len(args) != 2 || args[1] != "CAN" {
		t.Errorf("unexpected args %v", args)
	}

	empty, emptyArgs := NewWhereBuilder().Add(In(FieldCountryCode, nil)).Build()
	if empty != "1=0" || len(emptyArgs) != 0 {
		t.Errorf("empty IN should match nothing, got %q %v", empty, emptyArgs)
	}
}

func TestPredicatesReturnsCopy(t *testing.T) {
	wb := NewWhereBuilder().Add(Eq(FieldID, "A"))
	preds := wb.Predicates()
	preds[0].Value = "B"
	if wb.Predicates()[0].Value != "A" {
		t.Error("Predicates() must not expose internal state")
	}
}

func TestSetBuilder(t *testing.T) {
	owner := "Utility Co"
	var fuel *int

	sb := NewSetBuilder().Set("name", "Plant").Set("capacity_mw", 200.0)
	SetIfPresent(sb, "owner", &owner)
	SetIfPresent(sb, "fuel_code", fuel)

	clause, args := sb.Build()
	if clause != "name = ?, capacity_mw = ?, owner = ?" {
		t.Errorf("unexpected SET clause %q", clause)
	}
	if sb.Len() != 3 || len(args) != 3 || args[2] != "Utility Co" {
		t.Errorf("unexpected args %v", args)
	}
}
