// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

package models

// Country is an ISO-3 keyed reference row.
type Country struct {
	Code string `json:"country_code"`
	Name string `json:"country_long"`
}

// FuelType is a fuel source reference row. Codes run 1..16.
type FuelType struct {
	Code int    `json:"fuel_code"`
	Name string `json:"fuel"`
}

// Facility is one power generation plant, as read from vw_facilities.
// FuelName and CountryName are filled from the reference tables and are nil
// when the corresponding code is nil or dangling.
type Facility struct {
	ID          string   `json:"gppd_idnr"`
	Name        string   `json:"name"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	CapacityMW  *float64 `json:"capacity_mw"`
	Owner       *string  `json:"owner"`
	FuelCode    *int     `json:"fuel_code"`
	FuelName    *string  `json:"fuel"`
	CountryCode *string  `json:"country_code"`
	CountryName *string  `json:"country_long"`
}

// Capacity returns the capacity in MW with null treated as 0.
func (f *Facility) Capacity() float64 {
	if f.CapacityMW == nil {
		return 0
	}
	return *f.CapacityMW
}

// DataCenter is a read-only reference point drawn alongside facilities.
type DataCenter struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Project         *string  `json:"project"`
	Address         *string  `json:"address"`
	Latitude        float64  `json:"latitude"`
	Longitude       float64  `json:"longitude"`
	Owner           *string  `json:"owner"`
	Users           *string  `json:"users"`
	CapacityMW      *float64 `json:"capacity_mw"`
	H100Equivalents *float64 `json:"h100_equivalents"`
	CapexBn         *float64 `json:"capex_bn"`
}

// GenerationRecord is the annual generation of one facility.
type GenerationRecord struct {
	FacilityID    string   `json:"gppd_idnr"`
	Year          int      `json:"year"`
	GenerationGWh *float64 `json:"generation_gwh"`
}

// FacilityUpdate is the payload of a facility update.
//
// Required fields are pointers so that an omitted field can be told apart
// from an explicit zero. Optional fields left nil keep their stored value.
type FacilityUpdate struct {
	ID          string   `json:"gppd_idnr" validate:"required,notblank,max=64"`
	Name        string   `json:"name" validate:"required,notblank,max=255"`
	CapacityMW  *float64 `json:"capacity_mw" validate:"required,gte=0"`
	Latitude    *float64 `json:"latitude" validate:"required,latitude"`
	Longitude   *float64 `json:"longitude" validate:"required,longitude"`
	CountryCode *string  `json:"country_code,omitempty" validate:"omitempty,countrycode"`
	FuelCode    *int     `json:"fuel_code,omitempty" validate:"omitempty,fuelcode"`
	Owner       *string  `json:"owner,omitempty" validate:"omitempty,max=255"`
}
