package entities

import (
	"bms-select/pkg/types"
)

// Part is a row in the global parts catalog. Point templates reference
// catalog entries loosely through their part_number string; there is no
// foreign key on purpose, the catalog is reference data.
type Part struct {
	ID                  uint64   `json:"id" db:"id"`
	PartNumber          string   `json:"part_number" db:"part_number"`
	Description         string   `json:"description" db:"description"`
	Category            *string  `json:"category" db:"category"`
	Cost                *float64 `json:"cost" db:"cost"`
	CountryOfOrigin     *string  `json:"country_of_origin" db:"country_of_origin"`
	CableRecommendation *string  `json:"cable_recommendation" db:"cable_recommendation"`

	types.BaseEntity
}
