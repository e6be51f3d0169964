package entities

import (
	"bms-select/pkg/types"
)

type PointTemplate struct {
	ID         uint64  `json:"id" db:"id"`
	Name       string  `json:"name" db:"name"`
	PointType  string  `json:"point_type" db:"point_type"`
	PartNumber *string `json:"part_number" db:"part_number"`

	types.BaseEntity
}
