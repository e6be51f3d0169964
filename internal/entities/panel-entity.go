package entities

import (
	"bms-select/pkg/types"
)

type Panel struct {
	ID        uint64 `json:"id" db:"id"`
	PanelName string `json:"panel_name" db:"panel_name"`
	Floor     string `json:"floor" db:"floor"`

	types.BaseEntity
}
