package entities

import (
	"bms-select/pkg/types"
)

// ScheduledEquipment is one equipment instance placed on a panel, carrying
// the subset of point template ids the engineer selected for it.
type ScheduledEquipment struct {
	ID                  uint64 `json:"id" db:"id"`
	InstanceName        string `json:"instance_name" db:"instance_name"`
	Quantity            int    `json:"quantity" db:"quantity"`
	PanelID             uint64 `json:"panel_id" db:"panel_id"`
	EquipmentTemplateID uint64 `json:"equipment_template_id" db:"equipment_template_id"`

	PanelName string `json:"panel_name" db:"panel_name"`
	TypeKey   string `json:"type_key" db:"type_key"`

	SelectedPoints []uint64 `json:"selected_points"`

	types.BaseEntity
}
