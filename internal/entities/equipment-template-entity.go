package entities

import (
	"bms-select/pkg/types"
)

// EquipmentTemplate is the reusable equipment definition. TypeKey is the
// stable client-facing identifier; the embedded page addresses templates by
// it, so it only ever changes through an explicit, conflict-checked update.
type EquipmentTemplate struct {
	ID      uint64 `json:"id" db:"id"`
	TypeKey string `json:"type_key" db:"type_key"`
	Name    string `json:"name" db:"name"`

	Points []EquipmentTemplatePoint `json:"points"`

	types.BaseEntity
}

// EquipmentTemplatePoint links a template to one of its available points
// with the per-unit count of that point.
type EquipmentTemplatePoint struct {
	PointTemplateID uint64 `json:"point_template_id" db:"point_template_id"`
	Quantity        int    `json:"quantity" db:"quantity"`
}
