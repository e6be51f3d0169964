package dto

// TemplatePointDTO is one entry of a template's point list: the point
// template id plus how many of that point one unit of equipment carries.
type TemplatePointDTO struct {
	ID       uint64 `json:"id" validate:"required,gt=0"`
	Quantity int    `json:"quantity" validate:"omitempty,gte=1"`
}

// EquipmentTemplateDTO deliberately omits the type key from the body: the
// client always receives templates wrapped in an object keyed by type key.
type EquipmentTemplateDTO struct {
	ID     uint64             `json:"id"`
	Name   string             `json:"name"`
	Points []TemplatePointDTO `json:"points"`
}

type CreateEquipmentTemplateDTO struct {
	TypeKey string             `json:"typeKey" validate:"required,type_key,max=50"`
	Name    string             `json:"name" validate:"required,max=120"`
	Points  []TemplatePointDTO `json:"points" validate:"required,dive"`
}

// UpdateEquipmentTemplateDTO carries the type key so a client can rename it
// explicitly; the handler rejects the change with a conflict when the new
// key is already taken.
type UpdateEquipmentTemplateDTO struct {
	TypeKey string             `json:"typeKey" validate:"required,type_key,max=50"`
	Name    string             `json:"name" validate:"required,max=120"`
	Points  []TemplatePointDTO `json:"points" validate:"required,dive"`
}
