package dto

// ScheduledEquipmentDTO mirrors what the schedule table on the page renders:
// the instance plus its panel name and the template's type key.
type ScheduledEquipmentDTO struct {
	ID             uint64   `json:"id"`
	PanelName      string   `json:"panelName"`
	InstanceName   string   `json:"instanceName"`
	Quantity       int      `json:"quantity"`
	Type           string   `json:"type"`
	SelectedPoints []uint64 `json:"selectedPoints"`
}

// CreateScheduledEquipmentDTO carries the panel by name. Floor is only
// consulted when the named panel does not exist yet and has to be created.
type CreateScheduledEquipmentDTO struct {
	PanelName      string   `json:"panelName" validate:"required,max=80"`
	Floor          string   `json:"floor" validate:"omitempty,max=80"`
	Type           string   `json:"type" validate:"required,type_key"`
	InstanceName   string   `json:"instanceName" validate:"required,max=120"`
	Quantity       int      `json:"quantity" validate:"omitempty,gte=1"`
	SelectedPoints []uint64 `json:"selectedPoints"`
}

type UpdateScheduledEquipmentDTO struct {
	PanelName      string   `json:"panelName" validate:"required,max=80"`
	Floor          string   `json:"floor" validate:"omitempty,max=80"`
	Type           string   `json:"type" validate:"required,type_key"`
	InstanceName   string   `json:"instanceName" validate:"required,max=120"`
	Quantity       int      `json:"quantity" validate:"omitempty,gte=1"`
	SelectedPoints []uint64 `json:"selectedPoints"`
}
