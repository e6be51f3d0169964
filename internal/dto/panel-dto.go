package dto

// PanelDTO is the wire shape the embedded page consumes; field names are
// part of the client contract.
type PanelDTO struct {
	ID        uint64 `json:"id"`
	PanelName string `json:"panelName"`
	Floor     string `json:"floor"`
}

type CreatePanelDTO struct {
	PanelName string `json:"panelName" validate:"required,max=80"`
	Floor     string `json:"floor" validate:"required,max=80"`
}

type UpdatePanelDTO struct {
	PanelName string `json:"panelName" validate:"required,max=80"`
	Floor     string `json:"floor" validate:"required,max=80"`
}

// ScheduleExportRowDTO is one scheduled instance prepared for the XLSX
// export, selected points already resolved to their display names.
type ScheduleExportRowDTO struct {
	InstanceName string   `json:"instanceName"`
	TypeKey      string   `json:"type"`
	TemplateName string   `json:"templateName"`
	Quantity     int      `json:"quantity"`
	PointNames   []string `json:"pointNames"`
}

type PanelScheduleExportDTO struct {
	Panel   PanelDTO               `json:"panel"`
	Rows    []ScheduleExportRowDTO `json:"rows"`
	Summary PointSummaryDTO        `json:"summary"`
}
