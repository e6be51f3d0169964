package dto

// ScheduleDataDTO is the bulk snapshot the page loads on boot. The contract
// is exactly these four collections, present even when empty: panels and
// scheduledEquipment as arrays, pointTemplates keyed by id, equipmentTemplates
// keyed by type key.
type ScheduleDataDTO struct {
	Panels             []PanelDTO                      `json:"panels"`
	ScheduledEquipment []ScheduledEquipmentDTO         `json:"scheduledEquipment"`
	PointTemplates     map[uint64]PointTemplateDTO     `json:"pointTemplates"`
	EquipmentTemplates map[string]EquipmentTemplateDTO `json:"equipmentTemplates"`
}

// PointSummaryDTO maps a point type code to the total point count a panel
// needs: per selected point, template quantity times instance quantity.
type PointSummaryDTO map[string]int
