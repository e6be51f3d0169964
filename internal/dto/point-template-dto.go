package dto

import "github.com/aarondl/null/v8"

// PointTemplateDTO keeps the original snake_case field names; the page keys
// its point library by these.
type PointTemplateDTO struct {
	ID         uint64      `json:"id"`
	Name       string      `json:"name"`
	PointType  string      `json:"point_type"`
	PartNumber null.String `json:"part_number"`
}

type CreatePointTemplateDTO struct {
	Name       string      `json:"name" validate:"required,max=120"`
	PointType  string      `json:"point_type" validate:"required,point_type"`
	PartNumber null.String `json:"part_number" validate:"omitempty,part_number,max=100"`
}

type UpdatePointTemplateDTO struct {
	Name       string      `json:"name" validate:"required,max=120"`
	PointType  string      `json:"point_type" validate:"required,point_type"`
	PartNumber null.String `json:"part_number" validate:"omitempty,part_number,max=100"`
}
