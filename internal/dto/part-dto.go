package dto

import "github.com/aarondl/null/v8"

type PartDTO struct {
	ID                  uint64       `json:"id"`
	PartNumber          string       `json:"part_number"`
	Description         string       `json:"description"`
	Category            null.String  `json:"category"`
	Cost                null.Float64 `json:"cost"`
	CountryOfOrigin     null.String  `json:"country_of_origin"`
	CableRecommendation null.String  `json:"cable_recommendation"`
}

// PartImportReportDTO summarizes a catalog import: how many rows were
// created, how many skipped (already present or unusable), and the per-row
// problems worth showing the operator.
type PartImportReportDTO struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	DryRun  bool     `json:"dry_run"`
	Errors  []string `json:"errors"`
}
