package services

import (
	"context"

	"go.uber.org/zap"

	"bms-select/internal/dto"
	"bms-select/internal/entities"
	"bms-select/internal/repositories"
	"bms-select/pkg/types"

	"github.com/aarondl/null/v8"
)

type PartServiceInterface interface {
	GetParts(ctx context.Context, filter types.Filter) ([]dto.PartDTO, uint64, error)
	FindPart(ctx context.Context, id uint64) (*dto.PartDTO, error)
}

type PartService struct {
	partRepo repositories.PartRepositoryInterface
	logger   *zap.Logger
}

func NewPartService(partRepo repositories.PartRepositoryInterface, logger *zap.Logger) PartServiceInterface {
	return &PartService{partRepo: partRepo, logger: logger}
}

func (s *PartService) GetParts(ctx context.Context, filter types.Filter) ([]dto.PartDTO, uint64, error) {
	parts, total, err := s.partRepo.GetParts(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	result := make([]dto.PartDTO, 0, len(parts))
	for _, part := range parts {
		result = append(result, mapPart(part))
	}
	return result, total, nil
}

func (s *PartService) FindPart(ctx context.Context, id uint64) (*dto.PartDTO, error) {
	part, err := s.partRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := mapPart(*part)
	return &result, nil
}

func mapPart(part entities.Part) dto.PartDTO {
	return dto.PartDTO{
		ID:                  part.ID,
		PartNumber:          part.PartNumber,
		Description:         part.Description,
		Category:            null.StringFromPtr(part.Category),
		Cost:                null.Float64FromPtr(part.Cost),
		CountryOfOrigin:     null.StringFromPtr(part.CountryOfOrigin),
		CableRecommendation: null.StringFromPtr(part.CableRecommendation),
	}
}
