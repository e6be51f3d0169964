package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"bms-select/internal/dto"
	"bms-select/internal/entities"
	"bms-select/internal/repositories"
	apperrors "bms-select/pkg/errors"
)

type PointTemplateServiceInterface interface {
	FindPoint(ctx context.Context, id uint64) (*dto.PointTemplateDTO, error)
	CreatePoint(ctx context.Context, payload dto.CreatePointTemplateDTO) (*dto.PointTemplateDTO, error)
	UpdatePoint(ctx context.Context, id uint64, payload dto.UpdatePointTemplateDTO) (*dto.PointTemplateDTO, error)
	DeletePoint(ctx context.Context, id uint64) error
}

type PointTemplateService struct {
	pointRepo repositories.PointTemplateRepositoryInterface
	txManager repositories.TxManagerInterface
	cacheRepo repositories.CacheRepositoryInterface
	logger    *zap.Logger
}

func NewPointTemplateService(
	pointRepo repositories.PointTemplateRepositoryInterface,
	txManager repositories.TxManagerInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	logger *zap.Logger,
) PointTemplateServiceInterface {
	return &PointTemplateService{
		pointRepo: pointRepo,
		txManager: txManager,
		cacheRepo: cacheRepo,
		logger:    logger,
	}
}

func (s *PointTemplateService) FindPoint(ctx context.Context, id uint64) (*dto.PointTemplateDTO, error) {
	point, err := s.pointRepo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	result := mapPointTemplate(*point)
	return &result, nil
}

func (s *PointTemplateService) CreatePoint(ctx context.Context, payload dto.CreatePointTemplateDTO) (*dto.PointTemplateDTO, error) {
	var newID uint64
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.checkPointNameFree(ctx, tx, payload.Name, 0); err != nil {
			return err
		}

		id, err := s.pointRepo.Create(ctx, tx, entities.PointTemplate{
			Name:       payload.Name,
			PointType:  payload.PointType,
			PartNumber: payload.PartNumber.Ptr(),
		})
		if err != nil {
			return err
		}
		newID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateScheduleCache(ctx, s.cacheRepo, s.logger)
	s.logger.Info("point template created", zap.Uint64("pointID", newID), zap.String("name", payload.Name))
	return s.FindPoint(ctx, newID)
}

func (s *PointTemplateService) UpdatePoint(ctx context.Context, id uint64, payload dto.UpdatePointTemplateDTO) (*dto.PointTemplateDTO, error) {
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := s.pointRepo.FindByID(ctx, tx, id); err != nil {
			return err
		}
		if err := s.checkPointNameFree(ctx, tx, payload.Name, id); err != nil {
			return err
		}
		return s.pointRepo.Update(ctx, tx, id, entities.PointTemplate{
			Name:       payload.Name,
			PointType:  payload.PointType,
			PartNumber: payload.PartNumber.Ptr(),
		})
	})
	if err != nil {
		return nil, err
	}

	invalidateScheduleCache(ctx, s.cacheRepo, s.logger)
	return s.FindPoint(ctx, id)
}

// DeletePoint refuses to remove a point that an equipment template still
// lists; schedule selections of the point are removed by the cascade.
func (s *PointTemplateService) DeletePoint(ctx context.Context, id uint64) error {
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := s.pointRepo.FindByID(ctx, tx, id); err != nil {
			return err
		}

		refs, err := s.pointRepo.CountEquipmentTemplateRefs(ctx, tx, id)
		if err != nil {
			return err
		}
		if refs > 0 {
			return apperrors.NewHttpError(
				http.StatusConflict,
				"Point is currently used by an equipment template and cannot be deleted.",
				nil,
				map[string]interface{}{"pointID": id, "templateRefs": refs},
			)
		}

		return s.pointRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	invalidateScheduleCache(ctx, s.cacheRepo, s.logger)
	s.logger.Info("point template deleted", zap.Uint64("pointID", id))
	return nil
}

func (s *PointTemplateService) checkPointNameFree(ctx context.Context, tx pgx.Tx, name string, selfID uint64) error {
	existing, err := s.pointRepo.FindByName(ctx, tx, name)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID == selfID {
		return nil
	}
	return apperrors.NewHttpError(
		http.StatusConflict,
		fmt.Sprintf("A point named '%s' already exists.", name),
		nil,
		map[string]interface{}{"name": name},
	)
}
