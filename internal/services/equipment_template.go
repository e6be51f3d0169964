package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"bms-select/internal/dto"
	"bms-select/internal/entities"
	"bms-select/internal/repositories"
	apperrors "bms-select/pkg/errors"
)

type EquipmentTemplateServiceInterface interface {
	CreateTemplate(ctx context.Context, payload dto.CreateEquipmentTemplateDTO) (map[string]dto.EquipmentTemplateDTO, error)
	UpdateTemplate(ctx context.Context, typeKey string, payload dto.UpdateEquipmentTemplateDTO) (map[string]dto.EquipmentTemplateDTO, error)
	DeleteTemplate(ctx context.Context, typeKey string) error
	ReplicateTemplate(ctx context.Context, typeKey string) (map[string]dto.EquipmentTemplateDTO, error)
}

type EquipmentTemplateService struct {
	templateRepo  repositories.EquipmentTemplateRepositoryInterface
	pointRepo     repositories.PointTemplateRepositoryInterface
	equipmentRepo repositories.ScheduledEquipmentRepositoryInterface
	txManager     repositories.TxManagerInterface
	cacheRepo     repositories.CacheRepositoryInterface
	logger        *zap.Logger
}

func NewEquipmentTemplateService(
	templateRepo repositories.EquipmentTemplateRepositoryInterface,
	pointRepo repositories.PointTemplateRepositoryInterface,
	equipmentRepo repositories.ScheduledEquipmentRepositoryInterface,
	txManager repositories.TxManagerInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	logger *zap.Logger,
) EquipmentTemplateServiceInterface {
	return &EquipmentTemplateService{
		templateRepo:  templateRepo,
		pointRepo:     pointRepo,
		equipmentRepo: equipmentRepo,
		txManager:     txManager,
		cacheRepo:     cacheRepo,
		logger:        logger,
	}
}

func (s *EquipmentTemplateService) CreateTemplate(ctx context.Context, payload dto.CreateEquipmentTemplateDTO) (map[string]dto.EquipmentTemplateDTO, error) {
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.checkTypeKeyFree(ctx, tx, payload.TypeKey); err != nil {
			return err
		}

		points, err := s.resolveTemplatePoints(ctx, tx, payload.Points)
		if err != nil {
			return err
		}

		id, err := s.templateRepo.Create(ctx, tx, entities.EquipmentTemplate{
			TypeKey: payload.TypeKey,
			Name:    payload.Name,
		})
		if err != nil {
			return err
		}
		return s.templateRepo.ReplacePoints(ctx, tx, id, points)
	})
	if err != nil {
		return nil, err
	}

	invalidateScheduleCache(ctx, s.cacheRepo, s.logger)
	s.logger.Info("equipment template created", zap.String("typeKey", payload.TypeKey))
	return s.wrapTemplate(ctx, payload.TypeKey)
}

func (s *EquipmentTemplateService) UpdateTemplate(ctx context.Context, typeKey string, payload dto.UpdateEquipmentTemplateDTO) (map[string]dto.EquipmentTemplateDTO, error) {
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		template, err := s.templateRepo.FindByTypeKey(ctx, tx, typeKey)
		if err != nil {
			return err
		}

		// Renames are allowed but never silent: the new key must be free.
		if payload.TypeKey != typeKey {
			if err := s.checkTypeKeyFree(ctx, tx, payload.TypeKey); err != nil {
				return err
			}
		}

		points, err := s.resolveTemplatePoints(ctx, tx, payload.Points)
		if err != nil {
			return err
		}

		if err := s.templateRepo.Update(ctx, tx, template.ID, entities.EquipmentTemplate{
			TypeKey: payload.TypeKey,
			Name:    payload.Name,
		}); err != nil {
			return err
		}
		return s.templateRepo.ReplacePoints(ctx, tx, template.ID, points)
	})
	if err != nil {
		return nil, err
	}

	invalidateScheduleCache(ctx, s.cacheRepo, s.logger)
	if payload.TypeKey != typeKey {
		s.logger.Info("equipment template renamed",
			zap.String("oldTypeKey", typeKey), zap.String("newTypeKey", payload.TypeKey))
	}
	return s.wrapTemplate(ctx, payload.TypeKey)
}

// DeleteTemplate rejects the delete while scheduled equipment still points
// at the template; its own point rows cascade away with it.
func (s *EquipmentTemplateService) DeleteTemplate(ctx context.Context, typeKey string) error {
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		template, err := s.templateRepo.FindByTypeKey(ctx, tx, typeKey)
		if err != nil {
			return err
		}

		refs, err := s.equipmentRepo.CountByTemplate(ctx, tx, template.ID)
		if err != nil {
			return err
		}
		if refs > 0 {
			return apperrors.NewHttpError(
				http.StatusConflict,
				"Equipment template is currently used by scheduled equipment and cannot be deleted.",
				nil,
				map[string]interface{}{"typeKey": typeKey, "scheduleRefs": refs},
			)
		}

		return s.templateRepo.Delete(ctx, tx, template.ID)
	})
	if err != nil {
		return err
	}

	invalidateScheduleCache(ctx, s.cacheRepo, s.logger)
	s.logger.Info("equipment template deleted", zap.String("typeKey", typeKey))
	return nil
}

// ReplicateTemplate copies the template under the first free <key>_copy<i>
// suffix, naming the copy "<name> (Copy <i>)" with the same suffix number.
func (s *EquipmentTemplateService) ReplicateTemplate(ctx context.Context, typeKey string) (map[string]dto.EquipmentTemplateDTO, error) {
	var newKey string
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		original, err := s.templateRepo.FindByTypeKey(ctx, tx, typeKey)
		if err != nil {
			return err
		}

		copyNumber := 1
		for {
			candidate := fmt.Sprintf("%s_copy%d", original.TypeKey, copyNumber)
			exists, err := s.templateRepo.ExistsByTypeKey(ctx, tx, candidate)
			if err != nil {
				return err
			}
			if !exists {
				newKey = candidate
				break
			}
			copyNumber++
		}

		id, err := s.templateRepo.Create(ctx, tx, entities.EquipmentTemplate{
			TypeKey: newKey,
			Name:    fmt.Sprintf("%s (Copy %d)", original.Name, copyNumber),
		})
		if err != nil {
			return err
		}
		return s.templateRepo.ReplacePoints(ctx, tx, id, original.Points)
	})
	if err != nil {
		return nil, err
	}

	invalidateScheduleCache(ctx, s.cacheRepo, s.logger)
	s.logger.Info("equipment template replicated",
		zap.String("typeKey", typeKey), zap.String("newTypeKey", newKey))
	return s.wrapTemplate(ctx, newKey)
}

func (s *EquipmentTemplateService) checkTypeKeyFree(ctx context.Context, tx pgx.Tx, typeKey string) error {
	exists, err := s.templateRepo.ExistsByTypeKey(ctx, tx, typeKey)
	if err != nil {
		return err
	}
	if exists {
		return apperrors.NewHttpError(
			http.StatusConflict,
			fmt.Sprintf("Equipment type key '%s' already exists.", typeKey),
			nil,
			map[string]interface{}{"typeKey": typeKey},
		)
	}
	return nil
}

// resolveTemplatePoints narrows the requested point list to existing point
// templates, deduplicates, and fills in the default quantity of one.
func (s *EquipmentTemplateService) resolveTemplatePoints(ctx context.Context, tx pgx.Tx, points []dto.TemplatePointDTO) ([]entities.EquipmentTemplatePoint, error) {
	ids := make([]uint64, 0, len(points))
	for _, point := range points {
		ids = append(ids, point.ID)
	}

	existing, err := s.pointRepo.ListExistingIDs(ctx, tx, ids)
	if err != nil {
		return nil, err
	}
	return filterTemplatePoints(points, existing), nil
}

func filterTemplatePoints(points []dto.TemplatePointDTO, existing []uint64) []entities.EquipmentTemplatePoint {
	known := make(map[uint64]struct{}, len(existing))
	for _, id := range existing {
		known[id] = struct{}{}
	}

	result := make([]entities.EquipmentTemplatePoint, 0, len(points))
	seen := make(map[uint64]struct{}, len(points))
	for _, point := range points {
		if _, ok := known[point.ID]; !ok {
			continue
		}
		// The point list maps onto a composite primary key; a repeated id
		// keeps its first entry.
		if _, dup := seen[point.ID]; dup {
			continue
		}
		seen[point.ID] = struct{}{}

		quantity := point.Quantity
		if quantity < 1 {
			quantity = 1
		}
		result = append(result, entities.EquipmentTemplatePoint{
			PointTemplateID: point.ID,
			Quantity:        quantity,
		})
	}
	return result
}

// wrapTemplate loads the template and wraps it the way the page expects:
// an object keyed by the type key.
func (s *EquipmentTemplateService) wrapTemplate(ctx context.Context, typeKey string) (map[string]dto.EquipmentTemplateDTO, error) {
	template, err := s.templateRepo.FindByTypeKey(ctx, nil, typeKey)
	if err != nil {
		return nil, err
	}
	return map[string]dto.EquipmentTemplateDTO{typeKey: mapEquipmentTemplate(*template)}, nil
}
