package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"bms-select/internal/dto"
	"bms-select/internal/entities"
	"bms-select/internal/repositories"
	apperrors "bms-select/pkg/errors"
)

type ScheduledEquipmentServiceInterface interface {
	FindEquipment(ctx context.Context, id uint64) (*dto.ScheduledEquipmentDTO, error)
	CreateEquipment(ctx context.Context, payload dto.CreateScheduledEquipmentDTO) (*dto.ScheduledEquipmentDTO, error)
	UpdateEquipment(ctx context.Context, id uint64, payload dto.UpdateScheduledEquipmentDTO) (*dto.ScheduledEquipmentDTO, error)
	DeleteEquipment(ctx context.Context, id uint64) error
}

type ScheduledEquipmentService struct {
	equipmentRepo repositories.ScheduledEquipmentRepositoryInterface
	panelRepo     repositories.PanelRepositoryInterface
	templateRepo  repositories.EquipmentTemplateRepositoryInterface
	pointRepo     repositories.PointTemplateRepositoryInterface
	txManager     repositories.TxManagerInterface
	cacheRepo     repositories.CacheRepositoryInterface
	logger        *zap.Logger
}

func NewScheduledEquipmentService(
	equipmentRepo repositories.ScheduledEquipmentRepositoryInterface,
	panelRepo repositories.PanelRepositoryInterface,
	templateRepo repositories.EquipmentTemplateRepositoryInterface,
	pointRepo repositories.PointTemplateRepositoryInterface,
	txManager repositories.TxManagerInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	logger *zap.Logger,
) ScheduledEquipmentServiceInterface {
	return &ScheduledEquipmentService{
		equipmentRepo: equipmentRepo,
		panelRepo:     panelRepo,
		templateRepo:  templateRepo,
		pointRepo:     pointRepo,
		txManager:     txManager,
		cacheRepo:     cacheRepo,
		logger:        logger,
	}
}

func (s *ScheduledEquipmentService) FindEquipment(ctx context.Context, id uint64) (*dto.ScheduledEquipmentDTO, error) {
	equipment, err := s.equipmentRepo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	result := mapScheduledEquipment(*equipment)
	return &result, nil
}

func (s *ScheduledEquipmentService) CreateEquipment(ctx context.Context, payload dto.CreateScheduledEquipmentDTO) (*dto.ScheduledEquipmentDTO, error) {
	var newID uint64
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		panel, err := s.resolvePanel(ctx, tx, payload.PanelName, payload.Floor)
		if err != nil {
			return err
		}
		template, err := s.templateRepo.FindByTypeKey(ctx, tx, payload.Type)
		if err != nil {
			return err
		}

		id, err := s.equipmentRepo.Create(ctx, tx, entities.ScheduledEquipment{
			InstanceName:        payload.InstanceName,
			Quantity:            normalizeQuantity(payload.Quantity),
			PanelID:             panel.ID,
			EquipmentTemplateID: template.ID,
		})
		if err != nil {
			return err
		}
		newID = id

		selected, err := s.pointRepo.ListExistingIDs(ctx, tx, payload.SelectedPoints)
		if err != nil {
			return err
		}
		return s.equipmentRepo.ReplaceSelectedPoints(ctx, tx, id, selected)
	})
	if err != nil {
		return nil, err
	}

	invalidateScheduleCache(ctx, s.cacheRepo, s.logger)
	s.logger.Info("scheduled equipment created",
		zap.Uint64("equipmentID", newID), zap.String("instanceName", payload.InstanceName))
	return s.FindEquipment(ctx, newID)
}

func (s *ScheduledEquipmentService) UpdateEquipment(ctx context.Context, id uint64, payload dto.UpdateScheduledEquipmentDTO) (*dto.ScheduledEquipmentDTO, error) {
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := s.equipmentRepo.FindByID(ctx, tx, id); err != nil {
			return err
		}

		panel, err := s.resolvePanel(ctx, tx, payload.PanelName, payload.Floor)
		if err != nil {
			return err
		}
		template, err := s.templateRepo.FindByTypeKey(ctx, tx, payload.Type)
		if err != nil {
			return err
		}

		if err := s.equipmentRepo.Update(ctx, tx, id, entities.ScheduledEquipment{
			InstanceName:        payload.InstanceName,
			Quantity:            normalizeQuantity(payload.Quantity),
			PanelID:             panel.ID,
			EquipmentTemplateID: template.ID,
		}); err != nil {
			return err
		}

		selected, err := s.pointRepo.ListExistingIDs(ctx, tx, payload.SelectedPoints)
		if err != nil {
			return err
		}
		return s.equipmentRepo.ReplaceSelectedPoints(ctx, tx, id, selected)
	})
	if err != nil {
		return nil, err
	}

	invalidateScheduleCache(ctx, s.cacheRepo, s.logger)
	return s.FindEquipment(ctx, id)
}

func (s *ScheduledEquipmentService) DeleteEquipment(ctx context.Context, id uint64) error {
	if err := s.equipmentRepo.Delete(ctx, id); err != nil {
		return err
	}

	invalidateScheduleCache(ctx, s.cacheRepo, s.logger)
	s.logger.Info("scheduled equipment deleted", zap.Uint64("equipmentID", id))
	return nil
}

// resolvePanel finds the panel by name, creating it with the given floor
// when the schedule references a panel that does not exist yet.
func (s *ScheduledEquipmentService) resolvePanel(ctx context.Context, tx pgx.Tx, panelName, floor string) (*entities.Panel, error) {
	panel, err := s.panelRepo.FindByName(ctx, tx, panelName)
	if err == nil {
		return panel, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	id, err := s.panelRepo.Create(ctx, tx, entities.Panel{PanelName: panelName, Floor: floor})
	if err != nil {
		return nil, err
	}
	s.logger.Info("panel created for schedule entry",
		zap.Uint64("panelID", id), zap.String("panelName", panelName))
	return s.panelRepo.FindByID(ctx, tx, id)
}

func normalizeQuantity(quantity int) int {
	if quantity < 1 {
		return 1
	}
	return quantity
}
