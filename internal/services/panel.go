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

type PanelServiceInterface interface {
	FindPanel(ctx context.Context, id uint64) (*dto.PanelDTO, error)
	CreatePanel(ctx context.Context, payload dto.CreatePanelDTO) (*dto.PanelDTO, error)
	UpdatePanel(ctx context.Context, id uint64, payload dto.UpdatePanelDTO) (*dto.PanelDTO, error)
	DeletePanel(ctx context.Context, id uint64) error
	GetPointSummary(ctx context.Context, panelID uint64) (dto.PointSummaryDTO, error)
	GetScheduleExport(ctx context.Context, panelID uint64) (*dto.PanelScheduleExportDTO, error)
}

type PanelService struct {
	panelRepo     repositories.PanelRepositoryInterface
	pointRepo     repositories.PointTemplateRepositoryInterface
	templateRepo  repositories.EquipmentTemplateRepositoryInterface
	equipmentRepo repositories.ScheduledEquipmentRepositoryInterface
	txManager     repositories.TxManagerInterface
	cacheRepo     repositories.CacheRepositoryInterface
	logger        *zap.Logger
}

func NewPanelService(
	panelRepo repositories.PanelRepositoryInterface,
	pointRepo repositories.PointTemplateRepositoryInterface,
	templateRepo repositories.EquipmentTemplateRepositoryInterface,
	equipmentRepo repositories.ScheduledEquipmentRepositoryInterface,
	txManager repositories.TxManagerInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	logger *zap.Logger,
) PanelServiceInterface {
	return &PanelService{
		panelRepo:     panelRepo,
		pointRepo:     pointRepo,
		templateRepo:  templateRepo,
		equipmentRepo: equipmentRepo,
		txManager:     txManager,
		cacheRepo:     cacheRepo,
		logger:        logger,
	}
}

func (s *PanelService) FindPanel(ctx context.Context, id uint64) (*dto.PanelDTO, error) {
	panel, err := s.panelRepo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	result := mapPanel(*panel)
	return &result, nil
}

func (s *PanelService) CreatePanel(ctx context.Context, payload dto.CreatePanelDTO) (*dto.PanelDTO, error) {
	var newID uint64
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.checkPanelNameFree(ctx, tx, payload.PanelName, 0); err != nil {
			return err
		}

		id, err := s.panelRepo.Create(ctx, tx, entities.Panel{PanelName: payload.PanelName, Floor: payload.Floor})
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
	s.logger.Info("panel created", zap.Uint64("panelID", newID), zap.String("panelName", payload.PanelName))
	return s.FindPanel(ctx, newID)
}

func (s *PanelService) UpdatePanel(ctx context.Context, id uint64, payload dto.UpdatePanelDTO) (*dto.PanelDTO, error) {
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := s.panelRepo.FindByID(ctx, tx, id); err != nil {
			return err
		}
		if err := s.checkPanelNameFree(ctx, tx, payload.PanelName, id); err != nil {
			return err
		}
		return s.panelRepo.Update(ctx, tx, id, entities.Panel{PanelName: payload.PanelName, Floor: payload.Floor})
	})
	if err != nil {
		return nil, err
	}

	invalidateScheduleCache(ctx, s.cacheRepo, s.logger)
	return s.FindPanel(ctx, id)
}

func (s *PanelService) DeletePanel(ctx context.Context, id uint64) error {
	if err := s.panelRepo.Delete(ctx, id); err != nil {
		return err
	}

	invalidateScheduleCache(ctx, s.cacheRepo, s.logger)
	s.logger.Info("panel deleted", zap.Uint64("panelID", id))
	return nil
}

// checkPanelNameFree reports a conflict when another panel already carries
// the name. selfID skips the panel being updated.
func (s *PanelService) checkPanelNameFree(ctx context.Context, tx pgx.Tx, name string, selfID uint64) error {
	existing, err := s.panelRepo.FindByName(ctx, tx, name)
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
		fmt.Sprintf("A panel named '%s' already exists.", name),
		nil,
		map[string]interface{}{"panelName": name},
	)
}

func (s *PanelService) GetPointSummary(ctx context.Context, panelID uint64) (dto.PointSummaryDTO, error) {
	if _, err := s.panelRepo.FindByID(ctx, nil, panelID); err != nil {
		return nil, err
	}

	equipment, err := s.equipmentRepo.GetByPanel(ctx, panelID)
	if err != nil {
		return nil, err
	}
	templates, err := s.templateRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	points, err := s.pointRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	return computePointSummary(equipment, templates, points), nil
}

// GetScheduleExport assembles everything the XLSX download needs in one
// call: the panel, its schedule rows with point names resolved, and the
// point-type summary.
func (s *PanelService) GetScheduleExport(ctx context.Context, panelID uint64) (*dto.PanelScheduleExportDTO, error) {
	panel, err := s.panelRepo.FindByID(ctx, nil, panelID)
	if err != nil {
		return nil, err
	}

	equipment, err := s.equipmentRepo.GetByPanel(ctx, panelID)
	if err != nil {
		return nil, err
	}
	templates, err := s.templateRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	points, err := s.pointRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	pointNames := make(map[uint64]string, len(points))
	for _, point := range points {
		pointNames[point.ID] = point.Name
	}
	templateNames := make(map[uint64]string, len(templates))
	for _, template := range templates {
		templateNames[template.ID] = template.Name
	}

	rows := make([]dto.ScheduleExportRowDTO, 0, len(equipment))
	for _, equip := range equipment {
		names := make([]string, 0, len(equip.SelectedPoints))
		for _, pointID := range equip.SelectedPoints {
			if name, ok := pointNames[pointID]; ok {
				names = append(names, name)
			}
		}
		rows = append(rows, dto.ScheduleExportRowDTO{
			InstanceName: equip.InstanceName,
			TypeKey:      equip.TypeKey,
			TemplateName: templateNames[equip.EquipmentTemplateID],
			Quantity:     equip.Quantity,
			PointNames:   names,
		})
	}

	return &dto.PanelScheduleExportDTO{
		Panel:   mapPanel(*panel),
		Rows:    rows,
		Summary: computePointSummary(equipment, templates, points),
	}, nil
}

// computePointSummary totals the panel's selected points by point type.
// Each selection counts as the template's per-unit quantity (1 when the
// point is no longer part of the template) times the instance quantity.
func computePointSummary(
	equipment []entities.ScheduledEquipment,
	templates []entities.EquipmentTemplate,
	points []entities.PointTemplate,
) dto.PointSummaryDTO {
	templateQuantities := make(map[uint64]map[uint64]int, len(templates))
	for _, template := range templates {
		byPoint := make(map[uint64]int, len(template.Points))
		for _, point := range template.Points {
			byPoint[point.PointTemplateID] = point.Quantity
		}
		templateQuantities[template.ID] = byPoint
	}

	pointTypes := make(map[uint64]string, len(points))
	for _, point := range points {
		pointTypes[point.ID] = point.PointType
	}

	summary := make(dto.PointSummaryDTO)
	for _, equip := range equipment {
		for _, pointID := range equip.SelectedPoints {
			pointType, ok := pointTypes[pointID]
			if !ok {
				continue
			}
			quantity := 1
			if q, ok := templateQuantities[equip.EquipmentTemplateID][pointID]; ok {
				quantity = q
			}
			summary[pointType] += quantity * equip.Quantity
		}
	}
	return summary
}
