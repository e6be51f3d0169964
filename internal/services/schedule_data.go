package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"bms-select/internal/dto"
	"bms-select/internal/entities"
	"bms-select/internal/repositories"
)

// scheduleDataCacheKey holds the serialized /api/data snapshot. Every
// mutating service deletes it, so a warm cache is never stale.
const scheduleDataCacheKey = "schedule:data"

type ScheduleDataServiceInterface interface {
	GetScheduleData(ctx context.Context) (*dto.ScheduleDataDTO, error)
}

type ScheduleDataService struct {
	panelRepo     repositories.PanelRepositoryInterface
	pointRepo     repositories.PointTemplateRepositoryInterface
	templateRepo  repositories.EquipmentTemplateRepositoryInterface
	equipmentRepo repositories.ScheduledEquipmentRepositoryInterface
	cacheRepo     repositories.CacheRepositoryInterface
	snapshotTTL   time.Duration
	logger        *zap.Logger
}

func NewScheduleDataService(
	panelRepo repositories.PanelRepositoryInterface,
	pointRepo repositories.PointTemplateRepositoryInterface,
	templateRepo repositories.EquipmentTemplateRepositoryInterface,
	equipmentRepo repositories.ScheduledEquipmentRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	snapshotTTL time.Duration,
	logger *zap.Logger,
) ScheduleDataServiceInterface {
	return &ScheduleDataService{
		panelRepo:     panelRepo,
		pointRepo:     pointRepo,
		templateRepo:  templateRepo,
		equipmentRepo: equipmentRepo,
		cacheRepo:     cacheRepo,
		snapshotTTL:   snapshotTTL,
		logger:        logger,
	}
}

// GetScheduleData returns the full four-collection snapshot the page boots
// from, served from Redis while warm.
func (s *ScheduleDataService) GetScheduleData(ctx context.Context) (*dto.ScheduleDataDTO, error) {
	if cached, err := s.cacheRepo.Get(ctx, scheduleDataCacheKey); err == nil && cached != "" {
		var snapshot dto.ScheduleDataDTO
		if unmarshalErr := json.Unmarshal([]byte(cached), &snapshot); unmarshalErr == nil {
			return &snapshot, nil
		}
		s.logger.Warn("discarding unreadable schedule snapshot from cache")
	}

	panels, err := s.panelRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	equipment, err := s.equipmentRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	points, err := s.pointRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	templates, err := s.templateRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	snapshot := &dto.ScheduleDataDTO{
		Panels:             make([]dto.PanelDTO, 0, len(panels)),
		ScheduledEquipment: make([]dto.ScheduledEquipmentDTO, 0, len(equipment)),
		PointTemplates:     make(map[uint64]dto.PointTemplateDTO, len(points)),
		EquipmentTemplates: make(map[string]dto.EquipmentTemplateDTO, len(templates)),
	}
	for _, panel := range panels {
		snapshot.Panels = append(snapshot.Panels, mapPanel(panel))
	}
	for _, equip := range equipment {
		snapshot.ScheduledEquipment = append(snapshot.ScheduledEquipment, mapScheduledEquipment(equip))
	}
	for _, point := range points {
		snapshot.PointTemplates[point.ID] = mapPointTemplate(point)
	}
	for _, template := range templates {
		snapshot.EquipmentTemplates[template.TypeKey] = mapEquipmentTemplate(template)
	}

	if raw, marshalErr := json.Marshal(snapshot); marshalErr == nil {
		if err := s.cacheRepo.Set(ctx, scheduleDataCacheKey, raw, s.snapshotTTL); err != nil {
			s.logger.Warn("failed to cache schedule snapshot", zap.Error(err))
		}
	}

	return snapshot, nil
}

// invalidateScheduleCache drops the snapshot after a mutation. A failed
// delete only shortens the cache benefit, so it is logged and swallowed.
func invalidateScheduleCache(ctx context.Context, cache repositories.CacheRepositoryInterface, logger *zap.Logger) {
	if err := cache.Del(ctx, scheduleDataCacheKey); err != nil {
		logger.Warn("failed to invalidate schedule snapshot cache", zap.Error(err))
	}
}

func mapPanel(panel entities.Panel) dto.PanelDTO {
	return dto.PanelDTO{
		ID:        panel.ID,
		PanelName: panel.PanelName,
		Floor:     panel.Floor,
	}
}

func mapPointTemplate(point entities.PointTemplate) dto.PointTemplateDTO {
	return dto.PointTemplateDTO{
		ID:         point.ID,
		Name:       point.Name,
		PointType:  point.PointType,
		PartNumber: null.StringFromPtr(point.PartNumber),
	}
}

func mapEquipmentTemplate(template entities.EquipmentTemplate) dto.EquipmentTemplateDTO {
	points := make([]dto.TemplatePointDTO, 0, len(template.Points))
	for _, point := range template.Points {
		points = append(points, dto.TemplatePointDTO{ID: point.PointTemplateID, Quantity: point.Quantity})
	}
	return dto.EquipmentTemplateDTO{
		ID:     template.ID,
		Name:   template.Name,
		Points: points,
	}
}

func mapScheduledEquipment(equipment entities.ScheduledEquipment) dto.ScheduledEquipmentDTO {
	selected := equipment.SelectedPoints
	if selected == nil {
		selected = []uint64{}
	}
	return dto.ScheduledEquipmentDTO{
		ID:             equipment.ID,
		PanelName:      equipment.PanelName,
		InstanceName:   equipment.InstanceName,
		Quantity:       equipment.Quantity,
		Type:           equipment.TypeKey,
		SelectedPoints: selected,
	}
}
