package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"bms-select/internal/dto"
	"bms-select/internal/services"
	apperrors "bms-select/pkg/errors"
	"bms-select/pkg/utils"
)

type ScheduledEquipmentController struct {
	equipmentService services.ScheduledEquipmentServiceInterface
	logger           *zap.Logger
}

func NewScheduledEquipmentController(equipmentService services.ScheduledEquipmentServiceInterface, logger *zap.Logger) *ScheduledEquipmentController {
	return &ScheduledEquipmentController{equipmentService: equipmentService, logger: logger}
}

func (ctrl *ScheduledEquipmentController) errorResponse(c echo.Context, err error) error {
	return utils.ErrorResponse(c, err, ctrl.logger)
}

func (ctrl *ScheduledEquipmentController) CreateEquipment(c echo.Context) error {
	var payload dto.CreateScheduledEquipmentDTO
	if err := c.Bind(&payload); err != nil {
		return ctrl.errorResponse(c, apperrors.NewHttpError(http.StatusBadRequest, "invalid equipment payload", err, nil))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	equipment, err := ctrl.equipmentService.CreateEquipment(c.Request().Context(), payload)
	if err != nil {
		ctrl.logger.Warn("CreateEquipment: failed", zap.String("instanceName", payload.InstanceName), zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	return utils.SuccessResponse(c, equipment, "Equipment scheduled", http.StatusCreated)
}

func (ctrl *ScheduledEquipmentController) UpdateEquipment(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	var payload dto.UpdateScheduledEquipmentDTO
	if err := c.Bind(&payload); err != nil {
		return ctrl.errorResponse(c, apperrors.NewHttpError(http.StatusBadRequest, "invalid equipment payload", err, nil))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	equipment, err := ctrl.equipmentService.UpdateEquipment(c.Request().Context(), id, payload)
	if err != nil {
		ctrl.logger.Warn("UpdateEquipment: failed", zap.Uint64("equipmentID", id), zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	return utils.SuccessResponse(c, equipment, "Equipment updated", http.StatusOK)
}

func (ctrl *ScheduledEquipmentController) DeleteEquipment(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	if err := ctrl.equipmentService.DeleteEquipment(c.Request().Context(), id); err != nil {
		ctrl.logger.Warn("DeleteEquipment: failed", zap.Uint64("equipmentID", id), zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	return utils.SuccessResponse(c, struct{}{}, "Equipment removed", http.StatusOK)
}
