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

type EquipmentTemplateController struct {
	templateService services.EquipmentTemplateServiceInterface
	logger          *zap.Logger
}

func NewEquipmentTemplateController(templateService services.EquipmentTemplateServiceInterface, logger *zap.Logger) *EquipmentTemplateController {
	return &EquipmentTemplateController{templateService: templateService, logger: logger}
}

func (ctrl *EquipmentTemplateController) errorResponse(c echo.Context, err error) error {
	return utils.ErrorResponse(c, err, ctrl.logger)
}

// CreateTemplate responds with the template wrapped under its type key, the
// shape the page merges into its local library map.
func (ctrl *EquipmentTemplateController) CreateTemplate(c echo.Context) error {
	var payload dto.CreateEquipmentTemplateDTO
	if err := c.Bind(&payload); err != nil {
		return ctrl.errorResponse(c, apperrors.NewHttpError(http.StatusBadRequest, "invalid template payload", err, nil))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	wrapped, err := ctrl.templateService.CreateTemplate(c.Request().Context(), payload)
	if err != nil {
		ctrl.logger.Warn("CreateTemplate: failed", zap.String("typeKey", payload.TypeKey), zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	return utils.SuccessResponse(c, wrapped, "Equipment template created", http.StatusCreated)
}

func (ctrl *EquipmentTemplateController) UpdateTemplate(c echo.Context) error {
	typeKey := c.Param("key")

	var payload dto.UpdateEquipmentTemplateDTO
	if err := c.Bind(&payload); err != nil {
		return ctrl.errorResponse(c, apperrors.NewHttpError(http.StatusBadRequest, "invalid template payload", err, nil))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	wrapped, err := ctrl.templateService.UpdateTemplate(c.Request().Context(), typeKey, payload)
	if err != nil {
		ctrl.logger.Warn("UpdateTemplate: failed", zap.String("typeKey", typeKey), zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	return utils.SuccessResponse(c, wrapped, "Equipment template updated", http.StatusOK)
}

func (ctrl *EquipmentTemplateController) DeleteTemplate(c echo.Context) error {
	typeKey := c.Param("key")

	if err := ctrl.templateService.DeleteTemplate(c.Request().Context(), typeKey); err != nil {
		ctrl.logger.Warn("DeleteTemplate: failed", zap.String("typeKey", typeKey), zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	return utils.SuccessResponse(c, struct{}{}, "Equipment template deleted", http.StatusOK)
}

func (ctrl *EquipmentTemplateController) ReplicateTemplate(c echo.Context) error {
	typeKey := c.Param("key")

	wrapped, err := ctrl.templateService.ReplicateTemplate(c.Request().Context(), typeKey)
	if err != nil {
		ctrl.logger.Warn("ReplicateTemplate: failed", zap.String("typeKey", typeKey), zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	return utils.SuccessResponse(c, wrapped, "Equipment template replicated", http.StatusCreated)
}
