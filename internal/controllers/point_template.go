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

type PointTemplateController struct {
	pointService services.PointTemplateServiceInterface
	logger       *zap.Logger
}

func NewPointTemplateController(pointService services.PointTemplateServiceInterface, logger *zap.Logger) *PointTemplateController {
	return &PointTemplateController{pointService: pointService, logger: logger}
}

func (ctrl *PointTemplateController) errorResponse(c echo.Context, err error) error {
	return utils.ErrorResponse(c, err, ctrl.logger)
}

func (ctrl *PointTemplateController) CreatePoint(c echo.Context) error {
	var payload dto.CreatePointTemplateDTO
	if err := c.Bind(&payload); err != nil {
		return ctrl.errorResponse(c, apperrors.NewHttpError(http.StatusBadRequest, "invalid point payload", err, nil))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	point, err := ctrl.pointService.CreatePoint(c.Request().Context(), payload)
	if err != nil {
		ctrl.logger.Warn("CreatePoint: failed", zap.String("name", payload.Name), zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	return utils.SuccessResponse(c, point, "Point created", http.StatusCreated)
}

func (ctrl *PointTemplateController) UpdatePoint(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	var payload dto.UpdatePointTemplateDTO
	if err := c.Bind(&payload); err != nil {
		return ctrl.errorResponse(c, apperrors.NewHttpError(http.StatusBadRequest, "invalid point payload", err, nil))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	point, err := ctrl.pointService.UpdatePoint(c.Request().Context(), id, payload)
	if err != nil {
		ctrl.logger.Warn("UpdatePoint: failed", zap.Uint64("pointID", id), zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	return utils.SuccessResponse(c, point, "Point updated", http.StatusOK)
}

func (ctrl *PointTemplateController) DeletePoint(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	if err := ctrl.pointService.DeletePoint(c.Request().Context(), id); err != nil {
		ctrl.logger.Warn("DeletePoint: failed", zap.Uint64("pointID", id), zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	return utils.SuccessResponse(c, struct{}{}, "Point deleted", http.StatusOK)
}
