package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"bms-select/internal/services"
	"bms-select/pkg/utils"
)

type ScheduleDataController struct {
	dataService services.ScheduleDataServiceInterface
	logger      *zap.Logger
}

func NewScheduleDataController(dataService services.ScheduleDataServiceInterface, logger *zap.Logger) *ScheduleDataController {
	return &ScheduleDataController{dataService: dataService, logger: logger}
}

// GetData serves the bulk snapshot as a bare four-collection object; the
// embedded page bootstraps its whole state from this response.
func (ctrl *ScheduleDataController) GetData(c echo.Context) error {
	data, err := ctrl.dataService.GetScheduleData(c.Request().Context())
	if err != nil {
		ctrl.logger.Error("GetData: failed to assemble snapshot", zap.Error(err))
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	return c.JSON(http.StatusOK, data)
}
