package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"bms-select/internal/controllers"
	"bms-select/internal/services"
)

func runScheduleDataRouter(secureGroup *echo.Group, dataService services.ScheduleDataServiceInterface, logger *zap.Logger) {
	dataCtrl := controllers.NewScheduleDataController(dataService, logger)

	secureGroup.GET("/data", dataCtrl.GetData)
}
