package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"bms-select/internal/controllers"
	"bms-select/internal/services"
)

func runPointTemplateRouter(secureGroup *echo.Group, pointService services.PointTemplateServiceInterface, logger *zap.Logger) {
	pointCtrl := controllers.NewPointTemplateController(pointService, logger)
	{
		secureGroup.POST("/points", pointCtrl.CreatePoint)
		secureGroup.PUT("/points/:id", pointCtrl.UpdatePoint)
		secureGroup.DELETE("/points/:id", pointCtrl.DeletePoint)
	}
}
