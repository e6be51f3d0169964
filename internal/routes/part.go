package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"bms-select/internal/controllers"
	"bms-select/internal/services"
)

func runPartRouter(
	secureGroup *echo.Group,
	partService services.PartServiceInterface,
	partImportService services.PartImportServiceInterface,
	logger *zap.Logger,
) {
	partCtrl := controllers.NewPartController(partService, partImportService, logger)
	{
		secureGroup.GET("/parts", partCtrl.GetParts)
		secureGroup.GET("/parts/:id", partCtrl.FindPart)
		secureGroup.POST("/parts/import", partCtrl.ImportParts)
	}
}
