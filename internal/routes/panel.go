package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"bms-select/internal/controllers"
	"bms-select/internal/services"
)

func runPanelRouter(secureGroup *echo.Group, panelService services.PanelServiceInterface, logger *zap.Logger) {
	panelCtrl := controllers.NewPanelController(panelService, logger)
	{
		secureGroup.POST("/panel", panelCtrl.CreatePanel)
		secureGroup.PUT("/panel/:id", panelCtrl.UpdatePanel)
		secureGroup.DELETE("/panel/:id", panelCtrl.DeletePanel)
		secureGroup.GET("/panel/:id/point_summary", panelCtrl.GetPointSummary)
		secureGroup.GET("/panel/:id/schedule/export", panelCtrl.ExportSchedule)
	}
}
