package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"bms-select/internal/controllers"
	"bms-select/internal/services"
)

func runEquipmentTemplateRouter(secureGroup *echo.Group, templateService services.EquipmentTemplateServiceInterface, logger *zap.Logger) {
	templateCtrl := controllers.NewEquipmentTemplateController(templateService, logger)
	{
		secureGroup.POST("/equipment_templates", templateCtrl.CreateTemplate)
		secureGroup.PUT("/equipment_templates/:key", templateCtrl.UpdateTemplate)
		secureGroup.DELETE("/equipment_templates/:key", templateCtrl.DeleteTemplate)
		secureGroup.POST("/equipment_templates/:key/replicate", templateCtrl.ReplicateTemplate)
	}
}
