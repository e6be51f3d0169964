package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"bms-select/internal/controllers"
	"bms-select/internal/services"
)

func runScheduledEquipmentRouter(secureGroup *echo.Group, equipmentService services.ScheduledEquipmentServiceInterface, logger *zap.Logger) {
	equipmentCtrl := controllers.NewScheduledEquipmentController(equipmentService, logger)
	{
		secureGroup.POST("/equipment", equipmentCtrl.CreateEquipment)
		secureGroup.PUT("/equipment/:id", equipmentCtrl.UpdateEquipment)
		secureGroup.DELETE("/equipment/:id", equipmentCtrl.DeleteEquipment)
	}
}
