package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"bms-select/internal/controllers"
	"bms-select/internal/services"
	"bms-select/pkg/middleware"
	"bms-select/pkg/service"
)

func runAuthRouter(api *echo.Group, authService services.AuthServiceInterface, jwtSvc service.JWTService, logger *zap.Logger, authMW *middleware.AuthMiddleware) {
	authCtrl := controllers.NewAuthController(authService, jwtSvc, logger)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", authCtrl.Login)
		authGroup.POST("/refresh_token", authCtrl.RefreshToken)
		authGroup.GET("/me", authCtrl.Me, authMW.Auth)
		authGroup.POST("/change_password", authCtrl.ChangePassword, authMW.Auth)
	}
}
