package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"bms-select/internal/repositories"
	"bms-select/internal/services"
	"bms-select/pkg/config"
	"bms-select/pkg/filestorage"
	"bms-select/pkg/middleware"
	"bms-select/pkg/service"
)

// InitRouter builds the repository/service/controller graph and registers
// every API route. Login and token refresh stay outside the auth group;
// everything else under /api requires a valid access token.
func InitRouter(
	e *echo.Echo,
	dbConn *pgxpool.Pool,
	redisClient *redis.Client,
	jwtSvc service.JWTService,
	logger *zap.Logger,
	cfg *config.Config,
) {
	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, logger)

	fileStorage, err := filestorage.NewLocalFileStorage("uploads")
	if err != nil {
		logger.Fatal("failed to create file storage", zap.Error(err))
	}

	txManager := repositories.NewTxManager(dbConn)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	userRepo := repositories.NewUserRepository(dbConn, logger)
	panelRepo := repositories.NewPanelRepository(dbConn, logger)
	pointRepo := repositories.NewPointTemplateRepository(dbConn, logger)
	templateRepo := repositories.NewEquipmentTemplateRepository(dbConn, logger)
	equipmentRepo := repositories.NewScheduledEquipmentRepository(dbConn, logger)
	partRepo := repositories.NewPartRepository(dbConn, logger)

	authService := services.NewAuthService(userRepo, cacheRepo, logger, &cfg.Auth)
	dataService := services.NewScheduleDataService(
		panelRepo, pointRepo, templateRepo, equipmentRepo, cacheRepo, cfg.Cache.SnapshotTTL, logger,
	)
	panelService := services.NewPanelService(
		panelRepo, pointRepo, templateRepo, equipmentRepo, txManager, cacheRepo, logger,
	)
	pointService := services.NewPointTemplateService(pointRepo, txManager, cacheRepo, logger)
	templateService := services.NewEquipmentTemplateService(
		templateRepo, pointRepo, equipmentRepo, txManager, cacheRepo, logger,
	)
	equipmentService := services.NewScheduledEquipmentService(
		equipmentRepo, panelRepo, templateRepo, pointRepo, txManager, cacheRepo, logger,
	)
	partService := services.NewPartService(partRepo, logger)
	partImportService := services.NewPartImportService(partRepo, fileStorage, txManager, logger)

	secureGroup := api.Group("", authMW.Auth)

	runAuthRouter(api, authService, jwtSvc, logger, authMW)
	runScheduleDataRouter(secureGroup, dataService, logger)
	runPanelRouter(secureGroup, panelService, logger)
	runPointTemplateRouter(secureGroup, pointService, logger)
	runEquipmentTemplateRouter(secureGroup, templateService, logger)
	runScheduledEquipmentRouter(secureGroup, equipmentService, logger)
	runPartRouter(secureGroup, partService, partImportService, logger)

	logger.Info("router initialized")
}
