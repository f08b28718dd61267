package routes

import (
	"github.com/Zmley/warehouse-admin-sub001/auth"
	"github.com/Zmley/warehouse-admin-sub001/config"
	"github.com/Zmley/warehouse-admin-sub001/controllers"
	"github.com/Zmley/warehouse-admin-sub001/logger"
	"github.com/Zmley/warehouse-admin-sub001/metrics"
	"github.com/Zmley/warehouse-admin-sub001/middleware"
	"github.com/Zmley/warehouse-admin-sub001/models"
	"github.com/Zmley/warehouse-admin-sub001/notify"
	"github.com/Zmley/warehouse-admin-sub001/services"
	"github.com/Zmley/warehouse-admin-sub001/upload"
	"github.com/Zmley/warehouse-admin-sub001/wms/master/account"
	"github.com/Zmley/warehouse-admin-sub001/wms/master/warehouse"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps is everything the HTTP app is built from.
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	Issuer   *auth.TokenIssuer
	Notifier notify.Notifier
	Aliases  upload.AliasSet
	// Logs is shared with the session sweeper; built from DB when nil.
	Logs *services.LogService
}

// NewApp builds the Fiber app with every route mounted under MAIN_ROUTES.
func NewApp(d Deps) *fiber.App {
	cfg := d.Config
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Notifier == nil {
		d.Notifier = notify.Nop{}
	}
	if d.Aliases == nil {
		d.Aliases = upload.DefaultAliases()
	}
	if d.Logs == nil {
		d.Logs = services.NewLogService(d.DB, cfg.Scheduler.SessionIdleTimeout)
	}

	bodyLimit := 4 * 1024 * 1024
	if limit := int(cfg.Upload.MaxFileSize) + 1024*1024; limit > bodyLimit {
		bodyLimit = limit
	}

	app := fiber.New(fiber.Config{
		AppName:      "warehouse-admin",
		BodyLimit:    bodyLimit,
		ErrorHandler: middleware.ErrorHandler(logger.Named(d.Logger, "http")),
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: cfg.IsDevelopment()}))
	app.Use(middleware.Metrics(d.Metrics))
	app.Use(middleware.RequestLogger(logger.Named(d.Logger, "access")))
	config.SetupCORS(app, cfg.CORS)

	app.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"status": "ok"})
	})
	if d.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(d.Metrics.Handler()))
	}

	uploader := controllers.Uploader{
		Aliases:     d.Aliases,
		MaxFileSize: cfg.Upload.MaxFileSize,
		Metrics:     d.Metrics,
	}
	authService := services.NewAuthService(d.DB, d.Issuer)
	bins := services.NewBinService(d.DB)
	inventory := services.NewInventoryService(d.DB, d.Logs, d.Metrics)
	tasks := services.NewTaskService(d.DB, d.Logs, d.Metrics)
	transfers := services.NewTransferService(d.DB, d.Logs, d.Notifier, d.Metrics, logger.Named(d.Logger, "transfer"))
	products := services.NewProductService(d.DB)

	api := app.Group(cfg.App.MainRoutes)
	authenticated := middleware.RequireAuth(d.Issuer)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	SetupAuthRoutes(api, controllers.NewAuthController(authService, d.Issuer), authenticated)
	warehouse.SetupWarehouseRoutes(api, d.DB, authenticated, adminOnly)
	account.SetupAccountRoutes(api, d.DB, authenticated, adminOnly)
	SetupProductRoutes(api, controllers.NewProductController(products, uploader), authenticated)
	SetupBinRoutes(api, controllers.NewBinController(bins, uploader), authenticated)
	SetupInventoryRoutes(api, controllers.NewInventoryController(inventory, uploader), authenticated)
	SetupTaskRoutes(api, controllers.NewTaskController(tasks), authenticated)
	SetupTransferRoutes(api, controllers.NewTransferController(transfers), authenticated, adminOnly)
	SetupLogRoutes(api, controllers.NewLogController(d.Logs), authenticated, adminOnly)

	return app
}
