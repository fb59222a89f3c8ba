package main

import (
	"context"
	"fmt"
	"log"

	"go-civic/internal/api"
	"go-civic/internal/config"
	"go-civic/internal/connectors"
	"go-civic/internal/database"
	"go-civic/internal/features/analytics"
	"go-civic/internal/features/auth"
	"go-civic/internal/features/export"
	"go-civic/internal/features/live"
	"go-civic/internal/features/notification"
	"go-civic/internal/features/report"
	"go-civic/internal/features/routing"
	"go-civic/internal/features/sweep"
	"go-civic/internal/logger"
	"go-civic/internal/middleware"
	"go-civic/pkg/utils"

	_ "go-civic/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []api.Route) {
	log.Printf("Registering %d routes...\n", len(routes))
	for _, route := range routes {
		route.Setup(app)
	}
	log.Println("All routes registered successfully")
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// @title           Civic Issue Console API
// @version         1.0
// @description     Admin and supervisor console for municipal issue reports.

// @contact.name    API Support

// @host            localhost:8000
// @BasePath        /
func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Database
			database.NewDatabase,

			// Initialize Repository
			report.NewReportRepository,
			notification.NewNotificationRepository,
			auth.NewAuthRepository,
			routing.NewRoutingRuleRepository,

			// Warehouse connector for the archive job
			func(cfg *config.Config) *connectors.WarehouseConnector {
				return connectors.NewWarehouseConnector(cfg.ArchiveDBType, cfg.ArchiveDSN)
			},

			report.NewSnapshotVersion,
			live.NewHub,

			notification.NewNotificationService,
			report.NewReportService,
			auth.NewAuthService,
			analytics.NewAnalyticsService,
			export.NewExportService,
			routing.NewRoutingService,
			sweep.NewSweepService,
			live.NewReportWatcher,

			// Initialize Controller
			report.NewReportController,
			notification.NewNotificationController,
			auth.NewAuthController,
			analytics.NewAnalyticsController,
			export.NewExportController,
			routing.NewRoutingController,
			live.NewLiveController,

			// Initialize API Routes
			AsRoute(report.NewReportApi),
			AsRoute(notification.NewNotificationApi),
			AsRoute(auth.NewAuthApi),
			AsRoute(analytics.NewAnalyticsApi),
			AsRoute(export.NewExportApi),
			AsRoute(routing.NewRoutingApi),
			AsRoute(live.NewLiveApi),
			AsRoute(api.NewSwaggerApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) {
				utils.SetSecret(cfg.JWTSecret)
			},

			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,

			func(lc fx.Lifecycle, sweepService sweep.SweepService) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return sweepService.InitializeScheduler(ctx)
					},
					OnStop: func(ctx context.Context) error {
						return sweepService.StopScheduler()
					},
				})
			},

			func(lc fx.Lifecycle, watcher *live.ReportWatcher, zlog *zap.Logger) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						if err := watcher.Start(); err != nil {
							// Change streams need a replica set; standalone
							// deployments run without live updates.
							zlog.Warn("live updates disabled", zap.Error(err))
						}
						return nil
					},
					OnStop: func(ctx context.Context) error {
						watcher.Stop()
						return nil
					},
				})
			},
		),
	)

	app.Run()
}
