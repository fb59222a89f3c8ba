package analytics

import (
	"go-civic/internal/config"
	"go-civic/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AnalyticsApi struct {
	AnalyticsController *AnalyticsController
	Config              *config.Config
}

func NewAnalyticsApi(analyticsController *AnalyticsController, cfg *config.Config) *AnalyticsApi {
	return &AnalyticsApi{
		AnalyticsController: analyticsController,
		Config:              cfg,
	}
}

func (api *AnalyticsApi) Setup(app *fiber.App) {
	group := app.Group("/api/analytics", middleware.AuthMiddleware(api.Config.SkipAuth))

	admin := group.Group("/", middleware.RequireRole(api.Config.SkipAuth, "admin"))
	admin.Get("/snapshot", api.AnalyticsController.GetSnapshot)
	admin.Get("/series", api.AnalyticsController.GetSeries)
	admin.Get("/locations", api.AnalyticsController.GetTopLocations)
	admin.Get("/stats", api.AnalyticsController.GetQuickStats)

	group.Get("/supervisor/stats",
		middleware.RequireRole(api.Config.SkipAuth, "supervisor"),
		api.AnalyticsController.GetSupervisorStats)
}
