package report

import (
	"go-civic/internal/config"
	"go-civic/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ReportApi struct {
	ReportController *ReportController
	Config           *config.Config
}

func NewReportApi(reportController *ReportController, cfg *config.Config) *ReportApi {
	return &ReportApi{
		ReportController: reportController,
		Config:           cfg,
	}
}

func (api *ReportApi) Setup(app *fiber.App) {
	group := app.Group("/api/reports", middleware.AuthMiddleware(api.Config.SkipAuth))

	admin := group.Group("/", middleware.RequireRole(api.Config.SkipAuth, "admin"))
	admin.Get("/", api.ReportController.List)
	admin.Get("/map", api.ReportController.ListForMap)
	admin.Get("/:id", api.ReportController.Get)
	admin.Put("/:id/status", api.ReportController.UpdateStatus)
	admin.Put("/:id/assignment", api.ReportController.UpdateAssignment)
	admin.Put("/:id/classification", api.ReportController.UpdateClassification)

	supervisor := app.Group("/api/supervisor/reports",
		middleware.AuthMiddleware(api.Config.SkipAuth),
		middleware.RequireRole(api.Config.SkipAuth, "supervisor"))
	supervisor.Get("/", api.ReportController.ListForSupervisor)
	supervisor.Get("/:id", api.ReportController.Get)
	supervisor.Put("/:id/status", api.ReportController.UpdateStatusAsSupervisor)
	supervisor.Post("/:id/notes", api.ReportController.AddNote)
}
