package export

import (
	"go-civic/internal/config"
	"go-civic/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ExportApi struct {
	ExportController *ExportController
	Config           *config.Config
}

func NewExportApi(exportController *ExportController, cfg *config.Config) *ExportApi {
	return &ExportApi{
		ExportController: exportController,
		Config:           cfg,
	}
}

func (api *ExportApi) Setup(app *fiber.App) {
	group := app.Group("/api/export",
		middleware.AuthMiddleware(api.Config.SkipAuth),
		middleware.RequireRole(api.Config.SkipAuth, "admin"))

	group.Get("/reports.csv", api.ExportController.ExportCSV)
	group.Get("/reports.xlsx", api.ExportController.ExportExcel)
}
