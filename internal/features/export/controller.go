package export

import (
	"time"

	"go-civic/internal/features/report"

	"github.com/gofiber/fiber/v2"
)

type ExportController struct {
	ExportService ExportService
	ReportService report.ReportService
}

func NewExportController(exportService ExportService, reportService report.ReportService) *ExportController {
	return &ExportController{
		ExportService: exportService,
		ReportService: reportService,
	}
}

func (ctrl *ExportController) filteredSet(c *fiber.Ctx) ([]report.Report, error) {
	reports, err := ctrl.ReportService.ListReports(c.Context())
	if err != nil {
		return nil, err
	}
	return report.Apply(reports, report.FiltersFromQuery(c), time.Now()), nil
}

// ExportCSV downloads the filtered set as CSV
func (ctrl *ExportController) ExportCSV(c *fiber.Ctx) error {
	reports, err := ctrl.filteredSet(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	data, filename, err := ctrl.ExportService.ToCSV(reports)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	c.Set("Content-Type", "text/csv; charset=utf-8")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// ExportExcel downloads the filtered set as an xlsx workbook
func (ctrl *ExportController) ExportExcel(c *fiber.Ctx) error {
	reports, err := ctrl.filteredSet(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	data, filename, err := ctrl.ExportService.ToExcel(reports)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
