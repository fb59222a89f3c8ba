package analytics

import (
	"time"

	"go-civic/internal/config"
	"go-civic/internal/features/report"
	"go-civic/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AnalyticsController struct {
	AnalyticsService AnalyticsService
	ReportService    report.ReportService
	Config           *config.Config
}

func NewAnalyticsController(analyticsService AnalyticsService, reportService report.ReportService, cfg *config.Config) *AnalyticsController {
	return &AnalyticsController{
		AnalyticsService: analyticsService,
		ReportService:    reportService,
		Config:           cfg,
	}
}

// filteredSet loads the admin snapshot and applies the view's query filters.
func (ctrl *AnalyticsController) filteredSet(c *fiber.Ctx) ([]report.Report, error) {
	reports, err := ctrl.ReportService.ListReports(c.Context())
	if err != nil {
		return nil, err
	}
	return report.Apply(reports, report.FiltersFromQuery(c), time.Now()), nil
}

// GetSnapshot returns the KPI block plus both distributions
func (ctrl *AnalyticsController) GetSnapshot(c *fiber.Ctx) error {
	reports, err := ctrl.filteredSet(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(ctrl.AnalyticsService.Snapshot(reports))
}

// GetSeries returns the trailing daily series, default 30 days
func (ctrl *AnalyticsController) GetSeries(c *fiber.Ctx) error {
	days := c.QueryInt("days", 30)
	reports, err := ctrl.filteredSet(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"series": ctrl.AnalyticsService.DailySeries(reports, days, time.Now())})
}

// GetTopLocations returns the densest coordinate clusters, default top 10
func (ctrl *AnalyticsController) GetTopLocations(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	reports, err := ctrl.filteredSet(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"clusters": ctrl.AnalyticsService.TopLocations(reports, limit)})
}

// GetQuickStats returns the dashboard header cards for the admin view
func (ctrl *AnalyticsController) GetQuickStats(c *fiber.Ctx) error {
	reports, err := ctrl.ReportService.ListReports(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(ctrl.AnalyticsService.QuickStats(reports, time.Now()))
}

// GetSupervisorStats returns the supervisor dashboard cards over their scoped set
func (ctrl *AnalyticsController) GetSupervisorStats(c *fiber.Ctx) error {
	claims := middleware.Claims(c)

	reports, err := ctrl.ReportService.ListSupervisorReports(c.Context(), claims)
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	}

	overdueAfter := time.Duration(ctrl.Config.OverdueAfterHours) * time.Hour
	return c.JSON(ctrl.AnalyticsService.SupervisorStats(reports, time.Now(), overdueAfter))
}
