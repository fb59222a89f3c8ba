package report

import (
	"errors"
	"time"

	"go-civic/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ReportController struct {
	ReportService ReportService
	Cache         *FilterCache
	Version       *SnapshotVersion
}

func NewReportController(reportService ReportService, version *SnapshotVersion) *ReportController {
	return &ReportController{
		ReportService: reportService,
		Cache:         NewFilterCache(),
		Version:       version,
	}
}

// FiltersFromQuery builds a filter configuration from the request query. A
// "preset" parameter seeds the configuration (URL-driven quick filters);
// explicit axis parameters then override it.
func FiltersFromQuery(c *fiber.Ctx) Filters {
	filters, _ := Preset(c.Query("preset"))

	if v := c.Query("date_range"); v != "" {
		filters.DateRange = DateRange(v)
	}
	if v := c.Query("issue_type"); v != "" {
		filters.IssueType = IssueType(v)
	}
	if v := c.Query("status"); v != "" {
		filters.Status = ReportStatus(v)
	}
	if v := c.Query("dept"); v != "" {
		filters.Department = Department(v)
	}
	if v := c.Query("search"); v != "" {
		filters.Search = v
	}

	return filters
}

func mutationStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return fiber.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, ErrReportNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrInvalidDepartment),
		errors.Is(err, ErrNoAssignmentFields),
		errors.Is(err, ErrEmptyNote):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// List returns the admin reports table: newest page, filtered in memory
func (ctrl *ReportController) List(c *fiber.Ctx) error {
	reports, err := ctrl.ReportService.ListReports(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	filtered := ctrl.Cache.Apply(ctrl.Version.Current(), reports, FiltersFromQuery(c), time.Now())
	return c.JSON(fiber.Map{
		"reports": filtered,
		"total":   len(reports),
		"matched": len(filtered),
	})
}

// ListForMap returns the map view's set: located reports only
func (ctrl *ReportController) ListForMap(c *fiber.Ctx) error {
	reports, err := ctrl.ReportService.ListReports(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	filters := FiltersFromQuery(c)
	filters.RequireLocation = true
	filters.Search = "" // search is a table-only axis

	filtered := ctrl.Cache.Apply(ctrl.Version.Current(), reports, filters, time.Now())
	return c.JSON(fiber.Map{"reports": filtered, "matched": len(filtered)})
}

// ListForSupervisor returns the supervisor-scoped set
func (ctrl *ReportController) ListForSupervisor(c *fiber.Ctx) error {
	reports, err := ctrl.ReportService.ListSupervisorReports(c.Context(), middleware.Claims(c))
	if err != nil {
		return c.Status(mutationStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	filtered := Apply(reports, FiltersFromQuery(c), time.Now())
	return c.JSON(fiber.Map{
		"reports": filtered,
		"total":   len(reports),
		"matched": len(filtered),
	})
}

// Get returns a single report with its full status history
func (ctrl *ReportController) Get(c *fiber.Ctx) error {
	rep, err := ctrl.ReportService.GetReport(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrReportNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Report not found"})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(rep)
}

type statusRequest struct {
	Status ReportStatus `json:"status"`
	Note   string       `json:"note"`
}

// UpdateStatus moves a report through its lifecycle
func (ctrl *ReportController) UpdateStatus(c *fiber.Ctx) error {
	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	err := ctrl.ReportService.UpdateStatus(c.Context(), middleware.Claims(c), c.Params("id"), req.Status, req.Note)
	if err != nil {
		return c.Status(mutationStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true})
}

// UpdateStatusAsSupervisor is the supervisor console's status mutation
func (ctrl *ReportController) UpdateStatusAsSupervisor(c *fiber.Ctx) error {
	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	err := ctrl.ReportService.UpdateStatusAsSupervisor(c.Context(), middleware.Claims(c), c.Params("id"), req.Status, req.Note)
	if err != nil {
		return c.Status(mutationStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true})
}

type assignmentRequest struct {
	Dept     *Department `json:"dept"`
	Assignee *string     `json:"assignee"`
}

// UpdateAssignment routes a report to a department and/or a supervisor
func (ctrl *ReportController) UpdateAssignment(c *fiber.Ctx) error {
	var req assignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	err := ctrl.ReportService.UpdateAssignment(c.Context(), middleware.Claims(c), c.Params("id"), req.Dept, req.Assignee)
	if err != nil {
		return c.Status(mutationStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true})
}

type classificationRequest struct {
	Classification string `json:"classification"`
	Note           string `json:"note"`
}

// UpdateClassification labels a report
func (ctrl *ReportController) UpdateClassification(c *fiber.Ctx) error {
	var req classificationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	err := ctrl.ReportService.UpdateClassification(c.Context(), middleware.Claims(c), c.Params("id"), req.Classification, req.Note)
	if err != nil {
		return c.Status(mutationStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true})
}

type noteRequest struct {
	Note string `json:"note"`
}

// AddNote appends a supervisor note to the history
func (ctrl *ReportController) AddNote(c *fiber.Ctx) error {
	var req noteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	err := ctrl.ReportService.AddNote(c.Context(), middleware.Claims(c), c.Params("id"), req.Note)
	if err != nil {
		return c.Status(mutationStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true})
}
