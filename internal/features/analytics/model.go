package analytics

import (
	"go-civic/internal/features/report"
)

// StatusCount is one slice of the status distribution chart. Statuses with a
// zero count are omitted entirely.
type StatusCount struct {
	Status report.ReportStatus `json:"status"`
	Count  int                 `json:"count"`
}

// IssueTypeCount is one slice of the issue-type distribution chart.
type IssueTypeCount struct {
	IssueType report.IssueType `json:"issue_type"`
	Count     int              `json:"count"`
}

// Snapshot is the KPI block computed over one filtered report set.
type Snapshot struct {
	Total    int `json:"total"`
	Resolved int `json:"resolved"`
	// ResolutionRate is resolved/total as a whole percent, 0 on an empty set.
	ResolutionRate int `json:"resolution_rate"`
	// AvgResolutionHours is rounded to whole hours for the KPI cards.
	AvgResolutionHours int `json:"avg_resolution_hours"`

	StatusDistribution    []StatusCount    `json:"status_distribution"`
	IssueTypeDistribution []IssueTypeCount `json:"issue_type_distribution"`
}

// DailyPoint is one calendar-day bucket of the trailing series. A day with no
// matching reports is present with zeros, never omitted.
type DailyPoint struct {
	Date string `json:"date"` // yyyy-MM-dd, local calendar day
	// AvgResolutionHours averages reports first-resolved on this day, 1 decimal.
	AvgResolutionHours float64 `json:"avg_resolution_hours"`
	ResolvedCount      int     `json:"resolved_count"`
	SubmittedCount     int     `json:"submitted_count"`
}

// LocationCluster groups reports whose coordinates coincide after rounding to
// 3 decimal places (~111m).
type LocationCluster struct {
	Latitude  float64          `json:"latitude"`
	Longitude float64          `json:"longitude"`
	Count     int              `json:"count"`
	TopIssue  report.IssueType `json:"top_issue"`
}

// QuickStats backs the dashboard header cards.
type QuickStats struct {
	Total              int `json:"total"`
	Open               int `json:"open"` // anything not resolved
	Today              int `json:"today"`
	Last7Days          int `json:"last_7_days"`
	AvgResolutionHours int `json:"avg_resolution_hours"`
}

// SupervisorStats backs the supervisor dashboard cards.
type SupervisorStats struct {
	Total        int `json:"total"`
	Open         int `json:"open"`
	Overdue      int `json:"overdue"` // unresolved past the overdue threshold
	Today        int `json:"today"`
	Acknowledged int `json:"acknowledged"`
	InProgress   int `json:"in_progress"`
}
