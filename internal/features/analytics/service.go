package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"go-civic/internal/features/report"
)

// AnalyticsService derives view metrics from an already-filtered report
// snapshot. Every method is pure, synchronous and treats an empty input as a
// valid set producing zero/empty results; the store and subscription mechanism
// are invisible here.
type AnalyticsService interface {
	Snapshot(reports []report.Report) Snapshot
	DailySeries(reports []report.Report, days int, now time.Time) []DailyPoint
	TopLocations(reports []report.Report, limit int) []LocationCluster
	QuickStats(reports []report.Report, now time.Time) QuickStats
	SupervisorStats(reports []report.Report, now time.Time, overdueAfter time.Duration) SupervisorStats
}

// AnalyticsServiceImpl implements AnalyticsService
type AnalyticsServiceImpl struct{}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService() AnalyticsService {
	return &AnalyticsServiceImpl{}
}

// avgResolutionHours averages resolution time over the reports that qualify:
// resolved, both instants parsable, resolution not before creation. Malformed
// reports are skipped, never counted as negative time.
func avgResolutionHours(reports []report.Report) (float64, int) {
	var sum float64
	var qualifying int
	for i := range reports {
		if hours, ok := reports[i].ResolutionHours(); ok {
			sum += hours
			qualifying++
		}
	}
	if qualifying == 0 {
		return 0, 0
	}
	return sum / float64(qualifying), qualifying
}

// Snapshot computes the KPI block and both distributions.
func (s *AnalyticsServiceImpl) Snapshot(reports []report.Report) Snapshot {
	snap := Snapshot{Total: len(reports)}

	statusCounts := make(map[report.ReportStatus]int)
	statusOrder := []report.ReportStatus{}
	issueCounts := make(map[report.IssueType]int)
	issueOrder := []report.IssueType{}

	for i := range reports {
		r := &reports[i]
		if r.Status == report.StatusResolved {
			snap.Resolved++
		}

		if _, seen := statusCounts[r.Status]; !seen {
			statusOrder = append(statusOrder, r.Status)
		}
		statusCounts[r.Status]++

		issue := r.EffectiveIssueType()
		if _, seen := issueCounts[issue]; !seen {
			issueOrder = append(issueOrder, issue)
		}
		issueCounts[issue]++
	}

	if snap.Total > 0 {
		snap.ResolutionRate = int(math.Round(float64(snap.Resolved) / float64(snap.Total) * 100))
	}

	avg, qualifying := avgResolutionHours(reports)
	if qualifying > 0 {
		snap.AvgResolutionHours = int(math.Round(avg))
	}

	for _, status := range statusOrder {
		snap.StatusDistribution = append(snap.StatusDistribution, StatusCount{Status: status, Count: statusCounts[status]})
	}
	for _, issue := range issueOrder {
		snap.IssueTypeDistribution = append(snap.IssueTypeDistribution, IssueTypeCount{IssueType: issue, Count: issueCounts[issue]})
	}

	return snap
}

// DailySeries buckets the trailing `days` calendar days ending today. The
// result always has exactly `days` entries; empty days carry zeros.
func (s *AnalyticsServiceImpl) DailySeries(reports []report.Report, days int, now time.Time) []DailyPoint {
	if days <= 0 {
		return []DailyPoint{}
	}

	series := make([]DailyPoint, 0, days)
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	for d := days - 1; d >= 0; d-- {
		dayStart := todayStart.AddDate(0, 0, -d)
		dayEnd := dayStart.Add(24 * time.Hour)

		point := DailyPoint{Date: dayStart.Format("2006-01-02")}

		var sumHours float64
		var qualifying int
		for i := range reports {
			r := &reports[i]

			if created, err := r.CreatedTime(); err == nil {
				if !created.Before(dayStart) && created.Before(dayEnd) {
					point.SubmittedCount++
				}
			}

			entry := r.ResolvedEntry()
			if entry == nil {
				continue
			}
			resolved, err := entry.ChangedTime()
			if err != nil || resolved.Before(dayStart) || !resolved.Before(dayEnd) {
				continue
			}
			point.ResolvedCount++
			if hours, ok := r.ResolutionHours(); ok {
				sumHours += hours
				qualifying++
			}
		}

		if qualifying > 0 {
			point.AvgResolutionHours = math.Round(sumHours/float64(qualifying)*10) / 10
		}

		series = append(series, point)
	}

	return series
}

// TopLocations groups located reports by their coordinates rounded to 3
// decimal places, descending by member count, at most `limit` clusters. Ties
// keep first-seen order so the ranking is deterministic across recomputes.
func (s *AnalyticsServiceImpl) TopLocations(reports []report.Report, limit int) []LocationCluster {
	if limit <= 0 {
		limit = 10
	}

	type cluster struct {
		lat, lng float64
		members  []*report.Report
	}

	index := make(map[string]*cluster)
	order := []*cluster{}

	for i := range reports {
		r := &reports[i]
		if r.Location == nil {
			continue
		}

		lat := math.Round(r.Location.Latitude*1000) / 1000
		lng := math.Round(r.Location.Longitude*1000) / 1000
		key := fmt.Sprintf("%.3f,%.3f", lat, lng)

		c, ok := index[key]
		if !ok {
			c = &cluster{lat: lat, lng: lng}
			index[key] = c
			order = append(order, c)
		}
		c.members = append(c.members, r)
	}

	sort.SliceStable(order, func(a, b int) bool {
		return len(order[a].members) > len(order[b].members)
	})
	if len(order) > limit {
		order = order[:limit]
	}

	result := make([]LocationCluster, 0, len(order))
	for _, c := range order {
		result = append(result, LocationCluster{
			Latitude:  c.lat,
			Longitude: c.lng,
			Count:     len(c.members),
			TopIssue:  modeIssueType(c.members),
		})
	}
	return result
}

// modeIssueType finds the most common issue type among members; ties resolve
// to whichever type was seen first.
func modeIssueType(members []*report.Report) report.IssueType {
	counts := make(map[report.IssueType]int)
	order := []report.IssueType{}

	for _, r := range members {
		issue := r.EffectiveIssueType()
		if _, seen := counts[issue]; !seen {
			order = append(order, issue)
		}
		counts[issue]++
	}

	var top report.IssueType
	best := 0
	for _, issue := range order {
		if counts[issue] > best {
			top = issue
			best = counts[issue]
		}
	}
	return top
}

// QuickStats computes the dashboard header cards
func (s *AnalyticsServiceImpl) QuickStats(reports []report.Report, now time.Time) QuickStats {
	stats := QuickStats{Total: len(reports)}

	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	sevenDaysAgo := now.Add(-7 * 24 * time.Hour)

	for i := range reports {
		r := &reports[i]
		if r.Status != report.StatusResolved {
			stats.Open++
		}

		created, err := r.CreatedTime()
		if err != nil {
			continue
		}
		if !created.Before(todayStart) {
			stats.Today++
		}
		if !created.Before(sevenDaysAgo) {
			stats.Last7Days++
		}
	}

	avg, qualifying := avgResolutionHours(reports)
	if qualifying > 0 {
		stats.AvgResolutionHours = int(math.Round(avg))
	}

	return stats
}

// SupervisorStats computes the supervisor dashboard cards. A report is
// overdue when it is unresolved and was created more than overdueAfter ago.
func (s *AnalyticsServiceImpl) SupervisorStats(reports []report.Report, now time.Time, overdueAfter time.Duration) SupervisorStats {
	stats := SupervisorStats{Total: len(reports)}

	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	overdueCutoff := now.Add(-overdueAfter)

	for i := range reports {
		r := &reports[i]

		switch r.Status {
		case report.StatusResolved:
		case report.StatusAcknowledged:
			stats.Open++
			stats.Acknowledged++
		case report.StatusInProgress:
			stats.Open++
			stats.InProgress++
		default:
			stats.Open++
		}

		created, err := r.CreatedTime()
		if err != nil {
			continue
		}
		if !created.Before(todayStart) {
			stats.Today++
		}
		if r.Status != report.StatusResolved && created.Before(overdueCutoff) {
			stats.Overdue++
		}
	}

	return stats
}
