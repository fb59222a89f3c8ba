package report

import (
	"strings"
	"sync"
	"time"
)

// DateRange names a lower-bound window on report creation time.
type DateRange string

const (
	RangeAll     DateRange = "all"
	RangeToday   DateRange = "today"
	RangeWeek    DateRange = "week"
	RangeMonth   DateRange = "month"
	RangeQuarter DateRange = "quarter"
	RangeYear    DateRange = "year"
)

// Filters is one view's filter configuration. Every axis is optional; the zero
// value (or the "all" sentinel) matches everything on that axis and the axes
// are ANDed together. Search applies only where the view wires it in (the
// reports table); RequireLocation is set by the map view, which never shows
// reports lacking coordinates.
type Filters struct {
	DateRange       DateRange
	IssueType       IssueType
	Status          ReportStatus
	Department      Department
	Search          string
	RequireLocation bool
}

// IsZero reports whether no axis is constrained.
func (f Filters) IsZero() bool {
	return f == Filters{}
}

// rangeStart computes the lower bound for rng relative to now. Today, month,
// quarter and year are calendar-aligned in now's location; week is a rolling
// 7x24h window. The asymmetry is inherited behavior the views rely on.
func rangeStart(rng DateRange, now time.Time) (time.Time, bool) {
	switch rng {
	case RangeToday:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), true
	case RangeWeek:
		return now.Add(-7 * 24 * time.Hour), true
	case RangeMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), true
	case RangeQuarter:
		quarterMonth := time.Month((int(now.Month())-1)/3*3 + 1)
		return time.Date(now.Year(), quarterMonth, 1, 0, 0, 0, 0, now.Location()), true
	case RangeYear:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()), true
	default:
		return time.Time{}, false
	}
}

// Match reports whether a single report satisfies every constrained axis.
func Match(r *Report, f Filters, now time.Time) bool {
	if f.RequireLocation && r.Location == nil {
		return false
	}

	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		if !strings.Contains(strings.ToLower(r.Description), term) &&
			!strings.Contains(strings.ToLower(r.IssueLabel), term) &&
			!strings.Contains(strings.ToLower(r.CustomIssue), term) {
			return false
		}
	}

	if f.IssueType != "" && f.IssueType != "all" && r.IssueType != f.IssueType {
		return false
	}

	if f.Status != "" && f.Status != "all" && r.Status != f.Status {
		return false
	}

	if f.Department != "" && f.Department != "all" && r.Dept() != f.Department {
		return false
	}

	if f.DateRange != "" && f.DateRange != RangeAll {
		start, ok := rangeStart(f.DateRange, now)
		if ok {
			created, err := r.CreatedTime()
			if err != nil {
				// Unparsable creation instant: exclude rather than guess
				return false
			}
			if created.Before(start) {
				return false
			}
		}
	}

	return true
}

// Apply filters a snapshot, preserving order. Pure; safe to recompute on every
// store event.
func Apply(reports []Report, f Filters, now time.Time) []Report {
	out := make([]Report, 0, len(reports))
	for i := range reports {
		if Match(&reports[i], f, now) {
			out = append(out, reports[i])
		}
	}
	return out
}

// Preset maps a URL filter preset to a configuration. Applied once on view
// load; unknown names report false and leave the view's filters alone.
func Preset(name string) (Filters, bool) {
	switch name {
	case "unresolved", "pending", "overdue":
		// The supervisor "overdue" preset narrows to submitted; the overdue
		// cutoff itself is a stats concern, not a filter axis.
		return Filters{Status: StatusSubmitted}, true
	case "today":
		return Filters{DateRange: RangeToday}, true
	case "all":
		return Filters{}, true
	default:
		return Filters{}, false
	}
}

// cacheKey includes the computed date-range lower bound so a cached subset
// dies with the window it was computed for. A today-filter cached before
// midnight gets a new key after midnight; rolling windows get a fresh bound
// on every evaluation and are effectively never cached.
type cacheKey struct {
	filters Filters
	start   time.Time
}

// FilterCache memoizes Apply results per snapshot generation. Mutations and
// live updates bump the generation, which drops every cached subset; repeated
// renders of the same snapshot under the same configuration reuse the cached
// slice. Purely a recomputation guard, correctness never depends on it.
type FilterCache struct {
	mu      sync.Mutex
	gen     uint64
	entries map[cacheKey][]Report
}

func NewFilterCache() *FilterCache {
	return &FilterCache{entries: make(map[cacheKey][]Report)}
}

// Apply returns the filtered subset for the given snapshot generation.
func (c *FilterCache) Apply(gen uint64, reports []Report, f Filters, now time.Time) []Report {
	start, _ := rangeStart(f.DateRange, now)
	key := cacheKey{filters: f, start: start.Round(0)}

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		c.gen = gen
		c.entries = make(map[cacheKey][]Report)
	} else if cached, ok := c.entries[key]; ok {
		return cached
	}

	out := Apply(reports, f, now)
	c.entries[key] = out
	return out
}
