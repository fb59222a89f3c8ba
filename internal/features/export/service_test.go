package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"go-civic/internal/features/report"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func exportFixture() []report.Report {
	created := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	return []report.Report{
		{
			ID:          primitive.NewObjectID(),
			UID:         "citizen-1",
			Description: `Pipe burst near the "old market" gate`,
			IssueType:   report.IssueWater,
			IssueLabel:  "Water Supply",
			Status:      report.StatusResolved,
			Location:    &report.GeoPoint{Latitude: 28.6139, Longitude: 77.209},
			ImageURL:    "https://example.com/a.jpg",
			CreatedAt:   created,
			StatusHistory: []report.StatusHistoryEntry{
				{Kind: report.HistoryKindStatus, Status: report.StatusResolved, ChangedAt: created.Add(5 * time.Hour)},
			},
		},
		{
			ID:          primitive.NewObjectID(),
			UID:         "citizen-2",
			Description: "Streetlight out",
			IssueType:   report.IssueElectricity,
			Status:      report.StatusSubmitted,
			CreatedAt:   created,
		},
	}
}

func TestToCSV(t *testing.T) {
	svc := NewExportService()
	reports := exportFixture()

	data, filename, err := svc.ToCSV(reports)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(filename, "reports-export-") || !strings.HasSuffix(filename, ".csv") {
		t.Errorf("unexpected filename %q", filename)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("output does not parse as CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("rows = %d, want header plus 2", len(records))
	}
	if len(records[0]) != 16 {
		t.Fatalf("columns = %d, want 16", len(records[0]))
	}
	if records[0][0] != "ID" || records[0][15] != "Resolution Time (Hours)" {
		t.Errorf("unexpected header: %v", records[0])
	}

	resolved := records[1]
	if resolved[3] != `Pipe burst near the "old market" gate` {
		t.Errorf("embedded quotes mangled: %q", resolved[3])
	}
	if resolved[9] != "Yes" || resolved[10] != "No" {
		t.Errorf("media flags = %s/%s, want Yes/No", resolved[9], resolved[10])
	}
	if resolved[11] != "28.6139" || resolved[12] != "77.209" {
		t.Errorf("coordinates = %s,%s", resolved[11], resolved[12])
	}
	if resolved[13] != "2025-06-10 09:00:00" {
		t.Errorf("created at = %q", resolved[13])
	}
	if resolved[15] != "5" {
		t.Errorf("resolution hours = %q, want 5", resolved[15])
	}

	unresolved := records[2]
	if unresolved[11] != "" || unresolved[12] != "" {
		t.Errorf("unlocated report should have blank coordinates: %v", unresolved)
	}
	if unresolved[15] != "" {
		t.Errorf("unresolved report should have blank resolution time, got %q", unresolved[15])
	}
}

func TestToCSVEmpty(t *testing.T) {
	data, _, err := NewExportService().ToCSV(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("output does not parse as CSV: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("empty export should be header-only, got %d rows", len(records))
	}
}

func TestToExcel(t *testing.T) {
	data, filename, err := NewExportService().ToExcel(exportFixture())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("unexpected filename %q", filename)
	}
	// xlsx files are zip archives
	if len(data) < 4 || data[0] != 'P' || data[1] != 'K' {
		t.Error("output is not a zip-based workbook")
	}
}
