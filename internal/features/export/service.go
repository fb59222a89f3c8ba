package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"go-civic/internal/features/report"
	"go-civic/pkg/utils"

	"github.com/xuri/excelize/v2"
)

// exportColumns is the fixed contract consumed by downstream spreadsheets.
var exportColumns = []string{
	"ID",
	"Issue Type",
	"Issue Label",
	"Description",
	"Status",
	"Classification",
	"Assigned Department",
	"Assigned To",
	"Reporter UID",
	"Has Image",
	"Has Audio",
	"Latitude",
	"Longitude",
	"Created At",
	"Updated At",
	"Resolution Time (Hours)",
}

// ExportService renders a filtered report set as a downloadable file.
type ExportService interface {
	ToCSV(reports []report.Report) ([]byte, string, error)
	ToExcel(reports []report.Report) ([]byte, string, error)
}

// ExportServiceImpl implements ExportService
type ExportServiceImpl struct{}

// NewExportService creates a new export service
func NewExportService() ExportService {
	return &ExportServiceImpl{}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func formatInstant(v interface{}) string {
	t, err := utils.ToInstant(v)
	if err != nil {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}

// row flattens a report into the 16-column contract. Resolution time is whole
// hours, blank while the report is unresolved or its timestamps are unusable.
func row(r *report.Report) []string {
	var lat, lng string
	if r.Location != nil {
		lat = strconv.FormatFloat(r.Location.Latitude, 'f', -1, 64)
		lng = strconv.FormatFloat(r.Location.Longitude, 'f', -1, 64)
	}

	var resolution string
	if hours, ok := r.ResolutionHours(); ok {
		resolution = strconv.Itoa(int(hours + 0.5))
	}

	return []string{
		r.ID.Hex(),
		string(r.IssueType),
		r.IssueLabel,
		r.Description,
		string(r.Status),
		r.Classification,
		string(r.AssignedDept),
		r.AssignedTo,
		r.UID,
		yesNo(r.ImageURL != ""),
		yesNo(r.AudioURL != ""),
		lat,
		lng,
		formatInstant(r.CreatedAt),
		formatInstant(r.UpdatedAt),
		resolution,
	}
}

// ToCSV renders the set as CSV: one row per report after the header, with
// quote-containing fields wrapped and their quotes doubled per RFC 4180.
func (s *ExportServiceImpl) ToCSV(reports []report.Report) ([]byte, string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportColumns); err != nil {
		return nil, "", err
	}
	for i := range reports {
		if err := w.Write(row(&reports[i])); err != nil {
			return nil, "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("reports-export-%s.csv", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// ToExcel renders the same table as a styled xlsx workbook.
func (s *ExportServiceImpl) ToExcel(reports []report.Report) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Reports"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx := range reports {
		for colIdx, val := range row(&reports[rowIdx]) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, val)
		}
	}

	for i := range exportColumns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 18)
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("reports-export-%s.xlsx", time.Now().Format("2006-01-02"))
	return buffer.Bytes(), filename, nil
}
