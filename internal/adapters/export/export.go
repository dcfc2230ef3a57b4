// Package export renders integrity reports as downloadable documents.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/okian/vigil/internal/domain/types"
)

// BuildReportPDF renders a minimal PDF for an integrity report.
func BuildReportPDF(report *types.Report) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Interview Integrity Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Session: %s", report.SessionID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Candidate: %s", report.CandidateName))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Duration: %s", report.Duration))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Integrity Score: %d / 100", report.IntegrityScore))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Focus Lost: %d", report.FocusLostCount))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Events / Minute: %.2f", report.SessionStats.EventsPerMinute))
	pdf.Ln(8)

	// Events table
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(60, 6, "Time", "1", 0, "C", false, 0, "")
	pdf.CellFormat(80, 6, "Event", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, ev := range report.Events {
		pdf.CellFormat(60, 6, ev.Timestamp.Format(time.RFC3339), "1", 0, "C", false, 0, "")
		pdf.CellFormat(80, 6, ev.Event, "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildReportXLSX renders a minimal XLSX for an integrity report.
func BuildReportXLSX(report *types.Report) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "summary"
	eventsSheet := "events"
	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(eventsSheet); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(summarySheet, "A1", "Interview Integrity Report")
	_ = f.SetCellValue(summarySheet, "A3", "Session")
	_ = f.SetCellValue(summarySheet, "B3", report.SessionID)
	_ = f.SetCellValue(summarySheet, "A4", "Candidate")
	_ = f.SetCellValue(summarySheet, "B4", report.CandidateName)
	_ = f.SetCellValue(summarySheet, "A5", "Duration")
	_ = f.SetCellValue(summarySheet, "B5", report.Duration)
	_ = f.SetCellValue(summarySheet, "A6", "Integrity Score")
	_ = f.SetCellValue(summarySheet, "B6", report.IntegrityScore)
	_ = f.SetCellValue(summarySheet, "A7", "Focus Lost")
	_ = f.SetCellValue(summarySheet, "B7", report.FocusLostCount)
	_ = f.SetCellValue(summarySheet, "A8", "Total Events")
	_ = f.SetCellValue(summarySheet, "B8", report.SessionStats.TotalEvents)
	_ = f.SetCellValue(summarySheet, "A9", "Events / Minute")
	_ = f.SetCellValue(summarySheet, "B9", report.SessionStats.EventsPerMinute)

	_ = f.SetCellValue(eventsSheet, "A1", "Time")
	_ = f.SetCellValue(eventsSheet, "B1", "Event")
	_ = f.SetCellValue(eventsSheet, "C1", "Details")
	for i, ev := range report.Events {
		row := i + 2
		_ = f.SetCellValue(eventsSheet, fmt.Sprintf("A%d", row), ev.Timestamp.Format(time.RFC3339))
		_ = f.SetCellValue(eventsSheet, fmt.Sprintf("B%d", row), ev.Event)
		if ev.Details != nil {
			_ = f.SetCellValue(eventsSheet, fmt.Sprintf("C%d", row), fmt.Sprintf("%v", ev.Details))
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
