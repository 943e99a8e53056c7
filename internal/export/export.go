// Package export writes list pages out as xlsx workbooks.
package export

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/vbonduro/cmsadmin/internal/domain"
)

// Column is one spreadsheet column: a header and the cell value of a row.
type Column[T any] struct {
	Header string
	Width  float64
	Value  func(T) any
}

// Write renders rows into a single-sheet workbook with a bold header row and
// writes it to w.
func Write[T any](w io.Writer, sheet string, cols []Column[T], rows []T) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c.Header
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(cols), 1)
	if err != nil {
		return fmt.Errorf("failed to address header: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, c := range cols {
		if c.Width <= 0 {
			continue
		}
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("failed to address column: %w", err)
		}
		if err := f.SetColWidth(sheet, name, name, c.Width); err != nil {
			return fmt.Errorf("failed to size column %s: %w", c.Header, err)
		}
	}

	for r, row := range rows {
		values := make([]any, len(cols))
		for i, c := range cols {
			values[i] = c.Value(row)
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return fmt.Errorf("failed to address row: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r+1, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

const dateLayout = "2006-01-02 15:04"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func ApplicationColumns() []Column[domain.JobApplication] {
	return []Column[domain.JobApplication]{
		{Header: "Applicant", Width: 24, Value: func(a domain.JobApplication) any { return a.FullName() }},
		{Header: "Email", Width: 28, Value: func(a domain.JobApplication) any { return a.Email }},
		{Header: "Phone", Width: 16, Value: func(a domain.JobApplication) any { return a.Phone }},
		{Header: "Position", Width: 24, Value: func(a domain.JobApplication) any { return a.Job.Title }},
		{Header: "Status", Width: 20, Value: func(a domain.JobApplication) any { return a.Status.Display().Label }},
		{Header: "Priority", Width: 10, Value: func(a domain.JobApplication) any { return a.Priority.Display().Label }},
		{Header: "Rating", Width: 8, Value: func(a domain.JobApplication) any {
			if a.Rating == nil {
				return ""
			}
			return strconv.Itoa(*a.Rating)
		}},
		{Header: "Applied", Width: 18, Value: func(a domain.JobApplication) any { return formatTime(a.CreatedAt) }},
	}
}

func InquiryColumns() []Column[domain.DealershipInquiry] {
	return []Column[domain.DealershipInquiry]{
		{Header: "Company", Width: 28, Value: func(q domain.DealershipInquiry) any { return q.CompanyName }},
		{Header: "Contact", Width: 22, Value: func(q domain.DealershipInquiry) any { return q.ContactName }},
		{Header: "Email", Width: 28, Value: func(q domain.DealershipInquiry) any { return q.Email }},
		{Header: "Phone", Width: 16, Value: func(q domain.DealershipInquiry) any { return q.Phone }},
		{Header: "City", Width: 16, Value: func(q domain.DealershipInquiry) any { return q.City }},
		{Header: "State", Width: 16, Value: func(q domain.DealershipInquiry) any { return q.State }},
		{Header: "Status", Width: 14, Value: func(q domain.DealershipInquiry) any { return q.Status.Display().Label }},
		{Header: "Priority", Width: 10, Value: func(q domain.DealershipInquiry) any { return q.Priority.Display().Label }},
		{Header: "Received", Width: 18, Value: func(q domain.DealershipInquiry) any { return formatTime(q.CreatedAt) }},
		{Header: "Resolved", Width: 18, Value: func(q domain.DealershipInquiry) any {
			if q.ResolvedAt == nil {
				return ""
			}
			return formatTime(*q.ResolvedAt)
		}},
	}
}
