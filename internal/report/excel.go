package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ExportWorkbook writes the current registry state as an .xlsx workbook:
// a summary sheet with per-room availability and a bookings sheet with
// one row per workspace.
func (s *Service) ExportWorkbook(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	now := s.source.Now()

	f.SetSheetName("Sheet1", "Summary")
	if err := writeRows(f, "Summary",
		[]string{"Room", "Workspaces", "Available"},
		s.summaryRows()); err != nil {
		return err
	}

	if _, err := f.NewSheet("Bookings"); err != nil {
		return fmt.Errorf("create bookings sheet: %w", err)
	}
	var bookings [][]interface{}
	for _, r := range s.source.Rooms() {
		snap := r.Snapshot(now)
		for _, ws := range snap.Workspaces {
			row := []interface{}{snap.Name, ws.ID, ws.Booked, ws.BookedBy}
			if ws.BookingTime != nil {
				row = append(row, ws.BookingTime.Format("2006-01-02 15:04"), ws.Expired)
			} else {
				row = append(row, "", false)
			}
			bookings = append(bookings, row)
		}
	}
	if err := writeRows(f, "Bookings",
		[]string{"Room", "Workspace", "Booked", "User", "Time", "Expired"},
		bookings); err != nil {
		return err
	}

	return f.Write(w)
}

func (s *Service) summaryRows() [][]interface{} {
	var rows [][]interface{}
	for _, r := range s.source.Rooms() {
		snap := r.Snapshot(s.source.Now())
		rows = append(rows, []interface{}{snap.Name, len(snap.Workspaces), snap.Available})
	}
	return rows
}

func writeRows(f *excelize.File, sheet string, header []string, rows [][]interface{}) error {
	if err := writeRow(f, sheet, 1, toAny(header)); err != nil {
		return err
	}
	// Bold header, best effort.
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		start, _ := excelize.CoordinatesToCellName(1, 1)
		end, _ := excelize.CoordinatesToCellName(len(header), 1)
		_ = f.SetCellStyle(sheet, start, end, style)
	}

	for i, row := range rows {
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []interface{}) error {
	for i, val := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, val); err != nil {
			return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func toAny(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
