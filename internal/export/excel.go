// Package export writes the full studio schedule as a spreadsheet, the
// shareable counterpart of the in-app schedule table.
package export

import (
	"fmt"
	"io"
	"strings"

	"inkbook/internal/model"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Schedule"

var columns = []string{"Artist", "Date", "Start", "End", "Equipment", "Notes"}

// ScheduleWriter builds the schedule workbook row by row.
type ScheduleWriter struct {
	file *excelize.File
	row  int
}

// NewScheduleWriter creates a workbook with the schedule sheet and its
// header in place.
func NewScheduleWriter() (*ScheduleWriter, error) {
	w := &ScheduleWriter{file: excelize.NewFile(), row: 1}
	w.file.SetSheetName("Sheet1", sheetName)

	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, w.row)
		if err != nil {
			return nil, err
		}
		if err := w.file.SetCellValue(sheetName, cell, col); err != nil {
			return nil, err
		}
	}

	// Bold header row
	style, err := w.file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		startCell, _ := excelize.CoordinatesToCellName(1, w.row)
		endCell, _ := excelize.CoordinatesToCellName(len(columns), w.row)
		_ = w.file.SetCellStyle(sheetName, startCell, endCell, style)
	}

	w.row++
	return w, nil
}

// Append writes one booking as a schedule row.
func (w *ScheduleWriter) Append(b model.Booking) error {
	items := make([]string, len(b.Equipments))
	for i, e := range b.Equipments {
		items[i] = string(e)
	}
	values := []interface{}{b.ArtistName, b.Date, b.StartTime, b.EndTime, strings.Join(items, ", "), b.Notes}

	for i, val := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, w.row)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(sheetName, cell, val); err != nil {
			return err
		}
	}

	w.row++
	return nil
}

// Save writes the workbook to the writer.
func (w *ScheduleWriter) Save(wr io.Writer) error {
	return w.file.Write(wr)
}

// SaveToFile writes the workbook to disk.
func (w *ScheduleWriter) SaveToFile(path string) error {
	return w.file.SaveAs(path)
}

// Close releases resources.
func (w *ScheduleWriter) Close() error {
	return w.file.Close()
}

// WriteSchedule renders the given bookings (already in display order)
// to an .xlsx file at path.
func WriteSchedule(path string, bookings []model.Booking) error {
	w, err := NewScheduleWriter()
	if err != nil {
		return fmt.Errorf("create schedule workbook: %w", err)
	}
	defer w.Close()

	for _, b := range bookings {
		if err := w.Append(b); err != nil {
			return fmt.Errorf("write schedule row: %w", err)
		}
	}
	return w.SaveToFile(path)
}
