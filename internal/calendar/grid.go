// Package calendar builds the fixed 6x7 month grid used by the
// scheduling views.
package calendar

import (
	"fmt"
	"time"

	"inkbook/internal/model"
)

// GridSize is the number of cells in a rendered month: six full weeks,
// so months spanning four, five or six calendar weeks all produce the
// same non-reflowing layout.
const GridSize = 42

// DayCell is one cell of the month grid.
type DayCell struct {
	Day        int    // day of month of the cell's own month
	Date       string // YYYY-MM-DD
	InMonth    bool   // belongs to the displayed month
	Selected   bool
	HasBooking bool
	Today      bool
}

// BookedDates reduces a booking list to the set of date strings that
// have at least one booking.
func BookedDates(bookings []model.Booking) map[string]bool {
	booked := make(map[string]bool, len(bookings))
	for _, b := range bookings {
		booked[b.Date] = true
	}
	return booked
}

// MonthGrid returns exactly GridSize cells for the given month: the tail
// of the previous month down to the Sunday column, the whole displayed
// month, then the head of the next month as padding. Date matching is by
// exact string equality, never timestamp comparison.
func MonthGrid(year int, month time.Month, selected string, booked map[string]bool, today string) []DayCell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	offset := int(first.Weekday()) // 0 = Sunday

	cells := make([]DayCell, 0, GridSize)

	// Previous-month tail. time.Date normalizes day 0 and overflow.
	for i := offset; i > 0; i-- {
		d := first.AddDate(0, 0, -i)
		cells = append(cells, DayCell{Day: d.Day(), Date: model.FormatDate(d)})
	}

	lastDay := first.AddDate(0, 1, -1).Day()
	for day := 1; day <= lastDay; day++ {
		d := time.Date(year, month, day, 0, 0, 0, 0, time.Local)
		dateStr := model.FormatDate(d)
		cells = append(cells, DayCell{
			Day:        day,
			Date:       dateStr,
			InMonth:    true,
			Selected:   dateStr == selected,
			HasBooking: booked[dateStr],
			Today:      dateStr == today,
		})
	}

	// Next-month head padding up to the fixed grid length.
	next := first.AddDate(0, 1, 0)
	for day := 1; len(cells) < GridSize; day++ {
		d := next.AddDate(0, 0, day-1)
		cells = append(cells, DayCell{Day: d.Day(), Date: model.FormatDate(d)})
	}

	return cells
}

// MonthTitle renders the "YYYY / MM" header of the grid.
func MonthTitle(year int, month time.Month) string {
	return fmt.Sprintf("%04d / %02d", year, int(month))
}
