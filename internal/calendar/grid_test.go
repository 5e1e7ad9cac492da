package calendar

import (
	"testing"
	"time"

	"inkbook/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthGridAlwaysFortyTwoCells(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month time.Month
	}{
		{"february leap year", 2024, time.February},
		{"february non-leap", 2023, time.February},
		{"month starting on sunday", 2024, time.September},
		{"31-day month starting late in the week", 2024, time.November},
		{"december year boundary", 2024, time.December},
		{"january year boundary", 2025, time.January},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cells := MonthGrid(tt.year, tt.month, "", nil, "")
			assert.Len(t, cells, GridSize)
		})
	}
}

func TestMonthGridShape(t *testing.T) {
	// May 2024: the 1st is a Wednesday, so three leading April days.
	cells := MonthGrid(2024, time.May, "", nil, "")
	require.Len(t, cells, GridSize)

	assert.False(t, cells[0].InMonth)
	assert.Equal(t, "2024-04-28", cells[0].Date)
	assert.Equal(t, 28, cells[0].Day)

	assert.True(t, cells[3].InMonth)
	assert.Equal(t, "2024-05-01", cells[3].Date)

	assert.True(t, cells[33].InMonth)
	assert.Equal(t, "2024-05-31", cells[33].Date)

	assert.False(t, cells[34].InMonth)
	assert.Equal(t, "2024-06-01", cells[34].Date)
	assert.Equal(t, 8, cells[41].Day)
}

func TestMonthGridNoLeadingFillWhenMonthStartsOnSunday(t *testing.T) {
	// September 2024 starts on a Sunday.
	cells := MonthGrid(2024, time.September, "", nil, "")
	require.Len(t, cells, GridSize)
	assert.True(t, cells[0].InMonth)
	assert.Equal(t, "2024-09-01", cells[0].Date)
}

func TestMonthGridSelection(t *testing.T) {
	countSelected := func(cells []DayCell) int {
		n := 0
		for _, c := range cells {
			if c.Selected {
				n++
			}
		}
		return n
	}

	t.Run("exactly one selected when in displayed month", func(t *testing.T) {
		cells := MonthGrid(2024, time.May, "2024-05-15", nil, "")
		assert.Equal(t, 1, countSelected(cells))
	})

	t.Run("zero selected when outside displayed range", func(t *testing.T) {
		cells := MonthGrid(2024, time.May, "2024-07-15", nil, "")
		assert.Equal(t, 0, countSelected(cells))
	})
}

func TestMonthGridBookingFlags(t *testing.T) {
	bookings := []model.Booking{
		{ID: "a", Date: "2024-05-01"},
		{ID: "b", Date: "2024-05-01"},
		{ID: "c", Date: "2024-05-20"},
	}
	cells := MonthGrid(2024, time.May, "", BookedDates(bookings), "")

	var flagged []string
	for _, c := range cells {
		if c.HasBooking {
			flagged = append(flagged, c.Date)
		}
	}
	assert.Equal(t, []string{"2024-05-01", "2024-05-20"}, flagged)
}

func TestMonthGridToday(t *testing.T) {
	cells := MonthGrid(2024, time.May, "", nil, "2024-05-07")
	for _, c := range cells {
		assert.Equal(t, c.Date == "2024-05-07", c.Today)
	}
}

func TestMonthTitle(t *testing.T) {
	assert.Equal(t, "2024 / 05", MonthTitle(2024, time.May))
	assert.Equal(t, "0999 / 12", MonthTitle(999, time.December))
}
