package ui

import (
	"fmt"
	"strings"

	"inkbook/internal/calendar"
	"inkbook/internal/conflict"
	"inkbook/internal/model"
)

var weekdayHeader = []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}

// renderGrid draws the fixed six-week month grid. Selected day in
// brackets, days with bookings marked with '*', today with '~',
// days outside the displayed month shown in parentheses.
func renderGrid(title string, cells []calendar.DayCell) string {
	var sb strings.Builder
	sb.WriteString("  " + title + "\n")
	sb.WriteString("  " + strings.Join(weekdayHeader, "    ") + "\n")

	for row := 0; row*7 < len(cells); row++ {
		for col := 0; col < 7; col++ {
			sb.WriteString(renderCell(cells[row*7+col]))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func renderCell(c calendar.DayCell) string {
	if !c.InMonth {
		return fmt.Sprintf("  (%2d)", c.Day)
	}
	mark := " "
	if c.HasBooking {
		mark = "*"
	}
	if c.Today {
		mark = "~"
	}
	if c.Selected {
		return fmt.Sprintf("  [%2d]", c.Day)
	}
	return fmt.Sprintf("   %2d%s", c.Day, mark)
}

// renderSummary prints the daily board, conflict warnings first.
func renderSummary(lines []conflict.Line) string {
	var sb strings.Builder
	for _, l := range lines {
		if l.Warning {
			sb.WriteString("  !! " + l.Text + "\n")
		} else {
			sb.WriteString("     " + l.Text + "\n")
		}
	}
	return sb.String()
}

// renderBooking prints one booking as a day-list entry.
func renderBooking(b model.Booking, viewer string) string {
	owner := " "
	if b.ArtistName == viewer {
		owner = ">"
	}
	line := fmt.Sprintf("  %s %s  %s-%s  %-12s %s",
		owner, shortID(b.ID), b.StartTime, b.EndTime, b.ArtistName, equipmentList(b.Equipments))
	if b.Notes != "" {
		line += fmt.Sprintf("\n      note: %s", b.Notes)
	}
	return line
}

// renderTable prints the whole-studio schedule table.
func renderTable(bookings []model.Booking, viewer string) string {
	if len(bookings) == 0 {
		return "  no bookings yet\n"
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("  %-10s %-12s %-12s %-11s %-28s %s\n",
		"DATE", "TIME", "ARTIST", "ID", "EQUIPMENT", "NOTES"))
	for _, b := range bookings {
		artist := b.ArtistName
		if artist == viewer {
			artist += " (you)"
		}
		sb.WriteString(fmt.Sprintf("  %-10s %s-%s  %-12s %-11s %-28s %s\n",
			b.Date, b.StartTime, b.EndTime, artist, shortID(b.ID), equipmentList(b.Equipments), b.Notes))
	}
	return sb.String()
}

func equipmentList(items []model.Equipment) string {
	names := make([]string, len(items))
	for i, e := range items {
		names[i] = string(e)
	}
	return strings.Join(names, ", ")
}

// shortID shows the first uuid group; commands accept any unique prefix.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
