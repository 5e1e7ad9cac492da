// Package conflict implements pairwise time and equipment conflict
// detection over the bookings of a single day.
package conflict

import (
	"fmt"
	"strings"

	"inkbook/internal/model"
)

// Conflict describes two bookings on the same day whose time windows
// overlap and whose equipment sets intersect.
type Conflict struct {
	FirstArtist  string
	SecondArtist string
	FirstID      string
	SecondID     string
	Shared       []model.Equipment
}

// String renders the conflict for the daily summary board.
func (c Conflict) String() string {
	items := make([]string, len(c.Shared))
	for i, e := range c.Shared {
		items[i] = string(e)
	}
	return fmt.Sprintf("equipment conflict: %s & %s over [%s]",
		c.FirstArtist, c.SecondArtist, strings.Join(items, ", "))
}

// Line is one entry of the daily summary board.
type Line struct {
	Text    string
	Warning bool
}

// timesOverlap applies the half-open interval test on HH:mm strings.
// Lexicographic comparison is valid because the strings are zero-padded
// and fixed-width. Touching endpoints do not overlap.
func timesOverlap(start1, end1, start2, end2 string) bool {
	return start1 < end2 && start2 < end1
}

func sharedEquipment(a, b *model.Booking) []model.Equipment {
	var shared []model.Equipment
	for _, e := range a.Equipments {
		if b.HasEquipment(e) {
			shared = append(shared, e)
		}
	}
	return shared
}

// Evaluate scans every unordered pair of the day's bookings and returns
// one conflict per pair that overlaps in time and shares equipment.
// Quadratic, which is fine for single-digit daily booking counts.
// Inverted or zero-width windows participate with their literal values.
func Evaluate(dayBookings []model.Booking) []Conflict {
	var conflicts []Conflict
	for i := range dayBookings {
		for j := i + 1; j < len(dayBookings); j++ {
			b1, b2 := &dayBookings[i], &dayBookings[j]
			if !timesOverlap(b1.StartTime, b1.EndTime, b2.StartTime, b2.EndTime) {
				continue
			}
			shared := sharedEquipment(b1, b2)
			if len(shared) == 0 {
				continue
			}
			conflicts = append(conflicts, Conflict{
				FirstArtist:  b1.ArtistName,
				SecondArtist: b2.ArtistName,
				FirstID:      b1.ID,
				SecondID:     b2.ID,
				Shared:       shared,
			})
		}
	}
	return conflicts
}

// Summarize builds the daily board: conflict warnings first, then the
// studio-wide count, then the current artist's own count when nonzero.
// The viewer identity only affects the personal count; conflicts cover
// every artist's bookings for the day.
func Summarize(dayBookings []model.Booking, currentArtist string) []Line {
	if len(dayBookings) == 0 {
		return []Line{{Text: "no bookings today"}}
	}

	var lines []Line
	for _, c := range Evaluate(dayBookings) {
		lines = append(lines, Line{Text: c.String(), Warning: true})
	}

	lines = append(lines, Line{Text: fmt.Sprintf("%d booking(s) today", len(dayBookings))})

	mine := 0
	for _, b := range dayBookings {
		if b.ArtistName == currentArtist {
			mine++
		}
	}
	if mine > 0 {
		lines = append(lines, Line{Text: fmt.Sprintf("your bookings: %d", mine)})
	}
	return lines
}
