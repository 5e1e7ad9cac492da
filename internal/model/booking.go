package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Equipment identifies one shared studio resource. The set is closed:
// adding a resource means extending this enumeration.
type Equipment string

const (
	EquipmentBed       Equipment = "BED"
	EquipmentArmRest   Equipment = "ARM_REST"
	EquipmentInnerRoom Equipment = "INNER_ROOM"
)

// AllEquipment returns the enumeration in display order.
func AllEquipment() []Equipment {
	return []Equipment{EquipmentBed, EquipmentArmRest, EquipmentInnerRoom}
}

// ParseEquipment validates a raw identifier against the closed set.
func ParseEquipment(s string) (Equipment, error) {
	for _, e := range AllEquipment() {
		if s == string(e) {
			return e, nil
		}
	}
	return "", fmt.Errorf("unknown equipment %q", s)
}

// Booking is a reservation of one or more equipment items by one artist
// for one time window on one date. JSON field names follow the persisted
// exchange format, so exported snapshots remain interchangeable.
type Booking struct {
	ID         string      `json:"id"`
	ArtistName string      `json:"artistName"`
	Date       string      `json:"date"`      // YYYY-MM-DD, local calendar
	StartTime  string      `json:"startTime"` // HH:mm, zero-padded
	EndTime    string      `json:"endTime"`   // HH:mm, zero-padded
	Equipments []Equipment `json:"equipments"`
	Notes      string      `json:"notes,omitempty"`
	CreatedAt  int64       `json:"createdAt,omitempty"` // unix milliseconds, record-keeping only
}

const dateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string as a local calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, err
	}
	if t.Format(dateLayout) != s {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}

// FormatDate renders a local calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// ValidateClock checks an HH:mm string: zero-padded 24-hour clock on
// half-hour granularity. Zero-padding keeps the strings ordered
// lexicographically, which the overlap test depends on.
func ValidateClock(s string) error {
	if len(s) != 5 || s[2] != ':' {
		return fmt.Errorf("invalid time %q, want HH:mm", s)
	}
	var hour, minute int
	if _, err := fmt.Sscanf(s, "%02d:%02d", &hour, &minute); err != nil {
		return fmt.Errorf("invalid time %q: %w", s, err)
	}
	if hour < 0 || hour > 23 {
		return fmt.Errorf("invalid hour in %q", s)
	}
	if minute != 0 && minute != 30 {
		return fmt.Errorf("invalid minute in %q, bookings are on half-hour boundaries", s)
	}
	if fmt.Sprintf("%02d:%02d", hour, minute) != s {
		return fmt.Errorf("invalid time %q, want zero-padded HH:mm", s)
	}
	return nil
}

// Validate checks all fields of a booking. Inverted time ranges are not
// rejected here; see Inverted.
func (b *Booking) Validate() error {
	if b.ID == "" {
		return fmt.Errorf("missing id")
	}
	if b.ArtistName == "" {
		return fmt.Errorf("missing artist name")
	}
	if _, err := ParseDate(b.Date); err != nil {
		return err
	}
	if err := ValidateClock(b.StartTime); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	if err := ValidateClock(b.EndTime); err != nil {
		return fmt.Errorf("end: %w", err)
	}
	if len(b.Equipments) == 0 {
		return fmt.Errorf("at least one equipment item is required")
	}
	seen := make(map[Equipment]struct{}, len(b.Equipments))
	for _, e := range b.Equipments {
		if _, err := ParseEquipment(string(e)); err != nil {
			return err
		}
		if _, dup := seen[e]; dup {
			return fmt.Errorf("duplicate equipment %q", e)
		}
		seen[e] = struct{}{}
	}
	return nil
}

// Inverted reports a zero-width or backwards time window. Such bookings
// are stored and participate in overlap checks with their literal values;
// the UI warns about them at save time.
func (b *Booking) Inverted() bool {
	return b.StartTime >= b.EndTime
}

// HasEquipment reports whether the booking reserves the given item.
func (b *Booking) HasEquipment(e Equipment) bool {
	for _, have := range b.Equipments {
		if have == e {
			return true
		}
	}
	return false
}

// ParseBookings strictly decodes an exported booking snapshot. Any shape
// or field problem fails the whole parse; callers must leave their store
// untouched on error.
func ParseBookings(data []byte) ([]Booking, error) {
	var bookings []Booking
	if err := json.Unmarshal(data, &bookings); err != nil {
		return nil, fmt.Errorf("decode bookings: %w", err)
	}
	ids := make(map[string]struct{}, len(bookings))
	for i := range bookings {
		if err := bookings[i].Validate(); err != nil {
			return nil, fmt.Errorf("booking %d: %w", i, err)
		}
		if _, dup := ids[bookings[i].ID]; dup {
			return nil, fmt.Errorf("booking %d: duplicate id %q", i, bookings[i].ID)
		}
		ids[bookings[i].ID] = struct{}{}
	}
	return bookings, nil
}
