// Package service owns the application state: the signed-in artist
// identity and the in-memory booking collection, with an explicit
// load-at-start / persist-after-mutation boundary against device storage.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"inkbook/internal/events"
	"inkbook/internal/model"
	"inkbook/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	// ErrNoEquipment blocks a save with an empty equipment subset.
	ErrNoEquipment = errors.New("select at least one equipment item")
	// ErrNotOwner guards edit and delete to the owning artist.
	ErrNotOwner = errors.New("booking belongs to another artist")
	ErrNotFound = errors.New("booking not found")
	// ErrBadData marks a malformed persisted or imported snapshot; the
	// store keeps its last-good value when this is returned.
	ErrBadData  = errors.New("bad booking data")
	ErrNoArtist = errors.New("no artist signed in")
)

// FormInput carries the mutable fields of the booking form.
type FormInput struct {
	Date       string
	StartTime  string
	EndTime    string
	Equipments []model.Equipment
	Notes      string
}

// BookingService mediates every read and mutation of the booking store.
type BookingService struct {
	db       *storage.DB
	bus      *events.Bus
	logger   *zerolog.Logger
	artist   string
	bookings []model.Booking
}

// New constructs a service over the given storage. Call Load before use.
func New(db *storage.DB, bus *events.Bus, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		db:       db,
		bus:      bus,
		logger:   logger,
		bookings: make([]model.Booking, 0),
	}
}

// Load reads the identity and booking snapshot from device storage.
// A malformed snapshot yields ErrBadData and leaves the in-memory store
// at its last-good value; it never crashes the process.
func (s *BookingService) Load(ctx context.Context) error {
	artist, _, err := s.db.Get(ctx, storage.KeyArtist)
	if err != nil {
		return err
	}
	s.artist = artist

	raw, found, err := s.db.Get(ctx, storage.KeyBookings)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	bookings, err := model.ParseBookings([]byte(raw))
	if err != nil {
		s.logger.Error().Err(err).Msg("persisted bookings are malformed, keeping last-good store")
		return fmt.Errorf("%w: %v", ErrBadData, err)
	}
	s.bookings = bookings
	s.logger.Info().Int("count", len(bookings)).Msg("Bookings loaded")
	return nil
}

// Artist returns the signed-in artist name, empty when logged out.
func (s *BookingService) Artist() string {
	return s.artist
}

// Login stores the artist identity.
func (s *BookingService) Login(ctx context.Context, name string) error {
	if name == "" {
		return ErrNoArtist
	}
	if err := s.db.Set(ctx, storage.KeyArtist, name); err != nil {
		return err
	}
	s.artist = name
	s.logger.Info().Str("artist", name).Msg("Signed in")
	return nil
}

// Logout clears the identity key. Bookings stay on the device.
func (s *BookingService) Logout(ctx context.Context) error {
	if err := s.db.Del(ctx, storage.KeyArtist); err != nil {
		return err
	}
	s.artist = ""
	return nil
}

func (s *BookingService) persist(ctx context.Context, next []model.Booking) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode bookings: %w", err)
	}
	if err := s.db.Set(ctx, storage.KeyBookings, string(data)); err != nil {
		return err
	}
	s.bookings = next
	return nil
}

func validateForm(form FormInput) error {
	if len(form.Equipments) == 0 {
		return ErrNoEquipment
	}
	candidate := model.Booking{
		ID:         "candidate",
		ArtistName: "candidate",
		Date:       form.Date,
		StartTime:  form.StartTime,
		EndTime:    form.EndTime,
		Equipments: form.Equipments,
	}
	return candidate.Validate()
}

// Create assigns a new id and creation timestamp and appends the booking.
// The whole collection is persisted synchronously before the in-memory
// state changes; a failed save mutates nothing.
func (s *BookingService) Create(ctx context.Context, form FormInput) (model.Booking, error) {
	if s.artist == "" {
		return model.Booking{}, ErrNoArtist
	}
	if err := validateForm(form); err != nil {
		return model.Booking{}, err
	}

	b := model.Booking{
		ID:         uuid.NewString(),
		ArtistName: s.artist,
		Date:       form.Date,
		StartTime:  form.StartTime,
		EndTime:    form.EndTime,
		Equipments: form.Equipments,
		Notes:      form.Notes,
		CreatedAt:  time.Now().UnixMilli(),
	}

	next := make([]model.Booking, 0, len(s.bookings)+1)
	next = append(next, s.bookings...)
	next = append(next, b)
	if err := s.persist(ctx, next); err != nil {
		return model.Booking{}, err
	}

	s.bus.Publish(events.Event{Type: events.TypeBookingCreated, Booking: b, Count: len(next)})
	return b, nil
}

// Update replaces every mutable field of the booking with the given id.
// ID, owning artist and creation timestamp are preserved. Only the
// owning artist may edit.
func (s *BookingService) Update(ctx context.Context, id string, form FormInput) (model.Booking, error) {
	if s.artist == "" {
		return model.Booking{}, ErrNoArtist
	}
	idx := s.indexOf(id)
	if idx < 0 {
		return model.Booking{}, ErrNotFound
	}
	if s.bookings[idx].ArtistName != s.artist {
		return model.Booking{}, ErrNotOwner
	}
	if err := validateForm(form); err != nil {
		return model.Booking{}, err
	}

	next := append([]model.Booking(nil), s.bookings...)
	b := next[idx]
	b.Date = form.Date
	b.StartTime = form.StartTime
	b.EndTime = form.EndTime
	b.Equipments = form.Equipments
	b.Notes = form.Notes
	next[idx] = b
	if err := s.persist(ctx, next); err != nil {
		return model.Booking{}, err
	}

	s.bus.Publish(events.Event{Type: events.TypeBookingUpdated, Booking: b, Count: len(next)})
	return b, nil
}

// Delete removes the booking with the given id. Only the owning artist
// may delete; the confirmation step is the caller's responsibility.
func (s *BookingService) Delete(ctx context.Context, id string) error {
	if s.artist == "" {
		return ErrNoArtist
	}
	idx := s.indexOf(id)
	if idx < 0 {
		return ErrNotFound
	}
	if s.bookings[idx].ArtistName != s.artist {
		return ErrNotOwner
	}

	removed := s.bookings[idx]
	next := make([]model.Booking, 0, len(s.bookings)-1)
	next = append(next, s.bookings[:idx]...)
	next = append(next, s.bookings[idx+1:]...)
	if err := s.persist(ctx, next); err != nil {
		return err
	}

	s.bus.Publish(events.Event{Type: events.TypeBookingDeleted, Booking: removed, Count: len(next)})
	return nil
}

func (s *BookingService) indexOf(id string) int {
	for i := range s.bookings {
		if s.bookings[i].ID == id {
			return i
		}
	}
	return -1
}

// Get returns the booking with the given id.
func (s *BookingService) Get(id string) (model.Booking, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return model.Booking{}, ErrNotFound
	}
	return s.bookings[idx], nil
}

// DayBookings returns the bookings for a date, sorted by start time.
func (s *BookingService) DayBookings(date string) []model.Booking {
	var day []model.Booking
	for _, b := range s.bookings {
		if b.Date == date {
			day = append(day, b)
		}
	}
	sort.Slice(day, func(i, j int) bool { return day[i].StartTime < day[j].StartTime })
	return day
}

// MyBookings returns the signed-in artist's bookings, newest date first.
func (s *BookingService) MyBookings() []model.Booking {
	var mine []model.Booking
	for _, b := range s.bookings {
		if b.ArtistName == s.artist {
			mine = append(mine, b)
		}
	}
	sort.Slice(mine, func(i, j int) bool {
		if mine[i].Date != mine[j].Date {
			return mine[i].Date > mine[j].Date
		}
		return mine[i].StartTime > mine[j].StartTime
	})
	return mine
}

// All returns every booking in the studio, chronological.
func (s *BookingService) All() []model.Booking {
	all := append([]model.Booking(nil), s.bookings...)
	sort.Slice(all, func(i, j int) bool {
		if all[i].Date != all[j].Date {
			return all[i].Date < all[j].Date
		}
		return all[i].StartTime < all[j].StartTime
	})
	return all
}

// ExportJSON serializes the full booking collection for manual exchange.
func (s *BookingService) ExportJSON() ([]byte, error) {
	data, err := json.Marshal(s.bookings)
	if err != nil {
		return nil, fmt.Errorf("encode bookings: %w", err)
	}
	return data, nil
}

// ImportJSON wholesale-replaces the store with a pasted snapshot. The
// snapshot is parsed and validated first; on any failure the existing
// store is left untouched.
func (s *BookingService) ImportJSON(ctx context.Context, data []byte) (int, error) {
	bookings, err := model.ParseBookings(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadData, err)
	}
	if bookings == nil {
		bookings = make([]model.Booking, 0)
	}
	if err := s.persist(ctx, bookings); err != nil {
		return 0, err
	}

	s.bus.Publish(events.Event{Type: events.TypeStoreImported, Count: len(bookings)})
	return len(bookings), nil
}
