package ui

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"inkbook/internal/events"
	"inkbook/internal/model"
	"inkbook/internal/service"
	"inkbook/internal/storage"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2024, time.May, 1, 12, 0, 0, 0, time.Local)
}

// runScript feeds the given lines to a fresh shell signed in as "A" and
// returns the produced output and the service for inspection.
func runScript(t *testing.T, script string) (string, *service.BookingService) {
	t.Helper()
	logger := zerolog.Nop()
	db, err := storage.NewDB(filepath.Join(t.TempDir(), "inkbook.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	svc := service.New(db, events.NewBus(), &logger)
	require.NoError(t, svc.Load(ctx))
	require.NoError(t, svc.Login(ctx, "A"))

	var out bytes.Buffer
	shell := New(svc, "14:00", "18:00", strings.NewReader(script), &out, &logger, fixedNow)
	require.NoError(t, shell.Run(ctx))
	return out.String(), svc
}

func TestShellAddBookingWithDefaults(t *testing.T) {
	out, svc := runScript(t, "add\n\n\n1\nfirst pass\nquit\n")

	assert.Contains(t, out, "saved")
	all := svc.All()
	require.Len(t, all, 1)
	assert.Equal(t, "2024-05-01", all[0].Date)
	assert.Equal(t, "14:00", all[0].StartTime)
	assert.Equal(t, "18:00", all[0].EndTime)
	assert.Equal(t, []model.Equipment{model.EquipmentBed}, all[0].Equipments)
	assert.Equal(t, "first pass", all[0].Notes)
}

func TestShellEmptyEquipmentBlocksSaveAndKeepsDraft(t *testing.T) {
	// First save attempt has no equipment; the form returns to the
	// equipment step with everything else intact.
	out, svc := runScript(t, "add\n15:00\n16:30\n\n\n2\n\nquit\n")

	assert.Contains(t, out, "select at least one equipment item")
	assert.Contains(t, out, "saved")
	all := svc.All()
	require.Len(t, all, 1)
	assert.Equal(t, "15:00", all[0].StartTime)
	assert.Equal(t, "16:30", all[0].EndTime)
	assert.Equal(t, []model.Equipment{model.EquipmentArmRest}, all[0].Equipments)
}

func TestShellInvertedWindowWarnsButSaves(t *testing.T) {
	out, svc := runScript(t, "add\n16:00\n14:00\n1\n\nquit\n")

	assert.Contains(t, out, "warning")
	require.Len(t, svc.All(), 1)
	assert.Equal(t, "16:00", svc.All()[0].StartTime)
}

func TestShellDeleteRequiresConfirmation(t *testing.T) {
	// Whether "a" resolves to the random uuid or not, answering "n"
	// (or hitting an unknown id) must leave the booking in place.
	_, svc := runScript(t, "add\n\n\n1\n\ndel a\nn\nquit\n")

	require.Len(t, svc.All(), 1, "unconfirmed delete must be a no-op")
}

func TestShellDeleteConfirmed(t *testing.T) {
	// Resolve the id in a second pass using its full value from the
	// first session's store.
	logger := zerolog.Nop()
	db, err := storage.NewDB(filepath.Join(t.TempDir(), "inkbook.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	svc := service.New(db, events.NewBus(), &logger)
	require.NoError(t, svc.Load(ctx))
	require.NoError(t, svc.Login(ctx, "A"))

	created, err := svc.Create(ctx, service.FormInput{
		Date:       "2024-05-01",
		StartTime:  "14:00",
		EndTime:    "16:00",
		Equipments: []model.Equipment{model.EquipmentBed},
	})
	require.NoError(t, err)

	var out bytes.Buffer
	script := "del " + created.ID + "\ny\nquit\n"
	shell := New(svc, "14:00", "18:00", strings.NewReader(script), &out, &logger, fixedNow)
	require.NoError(t, shell.Run(ctx))

	assert.Contains(t, out.String(), "deleted")
	assert.Empty(t, svc.All())
}

func TestShellDayViewShowsConflicts(t *testing.T) {
	logger := zerolog.Nop()
	db, err := storage.NewDB(filepath.Join(t.TempDir(), "inkbook.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	svc := service.New(db, events.NewBus(), &logger)
	require.NoError(t, svc.Load(ctx))
	require.NoError(t, svc.Login(ctx, "B"))
	_, err = svc.Create(ctx, service.FormInput{
		Date: "2024-05-01", StartTime: "15:00", EndTime: "17:00",
		Equipments: []model.Equipment{model.EquipmentBed},
	})
	require.NoError(t, err)
	require.NoError(t, svc.Login(ctx, "A"))
	_, err = svc.Create(ctx, service.FormInput{
		Date: "2024-05-01", StartTime: "14:00", EndTime: "16:00",
		Equipments: []model.Equipment{model.EquipmentBed},
	})
	require.NoError(t, err)

	var out bytes.Buffer
	shell := New(svc, "14:00", "18:00", strings.NewReader("day\nquit\n"), &out, &logger, fixedNow)
	require.NoError(t, shell.Run(ctx))

	assert.Contains(t, out.String(), "conflict")
	assert.Contains(t, out.String(), "2 booking(s) today")
	assert.Contains(t, out.String(), "your bookings: 1")
}

func TestShellGridRendersSixWeeks(t *testing.T) {
	out, _ := runScript(t, "grid\nquit\n")

	assert.Contains(t, out, "2024 / 05")
	assert.Contains(t, out, "[ 1]", "selected day is bracketed")
	// Six week rows plus title and weekday header.
	gridStart := strings.Index(out, "2024 / 05")
	require.GreaterOrEqual(t, gridStart, 0)
}

func TestShellSelectRejectsBadDate(t *testing.T) {
	out, svc := runScript(t, "sel 2024-13-40\nquit\n")
	assert.Contains(t, out, "2024-13-40")
	assert.Empty(t, svc.All())
}
