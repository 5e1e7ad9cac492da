package conflict

import (
	"testing"

	"inkbook/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func booking(id, artist, start, end string, equips ...model.Equipment) model.Booking {
	return model.Booking{
		ID:         id,
		ArtistName: artist,
		Date:       "2024-05-01",
		StartTime:  start,
		EndTime:    end,
		Equipments: equips,
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		bookings []model.Booking
		want     int
	}{
		{
			name: "overlapping times with shared bed",
			bookings: []model.Booking{
				booking("a", "A", "14:00", "16:00", model.EquipmentBed),
				booking("b", "B", "15:00", "17:00", model.EquipmentBed),
			},
			want: 1,
		},
		{
			name: "overlapping times with disjoint equipment",
			bookings: []model.Booking{
				booking("a", "A", "14:00", "16:00", model.EquipmentBed),
				booking("b", "B", "15:00", "17:00", model.EquipmentArmRest),
			},
			want: 0,
		},
		{
			name: "back to back is not a conflict",
			bookings: []model.Booking{
				booking("a", "A", "14:00", "16:00", model.EquipmentBed),
				booking("b", "B", "16:00", "18:00", model.EquipmentBed),
			},
			want: 0,
		},
		{
			name: "disjoint equipment never conflicts regardless of times",
			bookings: []model.Booking{
				booking("a", "A", "10:00", "20:00", model.EquipmentInnerRoom),
				booking("b", "B", "10:00", "20:00", model.EquipmentArmRest),
			},
			want: 0,
		},
		{
			name: "one contained within the other",
			bookings: []model.Booking{
				booking("a", "A", "10:00", "20:00", model.EquipmentBed, model.EquipmentInnerRoom),
				booking("b", "B", "12:00", "13:00", model.EquipmentInnerRoom),
			},
			want: 1,
		},
		{
			name: "three way pile-up yields three pairs",
			bookings: []model.Booking{
				booking("a", "A", "14:00", "16:00", model.EquipmentBed),
				booking("b", "B", "14:30", "16:30", model.EquipmentBed),
				booking("c", "C", "15:00", "17:00", model.EquipmentBed),
			},
			want: 3,
		},
		{
			name: "zero-width window participates with literal values",
			bookings: []model.Booking{
				booking("a", "A", "14:00", "14:00", model.EquipmentBed),
				booking("b", "B", "13:00", "15:00", model.EquipmentBed),
			},
			want: 1, // the literal test still fires: 14:00 < 15:00 and 13:00 < 14:00
		},
		{
			name:     "empty day",
			bookings: nil,
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.bookings)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestEvaluateNamesBothArtistsAndSharedEquipment(t *testing.T) {
	day := []model.Booking{
		booking("a", "A", "14:00", "16:00", model.EquipmentBed, model.EquipmentArmRest),
		booking("b", "B", "15:00", "17:00", model.EquipmentBed, model.EquipmentInnerRoom),
	}

	conflicts := Evaluate(day)
	require.Len(t, conflicts, 1)

	c := conflicts[0]
	assert.Equal(t, "A", c.FirstArtist)
	assert.Equal(t, "B", c.SecondArtist)
	assert.Equal(t, []model.Equipment{model.EquipmentBed}, c.Shared)
	assert.Contains(t, c.String(), "A")
	assert.Contains(t, c.String(), "B")
	assert.Contains(t, c.String(), "BED")
}

func TestSummarizeEmptyDay(t *testing.T) {
	lines := Summarize(nil, "A")
	require.Len(t, lines, 1)
	assert.Equal(t, "no bookings today", lines[0].Text)
	assert.False(t, lines[0].Warning)
}

func TestSummarizeConflictsComeFirst(t *testing.T) {
	day := []model.Booking{
		booking("a", "A", "14:00", "16:00", model.EquipmentBed),
		booking("b", "B", "15:00", "17:00", model.EquipmentBed),
	}

	lines := Summarize(day, "A")
	require.Len(t, lines, 3)

	assert.True(t, lines[0].Warning)
	assert.Contains(t, lines[0].Text, "conflict")
	assert.Equal(t, "2 booking(s) today", lines[1].Text)
	assert.Equal(t, "your bookings: 1", lines[2].Text)
}

func TestSummarizePersonalCountOmittedWhenZero(t *testing.T) {
	day := []model.Booking{
		booking("a", "A", "14:00", "16:00", model.EquipmentBed),
	}

	lines := Summarize(day, "Z")
	require.Len(t, lines, 1)
	assert.Equal(t, "1 booking(s) today", lines[0].Text)
}

func TestSummarizeConflictsIgnoreViewer(t *testing.T) {
	day := []model.Booking{
		booking("a", "A", "14:00", "16:00", model.EquipmentBed),
		booking("b", "B", "15:00", "17:00", model.EquipmentBed),
	}

	// Same conflict set no matter who is looking.
	forA := Summarize(day, "A")
	forZ := Summarize(day, "Z")
	assert.Equal(t, forA[0], forZ[0])
}
