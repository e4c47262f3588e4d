package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2026, 10, 14, 15, 4, 0, 0, time.UTC)

func at(hour, min int) time.Time {
	return time.Date(2026, 10, 14, hour, min, 0, 0, time.UTC)
}

func TestSlotFromDrag(t *testing.T) {
	g := DefaultGrid // 06:00-22:00, 60px per hour

	cases := []struct {
		name         string
		startY, endY float64
		from, to     time.Time
	}{
		{"exact hours", 120, 240, at(8, 0), at(10, 0)},
		{"snaps outward", 130, 200, at(8, 0), at(10, 0)},
		{"reversed drag", 200, 130, at(8, 0), at(10, 0)},
		{"click gives one hour", 75, 75, at(7, 0), at(8, 0)},
		{"above grid clamps", -50, 30, at(6, 0), at(7, 0)},
		{"below grid clamps", 900, 2000, at(21, 0), at(22, 0)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			slot, err := g.SlotFromDrag(day, tc.startY, tc.endY)
			require.NoError(t, err)
			assert.Equal(t, tc.from, slot.StartsAt)
			assert.Equal(t, tc.to, slot.EndsAt)
		})
	}

	_, err := Grid{DayStartHour: 10, DayEndHour: 9, PxPerHour: 60}.SlotFromDrag(day, 0, 10)
	assert.ErrorIs(t, err, ErrInvalidGrid)
}

func TestConflicts(t *testing.T) {
	shifts := []StaffShift{
		{ID: 1, StaffID: 7, StartsAt: at(8, 0), EndsAt: at(12, 0)},
		{ID: 2, StaffID: 7, StartsAt: at(11, 0), EndsAt: at(14, 0)},
		{ID: 3, StaffID: 7, StartsAt: at(14, 0), EndsAt: at(16, 0)}, // back-to-back with 2
		{ID: 4, StaffID: 9, StartsAt: at(8, 0), EndsAt: at(12, 0)},  // other staff
	}

	got := Conflicts(shifts)
	require.Len(t, got, 1)
	assert.Equal(t, Conflict{StaffID: 7, ShiftA: 1, ShiftB: 2}, got[0])

	assert.Empty(t, Conflicts(nil))
}

func TestFirstOverlapIgnoresSelf(t *testing.T) {
	existing := []StaffShift{{ID: 1, StaffID: 7, StartsAt: at(8, 0), EndsAt: at(12, 0)}}

	_, found := FirstOverlap(StaffShift{ID: 1, StaffID: 7, StartsAt: at(9, 0), EndsAt: at(13, 0)}, existing)
	assert.False(t, found)

	hit, found := FirstOverlap(StaffShift{StaffID: 7, StartsAt: at(9, 0), EndsAt: at(10, 0)}, existing)
	assert.True(t, found)
	assert.Equal(t, uint(1), hit.ID)
}

func TestWeekStart(t *testing.T) {
	// 2026-10-14 is a Wednesday
	assert.Equal(t, time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC), WeekStart(day))
	sunday := time.Date(2026, 10, 18, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC), WeekStart(sunday))
}

func TestHoursByStaff(t *testing.T) {
	staff := []Staff{{ID: 1, Name: "Maya", HourlyRate: 20}, {ID: 2, Name: "Leo", HourlyRate: 30}}
	shifts := []StaffShift{
		{StaffID: 2, StartsAt: at(8, 0), EndsAt: at(10, 30)},
		{StaffID: 1, StartsAt: at(8, 0), EndsAt: at(12, 0)},
		{StaffID: 1, StartsAt: at(13, 0), EndsAt: at(14, 0)},
	}
	got := HoursByStaff(staff, shifts)
	require.Len(t, got, 2)
	assert.Equal(t, "Maya", got[0].Name)
	assert.InDelta(t, 5, got[0].Hours, 0.001)
	assert.InDelta(t, 100, got[0].Cost, 0.001)
	assert.InDelta(t, 2.5, got[1].Hours, 0.001)
	assert.InDelta(t, 75, got[1].Cost, 0.001)
}
