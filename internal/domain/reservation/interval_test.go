package reservation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-reservations/internal/models"
)

func at(hour, min int) time.Time {
	return time.Date(2025, 6, 25, hour, min, 0, 0, time.UTC)
}

func res(id uint, start time.Time, minutes int, st Status) models.Reservation {
	return models.Reservation{
		ID:          id,
		BarberID:    7,
		StartTime:   start,
		EndTime:     start.Add(time.Duration(minutes) * time.Minute),
		DurationMin: minutes,
		Status:      st,
		ServiceName: "cut",
	}
}

func assertSortedDisjoint(t *testing.T, busy []BusyInterval) {
	t.Helper()
	for i := 1; i < len(busy); i++ {
		assert.True(t, busy[i-1].End.Before(busy[i].Start), "interval %d touches or overlaps %d", i-1, i)
	}
}

func TestMergeBusy_UnionsOverlappingAndAdjacent(t *testing.T) {
	busy := MergeBusy([]models.Reservation{
		res(3, at(15, 0), 30, StatusPending),
		res(1, at(14, 30), 30, StatusConfirmed), // adjacent to #3
		res(4, at(17, 0), 60, StatusPending),
		res(5, at(17, 30), 15, StatusConfirmed), // inside #4
		res(6, at(9, 0), 60, StatusCancelled),   // not busy
		res(7, at(10, 0), 60, StatusDone),       // not busy
	})

	require.Len(t, busy, 2)
	assertSortedDisjoint(t, busy)

	assert.Equal(t, Interval{Start: at(14, 30), End: at(15, 30)}, busy[0].Interval)
	assert.Len(t, busy[0].Reservations, 2)
	assert.Equal(t, uint(1), busy[0].Reservations[0].ReservationID)

	assert.Equal(t, Interval{Start: at(17, 0), End: at(18, 0)}, busy[1].Interval)
	assert.Len(t, busy[1].Reservations, 2)
}

func TestMergeBusy_Empty(t *testing.T) {
	assert.Empty(t, MergeBusy(nil))
}

func TestMergeBusy_PropertySortedDisjoint(t *testing.T) {
	// Deterministic pseudo-random layouts.
	seed := uint32(7)
	next := func(n uint32) uint32 {
		seed = seed*1664525 + 1013904223
		return (seed >> 8) % n
	}

	for round := 0; round < 50; round++ {
		var rs []models.Reservation
		for i := 0; i < 20; i++ {
			start := at(8, 0).Add(time.Duration(next(600)) * time.Minute)
			rs = append(rs, res(uint(i+1), start, int(next(90))+5, StatusPending))
		}

		busy := MergeBusy(rs)
		assertSortedDisjoint(t, busy)

		tagged := 0
		for _, b := range busy {
			tagged += len(b.Reservations)
		}
		assert.Equal(t, len(rs), tagged)
	}
}

func TestClipBusy_KeepsTrueSlotsOnReservation(t *testing.T) {
	r := res(1, at(23, 30), 60, StatusConfirmed)
	window := Interval{Start: at(0, 0), End: at(0, 0).AddDate(0, 0, 1)}

	clipped := ClipBusy(MergeBusy([]models.Reservation{r}), window)

	require.Len(t, clipped, 1)
	assert.Equal(t, window.End, clipped[0].End)
	assert.Equal(t, at(23, 30).Add(time.Hour), r.EndTime)
}

func TestSubtract(t *testing.T) {
	windows := []Interval{
		{Start: at(9, 0), End: at(12, 0)},
		{Start: at(13, 0), End: at(18, 0)},
	}
	busy := MergeBusy([]models.Reservation{
		res(1, at(8, 30), 60, StatusPending),
		res(2, at(11, 30), 120, StatusConfirmed),
		res(3, at(15, 0), 30, StatusPending),
	})

	free := Subtract(windows, busy)

	assert.Equal(t, []Interval{
		{Start: at(9, 30), End: at(11, 30)},
		{Start: at(13, 30), End: at(15, 0)},
		{Start: at(15, 30), End: at(18, 0)},
	}, free)
}

func TestSubtract_NoBusyLeavesWindows(t *testing.T) {
	windows := []Interval{{Start: at(0, 0), End: at(23, 0)}}
	assert.Equal(t, windows, Subtract(windows, nil))
}

func TestSliceSlots(t *testing.T) {
	slots := SliceSlots([]Interval{
		{Start: at(9, 0), End: at(10, 10)},
		{Start: at(11, 0), End: at(11, 20)},
	}, 30*time.Minute)

	assert.Equal(t, []Interval{
		{Start: at(9, 0), End: at(9, 30)},
		{Start: at(9, 30), End: at(10, 0)},
	}, slots)
	assert.Nil(t, SliceSlots([]Interval{{Start: at(9, 0), End: at(10, 0)}}, 0))
}

func TestDayRange(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	r := DayRange(time.Date(2025, 6, 25, 15, 0, 0, 0, loc), time.Date(2025, 6, 26, 1, 0, 0, 0, loc), loc)

	assert.Equal(t, time.Date(2025, 6, 25, 0, 0, 0, 0, loc), r.Start)
	assert.Equal(t, time.Date(2025, 6, 27, 0, 0, 0, 0, loc), r.End)
}

func TestCalendarDay(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	day := CalendarDay(time.Date(2025, 6, 25, 0, 0, 0, 0, time.UTC), loc)

	assert.Equal(t, time.Date(2025, 6, 25, 0, 0, 0, 0, loc), day)
	assert.Equal(t, DayRange(day, day, loc).Start, day)
}
