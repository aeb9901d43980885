package reservation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/barber-reservations/internal/httperr"
	"github.com/BruksfildServices01/barber-reservations/internal/models"
)

// 2025-06-25 is a Wednesday.
var wednesday = models.WorkingHours{
	BarberID:   7,
	Weekday:    int(time.Wednesday),
	StartTime:  "09:00",
	EndTime:    "18:00",
	LunchStart: "12:00",
	LunchEnd:   "13:00",
	Active:     true,
}

func TestWorkingWindows_SplitsLunch(t *testing.T) {
	wins := WorkingWindows(&wednesday, at(0, 0))

	assert.Equal(t, []Interval{
		{Start: at(9, 0), End: at(12, 0)},
		{Start: at(13, 0), End: at(18, 0)},
	}, wins)
}

func TestWorkingWindows_Inactive(t *testing.T) {
	off := wednesday
	off.Active = false
	assert.Nil(t, WorkingWindows(&off, at(0, 0)))
	assert.Nil(t, WorkingWindows(nil, at(0, 0)))
}

func TestIsWithinWorkingHours(t *testing.T) {
	hours := []models.WorkingHours{wednesday}

	assert.True(t, IsWithinWorkingHours(hours, Interval{Start: at(14, 30), End: at(15, 0)}, time.UTC))
	assert.False(t, IsWithinWorkingHours(hours, Interval{Start: at(11, 45), End: at(12, 15)}, time.UTC), "crosses lunch")
	assert.False(t, IsWithinWorkingHours(hours, Interval{Start: at(17, 45), End: at(18, 15)}, time.UTC), "after closing")
	assert.False(t, IsWithinWorkingHours(hours, Interval{Start: at(14, 0).AddDate(0, 0, 1), End: at(14, 30).AddDate(0, 0, 1)}, time.UTC), "thursday not configured")
	assert.True(t, IsWithinWorkingHours(nil, Interval{Start: at(3, 0), End: at(4, 0)}, time.UTC), "no hours configured")
}

func TestRangeWindows_MultiDay(t *testing.T) {
	thursday := wednesday
	thursday.Weekday = int(time.Thursday)
	thursday.LunchStart, thursday.LunchEnd = "", ""

	w := DayRange(at(0, 0), at(0, 0).AddDate(0, 0, 2), time.UTC)
	wins := RangeWindows([]models.WorkingHours{wednesday, thursday}, w, time.UTC)

	assert.Len(t, wins, 3)
	assert.Equal(t, at(9, 0).AddDate(0, 0, 1), wins[2].Start)
}

func TestValidateWorkingHours(t *testing.T) {
	assert.NoError(t, ValidateWorkingHours(wednesday))
	assert.NoError(t, ValidateWorkingHours(models.WorkingHours{Weekday: 0}))

	bad := wednesday
	bad.EndTime = "08:00"
	assert.True(t, httperr.IsKind(ValidateWorkingHours(bad), httperr.KindValidation))

	bad = wednesday
	bad.LunchStart = "25:00"
	assert.Error(t, ValidateWorkingHours(bad))

	bad = wednesday
	bad.Weekday = 7
	assert.Error(t, ValidateWorkingHours(bad))
}
