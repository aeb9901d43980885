package reservation

import (
	"fmt"
	"time"

	"github.com/BruksfildServices01/barber-reservations/internal/httperr"
	"github.com/BruksfildServices01/barber-reservations/internal/models"
)

const hourMinute = "15:04"

func parseHM(day time.Time, hm string) (time.Time, error) {
	t, err := time.Parse(hourMinute, hm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(
		day.Year(), day.Month(), day.Day(),
		t.Hour(), t.Minute(), 0, 0,
		day.Location(),
	), nil
}

// WorkingWindows returns the bookable parts of one working day: the shift
// minus the lunch break. day carries the barber's location.
func WorkingWindows(wh *models.WorkingHours, day time.Time) []Interval {
	if wh == nil || !wh.Active || wh.StartTime == "" || wh.EndTime == "" {
		return nil
	}

	start, err1 := parseHM(day, wh.StartTime)
	end, err2 := parseHM(day, wh.EndTime)
	if err1 != nil || err2 != nil || !start.Before(end) {
		return nil
	}

	if !wh.HasLunch() {
		return []Interval{{Start: start, End: end}}
	}

	lunchStart, err1 := parseHM(day, wh.LunchStart)
	lunchEnd, err2 := parseHM(day, wh.LunchEnd)
	if err1 != nil || err2 != nil {
		return []Interval{{Start: start, End: end}}
	}

	var out []Interval
	if before := (Interval{Start: start, End: lunchStart}); !before.Empty() {
		out = append(out, before)
	}
	if after := (Interval{Start: lunchEnd, End: end}); !after.Empty() {
		out = append(out, after)
	}
	return out
}

// RangeWindows expands weekly hours into concrete windows clipped to w.
func RangeWindows(hours []models.WorkingHours, w Interval, loc *time.Location) []Interval {
	byDay := make(map[time.Weekday]*models.WorkingHours, len(hours))
	for i := range hours {
		byDay[time.Weekday(hours[i].Weekday)] = &hours[i]
	}

	start := w.Start.In(loc)
	var out []Interval
	for day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc); day.Before(w.End); day = day.AddDate(0, 0, 1) {
		for _, win := range WorkingWindows(byDay[day.Weekday()], day) {
			if clipped, ok := win.Clip(w); ok {
				out = append(out, clipped)
			}
		}
	}
	return out
}

// IsWithinWorkingHours reports whether slot fits entirely inside one window
// of its day. A barber without any configured hours is always available.
func IsWithinWorkingHours(hours []models.WorkingHours, slot Interval, loc *time.Location) bool {
	if len(hours) == 0 {
		return true
	}

	// Windows come back clipped to slot, so only a window that fully
	// contains it survives unchanged.
	for _, win := range RangeWindows(hours, slot, loc) {
		if win.Contains(slot) {
			return true
		}
	}
	return false
}

func ValidateWorkingHours(wh models.WorkingHours) error {
	fields := map[string]string{}

	if wh.Weekday < 0 || wh.Weekday > 6 {
		fields["weekday"] = "must be between 0 and 6"
	}

	day := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	check := func(name, v string, required bool) time.Time {
		if v == "" {
			if required {
				fields[name] = "required"
			}
			return time.Time{}
		}
		t, err := parseHM(day, v)
		if err != nil {
			fields[name] = fmt.Sprintf("invalid time %q, expected HH:MM", v)
		}
		return t
	}

	start := check("start_time", wh.StartTime, wh.Active)
	end := check("end_time", wh.EndTime, wh.Active)
	lunchStart := check("lunch_start", wh.LunchStart, wh.LunchEnd != "")
	lunchEnd := check("lunch_end", wh.LunchEnd, wh.LunchStart != "")

	if len(fields) == 0 && wh.Active && !start.Before(end) {
		fields["end_time"] = "must be after start_time"
	}
	if len(fields) == 0 && wh.HasLunch() && (!lunchStart.Before(lunchEnd) || lunchStart.Before(start) || lunchEnd.After(end)) {
		fields["lunch_start"] = "lunch must be inside the working hours"
	}

	if len(fields) > 0 {
		return httperr.Validation("invalid_working_hours", fields)
	}
	return nil
}
