package reservation

import "time"

// MaxAvailabilityDays bounds a single availability query.
const MaxAvailabilityDays = 31

type AvailabilityInput struct {
	BarberID uint
	From     time.Time
	To       time.Time
	// ServiceID, when set, asks for bookable slot starts of that service.
	ServiceID *uint
}

type Availability struct {
	BarberID uint           `json:"barber_id"`
	Window   Interval       `json:"window"`
	Busy     []BusyInterval `json:"busy"`
	Free     []Interval     `json:"free"`
	Slots    []Interval     `json:"slots,omitempty"`
}

// DayRange converts an inclusive date range into [from 00:00, to+1 00:00)
// in loc.
func DayRange(from, to time.Time, loc *time.Location) Interval {
	from = from.In(loc)
	to = to.In(loc)
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)
	end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
	return Interval{Start: start, End: end}
}

// CalendarDay keeps the calendar date of t, ignoring its clock and zone,
// and anchors it at midnight in loc. Query parameters like "2025-06-25"
// parse as UTC and must be read as the barber's local day.
func CalendarDay(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
