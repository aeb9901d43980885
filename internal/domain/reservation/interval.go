package reservation

import (
	"cmp"
	"slices"
	"time"

	"github.com/BruksfildServices01/barber-reservations/internal/models"
)

// Interval is the half-open range [Start, End).
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (i Interval) Empty() bool {
	return !i.Start.Before(i.End)
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

func (i Interval) Contains(o Interval) bool {
	return !o.Start.Before(i.Start) && !o.End.After(i.End)
}

// Clip returns the part of i inside w, and false when nothing is left.
func (i Interval) Clip(w Interval) (Interval, bool) {
	out := i
	if out.Start.Before(w.Start) {
		out.Start = w.Start
	}
	if out.End.After(w.End) {
		out.End = w.End
	}
	return out, !out.Empty()
}

// Slot is the interval a reservation claims.
func Slot(r *models.Reservation) Interval {
	return Interval{Start: r.StartTime, End: r.EndTime}
}

// SlotTag identifies a reservation absorbed into a busy interval.
type SlotTag struct {
	ReservationID uint   `json:"reservation_id"`
	Status        Status `json:"status"`
	ServiceName   string `json:"service_name"`
}

type BusyInterval struct {
	Interval
	Reservations []SlotTag `json:"reservations"`
}

// MergeBusy unions the slots of the active reservations in rs. Overlapping and
// adjacent slots collapse into one interval carrying every absorbed tag. The
// result is sorted by start and pairwise disjoint.
func MergeBusy(rs []models.Reservation) []BusyInterval {
	active := make([]models.Reservation, 0, len(rs))
	for _, r := range rs {
		if r.Status.Active() && r.StartTime.Before(r.EndTime) {
			active = append(active, r)
		}
	}

	slices.SortFunc(active, func(a, b models.Reservation) int {
		if c := a.StartTime.Compare(b.StartTime); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	var out []BusyInterval
	for _, r := range active {
		tag := SlotTag{ReservationID: r.ID, Status: r.Status, ServiceName: r.ServiceName}

		if n := len(out); n > 0 && !r.StartTime.After(out[n-1].End) {
			last := &out[n-1]
			if r.EndTime.After(last.End) {
				last.End = r.EndTime
			}
			last.Reservations = append(last.Reservations, tag)
			continue
		}

		out = append(out, BusyInterval{
			Interval:     Slot(&r),
			Reservations: []SlotTag{tag},
		})
	}

	return out
}

// ClipBusy trims busy intervals to the display window w. The reservations
// themselves keep their true slots.
func ClipBusy(busy []BusyInterval, w Interval) []BusyInterval {
	out := make([]BusyInterval, 0, len(busy))
	for _, b := range busy {
		clipped, ok := b.Interval.Clip(w)
		if !ok {
			continue
		}
		out = append(out, BusyInterval{Interval: clipped, Reservations: b.Reservations})
	}
	return out
}

// Subtract removes busy from windows. Both inputs must be sorted and
// internally disjoint.
func Subtract(windows []Interval, busy []BusyInterval) []Interval {
	var free []Interval

	for _, w := range windows {
		cursor := w.Start
		for _, b := range busy {
			if !b.End.After(cursor) {
				continue
			}
			if !b.Start.Before(w.End) {
				break
			}
			if b.Start.After(cursor) {
				free = append(free, Interval{Start: cursor, End: b.Start})
			}
			cursor = b.End
		}
		if cursor.Before(w.End) {
			free = append(free, Interval{Start: cursor, End: w.End})
		}
	}

	return free
}

// SliceSlots cuts free time into consecutive bookable slots of length d.
func SliceSlots(free []Interval, d time.Duration) []Interval {
	if d <= 0 {
		return nil
	}

	var slots []Interval
	for _, f := range free {
		for cur := f.Start; !cur.Add(d).After(f.End); cur = cur.Add(d) {
			slots = append(slots, Interval{Start: cur, End: cur.Add(d)})
		}
	}
	return slots
}
