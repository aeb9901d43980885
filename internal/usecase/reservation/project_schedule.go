package reservation

import (
	"context"
	"iter"
	"time"

	domain "github.com/BruksfildServices01/barber-reservations/internal/domain/reservation"
	"github.com/BruksfildServices01/barber-reservations/internal/listing"
	"github.com/BruksfildServices01/barber-reservations/internal/models"
	"github.com/BruksfildServices01/barber-reservations/internal/timezone"
)

type ScheduleEntry struct {
	ReservationID uint          `json:"reservation_id"`
	StartTime     time.Time     `json:"start_time"`
	EndTime       time.Time     `json:"end_time"`
	ServiceName   string        `json:"service_name"`
	DurationMin   int           `json:"duration_min"`
	Status        domain.Status `json:"status"`
}

type ScheduleInput struct {
	BarberID uint
	// Date keeps only reservations starting on that calendar day in the
	// barber's timezone.
	Date *time.Time
	// Statuses narrows the timeline; empty means every status.
	Statuses []domain.Status
}

// Schedule is a barber's timeline. All can be ranged over any number of
// times; entries are built as they are consumed.
type Schedule struct {
	BarberID uint
	Location *time.Location

	reservations []models.Reservation
}

func (s *Schedule) All() iter.Seq[ScheduleEntry] {
	return func(yield func(ScheduleEntry) bool) {
		for i := range s.reservations {
			r := &s.reservations[i]
			entry := ScheduleEntry{
				ReservationID: r.ID,
				StartTime:     r.StartTime.In(s.Location),
				EndTime:       r.EndTime.In(s.Location),
				ServiceName:   r.ServiceName,
				DurationMin:   r.DurationMin,
				Status:        r.Status,
			}
			if !yield(entry) {
				return
			}
		}
	}
}

func (s *Schedule) Len() int {
	return len(s.reservations)
}

func (s *Schedule) Page(page, size int) listing.Page[ScheduleEntry] {
	return listing.PaginateSeq(s.All(), page, size)
}

type ProjectSchedule struct {
	repo domain.Repository
	now  func() time.Time
}

func NewProjectSchedule(repo domain.Repository) *ProjectSchedule {
	return &ProjectSchedule{repo: repo, now: time.Now}
}

// Execute loads the barber's timeline ordered by start time, ties by id.
// The public schedule and the barber's day view both come through here.
func (uc *ProjectSchedule) Execute(
	ctx context.Context,
	in ScheduleInput,
) (*Schedule, error) {

	var out *Schedule
	err := withReadRetry(ctx, func(ctx context.Context) error {
		barber, err := uc.repo.GetBarber(ctx, in.BarberID)
		if err != nil {
			return err
		}
		loc := timezone.Location(barber.Timezone)

		q := domain.ReservationQuery{BarberID: &barber.ID, Statuses: in.Statuses}
		var day domain.Interval
		if in.Date != nil {
			d := domain.CalendarDay(*in.Date, loc)
			day = domain.DayRange(d, d, loc)
			q.From, q.To = &day.Start, &day.End
		}

		list, err := uc.repo.ListReservations(ctx, q)
		if err != nil {
			return err
		}

		// The query matches slots that merely touch the day; keep the
		// ones that start on it.
		if in.Date != nil {
			kept := list[:0]
			for _, r := range list {
				if !r.StartTime.Before(day.Start) && r.StartTime.Before(day.End) {
					kept = append(kept, r)
				}
			}
			list = kept
		}

		out = &Schedule{BarberID: barber.ID, Location: loc, reservations: list}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Today is the barber's "my day" view.
func (uc *ProjectSchedule) Today(ctx context.Context, barberID uint) (*Schedule, error) {
	barber, err := uc.repo.GetBarber(ctx, barberID)
	if err != nil {
		return nil, err
	}
	today := uc.now().In(timezone.Location(barber.Timezone))
	return uc.Execute(ctx, ScheduleInput{BarberID: barberID, Date: &today})
}
