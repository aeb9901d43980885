package reservation

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barber-reservations/internal/domain/reservation"
	"github.com/BruksfildServices01/barber-reservations/internal/httperr"
	"github.com/BruksfildServices01/barber-reservations/internal/models"
	"github.com/BruksfildServices01/barber-reservations/internal/timezone"
)

type GetAvailability struct {
	repo domain.Repository
	now  func() time.Time
}

func NewGetAvailability(repo domain.Repository) *GetAvailability {
	return &GetAvailability{repo: repo, now: time.Now}
}

// Execute computes busy and free time for an inclusive range of calendar
// days in the barber's timezone.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) (*domain.Availability, error) {

	if in.From.IsZero() {
		return nil, httperr.Validation("invalid_range", map[string]string{"from": "required"})
	}
	if in.To.IsZero() {
		in.To = in.From
	}

	var out *domain.Availability
	err := withReadRetry(ctx, func(ctx context.Context) error {
		var err error
		out, err = uc.compute(ctx, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (uc *GetAvailability) compute(
	ctx context.Context,
	in domain.AvailabilityInput,
) (*domain.Availability, error) {

	barber, err := uc.repo.GetBarber(ctx, in.BarberID)
	if err != nil {
		return nil, err
	}
	loc := timezone.Location(barber.Timezone)

	from := domain.CalendarDay(in.From, loc)
	to := domain.CalendarDay(in.To, loc)
	if to.Before(from) {
		return nil, httperr.Validation("invalid_range", map[string]string{"to": "must not be before from"})
	}
	if to.After(from.AddDate(0, 0, domain.MaxAvailabilityDays-1)) {
		return nil, httperr.Validation("range_too_long", map[string]string{"to": "at most 31 days per query"})
	}
	window := domain.DayRange(from, to, loc)

	var bookable *models.Service
	if in.ServiceID != nil {
		service, err := uc.repo.GetService(ctx, *in.ServiceID)
		if err != nil {
			return nil, err
		}
		if service.BarberID != barber.ID {
			return nil, httperr.Validation("service_not_owned", map[string]string{
				"service_id": "service does not belong to this barber",
			})
		}
		bookable = service
	}

	reservations, err := uc.repo.ListReservations(ctx, domain.ReservationQuery{
		BarberID: &barber.ID,
		Statuses: models.ActiveReservationStatuses,
		From:     &window.Start,
		To:       &window.End,
	})
	if err != nil {
		return nil, err
	}

	hours, err := uc.repo.GetWorkingHours(ctx, barber.ID)
	if err != nil {
		return nil, err
	}

	merged := domain.MergeBusy(reservations)

	windows := []domain.Interval{window}
	if len(hours) > 0 {
		windows = domain.RangeWindows(hours, window, loc)
	}

	out := &domain.Availability{
		BarberID: barber.ID,
		Window:   window,
		Busy:     domain.ClipBusy(merged, window),
		Free:     domain.Subtract(windows, merged),
	}
	if bookable != nil {
		now := uc.now()
		for _, slot := range domain.SliceSlots(out.Free, bookable.Duration()) {
			if !slot.Start.Before(now) {
				out.Slots = append(out.Slots, slot)
			}
		}
	}
	return out, nil
}
