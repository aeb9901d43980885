package reservation

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/barber-reservations/internal/domain/reservation"
	"github.com/BruksfildServices01/barber-reservations/internal/httperr"
	"github.com/BruksfildServices01/barber-reservations/internal/infra/repository"
	"github.com/BruksfildServices01/barber-reservations/internal/models"
)

func TestAvailability_NoReservationsWholeRangeFree(t *testing.T) {
	f := newFixture(t)

	got, err := f.avail.Execute(context.Background(), domain.AvailabilityInput{
		BarberID: f.barber.ID,
		From:     at(25, 0, 0),
		To:       at(26, 0, 0),
	})
	require.NoError(t, err)

	assert.Empty(t, got.Busy)
	require.Len(t, got.Free, 1)
	assert.Equal(t, at(25, 0, 0), got.Free[0].Start)
	assert.Equal(t, at(27, 0, 0), got.Free[0].End)
}

func TestAvailability_BusyMergedAndFreeIsComplement(t *testing.T) {
	f := newFixture(t)
	f.book(t, f.client, at(25, 14, 30))
	f.book(t, f.client, at(25, 15, 0))
	f.book(t, f.other, at(25, 9, 0))
	cancelled := f.book(t, f.other, at(25, 11, 0))
	_, err := f.transition.Execute(context.Background(), TransitionInput{
		Actor: domain.Barber(f.barber.ID), ReservationID: cancelled.ID, Target: domain.StatusCancelled,
	})
	require.NoError(t, err)

	got, err := f.avail.Execute(context.Background(), domain.AvailabilityInput{
		BarberID: f.barber.ID,
		From:     at(25, 0, 0),
	})
	require.NoError(t, err)

	require.Len(t, got.Busy, 2)
	assert.Equal(t, at(25, 9, 0), got.Busy[0].Start)
	assert.Equal(t, at(25, 14, 30), got.Busy[1].Start)
	assert.Equal(t, at(25, 15, 30), got.Busy[1].End)
	assert.Len(t, got.Busy[1].Reservations, 2)
	assert.Equal(t, "Corte", got.Busy[1].Reservations[0].ServiceName)

	for i := 1; i < len(got.Busy); i++ {
		assert.True(t, got.Busy[i-1].End.Before(got.Busy[i].Start))
	}

	want := []domain.Interval{
		{Start: at(25, 0, 0), End: at(25, 9, 0)},
		{Start: at(25, 9, 30), End: at(25, 14, 30)},
		{Start: at(25, 15, 30), End: at(26, 0, 0)},
	}
	assert.Equal(t, want, got.Free)
}

func TestAvailability_WorkingHoursAndSlots(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.repo.ReplaceWorkingHours(context.Background(), f.barber.ID, []models.WorkingHours{{
		Weekday: int(time.Wednesday), StartTime: "09:00", EndTime: "12:00", Active: true,
	}}))
	f.book(t, f.client, at(25, 10, 0))

	got, err := f.avail.Execute(context.Background(), domain.AvailabilityInput{
		BarberID:  f.barber.ID,
		From:      at(25, 0, 0),
		ServiceID: &f.service.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, []domain.Interval{
		{Start: at(25, 9, 0), End: at(25, 10, 0)},
		{Start: at(25, 10, 30), End: at(25, 12, 0)},
	}, got.Free)
	assert.Len(t, got.Slots, 5)
	assert.Equal(t, at(25, 10, 30), got.Slots[2].Start)
}

func TestAvailability_StraddlingReservationIsClipped(t *testing.T) {
	f := newFixture(t)
	r := f.seed(domain.StatusConfirmed, at(25, 23, 30), 60)

	got, err := f.avail.Execute(context.Background(), domain.AvailabilityInput{
		BarberID: f.barber.ID,
		From:     at(25, 0, 0),
	})
	require.NoError(t, err)

	require.Len(t, got.Busy, 1)
	assert.Equal(t, at(26, 0, 0), got.Busy[0].End)

	stored, err := f.repo.GetReservation(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, at(26, 0, 30), stored.EndTime)
}

func TestAvailability_RangeValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.avail.Execute(context.Background(), domain.AvailabilityInput{
		BarberID: f.barber.ID, From: at(1, 0, 0), To: at(1, 0, 0).AddDate(0, 0, 31),
	})
	assert.True(t, httperr.IsBusiness(err, "range_too_long"))

	_, err = f.avail.Execute(context.Background(), domain.AvailabilityInput{
		BarberID: f.barber.ID, From: at(1, 0, 0), To: at(1, 0, 0).AddDate(0, 0, 30),
	})
	assert.NoError(t, err)

	_, err = f.avail.Execute(context.Background(), domain.AvailabilityInput{
		BarberID: f.barber.ID, From: at(10, 0, 0), To: at(9, 0, 0),
	})
	assert.True(t, httperr.IsBusiness(err, "invalid_range"))
}

// flakyRepo fails the first n reservation listings with a transient error.
type flakyRepo struct {
	*repository.MemoryRepository
	failures atomic.Int32
	calls    atomic.Int32
}

func (r *flakyRepo) ListReservations(ctx context.Context, q domain.ReservationQuery) ([]models.Reservation, error) {
	r.calls.Add(1)
	if r.failures.Add(-1) >= 0 {
		return nil, fmt.Errorf("list reservations: %w", domain.ErrTransient)
	}
	return r.MemoryRepository.ListReservations(ctx, q)
}

func TestReads_RetryTransientErrors(t *testing.T) {
	f := newFixture(t)
	flaky := &flakyRepo{MemoryRepository: f.repo}
	flaky.failures.Store(2)

	_, err := NewGetAvailability(flaky).Execute(context.Background(), domain.AvailabilityInput{
		BarberID: f.barber.ID, From: at(25, 0, 0),
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, flaky.calls.Load())

	flaky.failures.Store(5)
	flaky.calls.Store(0)
	_, err = NewProjectSchedule(flaky).Execute(context.Background(), ScheduleInput{BarberID: f.barber.ID})
	assert.ErrorIs(t, err, domain.ErrTransient)
	assert.EqualValues(t, 1+readRetries, flaky.calls.Load())
}

func TestSchedule_RoundTrip(t *testing.T) {
	f := newFixture(t)
	f.book(t, f.other, at(25, 16, 0))
	created := f.book(t, f.client, at(25, 14, 30))
	f.book(t, f.client, at(26, 14, 30))

	day := at(25, 0, 0)
	sched, err := f.schedule.Execute(context.Background(), ScheduleInput{BarberID: f.barber.ID, Date: &day})
	require.NoError(t, err)

	var found []ScheduleEntry
	var starts []time.Time
	for e := range sched.All() {
		starts = append(starts, e.StartTime)
		if e.ReservationID == created.ID {
			found = append(found, e)
		}
	}
	require.Len(t, found, 1)
	assert.Equal(t, at(25, 15, 0), found[0].EndTime)
	assert.Equal(t, 30, found[0].DurationMin)
	assert.Equal(t, []time.Time{at(25, 14, 30), at(25, 16, 0)}, starts)

	// restartable
	n := 0
	for range sched.All() {
		n++
	}
	assert.Equal(t, 2, n)
}

func TestSchedule_PaginationKeepsOrder(t *testing.T) {
	f := newFixture(t)
	for h := 9; h < 14; h++ {
		f.book(t, f.client, at(25, h, 0))
	}

	sched, err := f.schedule.Execute(context.Background(), ScheduleInput{BarberID: f.barber.ID})
	require.NoError(t, err)

	page := sched.Page(2, 2)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Items, 2)
	assert.Equal(t, at(25, 11, 0), page.Items[0].StartTime)
	assert.Equal(t, at(25, 12, 0), page.Items[1].StartTime)
}

func TestSchedule_TodayUsesClock(t *testing.T) {
	f := newFixture(t)
	f.schedule.now = func() time.Time { return at(25, 8, 0) }
	f.book(t, f.client, at(25, 9, 0))
	f.book(t, f.client, at(26, 9, 0))

	sched, err := f.schedule.Today(context.Background(), f.barber.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, sched.Len())
}

func TestList_ScopedByRole(t *testing.T) {
	f := newFixture(t)
	f.book(t, f.client, at(25, 9, 0))
	f.book(t, f.other, at(25, 10, 0))
	_, err := f.create.Execute(context.Background(), CreateReservationInput{
		Actor: domain.Client(f.client.ID), BarberID: f.barber.ID, ServiceName: "Barba", StartTime: at(25, 11, 0),
	})
	require.NoError(t, err)

	own, err := f.list.Execute(context.Background(), ListInput{Actor: domain.Client(f.client.ID)})
	require.NoError(t, err)
	assert.Equal(t, 2, own.Total)

	barber, err := f.list.Execute(context.Background(), ListInput{
		Actor:  domain.Barber(f.barber.ID),
		Filter: ReservationFilter{ClientName: "bruno"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, barber.Total)
	assert.Equal(t, f.other.ID, barber.Items[0].UserID)

	min := int64(1000)
	priced, err := f.list.Execute(context.Background(), ListInput{
		Actor:  domain.Admin(1),
		Filter: ReservationFilter{MinPrice: &min},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, priced.Total)

	none, err := f.list.Execute(context.Background(), ListInput{Actor: domain.Barber(99)})
	require.NoError(t, err)
	assert.Zero(t, none.Total)
}

func TestList_RejectsBadFilters(t *testing.T) {
	f := newFixture(t)

	_, err := f.list.Execute(context.Background(), ListInput{
		Actor:  domain.Admin(1),
		Filter: ReservationFilter{Status: "archived"},
	})
	assert.True(t, httperr.IsBusiness(err, "invalid_status"))
}

func TestList_DaysFollowBarberTimezone(t *testing.T) {
	f := newFixture(t)
	sp := f.repo.AddBarber(models.Barber{
		ID:       8,
		Name:     "Caio Prado",
		Email:    "caio@example.com",
		Timezone: "America/Sao_Paulo",
		Status:   models.BarberConfirmed,
	})
	// 22:00 on the 24th in São Paulo is 01:00 UTC on the 25th.
	late := f.repo.Seed(models.Reservation{
		BarberID:    sp.ID,
		UserID:      f.client.ID,
		ServiceName: "Corte",
		DurationMin: 30,
		StartTime:   at(25, 1, 0),
		EndTime:     at(25, 1, 30),
		Status:      domain.StatusPending,
	})

	day := func(d int) *time.Time {
		v := at(d, 0, 0)
		return &v
	}

	tests := []struct {
		name     string
		from, to *time.Time
		want     int
	}{
		{"local day matches", day(24), day(24), 1},
		{"utc day does not", day(25), day(25), 0},
		{"open ended from", day(24), nil, 1},
		{"open ended to", nil, day(23), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := f.list.Execute(context.Background(), ListInput{
				Actor:  domain.Barber(sp.ID),
				Filter: ReservationFilter{FromDay: tt.from, ToDay: tt.to},
			})
			require.NoError(t, err)
			require.Equal(t, tt.want, page.Total)
			if tt.want > 0 {
				assert.Equal(t, late.ID, page.Items[0].ID)
			}
		})
	}
}
