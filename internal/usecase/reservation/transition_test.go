package reservation

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/barber-reservations/internal/domain/reservation"
	"github.com/BruksfildServices01/barber-reservations/internal/httperr"
	"github.com/BruksfildServices01/barber-reservations/internal/models"
)

func (f *fixture) move(actor domain.Actor, id uint, target domain.Status) (*TransitionResult, error) {
	return f.transition.Execute(context.Background(), TransitionInput{
		Actor:         actor,
		ReservationID: id,
		Target:        target,
	})
}

func TestScenarioC_ClientCannotCancelConfirmed(t *testing.T) {
	f := newFixture(t)
	a := f.book(t, f.client, at(25, 14, 30))

	res, err := f.move(domain.Barber(f.barber.ID), a.ID, domain.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, res.Reservation.Status)
	require.NotNil(t, res.Reservation.ConfirmedAt)

	_, err = f.move(domain.Client(f.client.ID), a.ID, domain.StatusCancelled)
	require.Error(t, err)
	assert.Equal(t, httperr.KindNotAuthorized, httperr.KindOf(err))

	stored, err := f.repo.GetReservation(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, stored.Status)
}

func TestScenarioD_DoneIsTerminal(t *testing.T) {
	f := newFixture(t)
	a := f.book(t, f.client, at(25, 14, 30))
	barber := domain.Barber(f.barber.ID)

	_, err := f.move(barber, a.ID, domain.StatusConfirmed)
	require.NoError(t, err)
	res, err := f.move(barber, a.ID, domain.StatusDone)
	require.NoError(t, err)
	assert.NotNil(t, res.Reservation.CompletedAt)

	_, err = f.move(barber, a.ID, domain.StatusPending)
	assert.Equal(t, httperr.KindInvalidTransition, httperr.KindOf(err))
}

func TestCancelTwiceReportsInvalidTransition(t *testing.T) {
	f := newFixture(t)
	a := f.book(t, f.client, at(25, 14, 30))
	client := domain.Client(f.client.ID)

	res, err := f.move(client, a.ID, domain.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, res.Reservation.Status)

	_, err = f.move(client, a.ID, domain.StatusCancelled)
	assert.Equal(t, httperr.KindInvalidTransition, httperr.KindOf(err))

	stored, err := f.repo.GetReservation(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, stored.Status)
}

func TestTransition_CompletenessForAdmin(t *testing.T) {
	all := []domain.Status{domain.StatusPending, domain.StatusConfirmed, domain.StatusCancelled, domain.StatusDone}
	legal := map[[2]domain.Status]bool{
		{domain.StatusPending, domain.StatusConfirmed}:   true,
		{domain.StatusPending, domain.StatusCancelled}:   true,
		{domain.StatusConfirmed, domain.StatusCancelled}: true,
		{domain.StatusConfirmed, domain.StatusDone}:      true,
	}

	for _, from := range all {
		for _, to := range all {
			t.Run(fmt.Sprintf("%s->%s", from, to), func(t *testing.T) {
				f := newFixture(t)
				r := f.seed(from, at(25, 10, 0), 30)

				_, err := f.move(domain.Admin(1), r.ID, to)
				if legal[[2]domain.Status{from, to}] {
					assert.NoError(t, err)
				} else {
					assert.Equal(t, httperr.KindInvalidTransition, httperr.KindOf(err))
				}
			})
		}
	}
}

func TestTransition_Ownership(t *testing.T) {
	f := newFixture(t)
	a := f.book(t, f.client, at(25, 14, 30))

	_, err := f.move(domain.Barber(99), a.ID, domain.StatusConfirmed)
	assert.True(t, httperr.IsBusiness(err, "not_reservation_barber"))

	_, err = f.move(domain.Client(f.other.ID), a.ID, domain.StatusCancelled)
	assert.True(t, httperr.IsBusiness(err, "not_reservation_owner"))

	_, err = f.move(domain.Client(f.client.ID), a.ID, domain.StatusConfirmed)
	assert.True(t, httperr.IsBusiness(err, "client_may_only_cancel_pending"))

	_, err = f.move(domain.Admin(1), 404, domain.StatusConfirmed)
	assert.Equal(t, httperr.KindNotFound, httperr.KindOf(err))
}

func TestConfirm_AutoCancelsOverlappingPending(t *testing.T) {
	f := newFixture(t)
	// rows written before overlaps were rejected
	a := f.seed(domain.StatusPending, at(25, 14, 30), 30)
	b := f.seed(domain.StatusPending, at(25, 14, 45), 30)
	c := f.seed(domain.StatusPending, at(25, 15, 0), 30)

	res, err := f.move(domain.Barber(f.barber.ID), a.ID, domain.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, []uint{b.ID}, res.AutoCancelled)

	stored, err := f.repo.GetReservation(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, stored.Status)
	assert.NotNil(t, stored.CancelledAt)

	untouched, err := f.repo.GetReservation(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, untouched.Status)
}

func TestConfirm_RejectedWhenSlotAlreadyConfirmed(t *testing.T) {
	f := newFixture(t)
	f.seed(domain.StatusConfirmed, at(25, 14, 30), 30)
	p := f.seed(domain.StatusPending, at(25, 14, 45), 30)

	_, err := f.move(domain.Barber(f.barber.ID), p.ID, domain.StatusConfirmed)
	assert.Equal(t, httperr.KindSlotUnavailable, httperr.KindOf(err))

	stored, err := f.repo.GetReservation(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status)
}

func TestCancelledSlotCanBeRebooked(t *testing.T) {
	f := newFixture(t)
	a := f.book(t, f.client, at(25, 14, 30))

	_, err := f.move(domain.Barber(f.barber.ID), a.ID, domain.StatusCancelled)
	require.NoError(t, err)

	again := f.book(t, f.other, at(25, 14, 30))
	assert.Equal(t, models.ReservationPending, again.Status)
}
