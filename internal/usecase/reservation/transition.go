package reservation

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-reservations/internal/audit"
	domain "github.com/BruksfildServices01/barber-reservations/internal/domain/reservation"
	"github.com/BruksfildServices01/barber-reservations/internal/httperr"
	"github.com/BruksfildServices01/barber-reservations/internal/metrics"
	"github.com/BruksfildServices01/barber-reservations/internal/models"
)

type TransitionInput struct {
	Actor         domain.Actor
	ReservationID uint
	Target        domain.Status
}

type TransitionResult struct {
	Reservation *models.Reservation
	// AutoCancelled lists pending reservations cancelled because the
	// confirmed one took their slot.
	AutoCancelled []uint
}

type TransitionReservation struct {
	repo    domain.Repository
	audit   *audit.Dispatcher
	metrics *metrics.Metrics
	log     *zap.Logger
	now     func() time.Time
}

func NewTransitionReservation(
	repo domain.Repository,
	audit *audit.Dispatcher,
	metrics *metrics.Metrics,
	log *zap.Logger,
) *TransitionReservation {
	return &TransitionReservation{
		repo:    repo,
		audit:   audit,
		metrics: metrics,
		log:     log,
		now:     time.Now,
	}
}

func (uc *TransitionReservation) Execute(
	ctx context.Context,
	in TransitionInput,
) (*TransitionResult, error) {

	if err := in.Actor.Validate(); err != nil {
		return nil, err
	}
	if !in.Target.Valid() {
		return nil, httperr.Validation("invalid_status", map[string]string{"status": "unknown status"})
	}

	current, err := uc.repo.GetReservation(ctx, in.ReservationID)
	if err != nil {
		return nil, err
	}
	// Fail fast on ownership before taking the barber lock.
	if err := domain.CheckOwnership(in.Actor, current); err != nil {
		return nil, err
	}

	var (
		res       *models.Reservation
		from      domain.Status
		cancelled []models.Reservation
	)

	err = uc.repo.WithinBarberLock(ctx, current.BarberID, func(ctx context.Context, tx domain.Repository) error {
		r, err := tx.GetReservation(ctx, in.ReservationID)
		if err != nil {
			return err
		}
		from = r.Status

		now := uc.now()
		if err := domain.Transition(in.Actor, r, in.Target, now); err != nil {
			return err
		}

		if in.Target == domain.StatusConfirmed {
			cancelled, err = resolveCompetitors(ctx, tx, r, now)
			if err != nil {
				return err
			}
		}

		if err := tx.UpdateReservation(ctx, r); err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		if httperr.IsKind(err, httperr.KindSlotUnavailable) {
			uc.metrics.Conflict("confirm")
		}
		return nil, err
	}

	uc.record(in.Actor, res, from, "reservation_"+string(res.Status))
	ids := make([]uint, 0, len(cancelled))
	for i := range cancelled {
		uc.record(in.Actor, &cancelled[i], domain.StatusPending, "reservation_auto_cancelled")
		ids = append(ids, cancelled[i].ID)
	}
	uc.metrics.AutoCancelled(len(ids))

	uc.log.Info("reservation status changed",
		zap.Uint("reservation_id", res.ID),
		zap.String("from", string(from)),
		zap.String("to", string(res.Status)),
		zap.String("actor_role", string(in.Actor.Role)),
		zap.Uints("auto_cancelled", ids),
	)

	return &TransitionResult{Reservation: res, AutoCancelled: ids}, nil
}

// resolveCompetitors re-validates a confirmation: another confirmed
// reservation on the slot rejects it, overlapping pendings are cancelled.
func resolveCompetitors(
	ctx context.Context,
	tx domain.Repository,
	r *models.Reservation,
	now time.Time,
) ([]models.Reservation, error) {

	overlapping, err := tx.ListReservations(ctx, domain.ReservationQuery{
		BarberID: &r.BarberID,
		Statuses: models.ActiveReservationStatuses,
		From:     &r.StartTime,
		To:       &r.EndTime,
	})
	if err != nil {
		return nil, err
	}

	var pending []models.Reservation
	for _, other := range overlapping {
		if other.ID == r.ID {
			continue
		}
		if other.Status == domain.StatusConfirmed {
			return nil, httperr.SlotUnavailable("slot_already_confirmed")
		}
		pending = append(pending, other)
	}

	for i := range pending {
		domain.Apply(&pending[i], domain.StatusCancelled, now)
		if err := tx.UpdateReservation(ctx, &pending[i]); err != nil {
			return nil, err
		}
	}
	return pending, nil
}

func (uc *TransitionReservation) record(actor domain.Actor, r *models.Reservation, from domain.Status, action string) {
	uc.audit.Dispatch(audit.Event{
		BarberID:  r.BarberID,
		ActorRole: string(actor.Role),
		ActorID:   &actor.ID,
		Action:    action,
		Entity:    "reservation",
		EntityID:  &r.ID,
		Metadata: map[string]any{
			"from": from,
			"to":   r.Status,
		},
	})
	uc.metrics.Transition(string(r.Status), string(actor.Role))
}
