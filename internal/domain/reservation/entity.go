package reservation

import (
	"time"

	"github.com/BruksfildServices01/barber-reservations/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Apply moves r to target and stamps the matching timestamp. Callers must
// have validated the edge with CanTransition.
func Apply(r *models.Reservation, target Status, now time.Time) {
	r.Status = target

	switch target {
	case StatusConfirmed:
		r.ConfirmedAt = &now
	case StatusCancelled:
		r.CancelledAt = &now
	case StatusDone:
		r.CompletedAt = &now
	}
}

// Transition validates and applies a status change requested by actor.
func Transition(actor Actor, r *models.Reservation, target Status, now time.Time) error {
	if err := CheckOwnership(actor, r); err != nil {
		return err
	}
	if err := CanTransition(r.Status, target); err != nil {
		return err
	}
	if err := Authorize(actor, r, target); err != nil {
		return err
	}

	Apply(r, target, now)
	return nil
}
