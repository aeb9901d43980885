package reservation

import (
	"github.com/BruksfildServices01/barber-reservations/internal/httperr"
	"github.com/BruksfildServices01/barber-reservations/internal/models"
)

type Status = models.ReservationStatus

const (
	StatusPending   = models.ReservationPending
	StatusConfirmed = models.ReservationConfirmed
	StatusCancelled = models.ReservationCancelled
	StatusDone      = models.ReservationDone
)

// transitions lists every legal edge of the state machine. Terminal
// statuses have no outgoing edges.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusDone, StatusCancelled},
}

func InitialStatus() Status {
	return StatusPending
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", httperr.Validation("invalid_status", map[string]string{"status": "unknown status " + s})
	}
	return st, nil
}

// CanTransition reports whether from -> to is an edge of the state machine.
func CanTransition(from, to Status) error {
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return httperr.InvalidTransition("invalid_transition")
}

// Authorize checks that the actor's role may perform the from -> target edge
// on r. Ownership is checked separately by CheckOwnership.
func Authorize(actor Actor, r *models.Reservation, target Status) error {
	switch actor.Role {
	case RoleAdmin, RoleBarber:
		return nil
	case RoleClient:
		if r.Status != StatusPending || target != StatusCancelled {
			return httperr.NotAuthorized("client_may_only_cancel_pending")
		}
		return nil
	}
	return httperr.NotAuthorized("invalid_actor")
}

// CheckOwnership verifies the actor owns or administers r. It runs before
// the edge check so foreign reservations never leak their state.
func CheckOwnership(actor Actor, r *models.Reservation) error {
	switch actor.Role {
	case RoleAdmin:
		return nil
	case RoleBarber:
		if r.BarberID == actor.ID {
			return nil
		}
		return httperr.NotAuthorized("not_reservation_barber")
	case RoleClient:
		if r.UserID == actor.ID {
			return nil
		}
		return httperr.NotAuthorized("not_reservation_owner")
	}
	return httperr.NotAuthorized("invalid_actor")
}
