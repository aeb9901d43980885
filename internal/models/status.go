package models

// ReservationStatus is the lifecycle state of a single reservation.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationDone      ReservationStatus = "done"
)

func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationCancelled, ReservationDone:
		return true
	}
	return false
}

// Active reports whether the reservation still claims its slot.
func (s ReservationStatus) Active() bool {
	return s == ReservationPending || s == ReservationConfirmed
}

func (s ReservationStatus) Terminal() bool {
	return s == ReservationCancelled || s == ReservationDone
}

// ActiveReservationStatuses are the statuses that block new bookings.
var ActiveReservationStatuses = []ReservationStatus{ReservationPending, ReservationConfirmed}

// BarberAccountStatus is the approval state of a barber account. It shares
// words with ReservationStatus but is a different type on purpose.
type BarberAccountStatus string

const (
	BarberPending   BarberAccountStatus = "pending"
	BarberConfirmed BarberAccountStatus = "confirmed"
	BarberCancelled BarberAccountStatus = "cancelled"
	BarberDone      BarberAccountStatus = "done"
)

func (s BarberAccountStatus) Valid() bool {
	switch s {
	case BarberPending, BarberConfirmed, BarberCancelled, BarberDone:
		return true
	}
	return false
}

// AcceptsBookings reports whether clients may book this barber.
func (s BarberAccountStatus) AcceptsBookings() bool {
	return s == BarberConfirmed
}
