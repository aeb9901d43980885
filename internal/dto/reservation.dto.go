package dto

import (
	"fmt"
	"time"

	"github.com/BruksfildServices01/barber-reservations/internal/models"
)

type ReservationDTO struct {
	ID          uint                     `json:"id"`
	BarberID    uint                     `json:"barber_id"`
	BarberName  string                   `json:"barber_name"`
	UserID      uint                     `json:"user_id"`
	ClientName  string                   `json:"client_name"`
	ClientPhone string                   `json:"client_phone,omitempty"`
	ServiceID   *uint                    `json:"service_id"`
	ServiceName string                   `json:"service_name"`
	DurationMin int                      `json:"duration_min"`
	PriceCents  int64                    `json:"price_cents"`
	Price       string                   `json:"price"`
	StartTime   time.Time                `json:"start_time"`
	EndTime     time.Time                `json:"end_time"`
	Status      models.ReservationStatus `json:"status"`
	Notes       string                   `json:"notes,omitempty"`
	CreatedAt   time.Time                `json:"created_at"`
	ConfirmedAt *time.Time               `json:"confirmed_at,omitempty"`
	CancelledAt *time.Time               `json:"cancelled_at,omitempty"`
	CompletedAt *time.Time               `json:"completed_at,omitempty"`
}

// FromReservation flattens a reservation with its joined barber, client and
// service. Times are rendered in loc when given.
func FromReservation(r models.Reservation, loc *time.Location) ReservationDTO {
	start, end := r.StartTime, r.EndTime
	if loc != nil {
		start, end = start.In(loc), end.In(loc)
	}

	var price int64
	if r.Service != nil {
		price = r.Service.PriceCents
	}

	return ReservationDTO{
		ID:          r.ID,
		BarberID:    r.BarberID,
		BarberName:  r.Barber.Name,
		UserID:      r.UserID,
		ClientName:  r.User.Name,
		ClientPhone: r.User.Phone,
		ServiceID:   r.ServiceID,
		ServiceName: r.ServiceName,
		DurationMin: r.DurationMin,
		PriceCents:  price,
		Price:       FormatCents(price),
		StartTime:   start,
		EndTime:     end,
		Status:      r.Status,
		Notes:       r.Notes,
		CreatedAt:   r.CreatedAt,
		ConfirmedAt: r.ConfirmedAt,
		CancelledAt: r.CancelledAt,
		CompletedAt: r.CompletedAt,
	}
}

func FromReservations(list []models.Reservation) []ReservationDTO {
	out := make([]ReservationDTO, len(list))
	for i, r := range list {
		out[i] = FromReservation(r, nil)
	}
	return out
}

// FormatCents renders 4550 as "45.50".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign, cents = "-", -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
