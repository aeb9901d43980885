package models

import "time"

type Review struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID        uint  `gorm:"not null;index" json:"user_id"`
	BarberID      uint  `gorm:"not null;index" json:"barber_id"`
	ServiceID     *uint `json:"service_id"`
	ReservationID uint  `gorm:"not null;uniqueIndex" json:"reservation_id"`

	Rating  int    `gorm:"not null" json:"rating"`
	Comment string `gorm:"type:text" json:"comment"`

	CreatedAt time.Time `json:"created_at"`
}

type RatingSummary struct {
	BarberID uint    `json:"barber_id"`
	Count    int64   `json:"count"`
	Average  float64 `json:"average"`
}
