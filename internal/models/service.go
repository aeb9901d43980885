package models

import (
	"time"

	"gorm.io/gorm"
)

// Service is owned by exactly one barber. Prices are stored in cents.
type Service struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	BarberID uint `gorm:"index;not null" json:"barber_id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	PriceCents  int64  `gorm:"not null;default:0" json:"price_cents"`
	DurationMin int    `gorm:"not null" json:"duration_min"`
	ImageRef    string `gorm:"size:255" json:"image_ref,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (s *Service) Duration() time.Duration {
	return time.Duration(s.DurationMin) * time.Minute
}
