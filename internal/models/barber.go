package models

import (
	"time"

	"gorm.io/gorm"
)

type Barber struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name            string `gorm:"size:100;not null" json:"name"`
	Email           string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Phone           string `gorm:"size:20" json:"phone"`
	Bio             string `gorm:"type:text" json:"bio"`
	ExperienceYears int    `json:"experience_years"`
	Location        string `gorm:"size:255" json:"location"`

	Timezone          string              `gorm:"size:64;default:'America/Sao_Paulo'" json:"timezone"`
	MinAdvanceMinutes int                 `gorm:"default:0" json:"min_advance_minutes"`
	Status            BarberAccountStatus `gorm:"size:20;default:'pending'" json:"status"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
