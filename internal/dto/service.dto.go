package dto

import "github.com/BruksfildServices01/barber-reservations/internal/models"

type ServiceDTO struct {
	ID          uint   `json:"id"`
	BarberID    uint   `json:"barber_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	Price       string `json:"price"`
	DurationMin int    `json:"duration_min"`
	ImageRef    string `json:"image_ref,omitempty"`
}

func FromService(s models.Service) ServiceDTO {
	return ServiceDTO{
		ID:          s.ID,
		BarberID:    s.BarberID,
		Name:        s.Name,
		Description: s.Description,
		PriceCents:  s.PriceCents,
		Price:       FormatCents(s.PriceCents),
		DurationMin: s.DurationMin,
		ImageRef:    s.ImageRef,
	}
}

func FromServices(list []models.Service) []ServiceDTO {
	out := make([]ServiceDTO, len(list))
	for i, s := range list {
		out[i] = FromService(s)
	}
	return out
}
