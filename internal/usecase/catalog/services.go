package catalog

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-reservations/internal/audit"
	domain "github.com/BruksfildServices01/barber-reservations/internal/domain/reservation"
	"github.com/BruksfildServices01/barber-reservations/internal/httperr"
	"github.com/BruksfildServices01/barber-reservations/internal/models"
)

type ServiceInput struct {
	// BarberID is only read for admins; barbers always manage their own.
	BarberID    uint
	Name        string
	Description string
	PriceCents  int64
	DurationMin int
	ImageRef    string
}

// ServicePatch updates only the fields that are set.
type ServicePatch struct {
	Name        *string
	Description *string
	PriceCents  *int64
	DurationMin *int
	ImageRef    *string
}

type Services struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	log   *zap.Logger
}

func NewServices(repo domain.Repository, audit *audit.Dispatcher, log *zap.Logger) *Services {
	return &Services{repo: repo, audit: audit, log: log}
}

func (uc *Services) List(ctx context.Context, barberID uint) ([]models.Service, error) {
	if _, err := uc.repo.GetBarber(ctx, barberID); err != nil {
		return nil, err
	}
	return uc.repo.ListServices(ctx, barberID)
}

func (uc *Services) Create(ctx context.Context, actor domain.Actor, in ServiceInput) (*models.Service, error) {
	barberID, err := ownerFor(actor, in.BarberID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.repo.GetBarber(ctx, barberID); err != nil {
		return nil, err
	}

	s := &models.Service{
		BarberID:    barberID,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		PriceCents:  in.PriceCents,
		DurationMin: in.DurationMin,
		ImageRef:    strings.TrimSpace(in.ImageRef),
	}
	if err := validateService(s); err != nil {
		return nil, err
	}

	if err := uc.repo.CreateService(ctx, s); err != nil {
		return nil, err
	}

	uc.record(actor, s, "service_created")
	return s, nil
}

func (uc *Services) Update(ctx context.Context, actor domain.Actor, id uint, p ServicePatch) (*models.Service, error) {
	s, err := uc.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if p.Name != nil {
		s.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		s.Description = strings.TrimSpace(*p.Description)
	}
	if p.PriceCents != nil {
		s.PriceCents = *p.PriceCents
	}
	if p.DurationMin != nil {
		s.DurationMin = *p.DurationMin
	}
	if p.ImageRef != nil {
		s.ImageRef = strings.TrimSpace(*p.ImageRef)
	}
	if err := validateService(s); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateService(ctx, s); err != nil {
		return nil, err
	}

	uc.record(actor, s, "service_updated")
	return s, nil
}

// Delete refuses while pending or confirmed reservations still use the
// service. Reservations already done or cancelled keep their snapshot.
func (uc *Services) Delete(ctx context.Context, actor domain.Actor, id uint) error {
	s, err := uc.owned(ctx, actor, id)
	if err != nil {
		return err
	}

	err = uc.repo.WithinBarberLock(ctx, s.BarberID, func(ctx context.Context, tx domain.Repository) error {
		active, err := tx.ListReservations(ctx, domain.ReservationQuery{
			BarberID: &s.BarberID,
			Statuses: models.ActiveReservationStatuses,
		})
		if err != nil {
			return err
		}
		for _, r := range active {
			if r.ServiceID != nil && *r.ServiceID == s.ID {
				return httperr.ErrBusiness("service_in_use")
			}
		}
		return tx.DeleteService(ctx, s.ID)
	})
	if err != nil {
		return err
	}

	uc.record(actor, s, "service_deleted")
	return nil
}

func (uc *Services) owned(ctx context.Context, actor domain.Actor, id uint) (*models.Service, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	s, err := uc.repo.GetService(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleBarber && s.BarberID != actor.ID {
		return nil, httperr.NotAuthorized("not_service_owner")
	}
	if actor.Role == domain.RoleClient {
		return nil, httperr.NotAuthorized("not_service_owner")
	}
	return s, nil
}

func (uc *Services) record(actor domain.Actor, s *models.Service, action string) {
	uc.audit.Dispatch(audit.Event{
		BarberID:  s.BarberID,
		ActorRole: string(actor.Role),
		ActorID:   &actor.ID,
		Action:    action,
		Entity:    "service",
		EntityID:  &s.ID,
	})
	uc.log.Info(action, zap.Uint("service_id", s.ID), zap.Uint("barber_id", s.BarberID))
}

func validateService(s *models.Service) error {
	fields := map[string]string{}
	if s.Name == "" {
		fields["name"] = "required"
	} else if len(s.Name) > 100 {
		fields["name"] = "at most 100 characters"
	}
	if len(s.Description) > 255 {
		fields["description"] = "at most 255 characters"
	}
	if s.DurationMin <= 0 {
		fields["duration_min"] = "must be a positive number of minutes"
	}
	if s.PriceCents < 0 {
		fields["price_cents"] = "must not be negative"
	}
	if len(fields) > 0 {
		return httperr.Validation("invalid_service", fields)
	}
	return nil
}

// ownerFor resolves which barber a catalog write applies to.
func ownerFor(actor domain.Actor, barberID uint) (uint, error) {
	if err := actor.Validate(); err != nil {
		return 0, err
	}
	switch actor.Role {
	case domain.RoleBarber:
		return actor.ID, nil
	case domain.RoleAdmin:
		if barberID == 0 {
			return 0, httperr.Validation("barber_required", map[string]string{"barber_id": "required"})
		}
		return barberID, nil
	}
	return 0, httperr.NotAuthorized("barbers_only")
}
