package catalog

import (
	"context"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-reservations/internal/audit"
	domain "github.com/BruksfildServices01/barber-reservations/internal/domain/reservation"
	"github.com/BruksfildServices01/barber-reservations/internal/httperr"
	"github.com/BruksfildServices01/barber-reservations/internal/models"
	"github.com/BruksfildServices01/barber-reservations/internal/timezone"
)

// Barbers covers account approval by admins and a barber's own settings.
type Barbers struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	log   *zap.Logger
}

func NewBarbers(repo domain.Repository, audit *audit.Dispatcher, log *zap.Logger) *Barbers {
	return &Barbers{repo: repo, audit: audit, log: log}
}

func (uc *Barbers) List(ctx context.Context, actor domain.Actor) ([]models.Barber, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return uc.repo.ListBarbers(ctx)
}

// SetStatus changes the account status. It never touches the barber's
// reservations.
func (uc *Barbers) SetStatus(
	ctx context.Context,
	actor domain.Actor,
	barberID uint,
	status models.BarberAccountStatus,
) (*models.Barber, error) {

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, httperr.Validation("invalid_status", map[string]string{"status": "unknown account status"})
	}

	var (
		b    *models.Barber
		from models.BarberAccountStatus
	)
	// Runs under the barber lock so no booking is admitted after a
	// suspension commits.
	err := uc.repo.WithinBarberLock(ctx, barberID, func(ctx context.Context, tx domain.Repository) error {
		var err error
		if b, err = tx.GetBarber(ctx, barberID); err != nil {
			return err
		}
		from = b.Status
		b.Status = status
		return tx.UpdateBarber(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BarberID:  b.ID,
		ActorRole: string(actor.Role),
		ActorID:   &actor.ID,
		Action:    "barber_status_changed",
		Entity:    "barber",
		EntityID:  &b.ID,
		Metadata:  map[string]any{"from": from, "to": status},
	})
	uc.log.Info("barber status changed",
		zap.Uint("barber_id", b.ID),
		zap.String("from", string(from)),
		zap.String("to", string(status)),
	)

	return b, nil
}

// BarberSettings updates only the fields that are set.
type BarberSettings struct {
	Timezone          *string
	MinAdvanceMinutes *int
}

func (uc *Barbers) Get(ctx context.Context, actor domain.Actor) (*models.Barber, error) {
	if err := requireBarber(actor); err != nil {
		return nil, err
	}
	return uc.repo.GetBarber(ctx, actor.ID)
}

// UpdateSettings lets a barber change how bookings are validated. Existing
// reservations are not re-checked.
func (uc *Barbers) UpdateSettings(ctx context.Context, actor domain.Actor, in BarberSettings) (*models.Barber, error) {
	if err := requireBarber(actor); err != nil {
		return nil, err
	}

	b, err := uc.repo.GetBarber(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	fields := map[string]string{}
	if in.Timezone != nil {
		if !timezone.IsValid(*in.Timezone) {
			fields["timezone"] = "unknown IANA timezone"
		}
		b.Timezone = *in.Timezone
	}
	if in.MinAdvanceMinutes != nil {
		if *in.MinAdvanceMinutes < 0 {
			fields["min_advance_minutes"] = "must be zero or positive"
		}
		b.MinAdvanceMinutes = *in.MinAdvanceMinutes
	}
	if len(fields) > 0 {
		return nil, httperr.Validation("invalid_settings", fields)
	}

	if err := uc.repo.UpdateBarber(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BarberID:  b.ID,
		ActorRole: string(actor.Role),
		ActorID:   &actor.ID,
		Action:    "barber_settings_updated",
		Entity:    "barber",
		EntityID:  &b.ID,
		Metadata:  map[string]any{"timezone": b.Timezone, "min_advance_minutes": b.MinAdvanceMinutes},
	})
	return b, nil
}

func requireAdmin(actor domain.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return httperr.NotAuthorized("admins_only")
	}
	return nil
}

func requireBarber(actor domain.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if actor.Role != domain.RoleBarber {
		return httperr.NotAuthorized("barbers_only")
	}
	return nil
}
