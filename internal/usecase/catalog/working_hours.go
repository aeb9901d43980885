package catalog

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-reservations/internal/audit"
	domain "github.com/BruksfildServices01/barber-reservations/internal/domain/reservation"
	"github.com/BruksfildServices01/barber-reservations/internal/httperr"
	"github.com/BruksfildServices01/barber-reservations/internal/models"
)

type WorkingHours struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	log   *zap.Logger
}

func NewWorkingHours(repo domain.Repository, audit *audit.Dispatcher, log *zap.Logger) *WorkingHours {
	return &WorkingHours{repo: repo, audit: audit, log: log}
}

func (uc *WorkingHours) Get(ctx context.Context, barberID uint) ([]models.WorkingHours, error) {
	return uc.repo.GetWorkingHours(ctx, barberID)
}

// Replace swaps the whole weekly schedule. An empty list removes every
// restriction. Existing reservations are left as they are.
func (uc *WorkingHours) Replace(
	ctx context.Context,
	actor domain.Actor,
	barberID uint,
	days []models.WorkingHours,
) ([]models.WorkingHours, error) {

	barberID, err := ownerFor(actor, barberID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.repo.GetBarber(ctx, barberID); err != nil {
		return nil, err
	}

	seen := map[int]bool{}
	for _, d := range days {
		if err := domain.ValidateWorkingHours(d); err != nil {
			return nil, err
		}
		if seen[d.Weekday] {
			return nil, httperr.Validation("invalid_working_hours", map[string]string{
				"weekday": "duplicate weekday " + strconv.Itoa(d.Weekday),
			})
		}
		seen[d.Weekday] = true
	}

	if err := uc.repo.ReplaceWorkingHours(ctx, barberID, days); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BarberID:  barberID,
		ActorRole: string(actor.Role),
		ActorID:   &actor.ID,
		Action:    "working_hours_updated",
		Entity:    "working_hours",
		Metadata:  map[string]any{"days": len(days)},
	})
	uc.log.Info("working hours replaced", zap.Uint("barber_id", barberID), zap.Int("days", len(days)))

	return uc.repo.GetWorkingHours(ctx, barberID)
}
