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

type ReviewInput struct {
	ReservationID uint
	Rating        int
	Comment       string
}

type Reviews struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	log   *zap.Logger
}

func NewReviews(repo domain.Repository, audit *audit.Dispatcher, log *zap.Logger) *Reviews {
	return &Reviews{repo: repo, audit: audit, log: log}
}

// Create accepts one review per finished reservation, from its client.
func (uc *Reviews) Create(ctx context.Context, actor domain.Actor, in ReviewInput) (*models.Review, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	if actor.Role != domain.RoleClient {
		return nil, httperr.NotAuthorized("clients_only")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, httperr.Validation("invalid_review", map[string]string{"rating": "must be between 1 and 5"})
	}

	r, err := uc.repo.GetReservation(ctx, in.ReservationID)
	if err != nil {
		return nil, err
	}
	if err := domain.CheckOwnership(actor, r); err != nil {
		return nil, err
	}
	if r.Status != domain.StatusDone {
		return nil, httperr.ErrBusiness("reservation_not_done")
	}

	reviewed, err := uc.repo.HasReview(ctx, r.ID)
	if err != nil {
		return nil, err
	}
	if reviewed {
		return nil, httperr.ErrBusiness("already_reviewed")
	}

	rv := &models.Review{
		UserID:        actor.ID,
		BarberID:      r.BarberID,
		ServiceID:     r.ServiceID,
		ReservationID: r.ID,
		Rating:        in.Rating,
		Comment:       strings.TrimSpace(in.Comment),
	}
	if err := uc.repo.CreateReview(ctx, rv); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BarberID:  r.BarberID,
		ActorRole: string(actor.Role),
		ActorID:   &actor.ID,
		Action:    "review_created",
		Entity:    "review",
		EntityID:  &rv.ID,
		Metadata:  map[string]any{"rating": rv.Rating},
	})
	uc.log.Info("review created", zap.Uint("review_id", rv.ID), zap.Uint("barber_id", r.BarberID))

	return rv, nil
}

func (uc *Reviews) Summary(ctx context.Context, barberID uint) (*models.RatingSummary, error) {
	if _, err := uc.repo.GetBarber(ctx, barberID); err != nil {
		return nil, err
	}
	return uc.repo.RatingSummary(ctx, barberID)
}
