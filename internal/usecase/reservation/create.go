package reservation

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-reservations/internal/audit"
	domain "github.com/BruksfildServices01/barber-reservations/internal/domain/reservation"
	"github.com/BruksfildServices01/barber-reservations/internal/httperr"
	"github.com/BruksfildServices01/barber-reservations/internal/metrics"
	"github.com/BruksfildServices01/barber-reservations/internal/models"
	"github.com/BruksfildServices01/barber-reservations/internal/timezone"
)

// DefaultServiceMinutes is the slot length of a free-text service.
const DefaultServiceMinutes = 30

// IdempotencyStore maps a client's idempotency key to the reservation it
// produced.
type IdempotencyStore interface {
	Lookup(ctx context.Context, userID uint, key string) (uint, bool, error)
	Remember(ctx context.Context, userID uint, key string, reservationID uint) (bool, error)
}

// ======================================================
// INPUT
// ======================================================

type CreateReservationInput struct {
	Actor domain.Actor
	// UserID is the client booked for. Clients book for themselves;
	// admins must set it.
	UserID uint

	BarberID    uint
	ServiceID   *uint
	ServiceName string
	// StartTime is an absolute instant. Alternatively Date (YYYY-MM-DD)
	// and Time (HH:MM) give a wall-clock time in the barber's timezone.
	StartTime time.Time
	Date      string
	Time      string
	Notes     string

	IdempotencyKey string
}

type CreateReservationResult struct {
	Reservation *models.Reservation
	// Replayed is true when the idempotency key matched an earlier request.
	Replayed bool
}

// ======================================================
// USE CASE
// ======================================================

type CreateReservation struct {
	repo           domain.Repository
	idem           IdempotencyStore
	audit          *audit.Dispatcher
	metrics        *metrics.Metrics
	log            *zap.Logger
	defaultMinutes int
	now            func() time.Time
}

func NewCreateReservation(
	repo domain.Repository,
	idem IdempotencyStore,
	audit *audit.Dispatcher,
	metrics *metrics.Metrics,
	log *zap.Logger,
	defaultMinutes int,
) *CreateReservation {
	if defaultMinutes <= 0 {
		defaultMinutes = DefaultServiceMinutes
	}
	return &CreateReservation{
		repo:           repo,
		idem:           idem,
		audit:          audit,
		metrics:        metrics,
		log:            log,
		defaultMinutes: defaultMinutes,
		now:            time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateReservation) Execute(
	ctx context.Context,
	in CreateReservationInput,
) (*CreateReservationResult, error) {

	// --------------------------------------------------
	// 1. Who is booking for whom
	// --------------------------------------------------
	userID, err := bookingUser(in.Actor, in.UserID)
	if err != nil {
		return nil, err
	}

	if res, ok := uc.replay(ctx, userID, in.IdempotencyKey); ok {
		return res, nil
	}

	// --------------------------------------------------
	// 2. Input shape
	// --------------------------------------------------
	serviceName := strings.TrimSpace(in.ServiceName)
	if err := validateInput(in, serviceName); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3. Barber, client and service
	// --------------------------------------------------
	barber, err := uc.repo.GetBarber(ctx, in.BarberID)
	if err != nil {
		return nil, err
	}
	if !barber.Status.AcceptsBookings() {
		return nil, httperr.ErrBusiness("barber_unavailable")
	}

	if _, err := uc.repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	duration := uc.defaultMinutes
	if in.ServiceID != nil {
		service, err := uc.repo.GetService(ctx, *in.ServiceID)
		if err != nil {
			return nil, err
		}
		if service.BarberID != barber.ID {
			return nil, httperr.Validation("service_not_owned", map[string]string{
				"service_id": "service does not belong to this barber",
			})
		}
		serviceName = service.Name
		duration = service.DurationMin
	}

	loc := timezone.Location(barber.Timezone)
	start := in.StartTime
	if start.IsZero() {
		start, err = time.ParseInLocation("2006-01-02 15:04", in.Date+" "+in.Time, loc)
		if err != nil {
			return nil, httperr.BusinessError{
				Kind: httperr.KindInvalidSchedule,
				Code: "invalid_date_or_time",
				Fields: map[string]string{
					"date": "expected YYYY-MM-DD",
					"time": "expected HH:MM",
				},
			}
		}
	}

	slot := domain.Interval{
		Start: start,
		End:   start.Add(time.Duration(duration) * time.Minute),
	}

	// --------------------------------------------------
	// 4. Time rules
	// --------------------------------------------------
	now := uc.now()
	if slot.Start.Before(now) {
		return nil, httperr.InvalidSchedule("in_the_past")
	}
	if slot.Start.Before(now.Add(time.Duration(barber.MinAdvanceMinutes) * time.Minute)) {
		return nil, httperr.InvalidSchedule("too_soon")
	}

	hours, err := uc.repo.GetWorkingHours(ctx, barber.ID)
	if err != nil {
		return nil, err
	}
	if !domain.IsWithinWorkingHours(hours, slot, loc) {
		return nil, httperr.InvalidSchedule("outside_working_hours")
	}

	// --------------------------------------------------
	// 5. Overlap check + insert, serialized per barber
	// --------------------------------------------------
	res := &models.Reservation{
		BarberID:    barber.ID,
		UserID:      userID,
		ServiceID:   in.ServiceID,
		ServiceName: serviceName,
		DurationMin: duration,
		StartTime:   slot.Start,
		EndTime:     slot.End,
		Status:      domain.InitialStatus(),
		Notes:       strings.TrimSpace(in.Notes),
	}

	err = uc.repo.WithinBarberLock(ctx, barber.ID, func(ctx context.Context, tx domain.Repository) error {
		// The barber and the service may have changed since they were
		// read; approval and service deletion take the same lock.
		current, err := tx.GetBarber(ctx, barber.ID)
		if err != nil {
			return err
		}
		if !current.Status.AcceptsBookings() {
			return httperr.ErrBusiness("barber_unavailable")
		}
		if in.ServiceID != nil {
			if _, err := tx.GetService(ctx, *in.ServiceID); err != nil {
				return err
			}
		}

		busy, err := tx.ListReservations(ctx, domain.ReservationQuery{
			BarberID: &barber.ID,
			Statuses: models.ActiveReservationStatuses,
			From:     &slot.Start,
			To:       &slot.End,
		})
		if err != nil {
			return err
		}
		if len(busy) > 0 {
			return httperr.SlotUnavailable("slot_unavailable")
		}
		return tx.CreateReservation(ctx, res)
	})
	if err != nil {
		if httperr.IsKind(err, httperr.KindSlotUnavailable) {
			uc.metrics.Conflict("create")
			// A concurrent request with the same key may have won the race.
			if replayed, ok := uc.replay(ctx, userID, in.IdempotencyKey); ok {
				return replayed, nil
			}
		}
		return nil, err
	}

	uc.remember(ctx, userID, in.IdempotencyKey, res.ID)

	// --------------------------------------------------
	// 6. Audit, metrics, log
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		BarberID:  barber.ID,
		ActorRole: string(in.Actor.Role),
		ActorID:   &in.Actor.ID,
		Action:    "reservation_created",
		Entity:    "reservation",
		EntityID:  &res.ID,
		Metadata: map[string]any{
			"user_id":    userID,
			"start_time": res.StartTime,
			"service":    res.ServiceName,
		},
	})
	uc.metrics.ReservationCreated(string(in.Actor.Role))
	uc.log.Info("reservation created",
		zap.Uint("reservation_id", res.ID),
		zap.Uint("barber_id", barber.ID),
		zap.Uint("user_id", userID),
		zap.Time("start_time", res.StartTime),
	)

	stored, err := uc.repo.GetReservation(ctx, res.ID)
	if err != nil {
		return &CreateReservationResult{Reservation: res}, nil
	}
	return &CreateReservationResult{Reservation: stored}, nil
}

func bookingUser(actor domain.Actor, userID uint) (uint, error) {
	if err := actor.Validate(); err != nil {
		return 0, err
	}

	switch actor.Role {
	case domain.RoleClient:
		if userID != 0 && userID != actor.ID {
			return 0, httperr.NotAuthorized("client_books_for_self")
		}
		return actor.ID, nil
	case domain.RoleAdmin:
		if userID == 0 {
			return 0, httperr.Validation("user_required", map[string]string{
				"user_id": "required when booking on behalf of a client",
			})
		}
		return userID, nil
	default:
		return 0, httperr.NotAuthorized("only_clients_book")
	}
}

func validateInput(in CreateReservationInput, serviceName string) error {
	fields := map[string]string{}

	switch {
	case in.ServiceID == nil && serviceName == "":
		fields["service"] = "service_id or service_name is required"
	case in.ServiceID != nil && serviceName != "":
		fields["service"] = "send either service_id or service_name, not both"
	}
	if len(serviceName) > 100 {
		fields["service_name"] = "at most 100 characters"
	}
	if in.BarberID == 0 {
		fields["barber_id"] = "required"
	}
	if in.StartTime.IsZero() && (in.Date == "" || in.Time == "") {
		fields["start_time"] = "start_time, or date and time, required"
	}
	if len(in.Notes) > 255 {
		fields["notes"] = "at most 255 characters"
	}

	if len(fields) == 0 {
		return nil
	}
	if _, ok := fields["service"]; ok {
		return httperr.Validation("service_required", fields)
	}
	return httperr.Validation("invalid_request", fields)
}

// replay answers from the idempotency store. Store failures only disable
// replay for this request.
func (uc *CreateReservation) replay(ctx context.Context, userID uint, key string) (*CreateReservationResult, bool) {
	if uc.idem == nil || key == "" {
		return nil, false
	}

	id, found, err := uc.idem.Lookup(ctx, userID, key)
	if err != nil {
		uc.log.Warn("idempotency lookup failed", zap.Error(err))
		return nil, false
	}
	if !found {
		return nil, false
	}

	res, err := uc.repo.GetReservation(ctx, id)
	if err != nil {
		uc.log.Warn("idempotent reservation missing", zap.Uint("reservation_id", id), zap.Error(err))
		return nil, false
	}

	uc.metrics.IdempotentReplay()
	return &CreateReservationResult{Reservation: res, Replayed: true}, true
}

func (uc *CreateReservation) remember(ctx context.Context, userID uint, key string, id uint) {
	if uc.idem == nil || key == "" {
		return
	}
	if _, err := uc.idem.Remember(ctx, userID, key, id); err != nil {
		uc.log.Warn("idempotency remember failed", zap.Uint("reservation_id", id), zap.Error(err))
	}
}
