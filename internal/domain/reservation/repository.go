package reservation

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/barber-reservations/internal/models"
)

// ErrTransient marks storage failures (timeouts, dropped connections) that
// read paths may retry. Repositories wrap such errors with it.
var ErrTransient = errors.New("transient storage error")

type ReservationQuery struct {
	BarberID *uint
	UserID   *uint
	Statuses []Status
	// From/To select reservations whose slot intersects [From, To).
	From *time.Time
	To   *time.Time
}

type Repository interface {
	// -------- Barber / User --------
	GetBarber(ctx context.Context, id uint) (*models.Barber, error)
	ListBarbers(ctx context.Context) ([]models.Barber, error)
	UpdateBarber(ctx context.Context, b *models.Barber) error
	GetUser(ctx context.Context, id uint) (*models.User, error)

	// -------- Service catalog --------
	GetService(ctx context.Context, id uint) (*models.Service, error)
	ListServices(ctx context.Context, barberID uint) ([]models.Service, error)
	CreateService(ctx context.Context, s *models.Service) error
	UpdateService(ctx context.Context, s *models.Service) error
	DeleteService(ctx context.Context, id uint) error

	// -------- Working hours --------
	GetWorkingHours(ctx context.Context, barberID uint) ([]models.WorkingHours, error)
	ReplaceWorkingHours(ctx context.Context, barberID uint, hours []models.WorkingHours) error

	// -------- Reservation --------
	// Reservations come back with Barber, User and Service loaded, ordered
	// by start time then id.
	GetReservation(ctx context.Context, id uint) (*models.Reservation, error)
	ListReservations(ctx context.Context, q ReservationQuery) ([]models.Reservation, error)
	CreateReservation(ctx context.Context, r *models.Reservation) error
	UpdateReservation(ctx context.Context, r *models.Reservation) error

	// WithinBarberLock runs fn as one serializable unit with respect to every
	// other call for the same barber. fn must use the repository it is given.
	WithinBarberLock(ctx context.Context, barberID uint, fn func(ctx context.Context, tx Repository) error) error

	// -------- Review --------
	CreateReview(ctx context.Context, rv *models.Review) error
	HasReview(ctx context.Context, reservationID uint) (bool, error)
	RatingSummary(ctx context.Context, barberID uint) (*models.RatingSummary, error)
}
