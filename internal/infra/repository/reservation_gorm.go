package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/barber-reservations/internal/domain/reservation"
	"github.com/BruksfildServices01/barber-reservations/internal/httperr"
	"github.com/BruksfildServices01/barber-reservations/internal/models"
)

type ReservationGormRepository struct {
	db *gorm.DB
}

func NewReservationGormRepository(db *gorm.DB) *ReservationGormRepository {
	return &ReservationGormRepository{db: db}
}

// --------------------------------------------------
// Barber / User
// --------------------------------------------------

func (r *ReservationGormRepository) GetBarber(
	ctx context.Context,
	id uint,
) (*models.Barber, error) {

	var barber models.Barber
	if err := r.db.WithContext(ctx).First(&barber, id).Error; err != nil {
		return nil, mapErr(err, "get barber", "barber_not_found")
	}
	return &barber, nil
}

func (r *ReservationGormRepository) ListBarbers(
	ctx context.Context,
) ([]models.Barber, error) {

	var barbers []models.Barber
	if err := r.db.WithContext(ctx).
		Order("name ASC, id ASC").
		Find(&barbers).Error; err != nil {
		return nil, mapErr(err, "list barbers", "barber_not_found")
	}
	return barbers, nil
}

func (r *ReservationGormRepository) UpdateBarber(
	ctx context.Context,
	b *models.Barber,
) error {
	return mapErr(r.db.WithContext(ctx).Save(b).Error, "update barber", "barber_not_found")
}

func (r *ReservationGormRepository) GetUser(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, mapErr(err, "get user", "user_not_found")
	}
	return &user, nil
}

// --------------------------------------------------
// Service catalog
// --------------------------------------------------

func (r *ReservationGormRepository) GetService(
	ctx context.Context,
	id uint,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).First(&service, id).Error; err != nil {
		return nil, mapErr(err, "get service", "service_not_found")
	}
	return &service, nil
}

func (r *ReservationGormRepository) ListServices(
	ctx context.Context,
	barberID uint,
) ([]models.Service, error) {

	var services []models.Service
	if err := r.db.WithContext(ctx).
		Where("barber_id = ?", barberID).
		Order("name ASC, id ASC").
		Find(&services).Error; err != nil {
		return nil, mapErr(err, "list services", "service_not_found")
	}
	return services, nil
}

func (r *ReservationGormRepository) CreateService(
	ctx context.Context,
	s *models.Service,
) error {
	return mapErr(r.db.WithContext(ctx).Create(s).Error, "create service", "service_not_found")
}

func (r *ReservationGormRepository) UpdateService(
	ctx context.Context,
	s *models.Service,
) error {
	return mapErr(r.db.WithContext(ctx).Save(s).Error, "update service", "service_not_found")
}

// DeleteService soft-deletes the row; reservations keep pointing at it.
func (r *ReservationGormRepository) DeleteService(
	ctx context.Context,
	id uint,
) error {

	res := r.db.WithContext(ctx).Delete(&models.Service{}, id)
	if res.Error != nil {
		return mapErr(res.Error, "delete service", "service_not_found")
	}
	if res.RowsAffected == 0 {
		return httperr.NotFoundErr("service_not_found")
	}
	return nil
}

// --------------------------------------------------
// Working hours
// --------------------------------------------------

func (r *ReservationGormRepository) GetWorkingHours(
	ctx context.Context,
	barberID uint,
) ([]models.WorkingHours, error) {

	var hours []models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("barber_id = ?", barberID).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {
		return nil, mapErr(err, "get working hours", "working_hours_not_found")
	}
	return hours, nil
}

func (r *ReservationGormRepository) ReplaceWorkingHours(
	ctx context.Context,
	barberID uint,
	hours []models.WorkingHours,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("barber_id = ?", barberID).
			Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}

		if len(hours) == 0 {
			return nil
		}

		for i := range hours {
			hours[i].ID = 0
			hours[i].BarberID = barberID
		}
		return tx.Create(&hours).Error
	})

	return mapErr(err, "replace working hours", "working_hours_not_found")
}

// --------------------------------------------------
// Reservation
// --------------------------------------------------

// withAssociations loads soft-deleted barbers and services too: a
// reservation keeps describing what was booked.
func withAssociations(db *gorm.DB) *gorm.DB {
	unscoped := func(db *gorm.DB) *gorm.DB { return db.Unscoped() }
	return db.
		Preload("Barber", unscoped).
		Preload("User").
		Preload("Service", unscoped)
}

func (r *ReservationGormRepository) GetReservation(
	ctx context.Context,
	id uint,
) (*models.Reservation, error) {

	var res models.Reservation
	if err := withAssociations(r.db.WithContext(ctx)).
		First(&res, id).Error; err != nil {
		return nil, mapErr(err, "get reservation", "reservation_not_found")
	}
	return &res, nil
}

func (r *ReservationGormRepository) ListReservations(
	ctx context.Context,
	q domain.ReservationQuery,
) ([]models.Reservation, error) {

	tx := withAssociations(r.db.WithContext(ctx))

	if q.BarberID != nil {
		tx = tx.Where("barber_id = ?", *q.BarberID)
	}
	if q.UserID != nil {
		tx = tx.Where("user_id = ?", *q.UserID)
	}
	if len(q.Statuses) > 0 {
		tx = tx.Where("status IN ?", q.Statuses)
	}
	if q.To != nil {
		tx = tx.Where("start_time < ?", *q.To)
	}
	if q.From != nil {
		tx = tx.Where("end_time > ?", *q.From)
	}

	var list []models.Reservation
	if err := tx.
		Order("start_time ASC, id ASC").
		Find(&list).Error; err != nil {
		return nil, mapErr(err, "list reservations", "reservation_not_found")
	}
	return list, nil
}

func (r *ReservationGormRepository) CreateReservation(
	ctx context.Context,
	res *models.Reservation,
) error {
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Create(res).Error
	return mapErr(err, "create reservation", "reservation_not_found")
}

func (r *ReservationGormRepository) UpdateReservation(
	ctx context.Context,
	res *models.Reservation,
) error {
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Save(res).Error
	return mapErr(err, "update reservation", "reservation_not_found")
}

// WithinBarberLock serializes fn against every other locked unit of the same
// barber through a transaction-scoped advisory lock. The exclusion
// constraint still guards writers that bypass the lock.
func (r *ReservationGormRepository) WithinBarberLock(
	ctx context.Context,
	barberID uint,
	fn func(ctx context.Context, tx domain.Repository) error,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", int64(barberID)).Error; err != nil {
			return mapErr(err, "barber lock", "barber_not_found")
		}

		var active []models.Reservation
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("barber_id = ? AND status IN ? AND end_time > ?",
				barberID, models.ActiveReservationStatuses, time.Now()).
			Find(&active).Error; err != nil {
			return mapErr(err, "lock active reservations", "reservation_not_found")
		}

		return fn(ctx, &ReservationGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Review
// --------------------------------------------------

func (r *ReservationGormRepository) CreateReview(
	ctx context.Context,
	rv *models.Review,
) error {

	err := r.db.WithContext(ctx).Create(rv).Error
	if IsUniqueViolation(err) {
		return httperr.ErrBusiness("already_reviewed")
	}
	return mapErr(err, "create review", "review_not_found")
}

func (r *ReservationGormRepository) HasReview(
	ctx context.Context,
	reservationID uint,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("reservation_id = ?", reservationID).
		Count(&count).Error; err != nil {
		return false, mapErr(err, "has review", "review_not_found")
	}
	return count > 0, nil
}

func (r *ReservationGormRepository) RatingSummary(
	ctx context.Context,
	barberID uint,
) (*models.RatingSummary, error) {

	summary := models.RatingSummary{BarberID: barberID}
	if err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("COUNT(*) AS count, COALESCE(AVG(rating), 0) AS average").
		Where("barber_id = ?", barberID).
		Scan(&summary).Error; err != nil {
		return nil, mapErr(err, "rating summary", "review_not_found")
	}
	summary.BarberID = barberID
	return &summary, nil
}

// Compile-time check
var _ domain.Repository = (*ReservationGormRepository)(nil)
