package repository

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-reservations/internal/config"
	dbpkg "github.com/BruksfildServices01/barber-reservations/internal/db"
	domain "github.com/BruksfildServices01/barber-reservations/internal/domain/reservation"
	"github.com/BruksfildServices01/barber-reservations/internal/httperr"
	"github.com/BruksfildServices01/barber-reservations/internal/models"
)

// postgresFixture needs a disposable database in TEST_DATABASE_URL; the
// btree_gist extension must be installable there.
func postgresFixture(t *testing.T) (*ReservationGormRepository, models.Barber, models.User) {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := dbpkg.NewDB(ctx, &config.Config{Env: "test", DBUrl: url}, zap.NewNop())
	require.NoError(t, err)

	tag := uuid.NewString()
	b := models.Barber{Name: "Rafa", Email: tag + "@barber.test", Status: models.BarberConfirmed, Timezone: "UTC"}
	require.NoError(t, db.Create(&b).Error)
	u := models.User{Name: "Lia", Email: tag + "@client.test"}
	require.NoError(t, db.Create(&u).Error)

	t.Cleanup(func() {
		db.Where("barber_id = ?", b.ID).Delete(&models.Reservation{})
		db.Unscoped().Delete(&u)
		db.Unscoped().Delete(&b)
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return NewReservationGormRepository(db), b, u
}

func TestGorm_WithinBarberLockSerializes(t *testing.T) {
	repo, b, u := postgresFixture(t)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	// Disjoint hours: the exclusion constraint never fires, so only the
	// check inside the lock keeps the count at one.
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := repo.WithinBarberLock(ctx, b.ID, func(ctx context.Context, tx domain.Repository) error {
				active, err := tx.ListReservations(ctx, domain.ReservationQuery{
					BarberID: &b.ID,
					Statuses: models.ActiveReservationStatuses,
				})
				if err != nil {
					return err
				}
				if len(active) > 0 {
					return httperr.SlotUnavailable("slot_unavailable")
				}
				time.Sleep(5 * time.Millisecond)
				return tx.CreateReservation(ctx, booking(b, u, nine.Add(time.Duration(i)*time.Hour), 30))
			})
			if err == nil {
				mu.Lock()
				created++
				mu.Unlock()
			} else {
				assert.True(t, httperr.IsKind(err, httperr.KindSlotUnavailable), err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, created)
}

func TestGorm_ExclusionConstraintIsSlotUnavailable(t *testing.T) {
	repo, b, u := postgresFixture(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateReservation(ctx, booking(b, u, nine, 30)))

	err := repo.CreateReservation(ctx, booking(b, u, nine.Add(15*time.Minute), 30))
	assert.True(t, httperr.IsKind(err, httperr.KindSlotUnavailable), err)

	// touching slots are fine
	require.NoError(t, repo.CreateReservation(ctx, booking(b, u, nine.Add(30*time.Minute), 30)))
}

func TestGorm_WithinBarberLockRollsBack(t *testing.T) {
	repo, b, u := postgresFixture(t)
	ctx := context.Background()

	err := repo.WithinBarberLock(ctx, b.ID, func(ctx context.Context, tx domain.Repository) error {
		if err := tx.CreateReservation(ctx, booking(b, u, nine, 30)); err != nil {
			return err
		}
		return gorm.ErrInvalidData
	})
	require.ErrorIs(t, err, gorm.ErrInvalidData)

	list, err := repo.ListReservations(ctx, domain.ReservationQuery{BarberID: &b.ID})
	require.NoError(t, err)
	assert.Empty(t, list)
}
