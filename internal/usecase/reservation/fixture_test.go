package reservation

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barber-reservations/internal/domain/reservation"
	"github.com/BruksfildServices01/barber-reservations/internal/infra/repository"
	"github.com/BruksfildServices01/barber-reservations/internal/models"
)

// now is fixed five days before the scenario date.
var now = time.Date(2025, 6, 20, 10, 0, 0, 0, time.UTC)

func at(day, hour, min int) time.Time {
	return time.Date(2025, 6, day, hour, min, 0, 0, time.UTC)
}

type fixture struct {
	repo    *repository.MemoryRepository
	barber  models.Barber
	client  models.User
	other   models.User
	service models.Service

	create     *CreateReservation
	transition *TransitionReservation
	avail      *GetAvailability
	schedule   *ProjectSchedule
	list       *ListReservations
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := repository.NewMemoryRepository()
	f := &fixture{repo: repo}

	f.barber = repo.AddBarber(models.Barber{
		ID:       7,
		Name:     "Rafael Lima",
		Email:    "rafa@example.com",
		Timezone: "UTC",
		Status:   models.BarberConfirmed,
	})
	f.client = repo.AddUser(models.User{Name: "Lia Costa", Email: "lia@example.com"})
	f.other = repo.AddUser(models.User{Name: "Bruno Reis", Email: "bruno@example.com"})

	f.service = models.Service{BarberID: f.barber.ID, Name: "Corte", PriceCents: 4500, DurationMin: 30}
	require.NoError(t, repo.CreateService(context.Background(), &f.service))

	log := zap.NewNop()
	f.create = NewCreateReservation(repo, nil, nil, nil, log, 30)
	f.create.now = func() time.Time { return now }
	f.transition = NewTransitionReservation(repo, nil, nil, log)
	f.transition.now = func() time.Time { return now }
	f.avail = NewGetAvailability(repo)
	f.avail.now = func() time.Time { return now }
	f.schedule = NewProjectSchedule(repo)
	f.schedule.now = func() time.Time { return now }
	f.list = NewListReservations(repo, 10)

	return f
}

func (f *fixture) book(t *testing.T, user models.User, start time.Time) *models.Reservation {
	t.Helper()
	res, err := f.create.Execute(context.Background(), CreateReservationInput{
		Actor:     domain.Client(user.ID),
		BarberID:  f.barber.ID,
		ServiceID: &f.service.ID,
		StartTime: start,
	})
	require.NoError(t, err)
	return res.Reservation
}

func (f *fixture) seed(status domain.Status, start time.Time, min int) models.Reservation {
	return f.repo.Seed(models.Reservation{
		BarberID:    f.barber.ID,
		UserID:      f.client.ID,
		ServiceName: "Corte",
		DurationMin: min,
		StartTime:   start,
		EndTime:     start.Add(time.Duration(min) * time.Minute),
		Status:      status,
	})
}

// memoryIdempotency is an in-process IdempotencyStore.
type memoryIdempotency struct {
	mu   sync.Mutex
	keys map[string]uint
}

func (m *memoryIdempotency) Lookup(_ context.Context, userID uint, key string) (uint, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.keys[key]
	return id, ok, nil
}

func (m *memoryIdempotency) Remember(_ context.Context, userID uint, key string, id uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.keys[key]; ok {
		return false, nil
	}
	m.keys[key] = id
	return true, nil
}

// lockSpy records how many WithinBarberLock bodies run at the same time.
type lockSpy struct {
	domain.Repository
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (s *lockSpy) WithinBarberLock(
	ctx context.Context,
	barberID uint,
	fn func(ctx context.Context, tx domain.Repository) error,
) error {
	return s.Repository.WithinBarberLock(ctx, barberID, func(ctx context.Context, tx domain.Repository) error {
		n := s.inFlight.Add(1)
		defer s.inFlight.Add(-1)
		for p := s.peak.Load(); n > p && !s.peak.CompareAndSwap(p, n); p = s.peak.Load() {
		}
		time.Sleep(time.Millisecond)
		return fn(ctx, tx)
	})
}

// staleCatalog changes the barber or the service right after the use case
// first reads it, before the booking takes the barber lock.
type staleCatalog struct {
	*repository.MemoryRepository
	deleteService bool
	suspendBarber bool
}

func (s *staleCatalog) GetService(ctx context.Context, id uint) (*models.Service, error) {
	svc, err := s.MemoryRepository.GetService(ctx, id)
	if err == nil && s.deleteService {
		s.deleteService = false
		if err := s.MemoryRepository.DeleteService(ctx, id); err != nil {
			return nil, err
		}
	}
	return svc, err
}

func (s *staleCatalog) GetBarber(ctx context.Context, id uint) (*models.Barber, error) {
	b, err := s.MemoryRepository.GetBarber(ctx, id)
	if err == nil && s.suspendBarber {
		s.suspendBarber = false
		changed := *b
		changed.Status = models.BarberCancelled
		if err := s.MemoryRepository.UpdateBarber(ctx, &changed); err != nil {
			return nil, err
		}
	}
	return b, err
}
