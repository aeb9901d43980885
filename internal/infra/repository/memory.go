package repository

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	domain "github.com/BruksfildServices01/barber-reservations/internal/domain/reservation"
	"github.com/BruksfildServices01/barber-reservations/internal/httperr"
	"github.com/BruksfildServices01/barber-reservations/internal/models"
)

// MemoryRepository keeps everything in process. It enforces the same
// overlap rule as the postgres exclusion constraint and serializes
// WithinBarberLock per barber.
type MemoryRepository struct {
	mu sync.RWMutex

	barbers      map[uint]models.Barber
	users        map[uint]models.User
	services     map[uint]models.Service
	hours        map[uint][]models.WorkingHours
	reservations map[uint]models.Reservation
	reviews      map[uint]models.Review

	nextID map[string]uint

	lockMu sync.Mutex
	locks  map[uint]*sync.Mutex

	now func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		barbers:      map[uint]models.Barber{},
		users:        map[uint]models.User{},
		services:     map[uint]models.Service{},
		hours:        map[uint][]models.WorkingHours{},
		reservations: map[uint]models.Reservation{},
		reviews:      map[uint]models.Review{},
		nextID:       map[string]uint{},
		locks:        map[uint]*sync.Mutex{},
		now:          time.Now,
	}
}

func (m *MemoryRepository) id(table string) uint {
	m.nextID[table]++
	return m.nextID[table]
}

// -------- Fixtures --------

func (m *MemoryRepository) AddBarber(b models.Barber) models.Barber {
	m.mu.Lock()
	defer m.mu.Unlock()

	if b.ID == 0 {
		b.ID = m.id("barbers")
	} else if b.ID > m.nextID["barbers"] {
		m.nextID["barbers"] = b.ID
	}
	b.CreatedAt, b.UpdatedAt = m.now(), m.now()
	m.barbers[b.ID] = b
	return b
}

func (m *MemoryRepository) AddUser(u models.User) models.User {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u.ID == 0 {
		u.ID = m.id("users")
	} else if u.ID > m.nextID["users"] {
		m.nextID["users"] = u.ID
	}
	u.CreatedAt, u.UpdatedAt = m.now(), m.now()
	m.users[u.ID] = u
	return u
}

// Seed stores a reservation as-is, skipping the overlap rule. It stands in
// for rows written before the constraint existed.
func (m *MemoryRepository) Seed(r models.Reservation) models.Reservation {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r.ID == 0 {
		r.ID = m.id("reservations")
	} else if r.ID > m.nextID["reservations"] {
		m.nextID["reservations"] = r.ID
	}
	m.reservations[r.ID] = r
	return r
}

// -------- Barber / User --------

func (m *MemoryRepository) GetBarber(_ context.Context, id uint) (*models.Barber, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.barbers[id]
	if !ok || b.DeletedAt.Valid {
		return nil, httperr.NotFoundErr("barber_not_found")
	}
	return &b, nil
}

func (m *MemoryRepository) ListBarbers(_ context.Context) ([]models.Barber, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Barber, 0, len(m.barbers))
	for _, b := range m.barbers {
		if !b.DeletedAt.Valid {
			out = append(out, b)
		}
	}
	slices.SortFunc(out, func(a, b models.Barber) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

func (m *MemoryRepository) UpdateBarber(_ context.Context, b *models.Barber) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.barbers[b.ID]; !ok {
		return httperr.NotFoundErr("barber_not_found")
	}
	b.UpdatedAt = m.now()
	m.barbers[b.ID] = *b
	return nil
}

func (m *MemoryRepository) GetUser(_ context.Context, id uint) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, httperr.NotFoundErr("user_not_found")
	}
	return &u, nil
}

// -------- Service catalog --------

func (m *MemoryRepository) GetService(_ context.Context, id uint) (*models.Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.services[id]
	if !ok || s.DeletedAt.Valid {
		return nil, httperr.NotFoundErr("service_not_found")
	}
	return &s, nil
}

func (m *MemoryRepository) ListServices(_ context.Context, barberID uint) ([]models.Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Service
	for _, s := range m.services {
		if s.BarberID == barberID && !s.DeletedAt.Valid {
			out = append(out, s)
		}
	}
	slices.SortFunc(out, func(a, b models.Service) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

func (m *MemoryRepository) CreateService(_ context.Context, s *models.Service) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s.ID = m.id("services")
	s.CreatedAt, s.UpdatedAt = m.now(), m.now()
	m.services[s.ID] = *s
	return nil
}

func (m *MemoryRepository) UpdateService(_ context.Context, s *models.Service) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cur, ok := m.services[s.ID]; !ok || cur.DeletedAt.Valid {
		return httperr.NotFoundErr("service_not_found")
	}
	s.UpdatedAt = m.now()
	m.services[s.ID] = *s
	return nil
}

func (m *MemoryRepository) DeleteService(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.services[id]
	if !ok || s.DeletedAt.Valid {
		return httperr.NotFoundErr("service_not_found")
	}
	s.DeletedAt.Time, s.DeletedAt.Valid = m.now(), true
	m.services[id] = s
	return nil
}

// -------- Working hours --------

func (m *MemoryRepository) GetWorkingHours(_ context.Context, barberID uint) ([]models.WorkingHours, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Clone(m.hours[barberID]), nil
}

func (m *MemoryRepository) ReplaceWorkingHours(_ context.Context, barberID uint, hours []models.WorkingHours) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.WorkingHours, len(hours))
	for i, wh := range hours {
		wh.ID = m.id("working_hours")
		wh.BarberID = barberID
		wh.CreatedAt, wh.UpdatedAt = m.now(), m.now()
		out[i] = wh
	}
	slices.SortFunc(out, func(a, b models.WorkingHours) int { return cmp.Compare(a.Weekday, b.Weekday) })
	m.hours[barberID] = out
	if len(out) == 0 {
		delete(m.hours, barberID)
	}
	return nil
}

// -------- Reservation --------

// fill attaches associations the way the gorm preloads do. Deleted
// barbers and services still resolve.
func (m *MemoryRepository) fill(r models.Reservation) models.Reservation {
	r.Barber = m.barbers[r.BarberID]
	r.User = m.users[r.UserID]
	r.Service = nil
	if r.ServiceID != nil {
		if s, ok := m.services[*r.ServiceID]; ok {
			r.Service = &s
		}
	}
	return r
}

func (m *MemoryRepository) GetReservation(_ context.Context, id uint) (*models.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.reservations[id]
	if !ok {
		return nil, httperr.NotFoundErr("reservation_not_found")
	}
	r = m.fill(r)
	return &r, nil
}

func matches(r models.Reservation, q domain.ReservationQuery) bool {
	if q.BarberID != nil && r.BarberID != *q.BarberID {
		return false
	}
	if q.UserID != nil && r.UserID != *q.UserID {
		return false
	}
	if len(q.Statuses) > 0 && !slices.Contains(q.Statuses, r.Status) {
		return false
	}
	if q.To != nil && !r.StartTime.Before(*q.To) {
		return false
	}
	if q.From != nil && !r.EndTime.After(*q.From) {
		return false
	}
	return true
}

func (m *MemoryRepository) ListReservations(_ context.Context, q domain.ReservationQuery) ([]models.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Reservation
	for _, r := range m.reservations {
		if matches(r, q) {
			out = append(out, m.fill(r))
		}
	}
	slices.SortFunc(out, func(a, b models.Reservation) int {
		return cmp.Or(a.StartTime.Compare(b.StartTime), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

// conflicts mirrors the exclusion constraint: two active reservations of
// one barber may not overlap.
func (m *MemoryRepository) conflicts(r models.Reservation) bool {
	if !r.Status.Active() {
		return false
	}
	for _, other := range m.reservations {
		if other.ID == r.ID || other.BarberID != r.BarberID || !other.Status.Active() {
			continue
		}
		if other.Overlaps(r.StartTime, r.EndTime) {
			return true
		}
	}
	return false
}

func strip(r models.Reservation) models.Reservation {
	r.Barber = models.Barber{}
	r.User = models.User{}
	r.Service = nil
	return r
}

func (m *MemoryRepository) CreateReservation(_ context.Context, r *models.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conflicts(*r) {
		return httperr.SlotUnavailable("slot_unavailable")
	}

	r.ID = m.id("reservations")
	r.CreatedAt, r.UpdatedAt = m.now(), m.now()
	m.reservations[r.ID] = strip(*r)
	return nil
}

func (m *MemoryRepository) UpdateReservation(_ context.Context, r *models.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.reservations[r.ID]
	if !ok {
		return httperr.NotFoundErr("reservation_not_found")
	}
	// Only writes that activate a row or move its slot can create a new
	// overlap; rows seeded with overlaps stay editable.
	moved := !cur.StartTime.Equal(r.StartTime) || !cur.EndTime.Equal(r.EndTime)
	if (moved || !cur.Status.Active()) && m.conflicts(*r) {
		return httperr.SlotUnavailable("slot_unavailable")
	}

	r.UpdatedAt = m.now()
	m.reservations[r.ID] = strip(*r)
	return nil
}

func (m *MemoryRepository) barberLock(barberID uint) *sync.Mutex {
	m.lockMu.Lock()
	defer m.lockMu.Unlock()

	l, ok := m.locks[barberID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[barberID] = l
	}
	return l
}

// WithinBarberLock holds the barber's mutex for the whole of fn. Writes are
// not rolled back when fn fails.
func (m *MemoryRepository) WithinBarberLock(
	ctx context.Context,
	barberID uint,
	fn func(ctx context.Context, tx domain.Repository) error,
) error {

	l := m.barberLock(barberID)
	l.Lock()
	defer l.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx, m)
}

// -------- Review --------

func (m *MemoryRepository) CreateReview(_ context.Context, rv *models.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, other := range m.reviews {
		if other.ReservationID == rv.ReservationID {
			return httperr.ErrBusiness("already_reviewed")
		}
	}

	rv.ID = m.id("reviews")
	rv.CreatedAt = m.now()
	m.reviews[rv.ID] = *rv
	return nil
}

func (m *MemoryRepository) HasReview(_ context.Context, reservationID uint) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, rv := range m.reviews {
		if rv.ReservationID == reservationID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryRepository) RatingSummary(_ context.Context, barberID uint) (*models.RatingSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	summary := models.RatingSummary{BarberID: barberID}
	total := 0
	for _, rv := range m.reviews {
		if rv.BarberID == barberID {
			summary.Count++
			total += rv.Rating
		}
	}
	if summary.Count > 0 {
		summary.Average = float64(total) / float64(summary.Count)
	}
	return &summary, nil
}

var _ domain.Repository = (*MemoryRepository)(nil)
