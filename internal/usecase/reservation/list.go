package reservation

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barber-reservations/internal/domain/reservation"
	"github.com/BruksfildServices01/barber-reservations/internal/httperr"
	"github.com/BruksfildServices01/barber-reservations/internal/listing"
	"github.com/BruksfildServices01/barber-reservations/internal/models"
	"github.com/BruksfildServices01/barber-reservations/internal/timezone"
)

// ReservationFilter holds the optional filters of every reservation list.
// Zero values mean "no filter".
type ReservationFilter struct {
	Status     domain.Status
	BarberID   uint
	UserID     uint
	BarberName string
	ClientName string
	Service    string
	MinPrice   *int64
	MaxPrice   *int64

	// From/To bound the start instant, To exclusive.
	From *time.Time
	To   *time.Time

	// FromDay/ToDay are inclusive calendar days, read in the timezone of
	// each reservation's barber.
	FromDay *time.Time
	ToDay   *time.Time

	Page     int
	PageSize int
}

type ListInput struct {
	Actor  domain.Actor
	Filter ReservationFilter
}

// PriceCents is what a reservation costs; free-text services are unpriced.
func PriceCents(r models.Reservation) int64 {
	if r.Service == nil {
		return 0
	}
	return r.Service.PriceCents
}

// byStart is the one ordering every list uses.
var byStart = listing.Then(
	listing.ByTime(func(r models.Reservation) time.Time { return r.StartTime }),
	listing.By(func(r models.Reservation) uint { return r.ID }),
)

// Pipeline applies f to a loaded reservation set.
func Pipeline(list []models.Reservation, f ReservationFilter) listing.Pipeline[models.Reservation] {
	p := listing.From(list).SortBy(byStart)

	p = p.WhereIf(f.Status != "", listing.Equal(func(r models.Reservation) domain.Status { return r.Status }, f.Status))
	p = p.WhereIf(f.BarberID != 0, listing.Equal(func(r models.Reservation) uint { return r.BarberID }, f.BarberID))
	p = p.WhereIf(f.UserID != 0, listing.Equal(func(r models.Reservation) uint { return r.UserID }, f.UserID))
	p = p.Where(listing.ContainsFold(func(r models.Reservation) string { return r.Barber.Name }, f.BarberName))
	p = p.Where(listing.ContainsFold(func(r models.Reservation) string { return r.User.Name }, f.ClientName))
	p = p.Where(listing.ContainsFold(func(r models.Reservation) string { return r.ServiceName }, f.Service))
	p = p.WhereIf(f.From != nil || f.To != nil,
		listing.TimeBetween(func(r models.Reservation) time.Time { return r.StartTime }, f.From, f.To))
	p = p.WhereIf(f.FromDay != nil || f.ToDay != nil,
		listing.TimeBetween(localDay, dayOf(f.FromDay, 0), dayOf(f.ToDay, 1)))
	p = p.WhereIf(f.MinPrice != nil || f.MaxPrice != nil,
		listing.InRange(PriceCents, f.MinPrice, f.MaxPrice))

	return p
}

// localDay is the calendar day a reservation starts on for its barber,
// expressed as UTC midnight so it compares with dayOf.
func localDay(r models.Reservation) time.Time {
	t := r.StartTime.In(timezone.Location(r.Barber.Timezone))
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dayOf(t *time.Time, offset int) *time.Time {
	if t == nil {
		return nil
	}
	d := time.Date(t.Year(), t.Month(), t.Day()+offset, 0, 0, 0, 0, time.UTC)
	return &d
}

func validateFilter(f ReservationFilter) error {
	if f.Status != "" && !f.Status.Valid() {
		return httperr.Validation("invalid_status", map[string]string{"status": "unknown status"})
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return httperr.Validation("invalid_range", map[string]string{"min_price": "must not exceed max_price"})
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return httperr.Validation("invalid_range", map[string]string{"to": "must not be before from"})
	}
	if f.FromDay != nil && f.ToDay != nil && dayOf(f.ToDay, 0).Before(*dayOf(f.FromDay, 0)) {
		return httperr.Validation("invalid_range", map[string]string{"to": "must not be before from"})
	}
	return nil
}

// ListReservations backs the client, barber and admin lists. The actor's
// role fixes the scope; filters only narrow it.
type ListReservations struct {
	repo            domain.Repository
	defaultPageSize int
}

func NewListReservations(repo domain.Repository, defaultPageSize int) *ListReservations {
	if defaultPageSize <= 0 {
		defaultPageSize = listing.DefaultPageSize
	}
	return &ListReservations{repo: repo, defaultPageSize: defaultPageSize}
}

func (uc *ListReservations) Execute(
	ctx context.Context,
	in ListInput,
) (*listing.Page[models.Reservation], error) {

	if err := in.Actor.Validate(); err != nil {
		return nil, err
	}
	if err := validateFilter(in.Filter); err != nil {
		return nil, err
	}

	q := domain.ReservationQuery{}
	switch in.Actor.Role {
	case domain.RoleClient:
		q.UserID = &in.Actor.ID
	case domain.RoleBarber:
		q.BarberID = &in.Actor.ID
	case domain.RoleAdmin:
		if in.Filter.BarberID != 0 {
			q.BarberID = &in.Filter.BarberID
		}
		if in.Filter.UserID != 0 {
			q.UserID = &in.Filter.UserID
		}
	}

	var list []models.Reservation
	err := withReadRetry(ctx, func(ctx context.Context) error {
		var err error
		list, err = uc.repo.ListReservations(ctx, q)
		return err
	})
	if err != nil {
		return nil, err
	}

	size := in.Filter.PageSize
	if size <= 0 {
		size = uc.defaultPageSize
	}
	page := Pipeline(list, in.Filter).Page(in.Filter.Page, size)
	return &page, nil
}
