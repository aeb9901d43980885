package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barber-reservations/internal/domain/reservation"
	"github.com/BruksfildServices01/barber-reservations/internal/dto"
	"github.com/BruksfildServices01/barber-reservations/internal/httpresp"
	"github.com/BruksfildServices01/barber-reservations/internal/models"
	"github.com/BruksfildServices01/barber-reservations/internal/usecase/catalog"
	"github.com/BruksfildServices01/barber-reservations/internal/usecase/reservation"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

// PublicHandler serves the unauthenticated barber pages.
type PublicHandler struct {
	availability *reservation.GetAvailability
	schedule     *reservation.ProjectSchedule
	services     *catalog.Services
	reviews      *catalog.Reviews
	log          *zap.Logger
}

func NewPublicHandler(
	availability *reservation.GetAvailability,
	schedule *reservation.ProjectSchedule,
	services *catalog.Services,
	reviews *catalog.Reviews,
	log *zap.Logger,
) *PublicHandler {
	return &PublicHandler{
		availability: availability,
		schedule:     schedule,
		services:     services,
		reviews:      reviews,
		log:          log,
	}
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

// Availability answers GET /barbers/:id/availability?from=&to=&service_id=.
// Dates are calendar days in the barber's timezone; to defaults to from.
func (h *PublicHandler) Availability(c *gin.Context) {
	barberID, ok := paramID(c, "id")
	if !ok {
		return
	}

	q := newQueryFilters(c)
	from := q.date("from")
	to := q.date("to")
	serviceID := q.optionalID("service_id")
	if from == nil && q.c.Query("from") == "" {
		q.fields["from"] = "required"
	}
	if !q.ok() {
		return
	}

	in := domain.AvailabilityInput{
		BarberID:  barberID,
		From:      *from,
		ServiceID: serviceID,
	}
	if to != nil {
		in.To = *to
	}

	out, err := h.availability.Execute(c.Request.Context(), in)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	httpresp.OK(c, out)
}

////////////////////////////////////////////////////////
// SCHEDULE
////////////////////////////////////////////////////////

// Schedule is the public timeline. Only slots that are still taken are
// shown; cancelled and finished reservations stay private.
func (h *PublicHandler) Schedule(c *gin.Context) {
	barberID, ok := paramID(c, "id")
	if !ok {
		return
	}

	q := newQueryFilters(c)
	date := q.date("date")
	page := q.integer("page", 1)
	size := q.integer("page_size", 0)
	if !q.ok() {
		return
	}

	sched, err := h.schedule.Execute(c.Request.Context(), reservation.ScheduleInput{
		BarberID: barberID,
		Date:     date,
		Statuses: models.ActiveReservationStatuses,
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}

	httpresp.Page(c, sched.Page(page, size), identity[reservation.ScheduleEntry])
}

////////////////////////////////////////////////////////
// CATALOG
////////////////////////////////////////////////////////

func (h *PublicHandler) Services(c *gin.Context) {
	barberID, ok := paramID(c, "id")
	if !ok {
		return
	}

	list, err := h.services.List(c.Request.Context(), barberID)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	httpresp.List(c, dto.FromServices(list))
}

func (h *PublicHandler) ReviewSummary(c *gin.Context) {
	barberID, ok := paramID(c, "id")
	if !ok {
		return
	}

	summary, err := h.reviews.Summary(c.Request.Context(), barberID)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	httpresp.OK(c, summary)
}
