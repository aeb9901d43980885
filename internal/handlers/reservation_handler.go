package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barber-reservations/internal/domain/reservation"
	"github.com/BruksfildServices01/barber-reservations/internal/dto"
	"github.com/BruksfildServices01/barber-reservations/internal/httpresp"
	"github.com/BruksfildServices01/barber-reservations/internal/infra/idempotency"
	"github.com/BruksfildServices01/barber-reservations/internal/models"
	"github.com/BruksfildServices01/barber-reservations/internal/usecase/reservation"
)

const HeaderIdempotencyKey = "Idempotency-Key"

// ======================================================
// HANDLER
// ======================================================

// ReservationHandler serves the reservation operations of all three actor
// surfaces. The actor set by the auth middleware decides the scope.
type ReservationHandler struct {
	create     *reservation.CreateReservation
	transition *reservation.TransitionReservation
	list       *reservation.ListReservations
	schedule   *reservation.ProjectSchedule
	log        *zap.Logger
}

func NewReservationHandler(
	create *reservation.CreateReservation,
	transition *reservation.TransitionReservation,
	list *reservation.ListReservations,
	schedule *reservation.ProjectSchedule,
	log *zap.Logger,
) *ReservationHandler {
	return &ReservationHandler{
		create:     create,
		transition: transition,
		list:       list,
		schedule:   schedule,
		log:        log,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateReservationRequest struct {
	BarberID    uint   `json:"barber_id" binding:"required"`
	ServiceID   *uint  `json:"service_id"`
	ServiceName string `json:"service_name"`
	// StartTime is RFC 3339. Date + Time are local to the barber.
	StartTime *time.Time `json:"start_time"`
	Date      string     `json:"date"`
	Time      string     `json:"time"`
	Notes     string     `json:"notes"`
	// UserID is the client an admin books for.
	UserID uint `json:"user_id"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type TransitionResponse struct {
	Reservation   dto.ReservationDTO `json:"reservation"`
	AutoCancelled []uint             `json:"auto_cancelled,omitempty"`
}

// ======================================================
// CREATE
// ======================================================

func (h *ReservationHandler) Create(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}

	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	key := strings.TrimSpace(c.GetHeader(HeaderIdempotencyKey))
	if key != "" {
		if err := idempotency.ValidateKey(key); err != nil {
			fail(c, h.log, err)
			return
		}
	}

	in := reservation.CreateReservationInput{
		Actor:          actor,
		UserID:         req.UserID,
		BarberID:       req.BarberID,
		ServiceID:      req.ServiceID,
		ServiceName:    req.ServiceName,
		Date:           req.Date,
		Time:           req.Time,
		Notes:          req.Notes,
		IdempotencyKey: key,
	}
	if req.StartTime != nil {
		in.StartTime = *req.StartTime
	}

	res, err := h.create.Execute(c.Request.Context(), in)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	status := http.StatusCreated
	if res.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, dto.FromReservation(*res.Reservation, nil))
}

// ======================================================
// LIST
// ======================================================

func (h *ReservationHandler) List(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}

	q := newQueryFilters(c)
	f := reservation.ReservationFilter{
		Status:     domain.Status(c.Query("status")),
		BarberID:   q.id("barber_id"),
		UserID:     q.id("user_id"),
		BarberName: c.Query("barber"),
		ClientName: c.Query("client"),
		Service:    c.Query("service"),
		FromDay:    q.date("from"),
		ToDay:      q.date("to"),
		MinPrice:   q.cents("min_price"),
		MaxPrice:   q.cents("max_price"),
		Page:       q.integer("page", 1),
		PageSize:   q.integer("page_size", 0),
	}
	if !q.ok() {
		return
	}

	page, err := h.list.Execute(c.Request.Context(), reservation.ListInput{Actor: actor, Filter: f})
	if err != nil {
		fail(c, h.log, err)
		return
	}

	httpresp.Page(c, *page, reservationView)
}

// ======================================================
// STATUS
// ======================================================

// Cancel is the client's only mutation.
func (h *ReservationHandler) Cancel(c *gin.Context) {
	h.move(c, domain.StatusCancelled)
}

func (h *ReservationHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	target, err := domain.ParseStatus(req.Status)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	h.move(c, target)
}

func (h *ReservationHandler) move(c *gin.Context, target domain.Status) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	res, err := h.transition.Execute(c.Request.Context(), reservation.TransitionInput{
		Actor:         actor,
		ReservationID: id,
		Target:        target,
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}

	httpresp.OK(c, TransitionResponse{
		Reservation:   dto.FromReservation(*res.Reservation, nil),
		AutoCancelled: res.AutoCancelled,
	})
}

// ======================================================
// MY DAY
// ======================================================

// MySchedule is the barber's timeline for ?date=, today by default.
func (h *ReservationHandler) MySchedule(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}

	q := newQueryFilters(c)
	date := q.date("date")
	page, size := q.integer("page", 1), q.integer("page_size", 0)
	if !q.ok() {
		return
	}

	var (
		sched *reservation.Schedule
		err   error
	)
	if date == nil {
		sched, err = h.schedule.Today(c.Request.Context(), actor.ID)
	} else {
		sched, err = h.schedule.Execute(c.Request.Context(), reservation.ScheduleInput{
			BarberID: actor.ID,
			Date:     date,
		})
	}
	if err != nil {
		fail(c, h.log, err)
		return
	}

	if size <= 0 {
		httpresp.List(c, collect(sched))
		return
	}
	httpresp.Page(c, sched.Page(page, size), identity[reservation.ScheduleEntry])
}

func collect(s *reservation.Schedule) []reservation.ScheduleEntry {
	out := make([]reservation.ScheduleEntry, 0, s.Len())
	for e := range s.All() {
		out = append(out, e)
	}
	return out
}

func identity[T any](v T) T { return v }

func reservationView(r models.Reservation) dto.ReservationDTO {
	return dto.FromReservation(r, nil)
}
