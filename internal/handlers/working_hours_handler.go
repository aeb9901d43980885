package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-reservations/internal/httpresp"
	"github.com/BruksfildServices01/barber-reservations/internal/models"
	"github.com/BruksfildServices01/barber-reservations/internal/usecase/catalog"
)

type WorkingHoursHandler struct {
	hours *catalog.WorkingHours
	log   *zap.Logger
}

func NewWorkingHoursHandler(hours *catalog.WorkingHours, log *zap.Logger) *WorkingHoursHandler {
	return &WorkingHoursHandler{hours: hours, log: log}
}

type WorkingDayConfig struct {
	Weekday    int    `json:"weekday" binding:"min=0,max=6"`
	Active     bool   `json:"active"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	LunchStart string `json:"lunch_start"`
	LunchEnd   string `json:"lunch_end"`
}

type WorkingHoursUpdateRequest struct {
	Days []WorkingDayConfig `json:"days" binding:"dive"`
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}

	hours, err := h.hours.Get(c.Request.Context(), actor.ID)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	httpresp.List(c, hours)
}

// Put replaces the whole week. Weekdays left out have no restriction.
func (h *WorkingHoursHandler) Put(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}

	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	days := make([]models.WorkingHours, 0, len(req.Days))
	for _, d := range req.Days {
		days = append(days, models.WorkingHours{
			BarberID:   actor.ID,
			Weekday:    d.Weekday,
			Active:     d.Active,
			StartTime:  d.StartTime,
			EndTime:    d.EndTime,
			LunchStart: d.LunchStart,
			LunchEnd:   d.LunchEnd,
		})
	}

	hours, err := h.hours.Replace(c.Request.Context(), actor, actor.ID, days)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	httpresp.List(c, hours)
}
