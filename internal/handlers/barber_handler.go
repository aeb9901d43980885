package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-reservations/internal/httpresp"
	"github.com/BruksfildServices01/barber-reservations/internal/models"
	"github.com/BruksfildServices01/barber-reservations/internal/usecase/catalog"
)

// BarberHandler serves a barber's own account and the admin approval
// endpoints.
type BarberHandler struct {
	barbers *catalog.Barbers
	log     *zap.Logger
}

func NewBarberHandler(barbers *catalog.Barbers, log *zap.Logger) *BarberHandler {
	return &BarberHandler{barbers: barbers, log: log}
}

type UpdateBarberSettingsRequest struct {
	Timezone          *string `json:"timezone"`
	MinAdvanceMinutes *int    `json:"min_advance_minutes"`
}

type UpdateBarberStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *BarberHandler) GetMe(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}

	b, err := h.barbers.Get(c.Request.Context(), actor)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	httpresp.OK(c, b)
}

func (h *BarberHandler) UpdateMe(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}

	var req UpdateBarberSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	b, err := h.barbers.UpdateSettings(c.Request.Context(), actor, catalog.BarberSettings{
		Timezone:          req.Timezone,
		MinAdvanceMinutes: req.MinAdvanceMinutes,
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}
	httpresp.OK(c, b)
}

// --------- Admin ---------

func (h *BarberHandler) List(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}

	list, err := h.barbers.List(c.Request.Context(), actor)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	httpresp.List(c, list)
}

func (h *BarberHandler) SetStatus(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateBarberStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	b, err := h.barbers.SetStatus(c.Request.Context(), actor, id, models.BarberAccountStatus(req.Status))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	httpresp.OK(c, b)
}
