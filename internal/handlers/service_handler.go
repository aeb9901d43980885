package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-reservations/internal/dto"
	"github.com/BruksfildServices01/barber-reservations/internal/httpresp"
	"github.com/BruksfildServices01/barber-reservations/internal/usecase/catalog"
)

type ServiceHandler struct {
	services *catalog.Services
	log      *zap.Logger
}

func NewServiceHandler(services *catalog.Services, log *zap.Logger) *ServiceHandler {
	return &ServiceHandler{services: services, log: log}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	DurationMin int    `json:"duration_min" binding:"required,min=1"`
	PriceCents  int64  `json:"price_cents" binding:"min=0"`
	ImageRef    string `json:"image_ref"`
}

type UpdateServiceRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	DurationMin *int    `json:"duration_min,omitempty"`
	PriceCents  *int64  `json:"price_cents,omitempty"`
	ImageRef    *string `json:"image_ref,omitempty"`
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}

	list, err := h.services.List(c.Request.Context(), actor.ID)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	httpresp.List(c, dto.FromServices(list))
}

func (h *ServiceHandler) Create(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	s, err := h.services.Create(c.Request.Context(), actor, catalog.ServiceInput{
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		DurationMin: req.DurationMin,
		ImageRef:    req.ImageRef,
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}
	httpresp.Created(c, dto.FromService(*s))
}

func (h *ServiceHandler) Update(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	s, err := h.services.Update(c.Request.Context(), actor, id, catalog.ServicePatch{
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		DurationMin: req.DurationMin,
		ImageRef:    req.ImageRef,
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}
	httpresp.OK(c, dto.FromService(*s))
}

// Delete refuses while an active reservation still points at the service.
func (h *ServiceHandler) Delete(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.services.Delete(c.Request.Context(), actor, id); err != nil {
		fail(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
