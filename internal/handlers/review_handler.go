package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-reservations/internal/httpresp"
	"github.com/BruksfildServices01/barber-reservations/internal/usecase/catalog"
)

type ReviewHandler struct {
	reviews *catalog.Reviews
	log     *zap.Logger
}

func NewReviewHandler(reviews *catalog.Reviews, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, log: log}
}

type CreateReviewRequest struct {
	ReservationID uint   `json:"reservation_id" binding:"required"`
	Rating        int    `json:"rating" binding:"required"`
	Comment       string `json:"comment"`
}

func (h *ReviewHandler) Create(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	rv, err := h.reviews.Create(c.Request.Context(), actor, catalog.ReviewInput{
		ReservationID: req.ReservationID,
		Rating:        req.Rating,
		Comment:       req.Comment,
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}
	httpresp.Created(c, rv)
}
