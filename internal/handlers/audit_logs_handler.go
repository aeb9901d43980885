package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-reservations/internal/audit"
	"github.com/BruksfildServices01/barber-reservations/internal/httperr"
	"github.com/BruksfildServices01/barber-reservations/internal/httpresp"
	"github.com/BruksfildServices01/barber-reservations/internal/models"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 200
)

// ======================================================
// HANDLER
// ======================================================

// AuditReader is implemented by the database-backed audit logger.
type AuditReader interface {
	List(ctx context.Context, q audit.Query) ([]models.AuditLog, int64, error)
}

type AuditLogsHandler struct {
	reader AuditReader
	log    *zap.Logger
}

func NewAuditLogsHandler(reader AuditReader, log *zap.Logger) *AuditLogsHandler {
	return &AuditLogsHandler{reader: reader, log: log}
}

// List is admin-only: GET /admin/audit-logs?barber_id=&action=&entity=&from=&to=&page=&limit=
func (h *AuditLogsHandler) List(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	if !actor.IsAdmin() {
		httperr.Respond(c, httperr.NotAuthorized("admins_only"))
		return
	}

	q := newQueryFilters(c)
	barberID := q.id("barber_id")
	from := q.date("from")
	to := q.date("to")
	page := q.integer("page", 1)
	limit := q.integer("limit", defaultAuditLimit)
	if !q.ok() {
		return
	}

	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > maxAuditLimit {
		limit = defaultAuditLimit
	}
	// "to" names the last day included
	if to != nil {
		end := to.AddDate(0, 0, 1)
		to = &end
	}

	logs, total, err := h.reader.List(c.Request.Context(), audit.Query{
		BarberID: barberID,
		Action:   c.Query("action"),
		Entity:   c.Query("entity"),
		From:     from,
		To:       to,
		Offset:   (page - 1) * limit,
		Limit:    limit,
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}
	if logs == nil {
		logs = []models.AuditLog{}
	}

	httpresp.OK(c, gin.H{
		"page":  page,
		"limit": limit,
		"total": total,
		"logs":  logs,
	})
}
