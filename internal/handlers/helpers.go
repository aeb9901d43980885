package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barber-reservations/internal/domain/reservation"
	"github.com/BruksfildServices01/barber-reservations/internal/httperr"
	"github.com/BruksfildServices01/barber-reservations/internal/middleware"
)

const dateLayout = "2006-01-02"

func actorOf(c *gin.Context) (domain.Actor, bool) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		httperr.Unauthorized(c, "missing_actor", "Authentication required.")
		return domain.Actor{}, false
	}
	return actor, true
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.Respond(c, httperr.Validation("invalid_id", map[string]string{name: "must be a positive integer"}))
		return 0, false
	}
	return uint(id), true
}

// fail answers err; anything that is not a business error is logged and
// becomes a 500.
func fail(c *gin.Context, log *zap.Logger, err error) {
	if !httperr.Respond(c, err) {
		log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(middleware.ContextRequestID)),
			zap.Error(err),
		)
	}
}

func invalidBody(c *gin.Context, err error) {
	httperr.Respond(c, httperr.Validation("invalid_request", map[string]string{"body": err.Error()}))
}

// queryFilters collects parse errors per query parameter.
type queryFilters struct {
	c      *gin.Context
	fields map[string]string
}

func newQueryFilters(c *gin.Context) *queryFilters {
	return &queryFilters{c: c, fields: map[string]string{}}
}

func (q *queryFilters) id(key string) uint {
	v := q.c.Query(key)
	if v == "" {
		return 0
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		q.fields[key] = "must be a positive integer"
		return 0
	}
	return uint(n)
}

func (q *queryFilters) optionalID(key string) *uint {
	if q.c.Query(key) == "" {
		return nil
	}
	n := q.id(key)
	if n == 0 {
		return nil
	}
	return &n
}

func (q *queryFilters) integer(key string, def int) int {
	v := q.c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		q.fields[key] = "must be an integer"
		return def
	}
	return n
}

func (q *queryFilters) cents(key string) *int64 {
	v := q.c.Query(key)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		q.fields[key] = "must be a non-negative amount in cents"
		return nil
	}
	return &n
}

func (q *queryFilters) date(key string) *time.Time {
	v := q.c.Query(key)
	if v == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		q.fields[key] = "expected YYYY-MM-DD"
		return nil
	}
	return &t
}

// ok writes a validation error when any parameter failed to parse.
func (q *queryFilters) ok() bool {
	if len(q.fields) == 0 {
		return true
	}
	httperr.Respond(q.c, httperr.Validation("invalid_query", q.fields))
	return false
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
