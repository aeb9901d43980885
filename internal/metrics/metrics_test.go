package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorders(t *testing.T) {
	m := New(prometheus.NewRegistry(), "test")

	m.ReservationCreated("client")
	m.ReservationCreated("client")
	m.Transition("confirmed", "barber")
	m.Conflict("create")
	m.AutoCancelled(2)
	m.AutoCancelled(0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.reservationsCreated.WithLabelValues("client")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("confirmed", "barber")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.conflicts.WithLabelValues("create")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.autoCancelled))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ReservationCreated("client")
		m.Transition("done", "admin")
		m.Conflict("confirm")
		m.AutoCancelled(1)
		m.IdempotentReplay()
	})
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New(prometheus.NewRegistry(), "test")

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/barbers/:id/schedule", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/barbers/3/schedule", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(
		m.httpRequests.WithLabelValues(http.MethodGet, "/api/barbers/:id/schedule", "200"),
	))
}
