// Package metrics exposes the service's prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	reservationsCreated *prometheus.CounterVec
	transitions         *prometheus.CounterVec
	conflicts           *prometheus.CounterVec
	autoCancelled       prometheus.Counter
	idempotentReplays   prometheus.Counter
}

func New(reg prometheus.Registerer, service string) *Metrics {
	f := promauto.With(reg)
	labels := prometheus.Labels{"service": service}

	return &Metrics{
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "HTTP requests by route, method and status.",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency.",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		reservationsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "reservations_created_total",
			Help:        "Reservations created, by creating role.",
			ConstLabels: labels,
		}, []string{"role"}),
		transitions: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "reservation_transitions_total",
			Help:        "Reservation status transitions, by target status and role.",
			ConstLabels: labels,
		}, []string{"to", "role"}),
		conflicts: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "reservation_conflicts_total",
			Help:        "Rejected bookings or confirmations because the slot was taken.",
			ConstLabels: labels,
		}, []string{"operation"}),
		autoCancelled: f.NewCounter(prometheus.CounterOpts{
			Name:        "reservations_auto_cancelled_total",
			Help:        "Pending reservations cancelled by a competing confirmation.",
			ConstLabels: labels,
		}),
		idempotentReplays: f.NewCounter(prometheus.CounterOpts{
			Name:        "reservation_idempotent_replays_total",
			Help:        "Create requests answered from the idempotency store.",
			ConstLabels: labels,
		}),
	}
}

// The recorders below accept a nil receiver so callers built without
// metrics need no guards.

func (m *Metrics) ReservationCreated(role string) {
	if m == nil {
		return
	}
	m.reservationsCreated.WithLabelValues(role).Inc()
}

func (m *Metrics) Transition(to, role string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(to, role).Inc()
}

func (m *Metrics) Conflict(operation string) {
	if m == nil {
		return
	}
	m.conflicts.WithLabelValues(operation).Inc()
}

func (m *Metrics) AutoCancelled(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.autoCancelled.Add(float64(n))
}

func (m *Metrics) IdempotentReplay() {
	if m == nil {
		return
	}
	m.idempotentReplays.Inc()
}

// Middleware records count and latency per matched route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
