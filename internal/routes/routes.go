package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-reservations/internal/audit"
	"github.com/BruksfildServices01/barber-reservations/internal/config"
	domain "github.com/BruksfildServices01/barber-reservations/internal/domain/reservation"
	"github.com/BruksfildServices01/barber-reservations/internal/handlers"
	"github.com/BruksfildServices01/barber-reservations/internal/metrics"
	"github.com/BruksfildServices01/barber-reservations/internal/middleware"
	"github.com/BruksfildServices01/barber-reservations/internal/usecase/catalog"
	"github.com/BruksfildServices01/barber-reservations/internal/usecase/reservation"
)

// Deps are the singletons built by main. Idempotency, AuditReader and
// Metrics are optional.
type Deps struct {
	Config      *config.Config
	Repo        domain.Repository
	Idempotency reservation.IdempotencyStore
	Audit       *audit.Dispatcher
	AuditReader handlers.AuditReader
	Metrics     *metrics.Metrics
	Log         *zap.Logger
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config
	log := d.Log

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	r.Use(middleware.RequestLogger(log))
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware())
	}

	// ======================================================
	// USE CASES
	// ======================================================
	createReservationUC := reservation.NewCreateReservation(
		d.Repo,
		d.Idempotency,
		d.Audit,
		d.Metrics,
		log,
		cfg.DefaultServiceMinutes,
	)

	transitionReservationUC := reservation.NewTransitionReservation(
		d.Repo,
		d.Audit,
		d.Metrics,
		log,
	)

	listReservationsUC := reservation.NewListReservations(d.Repo, cfg.DefaultPageSize)
	projectScheduleUC := reservation.NewProjectSchedule(d.Repo)
	getAvailabilityUC := reservation.NewGetAvailability(d.Repo)

	servicesUC := catalog.NewServices(d.Repo, d.Audit, log)
	workingHoursUC := catalog.NewWorkingHours(d.Repo, d.Audit, log)
	reviewsUC := catalog.NewReviews(d.Repo, d.Audit, log)
	barbersUC := catalog.NewBarbers(d.Repo, d.Audit, log)

	// ======================================================
	// HANDLERS
	// ======================================================
	reservationHandler := handlers.NewReservationHandler(
		createReservationUC,
		transitionReservationUC,
		listReservationsUC,
		projectScheduleUC,
		log,
	)

	publicHandler := handlers.NewPublicHandler(
		getAvailabilityUC,
		projectScheduleUC,
		servicesUC,
		reviewsUC,
		log,
	)

	serviceHandler := handlers.NewServiceHandler(servicesUC, log)
	workingHoursHandler := handlers.NewWorkingHoursHandler(workingHoursUC, log)
	reviewHandler := handlers.NewReviewHandler(reviewsUC, log)
	barberHandler := handlers.NewBarberHandler(barbersUC, log)

	// ======================================================
	// INFRA
	// ======================================================
	r.GET("/health", handlers.Health)
	if d.Metrics != nil && cfg.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		public := api.Group("/barbers/:id")
		{
			public.GET("/availability", publicHandler.Availability)
			public.GET("/schedule", publicHandler.Schedule)
			public.GET("/services", publicHandler.Services)
			public.GET("/reviews/summary", publicHandler.ReviewSummary)
		}

		auth := middleware.AuthMiddleware(cfg.JWTSecret)

		// ------------------------------
		// CLIENT
		// ------------------------------
		client := api.Group("/client", auth, middleware.RequireRole(domain.RoleClient))
		{
			client.POST("/reservations", reservationHandler.Create)
			client.GET("/reservations", reservationHandler.List)
			client.PATCH("/reservations/:id/cancel", reservationHandler.Cancel)

			client.POST("/reviews", reviewHandler.Create)
		}

		// ------------------------------
		// BARBER
		// ------------------------------
		barber := api.Group("/barber", auth, middleware.RequireRole(domain.RoleBarber))
		{
			barber.GET("/me", barberHandler.GetMe)
			barber.PATCH("/me", barberHandler.UpdateMe)

			barber.GET("/schedule", reservationHandler.MySchedule)
			barber.GET("/reservations", reservationHandler.List)
			barber.PATCH("/reservations/:id/status", reservationHandler.UpdateStatus)

			barber.GET("/services", serviceHandler.List)
			barber.POST("/services", serviceHandler.Create)
			barber.PATCH("/services/:id", serviceHandler.Update)
			barber.DELETE("/services/:id", serviceHandler.Delete)

			barber.GET("/working-hours", workingHoursHandler.Get)
			barber.PUT("/working-hours", workingHoursHandler.Put)
		}

		// ------------------------------
		// ADMIN
		// ------------------------------
		admin := api.Group("/admin", auth, middleware.RequireRole(domain.RoleAdmin))
		{
			admin.GET("/reservations", reservationHandler.List)
			admin.POST("/reservations", reservationHandler.Create)
			admin.PATCH("/reservations/:id/status", reservationHandler.UpdateStatus)

			admin.GET("/barbers", barberHandler.List)
			admin.PATCH("/barbers/:id/status", barberHandler.SetStatus)

			if d.AuditReader != nil {
				auditLogsHandler := handlers.NewAuditLogsHandler(d.AuditReader, log)
				admin.GET("/audit-logs", auditLogsHandler.List)
			}
		}
	}
}
