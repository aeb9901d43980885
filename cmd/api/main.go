package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-reservations/internal/audit"
	"github.com/BruksfildServices01/barber-reservations/internal/config"
	dbpkg "github.com/BruksfildServices01/barber-reservations/internal/db"
	"github.com/BruksfildServices01/barber-reservations/internal/infra/idempotency"
	"github.com/BruksfildServices01/barber-reservations/internal/infra/repository"
	"github.com/BruksfildServices01/barber-reservations/internal/logger"
	"github.com/BruksfildServices01/barber-reservations/internal/metrics"
	"github.com/BruksfildServices01/barber-reservations/internal/models"
	"github.com/BruksfildServices01/barber-reservations/internal/routes"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Env)
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	// ======================================================
	// STORAGE
	// ======================================================
	deps := routes.Deps{Config: cfg, Log: log}
	var auditWriter audit.Writer

	switch cfg.StorageDriver {
	case config.StorageMemory:
		repo := repository.NewMemoryRepository()
		seedDemo(repo, log)
		deps.Repo = repo
		auditWriter = audit.NewZapWriter(log)

	case config.StoragePostgres:
		db, err := dbpkg.NewDB(ctx, cfg, log)
		if err != nil {
			log.Fatal("failed to open database", zap.Error(err))
		}
		auditLogger := audit.New(db)
		deps.Repo = repository.NewReservationGormRepository(db)
		deps.AuditReader = auditLogger
		auditWriter = auditLogger

	default:
		log.Fatal("unknown storage driver", zap.String("driver", cfg.StorageDriver))
	}

	dispatcher := audit.NewDispatcher(auditWriter, log)
	deps.Audit = dispatcher

	// ======================================================
	// IDEMPOTENCY (optional)
	// ======================================================
	if cfg.RedisURL != "" {
		client, err := idempotency.Connect(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn("redis unavailable, idempotency keys disabled", zap.Error(err))
		} else {
			defer client.Close()
			deps.Idempotency = idempotency.NewRedisStore(client, cfg.IdempotencyTTL)
		}
	}

	if cfg.MetricsEnabled {
		deps.Metrics = metrics.New(prometheus.DefaultRegisterer, "barber-reservations")
	}

	// ======================================================
	// HTTP
	// ======================================================
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	routes.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server running", zap.String("addr", cfg.Addr()), zap.String("storage", cfg.StorageDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		log.Warn("audit events dropped on shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}

// seedDemo gives the in-memory store one approved barber and one client so
// the API can be exercised without a database.
func seedDemo(repo *repository.MemoryRepository, log *zap.Logger) {
	b := repo.AddBarber(models.Barber{
		Name:     "Demo Barber",
		Email:    "barber@example.com",
		Status:   models.BarberConfirmed,
		Timezone: "America/Sao_Paulo",
	})
	u := repo.AddUser(models.User{Name: "Demo Client", Email: "client@example.com"})

	log.Info("memory store seeded", zap.Uint("barber_id", b.ID), zap.Uint("user_id", u.ID))
}
