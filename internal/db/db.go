package db

import (
	"context"
	"embed"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/barber-reservations/internal/config"
	"github.com/BruksfildServices01/barber-reservations/internal/models"
)

//go:embed migrations/*.sql
var migrations embed.FS

// NewDB opens the pool, creates the tables from the models and then applies
// the SQL migrations that gorm cannot express (the overlap constraint).
func NewDB(ctx context.Context, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	gcfg := &gorm.Config{PrepareStmt: true}
	if cfg.IsProduction() {
		gcfg.Logger = gormlogger.Default.LogMode(gormlogger.Silent)
	}

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), gcfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.WithContext(ctx).AutoMigrate(
		&models.Barber{},
		&models.User{},
		&models.Service{},
		&models.WorkingHours{},
		&models.Reservation{},
		&models.Review{},
		&models.AuditLog{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, sqlDB, "migrations"); err != nil {
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return nil, fmt.Errorf("get migration version: %w", err)
	}
	log.Info("database ready", zap.Int64("migration_version", version))

	backfill := db.WithContext(ctx).Exec(`
        UPDATE barbers
        SET timezone = 'America/Sao_Paulo'
        WHERE timezone IS NULL OR timezone = ''
    `)
	if backfill.Error != nil {
		return nil, fmt.Errorf("backfill barber timezone: %w", backfill.Error)
	}
	if backfill.RowsAffected > 0 {
		log.Info("barber timezone backfilled", zap.Int64("rows", backfill.RowsAffected))
	}

	return db, nil
}
