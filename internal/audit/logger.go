package audit

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-reservations/internal/models"
)

// Logger persists events as AuditLog rows.
type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Write(ctx context.Context, ev Event) error {
	row := models.AuditLog{
		BarberID:  ev.BarberID,
		ActorRole: ev.ActorRole,
		ActorID:   ev.ActorID,
		Action:    ev.Action,
		Entity:    ev.Entity,
		EntityID:  ev.EntityID,
		Metadata:  metadataJSON(ev.Metadata),
	}

	return l.db.WithContext(ctx).Create(&row).Error
}

// Query filters the audit trail. Zero values mean "no filter".
type Query struct {
	BarberID uint
	Action   string
	Entity   string
	From     *time.Time
	// To is exclusive.
	To *time.Time

	Offset int
	Limit  int
}

// List returns one page of rows, newest first, and the total that match.
func (l *Logger) List(ctx context.Context, q Query) ([]models.AuditLog, int64, error) {
	tx := l.db.WithContext(ctx).Model(&models.AuditLog{})

	if q.BarberID != 0 {
		tx = tx.Where("barber_id = ?", q.BarberID)
	}
	if q.Action != "" {
		tx = tx.Where("action = ?", q.Action)
	}
	if q.Entity != "" {
		tx = tx.Where("entity = ?", q.Entity)
	}
	if q.From != nil {
		tx = tx.Where("created_at >= ?", *q.From)
	}
	if q.To != nil {
		tx = tx.Where("created_at < ?", *q.To)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.AuditLog
	err := tx.
		Order("created_at DESC").
		Order("id DESC").
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

func metadataJSON(metadata any) string {
	if metadata == nil {
		return ""
	}
	b, err := json.Marshal(metadata)
	if err != nil {
		return ""
	}
	return string(b)
}

// ZapWriter emits events as log lines, for deployments without a database.
type ZapWriter struct {
	log *zap.Logger
}

func NewZapWriter(log *zap.Logger) *ZapWriter {
	return &ZapWriter{log: log.Named("audit")}
}

func (w *ZapWriter) Write(_ context.Context, ev Event) error {
	fields := []zap.Field{
		zap.Uint("barber_id", ev.BarberID),
		zap.String("actor_role", ev.ActorRole),
		zap.String("entity", ev.Entity),
	}
	if ev.ActorID != nil {
		fields = append(fields, zap.Uint("actor_id", *ev.ActorID))
	}
	if ev.EntityID != nil {
		fields = append(fields, zap.Uint("entity_id", *ev.EntityID))
	}
	if meta := metadataJSON(ev.Metadata); meta != "" {
		fields = append(fields, zap.String("metadata", meta))
	}

	w.log.Info(ev.Action, fields...)
	return nil
}
