package repository

import (
	"context"
	"time"

	"github.com/wajeehjabribrahim/manajel-store/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OutboxRepo interface {
	Enqueue(ctx context.Context, m *models.OutboxMessage) error
	// LockDue selects unsent messages whose next attempt is due and that
	// have been tried fewer than maxAttempts times, skipping rows locked by
	// another relay. Only meaningful inside WithTx.
	LockDue(ctx context.Context, now time.Time, maxAttempts, limit int) ([]models.OutboxMessage, error)
	MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string, next time.Time) error
	PurgeSent(ctx context.Context, before time.Time) (int64, error)
	CountPending(ctx context.Context) (int64, error)

	WithTx(ctx context.Context, fn func(tx OutboxRepo) error) error
}

type outboxRepo struct{ db *gorm.DB }

func NewOutboxRepo(db *gorm.DB) OutboxRepo { return &outboxRepo{db: db} }

func (r *outboxRepo) Enqueue(ctx context.Context, m *models.OutboxMessage) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *outboxRepo) LockDue(ctx context.Context, now time.Time, maxAttempts, limit int) ([]models.OutboxMessage, error) {
	if limit <= 0 {
		limit = 20
	}
	q := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("sent_at IS NULL AND next_attempt_at <= ?", now)
	if maxAttempts > 0 {
		q = q.Where("attempts < ?", maxAttempts)
	}
	var list []models.OutboxMessage
	err := q.
		Order("next_attempt_at ASC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *outboxRepo) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.OutboxMessage{}).Where("id = ?", id).
		Updates(map[string]any{
			"sent_at":    at,
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": nil,
		}).Error
}

func (r *outboxRepo) MarkFailed(ctx context.Context, id uuid.UUID, reason string, next time.Time) error {
	return r.db.WithContext(ctx).Model(&models.OutboxMessage{}).Where("id = ?", id).
		Updates(map[string]any{
			"attempts":        gorm.Expr("attempts + 1"),
			"last_error":      reason,
			"next_attempt_at": next,
		}).Error
}

func (r *outboxRepo) PurgeSent(ctx context.Context, before time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).Where("sent_at IS NOT NULL AND sent_at < ?", before).Delete(&models.OutboxMessage{})
	return tx.RowsAffected, tx.Error
}

func (r *outboxRepo) CountPending(ctx context.Context) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&models.OutboxMessage{}).Where("sent_at IS NULL").Count(&cnt).Error
	return cnt, err
}

func (r *outboxRepo) WithTx(ctx context.Context, fn func(tx OutboxRepo) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&outboxRepo{db: tx})
	})
}
