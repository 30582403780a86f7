// Package outbox delivers notification rows written alongside orders and
// contact messages. Delivery failures are retried with a linear backoff and
// never reach the request that created the row.
package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/wajeehjabribrahim/manajel-store/internal/models"
	"github.com/wajeehjabribrahim/manajel-store/internal/notification"
	"github.com/wajeehjabribrahim/manajel-store/internal/repository"

	"go.uber.org/zap"
)

type Publisher interface {
	Publish(ctx context.Context, key string, msg notification.EmailMessage) error
}

type Options struct {
	BatchSize   int
	MaxAttempts int
	Backoff     time.Duration // delay after the n-th failure is n*Backoff
	Retention   time.Duration // sent rows older than this are purged
}

func (o Options) withDefaults() Options {
	if o.BatchSize <= 0 {
		o.BatchSize = 20
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 10
	}
	if o.Backoff <= 0 {
		o.Backoff = 30 * time.Second
	}
	if o.Retention <= 0 {
		o.Retention = 7 * 24 * time.Hour
	}
	return o
}

type Relay struct {
	repo repository.OutboxRepo
	pub  Publisher
	opt  Options
	now  func() time.Time
	log  *zap.Logger
}

func NewRelay(repo repository.OutboxRepo, pub Publisher, opt Options, log *zap.Logger) *Relay {
	return &Relay{repo: repo, pub: pub, opt: opt.withDefaults(), now: time.Now, log: log}
}

// RunOnce publishes one batch of due messages and returns how many went out.
func (r *Relay) RunOnce(ctx context.Context) (int, error) {
	sent := 0
	err := r.repo.WithTx(ctx, func(tx repository.OutboxRepo) error {
		now := r.now().UTC()
		due, err := tx.LockDue(ctx, now, r.opt.MaxAttempts, r.opt.BatchSize)
		if err != nil {
			return err
		}
		for i := range due {
			m := &due[i]
			if err := r.deliver(ctx, m); err != nil {
				next := now.Add(time.Duration(m.Attempts+1) * r.opt.Backoff)
				r.log.Warn("outbox delivery failed",
					zap.String("id", m.ID.String()),
					zap.String("kind", string(m.Kind)),
					zap.Int("attempt", m.Attempts+1),
					zap.Time("next_attempt", next),
					zap.Error(err))
				if m.Attempts+1 >= r.opt.MaxAttempts {
					r.log.Error("outbox message gave up", zap.String("id", m.ID.String()), zap.String("kind", string(m.Kind)))
				}
				if err := tx.MarkFailed(ctx, m.ID, err.Error(), next); err != nil {
					return err
				}
				continue
			}
			if err := tx.MarkSent(ctx, m.ID, r.now().UTC()); err != nil {
				return err
			}
			sent++
		}
		return nil
	})
	if sent > 0 {
		r.log.Info("outbox batch delivered", zap.Int("sent", sent))
	}
	return sent, err
}

func (r *Relay) deliver(ctx context.Context, m *models.OutboxMessage) error {
	var msg notification.EmailMessage
	if err := json.Unmarshal(m.Payload, &msg); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	if !msg.Valid() {
		return fmt.Errorf("payload has no recipients or template")
	}
	return r.pub.Publish(ctx, m.Key, msg)
}

// Purge removes sent messages older than the retention window.
func (r *Relay) Purge(ctx context.Context) error {
	n, err := r.repo.PurgeSent(ctx, r.now().Add(-r.opt.Retention))
	if err != nil {
		return err
	}
	if n > 0 {
		r.log.Info("purged sent outbox messages", zap.Int64("count", n))
	}
	return nil
}

func (r *Relay) Pending(ctx context.Context) (int64, error) {
	return r.repo.CountPending(ctx)
}
