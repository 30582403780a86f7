package outbox

import (
	"context"

	"github.com/wajeehjabribrahim/manajel-store/internal/notification"

	"go.uber.org/zap"
)

// LogPublisher writes notifications to the log. Used when neither Kafka nor
// SMTP is configured.
type LogPublisher struct {
	log *zap.Logger
}

func NewLogPublisher(log *zap.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(ctx context.Context, key string, msg notification.EmailMessage) error {
	p.log.Info("notification (no transport configured)",
		zap.String("key", key),
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("template", msg.Template))
	return nil
}
