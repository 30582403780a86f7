package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/wajeehjabribrahim/manajel-store/internal/notification"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type EmailSender interface {
	SendEmail(n notification.EmailMessage) error
}

type KafkaEmailConsumer struct {
	reader *kafka.Reader
	sender EmailSender
	log    *zap.Logger
}

func NewKafkaEmailConsumer(brokers []string, groupID, topic string, sender EmailSender, log *zap.Logger) *KafkaEmailConsumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:           brokers,
		GroupID:           groupID,
		Topic:             topic,
		MinBytes:          10e3,
		MaxBytes:          10e6,
		CommitInterval:    time.Second,
		HeartbeatInterval: 3 * time.Second,
		SessionTimeout:    30 * time.Second,
	})
	return &KafkaEmailConsumer{reader: r, sender: sender, log: log}
}

func (c *KafkaEmailConsumer) Run(ctx context.Context) error {
	c.log.Info("kafka consumer started", zap.String("topic", c.reader.Config().Topic))
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			c.log.Error("read message", zap.Error(err))
			continue
		}
		c.handle(m)
	}
}

// handle delivers one message. Undecodable or incomplete messages are
// logged and skipped; the outbox already retried before publishing.
func (c *KafkaEmailConsumer) handle(m kafka.Message) {
	var em notification.EmailMessage
	if err := json.Unmarshal(m.Value, &em); err != nil {
		c.log.Error("unmarshal email message", zap.ByteString("value", m.Value), zap.Error(err))
		return
	}
	if !em.Valid() {
		c.log.Warn("invalid email message", zap.ByteString("key", m.Key), zap.String("template", em.Template))
		return
	}
	if err := c.sender.SendEmail(em); err != nil {
		c.log.Error("send email failed",
			zap.Strings("to", em.To),
			zap.String("template", em.Template),
			zap.Error(err))
		return
	}
	c.log.Info("email sent", zap.Strings("to", em.To), zap.String("template", em.Template))
}

func (c *KafkaEmailConsumer) Close() error { return c.reader.Close() }
