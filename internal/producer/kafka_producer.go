package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/wajeehjabribrahim/manajel-store/internal/notification"

	"github.com/segmentio/kafka-go"
)

type EmailProducer struct {
	writer *kafka.Writer
}

func NewEmailProducer(brokers []string, topic string) *EmailProducer {
	return &EmailProducer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
		},
	}
}

// Publish writes msg keyed by the order or message id, so notifications for
// the same record stay on one partition.
func (p *EmailProducer) Publish(ctx context.Context, key string, msg notification.EmailMessage) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	value, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "template", Value: []byte(msg.Template)},
		},
	})
}

func (p *EmailProducer) Close() error {
	return p.writer.Close()
}
