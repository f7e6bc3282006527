package client

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"

	"quickcourt/internal/config"
	"quickcourt/internal/util"
)

// KafkaProducer publishes messages to the auth event topic.
type KafkaProducer struct {
	Writer *kafka.Writer
}

func NewKafkaProducer(cfg *config.Config) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Kafka.Brokers...),
		Topic:        cfg.Kafka.AuthTopic,
		Balancer:     &kafka.LeastBytes{},
		MaxAttempts:  3,
		BatchBytes:   cfg.Kafka.BatchBytes,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				util.Error("failed to write kafka messages",
					util.ErrorField(err),
					util.Int("message_count", len(messages)))
			}
		},
	}

	util.Info("kafka producer initialized",
		util.String("topic", cfg.Kafka.AuthTopic))
	return &KafkaProducer{Writer: writer}
}

func (p *KafkaProducer) Publish(ctx context.Context, key, value []byte) error {
	return p.Writer.WriteMessages(ctx, kafka.Message{Key: key, Value: value})
}

func (p *KafkaProducer) Close() error {
	return p.Writer.Close()
}
