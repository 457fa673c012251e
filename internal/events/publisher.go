package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Topic suffixes; the configured prefix is prepended by the publisher.
const (
	TopicOrderPlaced         = "order.placed"
	TopicOrderPayment        = "order.payment"
	TopicVendorStatusChanged = "order.vendor_status_changed"
	TopicFeedbackRecorded    = "feedback.recorded"
)

// Publisher emits domain events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, topic string, key string, payload any) error
	Close() error
}

type kafkaPublisher struct {
	writer *kafka.Writer
	prefix string
}

// NewKafkaPublisher writes JSON events to the given brokers. Messages with the
// same key (order id, item id) land on the same partition.
func NewKafkaPublisher(brokers []string, prefix string) Publisher {
	return &kafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			BatchTimeout:           10 * time.Millisecond,
			AllowAutoTopicCreation: true,
		},
		prefix: prefix,
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, topic string, key string, payload any) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", topic, err)
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topicName(p.prefix, topic),
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	})
}

func (p *kafkaPublisher) Close() error { return p.writer.Close() }

type logPublisher struct {
	logger *zap.Logger
	prefix string
}

// NewLogPublisher is used when no brokers are configured.
func NewLogPublisher(logger *zap.Logger, prefix string) Publisher {
	logger.Info("kafka brokers not configured, events will only be logged")
	return &logPublisher{logger: logger, prefix: prefix}
}

func (p *logPublisher) Publish(ctx context.Context, topic string, key string, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", topic, err)
	}
	p.logger.Debug("event",
		zap.String("topic", topicName(p.prefix, topic)),
		zap.String("key", key),
		zap.ByteString("value", value))
	return nil
}

func (p *logPublisher) Close() error { return nil }

func topicName(prefix, topic string) string {
	if prefix == "" {
		return topic
	}
	return prefix + "." + topic
}
