package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/cliplink/cliplink/internal/domain"
)

// DefaultClickTopic is the topic click events are published to
const DefaultClickTopic = "url.clicks"

// KafkaClickPublisher writes click events to Kafka as JSON, keyed by short
// code so all clicks for one code land on the same partition in order.
type KafkaClickPublisher struct {
	writer *kafka.Writer
	log    *zap.Logger
}

// NewKafkaClickPublisher creates a publisher for the given brokers and topic
func NewKafkaClickPublisher(brokers []string, topic string, log *zap.Logger) (*KafkaClickPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("click publisher requires at least one broker")
	}
	if topic == "" {
		topic = DefaultClickTopic
	}
	return &KafkaClickPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 10 * time.Millisecond,
		},
		log: log,
	}, nil
}

// PublishClick encodes and writes one click event
func (p *KafkaClickPublisher) PublishClick(ctx context.Context, ev *domain.ClickEvent) error {
	msg, err := clickMessage(ev)
	if err != nil {
		return fmt.Errorf("encoding click event: %w", err)
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("writing click event: %w", err)
	}
	p.log.Debug("published click event",
		zap.String("short_code", ev.ShortCode))
	return nil
}

// Close flushes pending messages and releases the writer
func (p *KafkaClickPublisher) Close() error {
	return p.writer.Close()
}

func clickMessage(ev *domain.ClickEvent) (kafka.Message, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(ev.ShortCode),
		Value: payload,
		Time:  ev.ClickedAt,
	}, nil
}

// Ensure KafkaClickPublisher implements the interface
var _ ClickPublisher = (*KafkaClickPublisher)(nil)
