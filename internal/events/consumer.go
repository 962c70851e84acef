package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/cliplink/cliplink/internal/domain"
)

// ClickConsumer reads click events from Kafka within a consumer group and
// hands them to a ClickHandler. Offsets are committed after the handler
// succeeds, so processing is at-least-once.
type ClickConsumer struct {
	reader *kafka.Reader
	log    *zap.Logger
}

// ConsumerConfig parameterizes a click consumer
type ConsumerConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

// NewClickConsumer creates a consumer for the given group and topic
func NewClickConsumer(cfg ConsumerConfig, log *zap.Logger) (*ClickConsumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("click consumer requires at least one broker")
	}
	if cfg.GroupID == "" {
		return nil, fmt.Errorf("click consumer requires a group id")
	}
	topic := cfg.Topic
	if topic == "" {
		topic = DefaultClickTopic
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.GroupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  500 * time.Millisecond,
	})
	return &ClickConsumer{reader: reader, log: log}, nil
}

// Run consumes until the context is canceled. Malformed payloads are logged
// and committed so they are not redelivered forever; handler failures leave
// the offset uncommitted for redelivery.
func (c *ClickConsumer) Run(ctx context.Context, handle ClickHandler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return fmt.Errorf("fetching click event: %w", err)
		}

		var ev domain.ClickEvent
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			c.log.Warn("dropping malformed click event",
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(err))
			c.commit(ctx, msg)
			continue
		}

		if err := handle(ctx, &ev); err != nil {
			c.log.Error("click handler failed",
				zap.String("short_code", ev.ShortCode),
				zap.Int64("offset", msg.Offset),
				zap.Error(err))
			continue
		}
		c.commit(ctx, msg)
	}
}

func (c *ClickConsumer) commit(ctx context.Context, msg kafka.Message) {
	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		c.log.Warn("committing click event offset failed",
			zap.Int64("offset", msg.Offset),
			zap.Error(err))
	}
}

// Close releases the reader and its group membership
func (c *ClickConsumer) Close() error {
	return c.reader.Close()
}
