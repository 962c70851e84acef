// Package events publishes and consumes redirect click events over Kafka.
package events

import (
	"context"

	"github.com/cliplink/cliplink/internal/domain"
)

// ClickPublisher emits click events for asynchronous analytics processing.
// Publishing is not on the redirect critical path: callers treat failures as
// log-and-continue.
type ClickPublisher interface {
	PublishClick(ctx context.Context, ev *domain.ClickEvent) error
	Close() error
}

// ClickHandler processes one consumed click event. Returning an error leaves
// the event uncommitted for redelivery.
type ClickHandler func(ctx context.Context, ev *domain.ClickEvent) error
