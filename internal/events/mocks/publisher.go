package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/cliplink/cliplink/internal/domain"
)

// ClickPublisher is a mock implementation of events.ClickPublisher
type ClickPublisher struct {
	mock.Mock
}

// PublishClick emits one click event
func (m *ClickPublisher) PublishClick(ctx context.Context, ev *domain.ClickEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

// Close releases the publisher
func (m *ClickPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}
