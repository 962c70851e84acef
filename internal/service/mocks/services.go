package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/cliplink/cliplink/internal/domain"
	"github.com/cliplink/cliplink/internal/service"
)

// Shortener is a mock implementation of service.Shortener
type Shortener struct {
	mock.Mock
}

// Create registers a new short URL
func (m *Shortener) Create(ctx context.Context, req *domain.CreateURLRequest, createdBy string) (*domain.URLRecord, error) {
	args := m.Called(ctx, req, createdBy)
	if rec := args.Get(0); rec != nil {
		return rec.(*domain.URLRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

// Lookup returns the record for a short code
func (m *Shortener) Lookup(ctx context.Context, shortCode string) (*domain.URLRecord, error) {
	args := m.Called(ctx, shortCode)
	if rec := args.Get(0); rec != nil {
		return rec.(*domain.URLRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

// Deactivate soft-deletes a short URL
func (m *Shortener) Deactivate(ctx context.Context, shortCode string) error {
	args := m.Called(ctx, shortCode)
	return args.Error(0)
}

// List returns records ordered by creation time, newest first
func (m *Shortener) List(ctx context.Context, limit, offset int) ([]domain.URLRecord, error) {
	args := m.Called(ctx, limit, offset)
	if recs := args.Get(0); recs != nil {
		return recs.([]domain.URLRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

// Redirector is a mock implementation of service.Redirector
type Redirector struct {
	mock.Mock
}

// Resolve returns the destination URL for a short code
func (m *Redirector) Resolve(ctx context.Context, shortCode string, click service.ClickContext) (string, error) {
	args := m.Called(ctx, shortCode, click)
	return args.String(0), args.Error(1)
}

// Preview returns the record without recording a click
func (m *Redirector) Preview(ctx context.Context, shortCode string) (*domain.URLRecord, error) {
	args := m.Called(ctx, shortCode)
	if rec := args.Get(0); rec != nil {
		return rec.(*domain.URLRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

// Analytics is a mock implementation of service.Analytics
type Analytics struct {
	mock.Mock
}

// ProcessClick persists one consumed click event
func (m *Analytics) ProcessClick(ctx context.Context, ev *domain.ClickEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

// URLAnalytics returns the full per-URL view over the last days days
func (m *Analytics) URLAnalytics(ctx context.Context, shortCode string, days int) (*domain.URLAnalytics, error) {
	args := m.Called(ctx, shortCode, days)
	if res := args.Get(0); res != nil {
		return res.(*domain.URLAnalytics), args.Error(1)
	}
	return nil, args.Error(1)
}

// Summary returns the rolling-window rollup for a short code
func (m *Analytics) Summary(ctx context.Context, shortCode string, days int) (*domain.AnalyticsSummary, error) {
	args := m.Called(ctx, shortCode, days)
	if res := args.Get(0); res != nil {
		return res.(*domain.AnalyticsSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

// GlobalStats returns platform-wide counters
func (m *Analytics) GlobalStats(ctx context.Context) (*domain.GlobalStats, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.(*domain.GlobalStats), args.Error(1)
	}
	return nil, args.Error(1)
}

// TopURLs returns the most-clicked short codes over the last days days
func (m *Analytics) TopURLs(ctx context.Context, days, limit int) ([]domain.TopURL, error) {
	args := m.Called(ctx, days, limit)
	if res := args.Get(0); res != nil {
		return res.([]domain.TopURL), args.Error(1)
	}
	return nil, args.Error(1)
}
