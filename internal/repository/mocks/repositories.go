package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/cliplink/cliplink/internal/domain"
)

// URLRepository is a mock implementation of repository.URLRepository
type URLRepository struct {
	mock.Mock
}

// Create persists a new record
func (m *URLRepository) Create(ctx context.Context, rec *domain.URLRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

// FindByShortCode returns the record for a code regardless of its active flag
func (m *URLRepository) FindByShortCode(ctx context.Context, code string) (*domain.URLRecord, error) {
	args := m.Called(ctx, code)
	if rec := args.Get(0); rec != nil {
		return rec.(*domain.URLRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindActiveByShortCode returns the record for a code only while it is active
func (m *URLRepository) FindActiveByShortCode(ctx context.Context, code string) (*domain.URLRecord, error) {
	args := m.Called(ctx, code)
	if rec := args.Get(0); rec != nil {
		return rec.(*domain.URLRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindByID returns the record with the given ID
func (m *URLRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.URLRecord, error) {
	args := m.Called(ctx, id)
	if rec := args.Get(0); rec != nil {
		return rec.(*domain.URLRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

// Deactivate clears the active flag of a record
func (m *URLRepository) Deactivate(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

// List returns records ordered by creation time, newest first
func (m *URLRepository) List(ctx context.Context, limit, offset int) ([]domain.URLRecord, error) {
	args := m.Called(ctx, limit, offset)
	if recs := args.Get(0); recs != nil {
		return recs.([]domain.URLRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

// CountActive returns the number of active records
func (m *URLRepository) CountActive(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// ClickRepository is a mock implementation of repository.ClickRepository
type ClickRepository struct {
	mock.Mock
}

// Insert persists one click event
func (m *ClickRepository) Insert(ctx context.Context, ev *domain.ClickEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

// Analytics returns the full per-URL view over the last days days
func (m *ClickRepository) Analytics(ctx context.Context, urlID uuid.UUID, days int) (*domain.URLAnalytics, error) {
	args := m.Called(ctx, urlID, days)
	if res := args.Get(0); res != nil {
		return res.(*domain.URLAnalytics), args.Error(1)
	}
	return nil, args.Error(1)
}

// Summary returns the compact rolling-window rollup for a short code
func (m *ClickRepository) Summary(ctx context.Context, shortCode string, days int) (*domain.AnalyticsSummary, error) {
	args := m.Called(ctx, shortCode, days)
	if res := args.Get(0); res != nil {
		return res.(*domain.AnalyticsSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

// GlobalStats returns platform-wide counters
func (m *ClickRepository) GlobalStats(ctx context.Context) (*domain.GlobalStats, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.(*domain.GlobalStats), args.Error(1)
	}
	return nil, args.Error(1)
}

// TopURLs returns the most-clicked short codes over the last days days
func (m *ClickRepository) TopURLs(ctx context.Context, days, limit int) ([]domain.TopURL, error) {
	args := m.Called(ctx, days, limit)
	if res := args.Get(0); res != nil {
		return res.([]domain.TopURL), args.Error(1)
	}
	return nil, args.Error(1)
}
