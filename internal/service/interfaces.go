package service

import (
	"context"

	"github.com/cliplink/cliplink/internal/domain"
)

// Shortener defines the URL creation and management operations
type Shortener interface {
	// Create registers a new short URL, generating a code when the
	// request does not carry a custom one
	Create(ctx context.Context, req *domain.CreateURLRequest, createdBy string) (*domain.URLRecord, error)

	// Lookup returns the record for a short code regardless of its
	// active flag
	Lookup(ctx context.Context, shortCode string) (*domain.URLRecord, error)

	// Deactivate soft-deletes a short URL and invalidates its cache entry
	Deactivate(ctx context.Context, shortCode string) error

	// List returns records ordered by creation time, newest first
	List(ctx context.Context, limit, offset int) ([]domain.URLRecord, error)
}

// ClickContext carries the request attributes recorded with a redirect
type ClickContext struct {
	IPAddress string
	UserAgent string
	Referer   string
}

// Redirector defines the redirect-serving operations
type Redirector interface {
	// Resolve returns the destination URL for a short code and records
	// the click. Inactive and expired codes are rejected with
	// domain.ErrInactive and domain.ErrExpired.
	Resolve(ctx context.Context, shortCode string, click ClickContext) (string, error)

	// Preview returns the destination without recording a click
	Preview(ctx context.Context, shortCode string) (*domain.URLRecord, error)
}

// Analytics defines click ingestion and reporting operations
type Analytics interface {
	// ProcessClick persists one consumed click event
	ProcessClick(ctx context.Context, ev *domain.ClickEvent) error

	// URLAnalytics returns the full per-URL view over the last days days
	URLAnalytics(ctx context.Context, shortCode string, days int) (*domain.URLAnalytics, error)

	// Summary returns the cached rolling-window rollup for a short code
	Summary(ctx context.Context, shortCode string, days int) (*domain.AnalyticsSummary, error)

	// GlobalStats returns platform-wide counters
	GlobalStats(ctx context.Context) (*domain.GlobalStats, error)

	// TopURLs returns the most-clicked short codes over the last days days
	TopURLs(ctx context.Context, days, limit int) ([]domain.TopURL, error)
}
