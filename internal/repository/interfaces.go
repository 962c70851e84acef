package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/cliplink/cliplink/internal/domain"
)

// URLRepository is the authoritative store for short URL records. It is the
// fallback behind the URL cache: reads here run only on cache misses.
type URLRepository interface {
	// Create persists a new record. It returns domain.ErrCodeExists when
	// the short code is already taken.
	Create(ctx context.Context, rec *domain.URLRecord) error

	// FindByShortCode returns the record for a code regardless of its
	// active flag, or domain.ErrNotFound.
	FindByShortCode(ctx context.Context, code string) (*domain.URLRecord, error)

	// FindActiveByShortCode returns the record for a code only while it is
	// active. Deactivated records report domain.ErrNotFound, so the
	// redirect path treats them as absent and never caches them.
	FindActiveByShortCode(ctx context.Context, code string) (*domain.URLRecord, error)

	// FindByID returns the record with the given ID, or domain.ErrNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*domain.URLRecord, error)

	// Deactivate soft-deletes a record by clearing its active flag. It
	// returns domain.ErrNotFound when no active record matched, so callers
	// can skip cache invalidation when nothing changed.
	Deactivate(ctx context.Context, code string) error

	// List returns records ordered by creation time, newest first
	List(ctx context.Context, limit, offset int) ([]domain.URLRecord, error)

	// CountActive returns the number of active records
	CountActive(ctx context.Context) (int64, error)
}

// ClickRepository stores redirect events and serves the aggregate queries
// behind the analytics endpoints.
type ClickRepository interface {
	// Insert persists one click event
	Insert(ctx context.Context, ev *domain.ClickEvent) error

	// Analytics returns the full per-URL view over the last days days
	Analytics(ctx context.Context, urlID uuid.UUID, days int) (*domain.URLAnalytics, error)

	// Summary returns the compact rolling-window rollup for a short code
	Summary(ctx context.Context, shortCode string, days int) (*domain.AnalyticsSummary, error)

	// GlobalStats returns platform-wide counters
	GlobalStats(ctx context.Context) (*domain.GlobalStats, error)

	// TopURLs returns the most-clicked short codes over the last days days
	TopURLs(ctx context.Context, days, limit int) ([]domain.TopURL, error)
}
