package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cliplink/cliplink/internal/cache"
	"github.com/cliplink/cliplink/internal/domain"
	"github.com/cliplink/cliplink/internal/repository"
	"github.com/cliplink/cliplink/internal/useragent"
)

// summaryTTL bounds how stale a cached analytics rollup can get
const summaryTTL = 10 * time.Minute

// analytics implements the Analytics interface
type analytics struct {
	urls   repository.URLRepository
	clicks repository.ClickRepository
	store  cache.KeyValueStore
	log    *zap.Logger
}

// NewAnalytics creates the click ingestion and reporting service
func NewAnalytics(urls repository.URLRepository, clicks repository.ClickRepository, store cache.KeyValueStore, log *zap.Logger) Analytics {
	return &analytics{
		urls:   urls,
		clicks: clicks,
		store:  store,
		log:    log,
	}
}

// ProcessClick persists one consumed click event, backfilling the device
// classification when the producer did not include it
func (a *analytics) ProcessClick(ctx context.Context, ev *domain.ClickEvent) error {
	if ev.ShortCode == "" {
		return fmt.Errorf("click event missing short code")
	}
	if ev.URLID == uuid.Nil {
		return fmt.Errorf("click event missing url id")
	}
	if ev.ClickedAt.IsZero() {
		ev.ClickedAt = time.Now().UTC()
	}
	if ev.DeviceType == "" && ev.UserAgent != "" {
		ua := useragent.Parse(ev.UserAgent)
		ev.DeviceType = ua.DeviceType
		ev.Browser = ua.Browser
		ev.OS = ua.OS
	}

	if err := a.clicks.Insert(ctx, ev); err != nil {
		return err
	}

	// The cached rollup is now stale; drop it so the next read recomputes.
	a.store.Delete(ctx, cache.AnalyticsSummaryKey(ev.ShortCode, "7d"))
	return nil
}

// URLAnalytics returns the full per-URL view over the last days days
func (a *analytics) URLAnalytics(ctx context.Context, shortCode string, days int) (*domain.URLAnalytics, error) {
	days = clampDays(days)
	rec, err := a.urls.FindByShortCode(ctx, shortCode)
	if err != nil {
		return nil, err
	}
	return a.clicks.Analytics(ctx, rec.ID, days)
}

// Summary returns the rolling-window rollup for a short code through the
// cache, recomputing from the click store on a miss
func (a *analytics) Summary(ctx context.Context, shortCode string, days int) (*domain.AnalyticsSummary, error) {
	days = clampDays(days)
	key := cache.AnalyticsSummaryKey(shortCode, fmt.Sprintf("%dd", days))

	read := func(ctx context.Context) (*domain.AnalyticsSummary, bool, error) {
		var stored domain.AnalyticsSummary
		if !a.store.GetJSON(ctx, key, &stored) {
			return nil, false, nil
		}
		return &stored, true, nil
	}

	compute := func(ctx context.Context) (*domain.AnalyticsSummary, bool, error) {
		if _, err := a.urls.FindByShortCode(ctx, shortCode); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, false, nil
			}
			return nil, false, err
		}
		summary, err := a.clicks.Summary(ctx, shortCode, days)
		if err != nil {
			return nil, false, err
		}
		return summary, true, nil
	}

	summary, found, err := cache.Resolve(ctx, a.store, a.log, key, summaryTTL, read, compute)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrNotFound
	}
	return summary, nil
}

// GlobalStats returns platform-wide counters
func (a *analytics) GlobalStats(ctx context.Context) (*domain.GlobalStats, error) {
	return a.clicks.GlobalStats(ctx)
}

// TopURLs returns the most-clicked short codes over the last days days
func (a *analytics) TopURLs(ctx context.Context, days, limit int) ([]domain.TopURL, error) {
	days = clampDays(days)
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return a.clicks.TopURLs(ctx, days, limit)
}

func clampDays(days int) int {
	if days <= 0 {
		return 7
	}
	if days > 90 {
		return 90
	}
	return days
}

// Ensure analytics implements the interface
var _ Analytics = (*analytics)(nil)
