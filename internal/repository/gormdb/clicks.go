package gormdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cliplink/cliplink/internal/domain"
	"github.com/cliplink/cliplink/internal/repository"
)

const topDimensionLimit = 5

// ClickStore implements repository.ClickRepository on GORM
type ClickStore struct {
	db *gorm.DB
}

// NewClickStore creates a click repository backed by the given database
func NewClickStore(db *gorm.DB) *ClickStore {
	return &ClickStore{db: db}
}

// Insert persists one click event
func (s *ClickStore) Insert(ctx context.Context, ev *domain.ClickEvent) error {
	row, err := clickRowFromDomain(ev)
	if err != nil {
		return fmt.Errorf("encoding click event: %w", err)
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("inserting click event: %w", err)
	}
	return nil
}

// Analytics returns the full per-URL view over the last days days
func (s *ClickStore) Analytics(ctx context.Context, urlID uuid.UUID, days int) (*domain.URLAnalytics, error) {
	var urlInfo urlRow
	err := s.db.WithContext(ctx).Where("id = ?", urlID.String()).First(&urlInfo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("querying url for analytics: %w", err)
	}

	since := cutoff(days)
	scoped := func() *gorm.DB {
		return s.db.WithContext(ctx).
			Model(&clickRow{}).
			Where("url_id = ? AND clicked_at >= ?", urlID.String(), since)
	}

	result := &domain.URLAnalytics{
		URLID:       urlID,
		ShortCode:   urlInfo.ShortCode,
		OriginalURL: urlInfo.OriginalURL,
		CreatedAt:   urlInfo.CreatedAt,
	}

	if err := scoped().Count(&result.TotalClicks).Error; err != nil {
		return nil, fmt.Errorf("counting clicks: %w", err)
	}
	if err := scoped().Distinct("ip_address").Count(&result.UniqueVisitors).Error; err != nil {
		return nil, fmt.Errorf("counting unique visitors: %w", err)
	}

	var lastClicked *time.Time
	err = scoped().Select("MAX(clicked_at)").Row().Scan(&lastClicked)
	if err == nil && lastClicked != nil {
		result.LastClickedAt = lastClicked
	}

	if result.DailyStats, err = s.dailyStats(scoped); err != nil {
		return nil, err
	}

	for _, dim := range []struct {
		column string
		dest   *[]domain.DimensionStat
	}{
		{"country", &result.TopCountries},
		{"device_type", &result.TopDevices},
		{"browser", &result.TopBrowsers},
		{"referer", &result.TopReferers},
	} {
		stats, err := s.topByDimension(scoped, dim.column)
		if err != nil {
			return nil, err
		}
		*dim.dest = stats
	}
	return result, nil
}

// Summary returns the compact rolling-window rollup for a short code
func (s *ClickStore) Summary(ctx context.Context, shortCode string, days int) (*domain.AnalyticsSummary, error) {
	since := cutoff(days)
	scoped := s.db.WithContext(ctx).
		Model(&clickRow{}).
		Where("short_code = ? AND clicked_at >= ?", shortCode, since)

	summary := &domain.AnalyticsSummary{
		ShortCode:  shortCode,
		PeriodDays: days,
	}

	if err := scoped.Session(&gorm.Session{}).Count(&summary.TotalClicks).Error; err != nil {
		return nil, fmt.Errorf("counting clicks: %w", err)
	}
	if err := scoped.Session(&gorm.Session{}).Distinct("ip_address").Count(&summary.UniqueVisitors).Error; err != nil {
		return nil, fmt.Errorf("counting unique visitors: %w", err)
	}
	if err := scoped.Session(&gorm.Session{}).Distinct("DATE(clicked_at)").Count(&summary.ActiveDays).Error; err != nil {
		return nil, fmt.Errorf("counting active days: %w", err)
	}

	if summary.ActiveDays > 0 {
		summary.AvgClicksPerDay = float64(summary.TotalClicks) / float64(summary.ActiveDays)
	}
	return summary, nil
}

// GlobalStats returns platform-wide counters
func (s *ClickStore) GlobalStats(ctx context.Context) (*domain.GlobalStats, error) {
	stats := &domain.GlobalStats{}

	if err := s.db.WithContext(ctx).Model(&urlRow{}).Count(&stats.TotalURLs).Error; err != nil {
		return nil, fmt.Errorf("counting urls: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&clickRow{}).Count(&stats.TotalClicks).Error; err != nil {
		return nil, fmt.Errorf("counting clicks: %w", err)
	}

	err := s.db.WithContext(ctx).
		Model(&clickRow{}).
		Where("clicked_at >= ?", cutoff(30)).
		Distinct("url_id").
		Count(&stats.ActiveURLs30d).Error
	if err != nil {
		return nil, fmt.Errorf("counting active urls: %w", err)
	}

	if stats.TotalURLs > 0 {
		stats.AvgClicksPerURL = float64(stats.TotalClicks) / float64(stats.TotalURLs)
	}
	return stats, nil
}

// TopURLs returns the most-clicked short codes over the last days days
func (s *ClickStore) TopURLs(ctx context.Context, days, limit int) ([]domain.TopURL, error) {
	var results []domain.TopURL
	err := s.db.WithContext(ctx).
		Model(&clickRow{}).
		Select("clicks.short_code, urls.original_url, COUNT(*) AS clicks, COUNT(DISTINCT clicks.ip_address) AS unique_visitors").
		Joins("JOIN urls ON urls.id = clicks.url_id").
		Where("clicks.clicked_at >= ?", cutoff(days)).
		Group("clicks.short_code, urls.original_url").
		Order("clicks DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("querying top urls: %w", err)
	}
	return results, nil
}

func (s *ClickStore) dailyStats(scoped func() *gorm.DB) ([]domain.DailyStat, error) {
	var stats []domain.DailyStat
	err := scoped().
		Select("DATE(clicked_at) AS date, COUNT(*) AS clicks, COUNT(DISTINCT ip_address) AS unique_visitors").
		Group("DATE(clicked_at)").
		Order("date DESC").
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("querying daily stats: %w", err)
	}
	return stats, nil
}

func (s *ClickStore) topByDimension(scoped func() *gorm.DB, column string) ([]domain.DimensionStat, error) {
	var stats []domain.DimensionStat
	err := scoped().
		Select(column+" AS value, COUNT(*) AS clicks, COUNT(DISTINCT ip_address) AS unique_visitors").
		Where(column+" <> ''").
		Group(column).
		Order("clicks DESC").
		Limit(topDimensionLimit).
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("querying top %s: %w", column, err)
	}
	return stats, nil
}

// cutoff returns the start of the rolling window, days full days back from
// now in UTC
func cutoff(days int) time.Time {
	return time.Now().UTC().AddDate(0, 0, -days)
}

// Ensure ClickStore implements the interface
var _ repository.ClickRepository = (*ClickStore)(nil)
