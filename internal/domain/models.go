package domain

import (
	"time"

	"github.com/google/uuid"
)

// URLRecord represents a shortened URL with its metadata
type URLRecord struct {
	ID          uuid.UUID      `json:"id"`
	OriginalURL string         `json:"original_url"`
	ShortCode   string         `json:"short_code"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	ExpiresAt   *time.Time     `json:"expires_at,omitempty"`
	IsActive    bool           `json:"is_active"`
	CreatedBy   string         `json:"created_by,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Expired reports whether the record's expiration timestamp has passed.
// Records without an expiration never expire.
func (r *URLRecord) Expired(now time.Time) bool {
	if r.ExpiresAt == nil {
		return false
	}
	return now.After(*r.ExpiresAt)
}

// ClickEvent is a single redirect served for a short code. Events are
// published to the click topic keyed by short code.
type ClickEvent struct {
	URLID      uuid.UUID      `json:"url_id"`
	ShortCode  string         `json:"short_code"`
	ClickedAt  time.Time      `json:"clicked_at"`
	IPAddress  string         `json:"ip_address,omitempty"`
	UserAgent  string         `json:"user_agent,omitempty"`
	Referer    string         `json:"referer,omitempty"`
	Country    string         `json:"country,omitempty"`
	City       string         `json:"city,omitempty"`
	DeviceType string         `json:"device_type,omitempty"`
	Browser    string         `json:"browser,omitempty"`
	OS         string         `json:"os,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	EventType  string         `json:"event_type"`
	Service    string         `json:"service"`
	Version    string         `json:"version"`
}

// CreateURLRequest represents the request to create a short URL
type CreateURLRequest struct {
	OriginalURL string         `json:"original_url" validate:"required"`
	CustomCode  string         `json:"custom_code,omitempty" validate:"omitempty,alphanum,min=3,max=10"`
	ExpiresAt   *time.Time     `json:"expires_at,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// CreateURLResponse represents the response when creating a short URL
type CreateURLResponse struct {
	ID          uuid.UUID      `json:"id"`
	OriginalURL string         `json:"original_url"`
	ShortCode   string         `json:"short_code"`
	ShortURL    string         `json:"short_url"`
	CreatedAt   time.Time      `json:"created_at"`
	ExpiresAt   *time.Time     `json:"expires_at,omitempty"`
	IsActive    bool           `json:"is_active"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// DailyStat is the per-day click rollup used in analytics responses
type DailyStat struct {
	Date           string `json:"date"`
	Clicks         int64  `json:"clicks"`
	UniqueVisitors int64  `json:"unique_visitors"`
}

// DimensionStat counts clicks for one value of a grouping dimension
// (country, device type, browser, referer)
type DimensionStat struct {
	Value          string `json:"value"`
	Clicks         int64  `json:"clicks"`
	UniqueVisitors int64  `json:"unique_visitors"`
}

// URLAnalytics is the full analytics view for one short URL
type URLAnalytics struct {
	URLID          uuid.UUID       `json:"url_id"`
	ShortCode      string          `json:"short_code"`
	OriginalURL    string          `json:"original_url"`
	TotalClicks    int64           `json:"total_clicks"`
	UniqueVisitors int64           `json:"unique_visitors"`
	CreatedAt      time.Time       `json:"created_at"`
	LastClickedAt  *time.Time      `json:"last_clicked_at,omitempty"`
	DailyStats     []DailyStat     `json:"daily_stats"`
	TopCountries   []DimensionStat `json:"top_countries"`
	TopDevices     []DimensionStat `json:"top_devices"`
	TopBrowsers    []DimensionStat `json:"top_browsers"`
	TopReferers    []DimensionStat `json:"top_referers"`
}

// AnalyticsSummary is the compact rolling-window view served via cache-aside
type AnalyticsSummary struct {
	ShortCode       string  `json:"short_code"`
	PeriodDays      int     `json:"period_days"`
	TotalClicks     int64   `json:"total_clicks"`
	UniqueVisitors  int64   `json:"unique_visitors"`
	ActiveDays      int64   `json:"active_days"`
	AvgClicksPerDay float64 `json:"avg_clicks_per_day"`
}

// GlobalStats is the platform-wide counters view
type GlobalStats struct {
	TotalURLs       int64   `json:"total_urls"`
	TotalClicks     int64   `json:"total_clicks"`
	ActiveURLs30d   int64   `json:"active_urls_30d"`
	AvgClicksPerURL float64 `json:"avg_clicks_per_url"`
}

// TopURL is one row of the most-clicked listing
type TopURL struct {
	ShortCode      string `json:"short_code"`
	OriginalURL    string `json:"original_url"`
	Clicks         int64  `json:"clicks"`
	UniqueVisitors int64  `json:"unique_visitors"`
}

// HealthStatus reports a service and the state of its dependencies
type HealthStatus struct {
	Status       string            `json:"status"`
	Timestamp    time.Time         `json:"timestamp"`
	Service      string            `json:"service"`
	Version      string            `json:"version"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}
