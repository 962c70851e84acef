package cache

import "fmt"

// Cache key builders. All keys live in a flat namespace separated by colons;
// keeping the construction here keeps the shape consistent across services.

// URLByCodeKey is the cached URL record for a short code
func URLByCodeKey(shortCode string) string {
	return fmt.Sprintf("url:code:%s", shortCode)
}

// AnalyticsSummaryKey is the cached analytics summary for a short code over
// a rolling window (e.g. "7d")
func AnalyticsSummaryKey(shortCode, window string) string {
	return fmt.Sprintf("analytics:%s:%s", shortCode, window)
}

// RateLimitKey is a rate-limit counter bucket for a client identifier
func RateLimitKey(identifier string) string {
	return fmt.Sprintf("rate_limit:%s", identifier)
}

// ClickCountKey is the running total of clicks for a short code
func ClickCountKey(shortCode string) string {
	return fmt.Sprintf("clicks:%s:count", shortCode)
}

// DailyClickCountKey is the per-day click counter for a short code
// (date is YYYY-MM-DD)
func DailyClickCountKey(shortCode, date string) string {
	return fmt.Sprintf("clicks:%s:%s", shortCode, date)
}
