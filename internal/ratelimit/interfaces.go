package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of one admission check
type Decision struct {
	// Allowed reports whether the request is admitted
	Allowed bool
	// Tier names the tier that rejected the request (empty when allowed)
	Tier string
	// Limit is the request budget of the deciding tier
	Limit int64
	// Remaining is the budget left in the current window after this check
	Remaining int64
	// RetryAfter is the suggested wait before retrying, equal to the
	// rejecting tier's window length
	RetryAfter time.Duration
}

// Status describes a client's standing within a single window, for
// reporting endpoints
type Status struct {
	RequestsMade  int64 `json:"requests_made"`
	RequestsLimit int64 `json:"requests_limit"`
	Remaining     int64 `json:"requests_remaining"`
	WindowSeconds int64 `json:"window_seconds"`
	ResetTime     int64 `json:"reset_time"`
}

// Limiter gates admission per client identity.
//
// Implementations are fail-open: a cache backend failure during the check is
// swallowed and the request admitted, because availability of the protected
// service outweighs strict quota enforcement during cache outages.
type Limiter interface {
	Allow(ctx context.Context, clientID string) Decision
}

// Tier is one rate-limiting window definition
type Tier struct {
	Name   string
	Limit  int64
	Window time.Duration
}

// DefaultTiers is the standard multi-tier ladder, evaluated in order
func DefaultTiers() []Tier {
	return []Tier{
		{Name: "burst", Limit: 10, Window: 10 * time.Second},
		{Name: "minute", Limit: 100, Window: time.Minute},
		{Name: "hour", Limit: 1000, Window: time.Hour},
	}
}
