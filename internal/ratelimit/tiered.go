package ratelimit

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cliplink/cliplink/internal/cache"
)

// Tiered evaluates several fixed windows in a fixed order (burst first,
// widest last). The first tier at or over its limit rejects the request and
// the remaining tiers are not checked.
//
// Counters for tiers checked before the rejecting one are already
// incremented and not rolled back. This slightly over-counts rejected bursts
// but keeps the check single-pass per tier.
type Tiered struct {
	store cache.KeyValueStore
	log   *zap.Logger
	tiers []Tier
	now   func() time.Time
}

// NewTiered creates a multi-tier limiter. A nil tiers slice uses
// DefaultTiers.
func NewTiered(store cache.KeyValueStore, log *zap.Logger, tiers []Tier) *Tiered {
	if len(tiers) == 0 {
		tiers = DefaultTiers()
	}
	return &Tiered{
		store: store,
		log:   log,
		tiers: tiers,
		now:   time.Now,
	}
}

// Allow checks every tier in order, short-circuiting on the first rejection
func (t *Tiered) Allow(ctx context.Context, clientID string) Decision {
	now := t.now()

	decision := Decision{Allowed: true}
	for _, tier := range t.tiers {
		count, rejected := checkTier(ctx, t.store, clientID, tier.Name, tier.Limit, tier.Window, now)
		if rejected {
			t.log.Debug("rate limit exceeded",
				zap.String("client", clientID),
				zap.String("tier", tier.Name),
				zap.Int64("count", count))
			return Decision{
				Allowed:    false,
				Tier:       tier.Name,
				Limit:      tier.Limit,
				Remaining:  0,
				RetryAfter: tier.Window,
			}
		}
		// Report the tightest remaining budget across tiers.
		remaining := max(tier.Limit-count-1, 0)
		if decision.Limit == 0 || remaining < decision.Remaining {
			decision.Limit = tier.Limit
			decision.Remaining = remaining
		}
	}
	return decision
}

// Ensure Tiered implements the interface
var _ Limiter = (*Tiered)(nil)
