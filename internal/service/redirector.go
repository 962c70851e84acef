package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/cliplink/cliplink/internal/cache"
	"github.com/cliplink/cliplink/internal/domain"
	"github.com/cliplink/cliplink/internal/events"
	"github.com/cliplink/cliplink/internal/repository"
	"github.com/cliplink/cliplink/internal/useragent"
)

const (
	// dailyCountTTL keeps per-day click counters for the rolling window
	// served by the analytics endpoints
	dailyCountTTL = 30 * 24 * time.Hour

	eventType    = "click"
	eventVersion = "1.0.0"
	serviceName  = "redirector"
)

// redirector implements the Redirector interface
type redirector struct {
	repo      repository.URLRepository
	urlCache  *cache.URLCache
	store     cache.KeyValueStore
	publisher events.ClickPublisher
	ipSalt    string
	log       *zap.Logger
	now       func() time.Time
}

// NewRedirector creates the redirect-serving service. The publisher may be
// nil when click streaming is disabled.
func NewRedirector(repo repository.URLRepository, urlCache *cache.URLCache, store cache.KeyValueStore, publisher events.ClickPublisher, ipSalt string, log *zap.Logger) Redirector {
	return &redirector{
		repo:      repo,
		urlCache:  urlCache,
		store:     store,
		publisher: publisher,
		ipSalt:    ipSalt,
		log:       log,
		now:       time.Now,
	}
}

// Resolve returns the destination for a short code and records the click
func (r *redirector) Resolve(ctx context.Context, shortCode string, click ClickContext) (string, error) {
	rec, err := r.lookup(ctx, shortCode)
	if err != nil {
		return "", err
	}
	r.recordClick(ctx, rec, click)
	return rec.OriginalURL, nil
}

// Preview returns the record without recording a click
func (r *redirector) Preview(ctx context.Context, shortCode string) (*domain.URLRecord, error) {
	return r.lookup(ctx, shortCode)
}

// lookup resolves through the cache and applies the lifecycle checks. The
// checks run after every resolution, hit or miss: a cached copy can be stale
// with respect to deactivation until its entry is invalidated or expires.
func (r *redirector) lookup(ctx context.Context, shortCode string) (*domain.URLRecord, error) {
	rec, found, err := r.urlCache.GetForRedirect(ctx, shortCode, r.repoFallback(shortCode))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrNotFound
	}
	if !rec.IsActive {
		return nil, domain.ErrInactive
	}
	if rec.Expired(r.now()) {
		return nil, domain.ErrExpired
	}
	return rec, nil
}

// repoFallback reads through to the authoritative store with the active
// filter applied, so deactivated records are misses and never enter the
// redirect cache.
func (r *redirector) repoFallback(shortCode string) cache.FallbackFunc[*domain.URLRecord] {
	return func(ctx context.Context) (*domain.URLRecord, bool, error) {
		rec, err := r.repo.FindActiveByShortCode(ctx, shortCode)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, false, nil
			}
			return nil, false, err
		}
		return rec, true, nil
	}
}

// recordClick bumps the click counters and publishes the event. Everything
// here is best-effort: the redirect has already been decided.
func (r *redirector) recordClick(ctx context.Context, rec *domain.URLRecord, click ClickContext) {
	now := r.now().UTC()

	r.store.Increment(ctx, cache.ClickCountKey(rec.ShortCode), 1)
	dailyKey := cache.DailyClickCountKey(rec.ShortCode, now.Format("2006-01-02"))
	if _, ok := r.store.Increment(ctx, dailyKey, 1); ok {
		r.store.Expire(ctx, dailyKey, dailyCountTTL)
	}

	if r.publisher == nil {
		return
	}

	ua := useragent.Parse(click.UserAgent)
	if ua.IsBot || click.IPAddress == "" {
		r.log.Debug("skipping click event",
			zap.String("short_code", rec.ShortCode),
			zap.Bool("is_bot", ua.IsBot))
		return
	}

	ev := &domain.ClickEvent{
		URLID:      rec.ID,
		ShortCode:  rec.ShortCode,
		ClickedAt:  now,
		IPAddress:  hashIP(click.IPAddress, r.ipSalt),
		UserAgent:  click.UserAgent,
		Referer:    click.Referer,
		DeviceType: ua.DeviceType,
		Browser:    ua.Browser,
		OS:         ua.OS,
		EventType:  eventType,
		Service:    serviceName,
		Version:    eventVersion,
	}
	if err := r.publisher.PublishClick(ctx, ev); err != nil {
		r.log.Warn("publishing click event failed",
			zap.String("short_code", rec.ShortCode),
			zap.Error(err))
	}
}

// hashIP pseudonymizes a client address before it leaves the service
func hashIP(ip, salt string) string {
	if ip == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(ip + salt))
	return hex.EncodeToString(sum[:])[:16]
}

// Ensure redirector implements the interface
var _ Redirector = (*redirector)(nil)
