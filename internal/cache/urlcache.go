package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cliplink/cliplink/internal/domain"
)

// Default TTLs for the URL record adapter. The redirect path caches longer
// because reads dominate writes there.
const (
	DefaultLookupTTL   = time.Hour
	DefaultRedirectTTL = 2 * time.Hour
)

// URLCache layers URL-record (de)serialization on the generic resolver.
// A cache hit can return a logically deactivated or expired record; consumers
// must re-check IsActive and ExpiresAt after every hit.
type URLCache struct {
	store       KeyValueStore
	log         *zap.Logger
	lookupTTL   time.Duration
	redirectTTL time.Duration
}

// NewURLCache creates a URL record cache adapter. Zero TTLs fall back to the
// package defaults.
func NewURLCache(store KeyValueStore, log *zap.Logger, lookupTTL, redirectTTL time.Duration) *URLCache {
	if lookupTTL <= 0 {
		lookupTTL = DefaultLookupTTL
	}
	if redirectTTL <= 0 {
		redirectTTL = DefaultRedirectTTL
	}
	return &URLCache{
		store:       store,
		log:         log,
		lookupTTL:   lookupTTL,
		redirectTTL: redirectTTL,
	}
}

// cachedURL is the stored representation of a URL record. Timestamps are
// RFC 3339 strings so the document stays readable and language-neutral.
type cachedURL struct {
	ID          string         `json:"id"`
	OriginalURL string         `json:"original_url"`
	ShortCode   string         `json:"short_code"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at,omitempty"`
	ExpiresAt   string         `json:"expires_at,omitempty"`
	IsActive    bool           `json:"is_active"`
	CreatedBy   string         `json:"created_by,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

func encodeURL(rec *domain.URLRecord) cachedURL {
	c := cachedURL{
		ID:          rec.ID.String(),
		OriginalURL: rec.OriginalURL,
		ShortCode:   rec.ShortCode,
		CreatedAt:   rec.CreatedAt.Format(time.RFC3339Nano),
		IsActive:    rec.IsActive,
		CreatedBy:   rec.CreatedBy,
		Metadata:    rec.Metadata,
	}
	if !rec.UpdatedAt.IsZero() {
		c.UpdatedAt = rec.UpdatedAt.Format(time.RFC3339Nano)
	}
	if rec.ExpiresAt != nil {
		c.ExpiresAt = rec.ExpiresAt.Format(time.RFC3339Nano)
	}
	return c
}

// decode reconstructs the domain record. Any malformed field makes the whole
// entry unusable; the read path treats that as a miss.
func (c cachedURL) decode() (*domain.URLRecord, bool) {
	id, err := uuid.Parse(c.ID)
	if err != nil {
		return nil, false
	}
	createdAt, err := time.Parse(time.RFC3339Nano, c.CreatedAt)
	if err != nil {
		return nil, false
	}
	rec := &domain.URLRecord{
		ID:          id,
		OriginalURL: c.OriginalURL,
		ShortCode:   c.ShortCode,
		CreatedAt:   createdAt,
		IsActive:    c.IsActive,
		CreatedBy:   c.CreatedBy,
		Metadata:    c.Metadata,
	}
	if c.UpdatedAt != "" {
		if t, err := time.Parse(time.RFC3339Nano, c.UpdatedAt); err == nil {
			rec.UpdatedAt = t
		}
	}
	if c.ExpiresAt != "" {
		t, err := time.Parse(time.RFC3339Nano, c.ExpiresAt)
		if err != nil {
			return nil, false
		}
		rec.ExpiresAt = &t
	}
	return rec, true
}

// GetForLookup resolves a record for the general lookup path (shorter TTL)
func (u *URLCache) GetForLookup(ctx context.Context, shortCode string, fallback FallbackFunc[*domain.URLRecord]) (*domain.URLRecord, bool, error) {
	return u.resolve(ctx, shortCode, u.lookupTTL, fallback)
}

// GetForRedirect resolves a record for the redirect-serving path (longer TTL)
func (u *URLCache) GetForRedirect(ctx context.Context, shortCode string, fallback FallbackFunc[*domain.URLRecord]) (*domain.URLRecord, bool, error) {
	return u.resolve(ctx, shortCode, u.redirectTTL, fallback)
}

func (u *URLCache) resolve(ctx context.Context, shortCode string, ttl time.Duration, fallback FallbackFunc[*domain.URLRecord]) (*domain.URLRecord, bool, error) {
	key := URLByCodeKey(shortCode)

	read := func(ctx context.Context) (cachedURL, bool, error) {
		var stored cachedURL
		if !u.store.GetJSON(ctx, key, &stored) {
			return cachedURL{}, false, nil
		}
		if _, ok := stored.decode(); !ok {
			u.log.Warn("discarding malformed cached URL record", zap.String("key", key))
			return cachedURL{}, false, nil
		}
		return stored, true, nil
	}

	compute := func(ctx context.Context) (cachedURL, bool, error) {
		rec, found, err := fallback(ctx)
		if err != nil || !found {
			return cachedURL{}, false, err
		}
		return encodeURL(rec), true, nil
	}

	stored, found, err := Resolve(ctx, u.store, u.log, key, ttl, read, compute)
	if err != nil || !found {
		return nil, false, err
	}
	rec, _ := stored.decode()
	return rec, true, nil
}

// Store caches a record immediately (used right after creation) with the
// lookup TTL
func (u *URLCache) Store(ctx context.Context, rec *domain.URLRecord) bool {
	return u.store.SetJSON(ctx, URLByCodeKey(rec.ShortCode), encodeURL(rec), u.lookupTTL)
}

// Invalidate removes the cached record for a short code. Called only after
// the authoritative store has acknowledged the mutation; the cached entry is
// never updated in place, so the next read goes through the fallback and
// observes the authoritative flags.
func (u *URLCache) Invalidate(ctx context.Context, shortCode string) bool {
	return u.store.Delete(ctx, URLByCodeKey(shortCode))
}
