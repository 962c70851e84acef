package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cliplink/cliplink/internal/cache"
	"github.com/cliplink/cliplink/internal/domain"
	"github.com/cliplink/cliplink/internal/repository"
	"github.com/cliplink/cliplink/internal/shortcode"
)

// maxMetadataBytes caps the JSON-encoded size of caller-supplied metadata
const maxMetadataBytes = 1000

// Request validation errors
var (
	ErrInvalidURL   = errors.New("original URL must be a valid http or https URL")
	ErrExpiryInPast = errors.New("expiration must be in the future")
)

// shortener implements the Shortener interface
type shortener struct {
	repo      repository.URLRepository
	urlCache  *cache.URLCache
	generator shortcode.Generator
	validate  *validator.Validate
	log       *zap.Logger
	now       func() time.Time
}

// NewShortener creates the URL creation service
func NewShortener(repo repository.URLRepository, urlCache *cache.URLCache, generator shortcode.Generator, log *zap.Logger) Shortener {
	return &shortener{
		repo:      repo,
		urlCache:  urlCache,
		generator: generator,
		validate:  validator.New(),
		log:       log,
		now:       time.Now,
	}
}

// Create registers a new short URL
func (s *shortener) Create(ctx context.Context, req *domain.CreateURLRequest, createdBy string) (*domain.URLRecord, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	normalized, err := normalizeURL(req.OriginalURL)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	if req.ExpiresAt != nil && !req.ExpiresAt.After(now) {
		return nil, ErrExpiryInPast
	}

	rec := &domain.URLRecord{
		ID:          uuid.New(),
		OriginalURL: normalized,
		CreatedAt:   now,
		UpdatedAt:   now,
		ExpiresAt:   req.ExpiresAt,
		IsActive:    true,
		CreatedBy:   createdBy,
		Metadata:    sanitizeMetadata(req.Metadata),
	}

	if req.CustomCode != "" {
		if err := shortcode.ValidateCustom(req.CustomCode); err != nil {
			return nil, err
		}
		rec.ShortCode = req.CustomCode
		if err := s.repo.Create(ctx, rec); err != nil {
			return nil, err
		}
	} else if err := s.createWithGeneratedCode(ctx, rec); err != nil {
		return nil, err
	}

	// Warm the cache so the first redirect skips the fallback. Best-effort:
	// the record is already authoritative.
	s.urlCache.Store(ctx, rec)

	s.log.Info("created short URL",
		zap.String("short_code", rec.ShortCode),
		zap.String("id", rec.ID.String()))
	return rec, nil
}

// createWithGeneratedCode retries code generation on collisions, growing the
// code by one character each attempt
func (s *shortener) createWithGeneratedCode(ctx context.Context, rec *domain.URLRecord) error {
	for attempt := 0; attempt < shortcode.MaxAttempts; attempt++ {
		code, err := s.generator.Generate(shortcode.DefaultLength + attempt)
		if err != nil {
			return err
		}
		if shortcode.Reserved(code) {
			continue
		}

		rec.ShortCode = code
		err = s.repo.Create(ctx, rec)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrCodeExists) {
			return err
		}
		s.log.Debug("short code collision, retrying",
			zap.String("short_code", code),
			zap.Int("attempt", attempt+1))
	}
	return fmt.Errorf("exhausted %d short code attempts: %w", shortcode.MaxAttempts, domain.ErrCodeExists)
}

// Lookup returns the record for a short code through the cache
func (s *shortener) Lookup(ctx context.Context, shortCode string) (*domain.URLRecord, error) {
	rec, found, err := s.urlCache.GetForLookup(ctx, shortCode, s.repoFallback(shortCode))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

// Deactivate soft-deletes a short URL. The cache entry is removed only after
// the authoritative store confirms a row changed; a failed or no-op update
// leaves the cache untouched.
func (s *shortener) Deactivate(ctx context.Context, shortCode string) error {
	if err := s.repo.Deactivate(ctx, shortCode); err != nil {
		return err
	}
	s.urlCache.Invalidate(ctx, shortCode)
	s.log.Info("deactivated short URL", zap.String("short_code", shortCode))
	return nil
}

// List returns records ordered by creation time, newest first
func (s *shortener) List(ctx context.Context, limit, offset int) ([]domain.URLRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

// repoFallback adapts the repository read to the cache fallback contract:
// absence is (nil, false, nil), not an error.
func (s *shortener) repoFallback(shortCode string) cache.FallbackFunc[*domain.URLRecord] {
	return func(ctx context.Context) (*domain.URLRecord, bool, error) {
		rec, err := s.repo.FindByShortCode(ctx, shortCode)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, false, nil
			}
			return nil, false, err
		}
		return rec, true, nil
	}
}

// normalizeURL defaults the scheme to https and validates the result
func normalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidURL
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	parsed, err := url.ParseRequestURI(raw)
	if err != nil || parsed.Host == "" {
		return "", ErrInvalidURL
	}
	return raw, nil
}

// sanitizeMetadata replaces metadata that cannot be stored with a marker map
// so a bad attachment never fails the whole create.
func sanitizeMetadata(m map[string]any) map[string]any {
	if len(m) == 0 {
		return m
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return map[string]any{"error": "invalid_metadata"}
	}
	if len(raw) > maxMetadataBytes {
		return map[string]any{"error": "metadata_too_large", "original_size": len(raw)}
	}
	return m
}

// Ensure shortener implements the interface
var _ Shortener = (*shortener)(nil)
