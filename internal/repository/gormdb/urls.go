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

// URLStore implements repository.URLRepository on GORM
type URLStore struct {
	db *gorm.DB
}

// NewURLStore creates a URL repository backed by the given database
func NewURLStore(db *gorm.DB) *URLStore {
	return &URLStore{db: db}
}

// Create persists a new record, mapping unique-constraint violations on the
// short code to domain.ErrCodeExists
func (s *URLStore) Create(ctx context.Context, rec *domain.URLRecord) error {
	row, err := urlRowFromDomain(rec)
	if err != nil {
		return fmt.Errorf("encoding url record: %w", err)
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrCodeExists
		}
		return fmt.Errorf("inserting url record: %w", err)
	}
	return nil
}

// FindByShortCode returns the record for a code regardless of its active flag
func (s *URLStore) FindByShortCode(ctx context.Context, code string) (*domain.URLRecord, error) {
	var row urlRow
	err := s.db.WithContext(ctx).Where("short_code = ?", code).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("querying url by short code: %w", err)
	}
	return row.toDomain()
}

// FindActiveByShortCode returns the record for a code only while it is active
func (s *URLStore) FindActiveByShortCode(ctx context.Context, code string) (*domain.URLRecord, error) {
	var row urlRow
	err := s.db.WithContext(ctx).Where("short_code = ? AND is_active = ?", code, true).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("querying active url by short code: %w", err)
	}
	return row.toDomain()
}

// FindByID returns the record with the given ID
func (s *URLStore) FindByID(ctx context.Context, id uuid.UUID) (*domain.URLRecord, error) {
	var row urlRow
	err := s.db.WithContext(ctx).Where("id = ?", id.String()).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("querying url by id: %w", err)
	}
	return row.toDomain()
}

// Deactivate clears the active flag of a record. domain.ErrNotFound signals
// that no active record matched and nothing changed, so callers must not
// invalidate the cache entry.
func (s *URLStore) Deactivate(ctx context.Context, code string) error {
	res := s.db.WithContext(ctx).
		Model(&urlRow{}).
		Where("short_code = ? AND is_active = ?", code, true).
		Updates(map[string]any{"is_active": false, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return fmt.Errorf("deactivating url: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List returns records ordered by creation time, newest first
func (s *URLStore) List(ctx context.Context, limit, offset int) ([]domain.URLRecord, error) {
	var rows []urlRow
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing urls: %w", err)
	}

	records := make([]domain.URLRecord, 0, len(rows))
	for i := range rows {
		rec, err := rows[i].toDomain()
		if err != nil {
			return nil, fmt.Errorf("decoding url record: %w", err)
		}
		records = append(records, *rec)
	}
	return records, nil
}

// CountActive returns the number of active records
func (s *URLStore) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&urlRow{}).
		Where("is_active = ?", true).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("counting active urls: %w", err)
	}
	return count, nil
}

// Ensure URLStore implements the interface
var _ repository.URLRepository = (*URLStore)(nil)
