package gormdb

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/cliplink/cliplink/internal/domain"
)

// urlRow is the persisted shape of a short URL record. IDs are stored as
// their string form so the schema works on both PostgreSQL and SQLite.
type urlRow struct {
	ID          string `gorm:"primaryKey;size:36"`
	OriginalURL string `gorm:"not null"`
	ShortCode   string `gorm:"uniqueIndex;size:16;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ExpiresAt   *time.Time
	IsActive    bool   `gorm:"index"`
	CreatedBy   string `gorm:"size:128"`
	Metadata    string
}

func (urlRow) TableName() string { return "urls" }

func urlRowFromDomain(rec *domain.URLRecord) (*urlRow, error) {
	metadata, err := encodeMetadata(rec.Metadata)
	if err != nil {
		return nil, err
	}
	return &urlRow{
		ID:          rec.ID.String(),
		OriginalURL: rec.OriginalURL,
		ShortCode:   rec.ShortCode,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
		ExpiresAt:   rec.ExpiresAt,
		IsActive:    rec.IsActive,
		CreatedBy:   rec.CreatedBy,
		Metadata:    metadata,
	}, nil
}

func (r *urlRow) toDomain() (*domain.URLRecord, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, err
	}
	metadata, err := decodeMetadata(r.Metadata)
	if err != nil {
		return nil, err
	}
	return &domain.URLRecord{
		ID:          id,
		OriginalURL: r.OriginalURL,
		ShortCode:   r.ShortCode,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		ExpiresAt:   r.ExpiresAt,
		IsActive:    r.IsActive,
		CreatedBy:   r.CreatedBy,
		Metadata:    metadata,
	}, nil
}

// clickRow is the persisted shape of a redirect event
type clickRow struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	URLID      string `gorm:"index;size:36"`
	ShortCode  string `gorm:"index;size:16"`
	ClickedAt  time.Time `gorm:"index"`
	IPAddress  string    `gorm:"size:64"`
	UserAgent  string
	Referer    string
	Country    string `gorm:"size:64"`
	City       string `gorm:"size:128"`
	DeviceType string `gorm:"size:32"`
	Browser    string `gorm:"size:64"`
	OS         string `gorm:"column:os;size:64"`
	Metadata   string
}

func (clickRow) TableName() string { return "clicks" }

func clickRowFromDomain(ev *domain.ClickEvent) (*clickRow, error) {
	metadata, err := encodeMetadata(ev.Metadata)
	if err != nil {
		return nil, err
	}
	return &clickRow{
		URLID:      ev.URLID.String(),
		ShortCode:  ev.ShortCode,
		ClickedAt:  ev.ClickedAt,
		IPAddress:  ev.IPAddress,
		UserAgent:  ev.UserAgent,
		Referer:    ev.Referer,
		Country:    ev.Country,
		City:       ev.City,
		DeviceType: ev.DeviceType,
		Browser:    ev.Browser,
		OS:         ev.OS,
		Metadata:   metadata,
	}, nil
}

func encodeMetadata(m map[string]any) (string, error) {
	if len(m) == 0 {
		return "", nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func decodeMetadata(raw string) (map[string]any, error) {
	if raw == "" {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, err
	}
	return m, nil
}
