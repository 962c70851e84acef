package domain

import "errors"

// Sentinel errors for the URL lifecycle. Callers branch with errors.Is to
// distinguish absence, conflicts, and lifecycle rejections from backend
// failures.
var (
	// ErrNotFound indicates no record exists for the short code
	ErrNotFound = errors.New("short code not found")

	// ErrCodeExists indicates a uniqueness conflict on record creation
	ErrCodeExists = errors.New("short code already exists")

	// ErrInactive indicates the record exists but has been deactivated
	ErrInactive = errors.New("short URL is inactive")

	// ErrExpired indicates the record's expiration timestamp has passed
	ErrExpired = errors.New("short URL has expired")
)
