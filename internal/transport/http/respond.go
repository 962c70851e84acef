package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/cliplink/cliplink/internal/domain"
	"github.com/cliplink/cliplink/internal/service"
	"github.com/cliplink/cliplink/internal/shortcode"
)

// errorResponse is the JSON error envelope
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps domain and validation errors to HTTP statuses.
// Gone (410) marks codes that existed but no longer redirect, matching how
// crawlers are told to drop a link.
func writeServiceError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "short URL not found")
	case errors.Is(err, domain.ErrInactive):
		writeError(w, http.StatusGone, "short URL is no longer active")
	case errors.Is(err, domain.ErrExpired):
		writeError(w, http.StatusGone, "short URL has expired")
	case errors.Is(err, domain.ErrCodeExists):
		writeError(w, http.StatusConflict, "short code already exists")
	case errors.Is(err, shortcode.ErrInvalidCode),
		errors.Is(err, shortcode.ErrReservedCode),
		errors.Is(err, service.ErrInvalidURL),
		errors.Is(err, service.ErrExpiryInPast),
		errors.As(err, &validationErrs):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
