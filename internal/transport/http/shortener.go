package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cliplink/cliplink/internal/domain"
	"github.com/cliplink/cliplink/internal/ratelimit"
	"github.com/cliplink/cliplink/internal/service"
)

// ShortenerHandler serves the URL management API
type ShortenerHandler struct {
	svc     service.Shortener
	baseURL string
	log     *zap.Logger
}

// NewShortenerHandler creates the URL management handler
func NewShortenerHandler(svc service.Shortener, baseURL string, log *zap.Logger) *ShortenerHandler {
	return &ShortenerHandler{svc: svc, baseURL: baseURL, log: log}
}

// NewShortenerRouter assembles the shortener service's routes
func NewShortenerRouter(h *ShortenerHandler, limiter ratelimit.Limiter, checks map[string]DependencyCheck, log *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(RequestLogger(log))
	r.Use(Metrics("shortener"))

	r.Get("/health", healthHandler("shortener", checks))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/urls", func(r chi.Router) {
		r.Use(RateLimit("shortener", limiter, log))
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/{shortCode}", h.Get)
		r.Delete("/{shortCode}", h.Delete)
	})
	return r
}

// Create handles POST /api/urls
func (h *ShortenerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	createdBy := r.Header.Get("X-User-ID")
	if createdBy == "" {
		createdBy = ratelimit.ClientIP(r)
	}

	rec, err := h.svc.Create(r.Context(), &req, createdBy)
	if err != nil {
		h.log.Warn("create short URL failed", zap.Error(err))
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, h.toResponse(rec))
}

// Get handles GET /api/urls/{shortCode}
func (h *ShortenerHandler) Get(w http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "shortCode")

	rec, err := h.svc.Lookup(r.Context(), shortCode)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.toResponse(rec))
}

// Delete handles DELETE /api/urls/{shortCode}
func (h *ShortenerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "shortCode")

	if err := h.svc.Deactivate(r.Context(), shortCode); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /api/urls
func (h *ShortenerHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	records, err := h.svc.List(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	responses := make([]domain.CreateURLResponse, 0, len(records))
	for i := range records {
		responses = append(responses, *h.toResponse(&records[i]))
	}
	writeJSON(w, http.StatusOK, responses)
}

func (h *ShortenerHandler) toResponse(rec *domain.URLRecord) *domain.CreateURLResponse {
	return &domain.CreateURLResponse{
		ID:          rec.ID,
		OriginalURL: rec.OriginalURL,
		ShortCode:   rec.ShortCode,
		ShortURL:    h.baseURL + "/" + rec.ShortCode,
		CreatedAt:   rec.CreatedAt,
		ExpiresAt:   rec.ExpiresAt,
		IsActive:    rec.IsActive,
		Metadata:    rec.Metadata,
	}
}
