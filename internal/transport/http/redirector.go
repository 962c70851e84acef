package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cliplink/cliplink/internal/ratelimit"
	"github.com/cliplink/cliplink/internal/service"
)

// RedirectorHandler serves redirects and previews
type RedirectorHandler struct {
	svc service.Redirector
	log *zap.Logger
}

// NewRedirectorHandler creates the redirect handler
func NewRedirectorHandler(svc service.Redirector, log *zap.Logger) *RedirectorHandler {
	return &RedirectorHandler{svc: svc, log: log}
}

// NewRedirectorRouter assembles the redirector service's routes
func NewRedirectorRouter(h *RedirectorHandler, limiter ratelimit.Limiter, checks map[string]DependencyCheck, log *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(RequestLogger(log))
	r.Use(Metrics("redirector"))

	r.Get("/health", healthHandler("redirector", checks))
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(RateLimit("redirector", limiter, log))
		r.Get("/{shortCode}", h.Redirect)
		r.Get("/{shortCode}/preview", h.Preview)
	})
	return r
}

// Redirect handles GET /{shortCode}
func (h *RedirectorHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "shortCode")

	target, err := h.svc.Resolve(r.Context(), shortCode, service.ClickContext{
		IPAddress: ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		Referer:   r.Referer(),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	// Temporary redirect without caching so browsers keep coming back and
	// every click is observed.
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	http.Redirect(w, r, target, http.StatusFound)
}

// Preview handles GET /{shortCode}/preview, returning the destination
// without following it or recording a click
func (h *RedirectorHandler) Preview(w http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "shortCode")

	rec, err := h.svc.Preview(r.Context(), shortCode)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"short_code":   rec.ShortCode,
		"original_url": rec.OriginalURL,
		"created_at":   rec.CreatedAt,
		"expires_at":   rec.ExpiresAt,
	})
}
