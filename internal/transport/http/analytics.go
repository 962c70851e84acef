package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cliplink/cliplink/internal/ratelimit"
	"github.com/cliplink/cliplink/internal/service"
)

// AnalyticsHandler serves the reporting API
type AnalyticsHandler struct {
	svc service.Analytics
	log *zap.Logger
}

// NewAnalyticsHandler creates the reporting handler
func NewAnalyticsHandler(svc service.Analytics, log *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc, log: log}
}

// NewAnalyticsRouter assembles the analytics service's routes
func NewAnalyticsRouter(h *AnalyticsHandler, limiter ratelimit.Limiter, checks map[string]DependencyCheck, log *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(RequestLogger(log))
	r.Use(Metrics("analytics"))

	r.Get("/health", healthHandler("analytics", checks))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/analytics", func(r chi.Router) {
		r.Use(RateLimit("analytics", limiter, log))
		r.Get("/urls/{shortCode}", h.URLAnalytics)
		r.Get("/urls/{shortCode}/summary", h.Summary)
		r.Get("/global", h.GlobalStats)
		r.Get("/top", h.TopURLs)
	})
	return r
}

// URLAnalytics handles GET /api/analytics/urls/{shortCode}
func (h *AnalyticsHandler) URLAnalytics(w http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "shortCode")
	days := queryInt(r, "days", 30)

	result, err := h.svc.URLAnalytics(r.Context(), shortCode, days)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Summary handles GET /api/analytics/urls/{shortCode}/summary
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "shortCode")
	days := queryInt(r, "days", 7)

	summary, err := h.svc.Summary(r.Context(), shortCode, days)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// GlobalStats handles GET /api/analytics/global
func (h *AnalyticsHandler) GlobalStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.GlobalStats(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// TopURLs handles GET /api/analytics/top
func (h *AnalyticsHandler) TopURLs(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", 7)
	limit := queryInt(r, "limit", 10)

	top, err := h.svc.TopURLs(r.Context(), days, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, top)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
