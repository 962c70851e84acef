package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cliplink/cliplink/internal/cache/memory"
	"github.com/cliplink/cliplink/internal/domain"
	"github.com/cliplink/cliplink/internal/ratelimit"
	"github.com/cliplink/cliplink/internal/service"
	svcmocks "github.com/cliplink/cliplink/internal/service/mocks"
)

func newShortenerTestRouter(svc service.Shortener) http.Handler {
	h := NewShortenerHandler(svc, "http://sho.rt", zap.NewNop())
	return NewShortenerRouter(h, nil, nil, zap.NewNop())
}

func TestCreateShortURL(t *testing.T) {
	svc := new(svcmocks.Shortener)
	rec := &domain.URLRecord{
		ID:          uuid.New(),
		OriginalURL: "https://example.com",
		ShortCode:   "abc123",
		CreatedAt:   time.Now().UTC(),
		IsActive:    true,
	}
	svc.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(rec, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/urls", strings.NewReader(`{"original_url":"https://example.com"}`))
	w := httptest.NewRecorder()
	newShortenerTestRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp domain.CreateURLResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "abc123", resp.ShortCode)
	assert.Equal(t, "http://sho.rt/abc123", resp.ShortURL)
}

func TestCreateShortURLInvalidJSON(t *testing.T) {
	svc := new(svcmocks.Shortener)

	req := httptest.NewRequest(http.MethodPost, "/api/urls", strings.NewReader("{broken"))
	w := httptest.NewRecorder()
	newShortenerTestRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateShortURLConflict(t *testing.T) {
	svc := new(svcmocks.Shortener)
	svc.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil, domain.ErrCodeExists)

	req := httptest.NewRequest(http.MethodPost, "/api/urls", strings.NewReader(`{"original_url":"https://example.com","custom_code":"taken1"}`))
	w := httptest.NewRecorder()
	newShortenerTestRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetShortURL(t *testing.T) {
	svc := new(svcmocks.Shortener)
	rec := &domain.URLRecord{ID: uuid.New(), OriginalURL: "https://example.com", ShortCode: "abc123", IsActive: true}
	svc.On("Lookup", mock.Anything, "abc123").Return(rec, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/urls/abc123", nil)
	w := httptest.NewRecorder()
	newShortenerTestRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetShortURLNotFound(t *testing.T) {
	svc := new(svcmocks.Shortener)
	svc.On("Lookup", mock.Anything, "ghost1").Return(nil, domain.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/urls/ghost1", nil)
	w := httptest.NewRecorder()
	newShortenerTestRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteShortURL(t *testing.T) {
	svc := new(svcmocks.Shortener)
	svc.On("Deactivate", mock.Anything, "abc123").Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/urls/abc123", nil)
	w := httptest.NewRecorder()
	newShortenerTestRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func newRedirectorTestRouter(svc service.Redirector, limiter ratelimit.Limiter) http.Handler {
	h := NewRedirectorHandler(svc, zap.NewNop())
	return NewRedirectorRouter(h, limiter, nil, zap.NewNop())
}

func TestRedirect(t *testing.T) {
	svc := new(svcmocks.Redirector)
	svc.On("Resolve", mock.Anything, "abc123", mock.Anything).Return("https://example.com/landing", nil)

	req := httptest.NewRequest(http.MethodGet, "/abc123", nil)
	req.Header.Set("User-Agent", "test-agent")
	w := httptest.NewRecorder()
	newRedirectorTestRouter(svc, nil).ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://example.com/landing", w.Header().Get("Location"))
	assert.Contains(t, w.Header().Get("Cache-Control"), "no-store")
}

func TestRedirectLifecycleStatuses(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "missing", err: domain.ErrNotFound, want: http.StatusNotFound},
		{name: "inactive", err: domain.ErrInactive, want: http.StatusGone},
		{name: "expired", err: domain.ErrExpired, want: http.StatusGone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(svcmocks.Redirector)
			svc.On("Resolve", mock.Anything, "abc123", mock.Anything).Return("", tt.err)

			req := httptest.NewRequest(http.MethodGet, "/abc123", nil)
			w := httptest.NewRecorder()
			newRedirectorTestRouter(svc, nil).ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestPreview(t *testing.T) {
	svc := new(svcmocks.Redirector)
	rec := &domain.URLRecord{ID: uuid.New(), OriginalURL: "https://example.com", ShortCode: "abc123"}
	svc.On("Preview", mock.Anything, "abc123").Return(rec, nil)

	req := httptest.NewRequest(http.MethodGet, "/abc123/preview", nil)
	w := httptest.NewRecorder()
	newRedirectorTestRouter(svc, nil).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "https://example.com", body["original_url"])
}

func TestRateLimitMiddleware(t *testing.T) {
	svc := new(svcmocks.Redirector)
	svc.On("Resolve", mock.Anything, "abc123", mock.Anything).Return("https://example.com", nil)

	limiter := ratelimit.NewTiered(memory.New(), zap.NewNop(), []ratelimit.Tier{
		{Name: "burst", Limit: 2, Window: 10 * time.Second},
	})
	router := newRedirectorTestRouter(svc, limiter)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/abc123", nil)
		req.RemoteAddr = "10.0.0.5:1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusFound, w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/abc123", nil)
	req.RemoteAddr = "10.0.0.5:1234"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "10", w.Header().Get("Retry-After"))

	// A different client is unaffected.
	req = httptest.NewRequest(http.MethodGet, "/abc123", nil)
	req.RemoteAddr = "192.0.2.9:1234"
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestAnalyticsSummaryEndpoint(t *testing.T) {
	svc := new(svcmocks.Analytics)
	svc.On("Summary", mock.Anything, "abc123", 7).Return(&domain.AnalyticsSummary{
		ShortCode:   "abc123",
		PeriodDays:  7,
		TotalClicks: 42,
	}, nil)

	h := NewAnalyticsHandler(svc, zap.NewNop())
	router := NewAnalyticsRouter(h, nil, nil, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/urls/abc123/summary", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var summary domain.AnalyticsSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, int64(42), summary.TotalClicks)
}

func TestHealthEndpointDegraded(t *testing.T) {
	checks := map[string]DependencyCheck{
		"database": func(ctx context.Context) bool { return true },
		"cache":    func(ctx context.Context) bool { return false },
	}
	h := NewAnalyticsHandler(new(svcmocks.Analytics), zap.NewNop())
	router := NewAnalyticsRouter(h, nil, checks, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var status domain.HealthStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "degraded", status.Status)
	assert.Equal(t, "unhealthy", status.Dependencies["cache"])
}
