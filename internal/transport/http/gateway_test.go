package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newEchoUpstream(t *testing.T, name string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Upstream", name)
		w.Header().Set("X-Got-Real-IP", r.Header.Get("X-Real-IP"))
		_, _ = io.WriteString(w, name+":"+r.URL.Path)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestGateway(t *testing.T) http.Handler {
	t.Helper()
	shortener := newEchoUpstream(t, "shortener")
	redirector := newEchoUpstream(t, "redirector")
	analytics := newEchoUpstream(t, "analytics")

	g, err := NewGateway(GatewayUpstreams{
		Shortener:  shortener.URL,
		Redirector: redirector.URL,
		Analytics:  analytics.URL,
	}, zap.NewNop())
	require.NoError(t, err)
	return NewGatewayRouter(g, nil, zap.NewNop())
}

func TestGatewayRoutesAPIPaths(t *testing.T) {
	router := newTestGateway(t)

	tests := []struct {
		path     string
		upstream string
	}{
		{path: "/api/urls", upstream: "shortener"},
		{path: "/api/urls/abc123", upstream: "shortener"},
		{path: "/api/analytics/global", upstream: "analytics"},
		{path: "/abc123", upstream: "redirector"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.RemoteAddr = "203.0.113.7:1000"
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.upstream, w.Header().Get("X-Upstream"))
			assert.Equal(t, tt.upstream+":"+tt.path, w.Body.String())
			// The gateway forwards the client identity downstream.
			assert.Equal(t, "203.0.113.7", w.Header().Get("X-Got-Real-IP"))
		})
	}
}

func TestGatewayRejectsUnknownAPIRoute(t *testing.T) {
	router := newTestGateway(t)

	req := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGatewayUpstreamFailure(t *testing.T) {
	g, err := NewGateway(GatewayUpstreams{
		Shortener:  "http://127.0.0.1:1", // nothing listens here
		Redirector: "http://127.0.0.1:1",
		Analytics:  "http://127.0.0.1:1",
	}, zap.NewNop())
	require.NoError(t, err)
	router := NewGatewayRouter(g, nil, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/urls", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
