package http

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cliplink/cliplink/internal/ratelimit"
)

// GatewayUpstreams names the services behind the gateway
type GatewayUpstreams struct {
	Shortener  string
	Redirector string
	Analytics  string
}

// Gateway routes public traffic to the backing services. Rate limiting runs
// here, at the edge, so one client identity spans all of them.
type Gateway struct {
	shortener  *httputil.ReverseProxy
	redirector *httputil.ReverseProxy
	analytics  *httputil.ReverseProxy
	log        *zap.Logger
}

// NewGateway creates proxies for the configured upstreams
func NewGateway(upstreams GatewayUpstreams, log *zap.Logger) (*Gateway, error) {
	shortener, err := newProxy(upstreams.Shortener, log)
	if err != nil {
		return nil, fmt.Errorf("shortener upstream: %w", err)
	}
	redirector, err := newProxy(upstreams.Redirector, log)
	if err != nil {
		return nil, fmt.Errorf("redirector upstream: %w", err)
	}
	analytics, err := newProxy(upstreams.Analytics, log)
	if err != nil {
		return nil, fmt.Errorf("analytics upstream: %w", err)
	}
	return &Gateway{
		shortener:  shortener,
		redirector: redirector,
		analytics:  analytics,
		log:        log,
	}, nil
}

// NewGatewayRouter assembles the gateway's routes
func NewGatewayRouter(g *Gateway, limiter ratelimit.Limiter, log *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(RequestLogger(log))
	r.Use(Metrics("gateway"))
	r.Use(RateLimit("gateway", limiter, log))

	r.Get("/health", healthHandler("gateway", nil))
	r.Handle("/metrics", promhttp.Handler())

	r.Mount("/api/urls", g.shortenerProxy())
	r.Mount("/api/analytics", g.analyticsProxy())

	// Everything else is a short code for the redirector.
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		if strings.HasPrefix(req.URL.Path, "/api/") {
			writeError(w, http.StatusNotFound, "unknown API route")
			return
		}
		g.redirector.ServeHTTP(w, req)
	})
	return r
}

func (g *Gateway) shortenerProxy() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g.shortener.ServeHTTP(w, r)
	})
}

func (g *Gateway) analyticsProxy() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g.analytics.ServeHTTP(w, r)
	})
}

// newProxy builds a reverse proxy that forwards the client identity headers
// the backing services derive rate-limit and analytics identity from
func newProxy(upstream string, log *zap.Logger) (*httputil.ReverseProxy, error) {
	target, err := url.Parse(upstream)
	if err != nil {
		return nil, err
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	baseDirector := proxy.Director
	proxy.Director = func(req *http.Request) {
		clientIP := ratelimit.ClientIP(req)
		baseDirector(req)
		req.Header.Set("X-Real-IP", clientIP)
		if prior := req.Header.Get("X-Forwarded-For"); prior == "" {
			req.Header.Set("X-Forwarded-For", clientIP)
		}
	}
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.Error("upstream request failed",
			zap.String("upstream", target.Host),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "upstream unavailable")
	}
	return proxy, nil
}
