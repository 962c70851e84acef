package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/cliplink/cliplink/internal/ratelimit"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cliplink_http_requests_total",
		Help: "HTTP requests by service, method, and status.",
	}, []string{"service", "method", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cliplink_http_request_duration_seconds",
		Help:    "HTTP request latency by service and method.",
		Buckets: prometheus.DefBuckets,
	}, []string{"service", "method"})

	rateLimitRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cliplink_rate_limit_rejections_total",
		Help: "Requests rejected by the rate limiter, by tier.",
	}, []string{"service", "tier"})
)

// RequestLogger logs one line per request with method, path, status, and
// duration
func RequestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			log.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("remote", r.RemoteAddr))
		})
	}
}

// Metrics records request counts and latency for Prometheus
func Metrics(serviceName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			requestsTotal.WithLabelValues(serviceName, r.Method, strconv.Itoa(ww.Status())).Inc()
			requestDuration.WithLabelValues(serviceName, r.Method).Observe(time.Since(start).Seconds())
		})
	}
}

// RateLimit rejects requests over the client's budget with 429 and a
// Retry-After header. A nil limiter disables the middleware.
func RateLimit(serviceName string, limiter ratelimit.Limiter, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID := ratelimit.ClientIP(r)
			decision := limiter.Allow(r.Context(), clientID)
			if !decision.Allowed {
				rateLimitRejections.WithLabelValues(serviceName, decision.Tier).Inc()
				log.Warn("rate limit exceeded",
					zap.String("client", clientID),
					zap.String("tier", decision.Tier))

				w.Header().Set("Retry-After", strconv.Itoa(int(decision.RetryAfter/time.Second)))
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
