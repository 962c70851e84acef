package ratelimit

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP derives the rate-limiting identity for a request. The first entry
// of X-Forwarded-For wins, then X-Real-IP, then the connection's remote
// address. Requests with none of these yield the shared "unknown" bucket
// rather than escaping limiting altogether.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return strings.TrimSpace(real)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
