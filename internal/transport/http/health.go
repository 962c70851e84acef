package http

import (
	"context"
	"net/http"
	"time"

	"github.com/cliplink/cliplink/internal/domain"
)

// Version is the reported service version
const Version = "1.0.0"

// DependencyCheck probes one dependency; true means healthy
type DependencyCheck func(ctx context.Context) bool

// healthHandler reports the service status and the state of its dependencies.
// The service is degraded, not down, when a dependency check fails.
func healthHandler(serviceName string, checks map[string]DependencyCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := domain.HealthStatus{
			Status:    "healthy",
			Timestamp: time.Now().UTC(),
			Service:   serviceName,
			Version:   Version,
		}
		if len(checks) > 0 {
			status.Dependencies = make(map[string]string, len(checks))
			for name, check := range checks {
				if check(r.Context()) {
					status.Dependencies[name] = "healthy"
				} else {
					status.Dependencies[name] = "unhealthy"
					status.Status = "degraded"
				}
			}
		}
		writeJSON(w, http.StatusOK, status)
	}
}
