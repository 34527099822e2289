package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/saipavansp/incubez-talent-stories/api/responses"
	"github.com/saipavansp/incubez-talent-stories/pkg/config"
	"github.com/saipavansp/incubez-talent-stories/pkg/logger"
)

// Pinger is any dependency that can report liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health reports the API is up; kept compatible with the original
// monitoring checks that expect the OK status string.
func Health(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteJSON(w, http.StatusOK, map[string]string{
			"status":    "OK",
			"message":   "INCUBEZ Talent Stories API is running",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// HealthReady pings the wired dependencies and reports per-dependency
// status. Optional dependencies that are not configured are skipped.
func HealthReady(logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := map[string]string{}
		for name, dep := range deps {
			if dep == nil {
				checks[name] = "skipped"
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				checks[name] = "down"
				status = http.StatusServiceUnavailable
				if logg != nil {
					logg.Error(ctx, "readiness check failed: "+name, err)
				}
				continue
			}
			checks[name] = "up"
		}

		ready := "ready"
		if status != http.StatusOK {
			ready = "degraded"
		}
		responses.WriteJSON(w, status, map[string]any{
			"status": ready,
			"checks": checks,
		})
	}
}
