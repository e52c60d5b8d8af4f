package handlers

import (
	"net/http"
	"time"
)

// HealthHandler reports service liveness and uptime.
func HealthHandler(startup time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":         "healthy",
			"uptime_seconds": int64(time.Since(startup).Seconds()),
		})
	}
}
