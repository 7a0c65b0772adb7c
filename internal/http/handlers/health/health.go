// Package health serves the service root and the liveness probe.
package health

import (
	"net/http"

	"github.com/aanand-mishra/wellbeing-api/internal/utils/response"
)

// Version is reported by the root endpoint.
const Version = "1.0.0"

// Root handles GET /.
func Root() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, map[string]string{
			"message": "Welcome to Student Well-being Dashboard API",
			"version": Version,
			"status":  "running",
		})
	}
}

// Check handles GET /health.
func Check() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}
}
