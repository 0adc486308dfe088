package health

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Handler serves the checker's report as JSON. It responds 200 when every
// check passes and 503 when any check is unhealthy.
func (c *Checker) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		report := c.Run(r.Context())

		statusCode := http.StatusOK
		if !report.Healthy() {
			statusCode = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.WriteHeader(statusCode)

		if r.Method == http.MethodHead {
			return
		}

		if err := json.NewEncoder(w).Encode(report); err != nil {
			slog.Error("failed to encode health report", "error", err)
		}
	})
}
