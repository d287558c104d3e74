// internal/monitoring/health.go
package monitoring

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"
)

// HealthStatus is the probe verdict.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthResponse is the /healthz payload.
type HealthResponse struct {
	Status     HealthStatus `json:"status"`
	Timestamp  time.Time    `json:"timestamp"`
	Uptime     string       `json:"uptime"`
	Goroutines int          `json:"goroutines"`
}

// HealthHandler reports process liveness. The scraper is healthy as
// long as it can answer; run state lives on /progress.
func HealthHandler(startTime time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{
			Status:     HealthStatusHealthy,
			Timestamp:  time.Now(),
			Uptime:     time.Since(startTime).Round(time.Second).String(),
			Goroutines: runtime.NumGoroutine(),
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}
