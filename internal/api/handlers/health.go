package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"jobsight/internal/logging"
	"jobsight/pkg/models"
)

// Version is reported by the health endpoints
var Version = "1.0.0"

var startTime = time.Now()

// Check is one dependency probe. A failing required check makes the service
// not ready; an optional one only shows up as degraded.
type Check struct {
	Name     string
	Required bool
	Run      func(ctx context.Context) error
}

// HealthHandler handles health check requests
func HealthHandler(checks ...Check) echo.HandlerFunc {
	return func(c echo.Context) error {
		logging.GetGlobalLogger().Debug("Health check requested", map[string]interface{}{"request_id": requestID(c)})

		results, _ := runChecks(c.Request().Context(), checks)
		results["api"] = "ok"

		return c.JSON(http.StatusOK, models.HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now(),
			Version:   Version,
			Uptime:    time.Since(startTime),
			Checks:    results,
		})
	}
}

// ReadinessHandler reports ready only when every required check passes
func ReadinessHandler(checks ...Check) echo.HandlerFunc {
	return func(c echo.Context) error {
		logging.GetGlobalLogger().Debug("Readiness check requested", map[string]interface{}{"request_id": requestID(c)})

		results, ready := runChecks(c.Request().Context(), checks)
		results["api"] = "ok"

		status, code := "ready", http.StatusOK
		if !ready {
			status, code = "not_ready", http.StatusServiceUnavailable
		}

		return c.JSON(code, models.HealthResponse{
			Status:    status,
			Timestamp: time.Now(),
			Version:   Version,
			Uptime:    time.Since(startTime),
			Checks:    results,
		})
	}
}

// LivenessHandler handles liveness probe requests
func LivenessHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   Version,
		Uptime:    time.Since(startTime),
	})
}

func runChecks(ctx context.Context, checks []Check) (map[string]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	results := make(map[string]string, len(checks)+1)
	ready := true
	for _, check := range checks {
		if err := check.Run(ctx); err != nil {
			if check.Required {
				results[check.Name] = "error: " + err.Error()
				ready = false
			} else {
				results[check.Name] = "degraded: " + err.Error()
			}
			continue
		}
		results[check.Name] = "ok"
	}
	return results, ready
}
