package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"jobsight/internal/browser"
)

// HostStatsHandler reports per-host rate limiter and circuit breaker state
func HostStatsHandler(limiter *browser.HostLimiter, loader *browser.Loader) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"engines": loader.Engines(),
			"hosts":   limiter.Stats(),
		})
	}
}
