package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// SelectiveTimeoutConfig bounds each request's context: long for paths under
// any of longPrefixes (browser loads, model calls), def for the rest
func SelectiveTimeoutConfig(def, long time.Duration, longPrefixes ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			timeout := def
			for _, prefix := range longPrefixes {
				if strings.HasPrefix(c.Request().URL.Path, prefix) {
					timeout = long
					break
				}
			}
			if timeout <= 0 {
				return next(c)
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
			defer cancel()
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
