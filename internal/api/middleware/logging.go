package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"jobsight/internal/logging"
)

// RequestLogger logs one line per request through the application logger
func RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := map[string]interface{}{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"request_id": v.RequestID,
			}
			logger := logging.GetGlobalLogger()
			if v.Error != nil {
				fields["error"] = v.Error.Error()
				logger.Error("HTTP request failed", fields)
				return nil
			}
			logger.Info("HTTP request", fields)
			return nil
		},
	})
}
