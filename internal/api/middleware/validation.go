package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"jobsight/pkg/models"
	"jobsight/pkg/utils"
)

// RequestIDKey is the echo context key holding the request id
const RequestIDKey = "request_id"

// RequestValidation assigns a request id and rejects oversized bodies
func RequestValidation(maxBodyBytes int64) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = utils.GenerateRequestID()
			}
			c.Set(RequestIDKey, requestID)
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)

			method := c.Request().Method
			if (method == http.MethodPost || method == http.MethodPut) && c.Request().ContentLength > maxBodyBytes {
				return c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
					Error:     "request_too_large",
					Message:   "Request body too large",
					RequestID: requestID,
					Timestamp: time.Now(),
				})
			}

			return next(c)
		}
	}
}
