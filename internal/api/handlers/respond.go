package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"jobsight/internal/api/middleware"
	"jobsight/internal/api/validation"
	"jobsight/internal/exporter"
	"jobsight/internal/logging"
	"jobsight/internal/session"
	"jobsight/pkg/models"
	"jobsight/pkg/utils"
)

var validate = validation.New()

// requestID returns the id assigned by the request middleware, or a new one
func requestID(c echo.Context) string {
	if id, ok := c.Get(middleware.RequestIDKey).(string); ok && id != "" {
		return id
	}
	return utils.GenerateRequestID()
}

func errorJSON(c echo.Context, status int, code, message, requestID string) error {
	return c.JSON(status, models.ErrorResponse{
		Error:     code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now(),
	})
}

// bindAndValidate decodes the body into req and runs struct validation. When
// ok is false the 400 response has been written and the handler must return err.
func bindAndValidate(c echo.Context, req interface{}, requestID string, logger logging.Logger) (ok bool, err error) {
	if err := c.Bind(req); err != nil {
		logger.Warn("Failed to bind request", map[string]interface{}{"error": err.Error()})
		return false, errorJSON(c, http.StatusBadRequest, "invalid_request", "Invalid request format", requestID)
	}
	if err := validate.Struct(req); err != nil {
		logger.Warn("Request validation failed", map[string]interface{}{"error": err.Error()})
		return false, errorJSON(c, http.StatusBadRequest, "validation_failed", err.Error(), requestID)
	}
	return true, nil
}

// respondError maps a domain error onto its HTTP status
func respondError(c echo.Context, err error, requestID string) error {
	ce, ok := utils.AsCustomError(err)
	if !ok {
		ce = classify(err)
	}
	return errorJSON(c, ce.Code, errorCode(ce.Code), ce.Error(), requestID)
}

func classify(err error) *utils.CustomError {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return utils.NewNotFoundError(err.Error())
	case errors.Is(err, exporter.ErrUnknownKind), errors.Is(err, exporter.ErrUnknownFormat):
		return utils.NewValidationError(err.Error())
	default:
		return utils.NewInternalServerError(err.Error())
	}
}

func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusUnprocessableEntity:
		return "not_job_posting"
	case http.StatusTooManyRequests:
		return "rate_limited"
	case http.StatusBadGateway:
		return "upstream_failed"
	case http.StatusServiceUnavailable:
		return "unavailable"
	default:
		return "internal_error"
	}
}
