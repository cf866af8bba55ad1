package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"jobsight/internal/logging"
	"jobsight/internal/session"
	"jobsight/pkg/models"
)

// StartWatchHandler opens a live page and keeps it scanned as it changes
func StartWatchHandler(sessions *session.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		reqID := requestID(c)
		logger := logging.LogWithRequestID(reqID)

		var req models.WatchRequest
		if ok, err := bindAndValidate(c, &req, reqID, logger); !ok {
			return err
		}

		ws, err := sessions.Start(c.Request().Context(), req.URL)
		if err != nil {
			logger.Error("Failed to start watch session", map[string]interface{}{"url": req.URL, "error": err.Error()})
			return respondError(c, err, reqID)
		}
		return c.JSON(http.StatusCreated, ws)
	}
}

// ListWatchHandler lists open watch sessions
func ListWatchHandler(sessions *session.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"sessions": sessions.List(),
			"count":    sessions.Count(),
		})
	}
}

// GetWatchHandler returns one watch session with its latest state
func GetWatchHandler(sessions *session.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		ws, err := sessions.Get(c.Param("id"))
		if err != nil {
			return respondError(c, err, requestID(c))
		}
		return c.JSON(http.StatusOK, ws)
	}
}

// StopWatchHandler closes a watch session
func StopWatchHandler(sessions *session.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := sessions.Stop(c.Param("id")); err != nil {
			return respondError(c, err, requestID(c))
		}
		return c.NoContent(http.StatusNoContent)
	}
}
