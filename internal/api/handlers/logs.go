package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"jobsight/internal/logging"
)

// LogsHandler returns the most recent log entries held in memory. Query
// parameters: level (minimum level, default debug) and limit (newest N).
func LogsHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		ring := logging.RingBuffer()
		if ring == nil {
			return c.JSON(http.StatusOK, map[string]interface{}{"entries": []logging.LogEntry{}, "count": 0})
		}

		level := logging.DebugLevel
		if l := c.QueryParam("level"); l != "" {
			level = logging.ParseLogLevel(l)
		}
		entries := ring.Entries(level)

		if l := c.QueryParam("limit"); l != "" {
			if n, err := strconv.Atoi(l); err == nil && n >= 0 && n < len(entries) {
				entries = entries[len(entries)-n:]
			}
		}

		return c.JSON(http.StatusOK, map[string]interface{}{
			"entries": entries,
			"count":   len(entries),
		})
	}
}
