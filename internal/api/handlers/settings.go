package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"jobsight/internal/logging"
	"jobsight/internal/settings"
	"jobsight/pkg/models"
	"jobsight/pkg/utils"
)

// GetSettingsHandler returns the stored settings
func GetSettingsHandler(store settings.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		s, err := store.Load(c.Request().Context())
		if err != nil {
			return respondError(c, utils.NewStorageError(err.Error()), requestID(c))
		}
		return c.JSON(http.StatusOK, s)
	}
}

// PutSettingsHandler validates and replaces the stored settings
func PutSettingsHandler(store settings.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		reqID := requestID(c)
		logger := logging.LogWithRequestID(reqID)

		var s models.Settings
		if ok, err := bindAndValidate(c, &s, reqID, logger); !ok {
			return err
		}

		saved, err := store.Save(c.Request().Context(), s)
		if err != nil {
			logger.Error("Failed to save settings", map[string]interface{}{"error": err.Error()})
			return respondError(c, utils.NewStorageError(err.Error()), reqID)
		}

		logger.Info("Settings updated", map[string]interface{}{
			"model":        saved.Model,
			"tone":         saved.Tone,
			"auto_analyze": saved.AutoAnalyze,
		})
		return c.JSON(http.StatusOK, saved)
	}
}
