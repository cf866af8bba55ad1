package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"jobsight/internal/exporter"
	"jobsight/internal/logging"
	"jobsight/internal/settings"
	"jobsight/pkg/models"
	"jobsight/pkg/utils"
)

// ExportHandler renders generated text as a downloadable document
func ExportHandler(store settings.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		reqID := requestID(c)
		logger := logging.LogWithRequestID(reqID)

		var req models.ExportRequest
		if ok, err := bindAndValidate(c, &req, reqID, logger); !ok {
			return err
		}

		s, err := store.Load(c.Request().Context())
		if err != nil {
			return respondError(c, utils.NewStorageError(err.Error()), reqID)
		}

		doc, err := exporter.Export(req, s.Profile)
		if err != nil {
			logger.Error("Export failed", map[string]interface{}{"kind": req.Kind, "error": err.Error()})
			return respondError(c, err, reqID)
		}

		c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", doc.Filename))
		return c.Blob(http.StatusOK, doc.ContentType, doc.Body)
	}
}
