package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"jobsight/internal/browser"
	"jobsight/internal/extractor"
	"jobsight/internal/logging"
	"jobsight/pkg/models"
)

// CurrentJobHandler returns the outcome of the last completed scan
func CurrentJobHandler(ext *extractor.Extractor) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, ext.Current())
	}
}

// ExtractHandler scans HTML captured by the caller
func ExtractHandler(ext *extractor.Extractor) echo.HandlerFunc {
	return func(c echo.Context) error {
		startTime := time.Now()
		reqID := requestID(c)
		logger := logging.LogWithRequestID(reqID)

		var req models.ExtractRequest
		if ok, err := bindAndValidate(c, &req, reqID, logger); !ok {
			return err
		}

		doc, err := extractor.ParseHTML(req.HTML)
		if err != nil {
			return errorJSON(c, http.StatusBadRequest, "invalid_html", err.Error(), reqID)
		}

		state, err := ext.Scan(c.Request().Context(), req.URL, doc)
		if err != nil {
			return respondError(c, err, reqID)
		}

		logger.Info("Extract request completed", map[string]interface{}{
			"url":             req.URL,
			"is_job_page":     state.IsJobPage,
			"valid":           state.JobData != nil,
			"processing_time": time.Since(startTime).String(),
		})

		return c.JSON(http.StatusOK, models.ScanResponse{
			Success:        true,
			State:          state,
			ProcessingTime: time.Since(startTime),
			RequestID:      reqID,
		})
	}
}

// ScanHandler loads a live page through an engine and scans it
func ScanHandler(ext *extractor.Extractor, loader *browser.Loader) echo.HandlerFunc {
	return func(c echo.Context) error {
		startTime := time.Now()
		reqID := requestID(c)
		logger := logging.LogWithRequestID(reqID)

		var req models.ScanRequest
		if ok, err := bindAndValidate(c, &req, reqID, logger); !ok {
			return err
		}

		logger.Info("Processing scan request", map[string]interface{}{"url": req.URL, "engine": req.Engine})

		ctx := c.Request().Context()
		doc, target, err := loader.Load(ctx, req.Engine, req.URL)
		if err != nil {
			logger.Error("Page load failed", map[string]interface{}{"url": req.URL, "error": err.Error()})
			return respondError(c, err, reqID)
		}

		state, err := ext.Scan(ctx, target, doc)
		if err != nil {
			return respondError(c, err, reqID)
		}

		engine := req.Engine
		if engine == "" {
			engine = loader.Default()
		}

		logger.Info("Scan request completed", map[string]interface{}{
			"url":             target,
			"engine":          engine,
			"is_job_page":     state.IsJobPage,
			"valid":           state.JobData != nil,
			"processing_time": time.Since(startTime).String(),
		})

		return c.JSON(http.StatusOK, models.ScanResponse{
			Success:        true,
			State:          state,
			Engine:         engine,
			ProcessingTime: time.Since(startTime),
			RequestID:      reqID,
		})
	}
}
