package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"jobsight/internal/ats"
	"jobsight/internal/extractor"
	"jobsight/internal/llm"
	"jobsight/internal/logging"
	"jobsight/internal/settings"
	"jobsight/pkg/models"
	"jobsight/pkg/utils"
)

// AssistHandler runs one assistant step against the request's job, or the
// last extracted one
func AssistHandler(step llm.Step, manager *llm.Manager, store settings.Store, ext *extractor.Extractor) echo.HandlerFunc {
	return func(c echo.Context) error {
		reqID := requestID(c)
		logger := logging.LogWithRequestID(reqID).WithField("step", string(step))

		var req models.AssistRequest
		if ok, err := bindAndValidate(c, &req, reqID, logger); !ok {
			return err
		}

		ctx := c.Request().Context()
		job, s, err := assistInputs(ctx, req, store, ext)
		if err != nil {
			return respondError(c, err, reqID)
		}

		content, err := manager.Run(ctx, step, job, s, req.Resume)
		if err != nil {
			return respondError(c, err, reqID)
		}

		return c.JSON(http.StatusOK, models.AssistResponse{
			Success:   true,
			Step:      string(step),
			Content:   content,
			Provider:  manager.GetProviderName(),
			RequestID: reqID,
		})
	}
}

// ScoreHandler rates the resume against the job with the local keyword heuristic
func ScoreHandler(store settings.Store, ext *extractor.Extractor) echo.HandlerFunc {
	return func(c echo.Context) error {
		reqID := requestID(c)
		logger := logging.LogWithRequestID(reqID)

		var req models.AssistRequest
		if ok, err := bindAndValidate(c, &req, reqID, logger); !ok {
			return err
		}

		job, s, err := assistInputs(c.Request().Context(), req, store, ext)
		if err != nil {
			return respondError(c, err, reqID)
		}

		resume := utils.GetStringOrDefault(req.Resume, s.Resume)
		if resume == "" {
			return respondError(c, utils.NewBadRequestError("a resume is required to score"), reqID)
		}

		res := ats.Score(job, resume)
		logger.Info("ATS score computed", map[string]interface{}{
			"url":   job.SourceURL,
			"score": res.Score,
		})

		return c.JSON(http.StatusOK, models.ScoreResponse{
			Score:     res.Score,
			Matching:  res.Matching,
			Missing:   res.Missing,
			RequestID: reqID,
		})
	}
}

func assistInputs(ctx context.Context, req models.AssistRequest, store settings.Store, ext *extractor.Extractor) (*models.JobPosting, models.Settings, error) {
	job := req.Job
	if job == nil {
		job = ext.Current().JobData
	}
	if job == nil {
		return nil, models.Settings{}, utils.NewNotJobPostingError("no job posting has been extracted yet")
	}

	s, err := store.Load(ctx)
	if err != nil {
		return nil, models.Settings{}, utils.NewStorageError(err.Error())
	}
	return job, s, nil
}
