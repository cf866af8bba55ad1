package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"jobsight/internal/extractor"
	"jobsight/pkg/models"
	"jobsight/pkg/utils"
)

const (
	defaultPostingLimit = 20
	maxPostingLimit     = 100
)

// PostingHistory lists persisted postings
type PostingHistory interface {
	Recent(ctx context.Context, limit int) ([]models.JobPosting, error)
}

// PostingCache looks up emitted postings
type PostingCache interface {
	Latest(ctx context.Context) (*models.JobPosting, error)
	Posting(ctx context.Context, url string) (*models.JobPosting, error)
}

// RecentPostingsHandler returns stored postings, newest first
func RecentPostingsHandler(history PostingHistory) echo.HandlerFunc {
	return func(c echo.Context) error {
		reqID := requestID(c)
		if history == nil {
			return respondError(c, utils.NewStorageError("posting history is not configured"), reqID)
		}

		limit := defaultPostingLimit
		if l := c.QueryParam("limit"); l != "" {
			n, err := strconv.Atoi(l)
			if err != nil || n < 1 || n > maxPostingLimit {
				return respondError(c, utils.NewValidationError("limit must be between 1 and 100"), reqID)
			}
			limit = n
		}

		postings, err := history.Recent(c.Request().Context(), limit)
		if err != nil {
			return respondError(c, utils.NewStorageError(err.Error()), reqID)
		}
		if postings == nil {
			postings = []models.JobPosting{}
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"postings": postings,
			"count":    len(postings),
		})
	}
}

// CachedPostingHandler returns the posting cached for ?url=, or the most
// recently emitted one when no url is given
func CachedPostingHandler(cache PostingCache) echo.HandlerFunc {
	return func(c echo.Context) error {
		reqID := requestID(c)
		if cache == nil {
			return respondError(c, utils.NewStorageError("posting cache is not configured"), reqID)
		}

		ctx := c.Request().Context()
		var (
			posting *models.JobPosting
			err     error
		)
		if url := c.QueryParam("url"); url != "" {
			posting, err = cache.Posting(ctx, url)
		} else {
			posting, err = cache.Latest(ctx)
		}
		if err != nil {
			return respondError(c, utils.NewStorageError(err.Error()), reqID)
		}
		if posting == nil {
			return respondError(c, utils.NewNotFoundError("no cached posting"), reqID)
		}
		return c.JSON(http.StatusOK, posting)
	}
}

// SkillsHandler returns the vocabulary skills are matched against
func SkillsHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		skills := extractor.SkillVocabulary()
		return c.JSON(http.StatusOK, map[string]interface{}{
			"skills": skills,
			"count":  len(skills),
		})
	}
}
