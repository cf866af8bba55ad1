package routes

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"jobsight/internal/api/handlers"
	"jobsight/internal/api/middleware"
	"jobsight/internal/browser"
	"jobsight/internal/config"
	"jobsight/internal/extractor"
	"jobsight/internal/llm"
	"jobsight/internal/session"
	"jobsight/internal/settings"
)

// Dependencies are the services the routes are wired to
type Dependencies struct {
	Extractor *extractor.Extractor
	Loader    *browser.Loader
	Limiter   *browser.HostLimiter
	Sessions  *session.Manager
	Settings  settings.Store
	LLM       *llm.Manager
	History   handlers.PostingHistory
	Cache     handlers.PostingCache
	Checks    []handlers.Check
}

// SetupRoutes configures all API routes
func SetupRoutes(e *echo.Echo, cfg *config.Config, deps Dependencies) {
	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.CORSConfig(cfg.Server.AllowedOrigins))
	e.Use(middleware.RequestValidation(cfg.Server.MaxBodyBytes))
	// Page loads and model calls get two minutes, everything else the read timeout
	e.Use(middleware.SelectiveTimeoutConfig(cfg.Server.ReadTimeout, 2*time.Minute,
		"/api/v1/scan", "/api/v1/watch", "/api/v1/assist"))

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler(deps.Checks...))
		health.GET("/ready", handlers.ReadinessHandler(deps.Checks...))
		health.GET("/live", handlers.LivenessHandler)
	}

	// API v1 routes
	v1 := e.Group("/api/v1")
	{
		v1.GET("/job/current", handlers.CurrentJobHandler(deps.Extractor))
		v1.POST("/extract", handlers.ExtractHandler(deps.Extractor))
		v1.POST("/scan", handlers.ScanHandler(deps.Extractor, deps.Loader))
		v1.GET("/hosts", handlers.HostStatsHandler(deps.Limiter, deps.Loader))
		v1.GET("/skills", handlers.SkillsHandler())

		postings := v1.Group("/postings")
		{
			postings.GET("", handlers.RecentPostingsHandler(deps.History))
			postings.GET("/cached", handlers.CachedPostingHandler(deps.Cache))
		}

		watch := v1.Group("/watch")
		{
			watch.POST("", handlers.StartWatchHandler(deps.Sessions))
			watch.GET("", handlers.ListWatchHandler(deps.Sessions))
			watch.GET("/:id", handlers.GetWatchHandler(deps.Sessions))
			watch.DELETE("/:id", handlers.StopWatchHandler(deps.Sessions))
		}

		v1.GET("/settings", handlers.GetSettingsHandler(deps.Settings))
		v1.PUT("/settings", handlers.PutSettingsHandler(deps.Settings))

		assist := v1.Group("/assist")
		{
			for _, step := range llm.Steps() {
				assist.POST("/"+string(step), handlers.AssistHandler(step, deps.LLM, deps.Settings, deps.Extractor))
			}
			assist.POST("/score", handlers.ScoreHandler(deps.Settings, deps.Extractor))
		}

		v1.POST("/export", handlers.ExportHandler(deps.Settings))
		v1.GET("/logs", handlers.LogsHandler())
	}

	// Root route
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"service": "jobsight",
			"version": handlers.Version,
			"status":  "running",
		})
	})
}
