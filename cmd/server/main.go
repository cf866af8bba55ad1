package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"jobsight/internal/api/handlers"
	"jobsight/internal/api/routes"
	"jobsight/internal/browser"
	"jobsight/internal/config"
	"jobsight/internal/extractor"
	"jobsight/internal/grpc/server"
	"jobsight/internal/llm"
	"jobsight/internal/logging"
	"jobsight/internal/mux"
	"jobsight/internal/notify"
	"jobsight/internal/session"
	"jobsight/internal/settings"
	"jobsight/internal/storage"
	"jobsight/pkg/utils"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logging.InitializeLogging(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	logger := logging.GetGlobalLogger()
	logger.Info("Starting jobsight", map[string]interface{}{"address": cfg.Address()})

	ctx := context.Background()

	// Page loading
	limiter := browser.NewHostLimiter(cfg)
	rodManager := browser.NewRodManager(cfg)
	engines := []browser.Engine{rodManager}
	if cfg.Firecrawl.APIKey != "" {
		fc, err := browser.NewFirecrawlEngine(cfg)
		if err != nil {
			logger.Warn("Firecrawl engine disabled", map[string]interface{}{"error": err.Error()})
		} else {
			engines = append(engines, fc)
		}
	}
	loader := browser.NewLoader(limiter, engines...)

	// Outbound notifications
	fanout := notify.NewFanout().Add("log", notify.NewLogNotifier(logger))
	checks := []handlers.Check{
		{Name: "browser", Run: func(context.Context) error {
			if !rodManager.IsHealthy() {
				return utils.NewPageLoadError("browser is not responding")
			}
			return nil
		}},
	}

	var settingsStore settings.Store = settings.NewMemoryStore()
	var (
		redisClient *utils.RedisClient
		cache       handlers.PostingCache
		history     handlers.PostingHistory
	)
	if cfg.Redis.URL != "" {
		redisClient, err = utils.NewRedisClient(cfg)
		if err != nil {
			logger.Fatal("Failed to configure Redis", map[string]interface{}{"error": err.Error()})
		}
		if err := redisClient.Ping(ctx); err != nil {
			logger.Warn("Redis is not reachable yet", map[string]interface{}{"error": err.Error()})
		}
		redisNotifier := notify.NewRedisNotifier(redisClient, cfg.Redis.Channel, cfg.Redis.TTL)
		fanout.Add("redis", redisNotifier)
		cache = redisNotifier
		settingsStore = settings.NewRedisStore(redisClient)
		checks = append(checks, handlers.Check{Name: "redis", Required: true, Run: redisClient.Ping})
	} else {
		logger.Info("Redis not configured, settings are kept in memory")
	}

	var repo *storage.Repository
	if cfg.Postgres.DSN != "" {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		repo, err = storage.Connect(connectCtx, cfg)
		if err == nil {
			err = repo.Migrate(connectCtx)
		}
		cancel()
		if err != nil {
			logger.Fatal("Failed to initialize Postgres", map[string]interface{}{"error": err.Error()})
		}
		fanout.Add("postgres", repo)
		history = repo
		checks = append(checks, handlers.Check{Name: "postgres", Required: true, Run: repo.Ping})
	}
	logger.Info("Notifiers registered", map[string]interface{}{"notifiers": fanout.Names()})

	// Extraction
	ext := extractor.New(fanout,
		extractor.WithMinDescriptionLength(cfg.Extractor.MinDescriptionLength),
		extractor.WithLogger(logger.WithField("component", "extractor")),
	)
	sessions := session.NewManager(cfg, rodManager, fanout)
	janitor := session.NewJanitor(cfg.Cleanup.Schedule, cfg.Cleanup.IdleTimeout, sessions, limiter)
	if err := janitor.Start(); err != nil {
		logger.Fatal("Failed to start cleanup scheduler", map[string]interface{}{"error": err.Error()})
	}

	// Initialize LLM manager
	llmManager := llm.NewManager(cfg)
	if err := llmManager.Start(); err != nil {
		logger.Fatal("Failed to start LLM manager", map[string]interface{}{"error": err.Error()})
	}
	checks = append(checks, handlers.Check{Name: "llm", Run: func(context.Context) error {
		if !llmManager.IsHealthy() {
			return utils.NewLLMError("provider unavailable")
		}
		return nil
	}})

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true
	routes.SetupRoutes(e, cfg, routes.Dependencies{
		Extractor: ext,
		Loader:    loader,
		Limiter:   limiter,
		Sessions:  sessions,
		Settings:  settingsStore,
		LLM:       llmManager,
		History:   history,
		Cache:     cache,
		Checks:    checks,
	})

	grpcServer := server.NewServer(cfg, func(ctx context.Context) bool {
		for _, c := range checks {
			if c.Required && c.Run(ctx) != nil {
				return false
			}
		}
		return true
	})

	m := mux.NewMultiplexer(cfg, grpcServer, e)
	if err := m.Start(cfg.Address()); err != nil {
		logger.Fatal("Server failed to start", map[string]interface{}{"error": err.Error()})
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := m.Stop(shutdownCtx); err != nil {
		logger.Error("Error stopping servers", map[string]interface{}{"error": err.Error()})
	}

	janitor.Stop()
	sessions.Shutdown()
	ext.Wait()

	if err := rodManager.Close(); err != nil {
		logger.Error("Error closing browser", map[string]interface{}{"error": err.Error()})
	}
	if err := llmManager.Stop(); err != nil {
		logger.Error("Error stopping LLM manager", map[string]interface{}{"error": err.Error()})
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Error closing Redis", map[string]interface{}{"error": err.Error()})
		}
	}
	if repo != nil {
		repo.Close()
	}

	logger.Info("Server shutdown complete")
	if err := logging.CloseLogging(); err != nil {
		log.Printf("Failed to close logging: %v", err)
	}
}
