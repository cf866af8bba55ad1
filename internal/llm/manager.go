package llm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"jobsight/internal/config"
	"jobsight/internal/llm/processors"
	"jobsight/internal/logging"
	"jobsight/pkg/models"
	"jobsight/pkg/utils"
)

// Manager manages LLM providers and their lifecycle
type Manager struct {
	config   *config.Config
	factory  *LLMFactory
	provider LLMProvider
	logger   logging.Logger
	mu       sync.RWMutex
	healthy  bool
}

// NewManager creates a new LLM manager instance
func NewManager(cfg *config.Config) *Manager {
	return &Manager{
		config:  cfg,
		factory: NewLLMFactory(cfg),
		logger:  logging.GetGlobalLogger().WithField("component", "llm"),
	}
}

// NewManagerWithProvider creates a started manager around an existing provider
func NewManagerWithProvider(cfg *config.Config, provider LLMProvider) *Manager {
	m := NewManager(cfg)
	m.provider = provider
	m.healthy = true
	return m
}

// Start creates the provider and checks it. A failed check leaves the
// assistant usable; each call then reports its own error.
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Info("Starting LLM manager", map[string]interface{}{"provider": m.config.LLM.Provider})

	provider, err := m.factory.CreateProvider()
	if err != nil {
		return fmt.Errorf("failed to create LLM provider: %w", err)
	}
	m.provider = provider

	timeout := m.config.LLM.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := m.provider.IsHealthy(ctx); err != nil {
		m.logger.Warn("LLM provider health check failed", map[string]interface{}{"error": err.Error()})
		m.healthy = false
	} else {
		m.healthy = true
		m.logger.Info("LLM manager started successfully", map[string]interface{}{"provider": m.provider.GetProviderName()})
	}
	return nil
}

// Stop shuts down the LLM manager
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Info("Stopping LLM manager")
	m.provider = nil
	m.healthy = false
	return nil
}

// Run executes one assistant step as a single completion. Provider errors
// are returned as is, wrapped in an LLM error; there is no retry.
func (m *Manager) Run(ctx context.Context, step Step, job *models.JobPosting, s models.Settings, resume string) (string, error) {
	m.mu.RLock()
	provider := m.provider
	m.mu.RUnlock()

	if provider == nil {
		return "", utils.NewLLMError("LLM provider not available")
	}

	prompt, err := BuildPrompt(step, job, s, resume, processors.CharBudget(m.config.LLM.MaxTokens))
	if err != nil {
		return "", err
	}

	start := time.Now()
	text, err := provider.Complete(ctx, s.Model, prompt)
	if err != nil {
		m.logger.Error("Assistant step failed", map[string]interface{}{
			"step":  string(step),
			"error": err.Error(),
		})
		return "", utils.NewLLMError(err.Error())
	}

	m.logger.Info("Assistant step completed", map[string]interface{}{
		"step":            string(step),
		"provider":        provider.GetProviderName(),
		"processing_time": time.Since(start).String(),
		"chars":           len(text),
	})
	return text, nil
}

// IsHealthy reports the result of the last health check
func (m *Manager) IsHealthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.healthy && m.provider != nil
}

// GetProviderName returns the name of the current LLM provider
func (m *Manager) GetProviderName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.provider != nil {
		return m.provider.GetProviderName()
	}
	return "none"
}

// CheckHealth performs a health check on the LLM provider
func (m *Manager) CheckHealth(ctx context.Context) error {
	m.mu.RLock()
	provider := m.provider
	m.mu.RUnlock()

	if provider == nil {
		return fmt.Errorf("LLM provider not available")
	}

	err := provider.IsHealthy(ctx)

	m.mu.Lock()
	m.healthy = (err == nil)
	m.mu.Unlock()

	return err
}
