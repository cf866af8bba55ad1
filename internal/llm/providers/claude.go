package providers

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"jobsight/internal/config"
	"jobsight/internal/logging"
)

// ClaudeProvider implements the LLM provider interface using Anthropic's Claude
type ClaudeProvider struct {
	client anthropic.Client
	config *config.Config
	logger logging.Logger
}

// NewClaudeProvider creates a new Claude provider instance
func NewClaudeProvider(cfg *config.Config) *ClaudeProvider {
	opts := []option.RequestOption{option.WithAPIKey(cfg.LLM.APIKey)}
	if cfg.LLM.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.LLM.Timeout))
	}
	// single shot: the caller sees the first failure
	opts = append(opts, option.WithMaxRetries(0))

	return &ClaudeProvider{
		client: anthropic.NewClient(opts...),
		config: cfg,
		logger: logging.GetGlobalLogger().WithField("provider", "claude"),
	}
}

// Complete sends prompt as one user message and joins the text blocks of the reply
func (cp *ClaudeProvider) Complete(ctx context.Context, model, prompt string) (string, error) {
	if cp.config.LLM.APIKey == "" {
		return "", fmt.Errorf("Claude API key not configured - set LLM_API_KEY environment variable")
	}
	if model == "" {
		model = cp.config.LLM.Model
	}

	response, err := cp.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		MaxTokens:   int64(cp.config.LLM.MaxTokens),
		Temperature: anthropic.Float(float64(cp.config.LLM.Temperature)),
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: prompt},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to call Claude API: %w", err)
	}

	var parts []string
	for _, content := range response.Content {
		if content.Type != "text" {
			continue
		}
		parts = append(parts, content.AsText().Text)
	}
	text := strings.TrimSpace(strings.Join(parts, "\n"))
	if text == "" {
		return "", fmt.Errorf("no text content in Claude response")
	}

	cp.logger.Debug("Claude response received", map[string]interface{}{
		"model":         model,
		"input_tokens":  response.Usage.InputTokens,
		"output_tokens": response.Usage.OutputTokens,
	})
	return text, nil
}

// IsHealthy checks if the Claude provider is configured and the API answers
func (cp *ClaudeProvider) IsHealthy(ctx context.Context) error {
	if cp.config.LLM.APIKey == "" {
		return fmt.Errorf("Claude API key not configured - set LLM_API_KEY environment variable")
	}

	_, err := cp.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(cp.config.LLM.Model),
		MaxTokens: 16,
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: "Hello"},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	})
	if err != nil {
		return fmt.Errorf("Claude API health check failed: %w", err)
	}
	return nil
}

// GetProviderName returns the name of the LLM provider
func (cp *ClaudeProvider) GetProviderName() string {
	return "claude"
}
