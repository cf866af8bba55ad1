package llm

import "context"

// Step names one assistant action
type Step string

const (
	StepAnalyze     Step = "analyze"
	StepOptimize    Step = "optimize"
	StepCoverLetter Step = "cover-letter"
)

// Steps lists the supported assistant steps
func Steps() []Step {
	return []Step{StepAnalyze, StepOptimize, StepCoverLetter}
}

// Valid reports whether s is a supported step
func (s Step) Valid() bool {
	for _, known := range Steps() {
		if s == known {
			return true
		}
	}
	return false
}

// LLMProvider sends one prompt and returns the model's text answer
type LLMProvider interface {
	// Complete runs a single completion. An empty model means the configured default.
	Complete(ctx context.Context, model, prompt string) (string, error)

	// IsHealthy checks if the LLM provider is configured and reachable
	IsHealthy(ctx context.Context) error

	// GetProviderName returns the name of the LLM provider
	GetProviderName() string
}
