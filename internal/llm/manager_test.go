package llm

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobsight/internal/config"
	"jobsight/pkg/models"
	"jobsight/pkg/utils"
)

type fakeProvider struct {
	calls   int
	model   string
	prompt  string
	answer  string
	err     error
	healthy error
}

func (f *fakeProvider) Complete(_ context.Context, model, prompt string) (string, error) {
	f.calls++
	f.model = model
	f.prompt = prompt
	return f.answer, f.err
}

func (f *fakeProvider) IsHealthy(context.Context) error { return f.healthy }
func (f *fakeProvider) GetProviderName() string         { return "fake" }

func strPtr(s string) *string { return &s }

func sampleJob() *models.JobPosting {
	return &models.JobPosting{
		Title:        strPtr("Data Engineer"),
		Company:      strPtr("Acme"),
		Description:  strPtr("Own the   pipelines\n\nthat feed our warehouse."),
		Requirements: []string{"3 years of SQL"},
		Skills:       []string{"SQL", "Python"},
		SourceURL:    "https://acme.dev/jobs/7",
	}
}

func TestBuildPrompt(t *testing.T) {
	s := models.DefaultSettings()
	s.Profile.FullName = "Grace Hopper"
	s.Resume = "Compiler engineer."

	tests := []struct {
		name     string
		step     Step
		job      *models.JobPosting
		settings models.Settings
		resume   string
		contains []string
		wantErr  bool
	}{
		{
			name:     "analyze",
			step:     StepAnalyze,
			job:      sampleJob(),
			settings: s,
			contains: []string{"Analyze the job posting", "Title: Data Engineer", "Skills: SQL, Python", "Requirement: 3 years of SQL", "Description: Own the pipelines that feed our warehouse.", "Name: Grace Hopper"},
		},
		{
			name:     "optimize prefers request resume",
			step:     StepOptimize,
			job:      sampleJob(),
			settings: s,
			resume:   "Navy rear admiral.",
			contains: []string{"Rewrite the candidate's resume", "Navy rear admiral."},
		},
		{
			name:     "optimize without resume",
			step:     StepOptimize,
			job:      sampleJob(),
			settings: models.DefaultSettings(),
			wantErr:  true,
		},
		{
			name:     "cover letter uses tone",
			step:     StepCoverLetter,
			job:      sampleJob(),
			settings: models.Settings{Tone: "friendly"},
			contains: []string{"friendly cover letter", "Company: Acme"},
		},
		{
			name:     "invalid job",
			step:     StepAnalyze,
			job:      &models.JobPosting{SourceURL: "x"},
			settings: s,
			wantErr:  true,
		},
		{
			name:     "unknown step",
			step:     Step("translate"),
			job:      sampleJob(),
			settings: s,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt, err := BuildPrompt(tt.step, tt.job, tt.settings, tt.resume, 6000)
			if tt.wantErr {
				require.Error(t, err)
				ce, ok := utils.AsCustomError(err)
				require.True(t, ok)
				assert.Equal(t, http.StatusBadRequest, ce.Code)
				return
			}
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, prompt, want)
			}
		})
	}
}

func TestManager_Run(t *testing.T) {
	cfg := config.Default()
	provider := &fakeProvider{answer: "Strong fit."}
	m := NewManagerWithProvider(cfg, provider)

	s := models.DefaultSettings()
	s.Model = "claude-3-5-sonnet-latest"

	out, err := m.Run(context.Background(), StepAnalyze, sampleJob(), s, "")
	require.NoError(t, err)
	assert.Equal(t, "Strong fit.", out)
	assert.Equal(t, 1, provider.calls)
	assert.Equal(t, "claude-3-5-sonnet-latest", provider.model)
	assert.Contains(t, provider.prompt, "Data Engineer")
	assert.Equal(t, "fake", m.GetProviderName())
}

func TestManager_RunSurfacesProviderError(t *testing.T) {
	provider := &fakeProvider{err: errors.New("overloaded_error: Overloaded")}
	m := NewManagerWithProvider(config.Default(), provider)

	_, err := m.Run(context.Background(), StepCoverLetter, sampleJob(), models.DefaultSettings(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overloaded_error: Overloaded")
	assert.Equal(t, 1, provider.calls, "no retry")

	ce, ok := utils.AsCustomError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, ce.Code)
}

func TestManager_BadPromptSkipsProvider(t *testing.T) {
	provider := &fakeProvider{}
	m := NewManagerWithProvider(config.Default(), provider)

	_, err := m.Run(context.Background(), StepAnalyze, nil, models.DefaultSettings(), "")
	require.Error(t, err)
	assert.Zero(t, provider.calls)
}

func TestManager_NotStarted(t *testing.T) {
	m := NewManager(config.Default())
	_, err := m.Run(context.Background(), StepAnalyze, sampleJob(), models.DefaultSettings(), "")
	require.Error(t, err)
	assert.False(t, m.IsHealthy())
	assert.Equal(t, "none", m.GetProviderName())
}

func TestManager_CheckHealth(t *testing.T) {
	provider := &fakeProvider{healthy: errors.New("no key")}
	m := NewManagerWithProvider(config.Default(), provider)

	assert.Error(t, m.CheckHealth(context.Background()))
	assert.False(t, m.IsHealthy())

	provider.healthy = nil
	assert.NoError(t, m.CheckHealth(context.Background()))
	assert.True(t, m.IsHealthy())
}

func TestStepValid(t *testing.T) {
	assert.True(t, StepOptimize.Valid())
	assert.False(t, Step("score").Valid())
}

func TestFactory(t *testing.T) {
	cfg := config.Default()
	p, err := NewLLMFactory(cfg).CreateProvider()
	require.NoError(t, err)
	assert.Equal(t, "claude", p.GetProviderName())

	cfg.LLM.Provider = "openai"
	_, err = NewLLMFactory(cfg).CreateProvider()
	assert.Error(t, err)
}
