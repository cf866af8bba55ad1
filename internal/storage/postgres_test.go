//go:build integration

package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobsight/internal/config"
	"jobsight/pkg/models"
)

func connectTestDB(t *testing.T) *Repository {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	cfg := config.Default()
	cfg.Postgres.DSN = dsn

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, err := Connect(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(repo.Close)
	require.NoError(t, repo.Migrate(ctx))
	return repo
}

func TestIntegration_InsertDedupByURL(t *testing.T) {
	repo := connectTestDB(t)
	ctx := context.Background()

	title := "Platform Engineer"
	p := &models.JobPosting{
		Title:       &title,
		Skills:      []string{"Go"},
		SourceURL:   "https://example.com/jobs/" + time.Now().Format("150405.000000"),
		ExtractedAt: time.Now().UTC(),
	}

	inserted, err := repo.Insert(ctx, p)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.Insert(ctx, p)
	require.NoError(t, err)
	assert.False(t, inserted)

	recent, err := repo.Recent(ctx, 50)
	require.NoError(t, err)
	var found bool
	for _, r := range recent {
		if r.SourceURL == p.SourceURL {
			found = true
			assert.Equal(t, []string{"Go"}, r.Skills)
			assert.Equal(t, []string{}, r.Requirements)
		}
	}
	assert.True(t, found)
}
