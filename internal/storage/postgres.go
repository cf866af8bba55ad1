// Package storage persists emitted job postings in Postgres.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"jobsight/internal/config"
	"jobsight/internal/logging"
	"jobsight/pkg/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS job_postings (
	id           BIGSERIAL PRIMARY KEY,
	source_url   TEXT NOT NULL UNIQUE,
	title        TEXT,
	company      TEXT,
	location     TEXT,
	description  TEXT,
	requirements JSONB NOT NULL DEFAULT '[]'::jsonb,
	skills       JSONB NOT NULL DEFAULT '[]'::jsonb,
	extracted_at TIMESTAMPTZ NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Repository stores postings, one row per source URL
type Repository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// Connect opens and verifies a pool for cfg.Postgres.DSN
func Connect(ctx context.Context, cfg *config.Config) (*Repository, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}
	if cfg.Postgres.MaxConns > 0 {
		poolCfg.MaxConns = cfg.Postgres.MaxConns
	}
	poolCfg.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.NewWithConfig: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	return &Repository{
		pool:   pool,
		logger: logging.GetGlobalLogger().WithField("component", "storage"),
	}, nil
}

// Migrate creates the postings table when missing
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate job_postings: %w", err)
	}
	return nil
}

// Ping checks the pool
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *Repository) Close() {
	if r.pool != nil {
		r.pool.Close()
	}
}

// Notify stores posting unless a row with the same source URL exists
func (r *Repository) Notify(ctx context.Context, posting *models.JobPosting) error {
	inserted, err := r.Insert(ctx, posting)
	if err != nil {
		return err
	}
	if !inserted {
		r.logger.Debug("Posting already stored", map[string]interface{}{"url": posting.SourceURL})
	}
	return nil
}

// Insert reports whether a new row was written
func (r *Repository) Insert(ctx context.Context, posting *models.JobPosting) (bool, error) {
	requirements, err := json.Marshal(nonNil(posting.Requirements))
	if err != nil {
		return false, err
	}
	skills, err := json.Marshal(nonNil(posting.Skills))
	if err != nil {
		return false, err
	}

	tag, err := r.pool.Exec(ctx,
		`INSERT INTO job_postings (source_url, title, company, location, description, requirements, skills, extracted_at)
		 SELECT $1, $2, $3, $4, $5, $6::jsonb, $7::jsonb, $8
		 WHERE NOT EXISTS (
		   SELECT 1 FROM job_postings WHERE source_url = $1
		 )`,
		posting.SourceURL, posting.Title, posting.Company, posting.Location, posting.Description,
		string(requirements), string(skills), posting.ExtractedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert job posting: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Recent returns up to limit postings, newest first
func (r *Repository) Recent(ctx context.Context, limit int) ([]models.JobPosting, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT source_url, title, company, location, description, requirements, skills, extracted_at
		 FROM job_postings
		 ORDER BY extracted_at DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query job postings: %w", err)
	}
	defer rows.Close()

	var out []models.JobPosting
	for rows.Next() {
		var (
			p                  models.JobPosting
			requirements, skls []byte
		)
		if err := rows.Scan(&p.SourceURL, &p.Title, &p.Company, &p.Location, &p.Description,
			&requirements, &skls, &p.ExtractedAt); err != nil {
			return nil, fmt.Errorf("scan job posting: %w", err)
		}
		if err := json.Unmarshal(requirements, &p.Requirements); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(skls, &p.Skills); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
