package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"contentradar/internal/config"
	"contentradar/internal/model"
)

// Archive persists finished runs into Postgres. A nil receiver or nil db is
// a no-op, so callers never have to check whether archiving is configured.
type Archive struct {
	db *sql.DB
}

// Open connects to Postgres per config. An empty host disables archiving and
// yields a no-op archive.
func Open(cfg config.DBConfig) (*Archive, error) {
	if cfg.Host == "" {
		return &Archive{}, nil
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	archive := &Archive{db: db}
	if err := archive.migrate(); err != nil {
		return nil, err
	}
	return archive, nil
}

// Close releases the connection pool.
func (a *Archive) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}

// Enabled reports whether runs actually reach a database.
func (a *Archive) Enabled() bool {
	return a != nil && a.db != nil
}

func (a *Archive) migrate() error {
	query := `CREATE TABLE IF NOT EXISTS pipeline_runs (
		id UUID PRIMARY KEY,
		kind TEXT NOT NULL,
		payload JSONB NOT NULL,
		warnings TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`
	if _, err := a.db.Exec(query); err != nil {
		return fmt.Errorf("create pipeline_runs: %w", err)
	}
	return nil
}

// SaveIdeaRun archives one idea-pipeline run.
func (a *Archive) SaveIdeaRun(ctx context.Context, run model.IdeaRunResult) error {
	return a.save(ctx, run.RunID, "ideas", run, run.Warnings)
}

// SaveContentRun archives one content-pipeline run.
func (a *Archive) SaveContentRun(ctx context.Context, run model.ContentRunResult) error {
	return a.save(ctx, run.RunID, "content", run, run.Warnings)
}

func (a *Archive) save(ctx context.Context, runID, kind string, payload any, warnings []string) error {
	if !a.Enabled() {
		return nil
	}
	if runID == "" {
		runID = uuid.NewString()
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal run payload: %w", err)
	}
	if warnings == nil {
		warnings = []string{}
	}

	query := `INSERT INTO pipeline_runs (id, kind, payload, warnings, created_at)
              VALUES ($1, $2, $3, $4, $5)
              ON CONFLICT (id) DO UPDATE
              SET payload = EXCLUDED.payload,
                  warnings = EXCLUDED.warnings`

	if _, err := a.db.ExecContext(ctx, query, runID, kind, data, pq.StringArray(warnings), time.Now()); err != nil {
		return fmt.Errorf("insert run %s: %w", runID, err)
	}
	return nil
}
