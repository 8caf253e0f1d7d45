package migration

import (
	"context"

	"github.com/jmoiron/sqlx"

	"fairplay/internal/errors"
)

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createAssessmentsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create assessments table")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	return nil
}

func (r *MigrationRunner) createAssessmentsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS assessments (
			id TEXT PRIMARY KEY,
			game_id TEXT NOT NULL,
			player_id TEXT NOT NULL,
			color VARCHAR(5) NOT NULL,
			verdict SMALLINT NOT NULL,
			high_accuracy BOOLEAN NOT NULL,
			advantage_always_held BOOLEAN NOT NULL,
			high_blur_rate BOOLEAN NOT NULL,
			moderate_blur_rate BOOLEAN NOT NULL,
			highly_consistent_mt BOOLEAN NOT NULL,
			moderately_consistent_mt BOOLEAN NOT NULL,
			no_fast_moves BOOLEAN NOT NULL,
			suspicious_hold_alert BOOLEAN NOT NULL,
			mt_avg DOUBLE PRECISION NOT NULL,
			mt_sd DOUBLE PRECISION NOT NULL,
			mt_samples INTEGER NOT NULL,
			cp_avg DOUBLE PRECISION NOT NULL,
			cp_sd DOUBLE PRECISION NOT NULL,
			cp_samples INTEGER NOT NULL,
			tc_factor DOUBLE PRECISION NOT NULL,
			blur_streak INTEGER,
			move_time_streak BOOLEAN NOT NULL DEFAULT false,
			assessed_at TIMESTAMP WITH TIME ZONE NOT NULL,
			UNIQUE (game_id, color)
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_assessments_player ON assessments(player_id, assessed_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_assessments_verdict ON assessments(verdict)`,
	}
	for _, idx := range indexes {
		if _, err := db.ExecContext(ctx, idx); err != nil {
			return err
		}
	}
	return nil
}
