package migration

import (
	"context"

	"polysynth/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles the dataset catalog schema
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
	if err := r.createSyntheticDatasetsTable(ctx, db); err != nil {
		return errors.DatabaseError("failed to create synthetic_datasets table", err)
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.DatabaseError("failed to create indexes", err)
	}

	return nil
}

func (r *MigrationRunner) createSyntheticDatasetsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS synthetic_datasets (
			name VARCHAR(255) PRIMARY KEY,
			run_id UUID NOT NULL,
			execution_id VARCHAR(32) NOT NULL,
			target_policy VARCHAR(32) NOT NULL,
			categorical_profile VARCHAR(64) NOT NULL,
			row_count INTEGER NOT NULL,
			dataset_path TEXT NOT NULL,
			cat_cols TEXT[] NOT NULL DEFAULT '{}',
			num_cols TEXT[] NOT NULL DEFAULT '{}',
			metadata JSONB NOT NULL,
			registered_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_synthetic_datasets_execution ON synthetic_datasets(execution_id)`,
		`CREATE INDEX IF NOT EXISTS idx_synthetic_datasets_run ON synthetic_datasets(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_synthetic_datasets_variant ON synthetic_datasets(target_policy, categorical_profile)`,
	}

	for _, stmt := range indexes {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
