package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"polysynth/domain/core"
	"polysynth/ports"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// catalogRepository implements the CatalogRepository interface
type catalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *sqlx.DB) ports.CatalogRepository {
	return &catalogRepository{db: db}
}

// Register inserts a dataset variant, replacing an earlier entry of the same name
func (r *catalogRepository) Register(ctx context.Context, entry ports.CatalogEntry) error {
	metadataJSON, err := json.Marshal(entry.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	query := `INSERT INTO synthetic_datasets (
		name, run_id, execution_id, target_policy, categorical_profile,
		row_count, dataset_path, cat_cols, num_cols, metadata
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
	)
	ON CONFLICT (name) DO UPDATE SET
		run_id = EXCLUDED.run_id,
		execution_id = EXCLUDED.execution_id,
		row_count = EXCLUDED.row_count,
		dataset_path = EXCLUDED.dataset_path,
		cat_cols = EXCLUDED.cat_cols,
		num_cols = EXCLUDED.num_cols,
		metadata = EXCLUDED.metadata,
		registered_at = NOW()`

	_, err = r.db.ExecContext(ctx, query,
		entry.Name, entry.RunID, entry.ExecutionID, entry.TargetPolicy, entry.CategoricalProfile,
		entry.RowCount, entry.DatasetPath, pq.Array(entry.Metadata.CatCols), pq.Array(entry.Metadata.NumCols),
		metadataJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to register dataset %s: %w", entry.Name, err)
	}

	return nil
}

// catalogRow is a synthetic_datasets row; metadata stays raw JSONB until decoded
type catalogRow struct {
	ports.CatalogEntry
	MetadataJSON []byte `db:"metadata"`
}

// ListByExecution returns the datasets of one execution ordered by name
func (r *catalogRepository) ListByExecution(ctx context.Context, execID core.ExecutionID) ([]ports.CatalogEntry, error) {
	var rows []catalogRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT name, run_id, execution_id, target_policy, categorical_profile,
		       row_count, dataset_path, metadata
		FROM synthetic_datasets
		WHERE execution_id = $1
		ORDER BY name
	`, execID)
	if err != nil {
		return nil, fmt.Errorf("failed to query datasets: %w", err)
	}

	entries := make([]ports.CatalogEntry, 0, len(rows))
	for _, row := range rows {
		entry := row.CatalogEntry
		if len(row.MetadataJSON) > 0 {
			if err := json.Unmarshal(row.MetadataJSON, &entry.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal metadata of %s: %w", entry.Name, err)
			}
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
