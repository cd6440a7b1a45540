package ports

import (
	"context"

	"polysynth/domain/core"
	"polysynth/domain/dataset"
)

// CatalogEntry is one registered dataset variant
type CatalogEntry struct {
	Name               string           `db:"name"`
	RunID              core.RunID       `db:"run_id"`
	ExecutionID        core.ExecutionID `db:"execution_id"`
	TargetPolicy       string           `db:"target_policy"`
	CategoricalProfile string           `db:"categorical_profile"`
	RowCount           int              `db:"row_count"`
	DatasetPath        string           `db:"dataset_path"`
	Metadata           dataset.Metadata `db:"-"`
}

// CatalogRepository records generated datasets so benchmark jobs can discover them
type CatalogRepository interface {
	Register(ctx context.Context, entry CatalogEntry) error
	ListByExecution(ctx context.Context, execID core.ExecutionID) ([]CatalogEntry, error)
}
