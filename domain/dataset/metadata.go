package dataset

import (
	"fmt"
	"slices"
)

// TargetColumn is the name of the binary label in every artifact
const TargetColumn = "target"

// DependentColumn holds the evaluated polynomial before a target policy replaces it
const DependentColumn = "num_target"

// Metadata describes one generated dataset for the benchmark harness that consumes it.
// Field names and JSON keys follow the harness descriptor format.
type Metadata struct {
	DatasetName                     string   `json:"dataset_name"`
	Description                     string   `json:"desc"`
	DatasetSource                   *string  `json:"dataset_source"`
	RelativePathToDataset           string   `json:"relative_path_to_dataset"`
	RelativePathToUnbalancedDataset *string  `json:"relative_path_to_unbalanced_dataset"`
	IDCols                          []string `json:"id_cols"`
	CatCols                         []string `json:"cat_cols"`
	TimeCols                        []string `json:"time_cols"`
	NumCols                         []string `json:"num_cols"`
	IsScaled                        bool     `json:"is_scaled"`
	ColsToDelete                    []string `json:"cols_to_delete"`
	Target                          string   `json:"target"`
	PositiveValue                   bool     `json:"positive_values_are_represented_by"`
}

// NewMetadata builds the descriptor for a dataset. The slices are copied so the
// record does not alias the caller's column lists.
func NewMetadata(name, expression string, catCols, numCols []string) Metadata {
	return Metadata{
		DatasetName:           name,
		Description:           fmt.Sprintf("polynomial expression: %s", expression),
		RelativePathToDataset: fmt.Sprintf("./datasets/%s/train_dataset.csv", name),
		IDCols:                []string{},
		CatCols:               nonNil(catCols),
		TimeCols:              []string{},
		NumCols:               nonNil(numCols),
		IsScaled:              true,
		ColsToDelete:          []string{},
		Target:                TargetColumn,
		PositiveValue:         true,
	}
}

// Validate checks that the record is complete
func (m Metadata) Validate() error {
	if m.DatasetName == "" {
		return fmt.Errorf("metadata: dataset_name cannot be empty")
	}
	if m.Target == "" {
		return fmt.Errorf("metadata: target cannot be empty")
	}
	for _, c := range m.CatCols {
		if slices.Contains(m.NumCols, c) {
			return fmt.Errorf("metadata: column %s listed as both categorical and numeric", c)
		}
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}
