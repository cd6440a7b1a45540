package ports

import (
	"context"

	"polysynth/domain/dataset"
	"polysynth/domain/run"
)

// StoredArtifact reports where a variant's files were written
type StoredArtifact struct {
	DatasetPath  string `json:"dataset_path"`
	MetadataPath string `json:"metadata_path"`
}

// ArtifactRepository persists generated datasets, their metadata and run manifests
type ArtifactRepository interface {
	SaveVariant(ctx context.Context, table *dataset.Table, metadata dataset.Metadata) (StoredArtifact, error)
	SaveManifest(ctx context.Context, manifest *run.Manifest) (string, error)
}
