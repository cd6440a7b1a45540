package run

import (
	"polysynth/domain/core"
)

// CodeVersion is recorded in every fingerprint so replays across releases are detectable
const CodeVersion = "0.3.0"

// RunFingerprint ensures deterministic replay
type RunFingerprint struct {
	PolynomialHash core.Hash `json:"polynomial_hash"`
	Seed           uint64    `json:"seed"`
	Rows           int       `json:"rows"`
	CodeVersion    string    `json:"code_version"`
	Fingerprint    core.Hash `json:"fingerprint"` // Hash of all above
}

// NewRunFingerprint creates a fingerprint from determinism parameters
func NewRunFingerprint(polynomialHash core.Hash, seed uint64, rows int, codeVersion string) RunFingerprint {
	return RunFingerprint{
		PolynomialHash: polynomialHash,
		Seed:           seed,
		Rows:           rows,
		CodeVersion:    codeVersion,
		Fingerprint:    core.ComputeFingerprint(polynomialHash, seed, rows, codeVersion),
	}
}

// VariantStatus is the outcome of materializing one variant
type VariantStatus string

const (
	StatusWritten VariantStatus = "written"
	StatusFailed  VariantStatus = "failed"
)

// VariantRecord captures what happened to one variant of the run
type VariantRecord struct {
	Name               string        `json:"name"`
	TargetPolicy       string        `json:"target_policy"`
	CategoricalProfile string        `json:"categorical_profile"`
	Cardinality        int           `json:"cardinality"`
	CategoricalColumns []string      `json:"categorical_columns"`
	NumericColumns     []string      `json:"numeric_columns"`
	DatasetPath        string        `json:"dataset_path,omitempty"`
	MetadataPath       string        `json:"metadata_path,omitempty"`
	Status             VariantStatus `json:"status"`
	Error              string        `json:"error,omitempty"`
}
