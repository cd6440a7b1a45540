package run

import (
	"polysynth/domain/core"
)

// Manifest is the audit record of one generation run: the polynomial that was
// drawn, how to replay it, and the fate of every variant.
type Manifest struct {
	RunID          core.RunID       `json:"run_id"`
	ExecutionID    core.ExecutionID `json:"execution_id"`
	BaseName       string           `json:"base_name"`
	Rows           int              `json:"rows"`
	NumVars        int              `json:"num_vars"`
	NumTerms       int              `json:"num_terms"`
	Expression     string           `json:"expression"`
	PolynomialHash core.Hash        `json:"polynomial_hash"`
	Fingerprint    RunFingerprint   `json:"fingerprint"`
	Variants       []VariantRecord  `json:"variants"`
	CreatedAt      core.Timestamp   `json:"created_at"`
}

// NewManifest creates the manifest for a run once its polynomial is known
func NewManifest(
	runID core.RunID,
	execID core.ExecutionID,
	baseName string,
	rows int,
	numVars int,
	numTerms int,
	expression string,
	seed uint64,
) *Manifest {
	polynomialHash := core.NewHash([]byte(expression))
	return &Manifest{
		RunID:          runID,
		ExecutionID:    execID,
		BaseName:       baseName,
		Rows:           rows,
		NumVars:        numVars,
		NumTerms:       numTerms,
		Expression:     expression,
		PolynomialHash: polynomialHash,
		Fingerprint:    NewRunFingerprint(polynomialHash, seed, rows, CodeVersion),
		Variants:       []VariantRecord{},
		CreatedAt:      core.Now(),
	}
}

// Record appends the outcome of one variant
func (m *Manifest) Record(rec VariantRecord) {
	m.Variants = append(m.Variants, rec)
}

// Failed returns the variants that could not be materialized
func (m *Manifest) Failed() []VariantRecord {
	var failed []VariantRecord
	for _, v := range m.Variants {
		if v.Status == StatusFailed {
			failed = append(failed, v)
		}
	}
	return failed
}

// Validate checks if the manifest is complete
func (m *Manifest) Validate() error {
	if core.ID(m.RunID).IsEmpty() {
		return core.NewValidationError("run_manifest", "run_id cannot be empty")
	}
	if m.ExecutionID == "" {
		return core.NewValidationError("run_manifest", "execution_id cannot be empty")
	}
	if m.Expression == "" {
		return core.NewValidationError("run_manifest", "expression cannot be empty")
	}
	if m.Rows <= 0 {
		return core.NewValidationError("run_manifest", "rows must be > 0")
	}
	return nil
}
