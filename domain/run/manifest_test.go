package run

import (
	"errors"
	"testing"

	"polysynth/domain/core"
)

func TestRunFingerprint_Deterministic(t *testing.T) {
	polyHash := core.Hash("test-polynomial")

	fp1 := NewRunFingerprint(polyHash, 42, 3000, "1.0.0")
	fp2 := NewRunFingerprint(polyHash, 42, 3000, "1.0.0")

	if fp1.Fingerprint != fp2.Fingerprint {
		t.Errorf("Fingerprints not identical: %s vs %s", fp1.Fingerprint, fp2.Fingerprint)
	}
	if fp1.Seed != 42 || fp1.Rows != 3000 || fp1.PolynomialHash != polyHash {
		t.Errorf("Fingerprint does not carry its parameters: %+v", fp1)
	}
	if want := core.ComputeFingerprint(polyHash, uint64(42), 3000, "1.0.0"); fp1.Fingerprint != want {
		t.Errorf("Fingerprint = %s, want %s", fp1.Fingerprint, want)
	}
}

func TestRunFingerprint_Unique(t *testing.T) {
	base := NewRunFingerprint(core.Hash("poly"), 42, 3000, "1.0.0")

	testCases := []struct {
		name string
		fp   RunFingerprint
	}{
		{"different polynomial", NewRunFingerprint(core.Hash("other"), 42, 3000, "1.0.0")},
		{"different seed", NewRunFingerprint(core.Hash("poly"), 43, 3000, "1.0.0")},
		{"different rows", NewRunFingerprint(core.Hash("poly"), 42, 3001, "1.0.0")},
		{"different code", NewRunFingerprint(core.Hash("poly"), 42, 3000, "1.0.1")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.fp.Fingerprint == base.Fingerprint {
				t.Errorf("Fingerprint should be different for %s", tc.name)
			}
		})
	}
}

func TestManifest_Complete(t *testing.T) {
	manifest := NewManifest(
		core.RunID("test-run"),
		core.ExecutionID("20240307090502"),
		"synthetic_poly",
		3000, 5, 2,
		"1.5 * (v1**2) * (v2**0)",
		42,
	)

	if manifest.PolynomialHash != core.NewHash([]byte("1.5 * (v1**2) * (v2**0)")) {
		t.Errorf("PolynomialHash not computed from expression")
	}
	if manifest.Fingerprint.Fingerprint == "" {
		t.Errorf("Fingerprint not computed")
	}
	if err := manifest.Validate(); err != nil {
		t.Errorf("Manifest validation failed: %v", err)
	}

	manifest.Record(VariantRecord{Name: "a", Status: StatusWritten})
	manifest.Record(VariantRecord{Name: "b", Status: StatusFailed, Error: "cardinality"})

	failed := manifest.Failed()
	if len(failed) != 1 || failed[0].Name != "b" {
		t.Errorf("expected only variant b to be failed, got %+v", failed)
	}
}

func TestManifest_ValidateRejectsIncomplete(t *testing.T) {
	manifest := NewManifest("", "20240307090502", "x", 10, 1, 1, "1 * (v1**1)", 1)
	if err := manifest.Validate(); !errors.Is(err, core.ErrValidation) {
		t.Errorf("expected validation error for empty run id, got %v", err)
	}

	manifest = NewManifest("run", "20240307090502", "x", 0, 1, 1, "1 * (v1**1)", 1)
	if err := manifest.Validate(); err == nil {
		t.Error("expected validation error for zero rows")
	}
}
