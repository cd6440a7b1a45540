package core

import (
	"errors"
	"testing"
	"time"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

func TestNewExecutionID(t *testing.T) {
	at := time.Date(2024, 3, 7, 9, 5, 2, 0, time.UTC)

	if got := NewExecutionID(at, 0); got != "20240307090502" {
		t.Errorf("single run: got %s", got)
	}
	if got := NewExecutionID(at, 3); got != "20240307090502-03" {
		t.Errorf("third run: got %s", got)
	}
}

func TestParseExecutionID(t *testing.T) {
	tests := []struct {
		input    string
		hasError bool
	}{
		{"20240307090502", false},
		{"20240307090502-12", false},
		{"", true},
		{"yesterday", true},
	}

	for _, test := range tests {
		_, err := ParseExecutionID(test.input)
		if test.hasError != (err != nil) {
			t.Errorf("ParseExecutionID(%q): hasError=%v, err=%v", test.input, test.hasError, err)
		}
	}
}

func TestComputeFingerprint(t *testing.T) {
	a := ComputeFingerprint("expr", int64(42), 3000)
	b := ComputeFingerprint("expr", int64(42), 3000)
	c := ComputeFingerprint("expr", int64(43), 3000)

	if a != b {
		t.Errorf("Fingerprints not identical: %s vs %s", a, b)
	}
	if a == c {
		t.Error("Fingerprint should change with the seed")
	}
	if len(a.Short()) != 12 {
		t.Errorf("Short() should return 12 characters, got %q", a.Short())
	}
}

func TestErrorClassification(t *testing.T) {
	if !errors.Is(ErrNoTargets, ErrInvalidConfig) {
		t.Error("ErrNoTargets should be a configuration error")
	}
	if !IsRunFatal(NewBalanceError("linear", 3, 5)) {
		t.Error("balance errors abort the run")
	}
	cardErr := NewCardinalityError("HIGH_CARDINALITY", 0)
	if IsRunFatal(cardErr) {
		t.Error("cardinality errors only fail one variant")
	}
	if !errors.Is(ErrNoCandidateColumns, ErrCardinality) {
		t.Error("ErrNoCandidateColumns should wrap ErrCardinality")
	}
}
