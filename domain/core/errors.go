package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Configuration errors
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrNoTargets     = fmt.Errorf("%w: no target policy enabled", ErrInvalidConfig)
	ErrNoProfiles    = fmt.Errorf("%w: no categorical profile enabled", ErrInvalidConfig)

	// Generation errors
	ErrBalanceViolation     = errors.New("target balance invariant violated")
	ErrCardinality          = errors.New("invalid categorical cardinality")
	ErrNoCandidateColumns   = fmt.Errorf("%w: no candidate columns", ErrCardinality)
	ErrDegeneratePolynomial = errors.New("dependent column cannot be split")

	// Validation errors
	ErrValidation = errors.New("validation failed")

	// Table errors
	ErrColumnNotFound   = errors.New("column not found")
	ErrColumnKind       = errors.New("unexpected column kind")
	ErrRowCountMismatch = errors.New("row count mismatch")
)

// Error constructors with context
func NewValidationError(field string, reason string) error {
	return fmt.Errorf("%w for %s: %s", ErrValidation, field, reason)
}

func NewBalanceError(policy string, positives, negatives int) error {
	return fmt.Errorf("%w: %s split produced %d true / %d false", ErrBalanceViolation, policy, positives, negatives)
}

func NewCardinalityError(profile string, cardinality int) error {
	return fmt.Errorf("%w: profile %s requested cardinality %d", ErrCardinality, profile, cardinality)
}

func NewColumnNotFoundError(name string) error {
	return fmt.Errorf("%w: %s", ErrColumnNotFound, name)
}

// IsRunFatal reports whether err must abort the whole run rather than a single variant.
func IsRunFatal(err error) bool {
	return errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrBalanceViolation) ||
		errors.Is(err, ErrDegeneratePolynomial)
}
