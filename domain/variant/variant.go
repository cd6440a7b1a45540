package variant

import (
	"fmt"
	"slices"
	"strings"

	"polysynth/domain/core"
)

// TargetPolicy selects how the continuous dependent value becomes a binary label
type TargetPolicy int

const (
	// Linear labels the upper half of dependent values true.
	Linear TargetPolicy = iota
	// NonLinear labels the top and bottom quarters true and the middle band false.
	NonLinear
)

// TargetPolicies lists the policies in declaration order
var TargetPolicies = []TargetPolicy{Linear, NonLinear}

func (p TargetPolicy) String() string {
	switch p {
	case Linear:
		return "LINEAR"
	case NonLinear:
		return "NON_LINEAR"
	default:
		return fmt.Sprintf("TARGET_POLICY(%d)", int(p))
	}
}

// Granularity is the number of equal row slices the policy splits on.
// Row counts divisible by it must balance exactly.
func (p TargetPolicy) Granularity() int {
	if p == NonLinear {
		return 4
	}
	return 2
}

// CategoricalProfile names a categorical conversion applied to a dataset
type CategoricalProfile int

const (
	NoCategorical CategoricalProfile = iota
	HighCardinality
	LowCardinality
	Binary
)

// CategoricalProfiles lists the profiles in declaration order
var CategoricalProfiles = []CategoricalProfile{NoCategorical, HighCardinality, LowCardinality, Binary}

func (p CategoricalProfile) String() string {
	switch p {
	case NoCategorical:
		return "NO_CATEGORICAL_ATTRIBUTES"
	case HighCardinality:
		return "HIGH_CARDINALITY"
	case LowCardinality:
		return "LOW_CARDINALITY"
	case Binary:
		return "BINARY"
	default:
		return fmt.Sprintf("CATEGORICAL_PROFILE(%d)", int(p))
	}
}

// Variant is one (target policy, categorical profile) pairing materialized as a dataset
type Variant struct {
	Target  TargetPolicy
	Profile CategoricalProfile
}

func (v Variant) String() string {
	return v.Target.String() + "/" + v.Profile.String()
}

// Name builds the artifact name shared by the dataset file and its metadata.
func (v Variant) Name(baseName string, execID core.ExecutionID) string {
	return fmt.Sprintf("%s_%s_%s_%s",
		baseName,
		execID,
		strings.ToLower(v.Target.String()),
		strings.ToLower(v.Profile.String()),
	)
}

// Enumerate returns the cross product of the enabled policies and profiles,
// targets in the outer loop, both in declaration order. Input order and
// duplicates do not affect the result.
func Enumerate(targets []TargetPolicy, profiles []CategoricalProfile) ([]Variant, error) {
	if len(targets) == 0 {
		return nil, core.ErrNoTargets
	}
	if len(profiles) == 0 {
		return nil, core.ErrNoProfiles
	}

	variants := make([]Variant, 0, len(TargetPolicies)*len(CategoricalProfiles))
	for _, target := range TargetPolicies {
		if !slices.Contains(targets, target) {
			continue
		}
		for _, profile := range CategoricalProfiles {
			if !slices.Contains(profiles, profile) {
				continue
			}
			variants = append(variants, Variant{Target: target, Profile: profile})
		}
	}
	return variants, nil
}
