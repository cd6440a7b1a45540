// Package target turns the continuous dependent column into a balanced binary label.
package target

import (
	"fmt"
	"slices"

	"polysynth/domain/core"
	"polysynth/domain/dataset"
	"polysynth/domain/variant"
	"polysynth/internal/errors"
)

// Derive applies policy to table and returns a new table in which the
// dependent column is replaced by the boolean target column. The input is
// not modified.
func Derive(table *dataset.Table, policy variant.TargetPolicy) (*dataset.Table, error) {
	switch policy {
	case variant.Linear:
		return Linear(table)
	case variant.NonLinear:
		return NonLinear(table)
	default:
		return nil, errors.InternalError(fmt.Sprintf("unknown target policy %s", policy))
	}
}

// Linear labels rows whose dependent value is among the upper half of
// sorted values true. Membership is by value, so duplicates of a boundary
// value all land on the same side.
func Linear(table *dataset.Table) (*dataset.Table, error) {
	values, err := table.NumericValues(dataset.DependentColumn)
	if err != nil {
		return nil, err
	}

	sorted := sortedDescending(values)
	positives := valueSet(sorted[:len(sorted)/2])

	return label(table, variant.Linear, values, positives)
}

// NonLinear labels the top and the bottom quarter of sorted values true and
// the middle band false.
func NonLinear(table *dataset.Table) (*dataset.Table, error) {
	values, err := table.NumericValues(dataset.DependentColumn)
	if err != nil {
		return nil, err
	}

	sorted := sortedDescending(values)
	quarter := len(sorted) / 4
	positives := valueSet(sorted[:quarter])
	for _, v := range sorted[len(sorted)-quarter:] {
		positives[v] = struct{}{}
	}

	return label(table, variant.NonLinear, values, positives)
}

// CheckBalance fails unless the two classes have equal counts. When the row
// count is not a multiple of the policy's granularity the classes may differ
// by at most rows mod granularity.
func CheckBalance(labels []bool, policy variant.TargetPolicy) error {
	positives := 0
	for _, l := range labels {
		if l {
			positives++
		}
	}
	negatives := len(labels) - positives

	diff := positives - negatives
	if diff < 0 {
		diff = -diff
	}
	if diff > len(labels)%policy.Granularity() {
		return errors.BalanceViolation(core.NewBalanceError(policy.String(), positives, negatives))
	}
	return nil
}

func label(table *dataset.Table, policy variant.TargetPolicy, values []float64, positives map[float64]struct{}) (*dataset.Table, error) {
	labels := make([]bool, len(values))
	for i, v := range values {
		_, labels[i] = positives[v]
	}

	if err := CheckBalance(labels, policy); err != nil {
		return nil, err
	}

	out := table.Clone()
	if err := out.Drop(dataset.DependentColumn); err != nil {
		return nil, err
	}
	if err := out.Append(dataset.BooleanColumn(dataset.TargetColumn, labels)); err != nil {
		return nil, err
	}
	return out, nil
}

func sortedDescending(values []float64) []float64 {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	slices.Reverse(sorted)
	return sorted
}

func valueSet(values []float64) map[float64]struct{} {
	set := make(map[float64]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
