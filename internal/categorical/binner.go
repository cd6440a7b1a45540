// Package categorical converts numeric columns into rank-bucketed categorical labels.
package categorical

import (
	"fmt"
	"math"
	"slices"

	"polysynth/domain/core"
	"polysynth/domain/dataset"
	"polysynth/internal/errors"
)

// DefaultFraction is the share of candidate columns converted when a profile asks for categories
const DefaultFraction = 0.3

// LabelPrefix prefixes every category label; groups are numbered from 1
const LabelPrefix = "cat_inst_"

// Binner converts the leading share of candidate columns into categorical columns
type Binner struct {
	fraction float64
}

// NewBinner creates a binner converting max(1, floor(len(candidates) * fraction)) columns
func NewBinner(fraction float64) *Binner {
	return &Binner{fraction: fraction}
}

// ColumnsToConvert returns the prefix of candidates a conversion applies to
func (b *Binner) ColumnsToConvert(candidates []string) []string {
	n := int(math.Floor(float64(len(candidates)) * b.fraction))
	n = max(1, min(n, len(candidates)))
	return slices.Clone(candidates[:n])
}

// ApplyCardinality returns a copy of table in which the chosen candidate
// columns hold category labels, together with the names of those columns.
// cardinality 0 leaves the table as it is and converts nothing.
func (b *Binner) ApplyCardinality(table *dataset.Table, candidates []string, cardinality int) (*dataset.Table, []string, error) {
	if cardinality == 0 {
		return table, []string{}, nil
	}
	if cardinality < 0 {
		return nil, nil, errors.CardinalityInvalid(fmt.Errorf("%w: %d", core.ErrCardinality, cardinality))
	}
	if len(candidates) == 0 {
		return nil, nil, errors.CardinalityInvalid(core.ErrNoCandidateColumns)
	}

	chosen := b.ColumnsToConvert(candidates)
	out := table.Clone()
	for _, name := range chosen {
		values, err := out.NumericValues(name)
		if err != nil {
			return nil, nil, errors.CardinalityInvalid(err)
		}
		if err := out.Replace(dataset.CategoricalColumn(name, Bin(values, cardinality))); err != nil {
			return nil, nil, err
		}
	}
	return out, chosen, nil
}

// Bin labels values by consecutive rank. Values are walked in descending
// order in groups of max(1, floor(n/cardinality)); the group number advances
// after each full group and stops at cardinality, so the last group absorbs
// the remainder. Equal values share one label: the one assigned to their
// last (lowest-ranked) occurrence in the walk.
func Bin(values []float64, cardinality int) []string {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	slices.Reverse(sorted)

	groupSize := max(1, len(sorted)/cardinality)
	labels := make(map[float64]string, len(sorted))
	group, filled := 1, 0
	for _, v := range sorted {
		labels[v] = Label(group)
		filled++
		if filled == groupSize && group < cardinality {
			group++
			filled = 0
		}
	}

	out := make([]string, len(values))
	for i, v := range values {
		out[i] = labels[v]
	}
	return out
}

// Label returns the category label of the 1-based group
func Label(group int) string {
	return fmt.Sprintf("%s%d", LabelPrefix, group)
}
