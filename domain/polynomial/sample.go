package polynomial

import (
	"polysynth/domain/dataset"
)

// Sample is one draw of the independent variables and the dependent value they produce.
type Sample struct {
	Polynomial *Polynomial
	Variables  []string
	Values     [][]float64 // Values[i] holds variable Variables[i]
	Dependent  []float64
}

// Draw samples rows values in [0, 1) for each variable and evaluates p over them.
func Draw(src Source, p *Polynomial, rows int) (*Sample, error) {
	values := make([][]float64, p.NumVars())
	for i := range values {
		values[i] = src.UnitColumn(rows)
	}

	dependent, err := p.Evaluate(values)
	if err != nil {
		return nil, err
	}

	return &Sample{
		Polynomial: p,
		Variables:  p.Variables(),
		Values:     values,
		Dependent:  dependent,
	}, nil
}

// Rows returns the number of sampled rows
func (s *Sample) Rows() int {
	return len(s.Dependent)
}

// Table lays the sample out as v1..vk followed by the dependent column.
func (s *Sample) Table() (*dataset.Table, error) {
	table := dataset.NewTable(s.Rows())
	for i, name := range s.Variables {
		if err := table.Append(dataset.NumericColumn(name, s.Values[i])); err != nil {
			return nil, err
		}
	}
	if err := table.Append(dataset.NumericColumn(dataset.DependentColumn, s.Dependent)); err != nil {
		return nil, err
	}
	return table, nil
}
