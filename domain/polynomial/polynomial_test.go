package polynomial

import (
	"math"
	"testing"

	"polysynth/adapters/rng"
	"polysynth/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSource replays fixed draws so tests can assert exact shapes.
type scriptedSource struct {
	ints    []int
	floats  []float64
	columns [][]float64
}

func (s *scriptedSource) IntRange(min, max int) int {
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v
}

func (s *scriptedSource) Uniform(min, max float64) float64 {
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scriptedSource) UnitColumn(n int) []float64 {
	v := s.columns[0]
	s.columns = s.columns[1:]
	return v
}

func TestDefine_UsesDrawsInOrder(t *testing.T) {
	src := &scriptedSource{ints: []int{3, 2}, floats: []float64{1.5, -4}}

	spec := Define(src, Bounds{MinVars: 1, MaxVars: 5, MaxTerms: 4, MinCoef: -10, MaxCoef: 10})

	assert.Equal(t, 3, spec.NumVars)
	assert.Equal(t, 2, spec.NumTerms)
	assert.Equal(t, []float64{1.5, -4}, spec.Coefficients)
}

func TestDefine_RespectsBounds(t *testing.T) {
	src := rng.NewSampler(5)
	bounds := Bounds{MinVars: 5, MaxVars: 34, MaxTerms: 13, MinCoef: -10, MaxCoef: 10}

	for i := 0; i < 500; i++ {
		spec := Define(src, bounds)
		require.GreaterOrEqual(t, spec.NumVars, 5)
		require.LessOrEqual(t, spec.NumVars, 34)
		require.GreaterOrEqual(t, spec.NumTerms, 1)
		require.LessOrEqual(t, spec.NumTerms, 13)
		require.Len(t, spec.Coefficients, spec.NumTerms)
		for _, c := range spec.Coefficients {
			require.GreaterOrEqual(t, c, -10.0)
			require.Less(t, c, 10.0)
		}
	}
}

func TestBuild_ExpressionAndVariables(t *testing.T) {
	src := &scriptedSource{ints: []int{2, 0, 1, 3}}
	spec := Spec{NumVars: 2, NumTerms: 2, Coefficients: []float64{1.5, -2}}

	p := Build(src, spec, 0, 3)

	assert.Equal(t, []string{"v1", "v2"}, p.Variables())
	assert.Equal(t, 2, p.NumTerms())
	assert.Equal(t, "1.5 * (v1**2) * (v2**0) + -2 * (v1**1) * (v2**3)", p.Expression())
}

func TestBuild_ExponentsWithinDegreeRange(t *testing.T) {
	src := rng.NewSampler(8)
	spec := Spec{NumVars: 6, NumTerms: 10, Coefficients: make([]float64, 10)}

	p := Build(src, spec, 2, 4)
	for _, term := range p.Terms() {
		require.Len(t, term.Exponents, 6)
		for _, e := range term.Exponents {
			assert.GreaterOrEqual(t, e, 2)
			assert.LessOrEqual(t, e, 4)
		}
	}
}

func TestEvaluate_DirectArithmetic(t *testing.T) {
	p, err := New(2, []Term{
		{Coefficient: 1.5, Exponents: []int{2, 0}},
		{Coefficient: -2, Exponents: []int{1, 3}},
	})
	require.NoError(t, err)

	v1 := []float64{0.5, 0, 0.9}
	v2 := []float64{0.2, 0.7, 0}
	got, err := p.Evaluate([][]float64{v1, v2})
	require.NoError(t, err)

	for i := range v1 {
		want := 1.5*math.Pow(v1[i], 2) - 2*v1[i]*math.Pow(v2[i], 3)
		assert.InDelta(t, want, got[i], 1e-12, "row %d", i)
	}
}

func TestEvaluate_ZeroExponentIsOne(t *testing.T) {
	p, err := New(1, []Term{{Coefficient: 3, Exponents: []int{0}}})
	require.NoError(t, err)

	got, err := p.Evaluate([][]float64{{0, 0.25}})
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 3}, got)
}

func TestEvaluate_RejectsShapeMismatch(t *testing.T) {
	p, err := New(2, []Term{{Coefficient: 1, Exponents: []int{1, 1}}})
	require.NoError(t, err)

	_, err = p.Evaluate([][]float64{{0.1}})
	assert.Error(t, err)

	_, err = p.Evaluate([][]float64{{0.1, 0.2}, {0.3}})
	assert.Error(t, err)
}

func TestNew_Validation(t *testing.T) {
	_, err := New(0, []Term{{Coefficient: 1}})
	assert.Error(t, err)

	_, err = New(1, nil)
	assert.Error(t, err)

	_, err = New(2, []Term{{Coefficient: 1, Exponents: []int{1}}})
	assert.Error(t, err)
}

func TestDraw_SampleTable(t *testing.T) {
	p, err := New(3, []Term{{Coefficient: 2, Exponents: []int{1, 1, 0}}})
	require.NoError(t, err)

	sample, err := Draw(rng.NewSampler(21), p, 50)
	require.NoError(t, err)
	assert.Equal(t, 50, sample.Rows())

	table, err := sample.Table()
	require.NoError(t, err)
	assert.Equal(t, []string{"v1", "v2", "v3", dataset.DependentColumn}, table.Names())
	assert.Equal(t, 50, table.Rows())

	dep, err := table.NumericValues(dataset.DependentColumn)
	require.NoError(t, err)
	for i := range dep {
		assert.InDelta(t, 2*sample.Values[0][i]*sample.Values[1][i], dep[i], 1e-12)
	}
}
