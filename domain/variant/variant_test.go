package variant

import (
	"testing"

	"polysynth/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnumerate_FullCrossProduct(t *testing.T) {
	variants, err := Enumerate(TargetPolicies, CategoricalProfiles)
	require.NoError(t, err)

	expected := []Variant{
		{Linear, NoCategorical},
		{Linear, HighCardinality},
		{Linear, LowCardinality},
		{Linear, Binary},
		{NonLinear, NoCategorical},
		{NonLinear, HighCardinality},
		{NonLinear, LowCardinality},
		{NonLinear, Binary},
	}
	assert.Equal(t, expected, variants)

	seen := make(map[Variant]bool)
	for _, v := range variants {
		assert.False(t, seen[v], "duplicate variant %s", v)
		seen[v] = true
	}
}

func TestEnumerate_IgnoresInputOrderAndDuplicates(t *testing.T) {
	variants, err := Enumerate(
		[]TargetPolicy{NonLinear, Linear, NonLinear},
		[]CategoricalProfile{Binary, NoCategorical, Binary},
	)
	require.NoError(t, err)

	assert.Equal(t, []Variant{
		{Linear, NoCategorical},
		{Linear, Binary},
		{NonLinear, NoCategorical},
		{NonLinear, Binary},
	}, variants)
}

func TestEnumerate_Subsets(t *testing.T) {
	variants, err := Enumerate([]TargetPolicy{NonLinear}, []CategoricalProfile{LowCardinality})
	require.NoError(t, err)
	assert.Equal(t, []Variant{{NonLinear, LowCardinality}}, variants)
}

func TestEnumerate_EmptySets(t *testing.T) {
	_, err := Enumerate(nil, CategoricalProfiles)
	assert.ErrorIs(t, err, core.ErrNoTargets)
	assert.ErrorIs(t, err, core.ErrInvalidConfig)

	_, err = Enumerate(TargetPolicies, nil)
	assert.ErrorIs(t, err, core.ErrNoProfiles)
}

func TestVariantName(t *testing.T) {
	v := Variant{Target: NonLinear, Profile: HighCardinality}
	assert.Equal(t,
		"synthetic_poly_20240307090502_non_linear_high_cardinality",
		v.Name("synthetic_poly", core.ExecutionID("20240307090502")),
	)

	none := Variant{Target: Linear, Profile: NoCategorical}
	assert.Equal(t,
		"ds_1_linear_no_categorical_attributes",
		none.Name("ds", core.ExecutionID("1")),
	)
}

func TestGranularity(t *testing.T) {
	assert.Equal(t, 2, Linear.Granularity())
	assert.Equal(t, 4, NonLinear.Granularity())
}
