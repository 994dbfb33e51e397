package algebra_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reachgraph/reachdag/algebra"
	"github.com/reachgraph/reachdag/core"
)

func TestPointAlgebra(t *testing.T) {
	a := algebra.PointAlgebra{}
	assert.InDelta(t, float64(0.72), float64(a.And(0.9, 0.8)), 1e-9)
	assert.InDelta(t, float64(1.7), float64(a.Sum(0.9, 0.8)), 1e-9)
	assert.InDelta(t, float64(0.1), float64(a.Sub(0.9, 0.8)), 1e-9)
	assert.InDelta(t, float64(0.1), float64(a.Complement(0.9)), 1e-9)
	require.NoError(t, a.Validate(0.5))
	require.Error(t, a.Validate(1.5))
	assert.True(t, errors.Is(a.Validate(-0.1), core.ErrOutOfRange))
	assert.True(t, a.IsDeterministic(0))
	assert.True(t, a.IsDeterministic(1))
	assert.False(t, a.IsDeterministic(0.5))
}

func TestIntervalAlgebra_And_CornerProducts(t *testing.T) {
	a := algebra.IntervalAlgebra{}
	// [0.8,0.9] ⊗ [0.8,0.9]: corners are 0.64,0.72,0.72,0.81
	got := a.And(algebra.NewInterval(0.8, 0.9), algebra.NewInterval(0.8, 0.9))
	assert.InDelta(t, 0.64, got.Lo, 1e-9)
	assert.InDelta(t, 0.81, got.Hi, 1e-9)
}

func TestIntervalAlgebra_Sum_Clamped(t *testing.T) {
	a := algebra.IntervalAlgebra{}
	got := a.Sum(algebra.NewInterval(0.6, 0.7), algebra.NewInterval(0.6, 0.7))
	assert.Equal(t, 1.0, got.Hi) // 1.4 clamps to 1
}

func TestIntervalAlgebra_Validate(t *testing.T) {
	a := algebra.IntervalAlgebra{}
	require.NoError(t, a.Validate(algebra.NewInterval(0.2, 0.8)))
	assert.True(t, errors.Is(a.Validate(algebra.NewInterval(0.9, 0.1)), core.ErrOutOfRange))
}

func TestSliceAlgebra_AndAndConsolidate(t *testing.T) {
	a := algebra.SliceAlgebra{Tolerance: 1e-6}
	x := algebra.Slice{{Value: 1, Weight: 0.5}, {Value: 0, Weight: 0.5}}
	y := algebra.Slice{{Value: 1, Weight: 0.5}, {Value: 0, Weight: 0.5}}
	got := a.And(x, y)
	require.NoError(t, a.Validate(got))

	var mass1, mass0 float64
	for _, atom := range got {
		switch {
		case atom.Value > 0.99:
			mass1 += atom.Weight
		case atom.Value < 0.01:
			mass0 += atom.Weight
		}
	}
	assert.InDelta(t, 0.25, mass1, 1e-9)
	assert.InDelta(t, 0.75, mass0, 1e-9)
}

func TestSliceAlgebra_Validate_BadWeights(t *testing.T) {
	a := algebra.SliceAlgebra{Tolerance: 1e-6}
	bad := algebra.Slice{{Value: 0.5, Weight: 0.4}}
	assert.True(t, errors.Is(a.Validate(bad), core.ErrOutOfRange))
}

func TestSliceAlgebra_Mean(t *testing.T) {
	s := algebra.Slice{{Value: 1, Weight: 0.3}, {Value: 0, Weight: 0.7}}
	assert.InDelta(t, 0.3, s.Mean(), 1e-9)
}
