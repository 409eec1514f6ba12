package cardinality_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cayleygraph/shex/cardinality"
)

func TestNewRejectsLowerBoundBiggerMax(t *testing.T) {
	_, err := cardinality.New(3, 1)
	require.Error(t, err)
	var target cardinality.ErrLowerBoundBiggerMax
	require.ErrorAs(t, err, &target)
}

func TestNewAllowsUnboundedMax(t *testing.T) {
	c, err := cardinality.New(5, cardinality.Unbounded)
	require.NoError(t, err)
	assert.True(t, c.Contains(1000))
}

func TestSingletons(t *testing.T) {
	assert.True(t, cardinality.ZeroZero.IsZeroZero())
	assert.True(t, cardinality.OneOne.IsOneOne())
	assert.True(t, cardinality.ZeroOne.IsZeroOne())
	assert.True(t, cardinality.ZeroUnbounded.IsZeroUnbounded())
	assert.True(t, cardinality.OneUnbounded.IsOneUnbounded())
}

func TestNullable(t *testing.T) {
	assert.True(t, cardinality.ZeroOne.Nullable())
	assert.False(t, cardinality.OneOne.Nullable())
}

// ∀ Cardinality c, integer n >= 0: if c.Contains(n) then c.Minus(n) is
// Some and Contains is monotone (spec's testable property).
func TestMinusMonotoneWhenContained(t *testing.T) {
	c := cardinality.MustNew(1, 3)
	for n := 0; n <= 3; n++ {
		if !c.Contains(n) {
			continue
		}
		rest, ok := c.Minus(n)
		require.True(t, ok, "Minus(%d) should succeed when Contains(%d)", n, n)
		assert.GreaterOrEqual(t, rest.Max, 0)
	}
}

func TestMinusFailsPastMax(t *testing.T) {
	c := cardinality.MustNew(0, 2)
	_, ok := c.Minus(3)
	assert.False(t, ok)
}

func TestMinusSaturatesMinAtZero(t *testing.T) {
	c := cardinality.MustNew(3, 5)
	rest, ok := c.Minus(4)
	require.True(t, ok)
	assert.Equal(t, 0, rest.Min)
	assert.Equal(t, 1, rest.Max)
}

func TestMinusUnboundedMaxStaysUnbounded(t *testing.T) {
	rest, ok := cardinality.ZeroUnbounded.Minus(100)
	require.True(t, ok)
	assert.Equal(t, cardinality.Unbounded, rest.Max)
}

func TestStringForms(t *testing.T) {
	assert.Equal(t, "", cardinality.OneOne.String())
	assert.Equal(t, "?", cardinality.ZeroOne.String())
	assert.Equal(t, "*", cardinality.ZeroUnbounded.String())
	assert.Equal(t, "+", cardinality.OneUnbounded.String())
	assert.Equal(t, "{2,4}", cardinality.MustNew(2, 4).String())
}
