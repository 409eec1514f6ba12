package rbe_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cayleygraph/shex/cardinality"
	"github.com/cayleygraph/shex/rbe"
)

func ctrl(syms ...string) map[string]bool {
	m := make(map[string]bool, len(syms))
	for _, s := range syms {
		m[s] = true
	}
	return m
}

func bag(pairs ...interface{}) rbe.Bag[string] {
	var b rbe.Bag[string]
	for i := 0; i < len(pairs); i += 2 {
		b = append(b, rbe.SymbolCount[string]{Sym: pairs[i].(string), Count: pairs[i+1].(int)})
	}
	return b
}

func TestSymbolWithinCardinalityMatches(t *testing.T) {
	r := rbe.Symbol("p", cardinality.MustNew(1, 3))
	ok, _ := rbe.MatchBag(r, bag("p", 2), false, ctrl("p"))
	assert.True(t, ok)
}

func TestSymbolOutsideCardinalityFails(t *testing.T) {
	r := rbe.Symbol("p", cardinality.MustNew(1, 1))
	ok, residual := rbe.MatchBag(r, bag("p", 2), false, ctrl("p"))
	assert.False(t, ok)
	assert.True(t, residual.IsFail())
}

func TestAndRequiresEveryChild(t *testing.T) {
	r := rbe.And(
		rbe.Symbol("p", cardinality.OneOne),
		rbe.Symbol("q", cardinality.ZeroOne),
	)
	ok, _ := rbe.MatchBag(r, bag("p", 1), false, ctrl("p", "q"))
	assert.True(t, ok, "q is optional, p satisfied once")

	ok, _ = rbe.MatchBag(r, bag("q", 1), false, ctrl("p", "q"))
	assert.False(t, ok, "p is mandatory and absent")
}

func TestOrSucceedsIfAnyChildDoes(t *testing.T) {
	r := rbe.Or(
		rbe.Symbol("p", cardinality.OneOne),
		rbe.Symbol("q", cardinality.OneOne),
	)
	ok, _ := rbe.MatchBag(r, bag("q", 1), false, ctrl("p", "q"))
	assert.True(t, ok)
}

func TestStarAcceptsEmptyAndRepeated(t *testing.T) {
	r := rbe.Star(rbe.Symbol("p", cardinality.OneOne))
	ok, _ := rbe.MatchBag(r, bag(), false, ctrl("p"))
	assert.True(t, ok)

	ok, _ = rbe.MatchBag(r, bag("p", 1, "p", 1), false, ctrl("p"))
	assert.True(t, ok)
}

func TestPlusRejectsEmpty(t *testing.T) {
	r := rbe.Plus(rbe.Symbol("p", cardinality.OneOne))
	ok, _ := rbe.MatchBag(r, bag(), false, ctrl("p"))
	assert.False(t, ok)
}

func TestRepeatZeroZeroOfNullableIsRejectedAtConstruction(t *testing.T) {
	nullable := rbe.Symbol("p", cardinality.ZeroOne)
	_, err := rbe.Repeat(nullable, cardinality.ZeroZero)
	require.Error(t, err)
}

func TestRepeatZeroZeroOfNonNullableIsEmpty(t *testing.T) {
	nonNullable := rbe.Symbol("p", cardinality.OneOne)
	r, err := rbe.Repeat(nonNullable, cardinality.ZeroZero)
	require.NoError(t, err)
	ok, _ := rbe.MatchBag(r, bag(), false, ctrl("p"))
	assert.True(t, ok)
}

// match_bag(r, b, open) must be deterministic: repeated calls over the
// same inputs yield the same (bool, residual-fail-kind) pair.
func TestMatchBagIsDeterministic(t *testing.T) {
	r := rbe.And(
		rbe.Symbol("p", cardinality.MustNew(1, 2)),
		rbe.Or(rbe.Symbol("q", cardinality.OneOne), rbe.Symbol("r", cardinality.OneOne)),
	)
	b := bag("p", 1, "q", 1)
	var want bool
	for i := 0; i < 20; i++ {
		ok, _ := rbe.MatchBag(r, b, false, ctrl("p", "q", "r"))
		if i == 0 {
			want = ok
		}
		require.Equal(t, want, ok)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	r := rbe.And(
		rbe.Symbol("ex:name", cardinality.OneOne),
		rbe.Star(rbe.Symbol("ex:tag", cardinality.ZeroUnbounded)),
	)
	data, err := rbe.MarshalJSONString(r)
	require.NoError(t, err)
	back, err := rbe.UnmarshalJSONString(data)
	require.NoError(t, err)
	assert.Equal(t, r.String(), back.String())
}
