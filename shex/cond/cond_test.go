package cond_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cayleygraph/shex/shex/cond"
)

func TestSingleTestFuncResult(t *testing.T) {
	c := cond.Single[string, string, string]("even-length", func(k, v string) (cond.Pending[string, string], error) {
		if len(v)%2 == 0 {
			return cond.Empty[string, string](), nil
		}
		return nil, assert.AnError
	})
	p, err := c.Check("k", "ab")
	require.NoError(t, err)
	assert.NotNil(t, p)

	_, err = c.Check("k", "abc")
	require.Error(t, err)
	assert.Equal(t, "even-length", c.Name())
}

func TestRefRecordsPendingObligation(t *testing.T) {
	c := cond.Ref[string, string, string]("shapeA")
	p, err := c.Check("k", "node1")
	require.NoError(t, err)
	refs := p.Refs("node1")
	require.Len(t, refs, 1)
	assert.Equal(t, "shapeA", refs[0])
}

func TestAndUnionsPendingsOfAllConjuncts(t *testing.T) {
	c := cond.And[string, string, string](
		cond.Ref[string, string, string]("shapeA"),
		cond.Ref[string, string, string]("shapeB"),
	)
	p, err := c.Check("k", "node1")
	require.NoError(t, err)
	refs := p.Refs("node1")
	assert.ElementsMatch(t, []string{"shapeA", "shapeB"}, refs)
}

func TestAndShortCircuitsOnFirstFailure(t *testing.T) {
	called := false
	failing := cond.Single[string, string, string]("fail", func(k, v string) (cond.Pending[string, string], error) {
		return nil, assert.AnError
	})
	neverRun := cond.Single[string, string, string]("never", func(k, v string) (cond.Pending[string, string], error) {
		called = true
		return cond.Empty[string, string](), nil
	})
	c := cond.And[string, string, string](failing, neverRun)
	_, err := c.Check("k", "v")
	require.Error(t, err)
	assert.False(t, called, "And must stop at the first failing conjunct")
}

func TestPendingUnionMerges(t *testing.T) {
	a := cond.Empty[string, string]()
	a.Add("n1", "r1")
	b := cond.Empty[string, string]()
	b.Add("n1", "r2")
	b.Add("n2", "r3")
	a.Union(b)
	assert.ElementsMatch(t, []string{"r1", "r2"}, a.Refs("n1"))
	assert.ElementsMatch(t, []string{"r3"}, a.Refs("n2"))
}
