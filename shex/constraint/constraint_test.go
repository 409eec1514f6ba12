package constraint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cayleygraph/shex/rdf"
	"github.com/cayleygraph/shex/shex/constraint"
)

// Phone-number pattern facet scenario (spec §8 scenario 1).
func TestPatternFacetMatchesPhoneNumber(t *testing.T) {
	f := constraint.XsFacet{Kind: constraint.FacetPattern, Regex: `^\d{3}-\d{3}-\d{4}$`}
	require.NoError(t, f.Compile())

	ok, err := f.Check(rdf.LiteralNode{Value: rdf.NewPlain("555-123-4567", "")})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.Check(rdf.LiteralNode{Value: rdf.NewPlain("not-a-phone", "")})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPatternFacetFlagsCaseInsensitive(t *testing.T) {
	f := constraint.XsFacet{Kind: constraint.FacetPattern, Regex: `^HELLO$`, Flags: "i"}
	require.NoError(t, f.Compile())
	ok, err := f.Check(rdf.LiteralNode{Value: rdf.NewPlain("hello", "")})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPatternFacetRejectsInvalidFlagAtCompile(t *testing.T) {
	f := constraint.XsFacet{Kind: constraint.FacetPattern, Regex: `^a$`, Flags: "q"}
	require.Error(t, f.Compile())
}

func TestStringFacetsOnlyApplyToLiterals(t *testing.T) {
	f := constraint.XsFacet{Kind: constraint.FacetMinLength, Length: 3}
	ok, err := f.Check(rdf.IriNode{Value: "ex:a"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNumericFacetMinInclusive(t *testing.T) {
	five, err := rdf.ParseNumeric("5", rdf.NumInteger)
	require.NoError(t, err)
	f := constraint.XsFacet{Kind: constraint.FacetMinInclusive, Num: five}

	three, _ := rdf.ParseNumeric("3", rdf.NumInteger)
	ok, err := f.Check(rdf.LiteralNode{Value: rdf.NewNumeric(three)})
	require.NoError(t, err)
	assert.False(t, ok)

	ten, _ := rdf.ParseNumeric("10", rdf.NumInteger)
	ok, err = f.Check(rdf.LiteralNode{Value: rdf.NewNumeric(ten)})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNodeConstraintShortCircuitsOnNodeKind(t *testing.T) {
	c := &constraint.NodeConstraint{NodeKind: rdf.IriKind}
	failure, err := c.Check(rdf.LiteralNode{Value: rdf.NewPlain("x", "")})
	require.NoError(t, err)
	require.NotNil(t, failure)
	assert.Equal(t, constraint.WrongNodeKind, failure.Kind)
}

func TestNodeConstraintWrongDatatypeLiteralAlwaysFails(t *testing.T) {
	dt := rdf.IRI("http://www.w3.org/2001/XMLSchema#integer")
	c := &constraint.NodeConstraint{Datatype: &dt}
	bad := rdf.NewWrongDatatype("abc", dt, assert.AnError)
	failure, err := c.Check(rdf.LiteralNode{Value: bad})
	require.NoError(t, err)
	require.NotNil(t, failure)
	assert.Equal(t, constraint.WrongDatatype, failure.Kind)
}

func TestNodeConstraintConformantReturnsNilFailure(t *testing.T) {
	c := &constraint.NodeConstraint{NodeKind: rdf.LiteralKind}
	failure, err := c.Check(rdf.LiteralNode{Value: rdf.NewPlain("x", "")})
	require.NoError(t, err)
	assert.Nil(t, failure)
}
