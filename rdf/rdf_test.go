package rdf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cayleygraph/shex/rdf"
)

func TestEqualComparesByValueNotIdentity(t *testing.T) {
	a := rdf.IriNode{Value: "ex:alice"}
	b := rdf.IriNode{Value: "ex:alice"}
	c := rdf.IriNode{Value: "ex:bob"}
	assert.True(t, rdf.Equal(a, b))
	assert.False(t, rdf.Equal(a, c))
}

func TestEqualHandlesNilNodes(t *testing.T) {
	assert.True(t, rdf.Equal(nil, nil))
	assert.False(t, rdf.Equal(rdf.IriNode{Value: "ex:a"}, nil))
}

func TestKeyIsStableAndDistinguishesValues(t *testing.T) {
	a := rdf.IriNode{Value: "ex:alice"}
	b := rdf.IriNode{Value: "ex:alice"}
	c := rdf.IriNode{Value: "ex:bob"}
	assert.Equal(t, rdf.Key(a), rdf.Key(b))
	assert.NotEqual(t, rdf.Key(a), rdf.Key(c))
}

func TestFitsNodeKind(t *testing.T) {
	assert.True(t, rdf.Fits(rdf.IriNode{Value: "ex:a"}, rdf.IriKind))
	assert.False(t, rdf.Fits(rdf.IriNode{Value: "ex:a"}, rdf.LiteralKind))
	assert.True(t, rdf.Fits(rdf.BNodeNode{ID: "b1"}, rdf.NonLiteralKind))
	assert.True(t, rdf.Fits(rdf.LiteralNode{Value: rdf.NewPlain("x", "")}, rdf.AnyKind))
}

func TestNewTripleRejectsLiteralSubject(t *testing.T) {
	_, err := rdf.NewTriple(rdf.LiteralNode{Value: rdf.NewPlain("x", "")}, "ex:p", rdf.IriNode{Value: "ex:o"})
	require.ErrorIs(t, err, rdf.ErrInvalidSubject)
}

func TestNewTripleAcceptsIriSubject(t *testing.T) {
	tr, err := rdf.NewTriple(rdf.IriNode{Value: "ex:s"}, "ex:p", rdf.IriNode{Value: "ex:o"})
	require.NoError(t, err)
	assert.Equal(t, rdf.Predicate("ex:p"), tr.Predicate)
}

func TestLiteralValueEqualityIgnoresNumericRepresentation(t *testing.T) {
	a, err := rdf.ParseNumeric("5", rdf.NumInteger)
	require.NoError(t, err)
	b, err := rdf.ParseNumeric("5.0", rdf.NumDecimal)
	require.NoError(t, err)
	assert.True(t, rdf.NewNumeric(a).Equal(rdf.NewNumeric(b)))
}

func TestWrongDatatypeLiteralRetainsLexicalForm(t *testing.T) {
	lit := rdf.NewWrongDatatype("not-a-number", "http://www.w3.org/2001/XMLSchema#integer", assert.AnError)
	assert.True(t, lit.IsWrongDatatype())
	assert.Equal(t, "not-a-number", lit.Lexical)
}

func TestPlainLiteralEffectiveDatatypeDistinguishesLangString(t *testing.T) {
	plain := rdf.NewPlain("hi", "")
	tagged := rdf.NewPlain("hi", "en")
	assert.Equal(t, rdf.IRI("http://www.w3.org/2001/XMLSchema#string"), plain.EffectiveDatatype())
	assert.Equal(t, rdf.IRI("http://www.w3.org/1999/02/22-rdf-syntax-ns#langString"), tagged.EffectiveDatatype())
}
