package valueset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cayleygraph/shex/rdf"
	"github.com/cayleygraph/shex/shex/valueset"
)

func TestIriRefExactMatch(t *testing.T) {
	vs := valueset.New(valueset.IriRef{IRI: "ex:alice"})
	assert.True(t, vs.CheckValue(rdf.IriNode{Value: "ex:alice"}))
	assert.False(t, vs.CheckValue(rdf.IriNode{Value: "ex:bob"}))
}

func TestIriStemMatchesPrefix(t *testing.T) {
	vs := valueset.New(valueset.IriStem{Prefix: "http://example.org/"})
	assert.True(t, vs.CheckValue(rdf.IriNode{Value: "http://example.org/people/1"}))
	assert.False(t, vs.CheckValue(rdf.IriNode{Value: "http://other.org/people/1"}))
}

// Stem-with-exclusion scenario (spec §8 scenario 6): a stem range that
// admits everything under a prefix except one excluded sub-stem.
func TestStemRangeWithExclusion(t *testing.T) {
	vs := valueset.New(valueset.Range{
		Include:    valueset.IriStem{Prefix: "http://example.org/"},
		Exclusions: []valueset.Value{valueset.IriStem{Prefix: "http://example.org/staff/"}},
	})
	assert.True(t, vs.CheckValue(rdf.IriNode{Value: "http://example.org/people/1"}))
	assert.False(t, vs.CheckValue(rdf.IriNode{Value: "http://example.org/staff/2"}))
}

func TestLanguageMatchIsCaseInsensitiveCanonical(t *testing.T) {
	vs := valueset.New(valueset.Language{Tag: "en"})
	lit := rdf.NewPlain("hello", "EN")
	assert.True(t, vs.CheckValue(rdf.LiteralNode{Value: lit}))
}

func TestLanguageStemMatchesSubtag(t *testing.T) {
	vs := valueset.New(valueset.LanguageStem{Prefix: "en"})
	lit := rdf.NewPlain("hello", "en-GB")
	assert.True(t, vs.CheckValue(rdf.LiteralNode{Value: lit}))
}

func TestLiteralStemMatchesLexicalPrefix(t *testing.T) {
	vs := valueset.New(valueset.LiteralStem{Prefix: "2024-"})
	assert.True(t, vs.CheckValue(rdf.LiteralNode{Value: rdf.NewPlain("2024-03-01", "")}))
	assert.False(t, vs.CheckValue(rdf.LiteralNode{Value: rdf.NewPlain("2023-03-01", "")}))
}

func TestWildcardWithExclusionExcludesOneIRI(t *testing.T) {
	vs := valueset.New(valueset.Range{
		Include:    valueset.Wildcard{},
		Exclusions: []valueset.Value{valueset.IriRef{IRI: "ex:banned"}},
	})
	assert.True(t, vs.CheckValue(rdf.IriNode{Value: "ex:anything"}))
	assert.False(t, vs.CheckValue(rdf.IriNode{Value: "ex:banned"}))
	assert.False(t, vs.CheckValue(rdf.LiteralNode{Value: rdf.NewPlain("x", "")}))
}

func TestNilValueSetMatchesNothing(t *testing.T) {
	var vs *valueset.ValueSet
	assert.False(t, vs.CheckValue(rdf.IriNode{Value: "ex:anything"}))
}
