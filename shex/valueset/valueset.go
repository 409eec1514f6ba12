// Package valueset implements the IRI / literal / language stem algebra
// with inclusion/exclusion semantics (spec §4.5, C5).
package valueset

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/cayleygraph/shex/rdf"
)

// Value is one declared member of a ValueSet (spec §3's ValueSetValue).
type Value interface {
	// matches reports whether n is admitted by this value, ignoring any
	// enclosing exclusion (exclusions are applied by Range.matches).
	matches(n rdf.Node) bool
}

// IriRef matches a single IRI node by exact value.
type IriRef struct{ IRI rdf.IRI }

func (v IriRef) matches(n rdf.Node) bool {
	in, ok := n.(rdf.IriNode)
	return ok && in.Value == v.IRI
}

// ObjectLiteral matches a single literal node by structural equality.
type ObjectLiteral struct{ Literal rdf.LiteralValue }

func (v ObjectLiteral) matches(n rdf.Node) bool {
	ln, ok := n.(rdf.LiteralNode)
	return ok && ln.Value.Equal(v.Literal)
}

// Language matches any plain literal tagged with the given BCP47
// language, comparing canonical forms via golang.org/x/text/language so
// "EN" and "en" match (grounded on graph/collator.go's use of the same
// package for collation).
type Language struct{ Tag string }

func sameLanguage(a, b string) bool {
	ta, errA := language.Parse(a)
	tb, errB := language.Parse(b)
	if errA != nil || errB != nil {
		return strings.EqualFold(a, b)
	}
	return ta.String() == tb.String()
}

func (v Language) matches(n rdf.Node) bool {
	ln, ok := n.(rdf.LiteralNode)
	if !ok || !ln.Value.IsPlain() {
		return false
	}
	return ln.Value.Lang != "" && sameLanguage(ln.Value.Lang, v.Tag)
}

// IriStem matches any IRI sharing the given prefix.
type IriStem struct{ Prefix rdf.IRI }

func (v IriStem) matches(n rdf.Node) bool {
	in, ok := n.(rdf.IriNode)
	return ok && in.Value.HasPrefix(string(v.Prefix))
}

// LiteralStem matches any literal whose lexical form shares the prefix.
type LiteralStem struct{ Prefix string }

func (v LiteralStem) matches(n rdf.Node) bool {
	ln, ok := n.(rdf.LiteralNode)
	return ok && strings.HasPrefix(ln.Value.Lexical, v.Prefix)
}

// LanguageStem matches any plain literal whose language tag shares the
// prefix (e.g. "en" matches "en-GB").
type LanguageStem struct{ Prefix string }

func (v LanguageStem) matches(n rdf.Node) bool {
	ln, ok := n.(rdf.LiteralNode)
	if !ok || !ln.Value.IsPlain() || ln.Value.Lang == "" {
		return false
	}
	return strings.HasPrefix(strings.ToLower(ln.Value.Lang), strings.ToLower(v.Prefix))
}

// Wildcard matches every IRI (used with exclusions to express "any IRI
// except ..."); spec §4.5's "Wildcard stem (*) paired with exclusions".
type Wildcard struct{}

func (Wildcard) matches(n rdf.Node) bool {
	_, ok := n.(rdf.IriNode)
	return ok
}

// Range pairs an inclusion Value with a set of Values excluded from it —
// StemRange / exclusion-bearing range variants of spec §3.
type Range struct {
	Include    Value
	Exclusions []Value
}

func (r Range) matches(n rdf.Node) bool {
	if !r.Include.matches(n) {
		return false
	}
	for _, ex := range r.Exclusions {
		if ex.matches(n) {
			return false
		}
	}
	return true
}

// ValueSet is an ordered collection of declared values; CheckValue
// reports membership per spec §4.5 (first matching declared value wins;
// Range values fold exclusions into their own match test).
type ValueSet struct {
	Values []Value
}

// New builds a ValueSet from a list of declared values.
func New(values ...Value) *ValueSet { return &ValueSet{Values: values} }

// CheckValue reports whether n is a member of the value set.
func (vs *ValueSet) CheckValue(n rdf.Node) bool {
	if vs == nil {
		return false
	}
	for _, v := range vs.Values {
		if v.matches(n) {
			return true
		}
	}
	return false
}
