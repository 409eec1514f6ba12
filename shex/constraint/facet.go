package constraint

import (
	"github.com/dlclark/regexp2"
	"github.com/pkg/errors"

	"github.com/cayleygraph/shex/rdf"
)

// FacetKind discriminates the XsFacet variants of spec §3.
type FacetKind int

const (
	FacetLength FacetKind = iota
	FacetMinLength
	FacetMaxLength
	FacetPattern
	FacetMinInclusive
	FacetMaxInclusive
	FacetMinExclusive
	FacetMaxExclusive
	FacetTotalDigits
	FacetFractionDigits
)

// XsFacet is one XSD facet constraint (string-valued or numeric-valued).
type XsFacet struct {
	Kind FacetKind

	// String facets
	Length int
	Regex  string
	Flags  string // subset of PCRE flags: i, m, s, x, u (spec §9)

	// Numeric facets
	Num rdf.NumVariant
	N   int // TotalDigits / FractionDigits

	compiled *regexp2.Regexp // lazily built by Compile
}

// Compile pre-builds the facet's regexp2.Regexp (pattern facets only);
// invalid patterns are a compile-time error, never a runtime one (spec §9).
func (f *XsFacet) Compile() error {
	if f.Kind != FacetPattern {
		return nil
	}
	opts := regexp2.None
	for _, c := range f.Flags {
		switch c {
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'm':
			opts |= regexp2.Multiline
		case 's':
			opts |= regexp2.Singleline
		case 'x':
			opts |= regexp2.IgnorePatternWhitespace
		case 'u':
			opts |= regexp2.Unicode
		default:
			return errors.Errorf("constraint: unknown pattern flag %q", c)
		}
	}
	re, err := regexp2.Compile(f.Regex, opts)
	if err != nil {
		return errors.Wrapf(err, "constraint: invalid pattern %q", f.Regex)
	}
	f.compiled = re
	return nil
}

// Check evaluates the facet against a node's lexical form / numeric
// value, per spec §4.6. String facets apply to the lexical form of
// literals only (non-literals always fail a string facet); numeric
// facets apply to NumVariant-bearing literals only.
func (f *XsFacet) Check(n rdf.Node) (bool, error) {
	ln, isLit := n.(rdf.LiteralNode)
	switch f.Kind {
	case FacetLength, FacetMinLength, FacetMaxLength, FacetPattern:
		if !isLit {
			return false, nil
		}
		return f.checkString(ln.Value.Lexical)
	default:
		if !isLit || !ln.Value.IsNumeric() {
			return false, nil
		}
		return f.checkNumeric(ln.Value.Num)
	}
}

func (f *XsFacet) checkString(lex string) (bool, error) {
	n := len([]rune(lex))
	switch f.Kind {
	case FacetLength:
		return n == f.Length, nil
	case FacetMinLength:
		return n >= f.Length, nil
	case FacetMaxLength:
		return n <= f.Length, nil
	case FacetPattern:
		if f.compiled == nil {
			if err := f.Compile(); err != nil {
				return false, err
			}
		}
		// Unanchored unless the pattern itself anchors (spec §9).
		m, err := f.compiled.MatchString(lex)
		if err != nil {
			return false, errors.Wrap(err, "constraint: pattern match failed")
		}
		return m, nil
	default:
		return false, errors.Errorf("constraint: not a string facet")
	}
}

func (f *XsFacet) checkNumeric(n rdf.NumVariant) (bool, error) {
	c, ok := n.Cmp(f.Num)
	if !ok {
		// NaN comparisons are unordered; treat as non-match, not error —
		// a facet is a predicate, an incomparable value simply fails it.
		return false, nil
	}
	switch f.Kind {
	case FacetMinInclusive:
		return c >= 0, nil
	case FacetMaxInclusive:
		return c <= 0, nil
	case FacetMinExclusive:
		return c > 0, nil
	case FacetMaxExclusive:
		return c < 0, nil
	case FacetTotalDigits:
		return totalDigits(n) <= f.N, nil
	case FacetFractionDigits:
		return fractionDigits(n) <= f.N, nil
	default:
		return false, errors.Errorf("constraint: not a numeric facet")
	}
}

func totalDigits(n rdf.NumVariant) int {
	s := n.AsDecimal().String()
	count := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			count++
		}
	}
	return count
}

func fractionDigits(n rdf.NumVariant) int {
	s := n.AsDecimal().String()
	for i, r := range s {
		if r == '.' {
			return len(s) - i - 1
		}
	}
	return 0
}
