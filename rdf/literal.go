package rdf

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// LexicalError describes why a checked literal's lexical form failed to
// validate against its declared datatype. It is carried on WrongDatatype
// literals so C6 facet/datatype failures can quote the parse error
// verbatim (original_source/rdf/src/data/literal).
type LexicalError struct {
	Lexical  string
	Datatype IRI
	Cause    error
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("rdf: lexical form %q is not valid for datatype %s: %v", e.Lexical, e.Datatype, e.Cause)
}

func (e *LexicalError) Unwrap() error { return e.Cause }

// NumKind enumerates the XSD numeric subtypes we preserve distinctly, per
// XPath's integer ⊆ decimal ⊆ double value-space promotion.
type NumKind int

const (
	NumInteger NumKind = iota
	NumDecimal
	NumDouble
	NumFloat
	NumByte
	NumUnsignedLong
)

// NumVariant is a numeric literal value that keeps its XSD subtype.
type NumVariant struct {
	Kind    NumKind
	Int     int64
	Decimal decimal.Decimal
	Float   float64
}

// Cmp compares two NumVariants following XPath numeric promotion: an
// integer promotes to decimal, which promotes to double. NaN double
// values are unordered; Cmp returns (0, false) in that case rather than
// silently collapsing the comparison.
func (n NumVariant) Cmp(o NumVariant) (int, bool) {
	if n.Kind == NumDouble || o.Kind == NumDouble || n.Kind == NumFloat || o.Kind == NumFloat {
		a, b := n.AsFloat(), o.AsFloat()
		if a != a || b != b { // NaN
			return 0, false
		}
		switch {
		case a < b:
			return -1, true
		case a > b:
			return 1, true
		default:
			return 0, true
		}
	}
	return n.AsDecimal().Cmp(o.AsDecimal()), true
}

// AsFloat returns the closest float64 approximation of the value.
func (n NumVariant) AsFloat() float64 {
	switch n.Kind {
	case NumInteger, NumByte, NumUnsignedLong:
		return float64(n.Int)
	case NumDecimal:
		f, _ := n.Decimal.Float64()
		return f
	default:
		return n.Float
	}
}

// AsDecimal returns the value widened to an arbitrary-precision decimal.
func (n NumVariant) AsDecimal() decimal.Decimal {
	switch n.Kind {
	case NumInteger, NumByte, NumUnsignedLong:
		return decimal.NewFromInt(n.Int)
	case NumDecimal:
		return n.Decimal
	default:
		return decimal.NewFromFloat(n.Float)
	}
}

// ParseNumeric parses a lexical form into a NumVariant of the requested
// kind. On failure it returns the underlying strconv/decimal parse error
// wrapped with context (not a *LexicalError).
func ParseNumeric(lex string, kind NumKind) (NumVariant, error) {
	lex = strings.TrimSpace(lex)
	switch kind {
	case NumInteger, NumByte, NumUnsignedLong:
		v, err := strconv.ParseInt(lex, 10, 64)
		if err != nil {
			return NumVariant{}, errors.Wrapf(err, "rdf: invalid integer lexical form %q", lex)
		}
		return NumVariant{Kind: kind, Int: v}, nil
	case NumDecimal:
		d, err := decimal.NewFromString(lex)
		if err != nil {
			return NumVariant{}, errors.Wrapf(err, "rdf: invalid decimal lexical form %q", lex)
		}
		return NumVariant{Kind: NumDecimal, Decimal: d}, nil
	case NumDouble, NumFloat:
		f, err := strconv.ParseFloat(lex, 64)
		if err != nil {
			return NumVariant{}, errors.Wrapf(err, "rdf: invalid floating-point lexical form %q", lex)
		}
		return NumVariant{Kind: kind, Float: f}, nil
	default:
		return NumVariant{}, errors.Errorf("rdf: unknown numeric kind %d", kind)
	}
}

// LiteralValue is the tagged union of literal forms described in spec §3.
type LiteralValue struct {
	tag literalTag

	// Plain / Typed / WrongDatatype
	Lexical  string
	Lang     string // set only for Plain-with-language
	Datatype IRI    // set for Typed / WrongDatatype
	LexErr   *LexicalError

	// Boolean
	Bool bool

	// Numeric
	Num NumVariant

	// DateTime: stored as a normalized lexical form plus parsed Go value
	// is intentionally omitted here — the ShEx core only needs ordering
	// and equality for date/time facets, both available from the XSD
	// lexical encoding's lexicographic-after-zero-padding property.
	DateTime string
}

type literalTag int

const (
	tagPlain literalTag = iota
	tagTyped
	tagWrongDatatype
	tagBoolean
	tagNumeric
	tagDateTime
)

// NewPlain builds a Plain literal, optionally tagged with a language.
func NewPlain(lex, lang string) LiteralValue {
	return LiteralValue{tag: tagPlain, Lexical: lex, Lang: lang}
}

// NewTyped builds a checked Typed literal; the caller is responsible for
// having already validated lex against dt; no validation is done here
// (NewWrongDatatype builds the literal for a form that failed it).
func NewTyped(lex string, dt IRI) LiteralValue {
	return LiteralValue{tag: tagTyped, Lexical: lex, Datatype: dt}
}

// NewWrongDatatype builds a literal whose lexical form failed validation
// against its declared datatype. The raw lexical form is retained.
func NewWrongDatatype(lex string, dt IRI, cause error) LiteralValue {
	return LiteralValue{
		tag: tagWrongDatatype, Lexical: lex, Datatype: dt,
		LexErr: &LexicalError{Lexical: lex, Datatype: dt, Cause: cause},
	}
}

func NewBoolean(b bool) LiteralValue { return LiteralValue{tag: tagBoolean, Bool: b} }

func NewNumeric(n NumVariant) LiteralValue { return LiteralValue{tag: tagNumeric, Num: n} }

func NewDateTime(lex string) LiteralValue { return LiteralValue{tag: tagDateTime, DateTime: lex} }

func (v LiteralValue) IsPlain() bool         { return v.tag == tagPlain }
func (v LiteralValue) IsTyped() bool         { return v.tag == tagTyped }
func (v LiteralValue) IsWrongDatatype() bool { return v.tag == tagWrongDatatype }
func (v LiteralValue) IsBoolean() bool       { return v.tag == tagBoolean }
func (v LiteralValue) IsNumeric() bool       { return v.tag == tagNumeric }
func (v LiteralValue) IsDateTime() bool      { return v.tag == tagDateTime }

// EffectiveDatatype returns the IRI the literal should be treated as
// having for datatype-matching purposes, mirroring the plain/lang-string
// distinction from the RDF 1.1 spec.
func (v LiteralValue) EffectiveDatatype() IRI {
	switch v.tag {
	case tagPlain:
		if v.Lang != "" {
			return IRI("http://www.w3.org/1999/02/22-rdf-syntax-ns#langString")
		}
		return IRI("http://www.w3.org/2001/XMLSchema#string")
	case tagTyped, tagWrongDatatype:
		return v.Datatype
	case tagBoolean:
		return IRI("http://www.w3.org/2001/XMLSchema#boolean")
	case tagNumeric:
		return numericDatatype(v.Num.Kind)
	case tagDateTime:
		return IRI("http://www.w3.org/2001/XMLSchema#dateTime")
	default:
		return ""
	}
}

func numericDatatype(k NumKind) IRI {
	switch k {
	case NumInteger:
		return IRI("http://www.w3.org/2001/XMLSchema#integer")
	case NumDecimal:
		return IRI("http://www.w3.org/2001/XMLSchema#decimal")
	case NumDouble:
		return IRI("http://www.w3.org/2001/XMLSchema#double")
	case NumFloat:
		return IRI("http://www.w3.org/2001/XMLSchema#float")
	case NumByte:
		return IRI("http://www.w3.org/2001/XMLSchema#byte")
	case NumUnsignedLong:
		return IRI("http://www.w3.org/2001/XMLSchema#unsignedLong")
	default:
		return ""
	}
}

func (v LiteralValue) String() string {
	switch v.tag {
	case tagPlain:
		if v.Lang != "" {
			return `"` + v.Lexical + `"@` + v.Lang
		}
		return `"` + v.Lexical + `"`
	case tagTyped:
		return `"` + v.Lexical + `"^^<` + string(v.Datatype) + `>`
	case tagWrongDatatype:
		return `"` + v.Lexical + `"^^<` + string(v.Datatype) + `> (invalid)`
	case tagBoolean:
		return strconv.FormatBool(v.Bool)
	case tagNumeric:
		return v.Num.AsDecimal().String()
	case tagDateTime:
		return v.DateTime
	default:
		return ""
	}
}

// Equal reports structural equality between two literal values. Two
// WrongDatatype literals with the same (lexical, datatype) pair are
// equal even though the datatype did not validate — equality is about
// the RDF term, not its validity.
func (v LiteralValue) Equal(o LiteralValue) bool {
	if v.tag != o.tag {
		return false
	}
	switch v.tag {
	case tagPlain:
		return v.Lexical == o.Lexical && v.Lang == o.Lang
	case tagTyped, tagWrongDatatype:
		return v.Lexical == o.Lexical && v.Datatype == o.Datatype
	case tagBoolean:
		return v.Bool == o.Bool
	case tagNumeric:
		c, ok := v.Num.Cmp(o.Num)
		return ok && c == 0
	case tagDateTime:
		return v.DateTime == o.DateTime
	default:
		return false
	}
}
