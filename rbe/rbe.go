// Package rbe implements a Brzozowski-style derivative engine over
// unordered bags of symbols with cardinality quantifiers (spec §4.2).
//
// The composite shape mirrors the teacher's graph/iterator And/Or/Not
// iterators (a sum of children, each re-derived independently) but
// generalizes the algebra from "iterate a quadstore" to "consume one
// symbol occurrence and return the residual expression".
package rbe

import (
	"fmt"

	"github.com/cayleygraph/shex/cardinality"
)

// ErrorKind enumerates the structural/cardinality failure modes an RBE
// derivative can produce (spec §7, kinds 1-2).
type ErrorKind int

const (
	NoError ErrorKind = iota
	ErrCardinalityFail
	ErrMaxCardinalityZeroFoundValue
	ErrUnexpectedEmpty
	ErrUnexpectedSymbol
	ErrOrValuesFail
	ErrCardinalityZeroZeroDeriv
)

func (k ErrorKind) String() string {
	switch k {
	case ErrCardinalityFail:
		return "CardinalityFail"
	case ErrMaxCardinalityZeroFoundValue:
		return "MaxCardinalityZeroFoundValue"
	case ErrUnexpectedEmpty:
		return "UnexpectedEmpty"
	case ErrUnexpectedSymbol:
		return "UnexpectedSymbol"
	case ErrOrValuesFail:
		return "OrValuesFail"
	case ErrCardinalityZeroZeroDeriv:
		return "CardinalityZeroZeroDeriv"
	default:
		return "NoError"
	}
}

type kind int

const (
	kEmpty kind = iota
	kFail
	kSymbol
	kAnd
	kOr
	kStar
	kPlus
	kRepeat
)

// RBE is the recursive sum type described in spec §3: Empty | Fail |
// Symbol | And | Or | Star | Plus | Repeat. A is the symbol alphabet,
// e.g. a table.ComponentIdx in C3 or a raw predicate in simple use.
type RBE[A comparable] struct {
	kind kind

	// kFail
	errKind ErrorKind
	cause   []*RBE[A] // child errors collected by Or/And failure (diagnostics)

	// kSymbol
	sym  A
	card cardinality.Cardinality

	// kAnd / kOr
	children []*RBE[A]

	// kStar / kPlus / kRepeat
	child     *RBE[A]
	repeat    cardinality.Cardinality
	hasRepeat bool
}

// Empty returns the RBE accepting only the empty bag.
func Empty[A comparable]() *RBE[A] { return &RBE[A]{kind: kEmpty} }

// Fail returns an absorbing failure node carrying an error kind.
func Fail[A comparable](k ErrorKind) *RBE[A] { return &RBE[A]{kind: kFail, errKind: k} }

// FailWith returns a failure node that also records the child
// derivatives that failed, for diagnostics (OrValuesFail).
func FailWith[A comparable](k ErrorKind, causes ...*RBE[A]) *RBE[A] {
	return &RBE[A]{kind: kFail, errKind: k, cause: causes}
}

// Symbol returns an RBE matching exactly one alphabet symbol, repeated
// according to c.
func Symbol[A comparable](a A, c cardinality.Cardinality) *RBE[A] {
	return &RBE[A]{kind: kSymbol, sym: a, card: c}
}

// And returns the (smart-constructed) conjunction of all children.
func And[A comparable](children ...*RBE[A]) *RBE[A] { return mkAnd(children) }

// Or returns the (smart-constructed) disjunction of all children.
func Or[A comparable](children ...*RBE[A]) *RBE[A] { return mkOr(children) }

// Star returns e repeated zero or more times.
func Star[A comparable](e *RBE[A]) *RBE[A] { return &RBE[A]{kind: kStar, child: e} }

// Plus returns e repeated one or more times.
func Plus[A comparable](e *RBE[A]) *RBE[A] { return &RBE[A]{kind: kPlus, child: e} }

// Repeat returns e repeated according to c. Per spec §9's Open Question
// decision, Repeat{0,0} of a nullable e is rejected here as a
// schema-author error rather than deferred to validation time.
func Repeat[A comparable](e *RBE[A], c cardinality.Cardinality) (*RBE[A], error) {
	if c.IsZeroZero() && Nullable(e) {
		return nil, fmt.Errorf("rbe: Repeat{0,0} of a nullable expression is not well-formed")
	}
	return &RBE[A]{kind: kRepeat, child: e, repeat: c, hasRepeat: true}, nil
}

// IsFail reports whether r is an absorbing failure node.
func (r *RBE[A]) IsFail() bool { return r != nil && r.kind == kFail }

// ErrorKind returns the failure kind of a Fail node, or NoError.
func (r *RBE[A]) ErrorKind() ErrorKind {
	if r == nil || r.kind != kFail {
		return NoError
	}
	return r.errKind
}

// Causes returns the child derivatives that contributed to an
// OrValuesFail, if any.
func (r *RBE[A]) Causes() []*RBE[A] {
	if r == nil {
		return nil
	}
	return r.cause
}

// Nullable reports whether r accepts the empty bag.
func Nullable[A comparable](r *RBE[A]) bool {
	if r == nil {
		return false
	}
	switch r.kind {
	case kEmpty:
		return true
	case kFail:
		return false
	case kSymbol:
		return r.card.Nullable()
	case kAnd:
		for _, c := range r.children {
			if !Nullable(c) {
				return false
			}
		}
		return true
	case kOr:
		for _, c := range r.children {
			if Nullable(c) {
				return true
			}
		}
		return false
	case kStar:
		return true
	case kPlus:
		return Nullable(r.child)
	case kRepeat:
		return r.repeat.Nullable() || Nullable(r.child)
	default:
		return false
	}
}

func (r *RBE[A]) String() string {
	if r == nil {
		return "Empty"
	}
	switch r.kind {
	case kEmpty:
		return "Empty"
	case kFail:
		return "Fail(" + r.errKind.String() + ")"
	case kSymbol:
		return fmt.Sprintf("Symbol(%v%s)", r.sym, r.card.String())
	case kAnd:
		return fmt.Sprintf("And%v", r.children)
	case kOr:
		return fmt.Sprintf("Or%v", r.children)
	case kStar:
		return fmt.Sprintf("Star(%v)", r.child)
	case kPlus:
		return fmt.Sprintf("Plus(%v)", r.child)
	case kRepeat:
		return fmt.Sprintf("Repeat(%v%s)", r.child, r.repeat.String())
	default:
		return "?"
	}
}
