package rbe

import "github.com/cayleygraph/shex/cardinality"

// mkAnd normalises And's algebraic identities: Empty is the identity
// element (dropped), Fail is absorbing, a single surviving child is
// returned unwrapped.
func mkAnd[A comparable](children []*RBE[A]) *RBE[A] {
	out := make([]*RBE[A], 0, len(children))
	for _, c := range children {
		if c == nil || c.kind == kEmpty {
			continue
		}
		if c.kind == kFail {
			return c
		}
		if c.kind == kAnd {
			out = append(out, c.children...)
			continue
		}
		out = append(out, c)
	}
	switch len(out) {
	case 0:
		return Empty[A]()
	case 1:
		return out[0]
	default:
		return &RBE[A]{kind: kAnd, children: out}
	}
}

// mkOr normalises Or's algebraic identities: Fail is the identity
// element (dropped), a single surviving child is returned unwrapped,
// zero surviving children with n>=1 original children collapses to a
// single aggregated Fail carrying every cause for diagnostics.
func mkOr[A comparable](children []*RBE[A]) *RBE[A] {
	out := make([]*RBE[A], 0, len(children))
	var causes []*RBE[A]
	for _, c := range children {
		if c == nil {
			continue
		}
		if c.kind == kFail {
			causes = append(causes, c)
			continue
		}
		if c.kind == kOr {
			out = append(out, c.children...)
			continue
		}
		out = append(out, c)
	}
	switch {
	case len(out) == 0 && len(causes) > 0:
		return FailWith[A](ErrOrValuesFail, causes...)
	case len(out) == 0:
		return Empty[A]()
	case len(out) == 1:
		return out[0]
	default:
		return &RBE[A]{kind: kOr, children: out}
	}
}

// mkRange builds Star/Plus/Repeat(e, c) with the {1,1} and {0,0}
// collapses applied: {1,1} repetition is just e; {0,0} repetition is
// Empty (already validated non-nullable by Repeat's constructor, or
// trivially satisfied when e is not reached at all).
func mkRange[A comparable](e *RBE[A], c cardinality.Cardinality) *RBE[A] {
	switch {
	case c.IsZeroZero():
		return Empty[A]()
	case c.IsOneOne():
		return e
	case c.IsZeroUnbounded():
		return Star(e)
	case c.IsOneUnbounded():
		return Plus(e)
	default:
		r, err := Repeat(e, c)
		if err != nil {
			// c is a *residual* cardinality produced by Minus during
			// derivation, not a schema-author literal; a {0,0}-of-nullable
			// here reflects a derivative that can never again match and
			// collapses to Fail rather than panicking.
			return Fail[A](ErrCardinalityZeroZeroDeriv)
		}
		return r
	}
}

// mkRangeSymbol re-wraps a Repeat's child with its residual cardinality
// after a derivative step (spec §4.2's mk_range_symbol): same collapses
// as mkRange, named separately because the caller here is always
// rebuilding the "n more repetitions of child" tail, never an
// arbitrary fresh range.
func mkRangeSymbol[A comparable](e *RBE[A], c cardinality.Cardinality) *RBE[A] {
	return mkRange(e, c)
}
