package rbe

// deriv computes the Brzozowski residual of r after consuming n
// occurrences of symbol x. controlled is the enumerable universe of
// symbols the RBE's alphabet actually declares; when open is true,
// symbols outside controlled are silently skipped rather than failing
// (spec §4.2).
func deriv[A comparable](r *RBE[A], x A, n int, open bool, controlled map[A]bool) *RBE[A] {
	if r == nil {
		r = Empty[A]()
	}
	switch r.kind {
	case kFail:
		return r
	case kEmpty:
		if open && !controlled[x] {
			return Empty[A]()
		}
		return Fail[A](ErrUnexpectedEmpty)
	case kSymbol:
		if x == r.sym {
			if r.card.Max == 0 {
				return Fail[A](ErrMaxCardinalityZeroFoundValue)
			}
			if !r.card.Contains(n) {
				return Fail[A](ErrCardinalityFail)
			}
			next, ok := r.card.Minus(n)
			if !ok {
				return Fail[A](ErrCardinalityFail)
			}
			return Symbol(r.sym, next)
		}
		if open && !controlled[x] {
			return r
		}
		return Fail[A](ErrUnexpectedSymbol)
	case kAnd:
		return derivAnd(r, x, n, open, controlled)
	case kOr:
		variants := make([]*RBE[A], len(r.children))
		for i, c := range r.children {
			variants[i] = deriv(c, x, n, open, controlled)
		}
		return mkOr(variants)
	case kPlus:
		return mkAnd([]*RBE[A]{deriv(r.child, x, n, open, controlled), Star(r.child)})
	case kStar:
		return mkAnd([]*RBE[A]{deriv(r.child, x, n, open, controlled), Star(r.child)})
	case kRepeat:
		return derivRepeat(r, x, n, open, controlled)
	default:
		return Fail[A](ErrUnexpectedSymbol)
	}
}

// derivAnd implements the "one-position-decremented variant" rule: for
// each position in an And, derive only that child and keep siblings
// unchanged; collect every variant that didn't fail. Zero survivors
// collapses to an aggregated OrValuesFail; exactly one survivor is
// returned directly; more than one is wrapped in an Or (mirrors a
// predicate potentially matching more than one sibling constraint).
func derivAnd[A comparable](r *RBE[A], x A, n int, open bool, controlled map[A]bool) *RBE[A] {
	variants := derivN(r.children, x, n, open, controlled)
	var ok []*RBE[A]
	var failed []*RBE[A]
	for _, v := range variants {
		if v.IsFail() {
			failed = append(failed, v)
		} else {
			ok = append(ok, v)
		}
	}
	switch len(ok) {
	case 0:
		return FailWith[A](ErrOrValuesFail, failed...)
	case 1:
		return ok[0]
	default:
		return mkOr(ok)
	}
}

// derivN returns, for each index i, the And reconstructed with children[i]
// replaced by its derivative and every other child left untouched.
func derivN[A comparable](children []*RBE[A], x A, n int, open bool, controlled map[A]bool) []*RBE[A] {
	out := make([]*RBE[A], len(children))
	for i := range children {
		replaced := make([]*RBE[A], len(children))
		copy(replaced, children)
		replaced[i] = deriv(children[i], x, n, open, controlled)
		out[i] = mkAnd(replaced)
	}
	return out
}

func derivRepeat[A comparable](r *RBE[A], x A, n int, open bool, controlled map[A]bool) *RBE[A] {
	if r.repeat.IsZeroZero() {
		d := deriv(r.child, x, n, open, controlled)
		if Nullable(d) {
			return Fail[A](ErrCardinalityZeroZeroDeriv)
		}
		return Empty[A]()
	}
	next, ok := r.repeat.Minus(n)
	if !ok {
		return Fail[A](ErrCardinalityFail)
	}
	return mkAnd([]*RBE[A]{
		deriv(r.child, x, n, open, controlled),
		mkRangeSymbol(r.child, next),
	})
}
