package rbe

// SymbolCount is one (symbol, multiplicity) pair drawn from a bag.
type SymbolCount[A comparable] struct {
	Sym   A
	Count int
}

// Bag is an ordered list of (symbol, multiplicity) pairs. Order is the
// caller's responsibility (table.Table builds it in ascending component
// index order) so that MatchBag's result depends only on the bag's
// contents, not on map iteration order.
type Bag[A comparable] []SymbolCount[A]

// MatchBag decides whether bag conforms to r (spec §4.2's match_bag
// contract). open, when true, lets symbols outside controlled pass
// through unmatched nodes in the expression rather than failing it;
// controlled is the RBE's declared alphabet.
//
// It is deterministic: the same (r, bag, open, controlled) always
// yields the same (bool, residual) pair.
func MatchBag[A comparable](r *RBE[A], bag Bag[A], open bool, controlled map[A]bool) (bool, *RBE[A]) {
	cur := r
	if cur == nil {
		cur = Empty[A]()
	}
	for _, sc := range bag {
		cur = deriv(cur, sc.Sym, sc.Count, open, controlled)
		if cur.IsFail() {
			return false, cur
		}
	}
	return Nullable(cur), cur
}
