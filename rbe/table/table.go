// Package table implements the RBE table (spec §4.3): the bridge between
// predicate-keyed triples and the symbol-keyed rbe.RBE engine.
package table

import (
	"sort"

	"github.com/cayleygraph/shex/rbe"
	"github.com/cayleygraph/shex/rdf"
	"github.com/cayleygraph/shex/shex/cond"
)

// ComponentIdx is a dense index into a Table's component list; it is the
// symbol alphabet fed to the RBE engine.
type ComponentIdx int

// component pairs a predicate with the C4 match condition that decides
// whether a candidate object satisfies it, and what it pends on.
type component[R comparable] struct {
	Key  rdf.Predicate
	Cond cond.MatchCond[rdf.Predicate, rdf.Node, R]
}

// Table indexes RBE symbols by predicate and a cond.MatchCond, feeding
// C2's derivative engine (spec §4.3). R is the type of a pending shape
// reference (ir.ShapeLabelIdx in the compiled schema).
type Table[R comparable] struct {
	components []component[R]
	outer      *rbe.RBE[ComponentIdx]
}

// New returns an empty Table.
func New[R comparable]() *Table[R] { return &Table[R]{} }

// AddComponent registers a (predicate, match condition) pair and returns
// the dense ComponentIdx used as its RBE symbol.
func (t *Table[R]) AddComponent(key rdf.Predicate, c cond.MatchCond[rdf.Predicate, rdf.Node, R]) ComponentIdx {
	t.components = append(t.components, component[R]{Key: key, Cond: c})
	return ComponentIdx(len(t.components) - 1)
}

// WithRBE attaches the outer expression whose symbols are component
// indices 0..n-1.
func (t *Table[R]) WithRBE(r *rbe.RBE[ComponentIdx]) { t.outer = r }

// RBE returns the attached outer expression.
func (t *Table[R]) RBE() *rbe.RBE[ComponentIdx] { return t.outer }

// PredicateOf returns the predicate component idx was registered under.
func (t *Table[R]) PredicateOf(idx ComponentIdx) rdf.Predicate {
	if int(idx) < 0 || int(idx) >= len(t.components) {
		return ""
	}
	return t.components[idx].Key
}

// Predicates returns the set of predicates any component in the table
// cares about, in component-index order (deduplicated).
func (t *Table[R]) Predicates() []rdf.Predicate {
	seen := make(map[rdf.Predicate]bool)
	var out []rdf.Predicate
	for _, c := range t.components {
		if !seen[c.Key] {
			seen[c.Key] = true
			out = append(out, c.Key)
		}
	}
	return out
}

// MatchResult is the outcome of matching one set of triples against a
// Table: the bag fed to the RBE engine, the Pending obligations every
// matched object accumulated (spec §4.4), the object nodes each
// component matched, and any objects that satisfied no component at all.
type MatchResult[R comparable] struct {
	Bag rbe.Bag[ComponentIdx]

	// Pending carries the C4 obligations a matched object accumulated
	// from Ref/And conditions — the validator resolves each (node, ref)
	// pair as a nested shape check (spec §4.8(g)).
	Pending cond.Pending[rdf.Node, R]

	// MatchedObjects records, per component, the object nodes that
	// satisfied its match condition.
	MatchedObjects map[ComponentIdx][]rdf.Node

	// Unmatched lists object nodes that satisfied no component's
	// condition, including objects under predicates no component declares.
	Unmatched []rdf.Node
}

// Match takes candidate objects grouped by predicate in matched (objects
// under predicates no component declares count toward no component),
// evaluates each component's cond.MatchCond against every
// candidate object, and produces the bag C2 needs. When a predicate has
// more than one competing component, every triple under that predicate
// is tried against every component keyed to that predicate — the "every
// assignment" requirement of spec §4.3 — and counted toward whichever
// succeeds; the derivative engine's own Or-branching (C2 §4.2 And case)
// resolves the final assignment ambiguity, so Match only needs to
// report, per component, how many candidate objects satisfied it.
func (t *Table[R]) Match(matched map[rdf.Predicate][]rdf.Node) MatchResult[R] {
	counts := make(map[ComponentIdx]int)
	pending := cond.Empty[rdf.Node, R]()
	matchedObjs := make(map[ComponentIdx][]rdf.Node)
	anyMatch := make(map[string]bool)

	for idx, c := range t.components {
		objs, ok := matched[c.Key]
		if !ok {
			continue
		}
		for _, o := range objs {
			p, err := c.Cond.Check(c.Key, o)
			if err != nil {
				continue
			}
			counts[ComponentIdx(idx)]++
			matchedObjs[ComponentIdx(idx)] = append(matchedObjs[ComponentIdx(idx)], o)
			pending.Union(p)
			anyMatch[rdf.Key(o)] = true
		}
	}

	var unmatched []rdf.Node
	for _, objs := range matched {
		for _, o := range objs {
			if !anyMatch[rdf.Key(o)] {
				unmatched = append(unmatched, o)
			}
		}
	}

	var idxs []int
	for idx := range counts {
		idxs = append(idxs, int(idx))
	}
	sort.Ints(idxs)
	bag := make(rbe.Bag[ComponentIdx], 0, len(idxs))
	for _, idx := range idxs {
		bag = append(bag, rbe.SymbolCount[ComponentIdx]{Sym: ComponentIdx(idx), Count: counts[ComponentIdx(idx)]})
	}
	return MatchResult[R]{Bag: bag, Pending: pending, MatchedObjects: matchedObjs, Unmatched: unmatched}
}

// Controlled returns the alphabet of symbols the table's outer RBE
// declares, used by rbe.MatchBag's open/closed decision.
func (t *Table[R]) Controlled() map[ComponentIdx]bool {
	m := make(map[ComponentIdx]bool, len(t.components))
	for i := range t.components {
		m[ComponentIdx(i)] = true
	}
	return m
}
