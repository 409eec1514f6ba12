// Package cond implements composable match conditions on RDF nodes that
// return residual pending references (spec §4.4, C4).
package cond

// Pending is the multimap V -> set<R> recording obligations accumulated
// during matching: "node v must additionally satisfy shape r". Pending
// sets compose by union (spec §3).
type Pending[V comparable, R comparable] map[V]map[R]struct{}

// Empty returns an empty Pending set.
func Empty[V comparable, R comparable]() Pending[V, R] { return make(Pending[V, R]) }

// Add records that v must additionally satisfy r.
func (p Pending[V, R]) Add(v V, r R) {
	if p[v] == nil {
		p[v] = make(map[R]struct{})
	}
	p[v][r] = struct{}{}
}

// Union merges other into p, returning p for chaining.
func (p Pending[V, R]) Union(other Pending[V, R]) Pending[V, R] {
	for v, rs := range other {
		for r := range rs {
			p.Add(v, r)
		}
	}
	return p
}

// Refs returns the set of R values pending for v.
func (p Pending[V, R]) Refs(v V) []R {
	out := make([]R, 0, len(p[v]))
	for r := range p[v] {
		out = append(out, r)
	}
	return out
}

// kind discriminates the MatchCond sum type.
type kind int

const (
	kSingle kind = iota
	kRef
	kAnd
)

// TestFunc is a Single match condition's pure test: given the candidate
// key (e.g. a predicate) and value (a node), decide whether it matches,
// returning accumulated Pending obligations on success.
type TestFunc[K any, V comparable, R comparable] func(k K, v V) (Pending[V, R], error)

// MatchCond is the sum type described in spec §3/§4.4: Single | Ref |
// And. K is the key type a test is evaluated against (typically a
// predicate or triple-position marker), V the node type, R the residual
// (pending shape reference) type.
type MatchCond[K any, V comparable, R comparable] struct {
	kind kind
	name string
	test TestFunc[K, V, R]
	ref  R
	subs []MatchCond[K, V, R]
}

// Single wraps a named, pure test function.
func Single[K any, V comparable, R comparable](name string, test TestFunc[K, V, R]) MatchCond[K, V, R] {
	return MatchCond[K, V, R]{kind: kSingle, name: name, test: test}
}

// Ref unconditionally succeeds, recording a pending obligation that the
// value must additionally satisfy shape r.
func Ref[K any, V comparable, R comparable](r R) MatchCond[K, V, R] {
	return MatchCond[K, V, R]{kind: kRef, ref: r}
}

// And is the conjunction of conditions; their pendings union on success,
// and it fails (short-circuiting) at the first failing conjunct.
func And[K any, V comparable, R comparable](subs ...MatchCond[K, V, R]) MatchCond[K, V, R] {
	return MatchCond[K, V, R]{kind: kAnd, subs: subs}
}

// Name returns the condition's diagnostic label ("" for Ref/And).
func (c MatchCond[K, V, R]) Name() string { return c.name }

// Check evaluates the condition against (k, v).
func (c MatchCond[K, V, R]) Check(k K, v V) (Pending[V, R], error) {
	switch c.kind {
	case kSingle:
		return c.test(k, v)
	case kRef:
		p := Empty[V, R]()
		p.Add(v, c.ref)
		return p, nil
	case kAnd:
		p := Empty[V, R]()
		for _, sub := range c.subs {
			sp, err := sub.Check(k, v)
			if err != nil {
				return nil, err
			}
			p.Union(sp)
		}
		return p, nil
	default:
		return Empty[V, R](), nil
	}
}
