package ir

import (
	"sort"

	"github.com/cayleygraph/shex/rdf"
)

// PosNeg labels a dependency edge: Pos for an ordinary reference, Neg
// for one traversed through a ShapeNot (spec §3's DependencyGraph).
type PosNeg int

const (
	Pos PosNeg = iota
	Neg
)

func (p PosNeg) String() string {
	if p == Neg {
		return "Neg"
	}
	return "Pos"
}

// DepEdge is one edge of the dependency graph.
type DepEdge struct {
	From, To ShapeLabelIdx
	Sign     PosNeg
}

// DependencyGraph is the directed, Pos/Neg-labelled graph of shape
// references built during compilation (spec §4.7).
type DependencyGraph struct {
	edges map[ShapeLabelIdx][]DepEdge
}

func directEdges(s *Schema, idx ShapeLabelIdx) []DepEdge {
	expr, ok := s.Shape(idx)
	if !ok {
		return nil
	}
	var out []DepEdge
	add := func(to ShapeLabelIdx, sign PosNeg) {
		out = append(out, DepEdge{From: idx, To: to, Sign: sign})
	}
	switch e := expr.(type) {
	case RefExpr:
		add(e.Idx, Pos)
	case OrExpr:
		for _, d := range e.Disjuncts {
			add(d, Pos)
		}
	case AndExpr:
		for _, c := range e.Conjuncts {
			add(c, Pos)
		}
	case NotExpr:
		add(e.Idx, Neg)
	case *ShapeDef:
		for _, refs := range e.componentRefs {
			for _, r := range refs {
				add(r, Pos)
			}
		}
		for _, p := range e.Extends {
			add(p, Pos)
		}
	}
	return out
}

// buildDependencyGraph walks every allocated index once (spec §4.7:
// "two graphs are built in one pass each").
func buildDependencyGraph(s *Schema) *DependencyGraph {
	g := &DependencyGraph{edges: make(map[ShapeLabelIdx][]DepEdge)}
	for i := 0; i < s.Len(); i++ {
		idx := ShapeLabelIdx(i)
		g.edges[idx] = directEdges(s, idx)
	}
	return g
}

// DependencyGraph returns (building and caching, if needed) the
// schema's dependency graph.
func (s *Schema) DependencyGraph() *DependencyGraph {
	if s.deps == nil {
		s.deps = buildDependencyGraph(s)
	}
	return s.deps
}

// Dependencies returns every edge of the dependency graph, (c).
func (s *Schema) Dependencies() []DepEdge {
	g := s.DependencyGraph()
	var all []DepEdge
	for i := 0; i < s.Len(); i++ {
		all = append(all, g.edges[ShapeLabelIdx(i)]...)
	}
	return all
}

// InheritanceGraph is the directed child->parent graph built from each
// Shape's Extends list (spec §3/§4.7).
type InheritanceGraph struct {
	parents map[ShapeLabelIdx][]ShapeLabelIdx
	children map[ShapeLabelIdx][]ShapeLabelIdx
}

func buildInheritanceGraph(s *Schema) *InheritanceGraph {
	g := &InheritanceGraph{
		parents:  make(map[ShapeLabelIdx][]ShapeLabelIdx),
		children: make(map[ShapeLabelIdx][]ShapeLabelIdx),
	}
	for i := 0; i < s.Len(); i++ {
		idx := ShapeLabelIdx(i)
		expr, ok := s.Shape(idx)
		if !ok {
			continue
		}
		sd, ok := expr.(*ShapeDef)
		if !ok {
			continue
		}
		for _, p := range sd.Extends {
			g.parents[idx] = append(g.parents[idx], p)
			g.children[p] = append(g.children[p], idx)
		}
	}
	return g
}

func (s *Schema) inheritanceGraph() *InheritanceGraph {
	if s.inh == nil {
		s.inh = buildInheritanceGraph(s)
	}
	return s.inh
}

// Parents returns idx's direct extends targets, (c).
func (s *Schema) Parents(idx ShapeLabelIdx) []ShapeLabelIdx {
	return s.inheritanceGraph().parents[idx]
}

// Descendants returns every shape that transitively extends idx, (c).
func (s *Schema) Descendants(idx ShapeLabelIdx) []ShapeLabelIdx {
	g := s.inheritanceGraph()
	seen := make(map[ShapeLabelIdx]bool)
	var out []ShapeLabelIdx
	var walk func(ShapeLabelIdx)
	walk = func(i ShapeLabelIdx) {
		for _, c := range g.children[i] {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
				walk(c)
			}
		}
	}
	walk(idx)
	sort.Slice(out, func(a, b int) bool { return out[a] < out[b] })
	return out
}

// CountExtends returns, for every depth d >= 0, how many shapes have an
// extends chain of exactly that length, (c).
func (s *Schema) CountExtends() map[int]int {
	g := s.inheritanceGraph()
	out := make(map[int]int)
	var depth func(idx ShapeLabelIdx, visiting map[ShapeLabelIdx]bool) int
	depth = func(idx ShapeLabelIdx, visiting map[ShapeLabelIdx]bool) int {
		parents := g.parents[idx]
		if len(parents) == 0 || visiting[idx] {
			return 0
		}
		visiting[idx] = true
		max := 0
		for _, p := range parents {
			if d := depth(p, visiting); d+1 > max {
				max = d + 1
			}
		}
		delete(visiting, idx)
		return max
	}
	for i := 0; i < s.Len(); i++ {
		idx := ShapeLabelIdx(i)
		out[depth(idx, make(map[ShapeLabelIdx]bool))]++
	}
	return out
}

// References returns, for the ShapeDef at idx, the map from predicate to
// the (Ref-chain-resolved) shape indices its triple constraint's pending
// obligations target. The visited set caps recursion through chains of
// pure Ref indirection (spec §4.7).
func (s *Schema) References(idx ShapeLabelIdx) map[rdf.Predicate][]ShapeLabelIdx {
	expr, ok := s.Shape(idx)
	if !ok {
		return nil
	}
	sd, ok := expr.(*ShapeDef)
	if !ok {
		return nil
	}
	out := make(map[rdf.Predicate][]ShapeLabelIdx)
	for ci, refs := range sd.componentRefs {
		pred := sd.Table.PredicateOf(ci)
		for _, r := range refs {
			resolved := resolveRefChain(s, r, make(map[ShapeLabelIdx]bool))
			out[pred] = append(out[pred], resolved)
		}
	}
	return out
}

func resolveRefChain(s *Schema, idx ShapeLabelIdx, visited map[ShapeLabelIdx]bool) ShapeLabelIdx {
	if visited[idx] {
		return idx
	}
	visited[idx] = true
	expr, ok := s.Shape(idx)
	if !ok {
		return idx
	}
	if ref, ok := expr.(RefExpr); ok {
		return resolveRefChain(s, ref.Idx, visited)
	}
	return idx
}

// sccResult is one strongly-connected component of the dependency graph.
type sccResult struct {
	members []ShapeLabelIdx
	edges   []DepEdge // edges with both endpoints inside this SCC
}

// tarjanSCC computes strongly-connected components of the dependency
// graph via Tarjan's algorithm (stdlib-only textbook routine; no pack
// library implements SCC detection, see DESIGN.md).
func tarjanSCC(s *Schema) []sccResult {
	g := s.DependencyGraph()
	n := s.Len()
	index := make([]int, n)
	low := make([]int, n)
	onStack := make([]bool, n)
	for i := range index {
		index[i] = -1
	}
	var stack []int
	counter := 0
	var out []sccResult

	var strongconnect func(v int)
	strongconnect = func(v int) {
		index[v] = counter
		low[v] = counter
		counter++
		stack = append(stack, v)
		onStack[v] = true

		for _, e := range g.edges[ShapeLabelIdx(v)] {
			w := int(e.To)
			if w < 0 || w >= n {
				continue
			}
			if index[w] == -1 {
				strongconnect(w)
				if low[w] < low[v] {
					low[v] = low[w]
				}
			} else if onStack[w] {
				if index[w] < low[v] {
					low[v] = index[w]
				}
			}
		}

		if low[v] == index[v] {
			var members []ShapeLabelIdx
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				members = append(members, ShapeLabelIdx(w))
				if w == v {
					break
				}
			}
			out = append(out, sccResult{members: members})
		}
	}

	for v := 0; v < n; v++ {
		if index[v] == -1 {
			strongconnect(v)
		}
	}

	memberSet := func(members []ShapeLabelIdx) map[ShapeLabelIdx]bool {
		m := make(map[ShapeLabelIdx]bool, len(members))
		for _, x := range members {
			m[x] = true
		}
		return m
	}
	for i := range out {
		set := memberSet(out[i].members)
		for _, m := range out[i].members {
			for _, e := range g.edges[m] {
				if set[e.To] {
					out[i].edges = append(out[i].edges, e)
				}
			}
		}
	}
	return out
}

// NegativeCycleError is returned when a well-formedness check finds a
// cycle in the dependency graph that traverses a Neg edge (spec §4.7,
// the classic "no negative recursion" rule).
type NegativeCycleError struct {
	Cycle []DepEdge
}

func (e *NegativeCycleError) Error() string {
	return "ir: negative recursion detected in shape dependency graph"
}

// CheckNoNegativeCycles enumerates the dependency graph's SCCs; every
// non-trivial SCC (more than one member, or a single member with a
// self-loop) must contain only Pos edges (spec §4.7).
func CheckNoNegativeCycles(s *Schema) error {
	for _, scc := range tarjanSCC(s) {
		if len(scc.members) < 2 {
			if len(scc.members) == 1 {
				self := scc.members[0]
				for _, e := range scc.edges {
					if e.From == self && e.To == self && e.Sign == Neg {
						return &NegativeCycleError{Cycle: []DepEdge{e}}
					}
				}
			}
			continue
		}
		for _, e := range scc.edges {
			if e.Sign == Neg {
				return &NegativeCycleError{Cycle: []DepEdge{e}}
			}
		}
	}
	return nil
}
