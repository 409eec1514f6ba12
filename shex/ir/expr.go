package ir

import (
	"errors"

	"github.com/cayleygraph/shex/rbe/table"
	"github.com/cayleygraph/shex/rdf"
	"github.com/cayleygraph/shex/shex/cond"
	"github.com/cayleygraph/shex/shex/constraint"
)

// errConstraintFailed is the TestFunc convention's sentinel: a cond.Single
// condition signals "did not match" via a non-nil error, not a panic or a
// side channel (shex/cond's error-as-no-match convention).
var errConstraintFailed = errors.New("ir: node constraint not satisfied")

// ShapeExpr is the IR sum type of spec §3: Empty | Ref | ShapeOr |
// ShapeAnd | ShapeNot | NodeConstraint | Shape | External. It mirrors
// the teacher's graph/shape.Shape interface style (a small method set
// implemented by several tagged structs) generalized from "builds a
// quadstore iterator" to "is one node of the compiled shape graph".
type ShapeExpr interface {
	isShapeExpr()
}

// EmptyExpr accepts any node unconditionally.
type EmptyExpr struct{}

func (EmptyExpr) isShapeExpr() {}

// RefExpr defers to another shape by index.
type RefExpr struct{ Idx ShapeLabelIdx }

func (RefExpr) isShapeExpr() {}

// OrExpr is conformant iff any child is; spec §4.8 evaluates lazily,
// first success wins.
type OrExpr struct{ Disjuncts []ShapeLabelIdx }

func (OrExpr) isShapeExpr() {}

// AndExpr is conformant iff every child is.
type AndExpr struct{ Conjuncts []ShapeLabelIdx }

func (AndExpr) isShapeExpr() {}

// NotExpr inverts its child's result; pendings produced while evaluating
// the child do not leak into the outer obligation set (spec §4.8).
type NotExpr struct{ Idx ShapeLabelIdx }

func (NotExpr) isShapeExpr() {}

// NodeConstraintExpr wraps the C6 composite check.
type NodeConstraintExpr struct {
	Constraint *constraint.NodeConstraint
}

func (NodeConstraintExpr) isShapeExpr() {}

// ExternalExpr is an opaque extension point; validation always treats it
// as conformant (spec §4.8).
type ExternalExpr struct{ URL string }

func (ExternalExpr) isShapeExpr() {}

// SemAct is an opaque semantic action payload. This repo never executes
// semantic actions (spec §1 Non-goals) — the field exists purely so a
// compiled schema round-trips the information an upstream AST carried.
type SemAct struct {
	Name  string
	Code  string
}

// Annotation is an opaque (predicate, object) pair attached to a shape,
// carried through for diagnostics but never interpreted.
type Annotation struct {
	Predicate rdf.Predicate
	Object    rdf.Node
}

// ShapeDef is the rich Shape variant of spec §3/§4.8: a closed triple
// expression with an extends chain and an RBE table over its triple
// constraints.
type ShapeDef struct {
	Closed      bool
	Extra       []rdf.IRI
	Extends     []ShapeLabelIdx
	Table       *table.Table[ShapeLabelIdx]
	SemActs     []SemAct
	Annotations []Annotation

	// componentRefs records, for each table.ComponentIdx, the
	// ShapeLabelIdx a successful match pends on. It is static
	// dependency-graph metadata only (graph.go's directEdges/References
	// walk it to build the compile-time shape graph) — the runtime
	// pending obligations a match actually produces flow through
	// table.MatchResult.Pending (C4's cond.Pending), not this map.
	componentRefs map[table.ComponentIdx][]ShapeLabelIdx
}

func (*ShapeDef) isShapeExpr() {}

// NewShapeDef returns an empty, open ShapeDef ready for components to be
// added via AddTripleConstraint.
func NewShapeDef() *ShapeDef {
	return &ShapeDef{
		Table:         table.New[ShapeLabelIdx](),
		componentRefs: make(map[table.ComponentIdx][]ShapeLabelIdx),
	}
}

// AddTripleConstraint registers one triple constraint: match triples on
// predicate pred whose object satisfies valueExpr (nil means "any
// node"), contributing obligations for refs (shape indices the object
// must additionally satisfy, e.g. a nested shape reference). The
// component's match condition is a cond.MatchCond (spec §4.4, C4): the
// value expression check is a cond.Single, each ref is a cond.Ref, and
// the whole is a cond.And so a successful match's Pending set unions
// every ref's obligation.
func (s *ShapeDef) AddTripleConstraint(pred rdf.Predicate, valueExpr *constraint.NodeConstraint, refs ...ShapeLabelIdx) table.ComponentIdx {
	test := func(_ rdf.Predicate, n rdf.Node) (cond.Pending[rdf.Node, ShapeLabelIdx], error) {
		if valueExpr != nil {
			failure, err := valueExpr.Check(n)
			if err != nil {
				return nil, err
			}
			if failure != nil {
				return nil, errConstraintFailed
			}
		}
		return cond.Empty[rdf.Node, ShapeLabelIdx](), nil
	}

	subs := make([]cond.MatchCond[rdf.Predicate, rdf.Node, ShapeLabelIdx], 0, len(refs)+1)
	subs = append(subs, cond.Single[rdf.Predicate, rdf.Node, ShapeLabelIdx]("valueExpr", test))
	for _, r := range refs {
		subs = append(subs, cond.Ref[rdf.Predicate, rdf.Node, ShapeLabelIdx](r))
	}

	idx := s.Table.AddComponent(pred, cond.And(subs...))
	if len(refs) > 0 {
		s.componentRefs[idx] = append([]ShapeLabelIdx(nil), refs...)
	}
	return idx
}

// closedPredicates is the union of this shape's own declared predicates
// and every predicate reached through its extends chain — spec §9's
// Open Question 2, resolved in favour of the union (see DESIGN.md).
func closedPredicates(s *Schema, idx ShapeLabelIdx, seen map[ShapeLabelIdx]bool) map[string]bool {
	out := make(map[string]bool)
	var walk func(i ShapeLabelIdx)
	walk = func(i ShapeLabelIdx) {
		if seen[i] {
			return
		}
		seen[i] = true
		expr, ok := s.Shape(i)
		if !ok {
			return
		}
		sd, ok := expr.(*ShapeDef)
		if !ok {
			return
		}
		for _, p := range sd.Table.Predicates() {
			out[string(p)] = true
		}
		for _, parent := range sd.Extends {
			walk(parent)
		}
	}
	walk(idx)
	return out
}

// ClosedPredicates returns the full set of predicates permitted on a
// focus node conforming to a closed shape at idx (spec §9 Open Question 2).
func (s *Schema) ClosedPredicates(idx ShapeLabelIdx) map[string]bool {
	return closedPredicates(s, idx, make(map[ShapeLabelIdx]bool))
}
