package ir

import (
	"github.com/cayleygraph/shex/rdf"
	"github.com/cayleygraph/shex/shex/constraint"
)

// CardAST is the AST's cardinality encoding (spec §6b): Min == nil
// defaults to 1, Max == nil defaults to 1, Max == -1 means unbounded,
// Max < -1 is malformed and rejected by the compiler.
type CardAST struct {
	Min *int
	Max *int
}

func (c CardAST) min() int {
	if c.Min == nil {
		return 1
	}
	return *c.Min
}

func (c CardAST) max() int {
	if c.Max == nil {
		return 1
	}
	return *c.Max
}

// ShapeExprAST is the external shape-expression AST node (spec §6b). It
// is a sum type over And/Or/Not/NodeConstraint/Shape/Ref/External,
// mirroring ShEx abstract syntax.
type ShapeExprAST struct {
	And            []ShapeExprAST
	Or             []ShapeExprAST
	Not            *ShapeExprAST
	NodeConstraint *constraint.NodeConstraint
	Shape          *ShapeAST
	Ref            *ShapeLabel
	External       *string

	// inline carries an already-allocated index for an expression that
	// was compiled once and is being referenced a second time (used
	// internally by the compiler; external callers leave it nil).
	inline *ShapeLabelIdx
}

// ShapeAST is the AST's Shape node.
type ShapeAST struct {
	Closed      bool
	Extra       []rdf.IRI
	Extends     []ShapeLabel
	Expression  *TripleExprAST
	SemActs     []SemAct
	Annotations []Annotation
}

// TripleExprAST is the external triple-expression AST node (spec §6b):
// EachOf | OneOf | TripleConstraint | TripleExprRef.
type TripleExprAST struct {
	EachOf           []TripleExprAST
	OneOf            []TripleExprAST
	TripleConstraint *TripleConstraintAST
	TripleExprRef    *string // reference to a named, reusable triple expression
	Card             CardAST
}

// TripleConstraintAST is one (predicate, value expression) pair with a
// cardinality, the leaf of a triple expression tree.
type TripleConstraintAST struct {
	Predicate rdf.Predicate
	Inverse   bool // inverse triple constraints are rejected, see compile.go
	ValueExpr *ShapeExprAST
	Card      CardAST
}

// SchemaAST is a whole external schema: labelled top-level shapes plus
// a start shape and any named, reusable triple expressions referenced
// by TripleExprRef.
type SchemaAST struct {
	SourceIRI     string
	Start         *ShapeExprAST
	Shapes        map[ShapeLabel]ShapeExprAST
	TripleExprs   map[string]TripleExprAST
}
