package ir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cayleygraph/shex/shex/constraint"
	"github.com/cayleygraph/shex/shex/ir"
)

func TestSchemaIndexAllocationIsSequential(t *testing.T) {
	s := ir.NewSchema()
	a := s.NewIndex(nil, "")
	b := s.NewIndex(nil, "")
	assert.Equal(t, ir.ShapeLabelIdx(0), a)
	assert.Equal(t, ir.ShapeLabelIdx(1), b)
	assert.Equal(t, 2, s.Len())
}

func TestReplaceShapeRejectsDoubleAssignment(t *testing.T) {
	s := ir.NewSchema()
	idx := s.NewIndex(nil, "")
	require.NoError(t, s.ReplaceShape(idx, ir.EmptyExpr{}))
	err := s.ReplaceShape(idx, ir.EmptyExpr{})
	require.Error(t, err)
	var target ir.ErrAlreadySet
	require.ErrorAs(t, err, &target)
}

func TestPositiveSelfRecursionIsAccepted(t *testing.T) {
	s := ir.NewSchema()
	idx := s.NewIndex(nil, "")
	require.NoError(t, s.ReplaceShape(idx, ir.RefExpr{Idx: idx}))
	assert.NoError(t, ir.CheckNoNegativeCycles(s))
}

// Negative-recursion rejection scenario (spec §8 scenario 3): a shape
// that negates itself must be rejected with a NegativeCycleError.
func TestNegativeSelfRecursionIsRejected(t *testing.T) {
	s := ir.NewSchema()
	idx := s.NewIndex(nil, "")
	require.NoError(t, s.ReplaceShape(idx, ir.NotExpr{Idx: idx}))
	err := ir.CheckNoNegativeCycles(s)
	require.Error(t, err)
	var target *ir.NegativeCycleError
	require.ErrorAs(t, err, &target)
}

func TestNegativeRecursionThroughIndirectCycleIsRejected(t *testing.T) {
	s := ir.NewSchema()
	a := s.NewIndex(nil, "")
	b := s.NewIndex(nil, "")
	require.NoError(t, s.ReplaceShape(a, ir.NotExpr{Idx: b}))
	require.NoError(t, s.ReplaceShape(b, ir.RefExpr{Idx: a}))
	err := ir.CheckNoNegativeCycles(s)
	require.Error(t, err)
}

func TestExtendsBuildsParentsAndDescendants(t *testing.T) {
	s := ir.NewSchema()
	parent := s.NewIndex(nil, "")
	child := s.NewIndex(nil, "")
	require.NoError(t, s.ReplaceShape(parent, ir.NewShapeDef()))
	childDef := ir.NewShapeDef()
	childDef.Extends = []ir.ShapeLabelIdx{parent}
	require.NoError(t, s.ReplaceShape(child, childDef))

	assert.Equal(t, []ir.ShapeLabelIdx{parent}, s.Parents(child))
	assert.Equal(t, []ir.ShapeLabelIdx{child}, s.Descendants(parent))
}

func TestCompileProducesSequentialSchemaFromLabelledShapes(t *testing.T) {
	labelA := ir.LabelIri("ex:A")
	ast := ir.SchemaAST{
		SourceIRI: "ex:schema",
		Shapes: map[ir.ShapeLabel]ir.ShapeExprAST{
			labelA: {NodeConstraint: &constraint.NodeConstraint{}},
		},
		Start: &ir.ShapeExprAST{Ref: &labelA},
	}
	schema, err := ir.Compile(ast)
	require.NoError(t, err)
	assert.Equal(t, 2, schema.Len())

	startIdx, ok := schema.FindLabel(ir.Start)
	require.True(t, ok)
	expr, ok := schema.Shape(startIdx)
	require.True(t, ok)
	ref, ok := expr.(ir.RefExpr)
	require.True(t, ok)

	aIdx, ok := schema.FindLabel(labelA)
	require.True(t, ok)
	assert.Equal(t, aIdx, ref.Idx)
}

func TestCompileRejectsNegativeRecursionThroughRef(t *testing.T) {
	labelA := ir.LabelIri("ex:A")
	ast := ir.SchemaAST{
		Shapes: map[ir.ShapeLabel]ir.ShapeExprAST{
			labelA: {Not: &ir.ShapeExprAST{Ref: &labelA}},
		},
	}
	_, err := ir.Compile(ast)
	require.Error(t, err)
	var target *ir.NegativeCycleError
	require.ErrorAs(t, err, &target)
}

func TestCompileRejectsInverseTripleConstraint(t *testing.T) {
	zero := 0
	one := 1
	labelA := ir.LabelIri("ex:A")
	ast := ir.SchemaAST{
		Shapes: map[ir.ShapeLabel]ir.ShapeExprAST{
			labelA: {Shape: &ir.ShapeAST{
				Expression: &ir.TripleExprAST{
					TripleConstraint: &ir.TripleConstraintAST{
						Predicate: "ex:p",
						Inverse:   true,
						Card:      ir.CardAST{Min: &zero, Max: &one},
					},
				},
			}},
		},
	}
	_, err := ir.Compile(ast)
	require.Error(t, err)
}

// EachOf cardinality compiles into an rbe.And of the right shape (spec
// §8 scenario 2).
func TestCompileEachOfProducesAndOfComponents(t *testing.T) {
	one := 1
	three := 3
	labelA := ir.LabelIri("ex:A")
	ast := ir.SchemaAST{
		Shapes: map[ir.ShapeLabel]ir.ShapeExprAST{
			labelA: {Shape: &ir.ShapeAST{
				Expression: &ir.TripleExprAST{
					EachOf: []ir.TripleExprAST{
						{TripleConstraint: &ir.TripleConstraintAST{Predicate: "ex:p", Card: ir.CardAST{Min: &one, Max: &three}}},
						{TripleConstraint: &ir.TripleConstraintAST{Predicate: "ex:q", Card: ir.CardAST{Min: &one, Max: &one}}},
					},
				},
			}},
		},
	}
	schema, err := ir.Compile(ast)
	require.NoError(t, err)
	idx, ok := schema.FindLabel(labelA)
	require.True(t, ok)
	expr, ok := schema.Shape(idx)
	require.True(t, ok)
	sd, ok := expr.(*ir.ShapeDef)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"ex:p", "ex:q"}, predicateStrings(sd))
	assert.Equal(t, "And[Symbol(0{1,3}) Symbol(1)]", sd.Table.RBE().String())
}

func predicateStrings(sd *ir.ShapeDef) []string {
	var out []string
	for _, p := range sd.Table.Predicates() {
		out = append(out, string(p))
	}
	return out
}
