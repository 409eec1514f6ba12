package ir

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"

	"github.com/cayleygraph/shex/cardinality"
	"github.com/cayleygraph/shex/clog"
	"github.com/cayleygraph/shex/rbe"
	"github.com/cayleygraph/shex/rbe/table"
	"github.com/cayleygraph/shex/rdf"
	"github.com/cayleygraph/shex/shex/constraint"
)

// compiler carries the state needed across the two passes of spec
// §4.7: the schema being built and the source IRI under compilation.
type compiler struct {
	schema    *Schema
	sourceIRI string
	named     map[string]TripleExprAST
}

// ErrMissingLabel is a schema compilation error (spec §7, kind 5): an
// extends/Ref target label was never declared anywhere in the schema.
type ErrMissingLabel struct{ Label ShapeLabel }

func (e ErrMissingLabel) Error() string {
	return "ir: reference to undeclared label " + e.Label.String()
}

// ErrUnknownTripleExprRef is a schema compilation error: a
// TripleExprRef names a triple expression the schema never declared.
type ErrUnknownTripleExprRef struct{ Name string }

func (e ErrUnknownTripleExprRef) Error() string {
	return "ir: reference to undeclared triple expression " + e.Name
}

// Compile runs the two-pass compiler of spec §4.7 over ast, producing a
// Schema whose dependency/inheritance graphs have already been checked
// for negative recursion.
func Compile(ast SchemaAST) (*Schema, error) {
	c := &compiler{
		schema:    NewSchema(),
		sourceIRI: ast.SourceIRI,
		named:     ast.TripleExprs,
	}

	// Pass 1: label collection. Allocate an index for every top-level
	// labelled shape before any translation happens, so forward and
	// backward references within the same source resolve uniformly.
	// Labels are visited in sorted order so that index allocation does not
	// depend on map iteration order.
	labels := make([]ShapeLabel, 0, len(ast.Shapes))
	for label := range ast.Shapes {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i].String() < labels[j].String() })
	indices := make(map[ShapeLabel]ShapeLabelIdx, len(ast.Shapes))
	for _, label := range labels {
		indices[label] = c.schema.NewIndex(labelPtr(label), c.sourceIRI)
	}
	var startIdx ShapeLabelIdx
	if ast.Start != nil {
		startIdx = c.schema.NewIndex(labelPtr(Start), c.sourceIRI)
	}

	// Pass 2: recursive-descent translation.
	for _, label := range labels {
		idx := indices[label]
		if err := c.compileTop(idx, ast.Shapes[label]); err != nil {
			return nil, errors.Wrapf(err, "ir: compiling shape %v", label)
		}
	}
	if ast.Start != nil {
		if err := c.compileTop(startIdx, *ast.Start); err != nil {
			return nil, errors.Wrap(err, "ir: compiling start shape")
		}
	}

	clog.Infof("ir: compiled %d shape indices from %s", c.schema.Len(), c.sourceIRI)

	// Every top-level label was allocated in pass 1, so a forward
	// declaration that is still unassigned names an undeclared label.
	for i := 0; i < c.schema.Len(); i++ {
		idx := ShapeLabelIdx(i)
		if _, fwd := c.schema.debugTag[idx]; fwd && !c.schema.set[idx] {
			return nil, ErrMissingLabel{Label: c.schema.idxToLabel[idx]}
		}
	}

	if err := CheckNoNegativeCycles(c.schema); err != nil {
		return nil, err
	}
	return c.schema, nil
}

func labelPtr(l ShapeLabel) *ShapeLabel { return &l }

// compileTop compiles ast into the already-allocated index idx.
func (c *compiler) compileTop(idx ShapeLabelIdx, ast ShapeExprAST) error {
	expr, err := c.compileExpr(ast)
	if err != nil {
		return err
	}
	if err := c.schema.ReplaceShape(idx, expr); err != nil {
		// A Ref AST node resolves directly to an existing index rather
		// than allocating its own; replacing an already-set index here
		// would be a compiler bug, not a schema error.
		return errors.Wrap(err, "ir: internal compiler error")
	}
	return nil
}

// compileToIndex returns the index ast should be reached through: the
// resolved label index for a bare Ref, or a freshly allocated anonymous
// index for anything else (spec §4.7's "nested anonymous shapes
// allocate new indices via new_index()").
func (c *compiler) compileToIndex(ast ShapeExprAST) (ShapeLabelIdx, error) {
	if ast.inline != nil {
		return *ast.inline, nil
	}
	if ast.Ref != nil {
		return c.resolveLabel(*ast.Ref)
	}
	idx := c.schema.NewIndex(nil, c.sourceIRI)
	if err := c.compileTop(idx, ast); err != nil {
		return 0, err
	}
	return idx, nil
}

func (c *compiler) resolveLabel(label ShapeLabel) (ShapeLabelIdx, error) {
	if idx, ok := c.schema.FindLabel(label); ok {
		return idx, nil
	}
	return c.schema.NewForwardDeclaration(label, c.sourceIRI), nil
}

func (c *compiler) compileExpr(ast ShapeExprAST) (ShapeExpr, error) {
	switch {
	case len(ast.And) > 0:
		idxs := make([]ShapeLabelIdx, 0, len(ast.And))
		for _, child := range ast.And {
			idx, err := c.compileToIndex(child)
			if err != nil {
				return nil, err
			}
			idxs = append(idxs, idx)
		}
		return AndExpr{Conjuncts: idxs}, nil

	case len(ast.Or) > 0:
		idxs := make([]ShapeLabelIdx, 0, len(ast.Or))
		for _, child := range ast.Or {
			idx, err := c.compileToIndex(child)
			if err != nil {
				return nil, err
			}
			idxs = append(idxs, idx)
		}
		return OrExpr{Disjuncts: idxs}, nil

	case ast.Not != nil:
		idx, err := c.compileToIndex(*ast.Not)
		if err != nil {
			return nil, err
		}
		return NotExpr{Idx: idx}, nil

	case ast.NodeConstraint != nil:
		return NodeConstraintExpr{Constraint: ast.NodeConstraint}, nil

	case ast.Shape != nil:
		return c.compileShape(ast.Shape)

	case ast.Ref != nil:
		idx, err := c.resolveLabel(*ast.Ref)
		if err != nil {
			return nil, err
		}
		return RefExpr{Idx: idx}, nil

	case ast.External != nil:
		return ExternalExpr{URL: *ast.External}, nil

	default:
		return EmptyExpr{}, nil
	}
}

func (c *compiler) compileShape(sa *ShapeAST) (*ShapeDef, error) {
	sd := NewShapeDef()
	sd.Closed = sa.Closed
	sd.Extra = append([]rdf.IRI(nil), sa.Extra...)
	sd.SemActs = sa.SemActs
	sd.Annotations = sa.Annotations

	for _, parent := range sa.Extends {
		idx, err := c.resolveLabel(parent)
		if err != nil {
			return nil, err
		}
		sd.Extends = append(sd.Extends, idx)
	}

	if sa.Expression != nil {
		outer, err := c.compileTripleExpr(sd, *sa.Expression)
		if err != nil {
			return nil, err
		}
		sd.Table.WithRBE(outer)
	} else {
		sd.Table.WithRBE(rbe.Empty[table.ComponentIdx]())
	}
	return sd, nil
}

func (c *compiler) compileTripleExpr(sd *ShapeDef, te TripleExprAST) (*rbe.RBE[table.ComponentIdx], error) {
	switch {
	case len(te.EachOf) > 0:
		children := make([]*rbe.RBE[table.ComponentIdx], 0, len(te.EachOf))
		for _, sub := range te.EachOf {
			r, err := c.compileTripleExpr(sd, sub)
			if err != nil {
				return nil, err
			}
			children = append(children, r)
		}
		return c.applyGroupCard(rbe.And(children...), te.Card)

	case len(te.OneOf) > 0:
		children := make([]*rbe.RBE[table.ComponentIdx], 0, len(te.OneOf))
		for _, sub := range te.OneOf {
			r, err := c.compileTripleExpr(sd, sub)
			if err != nil {
				return nil, err
			}
			children = append(children, r)
		}
		return c.applyGroupCard(rbe.Or(children...), te.Card)

	case te.TripleConstraint != nil:
		return c.compileTripleConstraint(sd, te.TripleConstraint)

	case te.TripleExprRef != nil:
		sub, ok := c.named[*te.TripleExprRef]
		if !ok {
			return nil, ErrUnknownTripleExprRef{Name: *te.TripleExprRef}
		}
		inner, err := c.compileTripleExpr(sd, sub)
		if err != nil {
			return nil, err
		}
		return c.applyGroupCard(inner, te.Card)

	default:
		return rbe.Empty[table.ComponentIdx](), nil
	}
}

func (c *compiler) compileTripleConstraint(sd *ShapeDef, tc *TripleConstraintAST) (*rbe.RBE[table.ComponentIdx], error) {
	if tc.Inverse {
		// Inverse triple constraints walk incoming arcs instead of
		// outgoing ones; the RDF source contract (spec §6a) exposes
		// only outgoing-arc lookups, so inverse constraints are out of
		// scope for this core.
		return nil, fmt.Errorf("ir: inverse triple constraints are not supported")
	}

	var nc *constraint.NodeConstraint
	var refs []ShapeLabelIdx
	if tc.ValueExpr != nil {
		var err error
		nc, refs, err = c.compileValueExpr(*tc.ValueExpr)
		if err != nil {
			return nil, err
		}
	}

	card, err := cardFromAST(tc.Card)
	if err != nil {
		return nil, err
	}
	ci := sd.AddTripleConstraint(tc.Predicate, nc, refs...)
	return rbe.Symbol(ci, card), nil
}

// compileValueExpr splits a triple constraint's value expression into
// the part C6's NodeConstraint check can evaluate directly, and the
// part that needs a nested shape obligation (anything beyond a bare
// NodeConstraint: Ref, Shape, And, Or, Not, External).
func (c *compiler) compileValueExpr(ast ShapeExprAST) (*constraint.NodeConstraint, []ShapeLabelIdx, error) {
	if isPlainNodeConstraint(ast) {
		return ast.NodeConstraint, nil, nil
	}
	idx, err := c.compileToIndex(ast)
	if err != nil {
		return nil, nil, err
	}
	return nil, []ShapeLabelIdx{idx}, nil
}

func isPlainNodeConstraint(ast ShapeExprAST) bool {
	return ast.NodeConstraint != nil && ast.And == nil && ast.Or == nil &&
		ast.Not == nil && ast.Shape == nil && ast.Ref == nil && ast.External == nil
}

func (c *compiler) applyGroupCard(inner *rbe.RBE[table.ComponentIdx], card CardAST) (*rbe.RBE[table.ComponentIdx], error) {
	cd, err := cardFromAST(card)
	if err != nil {
		return nil, err
	}
	if cd.IsOneOne() {
		return inner, nil
	}
	return rbe.Repeat(inner, cd)
}

func cardFromAST(c CardAST) (cardinality.Cardinality, error) {
	min, max := c.min(), c.max()
	if max < -1 {
		return cardinality.Cardinality{}, fmt.Errorf("ir: malformed cardinality max=%d", max)
	}
	if max == -1 {
		max = cardinality.Unbounded
	}
	return cardinality.New(min, max)
}
