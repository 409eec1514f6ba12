package ir

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/cayleygraph/shex/clog"
)

// Schema is the compiled IR: an arena of ShapeExpr indexed by
// ShapeLabelIdx, the label<->index mapping, and the per-index source
// IRI (for multi-file schemas). All entities are created during
// compilation, mutated only through ReplaceShape (once per index), and
// destroyed together with the owning Schema (spec §3 lifecycles).
type Schema struct {
	exprs      []ShapeExpr
	set        []bool
	labels     map[ShapeLabel]ShapeLabelIdx
	idxToLabel map[ShapeLabelIdx]ShapeLabel
	sources    map[ShapeLabelIdx]string
	debugTag   map[ShapeLabelIdx]string // diagnostics only, see NewIndex

	deps *DependencyGraph
	inh  *InheritanceGraph
}

// NewSchema returns an empty schema ready for compilation.
func NewSchema() *Schema {
	return &Schema{
		labels:     make(map[ShapeLabel]ShapeLabelIdx),
		idxToLabel: make(map[ShapeLabelIdx]ShapeLabel),
		sources:    make(map[ShapeLabelIdx]string),
		debugTag:   make(map[ShapeLabelIdx]string),
	}
}

// NewIndex allocates a fresh ShapeLabelIdx with no shape assigned yet
// (Empty placeholder), optionally associated with a label and a source
// IRI. Indices are allocated in a deterministic, input-order sequence —
// compiling the same schema twice yields identical index allocation
// (spec §8 round-trip property).
func (s *Schema) NewIndex(label *ShapeLabel, sourceIRI string) ShapeLabelIdx {
	idx := ShapeLabelIdx(len(s.exprs))
	s.exprs = append(s.exprs, EmptyExpr{})
	s.set = append(s.set, false)
	if label != nil {
		s.labels[*label] = idx
		s.idxToLabel[idx] = *label
	}
	if sourceIRI != "" {
		s.sources[idx] = sourceIRI
	}
	return idx
}

// NewForwardDeclaration allocates an index for a label referenced before
// its declaration is seen. The uuid debug tag is diagnostics-only — it
// never participates in ShapeLabelIdx equality or lookup.
func (s *Schema) NewForwardDeclaration(label ShapeLabel, sourceIRI string) ShapeLabelIdx {
	idx := s.NewIndex(&label, sourceIRI)
	s.debugTag[idx] = uuid.New().String()
	clog.Infof("ir: forward-declared %v as %v (tag %s)", label, idx, s.debugTag[idx])
	return idx
}

// ErrAlreadySet is returned by ReplaceShape when idx was already
// assigned an expression by an earlier ReplaceShape (even EmptyExpr).
type ErrAlreadySet struct{ Idx ShapeLabelIdx }

func (e ErrAlreadySet) Error() string {
	return "ir: shape " + e.Idx.String() + " was already compiled"
}

// ReplaceShape assigns expr to idx. Each index may be replaced exactly
// once away from the EmptyExpr placeholder (spec §3's "mutated only
// through replace_shape(idx, expr) once per index").
func (s *Schema) ReplaceShape(idx ShapeLabelIdx, expr ShapeExpr) error {
	if int(idx) < 0 || int(idx) >= len(s.exprs) {
		return errors.Errorf("ir: index %v out of range", idx)
	}
	if s.set[idx] {
		return ErrAlreadySet{Idx: idx}
	}
	s.exprs[idx] = expr
	s.set[idx] = true
	s.deps = nil // invalidate cached graphs
	s.inh = nil
	return nil
}

// Shape returns the ShapeExpr at idx.
func (s *Schema) Shape(idx ShapeLabelIdx) (ShapeExpr, bool) {
	if int(idx) < 0 || int(idx) >= len(s.exprs) {
		return nil, false
	}
	return s.exprs[idx], true
}

// Len returns the number of allocated indices.
func (s *Schema) Len() int { return len(s.exprs) }

// FindLabel returns the index registered for a label, (c).
func (s *Schema) FindLabel(l ShapeLabel) (ShapeLabelIdx, bool) {
	idx, ok := s.labels[l]
	return idx, ok
}

// FindShapeIdx returns the ShapeExpr for idx, (c).
func (s *Schema) FindShapeIdx(idx ShapeLabelIdx) (ShapeExpr, bool) { return s.Shape(idx) }

// SourceOf returns the source IRI an index was declared under, if any.
func (s *Schema) SourceOf(idx ShapeLabelIdx) (string, bool) {
	src, ok := s.sources[idx]
	return src, ok
}

// Labels iterates (shape_label, source_iri, shape_expr) triples, (c).
func (s *Schema) Labels() []struct {
	Label  ShapeLabel
	Source string
	Expr   ShapeExpr
} {
	out := make([]struct {
		Label  ShapeLabel
		Source string
		Expr   ShapeExpr
	}, 0, len(s.idxToLabel))
	for idx, label := range s.idxToLabel {
		expr, _ := s.Shape(idx)
		out = append(out, struct {
			Label  ShapeLabel
			Source string
			Expr   ShapeExpr
		}{Label: label, Source: s.sources[idx], Expr: expr})
	}
	return out
}
