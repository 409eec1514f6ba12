// Package ir implements the compiled schema intermediate representation:
// an arena-indexed graph of shape expressions, plus the two-pass
// compiler from an external AST and the dependency/inheritance graphs
// built over it (spec §4.7, C7).
package ir

import "fmt"

// ShapeLabelIdx is an opaque dense non-negative integer handle into the
// shape arena. All inter-shape references inside the IR are expressed
// as indices, never by name, so cyclic schemas form integer graphs with
// no ownership cycles (spec §3, §9).
type ShapeLabelIdx int

func (i ShapeLabelIdx) String() string { return fmt.Sprintf("#%d", int(i)) }

type labelKind int

const (
	labelIri labelKind = iota
	labelBNode
	labelStart
)

// ShapeLabel names a shape the way the source schema did: an IRI, a
// blank node id, or the distinguished Start label. Anonymous (nested,
// inline) shapes have an index but no label.
type ShapeLabel struct {
	kind  labelKind
	iri   string
	bnode string
}

// LabelIri builds an IRI-named label.
func LabelIri(iri string) ShapeLabel { return ShapeLabel{kind: labelIri, iri: iri} }

// LabelBNode builds a blank-node-named label.
func LabelBNode(id string) ShapeLabel { return ShapeLabel{kind: labelBNode, bnode: id} }

// Start is the distinguished start-shape label.
var Start = ShapeLabel{kind: labelStart}

func (l ShapeLabel) IsStart() bool { return l.kind == labelStart }

func (l ShapeLabel) String() string {
	switch l.kind {
	case labelIri:
		return "<" + l.iri + ">"
	case labelBNode:
		return "_:" + l.bnode
	default:
		return "Start"
	}
}
