// Package validate implements the shape validator (spec §4.8, C8): an
// obligation queue over (node, shape index) pairs, driven by the C7 IR
// and C2/C3/C6 matching machinery, reading triples from an rdf.Source.
package validate

import "github.com/cayleygraph/shex/rdf"

// Kind enumerates the validation-time error taxonomy (spec §7, kinds
// 2-4 and 6-7; kind 1 lives in cardinality/rbe, kind 5 in shex/ir).
type Kind int

const (
	KindStructuralRBE Kind = iota
	KindNodeConstraint
	KindClosedShape
	KindBudget
	KindRDFSource
)

func (k Kind) String() string {
	switch k {
	case KindStructuralRBE:
		return "StructuralRBE"
	case KindNodeConstraint:
		return "NodeConstraint"
	case KindClosedShape:
		return "ClosedShape"
	case KindBudget:
		return "Budget"
	case KindRDFSource:
		return "RDFSource"
	default:
		return "Unknown"
	}
}

// Reason is one leaf or interior node of the reason tree a failed
// obligation produces (spec §7: "each failed obligation produces one
// reason tree whose leaves name the concrete RDF offender").
type Reason struct {
	Kind      Kind
	Detail    string
	Node      rdf.Node
	Predicate *rdf.Predicate
	Children  []*Reason
}

func (r *Reason) Error() string {
	if r == nil {
		return ""
	}
	return r.Kind.String() + ": " + r.Detail
}
