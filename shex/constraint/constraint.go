// Package constraint implements the composite node-kind / datatype /
// facet / value-set check (spec §4.6, C6).
package constraint

import (
	"github.com/pkg/errors"

	"github.com/cayleygraph/shex/rdf"
	"github.com/cayleygraph/shex/shex/valueset"
)

// Kind enumerates the failure modes a NodeConstraint check can produce
// (spec §7, kind 3).
type Kind int

const (
	OK Kind = iota
	WrongNodeKind
	WrongDatatype
	FailedFacet
	OutsideValueSet
)

// Failure describes why a node failed a NodeConstraint, naming the
// concrete RDF offender as spec §7 requires.
type Failure struct {
	Kind   Kind
	Node   rdf.Node
	Facet  *XsFacet
	Detail string
}

func (f *Failure) Error() string {
	return "node constraint: " + f.Detail
}

// NodeConstraint is the composite described in spec §3/§4.6: a
// short-circuit conjunction over node-kind, datatype, facets and a
// value-set.
type NodeConstraint struct {
	NodeKind rdf.NodeKind // rdf.AnyKind means "no constraint"
	Datatype *rdf.IRI
	Facets   []XsFacet
	Values   *valueset.ValueSet
}

// Check evaluates the composite against n, short-circuiting at the
// first failing conjunct. A nil *Failure means conformant.
func (c *NodeConstraint) Check(n rdf.Node) (*Failure, error) {
	if c.NodeKind != rdf.AnyKind && !rdf.Fits(n, c.NodeKind) {
		return &Failure{Kind: WrongNodeKind, Node: n, Detail: "expected node kind " + c.NodeKind.String()}, nil
	}
	if c.Datatype != nil {
		ln, ok := n.(rdf.LiteralNode)
		if !ok {
			return &Failure{Kind: WrongDatatype, Node: n, Detail: "expected a literal of datatype " + string(*c.Datatype)}, nil
		}
		if ln.Value.IsWrongDatatype() {
			// A literal whose lexical form failed to validate always
			// fails datatype(d), even when d matches the declared (but
			// invalid) datatype — spec §8 boundary behaviour.
			return &Failure{Kind: WrongDatatype, Node: n, Detail: "literal lexical form is invalid for its declared datatype"}, nil
		}
		if ln.Value.EffectiveDatatype() != *c.Datatype {
			return &Failure{Kind: WrongDatatype, Node: n, Detail: "datatype mismatch: expected " + string(*c.Datatype)}, nil
		}
	}
	for i := range c.Facets {
		f := &c.Facets[i]
		ok, err := f.Check(n)
		if err != nil {
			return nil, errors.Wrap(err, "node constraint: facet check failed")
		}
		if !ok {
			return &Failure{Kind: FailedFacet, Node: n, Facet: f, Detail: "facet check failed"}, nil
		}
	}
	if c.Values != nil {
		if !c.Values.CheckValue(n) {
			return &Failure{Kind: OutsideValueSet, Node: n, Detail: "node is outside the declared value set"}, nil
		}
	}
	return nil, nil
}
