package validate

import (
	"fmt"

	boom "github.com/tylertreat/BoomFilters"

	"github.com/cayleygraph/shex/clog"
	"github.com/cayleygraph/shex/rbe"
	"github.com/cayleygraph/shex/rdf"
	"github.com/cayleygraph/shex/shex/ir"
)

// obligationKey identifies one (node, shape index) pair. nodeKey is
// rdf.Key(node) rather than the node itself, since LiteralValue's
// Decimal field is not comparable via ==.
type obligationKey struct {
	nodeKey string
	idx     ir.ShapeLabelIdx
}

func (k obligationKey) bytes() []byte {
	return []byte(fmt.Sprintf("%s\x00%d", k.nodeKey, k.idx))
}

type association struct {
	node  rdf.Node
	label ir.ShapeLabel
	idx   ir.ShapeLabelIdx
}

// Validator resolves an obligation queue against a compiled Schema and
// an rdf.Source (spec §4.8). A single instance is single-threaded
// cooperative; independent instances may run concurrently over the
// same read-only Schema (spec §5).
type Validator struct {
	schema   *ir.Schema
	source   rdf.Source
	maxSteps int
	steps    int

	assoc []association

	nodeByKey  map[string]rdf.Node
	results    map[obligationKey]*Result
	inProgress map[obligationKey]bool

	// filter is a fast negative pre-filter ahead of the exact results
	// map: a Test() miss proves the obligation has never been resolved,
	// letting the common "first time we see this (node, shape)" path
	// skip a map lookup under contention-free single-threaded use too —
	// mirrors the teacher's qs.exists bloom-then-exact existence check.
	filter *boom.DeletableBloomFilter
}

// New returns a Validator bounded by maxSteps total obligation-resolution
// steps (spec §4.8/§5's StepsExceeded budget). maxSteps <= 0 means
// unbounded.
func New(schema *ir.Schema, source rdf.Source, maxSteps int) *Validator {
	return &Validator{
		schema:     schema,
		source:     source,
		maxSteps:   maxSteps,
		nodeByKey:  make(map[string]rdf.Node),
		results:    make(map[obligationKey]*Result),
		inProgress: make(map[obligationKey]bool),
		filter:     boom.NewDeletableBloomFilter(1_000_000, 8, 0.01),
	}
}

// ErrUnknownLabel is returned by AddAssociation when label was never
// declared in the compiled schema.
type ErrUnknownLabel struct{ Label ir.ShapeLabel }

func (e ErrUnknownLabel) Error() string { return "validate: unknown shape label " + e.Label.String() }

// AddAssociation records that node must be checked against the shape
// named label (spec §6d). Label may be ir.Start.
func (v *Validator) AddAssociation(node rdf.Node, label ir.ShapeLabel) error {
	idx, ok := v.schema.FindLabel(label)
	if !ok {
		return ErrUnknownLabel{Label: label}
	}
	v.assoc = append(v.assoc, association{node: node, label: label, idx: idx})
	return nil
}

// Validate resolves every recorded association and returns the
// resulting ResultMap (spec §6d). The error result is always nil:
// per-association failures, including a reference to a shape index the
// schema does not have, are reported as NonConformant entries in the map.
func (v *Validator) Validate() (*ResultMap, error) {
	rm := newResultMap()
	for _, a := range v.assoc {
		status, reason := v.resolve(a.node, a.idx)
		rm.set(a.node, a.label, &Result{Status: status, Reason: reason})
	}
	return rm, nil
}

func (v *Validator) resolve(n rdf.Node, idx ir.ShapeLabelIdx) (Status, *Reason) {
	key := obligationKey{nodeKey: rdf.Key(n), idx: idx}
	v.nodeByKey[key.nodeKey] = n

	if v.filter.Test(key.bytes()) {
		if r, ok := v.results[key]; ok {
			recordStatus(r.Status)
			return r.Status, r.Reason
		}
		mBloomMiss.Inc()
	} else {
		mBloomHit.Inc()
	}

	if v.inProgress[key] {
		// A cyclic obligation that hasn't bottomed out yet: report
		// Pending rather than recursing forever or stack-overflowing.
		return Pending, &Reason{Kind: KindBudget, Detail: "cyclic obligation encountered before resolution", Node: n}
	}

	v.steps++
	mStepsTotal.Inc()
	if v.maxSteps > 0 && v.steps > v.maxSteps {
		r := &Result{Status: Pending, Reason: &Reason{Kind: KindBudget, Detail: "max_steps exceeded", Node: n}}
		v.store(key, r)
		return r.Status, r.Reason
	}

	v.inProgress[key] = true
	mQueueDepth.Inc()
	status, reason := v.dispatch(n, idx)
	delete(v.inProgress, key)
	mQueueDepth.Dec()

	r := &Result{Status: status, Reason: reason}
	v.store(key, r)
	return status, reason
}

func (v *Validator) store(key obligationKey, r *Result) {
	v.results[key] = r
	v.filter.Add(key.bytes())
	recordStatus(r.Status)
}

func (v *Validator) dispatch(n rdf.Node, idx ir.ShapeLabelIdx) (Status, *Reason) {
	expr, ok := v.schema.Shape(idx)
	if !ok {
		return NonConformant, &Reason{Kind: KindStructuralRBE, Detail: fmt.Sprintf("shape index %v does not exist", idx), Node: n}
	}

	switch e := expr.(type) {
	case ir.EmptyExpr:
		return Conformant, nil

	case ir.RefExpr:
		return v.resolve(n, e.Idx)

	case ir.OrExpr:
		var failures []*Reason
		for _, d := range e.Disjuncts {
			status, reason := v.resolve(n, d)
			if status == Conformant {
				return Conformant, nil
			}
			if reason != nil {
				failures = append(failures, reason)
			}
		}
		return NonConformant, &Reason{Kind: KindStructuralRBE, Detail: "no disjunct was conformant", Node: n, Children: failures}

	case ir.AndExpr:
		for _, cidx := range e.Conjuncts {
			status, reason := v.resolve(n, cidx)
			if status != Conformant {
				return NonConformant, &Reason{Kind: KindStructuralRBE, Detail: "conjunct was not conformant", Node: n, Children: []*Reason{reason}}
			}
		}
		return Conformant, nil

	case ir.NotExpr:
		// Evaluated in a hypothetical world: the nested obligation is
		// still memoized globally (validation outcome for (n, j) is a
		// pure function of schema+source, independent of the caller),
		// but its reason never surfaces in the outer tree.
		status, _ := v.resolve(n, e.Idx)
		if status == Conformant {
			return NonConformant, &Reason{Kind: KindStructuralRBE, Detail: "negated shape was conformant", Node: n}
		}
		return Conformant, nil

	case ir.NodeConstraintExpr:
		failure, err := e.Constraint.Check(n)
		if err != nil {
			return NonConformant, &Reason{Kind: KindNodeConstraint, Detail: err.Error(), Node: n}
		}
		if failure != nil {
			return NonConformant, &Reason{Kind: KindNodeConstraint, Detail: failure.Detail, Node: n}
		}
		return Conformant, nil

	case ir.ExternalExpr:
		return Conformant, nil

	case *ir.ShapeDef:
		return v.evalShape(n, idx, e, newConsumedSet())

	default:
		return NonConformant, &Reason{Kind: KindStructuralRBE, Detail: "unrecognized shape expression", Node: n}
	}
}

// consumedSet tracks, per predicate, which object keys an extends chain
// has already accounted for — so a parent's rbe_table consumes only the
// unmatched remainder (spec §4.8.f).
type consumedSet struct {
	m map[rdf.Predicate]map[string]bool
}

func newConsumedSet() *consumedSet { return &consumedSet{m: make(map[rdf.Predicate]map[string]bool)} }

func (c *consumedSet) has(p rdf.Predicate, objKey string) bool { return c.m[p][objKey] }

func (c *consumedSet) add(p rdf.Predicate, objKey string) {
	if c.m[p] == nil {
		c.m[p] = make(map[string]bool)
	}
	c.m[p][objKey] = true
}

func (v *Validator) evalShape(n rdf.Node, idx ir.ShapeLabelIdx, sd *ir.ShapeDef, consumed *consumedSet) (Status, *Reason) {
	closedPreds := v.schema.ClosedPredicates(idx)
	predsOfInterest := make([]rdf.Predicate, 0, len(closedPreds))
	for p := range closedPreds {
		predsOfInterest = append(predsOfInterest, rdf.Predicate(p))
	}

	mSourceCalls.WithLabelValues("OutgoingArcsFromList").Inc()
	matched, _, err := v.source.OutgoingArcsFromList(n, predsOfInterest)
	if err != nil {
		return NonConformant, &Reason{Kind: KindRDFSource, Detail: err.Error(), Node: n}
	}

	if sd.Closed {
		mSourceCalls.WithLabelValues("OutgoingArcs").Inc()
		allArcs, err := v.source.OutgoingArcs(n)
		if err != nil {
			return NonConformant, &Reason{Kind: KindRDFSource, Detail: err.Error(), Node: n}
		}
		extra := make(map[rdf.IRI]bool, len(sd.Extra))
		for _, x := range sd.Extra {
			extra[x] = true
		}
		for p := range allArcs {
			if closedPreds[string(p)] || extra[rdf.IRI(p)] {
				continue
			}
			pp := p
			return NonConformant, &Reason{Kind: KindClosedShape, Detail: "extra property not permitted in closed shape", Node: n, Predicate: &pp}
		}
	}

	objMap := make(map[rdf.Predicate][]rdf.Node)
	for p, objs := range matched {
		for key, o := range objs {
			if consumed.has(p, key) {
				continue
			}
			objMap[p] = append(objMap[p], o)
		}
	}

	result := sd.Table.Match(objMap)
	ok, residual := rbe.MatchBag(sd.Table.RBE(), result.Bag, !sd.Closed, sd.Table.Controlled())
	if !ok {
		return NonConformant, &Reason{Kind: KindStructuralRBE, Detail: "triple expression did not match: " + residual.String(), Node: n}
	}

	for ci, objs := range result.MatchedObjects {
		p := sd.Table.PredicateOf(ci)
		for _, o := range objs {
			consumed.add(p, rdf.Key(o))
		}
	}

	var nested []*Reason
	for obj, refs := range result.Pending {
		for ref := range refs {
			status, reason := v.resolve(obj, ref)
			if status != Conformant {
				nested = append(nested, reason)
			}
		}
	}
	if len(nested) > 0 {
		return NonConformant, &Reason{Kind: KindStructuralRBE, Detail: "a matched object did not satisfy its referenced shape", Node: n, Children: nested}
	}

	for _, parent := range sd.Extends {
		pexpr, ok := v.schema.Shape(parent)
		if !ok {
			continue
		}
		if psd, ok := pexpr.(*ir.ShapeDef); ok {
			status, reason := v.evalShape(n, parent, psd, consumed)
			if status != Conformant {
				return NonConformant, &Reason{Kind: KindStructuralRBE, Detail: "extends parent was not conformant", Node: n, Children: []*Reason{reason}}
			}
			continue
		}
		status, reason := v.resolve(n, parent)
		if status != Conformant {
			return NonConformant, reason
		}
	}

	if clog.V(2) {
		clog.Infof("validate: shape %v conformant for %v", idx, n)
	}
	return Conformant, nil
}
