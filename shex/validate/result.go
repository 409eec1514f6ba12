package validate

import (
	"github.com/cayleygraph/shex/rdf"
	"github.com/cayleygraph/shex/shex/ir"
)

// Status is one obligation's outcome (spec §4.8/§6d).
type Status int

const (
	Conformant Status = iota
	NonConformant
	Pending
)

func (s Status) String() string {
	switch s {
	case Conformant:
		return "Conformant"
	case NonConformant:
		return "NonConformant"
	case Pending:
		return "Pending"
	default:
		return "Unknown"
	}
}

// Result is one (node, shape_label) entry of a ResultMap.
type Result struct {
	Status Status
	Reason *Reason // nil when Conformant
}

type resultKey struct {
	nodeKey string
	label   ir.ShapeLabel
}

// ResultMap is the validator's output (spec §6d): (node, shape_label) ->
// {Conformant | NonConformant(reason_tree) | Pending}. Pending is
// present only when max_steps was exceeded while resolving that
// association.
type ResultMap struct {
	entries map[resultKey]*Result
	nodes   map[string]rdf.Node
}

func newResultMap() *ResultMap {
	return &ResultMap{entries: make(map[resultKey]*Result), nodes: make(map[string]rdf.Node)}
}

func (m *ResultMap) set(n rdf.Node, label ir.ShapeLabel, r *Result) {
	key := resultKey{nodeKey: rdf.Key(n), label: label}
	m.entries[key] = r
	m.nodes[key.nodeKey] = n
}

// Get returns the result recorded for (n, label), if any.
func (m *ResultMap) Get(n rdf.Node, label ir.ShapeLabel) (*Result, bool) {
	r, ok := m.entries[resultKey{nodeKey: rdf.Key(n), label: label}]
	return r, ok
}

// Entry names one row of a ResultMap for iteration.
type Entry struct {
	Node   rdf.Node
	Label  ir.ShapeLabel
	Result *Result
}

// Entries returns every (node, shape_label, result) row, in no
// particular order (validation outcome never depends on iteration
// order — spec §5).
func (m *ResultMap) Entries() []Entry {
	out := make([]Entry, 0, len(m.entries))
	for key, r := range m.entries {
		out = append(out, Entry{Node: m.nodes[key.nodeKey], Label: key.label, Result: r})
	}
	return out
}
