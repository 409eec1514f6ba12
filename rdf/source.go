package rdf

import "github.com/pkg/errors"

// SourceError wraps a backend-specific error encountered while querying
// an rdf.Source, adding the operation that failed.
type SourceError struct {
	Op  string
	Err error
}

func (e *SourceError) Error() string { return "rdf source: " + e.Op + ": " + e.Err.Error() }
func (e *SourceError) Unwrap() error { return e.Err }

func wrapSourceErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &SourceError{Op: op, Err: errors.WithStack(err)}
}

// WrapSourceErr exposes wrapSourceErr to Source implementations living
// outside this package so every backend reports errors uniformly.
func WrapSourceErr(op string, err error) error { return wrapSourceErr(op, err) }

// TripleIterator is a lazy, possibly-error-producing iterator over
// triples, modeled after the teacher's own iterator contracts
// (graph/iterator) but trimmed to the four calls a caller needs.
type TripleIterator interface {
	// Next advances the iterator. It returns false at end of stream or
	// on error; callers must check Err after a false return.
	Next() bool
	Triple() Triple
	Err() error
	Close() error
}

// Source is the external RDF graph collaborator the validator pulls
// triples from (spec §6a). Implementations (in-memory stores, SPARQL
// endpoints, ...) live outside this module.
type Source interface {
	// TriplesMatching returns triples matching the given pattern;
	// a nil component in the pattern is a wildcard.
	TriplesMatching(subject *Node, predicate *Predicate, object *Node) (TripleIterator, error)

	// OutgoingArcs returns every outgoing arc from subject, grouped by
	// predicate.
	OutgoingArcs(subject Node) (map[Predicate]map[string]Node, error)

	// OutgoingArcsFromList is like OutgoingArcs but restricted to preds;
	// it also returns the subset of preds for which no arc was found
	// ("remainder"), letting callers distinguish "absent" from "empty".
	OutgoingArcsFromList(subject Node, preds []Predicate) (matched map[Predicate]map[string]Node, remainder []Predicate, err error)

	// ObjectsFor returns the set of objects reachable from subject via
	// predicate, keyed by their hash so duplicates collapse.
	ObjectsFor(subject Node, predicate Predicate) (map[string]Node, error)
}
