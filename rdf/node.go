// Package rdf defines the node, triple and literal types shared by the
// ShEx validation core.
package rdf

import (
	"crypto/sha1"
	"fmt"
	"hash"
	"sync"
)

// IRI is an opaque owned string representing an absolute IRI.
type IRI string

func (i IRI) String() string { return string(i) }

// HasPrefix reports whether the IRI starts with the given stem.
func (i IRI) HasPrefix(stem string) bool {
	return len(string(i)) >= len(stem) && string(i)[:len(stem)] == stem
}

// Predicate is a newtype over IRI used where a value is known to label
// an edge rather than a node.
type Predicate IRI

func (p Predicate) IRI() IRI       { return IRI(p) }
func (p Predicate) String() string { return string(p) }

// Node is the tagged union of values that can occupy a triple's subject
// or object position: Iri | BNode | Literal. The predicate position is a
// Predicate, not a Node.
type Node interface {
	isNode()
	String() string
}

// IriNode wraps an absolute IRI node.
type IriNode struct{ Value IRI }

func (IriNode) isNode()          {}
func (n IriNode) String() string { return "<" + string(n.Value) + ">" }

// BNodeNode is a blank node, identified by a locally-scoped id.
type BNodeNode struct{ ID string }

func (BNodeNode) isNode()          {}
func (n BNodeNode) String() string { return "_:" + n.ID }

// LiteralNode wraps a literal value.
type LiteralNode struct{ Value LiteralValue }

func (LiteralNode) isNode()          {}
func (n LiteralNode) String() string { return n.Value.String() }

// Triple is (subject, predicate, object); subject is restricted to
// Iri | BNode by construction (see NewTriple).
type Triple struct {
	Subject   Node
	Predicate Predicate
	Object    Node
}

// ErrInvalidSubject is returned by NewTriple when given a literal subject.
var ErrInvalidSubject = fmt.Errorf("rdf: triple subject must be an IRI or blank node")

// NewTriple builds a Triple, validating that the subject is not a literal.
func NewTriple(s Node, p Predicate, o Node) (Triple, error) {
	switch s.(type) {
	case IriNode, BNodeNode:
	default:
		return Triple{}, ErrInvalidSubject
	}
	return Triple{Subject: s, Predicate: p, Object: o}, nil
}

func (t Triple) String() string {
	return fmt.Sprintf("%v %v %v .", t.Subject, t.Predicate, t.Object)
}

// HashSize is the size of the digest returned by HashOf.
const HashSize = sha1.Size

var hashPool = sync.Pool{
	New: func() interface{} { return sha1.New() },
}

// HashOf computes a stable hash of a Node, used to key maps and sets that
// need value rather than pointer identity (e.g. the obligation result map
// and the work-queue bloom filter in shex/validate).
func HashOf(n Node) []byte {
	h := hashPool.Get().(hash.Hash)
	h.Reset()
	defer hashPool.Put(h)
	key := make([]byte, 0, HashSize)
	if n != nil {
		h.Write([]byte(n.String()))
	}
	return h.Sum(key)
}

// Key returns a string suitable for using Node as a map key (hash-based
// rather than pointer-based, since Node implementations are value types).
func Key(n Node) string { return string(HashOf(n)) }

// Equal reports whether two nodes denote the same RDF term.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case IriNode:
		bv, ok := b.(IriNode)
		return ok && av.Value == bv.Value
	case BNodeNode:
		bv, ok := b.(BNodeNode)
		return ok && av.ID == bv.ID
	case LiteralNode:
		bv, ok := b.(LiteralNode)
		return ok && av.Value.Equal(bv.Value)
	default:
		return false
	}
}

// NodeKind classifies a Node for the purposes of node-kind constraints.
type NodeKind int

const (
	AnyKind NodeKind = iota
	IriKind
	BNodeKind
	LiteralKind
	NonLiteralKind
)

func (k NodeKind) String() string {
	switch k {
	case IriKind:
		return "iri"
	case BNodeKind:
		return "bnode"
	case LiteralKind:
		return "literal"
	case NonLiteralKind:
		return "nonliteral"
	default:
		return "any"
	}
}

// Fits reports whether a node matches the given NodeKind.
func Fits(n Node, k NodeKind) bool {
	switch k {
	case AnyKind:
		return true
	case IriKind:
		_, ok := n.(IriNode)
		return ok
	case BNodeKind:
		_, ok := n.(BNodeNode)
		return ok
	case LiteralKind:
		_, ok := n.(LiteralNode)
		return ok
	case NonLiteralKind:
		switch n.(type) {
		case IriNode, BNodeNode:
			return true
		default:
			return false
		}
	default:
		return false
	}
}
