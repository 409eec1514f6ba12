package rbe

import (
	"encoding/json"

	"github.com/cayleygraph/shex/cardinality"
)

// wireRBE mirrors quad.Quad's own json.Marshaler pattern: a flat,
// stable, round-trippable representation of the recursive sum type.
type wireRBE struct {
	Kind     string       `json:"kind"`
	Err      string       `json:"err,omitempty"`
	Sym      string       `json:"sym,omitempty"`
	Min      int          `json:"min,omitempty"`
	Max      int          `json:"max,omitempty"`
	Children []*wireRBE   `json:"children,omitempty"`
	Child    *wireRBE     `json:"child,omitempty"`
	RMin     int          `json:"rmin,omitempty"`
	RMax     int          `json:"rmax,omitempty"`
	HasRep   bool         `json:"has_repeat,omitempty"`
}

var kindNames = map[kind]string{
	kEmpty: "Empty", kFail: "Fail", kSymbol: "Symbol",
	kAnd: "And", kOr: "Or", kStar: "Star", kPlus: "Plus", kRepeat: "Repeat",
}

var nameKinds = func() map[string]kind {
	m := make(map[string]kind, len(kindNames))
	for k, v := range kindNames {
		m[v] = k
	}
	return m
}()

func toWire(r *RBE[string]) *wireRBE {
	if r == nil {
		return &wireRBE{Kind: "Empty"}
	}
	w := &wireRBE{Kind: kindNames[r.kind]}
	switch r.kind {
	case kFail:
		w.Err = r.errKind.String()
		for _, c := range r.cause {
			w.Children = append(w.Children, toWire(c))
		}
	case kSymbol:
		w.Sym = r.sym
		w.Min, w.Max = r.card.Min, r.card.Max
	case kAnd, kOr:
		for _, c := range r.children {
			w.Children = append(w.Children, toWire(c))
		}
	case kStar, kPlus:
		w.Child = toWire(r.child)
	case kRepeat:
		w.Child = toWire(r.child)
		w.RMin, w.RMax = r.repeat.Min, r.repeat.Max
		w.HasRep = true
	}
	return w
}

func fromWire(w *wireRBE) (*RBE[string], error) {
	if w == nil {
		return Empty[string](), nil
	}
	k, ok := nameKinds[w.Kind]
	if !ok {
		return nil, &unknownKindError{w.Kind}
	}
	switch k {
	case kEmpty:
		return Empty[string](), nil
	case kFail:
		var causes []*RBE[string]
		for _, c := range w.Children {
			cr, err := fromWire(c)
			if err != nil {
				return nil, err
			}
			causes = append(causes, cr)
		}
		return FailWith[string](errorKindFromString(w.Err), causes...), nil
	case kSymbol:
		return Symbol(w.Sym, cardinality.Cardinality{Min: w.Min, Max: w.Max}), nil
	case kAnd:
		children, err := fromWireChildren(w.Children)
		if err != nil {
			return nil, err
		}
		return And(children...), nil
	case kOr:
		children, err := fromWireChildren(w.Children)
		if err != nil {
			return nil, err
		}
		return Or(children...), nil
	case kStar:
		c, err := fromWire(w.Child)
		if err != nil {
			return nil, err
		}
		return Star(c), nil
	case kPlus:
		c, err := fromWire(w.Child)
		if err != nil {
			return nil, err
		}
		return Plus(c), nil
	case kRepeat:
		c, err := fromWire(w.Child)
		if err != nil {
			return nil, err
		}
		return &RBE[string]{kind: kRepeat, child: c, repeat: cardinality.Cardinality{Min: w.RMin, Max: w.RMax}, hasRepeat: true}, nil
	default:
		return nil, &unknownKindError{w.Kind}
	}
}

func fromWireChildren(ws []*wireRBE) ([]*RBE[string], error) {
	out := make([]*RBE[string], 0, len(ws))
	for _, w := range ws {
		c, err := fromWire(w)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

type unknownKindError struct{ kind string }

func (e *unknownKindError) Error() string { return "rbe: unknown serialized kind " + e.kind }

var errorKindNames = map[ErrorKind]string{
	ErrCardinalityFail:              "CardinalityFail",
	ErrMaxCardinalityZeroFoundValue: "MaxCardinalityZeroFoundValue",
	ErrUnexpectedEmpty:              "UnexpectedEmpty",
	ErrUnexpectedSymbol:             "UnexpectedSymbol",
	ErrOrValuesFail:                 "OrValuesFail",
	ErrCardinalityZeroZeroDeriv:     "CardinalityZeroZeroDeriv",
}

func errorKindFromString(s string) ErrorKind {
	for k, v := range errorKindNames {
		if v == s {
			return k
		}
	}
	return NoError
}

// MarshalJSONString serializes r (an RBE over string symbols) to a
// stable, round-trippable JSON form, mirroring quad.Quad's own
// MarshalJSON.
func MarshalJSONString(r *RBE[string]) ([]byte, error) {
	return json.Marshal(toWire(r))
}

// UnmarshalJSONString is the inverse of MarshalJSONString.
func UnmarshalJSONString(data []byte) (*RBE[string], error) {
	var w wireRBE
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	return fromWire(&w)
}
