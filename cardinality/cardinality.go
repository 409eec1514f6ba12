// Package cardinality implements the closed {min, max} algebra used by
// triple-constraint and RBE repeat quantifiers (spec §4.1).
package cardinality

import "fmt"

// Unbounded marks a Cardinality's Max as having no upper limit.
const Unbounded = -1

// Cardinality is a closed interval [Min, Max] with Max == Unbounded
// meaning "no upper bound". Invariant: Min <= Max whenever Max is finite.
type Cardinality struct {
	Min int
	Max int
}

// ErrLowerBoundBiggerMax is returned by New when min > max (finite case).
type ErrLowerBoundBiggerMax struct{ Min, Max int }

func (e ErrLowerBoundBiggerMax) Error() string {
	return fmt.Sprintf("cardinality: lower bound %d is bigger than upper bound %d", e.Min, e.Max)
}

// New builds a Cardinality, rejecting a finite range with min > max.
func New(min, max int) (Cardinality, error) {
	if max != Unbounded && min > max {
		return Cardinality{}, ErrLowerBoundBiggerMax{Min: min, Max: max}
	}
	return Cardinality{Min: min, Max: max}, nil
}

// MustNew is New, panicking on error; only meant for the package-level
// singleton constructors below and for literal schema constants.
func MustNew(min, max int) Cardinality {
	c, err := New(min, max)
	if err != nil {
		panic(err)
	}
	return c
}

// The well-known ShEx cardinality singletons.
var (
	ZeroZero       = MustNew(0, 0)
	OneOne         = MustNew(1, 1)
	ZeroOne        = MustNew(0, 1)       // ?
	ZeroUnbounded  = MustNew(0, Unbounded) // *
	OneUnbounded   = MustNew(1, Unbounded) // +
)

// Contains reports whether n falls within [Min, Max].
func (c Cardinality) Contains(n int) bool {
	if n < c.Min {
		return false
	}
	if c.Max == Unbounded {
		return true
	}
	return n <= c.Max
}

// Nullable reports whether the cardinality admits zero occurrences.
func (c Cardinality) Nullable() bool { return c.Min == 0 }

// Minus returns the cardinality remaining after consuming n occurrences,
// saturating Min at zero. It returns (_, false) when n exceeds Max — the
// decrement would make the upper bound negative.
func (c Cardinality) Minus(n int) (Cardinality, bool) {
	if c.Max != Unbounded && n > c.Max {
		return Cardinality{}, false
	}
	min := c.Min - n
	if min < 0 {
		min = 0
	}
	max := c.Max
	if max != Unbounded {
		max -= n
	}
	return Cardinality{Min: min, Max: max}, true
}

func (c Cardinality) IsZeroZero() bool      { return c.Min == 0 && c.Max == 0 }
func (c Cardinality) IsOneOne() bool        { return c.Min == 1 && c.Max == 1 }
func (c Cardinality) IsZeroOne() bool       { return c.Min == 0 && c.Max == 1 }
func (c Cardinality) IsZeroUnbounded() bool { return c.Min == 0 && c.Max == Unbounded }
func (c Cardinality) IsOneUnbounded() bool  { return c.Min == 1 && c.Max == Unbounded }

func (c Cardinality) String() string {
	switch {
	case c.IsOneOne():
		return ""
	case c.IsZeroOne():
		return "?"
	case c.IsZeroUnbounded():
		return "*"
	case c.IsOneUnbounded():
		return "+"
	case c.Max == Unbounded:
		return fmt.Sprintf("{%d,}", c.Min)
	default:
		return fmt.Sprintf("{%d,%d}", c.Min, c.Max)
	}
}
