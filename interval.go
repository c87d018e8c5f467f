package interval

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Inclusion describes which endpoints of a constructed interval are closed.
type Inclusion uint8

const (
	// LowIncludedHighExcluded is the default: [low, high).
	LowIncludedHighExcluded Inclusion = iota
	// Open is (low, high).
	Open
	// Closed is [low, high].
	Closed
	// LowIncluded is an alias for the default, [low, high).
	LowIncluded = LowIncludedHighExcluded
	// HighIncluded is (low, high].
	HighIncluded Inclusion = iota
)

// Interval is a one dimensional range over an ordered key type T, closed
// or open at either end per the LowIncluded/HighIncluded flags.
//
// The zero value is not a valid interval; construct with New or one of its
// siblings.
type Interval[T constraints.Ordered] struct {
	Low  T
	High T

	LowIncluded  bool
	HighIncluded bool
}

// valid reports whether iv satisfies the invariant of a well formed
// interval: Low < High, or Low == High with both endpoints included
// (a degenerate point interval).
func (iv Interval[T]) valid() bool {
	if iv.Low < iv.High {
		return true
	}
	if iv.Low == iv.High {
		return iv.LowIncluded && iv.HighIncluded
	}
	return false
}

// New returns the half-open interval [low, high). It fails with
// ErrInvalidOperation if low > high.
func New[T constraints.Ordered](low, high T) (Interval[T], error) {
	return newInterval(low, high, LowIncludedHighExcluded)
}

// NewOpen returns the open interval (low, high).
func NewOpen[T constraints.Ordered](low, high T) (Interval[T], error) {
	return newInterval(low, high, Open)
}

// NewClosed returns the closed interval [low, high].
func NewClosed[T constraints.Ordered](low, high T) (Interval[T], error) {
	return newInterval(low, high, Closed)
}

// NewLowIncluded returns the half-open interval [low, high).
func NewLowIncluded[T constraints.Ordered](low, high T) (Interval[T], error) {
	return newInterval(low, high, LowIncluded)
}

// NewHighIncluded returns the half-open interval (low, high].
func NewHighIncluded[T constraints.Ordered](low, high T) (Interval[T], error) {
	return newInterval(low, high, HighIncluded)
}

func newInterval[T constraints.Ordered](low, high T, kind Inclusion) (Interval[T], error) {
	iv := Interval[T]{Low: low, High: high}
	switch kind {
	case Open:
		// leave both false
	case Closed:
		iv.LowIncluded, iv.HighIncluded = true, true
	case HighIncluded:
		iv.HighIncluded = true
	default: // LowIncludedHighExcluded
		iv.LowIncluded = true
	}

	if !iv.valid() {
		return Interval[T]{}, fmt.Errorf("interval: invalid bounds [%v,%v]: %w", low, high, ErrInvalidOperation)
	}
	return iv, nil
}

// Must panics if err is non-nil, otherwise it returns iv. It is meant for
// tests and examples that construct intervals from known-good literals.
func Must[T constraints.Ordered](iv Interval[T], err error) Interval[T] {
	if err != nil {
		panic(err)
	}
	return iv
}

// String renders iv using standard interval bracket notation, e.g. "[2,7)".
func (iv Interval[T]) String() string {
	lb, rb := "(", ")"
	if iv.LowIncluded {
		lb = "["
	}
	if iv.HighIncluded {
		rb = "]"
	}
	return fmt.Sprintf("%s%v,%v%s", lb, iv.Low, iv.High, rb)
}
