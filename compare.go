package interval

import "golang.org/x/exp/constraints"

// Endpoint ordering and overlap/containment primitives, see spec §3 and
// §4.1. These are the only comparators the container engines (ncl, lcl,
// ibs, dlfit) depend on.

// CompareLow returns a three-way comparison of the low endpoints of a and
// b: for equal values, an included low sorts before an excluded low.
func CompareLow[T constraints.Ordered](a, b Interval[T]) int {
	if a.Low != b.Low {
		if a.Low < b.Low {
			return -1
		}
		return 1
	}
	if a.LowIncluded == b.LowIncluded {
		return 0
	}
	if a.LowIncluded {
		return -1
	}
	return 1
}

// CompareHigh returns a three-way comparison of the high endpoints of a
// and b: for equal values, an excluded high sorts before an included high.
func CompareHigh[T constraints.Ordered](a, b Interval[T]) int {
	if a.High != b.High {
		if a.High < b.High {
			return -1
		}
		return 1
	}
	if a.HighIncluded == b.HighIncluded {
		return 0
	}
	if a.HighIncluded {
		return 1
	}
	return -1
}

// CompareLowHigh compares a's low endpoint against b's high endpoint,
// using the same tie-break rule as CompareLow/CompareHigh at equal
// values: equality with asymmetric inclusion resolves by whichever
// endpoint is the open one.
func CompareLowHigh[T constraints.Ordered](a, b Interval[T]) int {
	if a.Low != b.High {
		if a.Low < b.High {
			return -1
		}
		return 1
	}
	switch {
	case a.LowIncluded && b.HighIncluded:
		return 0
	default:
		return 1
	}
}

// Compare orders intervals first by low endpoint, ties broken by high
// endpoint, per spec §3.
func Compare[T constraints.Ordered](a, b Interval[T]) int {
	if c := CompareLow(a, b); c != 0 {
		return c
	}
	return CompareHigh(a, b)
}

// Equal reports whether a and b have identical endpoints and inclusion
// flags.
func Equal[T constraints.Ordered](a, b Interval[T]) bool {
	return a.Low == b.Low && a.High == b.High &&
		a.LowIncluded == b.LowIncluded && a.HighIncluded == b.HighIncluded
}

// Overlaps reports whether a and b share at least one point, respecting
// endpoint inclusion: equality at a shared endpoint overlaps only when
// both endpoints there are included.
func Overlaps[T constraints.Ordered](a, b Interval[T]) bool {
	if a.High < b.Low || (a.High == b.Low && !(a.HighIncluded && b.LowIncluded)) {
		return false
	}
	if b.High < a.Low || (b.High == a.Low && !(b.HighIncluded && a.LowIncluded)) {
		return false
	}
	return true
}

// OverlapsPoint reports whether iv contains the single value p, a degenerate
// case of Overlaps against a closed point interval.
func OverlapsPoint[T constraints.Ordered](iv Interval[T], p T) bool {
	if p < iv.Low || (p == iv.Low && !iv.LowIncluded) {
		return false
	}
	if p > iv.High || (p == iv.High && !iv.HighIncluded) {
		return false
	}
	return true
}

// Contains reports whether a contains b: a.Low <= b.Low and
// b.High <= a.High, with inclusion flags compatible at equality.
func Contains[T constraints.Ordered](a, b Interval[T]) bool {
	lowOK := a.Low < b.Low || (a.Low == b.Low && (a.LowIncluded || !b.LowIncluded))
	highOK := a.High > b.High || (a.High == b.High && (a.HighIncluded || !b.HighIncluded))
	return lowOK && highOK
}

// StrictlyContains reports whether a contains b and the two intervals are
// not equal.
func StrictlyContains[T constraints.Ordered](a, b Interval[T]) bool {
	return Contains(a, b) && !Equal(a, b)
}

// JoinedSpan returns the smallest interval covering both a and b, taking
// inclusion from whichever endpoint extends farther.
func JoinedSpan[T constraints.Ordered](a, b Interval[T]) Interval[T] {
	out := Interval[T]{}

	switch {
	case a.Low < b.Low:
		out.Low, out.LowIncluded = a.Low, a.LowIncluded
	case b.Low < a.Low:
		out.Low, out.LowIncluded = b.Low, b.LowIncluded
	default:
		out.Low = a.Low
		out.LowIncluded = a.LowIncluded || b.LowIncluded
	}

	switch {
	case a.High > b.High:
		out.High, out.HighIncluded = a.High, a.HighIncluded
	case b.High > a.High:
		out.High, out.HighIncluded = b.High, b.HighIncluded
	default:
		out.High = a.High
		out.HighIncluded = a.HighIncluded || b.HighIncluded
	}

	return out
}
