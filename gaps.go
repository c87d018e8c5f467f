package interval

import (
	"iter"

	"golang.org/x/exp/constraints"
)

// Gaps enumerates the maximal intervals in the complement of items within
// query, per spec §4.2. items must already be sorted ascending by low
// endpoint and pairwise non-overlapping (the shape every static engine's
// top-level sublist/layer/list guarantees); for arbitrary, possibly
// overlapping input use GapsOverlapping instead.
//
// Endpoint inclusion for an internal gap is inverted from the bounding
// items' inclusion; endpoint inclusion for the two outer gaps (before the
// first item, after the last) is taken from query.
func Gaps[T constraints.Ordered](query Interval[T], items []Interval[T]) iter.Seq[Interval[T]] {
	return func(yield func(Interval[T]) bool) {
		// cursor tracks the low endpoint of the next candidate gap
		cursor, cursorIncluded := query.Low, query.LowIncluded

		emit := func(hi T, hiIncluded bool) bool {
			gap := Interval[T]{Low: cursor, High: hi, LowIncluded: cursorIncluded, HighIncluded: hiIncluded}
			if gap.Low < gap.High || (gap.Low == gap.High && gap.LowIncluded && gap.HighIncluded) {
				return yield(gap)
			}
			return true
		}

		for _, it := range items {
			if !OverlapsPoint(query, it.Low) && it.Low < query.Low {
				// item lies entirely before the query span
				if it.High < query.Low || (it.High == query.Low && !(it.HighIncluded && query.LowIncluded)) {
					continue
				}
			}
			if it.Low > query.High || (it.Low == query.High && !(it.LowIncluded && query.HighIncluded)) {
				break
			}

			if it.Low > cursor || (it.Low == cursor && !(it.LowIncluded && cursorIncluded)) {
				if !emit(it.Low, !it.LowIncluded) {
					return
				}
			}

			if it.High > cursor || (it.High == cursor && it.HighIncluded && cursorIncluded) {
				cursor, cursorIncluded = it.High, !it.HighIncluded
			}
		}

		emit(query.High, query.HighIncluded)
	}
}

// endpointEvent is one endpoint in the merge-sweep used by GapsOverlapping
// and by the maximum-overlap sweep in the engines' fallback path.
type endpointEvent[T constraints.Ordered] struct {
	pos   T
	delta int // +1 at a low endpoint, -1 at a high endpoint
	// rank orders events tied at the same pos by whether they already
	// change the active set AT pos, matching Overlaps/OverlapsPoint's
	// inclusion rule: an included low (active at pos) or an excluded high
	// (inactive at pos) takes effect at pos (rank 0, applied first); an
	// excluded low or an included high takes effect only strictly after
	// pos (rank 1, applied after pos is evaluated).
	rank    int
	include bool
}

const (
	rankAtPos    = 0
	rankAfterPos = 1
)

// endpointEvents builds the sorted sweep-line event stream for items:
// each low endpoint opens (delta +1) and each high endpoint closes
// (delta -1). Events tied at the same pos are ordered by rank so that a
// caller scanning the stream sees, at each pos, exactly the items whose
// inclusion flags make them active there before any item that only
// becomes active strictly after pos.
func endpointEvents[T constraints.Ordered](items []Interval[T]) []endpointEvent[T] {
	events := make([]endpointEvent[T], 0, 2*len(items))
	for _, it := range items {
		lowRank := rankAfterPos
		if it.LowIncluded {
			lowRank = rankAtPos
		}
		highRank := rankAtPos
		if it.HighIncluded {
			highRank = rankAfterPos
		}
		events = append(events,
			endpointEvent[T]{pos: it.Low, delta: +1, rank: lowRank, include: it.LowIncluded},
			endpointEvent[T]{pos: it.High, delta: -1, rank: highRank, include: it.HighIncluded},
		)
	}
	sortEvents(events)
	return events
}

func sortEvents[T constraints.Ordered](events []endpointEvent[T]) {
	// insertion sort over the 2*len(items) entries: nearly linear when
	// items arrive sorted by low endpoint (as from ibs), up to quadratic
	// for the unsorted orders other callers pass (ncl's arena, lcl's
	// layers, arbitrary GapsOverlapping input).
	for i := 1; i < len(events); i++ {
		j := i
		for j > 0 && eventLess(events[j], events[j-1]) {
			events[j], events[j-1] = events[j-1], events[j]
			j--
		}
	}
}

func eventLess[T constraints.Ordered](a, b endpointEvent[T]) bool {
	if a.pos != b.pos {
		return a.pos < b.pos
	}
	return a.rank < b.rank
}

// GapsOverlapping enumerates complement intervals across a set of
// possibly-overlapping intervals by sweeping the merged endpoint stream
// and emitting a gap for every depth 0<->1 transition, per spec §4.2.
func GapsOverlapping[T constraints.Ordered](query Interval[T], items []Interval[T]) iter.Seq[Interval[T]] {
	return func(yield func(Interval[T]) bool) {
		events := endpointEvents(items)

		depth := 0
		cursor := query.Low
		cursorIncluded := query.LowIncluded

		for _, ev := range events {
			if ev.pos < query.Low || (ev.pos == query.Low && ev.delta > 0 && !query.LowIncluded) {
				if ev.delta > 0 {
					depth++
				} else {
					depth--
				}
				continue
			}
			if ev.pos > query.High {
				break
			}

			if depth == 0 && ev.delta > 0 {
				hi, hiIncluded := ev.pos, !ev.include
				gap := Interval[T]{Low: cursor, High: hi, LowIncluded: cursorIncluded, HighIncluded: hiIncluded}
				if gap.Low < gap.High || (gap.Low == gap.High && gap.LowIncluded && gap.HighIncluded) {
					if !yield(gap) {
						return
					}
				}
			}

			if ev.delta > 0 {
				depth++
			} else {
				depth--
				if depth == 0 {
					cursor, cursorIncluded = ev.pos, !ev.include
				}
			}
		}

		if depth == 0 {
			gap := Interval[T]{Low: cursor, High: query.High, LowIncluded: cursorIncluded, HighIncluded: query.HighIncluded}
			if gap.Low < gap.High || (gap.Low == gap.High && gap.LowIncluded && gap.HighIncluded) {
				yield(gap)
			}
		}
	}
}

// UniqueEndpoints streams every distinct endpoint value of items exactly
// once, in ascending order, for scanning algorithms such as
// maximum-overlap sweeps (spec §4.2).
func UniqueEndpoints[T constraints.Ordered](items []Interval[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		events := endpointEvents(items)
		var last T
		have := false
		for _, ev := range events {
			if have && ev.pos == last {
				continue
			}
			have, last = true, ev.pos
			if !yield(ev.pos) {
				return
			}
		}
	}
}

// MaximumOverlapSweep computes the maximum number of items that
// simultaneously contain any single point, by sweeping the merged
// endpoint stream. It is the §4.7 fallback used by engines whose
// structure does not expose the answer for free.
//
// Depth is sampled once per distinct pos, after applying every event
// that is active at pos (rankAtPos) and before applying the events that
// only become active strictly after pos (rankAfterPos), so a point
// where one interval closes exclusively and another opens inclusively
// is counted correctly instead of the two events canceling out or
// stacking depending on arrival order.
func MaximumOverlapSweep[T constraints.Ordered](items []Interval[T]) int {
	events := endpointEvents(items)
	depth, max := 0, 0
	i := 0
	for i < len(events) {
		pos := events[i].pos
		for i < len(events) && events[i].pos == pos && events[i].rank == rankAtPos {
			depth += events[i].delta
			i++
		}
		if depth > max {
			max = depth
		}
		for i < len(events) && events[i].pos == pos {
			depth += events[i].delta
			i++
		}
	}
	return max
}
