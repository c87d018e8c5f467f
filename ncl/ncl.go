// Package ncl implements the Nested Containment List (spec §4.3): a
// static, arena-backed index of strictly-contained sublists with
// two-binary-search overlap queries.
//
// The backing array and index-range child pointers follow the teacher's
// arena+indices style in gaissmai-interval's interval.go (there, a
// map[int][]int parent->children index; here, inline contiguous
// (start, length) ranges, since the spec's Sublist node requires a
// single contiguous region per parent rather than an arbitrary set of
// children).
package ncl

import (
	"fmt"
	"iter"
	"sort"

	"golang.org/x/exp/constraints"

	iv "github.com/halfopen/interval"
)

// node is one element of the backing arena: an interval plus the
// contiguous range, later in the array, of intervals strictly contained
// in it.
type node[T constraints.Ordered] struct {
	item       iv.Interval[T]
	childStart int
	childLen   int
}

// Tree is the read-only handle for a Nested Containment List.
type Tree[T constraints.Ordered] struct {
	nodes  []node[T]
	topLen int
	span   iv.Interval[T]
	hasSpan bool
	cfg    iv.Config
}

var _ iv.Collection[int] = (*Tree[int])(nil)

// New builds a Nested Containment List over items. Construction sorts a
// private copy of items and lays out sublists in O(n log n) + O(n).
func New[T constraints.Ordered](items []iv.Interval[T], opts ...iv.Option) (*Tree[T], error) {
	cfg := iv.NewConfig(opts...)
	t := &Tree[T]{cfg: cfg}

	if len(items) == 0 {
		return t, nil
	}

	sorted := make([]iv.Interval[T], len(items))
	copy(sorted, items)
	iv.Sort(sorted)

	t.nodes = make([]node[T], 0, len(sorted))
	t.topLen = t.build(sorted)

	t.span = iv.JoinedSpan(t.nodes[0].item, t.nodes[len(t.nodes)-1].item)
	for _, n := range t.nodes {
		t.span = iv.JoinedSpan(t.span, n.item)
	}
	t.hasSpan = true

	return t, nil
}

// build lays out sorted (already ascending, ties-broken-by-high) into
// the arena, returning the number of top-level siblings. It walks the
// sorted sequence once: whenever the next interval is strictly contained
// in the current one, it and any further strictly-contained intervals are
// absorbed into a recursively-built child sublist, placed after all
// sibling-level entries (spec §4.3 Construction).
func (t *Tree[T]) build(sorted []iv.Interval[T]) int {
	type pending struct {
		idx   int // index of the parent node in t.nodes
		items []iv.Interval[T]
	}

	// first pass: partition sorted into top-level siblings, each paired
	// with the slice of intervals strictly contained in it.
	var siblings []iv.Interval[T]
	var childrenOf [][]iv.Interval[T]

	i := 0
	for i < len(sorted) {
		cur := sorted[i]
		siblings = append(siblings, cur)
		j := i + 1
		var children []iv.Interval[T]
		for j < len(sorted) && iv.StrictlyContains(cur, sorted[j]) {
			children = append(children, sorted[j])
			j++
		}
		childrenOf = append(childrenOf, children)
		i = j
	}

	// reserve slots for the top level, then recursively append children
	// after it, tracking where each parent's child range landed.
	start := len(t.nodes)
	for range siblings {
		t.nodes = append(t.nodes, node[T]{})
	}

	var queue []pending
	for k, s := range siblings {
		t.nodes[start+k].item = s
		if len(childrenOf[k]) > 0 {
			queue = append(queue, pending{idx: start + k, items: childrenOf[k]})
		}
	}

	for _, p := range queue {
		childStart := len(t.nodes)
		childLen := t.build(p.items)
		t.nodes[p.idx].childStart = childStart
		t.nodes[p.idx].childLen = childLen
	}

	return len(siblings)
}

// IsEmpty reports whether the tree has no members.
func (t *Tree[T]) IsEmpty() bool { return len(t.nodes) == 0 }

// Count returns the number of members, O(1).
func (t *Tree[T]) Count() int { return len(t.nodes) }

// CountSpeed is always ConstantTime for NCL.
func (t *Tree[T]) CountSpeed() iv.CountSpeed { return iv.ConstantTime }

// AllowsReferenceDuplicates is always true: NCL drops nothing itself,
// but does not deduplicate either; it simply stores references as given.
func (t *Tree[T]) AllowsReferenceDuplicates() bool { return true }

// AllowsOverlaps is always true: NCL indexes arbitrarily overlapping
// intervals.
func (t *Tree[T]) AllowsOverlaps() bool { return true }

// AllowsContainments is always true.
func (t *Tree[T]) AllowsContainments() bool { return true }

// IsReadOnly is always true: NCL is a static container.
func (t *Tree[T]) IsReadOnly() bool { return true }

// Choose returns an arbitrary member.
func (t *Tree[T]) Choose() (iv.Interval[T], error) {
	if len(t.nodes) == 0 {
		return iv.Interval[T]{}, fmt.Errorf("ncl: Choose: %w", iv.ErrNoSuchItem)
	}
	return t.nodes[0].item, nil
}

// Span returns the smallest interval covering every member.
func (t *Tree[T]) Span() (iv.Interval[T], error) {
	if !t.hasSpan {
		return iv.Interval[T]{}, fmt.Errorf("ncl: Span: %w", iv.ErrEmptyCollection)
	}
	return t.span, nil
}

// MaximumOverlap computes the maximum depth via an endpoint sweep (NCL's
// arena layout does not expose it for free, spec §4.7).
func (t *Tree[T]) MaximumOverlap() int {
	if len(t.nodes) == 0 {
		return 0
	}
	items := make([]iv.Interval[T], len(t.nodes))
	for i, n := range t.nodes {
		items[i] = n.item
	}
	return iv.MaximumOverlapSweep(items)
}

// FindOverlaps returns every member overlapping q exactly once (spec
// §4.3 Query).
func (t *Tree[T]) FindOverlaps(q iv.Interval[T]) iter.Seq[iv.Interval[T]] {
	return func(yield func(iv.Interval[T]) bool) {
		t.findOverlaps(0, t.topLen, q, yield)
	}
}

// FindOverlapsPoint is the point-stabbing form of FindOverlaps.
func (t *Tree[T]) FindOverlapsPoint(p T) iter.Seq[iv.Interval[T]] {
	return t.FindOverlaps(iv.Interval[T]{Low: p, High: p, LowIncluded: true, HighIncluded: true})
}

// findOverlaps walks the sublist occupying [start, start+length), which
// is sorted and pairwise non-containing, binary-searching for the first
// and last overlapping node then recursing into each hit's child
// sublist (spec §4.3 Query).
func (t *Tree[T]) findOverlaps(start, length int, q iv.Interval[T], yield func(iv.Interval[T]) bool) bool {
	if length == 0 {
		return true
	}

	first := sort.Search(length, func(i int) bool {
		return iv.CompareHigh(t.nodes[start+i].item, iv.Interval[T]{High: q.Low, HighIncluded: !q.LowIncluded}) >= 0
	})
	if first == length {
		return true
	}

	last := sort.Search(length, func(i int) bool {
		return iv.CompareLow(t.nodes[start+i].item, iv.Interval[T]{Low: q.High, LowIncluded: !q.HighIncluded}) > 0
	})

	for i := first; i < last; i++ {
		n := t.nodes[start+i]
		if iv.Overlaps(n.item, q) {
			if !yield(n.item) {
				return false
			}
		}
		if n.childLen > 0 {
			if !t.findOverlaps(n.childStart, n.childLen, q, yield) {
				return false
			}
		}
	}
	return true
}

// FindOverlap returns the first member overlapping q found by the walk
// described in FindOverlaps.
func (t *Tree[T]) FindOverlap(q iv.Interval[T]) (iv.Interval[T], bool) {
	var found iv.Interval[T]
	ok := false
	for m := range t.FindOverlaps(q) {
		found, ok = m, true
		break
	}
	return found, ok
}

// CountOverlaps returns the number of members overlapping q.
func (t *Tree[T]) CountOverlaps(q iv.Interval[T]) int {
	n := 0
	for range t.FindOverlaps(q) {
		n++
	}
	return n
}
