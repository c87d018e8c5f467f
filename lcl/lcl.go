// Package lcl implements the Layered Containment List (spec §4.4): a
// static array-of-layers index where each layer is a chain of pairwise
// non-containing intervals, threaded to the next layer by per-element
// "next" pointers. It is the counting-optimized sibling of ncl: its
// CountOverlaps never materializes results.
package lcl

import (
	"fmt"
	"iter"
	"sort"

	"golang.org/x/exp/constraints"

	iv "github.com/halfopen/interval"
)

// Tree is the read-only handle for a Layered Containment List.
type Tree[T constraints.Ordered] struct {
	layers   [][]iv.Interval[T]
	pointers [][]int // pointers[L] has len(layers[L])+1 entries, the last a sentinel
	count    int
	span     iv.Interval[T]
	hasSpan  bool
	cfg      iv.Config

	// parentIdxByLayer is construction-time scratch, cleared by
	// buildPointers once the pointer arrays are derived from it.
	parentIdxByLayer [][]int
}

var _ iv.Collection[int] = (*Tree[int])(nil)

// New builds a Layered Containment List over items in O(n log n).
func New[T constraints.Ordered](items []iv.Interval[T], opts ...iv.Option) (*Tree[T], error) {
	cfg := iv.NewConfig(opts...)
	t := &Tree[T]{cfg: cfg}

	if len(items) == 0 {
		return t, nil
	}

	sorted := make([]iv.Interval[T], len(items))
	copy(sorted, items)
	iv.Sort(sorted)

	t.assignLayers(sorted)
	t.buildPointers()

	t.count = len(sorted)
	t.span = sorted[0]
	for _, s := range sorted {
		t.span = iv.JoinedSpan(t.span, s)
	}
	t.hasSpan = true

	return t, nil
}

// assignLayers implements the greedy nesting decomposition of spec §4.4:
// walk sorted order once, maintaining a stack of the currently open
// interval per layer; an interval joins the shallowest layer whose open
// interval does not strictly contain it, popping shallower layers that
// no longer apply as the scan passes their closing point.
func (t *Tree[T]) assignLayers(sorted []iv.Interval[T]) {
	var stack []iv.Interval[T]
	var stackIdx []int
	var parentIdx [][]int

	for _, s := range sorted {
		for len(stack) > 0 && !iv.StrictlyContains(stack[len(stack)-1], s) {
			stack = stack[:len(stack)-1]
			stackIdx = stackIdx[:len(stackIdx)-1]
		}

		depth := len(stack)
		if depth == len(t.layers) {
			t.layers = append(t.layers, nil)
			parentIdx = append(parentIdx, nil)
		}

		idx := len(t.layers[depth])
		t.layers[depth] = append(t.layers[depth], s)

		parent := -1
		if depth > 0 {
			parent = stackIdx[depth-1]
		}
		parentIdx[depth] = append(parentIdx[depth], parent)

		stack = append(stack, s)
		stackIdx = append(stackIdx, idx)
	}

	t.parentIdxByLayer = parentIdx
}

func (t *Tree[T]) buildPointers() {
	t.pointers = make([][]int, len(t.layers))
	for l := 0; l < len(t.layers)-1; l++ {
		parents := t.parentIdxByLayer[l+1]
		ptrs := make([]int, len(t.layers[l])+1)
		k := 0
		for i := 0; i < len(t.layers[l]); i++ {
			ptrs[i] = k
			for k < len(parents) && parents[k] == i {
				k++
			}
		}
		ptrs[len(t.layers[l])] = k
		t.pointers[l] = ptrs
	}
	t.parentIdxByLayer = nil
}

// IsEmpty reports whether the tree has no members.
func (t *Tree[T]) IsEmpty() bool { return t.count == 0 }

// Count returns the number of members, O(1).
func (t *Tree[T]) Count() int { return t.count }

// CountSpeed is always ConstantTime for LCL.
func (t *Tree[T]) CountSpeed() iv.CountSpeed { return iv.ConstantTime }

// AllowsReferenceDuplicates is always true.
func (t *Tree[T]) AllowsReferenceDuplicates() bool { return true }

// AllowsOverlaps is always true.
func (t *Tree[T]) AllowsOverlaps() bool { return true }

// AllowsContainments is always true.
func (t *Tree[T]) AllowsContainments() bool { return true }

// IsReadOnly is always true: LCL is a static container.
func (t *Tree[T]) IsReadOnly() bool { return true }

// Choose returns an arbitrary member.
func (t *Tree[T]) Choose() (iv.Interval[T], error) {
	if t.count == 0 {
		return iv.Interval[T]{}, fmt.Errorf("lcl: Choose: %w", iv.ErrNoSuchItem)
	}
	return t.layers[0][0], nil
}

// Span returns the smallest interval covering every member.
func (t *Tree[T]) Span() (iv.Interval[T], error) {
	if !t.hasSpan {
		return iv.Interval[T]{}, fmt.Errorf("lcl: Span: %w", iv.ErrEmptyCollection)
	}
	return t.span, nil
}

// MaximumOverlap computes the maximum depth via an endpoint sweep.
func (t *Tree[T]) MaximumOverlap() int {
	if t.count == 0 {
		return 0
	}
	items := make([]iv.Interval[T], 0, t.count)
	for _, layer := range t.layers {
		items = append(items, layer...)
	}
	return iv.MaximumOverlapSweep(items)
}

// FindOverlaps returns every member overlapping q exactly once (spec
// §4.4 Query).
func (t *Tree[T]) FindOverlaps(q iv.Interval[T]) iter.Seq[iv.Interval[T]] {
	return func(yield func(iv.Interval[T]) bool) {
		if len(t.layers) == 0 {
			return
		}
		t.findOverlaps(0, 0, len(t.layers[0]), q, yield)
	}
}

// FindOverlapsPoint is the point-stabbing form of FindOverlaps.
func (t *Tree[T]) FindOverlapsPoint(p T) iter.Seq[iv.Interval[T]] {
	return t.FindOverlaps(iv.Interval[T]{Low: p, High: p, LowIncluded: true, HighIncluded: true})
}

func (t *Tree[T]) overlapBounds(layer, start, end int, q iv.Interval[T]) (first, last int) {
	items := t.layers[layer]
	first = start + sort.Search(end-start, func(i int) bool {
		return iv.CompareHigh(items[start+i], iv.Interval[T]{High: q.Low, HighIncluded: !q.LowIncluded}) > 0
	})
	last = start + sort.Search(end-start, func(i int) bool {
		return iv.CompareLow(items[start+i], iv.Interval[T]{Low: q.High, LowIncluded: !q.HighIncluded}) >= 0
	})
	if last < first {
		last = first
	}
	return first, last
}

func (t *Tree[T]) findOverlaps(layer, start, end int, q iv.Interval[T], yield func(iv.Interval[T]) bool) bool {
	if start >= end {
		return true
	}

	first, last := t.overlapBounds(layer, start, end, q)

	for i := first; i < last; i++ {
		item := t.layers[layer][i]
		if iv.Overlaps(item, q) {
			if !yield(item) {
				return false
			}
		}
		if layer+1 < len(t.layers) {
			childStart, childEnd := t.pointers[layer][i], t.pointers[layer][i+1]
			if !t.findOverlaps(layer+1, childStart, childEnd, q, yield) {
				return false
			}
		}
	}
	return true
}

// FindOverlap performs a single binary search in layer 0 (spec §4.4): if
// the found interval overlaps q it is returned, otherwise no member
// overlaps q at all, since layer-0 intervals transitively cover every
// deeper interval's low endpoint range.
func (t *Tree[T]) FindOverlap(q iv.Interval[T]) (iv.Interval[T], bool) {
	if len(t.layers) == 0 {
		return iv.Interval[T]{}, false
	}
	items := t.layers[0]
	idx := sort.Search(len(items), func(i int) bool {
		return iv.CompareHigh(items[i], iv.Interval[T]{High: q.Low, HighIncluded: !q.LowIncluded}) > 0
	})
	if idx >= len(items) {
		return iv.Interval[T]{}, false
	}
	if iv.Overlaps(items[idx], q) {
		return items[idx], true
	}
	return iv.Interval[T]{}, false
}

// CountOverlaps accumulates (last-first) per recursion level without
// materializing any interval, the performance payoff of LCL described in
// spec §4.4.
func (t *Tree[T]) CountOverlaps(q iv.Interval[T]) int {
	if len(t.layers) == 0 {
		return 0
	}
	return t.countOverlaps(0, 0, len(t.layers[0]), q)
}

func (t *Tree[T]) countOverlaps(layer, start, end int, q iv.Interval[T]) int {
	if start >= end {
		return 0
	}
	first, last := t.overlapBounds(layer, start, end, q)
	total := last - first
	if layer+1 < len(t.layers) {
		for i := first; i < last; i++ {
			childStart, childEnd := t.pointers[layer][i], t.pointers[layer][i+1]
			total += t.countOverlaps(layer+1, childStart, childEnd, q)
		}
	}
	return total
}
