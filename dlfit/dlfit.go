// Package dlfit implements the Doubly-Linked Finite Interval Tree (spec
// §4.6): a dynamic, height-balanced binary search tree over pairwise
// non-overlapping intervals, with in-order predecessor/successor links
// threaded through every node so that once a position is found,
// neighbor walks and gap enumeration run in O(1) per step.
//
// Balance bookkeeping follows the same treap.go-derived recompute-on-
// rotate discipline as package ibs. The prev/next links are spliced only
// where a member enters or leaves the tree (insert, remove); rotations
// leave them untouched, since a rotation does not change the in-order
// sequence of members.
package dlfit

import (
	"fmt"
	"iter"

	"golang.org/x/exp/constraints"

	iv "github.com/halfopen/interval"
)

// node is one member interval, a plain AVL node augmented with in-order
// sibling pointers so EnumerateFrom and Gaps need no further descent
// once positioned.
type node[T constraints.Ordered] struct {
	item        iv.Interval[T]
	left, right *node[T]
	prev, next  *node[T]
	height      int
}

// ShiftFunc mutates next to begin where previous ends, preserving
// next's original length, as part of a ForceAdd cascade (spec §4.6). It
// reports done=false whenever it performed a shift; returning done=true
// before the cascade reaches a non-overlap is a caller contract
// violation surfaced by ForceAdd as ErrInvalidOperation.
type ShiftFunc[T constraints.Ordered] func(previous, next iv.Interval[T]) (shifted iv.Interval[T], done bool)

// Tree is the read-write handle for a Doubly-Linked Finite Interval Tree.
type Tree[T constraints.Ordered] struct {
	root  *node[T]
	head  *node[T] // leftmost (lowest) node, for EnumerateFrom/Gaps
	count int
	cfg   iv.Config
	notif iv.Notifier[T]
}

var (
	_ iv.Collection[int]        = (*Tree[int])(nil)
	_ iv.MutableCollection[int] = (*Tree[int])(nil)
)

// New builds a Doubly-Linked Finite Interval Tree, optionally pre-loaded
// with items. Items are inserted one at a time with the same overlap
// check as Add (spec §4.6 Add: "Reject on any overlap"): an item that
// overlaps an earlier one is left out. Pre-loading works under
// WithReadOnly too; only later mutation is refused.
func New[T constraints.Ordered](items []iv.Interval[T], opts ...iv.Option) (*Tree[T], error) {
	t := &Tree[T]{cfg: iv.NewConfig(opts...)}
	for _, it := range items {
		if _, err := t.insert(it); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func height[T constraints.Ordered](n *node[T]) int {
	if n == nil {
		return 0
	}
	return n.height
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func recomputeHeight[T constraints.Ordered](n *node[T]) {
	n.height = 1 + maxInt(height(n.left), height(n.right))
}

func balanceFactor[T constraints.Ordered](n *node[T]) int {
	return height(n.left) - height(n.right)
}

// rotateRight and rotateLeft swap a parent/child pointer pair and
// recompute the height bottom-up, child first. They do not touch
// prev/next: those links describe sorted order, which a subtree
// rotation never changes, only the tree shape above it.
func rotateRight[T constraints.Ordered](n *node[T]) *node[T] {
	l := n.left
	n.left = l.right
	l.right = n
	recomputeHeight(n)
	recomputeHeight(l)
	return l
}

func rotateLeft[T constraints.Ordered](n *node[T]) *node[T] {
	r := n.right
	n.right = r.left
	r.left = n
	recomputeHeight(n)
	recomputeHeight(r)
	return r
}

func rebalance[T constraints.Ordered](n *node[T]) *node[T] {
	recomputeHeight(n)
	bf := balanceFactor(n)
	switch {
	case bf > 1:
		if balanceFactor(n.left) < 0 {
			n.left = rotateLeft(n.left)
		}
		return rotateRight(n)
	case bf < -1:
		if balanceFactor(n.right) > 0 {
			n.right = rotateRight(n.right)
		}
		return rotateLeft(n)
	default:
		return n
	}
}

// IsEmpty reports whether the tree has no members.
func (t *Tree[T]) IsEmpty() bool { return t.count == 0 }

// Count returns the number of members, O(1).
func (t *Tree[T]) Count() int { return t.count }

// CountSpeed is always ConstantTime for DLFIT.
func (t *Tree[T]) CountSpeed() iv.CountSpeed { return iv.ConstantTime }

// AllowsReferenceDuplicates reports the construction-time policy; even
// when permitted, two equal-by-value references would overlap and be
// rejected by the non-overlap invariant regardless, so this exists for
// contract symmetry with ibs.
func (t *Tree[T]) AllowsReferenceDuplicates() bool { return t.cfg.AllowReferenceDuplicates() }

// AllowsOverlaps is always false: DLFIT's defining invariant is pairwise
// non-overlap (spec §4.6 Shape).
func (t *Tree[T]) AllowsOverlaps() bool { return false }

// AllowsContainments is always false, a consequence of AllowsOverlaps.
func (t *Tree[T]) AllowsContainments() bool { return false }

// IsReadOnly reports the construction-time policy.
func (t *Tree[T]) IsReadOnly() bool { return t.cfg.ReadOnly() }

// Choose returns an arbitrary member.
func (t *Tree[T]) Choose() (iv.Interval[T], error) {
	if t.head == nil {
		return iv.Interval[T]{}, fmt.Errorf("dlfit: Choose: %w", iv.ErrNoSuchItem)
	}
	return t.head.item, nil
}

// Span returns the smallest interval covering every member.
func (t *Tree[T]) Span() (iv.Interval[T], error) {
	if t.head == nil {
		return iv.Interval[T]{}, fmt.Errorf("dlfit: Span: %w", iv.ErrEmptyCollection)
	}
	tail := t.head
	for tail.next != nil {
		tail = tail.next
	}
	return iv.JoinedSpan(t.head.item, tail.item), nil
}

// MaximumOverlap is always 1 for a non-empty tree and 0 for an empty one,
// by the non-overlap invariant (spec §4.6 MaximumDepth).
func (t *Tree[T]) MaximumOverlap() int {
	if t.count == 0 {
		return 0
	}
	return 1
}

// Add inserts item, rejecting it if it overlaps any existing member
// (spec §4.6 Add).
func (t *Tree[T]) Add(item iv.Interval[T]) (bool, error) {
	if t.cfg.ReadOnly() {
		return false, fmt.Errorf("dlfit: Add: %w", iv.ErrReadOnly)
	}
	ok, err := t.insert(item)
	if err != nil || !ok {
		return false, err
	}
	t.notif.Fire(iv.ItemsAdded, []iv.Interval[T]{item})
	return true, nil
}

// insert performs the plain, non-shifting insertion shared by Add and
// the final step of ForceAdd. It reports false, nil when item overlaps
// an existing member instead of an error, since Add's contract is a
// boolean "not added", while ForceAdd treats the same outcome as a bug
// in its own cascade (it must have cleared every overlap first).
func (t *Tree[T]) insert(item iv.Interval[T]) (bool, error) {
	pred, succ := t.locate(item)
	if pred != nil && iv.Overlaps(pred.item, item) {
		return false, nil
	}
	if succ != nil && iv.Overlaps(succ.item, item) {
		return false, nil
	}

	nn := &node[T]{item: item, height: 1}
	t.root = t.insertNode(t.root, nn)
	t.linkBetween(pred, nn, succ)
	t.count++
	return true, nil
}

// locate returns the in-order predecessor and successor of item's
// position, without mutating the tree: the node whose interval's low
// endpoint is immediately below item's, and the one immediately above.
func (t *Tree[T]) locate(item iv.Interval[T]) (pred, succ *node[T]) {
	n := t.root
	for n != nil {
		switch {
		case iv.CompareLow(item, n.item) < 0:
			succ = n
			n = n.left
		case iv.CompareLow(item, n.item) > 0:
			pred = n
			n = n.right
		default:
			// equal low endpoint: treat as colliding with n itself
			return n.prev, n
		}
	}
	return pred, succ
}

func (t *Tree[T]) insertNode(n, nn *node[T]) *node[T] {
	if n == nil {
		return nn
	}
	if iv.CompareLow(nn.item, n.item) < 0 {
		n.left = t.insertNode(n.left, nn)
	} else {
		n.right = t.insertNode(n.right, nn)
	}
	return rebalance(n)
}

// linkBetween splices nn into the doubly linked order between pred and
// succ, the "four-endpoint rewire" of spec §9.
func (t *Tree[T]) linkBetween(pred, nn, succ *node[T]) {
	nn.prev, nn.next = pred, succ
	if pred != nil {
		pred.next = nn
	} else {
		t.head = nn
	}
	if succ != nil {
		succ.prev = nn
	}
}

// unlink removes n from the doubly linked order, reconnecting its
// neighbors directly.
func (t *Tree[T]) unlink(n *node[T]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		t.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
}

// ForceAdd inserts item, first sliding forward every interval that
// would otherwise overlap it, per spec §4.6 ForceAdd. It reports whether
// at least one shift occurred.
//
// The cascade is computed entirely against the pre-shift tree state,
// then applied as a sequence of remove-then-reinsert steps (rather than
// mutating node.item in place) so the tree's low-endpoint ordering and
// the prev/next chain stay consistent throughout: a shift only ever
// increases a member's low endpoint, but nothing guarantees that stays
// within the same subtree position a plain in-place mutation would
// leave it in.
func (t *Tree[T]) ForceAdd(item iv.Interval[T], shift ShiftFunc[T]) (bool, error) {
	if t.cfg.ReadOnly() {
		return false, fmt.Errorf("dlfit: ForceAdd: %w", iv.ErrReadOnly)
	}

	pred, succ := t.locate(item)
	var first *node[T]
	switch {
	case pred != nil && iv.Overlaps(pred.item, item):
		first = pred
	case succ != nil && iv.Overlaps(succ.item, item):
		first = succ
	}

	if first == nil {
		ok, err := t.insert(item)
		if err != nil {
			return false, err
		}
		if ok {
			t.notif.Fire(iv.ItemsAdded, []iv.Interval[T]{item})
		}
		return false, nil
	}

	type shiftedPair struct {
		node    *node[T]
		oldItem iv.Interval[T]
		newItem iv.Interval[T]
	}
	var chain []shiftedPair

	previous := item
	cur := first
	for cur != nil && iv.Overlaps(previous, cur.item) {
		newItem, claimedDone := shift(previous, cur.item)
		overlapsNext := cur.next != nil && iv.Overlaps(newItem, cur.next.item)
		if claimedDone && overlapsNext {
			return false, fmt.Errorf("dlfit: ForceAdd: shift_fn reported done while a later member still overlaps: %w", iv.ErrInvalidOperation)
		}
		chain = append(chain, shiftedPair{node: cur, oldItem: cur.item, newItem: newItem})
		previous = newItem
		if !overlapsNext {
			break
		}
		cur = cur.next
	}

	for _, p := range chain {
		t.unlink(p.node)
		t.root = t.removeNode(t.root, p.oldItem)
		t.count--
	}

	var shiftedItems []iv.Interval[T]
	for _, p := range chain {
		if _, err := t.insert(p.newItem); err != nil {
			return false, err
		}
		shiftedItems = append(shiftedItems, p.newItem)
	}

	ok, err := t.insert(item)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, fmt.Errorf("dlfit: ForceAdd: cascade left an overlap at the insertion point: %w", iv.ErrInvalidOperation)
	}

	all := append([]iv.Interval[T]{item}, shiftedItems...)
	t.notif.Fire(iv.ItemsAdded, all)
	return true, nil
}

// Remove deletes item by value equality, returning true iff it was
// present.
func (t *Tree[T]) Remove(item iv.Interval[T]) (bool, error) {
	if t.cfg.ReadOnly() {
		return false, fmt.Errorf("dlfit: Remove: %w", iv.ErrReadOnly)
	}
	n := t.find(item)
	if n == nil {
		return false, nil
	}
	t.unlink(n)
	t.root = t.removeNode(t.root, n.item)
	t.count--
	t.notif.Fire(iv.ItemsRemoved, []iv.Interval[T]{item})
	return true, nil
}

func (t *Tree[T]) find(item iv.Interval[T]) *node[T] {
	n := t.root
	for n != nil {
		switch c := iv.CompareLow(item, n.item); {
		case c < 0:
			n = n.left
		case c > 0:
			n = n.right
		default:
			if iv.Equal(n.item, item) {
				return n
			}
			return nil
		}
	}
	return nil
}

func (t *Tree[T]) removeNode(n *node[T], key iv.Interval[T]) *node[T] {
	if n == nil {
		return nil
	}
	switch c := iv.CompareLow(key, n.item); {
	case c < 0:
		n.left = t.removeNode(n.left, key)
	case c > 0:
		n.right = t.removeNode(n.right, key)
	default:
		switch {
		case n.left == nil:
			return n.right
		case n.right == nil:
			return n.left
		default:
			succ := n.right
			for succ.left != nil {
				succ = succ.left
			}
			// n now carries succ's item, so n also takes succ's place
			// in the linked order and succ drops out of both.
			n.item = succ.item
			n.prev, n.next = succ.prev, succ.next
			if succ.prev != nil {
				succ.prev.next = n
			} else {
				t.head = n
			}
			if succ.next != nil {
				succ.next.prev = n
			}
			n.right = t.removeNode(n.right, succ.item)
		}
	}
	return rebalance(n)
}

// EnumerateFrom returns a lazy sequence starting at the member equal to
// x, or the first member greater than x if x is absent, following
// successor links thereafter (spec §4.6 EnumerateFrom).
func (t *Tree[T]) EnumerateFrom(x iv.Interval[T]) iter.Seq[iv.Interval[T]] {
	return func(yield func(iv.Interval[T]) bool) {
		_, succ := t.locate(x)
		start := succ
		if n := t.find(x); n != nil {
			start = n
		}
		for n := start; n != nil; n = n.next {
			if !yield(n.item) {
				return
			}
		}
	}
}

// Gaps streams the complement intervals between consecutive members
// (spec §4.6 Gaps), following successor links in O(1) per step.
func (t *Tree[T]) Gaps() iter.Seq[iv.Interval[T]] {
	return func(yield func(iv.Interval[T]) bool) {
		for n := t.head; n != nil && n.next != nil; n = n.next {
			a, b := n.item, n.next.item
			gap := iv.Interval[T]{
				Low: a.High, High: b.Low,
				LowIncluded:  !a.HighIncluded,
				HighIncluded: !b.LowIncluded,
			}
			if gap.Low < gap.High || (gap.Low == gap.High && gap.LowIncluded && gap.HighIncluded) {
				if !yield(gap) {
					return
				}
			}
		}
	}
}

// Clear empties the collection.
func (t *Tree[T]) Clear() error {
	if t.cfg.ReadOnly() {
		return fmt.Errorf("dlfit: Clear: %w", iv.ErrReadOnly)
	}
	if t.count == 0 {
		return nil
	}
	t.root, t.head, t.count = nil, nil, 0
	t.notif.Fire(iv.CollectionCleared, nil)
	return nil
}

// OnChange subscribes listener to every change event.
func (t *Tree[T]) OnChange(listener iv.Listener[T]) { t.notif.Subscribe(listener) }

// FindOverlaps returns every member overlapping q, in ascending order.
// Members are pairwise non-overlapping but q itself can span several of
// them across the gaps between; this locates the first candidate via
// locate (the same position EnumerateFrom starts from) and then walks
// successor links only while the next member still overlaps q, so the
// cost stays O(log n + k) for k matches rather than a full scan.
func (t *Tree[T]) FindOverlaps(q iv.Interval[T]) iter.Seq[iv.Interval[T]] {
	return func(yield func(iv.Interval[T]) bool) {
		pred, succ := t.locate(q)
		start := succ
		if pred != nil && iv.Overlaps(pred.item, q) {
			start = pred
		}
		for n := start; n != nil && iv.Overlaps(n.item, q); n = n.next {
			if !yield(n.item) {
				return
			}
		}
	}
}

// FindOverlapsPoint is the point-stabbing form of FindOverlaps.
func (t *Tree[T]) FindOverlapsPoint(p T) iter.Seq[iv.Interval[T]] {
	return t.FindOverlaps(iv.Interval[T]{Low: p, High: p, LowIncluded: true, HighIncluded: true})
}

// FindOverlap returns the lowest member overlapping q, if any; other
// members may overlap q as well.
func (t *Tree[T]) FindOverlap(q iv.Interval[T]) (iv.Interval[T], bool) {
	for m := range t.FindOverlaps(q) {
		return m, true
	}
	return iv.Interval[T]{}, false
}

// CountOverlaps returns the number of members overlapping q.
func (t *Tree[T]) CountOverlaps(q iv.Interval[T]) int {
	n := 0
	for range t.FindOverlaps(q) {
		n++
	}
	return n
}
