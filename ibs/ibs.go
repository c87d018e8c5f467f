// Package ibs implements the Interval Binary Search Tree (spec §4.5): a
// dynamic, height-balanced binary search tree keyed by low endpoint
// value, where each node holds, in one unpartitioned set, every interval
// whose low endpoint equals the node's key, plus the span of its
// subtree. Nodes keep no Less/Greater partition: queries prune by the
// cached subtree spans and test each visited interval directly.
//
// Balancing follows the teacher's treap.go rotation shape (rotateLeft/
// rotateRight rebuilding augmented fields bottom-up after every pointer
// swap), adapted from priority-based treap rotations to AVL height
// rotations. The augmented-field-recompute-on-rotation discipline itself
// is grounded on biogo-store's interval.go (rotateLeft/rotateRight there
// recompute min/max after swapping pointers); IBS recomputes each node's
// height and subtree span instead of an LLRB color.
package ibs

import (
	"fmt"
	"iter"

	"golang.org/x/exp/constraints"

	iv "github.com/halfopen/interval"
)

// node is one key in the tree, keyed by the low endpoint value of the
// intervals it holds. The single equal set holds every member with that
// low endpoint value.
type node[T constraints.Ordered] struct {
	key T

	// equal holds intervals whose partition point is this node's key:
	// i.e. intervals added here because CompareLow sorted them to this
	// key during descent.
	equal []iv.Interval[T]

	left, right *node[T]
	height      int

	// span covers every interval stored at or below this node, used to
	// prune FindOverlaps' descent and to answer Span in O(1) from the
	// root.
	span    iv.Interval[T]
	hasSpan bool
}

// Tree is the read-write handle for an Interval Binary Search Tree.
type Tree[T constraints.Ordered] struct {
	root  *node[T]
	count int
	cfg   iv.Config
	notif iv.Notifier[T]
}

var (
	_ iv.Collection[int]        = (*Tree[int])(nil)
	_ iv.MutableCollection[int] = (*Tree[int])(nil)
)

// New builds an Interval Binary Search Tree, optionally pre-loaded with
// items (spec §4.5 Construction: items may be bulk-loaded or added one
// at a time; bulk-loading here inserts one at a time as the spec does
// not require a bulk-optimized layout for IBS).
func New[T constraints.Ordered](items []iv.Interval[T], opts ...iv.Option) (*Tree[T], error) {
	t := &Tree[T]{cfg: iv.NewConfig(opts...)}
	for _, it := range items {
		if !t.cfg.AllowReferenceDuplicates() && t.contains(it) {
			continue
		}
		t.root = t.insert(t.root, it)
		t.count++
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

// recompute refreshes n.height and n.span from its children and its own
// equal set, bottom-up. Every mutation path (insert, delete, rotate)
// calls this on its way back up, following the teacher's treap.go
// pattern of bottom-up augmented-field recomputation after a pointer
// change.
func recompute[T constraints.Ordered](n *node[T]) {
	n.height = 1 + maxInt(height(n.left), height(n.right))

	n.hasSpan = false
	extend := func(s iv.Interval[T]) {
		if !n.hasSpan {
			n.span, n.hasSpan = s, true
			return
		}
		n.span = iv.JoinedSpan(n.span, s)
	}
	for _, e := range n.equal {
		extend(e)
	}
	if n.left != nil && n.left.hasSpan {
		extend(n.left.span)
	}
	if n.right != nil && n.right.hasSpan {
		extend(n.right.span)
	}
}

func balanceFactor[T constraints.Ordered](n *node[T]) int {
	return height(n.left) - height(n.right)
}

// rotateRight and rotateLeft are the AVL analogue of treap.go's split/
// join rotations: swap a parent/child pointer pair, then recompute
// augmented fields bottom-up, child first.
func rotateRight[T constraints.Ordered](n *node[T]) *node[T] {
	l := n.left
	n.left = l.right
	l.right = n
	recompute(n)
	recompute(l)
	return l
}

func rotateLeft[T constraints.Ordered](n *node[T]) *node[T] {
	r := n.right
	n.right = r.left
	r.left = n
	recompute(n)
	recompute(r)
	return r
}

// rebalance restores the AVL height invariant at n, after recompute has
// already refreshed n's own height.
func rebalance[T constraints.Ordered](n *node[T]) *node[T] {
	bf := balanceFactor(n)
	switch {
	case bf > 1:
		if balanceFactor(n.left) < 0 {
			n.left = rotateLeft(n.left)
			recompute(n)
		}
		return rotateRight(n)
	case bf < -1:
		if balanceFactor(n.right) > 0 {
			n.right = rotateRight(n.right)
			recompute(n)
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

// CountSpeed is always ConstantTime for IBS.
func (t *Tree[T]) CountSpeed() iv.CountSpeed { return iv.ConstantTime }

// AllowsReferenceDuplicates reports the construction-time policy (spec
// §4.5 "Duplicates"): by default Add rejects a reference already present.
func (t *Tree[T]) AllowsReferenceDuplicates() bool { return t.cfg.AllowReferenceDuplicates() }

// AllowsOverlaps is always true.
func (t *Tree[T]) AllowsOverlaps() bool { return true }

// AllowsContainments is always true.
func (t *Tree[T]) AllowsContainments() bool { return true }

// IsReadOnly reports the construction-time policy.
func (t *Tree[T]) IsReadOnly() bool { return t.cfg.ReadOnly() }

// Choose returns an arbitrary member.
func (t *Tree[T]) Choose() (iv.Interval[T], error) {
	if t.root == nil {
		return iv.Interval[T]{}, fmt.Errorf("ibs: Choose: %w", iv.ErrNoSuchItem)
	}
	n := t.root
	for len(n.equal) == 0 {
		switch {
		case n.left != nil:
			n = n.left
		case n.right != nil:
			n = n.right
		default:
			// unreachable: a node always owns at least one interval
			return iv.Interval[T]{}, fmt.Errorf("ibs: Choose: %w", iv.ErrNoSuchItem)
		}
	}
	return n.equal[0], nil
}

// Span returns the smallest interval covering every member.
func (t *Tree[T]) Span() (iv.Interval[T], error) {
	if t.root == nil || !t.root.hasSpan {
		return iv.Interval[T]{}, fmt.Errorf("ibs: Span: %w", iv.ErrEmptyCollection)
	}
	return t.root.span, nil
}

// MaximumOverlap computes the maximum depth via an endpoint sweep over
// every member (spec §4.7 fallback: IBS's low-endpoint-keyed layout does
// not track running depth incrementally).
func (t *Tree[T]) MaximumOverlap() int {
	if t.count == 0 {
		return 0
	}
	items := make([]iv.Interval[T], 0, t.count)
	t.walk(t.root, func(v iv.Interval[T]) { items = append(items, v) })
	return iv.MaximumOverlapSweep(items)
}

func (t *Tree[T]) walk(n *node[T], fn func(iv.Interval[T])) {
	if n == nil {
		return
	}
	t.walk(n.left, fn)
	for _, e := range n.equal {
		fn(e)
	}
	t.walk(n.right, fn)
}

// Add inserts iv, returning true iff it was actually inserted (spec
// §4.5 Duplicates: by default a reference already present by value and
// inclusion is rejected, unless WithAllowReferenceDuplicates was given
// at construction).
func (t *Tree[T]) Add(item iv.Interval[T]) (bool, error) {
	if t.cfg.ReadOnly() {
		return false, fmt.Errorf("ibs: Add: %w", iv.ErrReadOnly)
	}
	if !t.cfg.AllowReferenceDuplicates() && t.contains(item) {
		return false, nil
	}
	t.root = t.insert(t.root, item)
	t.count++
	t.notif.Fire(iv.ItemsAdded, []iv.Interval[T]{item})
	return true, nil
}

func (t *Tree[T]) contains(item iv.Interval[T]) bool {
	found := false
	t.walk(t.root, func(v iv.Interval[T]) {
		if iv.Equal(v, item) {
			found = true
		}
	})
	return found
}

// insert places item at the node whose key is item's low endpoint,
// creating that node if absent, then rebalances on the way back up.
func (t *Tree[T]) insert(n *node[T], item iv.Interval[T]) *node[T] {
	if n == nil {
		nn := &node[T]{key: item.Low, equal: []iv.Interval[T]{item}}
		recompute(nn)
		return nn
	}
	switch {
	case item.Low < n.key:
		n.left = t.insert(n.left, item)
	case item.Low > n.key:
		n.right = t.insert(n.right, item)
	default:
		n.equal = append(n.equal, item)
	}
	recompute(n)
	return rebalance(n)
}

// Remove deletes iv by reference equality on value+inclusion, returning
// true iff a matching member was present.
func (t *Tree[T]) Remove(item iv.Interval[T]) (bool, error) {
	if t.cfg.ReadOnly() {
		return false, fmt.Errorf("ibs: Remove: %w", iv.ErrReadOnly)
	}
	var removed bool
	t.root, removed = t.remove(t.root, item)
	if removed {
		t.count--
		t.notif.Fire(iv.ItemsRemoved, []iv.Interval[T]{item})
	}
	return removed, nil
}

func (t *Tree[T]) remove(n *node[T], item iv.Interval[T]) (*node[T], bool) {
	if n == nil {
		return nil, false
	}

	var removed bool
	switch {
	case item.Low < n.key:
		n.left, removed = t.remove(n.left, item)
	case item.Low > n.key:
		n.right, removed = t.remove(n.right, item)
	default:
		for i, e := range n.equal {
			if iv.Equal(e, item) {
				n.equal = append(n.equal[:i], n.equal[i+1:]...)
				removed = true
				break
			}
		}
		if removed && len(n.equal) == 0 {
			n = deleteNode(n)
			if n == nil {
				return nil, true
			}
		}
	}
	if !removed {
		return n, false
	}
	recompute(n)
	return rebalance(n), true
}

// deleteNode removes a now-empty key node, following the standard BST
// deletion cases: a leaf or single-child node is spliced out directly; a
// two-child node is replaced by its in-order successor, whose own node
// is then removed from the right subtree.
func deleteNode[T constraints.Ordered](n *node[T]) *node[T] {
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
		n.key = succ.key
		n.equal = succ.equal
		n.right = deleteKey(n.right, succ.key)
		recompute(n)
		return rebalance(n)
	}
}

// deleteKey removes the node keyed k (used only to splice out the
// in-order successor already copied into its new position).
func deleteKey[T constraints.Ordered](n *node[T], k T) *node[T] {
	if n == nil {
		return nil
	}
	switch {
	case k < n.key:
		n.left = deleteKey(n.left, k)
	case k > n.key:
		n.right = deleteKey(n.right, k)
	default:
		n = deleteNode(n)
		if n == nil {
			return nil
		}
	}
	recompute(n)
	return rebalance(n)
}

// Clear empties the collection.
func (t *Tree[T]) Clear() error {
	if t.cfg.ReadOnly() {
		return fmt.Errorf("ibs: Clear: %w", iv.ErrReadOnly)
	}
	if t.count == 0 {
		return nil
	}
	t.root, t.count = nil, 0
	t.notif.Fire(iv.CollectionCleared, nil)
	return nil
}

// OnChange subscribes listener to every change event.
func (t *Tree[T]) OnChange(listener iv.Listener[T]) { t.notif.Subscribe(listener) }

// FindOverlaps returns a lazy sequence of every member overlapping q
// (spec §4.5 Query): descend the tree, pruning a subtree whose span
// cannot overlap q, and scan each visited node's equal set directly.
func (t *Tree[T]) FindOverlaps(q iv.Interval[T]) iter.Seq[iv.Interval[T]] {
	return func(yield func(iv.Interval[T]) bool) {
		t.findOverlaps(t.root, q, yield)
	}
}

func (t *Tree[T]) findOverlaps(n *node[T], q iv.Interval[T], yield func(iv.Interval[T]) bool) bool {
	if n == nil {
		return true
	}
	if n.left != nil && n.left.hasSpan && iv.Overlaps(n.left.span, q) {
		if !t.findOverlaps(n.left, q, yield) {
			return false
		}
	}
	for _, e := range n.equal {
		if iv.Overlaps(e, q) {
			if !yield(e) {
				return false
			}
		}
	}
	if n.right != nil && n.right.hasSpan && iv.Overlaps(n.right.span, q) {
		if !t.findOverlaps(n.right, q, yield) {
			return false
		}
	}
	return true
}

// FindOverlapsPoint is the point-stabbing form of FindOverlaps.
func (t *Tree[T]) FindOverlapsPoint(p T) iter.Seq[iv.Interval[T]] {
	return t.FindOverlaps(iv.Interval[T]{Low: p, High: p, LowIncluded: true, HighIncluded: true})
}

// FindOverlap returns the first member overlapping q found by the
// pruned descent in FindOverlaps.
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
