package interval

import (
	"iter"

	"golang.org/x/exp/constraints"
)

// CountSpeed documents the time complexity of Count. Every engine in this
// module reports ConstantTime (spec §4.7).
type CountSpeed uint8

const (
	ConstantTime CountSpeed = iota
	LinearTime
)

func (s CountSpeed) String() string {
	if s == ConstantTime {
		return "constant"
	}
	return "linear"
}

// Collection is the uniform query surface every container engine
// implements (spec §4.7). It is a capability-based abstraction (spec §9
// design note): callers branch on the capability booleans instead of on
// the concrete engine type.
type Collection[T constraints.Ordered] interface {
	// IsEmpty reports whether the collection has no members.
	IsEmpty() bool

	// Count returns the number of members.
	Count() int

	// CountSpeed documents the time complexity of Count.
	CountSpeed() CountSpeed

	// Choose returns an arbitrary member. It fails with ErrNoSuchItem on
	// an empty collection.
	Choose() (Interval[T], error)

	// Span returns the smallest interval covering every member. It fails
	// with ErrEmptyCollection on an empty collection.
	Span() (Interval[T], error)

	// MaximumOverlap returns the largest number of members that
	// simultaneously contain any single point. Zero on an empty
	// collection.
	MaximumOverlap() int

	// FindOverlaps returns a lazy sequence of every member overlapping q,
	// each exactly once (subject to reference-duplicate policy).
	FindOverlaps(q Interval[T]) iter.Seq[Interval[T]]

	// FindOverlapsPoint is the point-stabbing form of FindOverlaps.
	FindOverlapsPoint(p T) iter.Seq[Interval[T]]

	// FindOverlap returns one member overlapping q, if any.
	FindOverlap(q Interval[T]) (Interval[T], bool)

	// CountOverlaps returns the number of members overlapping q.
	CountOverlaps(q Interval[T]) int

	// AllowsReferenceDuplicates reports whether Add accepts an
	// already-present reference.
	AllowsReferenceDuplicates() bool

	// AllowsOverlaps reports whether members of this engine may overlap
	// each other.
	AllowsOverlaps() bool

	// AllowsContainments reports whether one member may contain another.
	AllowsContainments() bool

	// IsReadOnly reports whether Add/Remove/Clear fail with ErrReadOnly.
	IsReadOnly() bool
}

// MutableCollection extends Collection with the dynamic-engine mutation
// API (spec §6), available on ibs.Tree and dlfit.Tree.
type MutableCollection[T constraints.Ordered] interface {
	Collection[T]

	// Add inserts iv, returning true iff it was actually inserted (false
	// on duplicate rejection). It fails with ErrReadOnly on a read-only
	// collection.
	Add(iv Interval[T]) (bool, error)

	// Remove deletes iv, returning true iff it was present.
	Remove(iv Interval[T]) (bool, error)

	// Clear empties the collection. A second Clear is a no-op and fires
	// no event.
	Clear() error

	// OnChange subscribes listener to every change event this collection
	// fires, in subscription order (spec §6, §9).
	OnChange(listener Listener[T])
}

// EventKind distinguishes the change events of spec §6.
type EventKind uint8

const (
	ItemsAdded EventKind = iota
	ItemsRemoved
	CollectionCleared
	CollectionChanged
)

func (k EventKind) String() string {
	switch k {
	case ItemsAdded:
		return "ItemsAdded"
	case ItemsRemoved:
		return "ItemsRemoved"
	case CollectionCleared:
		return "CollectionCleared"
	default:
		return "CollectionChanged"
	}
}

// ChangeEvent describes one mutation. Items is empty for
// CollectionCleared.
type ChangeEvent[T constraints.Ordered] struct {
	Kind  EventKind
	Items []Interval[T]
}

// Listener receives change events. Delivery is synchronous on the
// mutating call, in subscription order (spec §5, §9).
type Listener[T constraints.Ordered] func(ChangeEvent[T])

// Notifier is a small synchronous observer list, embedded by the dynamic
// engines (ibs.Tree, dlfit.Tree) to implement OnChange/fire.
type Notifier[T constraints.Ordered] struct {
	listeners []Listener[T]
}

// Subscribe appends listener to the notification list.
func (n *Notifier[T]) Subscribe(listener Listener[T]) {
	n.listeners = append(n.listeners, listener)
}

// Fire delivers evt to every subscriber, in subscription order, followed
// by a CollectionChanged event (spec §6: "ItemsAdded, ItemsRemoved,
// CollectionCleared, CollectionChanged" each fire once per operation that
// effects a change; CollectionChanged is the catch-all fired alongside
// the specific event).
func (n *Notifier[T]) Fire(kind EventKind, items []Interval[T]) {
	evt := ChangeEvent[T]{Kind: kind, Items: items}
	for _, l := range n.listeners {
		l(evt)
	}
	if kind != CollectionChanged {
		generic := ChangeEvent[T]{Kind: CollectionChanged, Items: items}
		for _, l := range n.listeners {
			l(generic)
		}
	}
}
