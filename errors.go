package interval

import "errors"

// Sentinel error kinds, see spec §7. Callers should use errors.Is against
// these, since engines wrap them with call-specific context via %w.
var (
	// ErrEmptyCollection is returned by Span on an empty collection.
	ErrEmptyCollection = errors.New("interval: collection is empty")

	// ErrReadOnly is returned by Add, Remove and Clear on a read-only
	// collection.
	ErrReadOnly = errors.New("interval: collection is read-only")

	// ErrInvalidOperation is returned when constructing an invalid
	// interval, and by ForceAdd when a caller-supplied shift function
	// breaks its contract.
	ErrInvalidOperation = errors.New("interval: invalid operation")

	// ErrNoSuchItem is returned by Choose on an empty collection.
	ErrNoSuchItem = errors.New("interval: no such item")
)
