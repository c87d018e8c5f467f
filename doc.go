// Package interval provides the interval algebra and collection contract
// shared by the container engines in the sibling packages ncl, lcl, ibs
// and dlfit.
//
// An Interval[T] is a half-open, closed or open range over an ordered key
// type T. The comparators in this package (CompareLow, CompareHigh,
// Overlaps, Contains, ...) are the only things the container engines
// depend on; they never compare each other's internals.
//
// The four engines trade construction cost against query shape:
//
//	ncl   - static, nested sublists, general purpose overlap queries
//	lcl   - static, layered, fastest CountOverlaps
//	ibs   - dynamic AVL tree, point stabbing and range overlap
//	dlfit - dynamic AVL tree over non-overlapping intervals, ordered walks
//
// A common use case is IP range lookups (access control lists, IPAM),
// see the extnetip-based example, but any totally ordered key type
// works, e.g. time intervals or plain integers.
package interval
