package interval

import (
	"sort"

	"golang.org/x/exp/constraints"
)

// Sort orders items in place by ascending low endpoint, ties broken by
// high endpoint (spec §3), generalizing the teacher's Sort/compareDefault
// pair in interval.go/comparer.go.
func Sort[T constraints.Ordered](items []Interval[T]) {
	sort.Slice(items, func(i, j int) bool { return Compare(items[i], items[j]) < 0 })
}

// SortByHigh orders items in place by ascending high endpoint. Nothing
// else in this module calls it.
func SortByHigh[T constraints.Ordered](items []Interval[T]) {
	sort.Slice(items, func(i, j int) bool { return CompareHigh(items[i], items[j]) < 0 })
}
