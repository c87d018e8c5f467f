package interval_test

import (
	"testing"

	iv "github.com/halfopen/interval"
)

func mkG(t *testing.T, lo, hi int) iv.Interval[int] {
	t.Helper()
	ival, err := iv.New(lo, hi)
	if err != nil {
		t.Fatal(err)
	}
	return ival
}

func collectG(seq func(func(iv.Interval[int]) bool)) []iv.Interval[int] {
	var out []iv.Interval[int]
	for v := range seq {
		out = append(out, v)
	}
	return out
}

func sameG(got, want []iv.Interval[int]) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if !iv.Equal(got[i], want[i]) {
			return false
		}
	}
	return true
}

// TestGapsSortedNonOverlapping reproduces spec §4.2 over the shape Gaps
// requires: items already sorted ascending, pairwise non-overlapping.
func TestGapsSortedNonOverlapping(t *testing.T) {
	items := []iv.Interval[int]{mkG(t, 2, 5), mkG(t, 8, 10)}
	query := mkG(t, 0, 12)

	got := collectG(iv.Gaps(query, items))
	want := []iv.Interval[int]{mkG(t, 0, 2), mkG(t, 5, 8), mkG(t, 10, 12)}
	if !sameG(got, want) {
		t.Errorf("Gaps() = %v, want %v", got, want)
	}
}

func TestGapsQueryNarrowerThanItems(t *testing.T) {
	items := []iv.Interval[int]{mkG(t, 0, 20)}
	query := mkG(t, 5, 10)

	got := collectG(iv.Gaps(query, items))
	if len(got) != 0 {
		t.Errorf("Gaps() = %v, want no gaps: query is fully covered", got)
	}
}

func TestGapsEndpointInclusionInverted(t *testing.T) {
	items := []iv.Interval[int]{iv.Must(iv.NewClosed(2, 5))}
	query := mkG(t, 0, 10)

	got := collectG(iv.Gaps(query, items))
	if len(got) != 2 {
		t.Fatalf("Gaps() = %v, want 2 gaps", got)
	}
	// the closed item [2,5] excludes both of its own endpoints from the
	// surrounding gaps
	if got[0].HighIncluded {
		t.Errorf("gap before a closed-low item must exclude that item's low: %v", got[0])
	}
	if got[1].LowIncluded {
		t.Errorf("gap after a closed-high item must exclude that item's high: %v", got[1])
	}
}

// TestGapsOverlapping exercises the possibly-overlapping sweep directly.
func TestGapsOverlapping(t *testing.T) {
	items := []iv.Interval[int]{mkG(t, 0, 5), mkG(t, 3, 8), mkG(t, 12, 15)}
	query := mkG(t, 0, 20)

	got := collectG(iv.GapsOverlapping(query, items))
	want := []iv.Interval[int]{mkG(t, 8, 12), mkG(t, 15, 20)}
	if !sameG(got, want) {
		t.Errorf("GapsOverlapping() = %v, want %v", got, want)
	}
}

func TestGapsOverlappingTouchingIntervalsLeaveNoGap(t *testing.T) {
	// b's included high meets c's included low at 9: they touch with no
	// gap between them. b's own excluded low at 5 means point 5 itself
	// is still uncovered, so the gap before b includes it.
	a := mkG(t, 0, 3)
	b := iv.Must(iv.NewHighIncluded(5, 9))
	c := mkG(t, 9, 12)
	items := []iv.Interval[int]{a, b, c}
	query := mkG(t, 0, 12)

	got := collectG(iv.GapsOverlapping(query, items))
	want := []iv.Interval[int]{iv.Must(iv.NewClosed(3, 5))}
	if !sameG(got, want) {
		t.Errorf("GapsOverlapping() = %v, want %v", got, want)
	}
}

func TestUniqueEndpoints(t *testing.T) {
	items := []iv.Interval[int]{mkG(t, 0, 5), mkG(t, 3, 8), mkG(t, 8, 10)}
	var got []int
	for p := range iv.UniqueEndpoints(items) {
		got = append(got, p)
	}
	want := []int{0, 3, 5, 8, 10}
	if len(got) != len(want) {
		t.Fatalf("UniqueEndpoints() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("UniqueEndpoints()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

// TestMaximumOverlapSweepTieBreaksOnInclusion reproduces the fixture from
// ibs/ibs_test.go's TestFindOverlapsRange: at point 9, d=(9,20] does not
// contain 9 (excluded low), so the true maximum overlap is 5, not 6.
func TestMaximumOverlapSweepTieBreaksOnInclusion(t *testing.T) {
	a := mkG(t, 9, 19)                        // [9,19)
	b := mkG(t, 2, 11)                        // [2,11)
	c := iv.Must(iv.NewLowIncluded(1, 3))     // [1,3)
	d := iv.Must(iv.NewHighIncluded(9, 20))   // (9,20]
	e := mkG(t, 8, 13)                        // [8,13)
	f := iv.Must(iv.NewClosed(18, 18))        // {18}
	g := mkG(t, -100, 17)                     // [-100,17)
	h := iv.Must(iv.NewOpen(5, 10))           // (5,10)

	items := []iv.Interval[int]{a, b, c, d, e, f, g, h}
	if got := iv.MaximumOverlapSweep(items); got != 5 {
		t.Errorf("MaximumOverlapSweep() = %d, want 5", got)
	}
}

func TestMaximumOverlapSweepTouchingIntervals(t *testing.T) {
	// x ends exclusively where y begins inclusively: they never coexist
	// at any single point, so the max must stay 1.
	x := mkG(t, 0, 5)
	y := iv.Must(iv.NewClosed(5, 10))
	if got := iv.MaximumOverlapSweep([]iv.Interval[int]{x, y}); got != 1 {
		t.Errorf("MaximumOverlapSweep() = %d, want 1 for touching half-open/closed intervals", got)
	}

	// same shared point, but both sides included: they do coexist at 5.
	x2 := iv.Must(iv.NewClosed(0, 5))
	y2 := iv.Must(iv.NewClosed(5, 10))
	if got := iv.MaximumOverlapSweep([]iv.Interval[int]{x2, y2}); got != 2 {
		t.Errorf("MaximumOverlapSweep() = %d, want 2 when both touching endpoints are included", got)
	}
}
