package lcl_test

import (
	"testing"

	iv "github.com/halfopen/interval"
	"github.com/halfopen/interval/lcl"
)

func mk(t *testing.T, lo, hi int) iv.Interval[int] {
	t.Helper()
	ival, err := iv.New(lo, hi+1)
	if err != nil {
		t.Fatal(err)
	}
	return ival
}

func TestFindOverlapsStabbing(t *testing.T) {
	a := mk(t, 2, 7)
	b := mk(t, 4, 12)
	c := mk(t, 5, 7)
	d := mk(t, 6, 8)
	e := mk(t, 9, 11)
	f := mk(t, 11, 17)
	g := mk(t, 18, 21)

	tree, err := lcl.New([]iv.Interval[int]{a, b, c, d, e, f, g})
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		point int
		want  int
	}{
		{6, 4}, // a,b,c,d
		{9, 2}, // b,e
		{11, 3}, // b,e,f
		{13, 1}, // f
	}
	for _, tc := range cases {
		if n := tree.CountOverlaps(point(tc.point)); n != tc.want {
			t.Errorf("CountOverlaps(point %d) = %d, want %d", tc.point, n, tc.want)
		}
		got := 0
		for range tree.FindOverlapsPoint(tc.point) {
			got++
		}
		if got != tc.want {
			t.Errorf("FindOverlapsPoint(%d) yielded %d, want %d", tc.point, got, tc.want)
		}
	}
}

func point(p int) iv.Interval[int] {
	return iv.Interval[int]{Low: p, High: p, LowIncluded: true, HighIncluded: true}
}

// TestAllNestedContainment reproduces spec scenario S5.
func TestAllNestedContainment(t *testing.T) {
	items := []iv.Interval[int]{
		mk(t, 0, 10), mk(t, 1, 8), mk(t, 2, 6), mk(t, 3, 9), mk(t, 4, 5),
	}
	tree, err := lcl.New(items)
	if err != nil {
		t.Fatal(err)
	}

	n := 0
	for range tree.FindOverlapsPoint(4) {
		n++
	}
	if n != 5 {
		t.Errorf("FindOverlapsPoint(4) yielded %d, want 5", n)
	}

	zero := iv.Must(iv.New(0, 1))
	if n := tree.CountOverlaps(zero); n != 1 {
		t.Errorf("CountOverlaps([0,1)) = %d, want 1", n)
	}
}

func TestFindOverlapNoMatch(t *testing.T) {
	items := []iv.Interval[int]{mk(t, 2, 7), mk(t, 18, 21)}
	tree, err := lcl.New(items)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := tree.FindOverlap(mk(t, 9, 10)); ok {
		t.Error("FindOverlap should report false for a disjoint gap")
	}
	if _, ok := tree.FindOverlap(mk(t, 3, 4)); !ok {
		t.Error("FindOverlap should report true for an overlapping query")
	}
}

func TestEmptyTree(t *testing.T) {
	tree, err := lcl.New[int](nil)
	if err != nil {
		t.Fatal(err)
	}
	if !tree.IsEmpty() {
		t.Error("expected empty tree")
	}
	if _, err := tree.Span(); err == nil {
		t.Error("expected ErrEmptyCollection")
	}
	if _, err := tree.Choose(); err == nil {
		t.Error("expected ErrNoSuchItem")
	}
}
