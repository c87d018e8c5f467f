package dlfit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	iv "github.com/halfopen/interval"
	"github.com/halfopen/interval/dlfit"
)

func mk(t *testing.T, lo, hi int) iv.Interval[int] {
	t.Helper()
	ival, err := iv.New(lo, hi)
	require.NoError(t, err)
	return ival
}

func TestAddRejectsOverlap(t *testing.T) {
	tree, err := dlfit.New([]iv.Interval[int]{mk(t, 0, 2)})
	require.NoError(t, err)

	ok, err := tree.Add(mk(t, 1, 3))
	require.NoError(t, err)
	assert.False(t, ok, "overlapping Add must be rejected")
	assert.Equal(t, 1, tree.Count())
}

func TestAddAdjacentAccepted(t *testing.T) {
	tree, err := dlfit.New([]iv.Interval[int]{mk(t, 0, 2)})
	require.NoError(t, err)

	ok, err := tree.Add(mk(t, 2, 4))
	require.NoError(t, err)
	assert.True(t, ok, "touching, non-overlapping intervals must be accepted")
	assert.Equal(t, 2, tree.Count())
}

// widthPreservingShift is a ShiftFunc that slides next to begin where
// previous ends, preserving next's width, matching the contract of spec
// §4.6 ForceAdd.
func widthPreservingShift(previous, next iv.Interval[int]) (iv.Interval[int], bool) {
	width := next.High - next.Low
	shifted := iv.Interval[int]{
		Low: previous.High, High: previous.High + width,
		LowIncluded: next.LowIncluded, HighIncluded: next.HighIncluded,
	}
	return shifted, false
}

// TestForceAddIntoGap reproduces spec scenario S3: the new interval fits
// exactly into the gap between two members, so ForceAdd reports no shift.
func TestForceAddIntoGap(t *testing.T) {
	a := mk(t, 0, 1)
	b := mk(t, 2, 3)
	tree, err := dlfit.New([]iv.Interval[int]{a, b})
	require.NoError(t, err)

	shifted, err := tree.ForceAdd(mk(t, 1, 2), widthPreservingShift)
	require.NoError(t, err)
	assert.False(t, shifted)
	assert.Equal(t, 3, tree.Count())

	span, err := tree.Span()
	require.NoError(t, err)
	assert.True(t, iv.Equal(span, iv.Must(iv.New(0, 3))))
}

// TestForceAddCascade reproduces spec scenario S4: inserting into an
// occupied run shifts every overlapping member forward in a chain until
// a gap is reached.
func TestForceAddCascade(t *testing.T) {
	a := mk(t, 1, 2)
	b := mk(t, 2, 3)
	c := mk(t, 3, 4)
	d := mk(t, 6, 7)
	tree, err := dlfit.New([]iv.Interval[int]{a, b, c, d})
	require.NoError(t, err)

	var shiftCount int
	tree.OnChange(func(e iv.ChangeEvent[int]) {
		if e.Kind == iv.ItemsAdded {
			shiftCount = len(e.Items) - 1 // minus the originally inserted item
		}
	})

	shifted, err := tree.ForceAdd(mk(t, 0, 2), widthPreservingShift)
	require.NoError(t, err)
	assert.True(t, shifted)
	assert.Equal(t, 5, tree.Count())
	assert.Equal(t, 3, shiftCount)

	span, err := tree.Span()
	require.NoError(t, err)
	assert.True(t, iv.Equal(span, iv.Must(iv.New(0, 7))))

	// every member must now be pairwise non-overlapping
	var all []iv.Interval[int]
	for m := range tree.EnumerateFrom(iv.Must(iv.New(-1000, -999))) {
		all = append(all, m)
	}
	for i := 1; i < len(all); i++ {
		assert.False(t, iv.Overlaps(all[i-1], all[i]), "members %v and %v must not overlap", all[i-1], all[i])
	}
}

func TestForceAddContractViolation(t *testing.T) {
	a := mk(t, 0, 2)
	b := mk(t, 2, 3)
	tree, err := dlfit.New([]iv.Interval[int]{a, b})
	require.NoError(t, err)

	lying := func(previous, next iv.Interval[int]) (iv.Interval[int], bool) {
		shifted, _ := widthPreservingShift(previous, next)
		return shifted, true // falsely claims done while still overlapping
	}

	_, err = tree.ForceAdd(mk(t, 1, 2), lying)
	assert.ErrorIs(t, err, iv.ErrInvalidOperation)
}

func TestRemove(t *testing.T) {
	a := mk(t, 0, 2)
	b := mk(t, 2, 4)
	tree, err := dlfit.New([]iv.Interval[int]{a, b})
	require.NoError(t, err)

	removed, err := tree.Remove(a)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, 1, tree.Count())

	removed, err = tree.Remove(a)
	require.NoError(t, err)
	assert.False(t, removed)

	remaining, err := tree.Choose()
	require.NoError(t, err)
	assert.True(t, iv.Equal(remaining, b))
}

func TestGaps(t *testing.T) {
	a := mk(t, 0, 2)
	b := mk(t, 5, 7)
	c := mk(t, 10, 12)
	tree, err := dlfit.New([]iv.Interval[int]{a, b, c})
	require.NoError(t, err)

	var gaps []iv.Interval[int]
	for g := range tree.Gaps() {
		gaps = append(gaps, g)
	}
	require.Len(t, gaps, 2)
	assert.True(t, iv.Equal(gaps[0], iv.Must(iv.New(2, 5))))
	assert.True(t, iv.Equal(gaps[1], iv.Must(iv.New(7, 10))))
}

func TestEnumerateFrom(t *testing.T) {
	a := mk(t, 0, 2)
	b := mk(t, 5, 7)
	c := mk(t, 10, 12)
	tree, err := dlfit.New([]iv.Interval[int]{a, b, c})
	require.NoError(t, err)

	var got []iv.Interval[int]
	for m := range tree.EnumerateFrom(mk(t, 4, 5)) {
		got = append(got, m)
	}
	require.Len(t, got, 2)
	assert.True(t, iv.Equal(got[0], b))
	assert.True(t, iv.Equal(got[1], c))
}

// TestFindOverlapsSpansMultipleMembers guards against regressing to a
// FindOverlaps that only inspects the nearest neighbor of q's sort
// position: a query spanning several gaps must return every member it
// touches, not just the first.
func TestFindOverlapsSpansMultipleMembers(t *testing.T) {
	a := mk(t, 0, 1)
	b := mk(t, 2, 3)
	c := mk(t, 4, 5)
	tree, err := dlfit.New([]iv.Interval[int]{a, b, c})
	require.NoError(t, err)

	q := mk(t, 0, 5)
	var got []iv.Interval[int]
	for m := range tree.FindOverlaps(q) {
		got = append(got, m)
	}
	require.Len(t, got, 3)
	assert.True(t, iv.Equal(got[0], a))
	assert.True(t, iv.Equal(got[1], b))
	assert.True(t, iv.Equal(got[2], c))
	assert.Equal(t, 3, tree.CountOverlaps(q))
}

func TestMaximumOverlapIsAlwaysOneOrZero(t *testing.T) {
	empty, err := dlfit.New[int](nil)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.MaximumOverlap())

	tree, err := dlfit.New([]iv.Interval[int]{mk(t, 0, 2), mk(t, 2, 4)})
	require.NoError(t, err)
	assert.Equal(t, 1, tree.MaximumOverlap())
}

func TestReadOnlyRejectsMutation(t *testing.T) {
	tree, err := dlfit.New([]iv.Interval[int]{mk(t, 0, 2)}, iv.WithReadOnly())
	require.NoError(t, err)

	_, err = tree.Add(mk(t, 5, 6))
	assert.ErrorIs(t, err, iv.ErrReadOnly)

	_, err = tree.ForceAdd(mk(t, 5, 6), widthPreservingShift)
	assert.ErrorIs(t, err, iv.ErrReadOnly)

	_, err = tree.Remove(mk(t, 0, 2))
	assert.ErrorIs(t, err, iv.ErrReadOnly)

	assert.ErrorIs(t, tree.Clear(), iv.ErrReadOnly)
}

func TestEmptyTree(t *testing.T) {
	tree, err := dlfit.New[int](nil)
	require.NoError(t, err)
	assert.True(t, tree.IsEmpty())

	_, err = tree.Span()
	assert.ErrorIs(t, err, iv.ErrEmptyCollection)

	_, err = tree.Choose()
	assert.ErrorIs(t, err, iv.ErrNoSuchItem)
}
