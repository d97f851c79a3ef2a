package elitech

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestRangeContains(t *testing.T) {
	r := Range{Start: 10, Len: 5}
	assert.True(t, r.Contains(Range{Start: 10, Len: 5}))
	assert.True(t, r.Contains(Range{Start: 12, Len: 2}))
	assert.False(t, r.Contains(Range{Start: 12, Len: 10}))
	assert.True(t, r.Contains(Range{}), "an empty range is contained in anything")
}

func TestRangeEqualEmptyIgnoresStart(t *testing.T) {
	a := Range{Start: 3, Len: 0}
	b := Range{Start: 99, Len: 0}
	assert.True(t, a.Equal(b))
}

func TestRangeUnionAbsorbsEmpty(t *testing.T) {
	r := Range{Start: 5, Len: 3}
	u, err := r.Union(Range{})
	assert.NoError(t, err)
	assert.True(t, u.Equal(r))
}

func TestRangeUnionAdjacent(t *testing.T) {
	a := Range{Start: 0, Len: 5} // [0,5)
	b := Range{Start: 5, Len: 5} // [5,10)
	u, err := a.Union(b)
	assert.NoError(t, err)
	assert.Equal(t, Range{Start: 0, Len: 10}, u)
}

func TestRangeUnionDisjointFails(t *testing.T) {
	a := Range{Start: 0, Len: 2}
	b := Range{Start: 10, Len: 2}
	_, err := a.Union(b)
	assert.ErrorIs(t, err, ErrNotMergeable)
}

func TestRangeSubtractMiddle(t *testing.T) {
	r := Range{Start: 0, Len: 10}
	pieces := r.Subtract(Range{Start: 3, Len: 2})
	assert.Equal(t, []Range{{Start: 0, Len: 3}, {Start: 5, Len: 5}}, pieces)
}

func TestRangeSubtractWhole(t *testing.T) {
	r := Range{Start: 0, Len: 10}
	pieces := r.Subtract(Range{Start: 0, Len: 10})
	assert.Empty(t, pieces)
}

func TestRangeFromString(t *testing.T) {
	r, err := RangeFromString("5")
	assert.NoError(t, err)
	assert.Equal(t, Range{Start: 4, Len: 1}, r)

	r, err = RangeFromString("5-8")
	assert.NoError(t, err)
	assert.Equal(t, Range{Start: 4, Len: 4}, r)

	_, err = RangeFromString("8-5")
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = RangeFromString("nope")
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestCoalesceRangesMergesAndSorts(t *testing.T) {
	in := []Range{{Start: 10, Len: 5}, {Start: 0, Len: 5}, {Start: 4, Len: 6}}
	out := CoalesceRanges(in)
	assert.Equal(t, []Range{{Start: 0, Len: 15}}, out)
}

func TestCoalesceRangesLeavesDisjointSeparate(t *testing.T) {
	in := []Range{{Start: 0, Len: 2}, {Start: 100, Len: 2}}
	out := CoalesceRanges(in)
	assert.Equal(t, []Range{{Start: 0, Len: 2}, {Start: 100, Len: 2}}, out)
}

// TestCoalesceRangesCoversUnion checks the universal invariant that
// coalescing never drops or adds a point: every input point is
// covered by exactly one output range, and every output range is
// covered by the input's point-set.
func TestCoalesceRangesCoversUnion(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 8).Draw(t, "n")
		ranges := make([]Range, n)
		points := map[int]bool{}
		for i := range ranges {
			start := rapid.IntRange(0, 100).Draw(t, "start")
			length := rapid.IntRange(0, 10).Draw(t, "len")
			ranges[i] = Range{Start: start, Len: length}
			for p := start; p < start+length; p++ {
				points[p] = true
			}
		}

		out := CoalesceRanges(ranges)

		outPoints := map[int]bool{}
		for _, r := range out {
			for p := r.Start; p < r.End()+1; p++ {
				if outPoints[p] {
					t.Fatalf("point %d covered by more than one coalesced range", p)
				}
				outPoints[p] = true
			}
		}
		assert.Equal(t, points, outPoints)

		for i := 0; i+1 < len(out); i++ {
			assert.Less(t, out[i].End(), out[i+1].Start-1, "coalesced ranges must not touch")
		}
	})
}
