package ncconv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func copySource() *fakeSource {
	big := make([]float32, 100*4)
	for i := range big {
		big[i] = float32(i)
	}
	return &fakeSource{
		vars: []string{"temp", "count", "note", "small"},
		byName: map[string]*fakeVar{
			"temp":  {tag: "float", shape: []int{100, 4}, hint: []string{"x", "y"}, f32: [][]float32{big, big}},
			"count": {tag: "int32_t", shape: []int{1}, hint: []string{"one"}, i32: [][]int32{{7}, {8}}},
			"note":  {tag: "string", strs: []string{"a", "b"}},
			"small": {tag: "float", shape: []int{10}, hint: []string{"z"}, f32: [][]float32{{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, {9, 8, 7, 6, 5, 4, 3, 2, 1, 0}}},
		},
		steps: 2,
	}
}

func copyMeta(t *testing.T, src *fakeSource) *Metadata {
	t.Helper()
	meta, err := ReadMetadata(src)
	require.NoError(t, err)
	return meta
}

func TestCopySerialDispatch(t *testing.T) {
	src := copySource()
	dst := newRecordDest()
	meta := copyMeta(t, src)

	err := copyData(context.Background(), src, dst, meta, Serial(), nil)
	require.NoError(t, err)

	// Single-element one-dimensional values land in the scalar slot.
	require.Len(t, dst.scalars["count"], 2)
	require.Equal(t, []int32{7}, dst.scalars["count"][0])

	// Strings land in the per-step string slot.
	require.Equal(t, map[int]string{0: "a", 1: "b"}, dst.strings["note"])

	// Arrays are written as full-extent slabs, one per step.
	var tempSlabs, smallSlabs int
	for _, s := range dst.slabs {
		switch s.name {
		case "temp":
			require.Equal(t, []int{0, 0}, s.start)
			require.Equal(t, []int{100, 4}, s.count)
			tempSlabs++
		case "small":
			require.Equal(t, []int{0}, s.start)
			require.Equal(t, []int{10}, s.count)
			smallSlabs++
		}
	}
	require.Equal(t, 2, tempSlabs)
	require.Equal(t, 2, smallSlabs)
}

func TestCopyCollectiveSplitsLargestAxis(t *testing.T) {
	meta := copyMeta(t, copySource())
	dst := newRecordDest()

	// Two ranks, each with its own source handle.
	for rank := 0; rank < 2; rank++ {
		err := copyData(context.Background(), copySource(), dst, meta, Exec{Rank: rank, Size: 2}, nil)
		require.NoError(t, err)
	}

	starts := map[int]int{}
	for _, s := range dst.slabs {
		if s.name != "temp" {
			continue
		}
		require.Equal(t, []int{50, 4}, s.count)
		starts[s.start[0]]++
	}
	// Two steps from each rank.
	require.Equal(t, map[int]int{0: 2, 50: 2}, starts)
}

func TestCopyCollectiveRankZeroWritesUndecomposed(t *testing.T) {
	meta := copyMeta(t, copySource())

	dst := newRecordDest()
	err := copyData(context.Background(), copySource(), dst, meta, Exec{Rank: 1, Size: 2}, nil)
	require.NoError(t, err)

	// A non-zero rank writes only its slab of the decomposed variable:
	// no strings, no scalars, no sub-threshold arrays.
	require.Empty(t, dst.strings)
	require.Empty(t, dst.scalars)
	for _, s := range dst.slabs {
		require.Equal(t, "temp", s.name)
	}

	dst = newRecordDest()
	err = copyData(context.Background(), copySource(), dst, meta, Exec{Rank: 0, Size: 2}, nil)
	require.NoError(t, err)
	require.Len(t, dst.strings["note"], 2)
	require.Len(t, dst.scalars["count"], 2)
}

func TestCopyReadFailureNamesVariable(t *testing.T) {
	src := copySource()
	src.readErr = map[string]error{"temp": context.DeadlineExceeded}
	dst := newRecordDest()
	meta := copyMeta(t, src)

	err := copyData(context.Background(), src, dst, meta, Serial(), nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), `"temp"`)

	err = copyData(context.Background(), src, dst, meta, Exec{Rank: 0, Size: 2}, nil)
	require.ErrorIs(t, err, ErrCollectiveIO)
}

func TestCopyReportsProgressPerVariable(t *testing.T) {
	src := copySource()
	dst := newRecordDest()
	meta := copyMeta(t, src)

	var names []string
	err := copyData(context.Background(), src, dst, meta, Serial(), func(done, total int, name string) {
		require.Equal(t, len(meta.Vars), total)
		names = append(names, name)
	})
	require.NoError(t, err)
	// One call per variable plus the final completion call.
	require.Equal(t, []string{"temp", "count", "note", "small", ""}, names)
}
