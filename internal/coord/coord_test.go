package coord

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCharIndexAddSaturates(t *testing.T) {
	require.Equal(t, CharIndex(0), CharIndex(3).Add(-10))
	require.Equal(t, CharIndex(5), CharIndex(3).Add(2))
}

func TestCharIndexRangeApplyEdit(t *testing.T) {
	// Seed scenario from spec.md §8: Edit{3..5, "XYZ"} on "abcdefg".
	// chars_offset = len("XYZ") - len("de") = +1.
	edit := NewCharIndexRange(3, 5)
	offset := 1

	// A selection 6..7 ("g") becomes 7..8: entirely after the edit.
	after := NewCharIndexRange(6, 7)
	got, ok := after.ApplyEdit(edit, offset)
	require.True(t, ok)
	require.Equal(t, NewCharIndexRange(7, 8), got)

	// A selection 3..5 ("de") is a superset match of the edit: dropped.
	exact := NewCharIndexRange(3, 5)
	_, ok = exact.ApplyEdit(edit, offset)
	require.False(t, ok)
}

func TestCharIndexRangeApplyEditBeforeEdit(t *testing.T) {
	edit := NewCharIndexRange(10, 12)
	before := NewCharIndexRange(0, 3)
	got, ok := before.ApplyEdit(edit, 5)
	require.True(t, ok)
	require.Equal(t, before, got)
}

func TestCharIndexRangeApplyEditContainsEdit(t *testing.T) {
	edit := NewCharIndexRange(5, 6)
	outer := NewCharIndexRange(0, 10)
	got, ok := outer.ApplyEdit(edit, 3)
	require.True(t, ok)
	require.Equal(t, NewCharIndexRange(0, 13), got)
}

func TestCharIndexRangeApplyEditEditContainsRange(t *testing.T) {
	edit := NewCharIndexRange(0, 20)
	inner := NewCharIndexRange(5, 8)
	_, ok := inner.ApplyEdit(edit, -15)
	require.False(t, ok)
}

func TestCharIndexRangeApplyEditOverlapsFront(t *testing.T) {
	edit := NewCharIndexRange(0, 5)
	r := NewCharIndexRange(3, 10)
	got, ok := r.ApplyEdit(edit, 2)
	require.True(t, ok)
	require.Equal(t, NewCharIndexRange(7, 12), got)
}

func TestCharIndexRangeApplyEditOverlapsBack(t *testing.T) {
	edit := NewCharIndexRange(8, 15)
	r := NewCharIndexRange(3, 10)
	got, ok := r.ApplyEdit(edit, 2)
	require.True(t, ok)
	require.Equal(t, NewCharIndexRange(3, 8), got)
}

func TestPositionLess(t *testing.T) {
	require.True(t, Position{Line: 1, Column: 0}.Less(Position{Line: 2, Column: 0}))
	require.True(t, Position{Line: 2, Column: 1}.Less(Position{Line: 2, Column: 5}))
	require.False(t, Position{Line: 2, Column: 5}.Less(Position{Line: 2, Column: 5}))
}
