package edit

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kimod/kimod/internal/coord"
	"github.com/kimod/kimod/internal/rope"
)

func TestEditTransactionSeedScenario(t *testing.T) {
	// spec.md §8 seed scenario 4: Edit{3..5, "XYZ"} on "abcdefg".
	r := rope.NewRope("abcdefg")
	txn := EditTransaction{Groups: []ActionGroup{
		{Actions: []Action{NewEditAction(Edit{
			Range: coord.NewCharIndexRange(3, 5),
			Old:   "de",
			New:   "XYZ",
		})}},
	}}

	result, err := txn.Apply(r)
	require.NoError(t, err)
	require.Equal(t, "abcXYZfg", result.Rope.String())
	require.Equal(t, 1, result.CharsAdded)
}

func TestEditTransactionInvertible(t *testing.T) {
	// apply(inverse(T), apply(T, B)) == B, per spec.md §8.
	r := rope.NewRope("the quick brown fox")
	txn := EditTransaction{Groups: []ActionGroup{
		{Actions: []Action{NewEditAction(Edit{
			Range: coord.NewCharIndexRange(4, 9),
			Old:   "quick",
			New:   "slow",
		})}},
	}}

	result, err := txn.Apply(r)
	require.NoError(t, err)
	require.Equal(t, "the slow brown fox", result.Rope.String())

	back, err := result.Inverse.Apply(result.Rope)
	require.NoError(t, err)
	require.Equal(t, "the quick brown fox", back.Rope.String())
}

func TestEditTransactionMultiGroupInvertible(t *testing.T) {
	// Two groups: group0 touches positions 0 and 5 (pre-transaction
	// frame); group1 touches position 9, which lies after every edit in
	// group0, so rebasing it by group0's total accumulated offset lands
	// it correctly regardless of exactly where within group0 the offset
	// came from.
	r := rope.NewRope("abcdefghij")
	txn := EditTransaction{Groups: []ActionGroup{
		{Actions: []Action{
			NewEditAction(Edit{Range: coord.NewCharIndexRange(0, 1), Old: "a", New: "AA"}),
			NewEditAction(Edit{Range: coord.NewCharIndexRange(5, 6), Old: "f", New: "FF"}),
		}},
		{Actions: []Action{
			NewEditAction(Edit{Range: coord.NewCharIndexRange(9, 10), Old: "j", New: "JJ"}),
		}},
	}}

	result, err := txn.Apply(r)
	require.NoError(t, err)
	require.Equal(t, "AAbcdeFFghiJJ", result.Rope.String())

	back, err := result.Inverse.Apply(result.Rope)
	require.NoError(t, err)
	require.Equal(t, "abcdefghij", back.Rope.String())
}

func TestEditTransactionRejectsOverlappingEdits(t *testing.T) {
	r := rope.NewRope("abcdefg")
	txn := EditTransaction{Groups: []ActionGroup{
		{Actions: []Action{
			NewEditAction(Edit{Range: coord.NewCharIndexRange(0, 3), Old: "abc", New: "x"}),
			NewEditAction(Edit{Range: coord.NewCharIndexRange(2, 5), Old: "cde", New: "y"}),
		}},
	}}

	_, err := txn.Apply(r)
	require.ErrorIs(t, err, ErrOverlappingEdits)
}

func TestEditTransactionRejectsOutOfBoundsRange(t *testing.T) {
	r := rope.NewRope("abc")
	txn := EditTransaction{Groups: []ActionGroup{
		{Actions: []Action{
			NewEditAction(Edit{Range: coord.NewCharIndexRange(2, 10), Old: "c", New: "x"}),
		}},
	}}

	_, err := txn.Apply(r)
	require.Error(t, err)
	var boundsErr *ErrInvalidEditRange
	require.ErrorAs(t, err, &boundsErr)
}

func TestEditTransactionSelectActionShiftsWithOffset(t *testing.T) {
	r := rope.NewRope("abcdefg")
	txn := EditTransaction{Groups: []ActionGroup{
		{Actions: []Action{
			NewEditAction(Edit{Range: coord.NewCharIndexRange(0, 1), Old: "a", New: "AAA"}),
			NewSelectAction(SelectAction{Range: coord.NewCharIndexRange(5, 6), IsPrimary: true}),
		}},
	}}

	result, err := txn.Apply(r)
	require.NoError(t, err)
	require.Equal(t, "AAAbcdefg", result.Rope.String())
	require.Len(t, result.Selections, 1)
	// "f" was at 5..6; +2 chars inserted before it shifts it to 7..8.
	require.Equal(t, coord.NewCharIndexRange(7, 8), result.Selections[0].Range)
}

func TestEditTransactionApplyToRanges(t *testing.T) {
	// A mark at "f" (5..6) in "abcdefg" survives an edit at 3..5 that
	// doesn't touch it, shifting with the edit's offset.
	txn := EditTransaction{Groups: []ActionGroup{
		{Actions: []Action{NewEditAction(Edit{
			Range: coord.NewCharIndexRange(3, 5),
			Old:   "de",
			New:   "XYZ",
		})}},
	}}

	mark := coord.NewCharIndexRange(5, 6)
	got := txn.ApplyToRanges([]coord.CharIndexRange{mark})
	require.Len(t, got, 1)
	require.Equal(t, coord.NewCharIndexRange(6, 7), got[0])
}

func TestEditTransactionApplyToRangesDropsSwallowedMark(t *testing.T) {
	txn := EditTransaction{Groups: []ActionGroup{
		{Actions: []Action{NewEditAction(Edit{
			Range: coord.NewCharIndexRange(0, 10),
			Old:   "abcdefghij",
			New:   "z",
		})}},
	}}

	mark := coord.NewCharIndexRange(3, 5)
	got := txn.ApplyToRanges([]coord.CharIndexRange{mark})
	require.Empty(t, got)
}
