package buffer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kimod/kimod/internal/coord"
	"github.com/kimod/kimod/internal/edit"
)

func TestCoordinateRoundTrip(t *testing.T) {
	b := New("hello\nworld\n", nil)
	for c := 0; c <= b.LenChars(); c++ {
		byteOff, err := b.CharToByte(coord.CharIndex(c))
		require.NoError(t, err)
		back, err := b.ByteToChar(byteOff)
		require.NoError(t, err)
		require.Equal(t, c, int(back))
	}
}

func TestCharToLineAndLineToChar(t *testing.T) {
	b := New("a\nbb\nccc", nil)
	line, err := b.CharToLine(3)
	require.NoError(t, err)
	require.Equal(t, 1, line)

	start, err := b.LineToChar(2)
	require.NoError(t, err)
	require.Equal(t, coord.CharIndex(5), start)
}

func TestOutOfRangeNeverPanics(t *testing.T) {
	b := New("abc", nil)
	_, err := b.CharToByte(coord.CharIndex(100))
	require.Error(t, err)
	var oor *ErrOutOfRange
	require.ErrorAs(t, err, &oor)
}

func TestApplyEditTransactionRemapsMarks(t *testing.T) {
	b := New("abcdefg", nil)
	b.AddMark(coord.CharIndexRange{Start: 6, End: 7}) // "g"

	tx := edit.EditTransaction{Groups: []edit.ActionGroup{{Actions: []edit.Action{
		edit.NewEditAction(edit.Edit{Range: coord.CharIndexRange{Start: 3, End: 5}, Old: "de", New: "XYZ"}),
	}}}}

	result, err := b.ApplyEditTransaction(tx)
	require.NoError(t, err)
	require.Equal(t, "abcXYZfg", b.Content())
	require.Equal(t, 1, result.CharsAdded)

	marks := b.Marks()
	require.Len(t, marks, 1)
	require.Equal(t, coord.CharIndexRange{Start: 7, End: 8}, marks[0])
}

func TestUndoRedoRestoresContent(t *testing.T) {
	b := New("abc", nil)
	tx := edit.EditTransaction{Groups: []edit.ActionGroup{{Actions: []edit.Action{
		edit.NewEditAction(edit.Edit{Range: coord.CharIndexRange{Start: 3, End: 3}, Old: "", New: "def"}),
	}}}}
	_, err := b.ApplyEditTransaction(tx)
	require.NoError(t, err)
	require.Equal(t, "abcdef", b.Content())

	_, ok, err := b.Undo()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "abc", b.Content())

	_, ok, err = b.Redo()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "abcdef", b.Content())
}

func TestDiagnosticsDroppedWhenOverwritten(t *testing.T) {
	b := New("abcdefg", nil)
	b.SetDiagnostics([]Diagnostic{{Range: coord.CharIndexRange{Start: 2, End: 4}, Message: "bad"}})

	tx := edit.EditTransaction{Groups: []edit.ActionGroup{{Actions: []edit.Action{
		edit.NewEditAction(edit.Edit{Range: coord.CharIndexRange{Start: 0, End: 7}, Old: "abcdefg", New: "xx"}),
	}}}}
	_, err := b.ApplyEditTransaction(tx)
	require.NoError(t, err)
	require.Empty(t, b.Diagnostics())
}

func TestDetectLanguageByExtensionAndShebang(t *testing.T) {
	lang, ok := DetectLanguage("foo.php", "<?php")
	require.True(t, ok)
	require.Equal(t, "php", lang.Name)

	lang, ok = DetectLanguage("script", "#!/bin/bash")
	require.True(t, ok)
	require.Equal(t, "bash", lang.Name)

	_, ok = DetectLanguage("unknown.xyz", "")
	require.False(t, ok)
}
