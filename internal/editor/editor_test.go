package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kimod/kimod/internal/buffer"
	"github.com/kimod/kimod/internal/keys"
	"github.com/kimod/kimod/internal/selection"
	"github.com/kimod/kimod/internal/selmode"
)

func newTestComponent(t *testing.T, content string) *Component {
	t.Helper()
	buf := buffer.New(content, nil)
	c, err := New("buf-1", buf, selmode.Character())
	require.NoError(t, err)
	return c
}

func TestNewComponentStartsAtOrigin(t *testing.T) {
	c := newTestComponent(t, "hello\nworld")
	assert.Equal(t, ModeNormal, c.Mode)
	assert.Equal(t, 1, c.Selections.Len())
	assert.Equal(t, selection.CursorStart, c.CursorDirection)
}

func TestResolveNormalModeIntrinsicDispatches(t *testing.T) {
	c := newTestComponent(t, "abc")
	out := c.Resolve(keys.Key{Char: 'i'})
	assert.True(t, out.Handled)
	assert.Equal(t, DispatchEnterInsertMode, out.Action)

	out = c.Resolve(keys.Key{Char: 'u'})
	assert.Equal(t, DispatchUndo, out.Action)
}

func TestResolveEscapesUnknownKey(t *testing.T) {
	c := newTestComponent(t, "abc")
	out := c.Resolve(keys.Key{Char: 'z'})
	assert.False(t, out.Handled)
	assert.Equal(t, 'z', out.Escaped.Char)
}

func TestResolveInsertModeEscape(t *testing.T) {
	c := newTestComponent(t, "abc")
	c.Mode = ModeInsert
	out := c.Resolve(keys.Key{Named: "esc"})
	assert.True(t, out.Handled)
	assert.Equal(t, DispatchEnterNormalMode, out.Action)
}

func TestCopyClipboard(t *testing.T) {
	c := newTestComponent(t, "abcdef")
	require.NoError(t, c.SetSelectionMode(selmode.Character()))
	text := c.Copy()
	assert.Equal(t, "a", text)
	assert.Equal(t, "a", c.Clipboard())
}

func TestSelectAllSpansWholeBuffer(t *testing.T) {
	c := newTestComponent(t, "hello world")
	require.NoError(t, c.SelectAll())
	assert.Equal(t, 1, c.Selections.Len())
	sel := c.Selections.Primary()
	assert.Equal(t, 0, int(sel.Range.Start))
	assert.Equal(t, 11, int(sel.Range.End))
}

func TestUpdateViewportClampsToBufferLength(t *testing.T) {
	c := newTestComponent(t, "a\nb\nc")
	c.UpdateViewport(0, 100)
	require.Len(t, c.VisibleLineRanges, 1)
	assert.Equal(t, 3, c.VisibleLineRanges[0].End)
}

func TestSetJumpsEmptyClearsJumps(t *testing.T) {
	c := newTestComponent(t, "hello world")
	c.SetJumps(nil)
	assert.Empty(t, c.Jumps)
}

func TestSetJumpsFromCharacterMode(t *testing.T) {
	c := newTestComponent(t, "hello world")
	mode := selmode.Character()
	targets, err := selmode.Jumps(c.Buf, mode.Iter, []rune("ab"), [][2]int{{0, 1}})
	require.NoError(t, err)
	c.SetJumps(targets)
	assert.NotEmpty(t, c.Jumps)
	assert.Equal(t, 0, c.Jumps[0].Position.Line)
}
