package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kimod/kimod/internal/buffer"
	"github.com/kimod/kimod/internal/keys"
	"github.com/kimod/kimod/internal/selmode"
	"github.com/kimod/kimod/internal/tui"
)

func TestOpenBufferCreatesSingleFullScreenPane(t *testing.T) {
	a := New()
	buf := buffer.New("hello\nworld", nil)
	id, err := a.OpenBuffer(buf, selmode.Character())
	require.NoError(t, err)

	pane, ok := a.ActivePane()
	require.True(t, ok)
	assert.Equal(t, id, pane.BufferID)

	comp, ok := a.Component(id)
	require.True(t, ok)
	assert.Same(t, buf, comp.Buf)
}

func TestCloseBufferRemovesItsPane(t *testing.T) {
	a := New()
	id, err := a.OpenBuffer(buffer.New("x", nil), selmode.Character())
	require.NoError(t, err)

	a.CloseBuffer(id)
	_, ok := a.ActivePane()
	assert.False(t, ok)
	_, ok = a.Component(id)
	assert.False(t, ok)
}

func TestFocusNextWrapsAcrossPanes(t *testing.T) {
	a := New()
	id1, err := a.OpenBuffer(buffer.New("a", nil), selmode.Character())
	require.NoError(t, err)
	id2, err := a.OpenBuffer(buffer.New("b", nil), selmode.Character())
	require.NoError(t, err)
	a.panes = append(a.panes, Pane{BufferID: id2})

	pane, _ := a.ActivePane()
	assert.Equal(t, id1, pane.BufferID)

	a.FocusNext()
	pane, _ = a.ActivePane()
	assert.Equal(t, id2, pane.BufferID)

	a.FocusNext()
	pane, _ = a.ActivePane()
	assert.Equal(t, id1, pane.BufferID)
}

func TestSplitLayoutDividesHeightIntoEqualStrips(t *testing.T) {
	a := New()
	id1, _ := a.OpenBuffer(buffer.New("a", nil), selmode.Character())
	id2, err := a.OpenBuffer(buffer.New("b", nil), selmode.Character())
	require.NoError(t, err)
	a.panes = []Pane{{BufferID: id1}, {BufferID: id2}}

	a.SplitLayout(80, 21)

	assert.Equal(t, Rect{X: 0, Y: 0, W: 80, H: 10}, a.panes[0].Rect)
	assert.Equal(t, Rect{X: 0, Y: 10, W: 80, H: 11}, a.panes[1].Rect)
}

func TestRenderWritesEachPanesVisibleLines(t *testing.T) {
	a := New()
	id, err := a.OpenBuffer(buffer.New("line0\nline1\nline2", nil), selmode.Character())
	require.NoError(t, err)
	comp, _ := a.Component(id)
	comp.UpdateViewport(1, 2)

	grid := a.Render(10, 2)
	assert.Equal(t, "line1", rowText(grid, 0, 5))
	assert.Equal(t, "line2", rowText(grid, 1, 5))
}

func rowText(g *tui.Grid, y, width int) string {
	runes := make([]rune, width)
	for x := 0; x < width; x++ {
		c, _ := g.Get(x, y)
		runes[x] = c.Rune
	}
	return string(runes)
}

func TestRunDrainsQueuedKeyInputAgainstActivePane(t *testing.T) {
	a := New()
	id, err := a.OpenBuffer(buffer.New("abc", nil), selmode.Character())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.Run(ctx, nil)
		close(done)
	}()

	a.Post(Event{KeyInput: &KeyInputEvent{BufferID: id, Key: keys.Key{Char: 'i'}}})

	// Give Run a moment to drain the posted event before tearing down.
	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done

	comp, _ := a.Component(id)
	assert.Equal(t, "abc", comp.Buf.Content())
}
