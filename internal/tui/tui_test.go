package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kimod/kimod/internal/highlight"
)

func TestNewGridIsBlank(t *testing.T) {
	g := NewGrid(3, 2)
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			c, ok := g.Get(x, y)
			assert.True(t, ok)
			assert.Equal(t, ' ', c.Rune)
		}
	}
}

func TestGridSetGetOutOfBounds(t *testing.T) {
	g := NewGrid(2, 2)
	g.Set(5, 5, Cell{Rune: 'x'})
	_, ok := g.Get(5, 5)
	assert.False(t, ok)
}

func TestGridWriteStringTruncatesAtEdge(t *testing.T) {
	g := NewGrid(3, 1)
	g.WriteString(0, 0, "hello", highlight.StyleString)

	c0, _ := g.Get(0, 0)
	c2, _ := g.Get(2, 0)
	assert.Equal(t, 'h', c0.Rune)
	assert.Equal(t, 'l', c2.Rune)
}

func TestDiffNilPrevMarksEveryCellChanged(t *testing.T) {
	next := NewGrid(2, 2)
	changes := Diff(nil, next)
	assert.Len(t, changes, 4)
}

func TestDiffOnlyReportsChangedCells(t *testing.T) {
	prev := NewGrid(2, 1)
	next := NewGrid(2, 1)
	next.Set(1, 0, Cell{Rune: 'x'})

	changes := Diff(prev, next)
	assert.Len(t, changes, 1)
	assert.Equal(t, 1, changes[0].X)
	assert.Equal(t, 'x', changes[0].Cell.Rune)
}

func TestDiffDimensionMismatchMarksEverythingChanged(t *testing.T) {
	prev := NewGrid(2, 2)
	next := NewGrid(3, 2)
	assert.Len(t, Diff(prev, next), 6)
}
