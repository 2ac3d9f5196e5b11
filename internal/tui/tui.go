// Package tui implements the terminal frontend and grid diff renderer
// spec.md §1 lists as an external collaborator deliberately out of
// scope for a polished implementation, kept here only as the thin,
// uncomplicated grid-cell-buffer-plus-render-diff shape internal/app
// hands decorations and cursor state to (SPEC_FULL.md §2's DOMAIN
// STACK tcell row). It owns no interactive commands of its own.
//
// Grounded on dshills-keystorm/internal/renderer/backend/terminal.go's
// tcell.Screen wrapping (NewScreen/Init/SetContent/Size), adapted from
// a full interactive Backend down to a pure Grid value type plus a
// tcell-backed Screen that can paint one.
package tui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/kimod/kimod/internal/highlight"
)

// Cell is one terminal cell: a rune plus the style it should render
// with.
type Cell struct {
	Rune  rune
	Style highlight.StyleKey
}

// Grid is an immutable-by-convention width*height cell buffer. App
// builds a fresh Grid each frame; Screen diffs it against the
// previously painted Grid and only repaints changed cells (spec.md
// §4.10's "renders each frame by diffing a freshly built grid against
// the previous frame").
type Grid struct {
	Width, Height int
	Cells         []Cell
}

// NewGrid returns a blank width*height Grid filled with spaces.
func NewGrid(width, height int) *Grid {
	cells := make([]Cell, width*height)
	for i := range cells {
		cells[i] = Cell{Rune: ' '}
	}
	return &Grid{Width: width, Height: height, Cells: cells}
}

func (g *Grid) index(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return 0, false
	}
	return y*g.Width + x, true
}

// Set writes a cell at (x, y), a no-op if out of bounds.
func (g *Grid) Set(x, y int, c Cell) {
	if i, ok := g.index(x, y); ok {
		g.Cells[i] = c
	}
}

// Get reads the cell at (x, y).
func (g *Grid) Get(x, y int) (Cell, bool) {
	i, ok := g.index(x, y)
	if !ok {
		return Cell{}, false
	}
	return g.Cells[i], true
}

// WriteString paints s starting at (x, y), one rune per cell, all in
// the same style, truncating at the grid's right edge.
func (g *Grid) WriteString(x, y int, s string, style highlight.StyleKey) {
	col := x
	for _, r := range s {
		if col >= g.Width {
			return
		}
		g.Set(col, y, Cell{Rune: r, Style: style})
		col++
	}
}

// Change is one cell whose value differs between two frames.
type Change struct {
	X, Y int
	Cell Cell
}

// Diff reports every cell that differs between prev and next (nil prev,
// or a prev of different dimensions, means every cell differs), the
// single repaint set Screen.Paint walks.
func Diff(prev, next *Grid) []Change {
	var out []Change
	sameDims := prev != nil && prev.Width == next.Width && prev.Height == next.Height
	for y := 0; y < next.Height; y++ {
		for x := 0; x < next.Width; x++ {
			nc, _ := next.Get(x, y)
			if !sameDims {
				out = append(out, Change{X: x, Y: y, Cell: nc})
				continue
			}
			if pc, _ := prev.Get(x, y); pc != nc {
				out = append(out, Change{X: x, Y: y, Cell: nc})
			}
		}
	}
	return out
}

// tcellStyles maps each closed StyleKey (spec.md §4.7) to a tcell
// style. Colors are a minimal, theme-agnostic palette; a real theme
// loader is out of scope per spec.md §1.
var tcellStyles = map[highlight.StyleKey]tcell.Style{
	highlight.StyleKeyword:  tcell.StyleDefault.Foreground(tcell.ColorPurple),
	highlight.StyleFunction: tcell.StyleDefault.Foreground(tcell.ColorBlue),
	highlight.StyleType:     tcell.StyleDefault.Foreground(tcell.ColorTeal),
	highlight.StyleString:   tcell.StyleDefault.Foreground(tcell.ColorGreen),
	highlight.StyleComment:  tcell.StyleDefault.Foreground(tcell.ColorGray),
	highlight.StyleNumber:   tcell.StyleDefault.Foreground(tcell.ColorOrange),
	highlight.StyleVariable: tcell.StyleDefault,
}

func styleFor(key highlight.StyleKey) tcell.Style {
	if s, ok := tcellStyles[key]; ok {
		return s
	}
	return tcell.StyleDefault
}

// Screen wraps a tcell.Screen, painting only the cells Diff reports
// changed between frames.
type Screen struct {
	screen tcell.Screen
	prev   *Grid
}

// NewScreen creates and initializes a tcell-backed Screen.
func NewScreen() (*Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return &Screen{screen: screen}, nil
}

// Size returns the terminal's current width and height in cells.
func (s *Screen) Size() (int, int) { return s.screen.Size() }

// Paint diffs next against the last-painted Grid and writes only the
// changed cells to the terminal, then shows the frame.
func (s *Screen) Paint(next *Grid) {
	for _, c := range Diff(s.prev, next) {
		s.screen.SetContent(c.X, c.Y, c.Cell.Rune, nil, styleFor(c.Cell.Style))
	}
	s.screen.Show()
	s.prev = next
}

// ShowCursor positions the terminal cursor.
func (s *Screen) ShowCursor(x, y int) { s.screen.ShowCursor(x, y) }

// PollEvent blocks until the next terminal event (key press, resize,
// …).
func (s *Screen) PollEvent() tcell.Event { return s.screen.PollEvent() }

// Close restores the terminal to its pre-Init state.
func (s *Screen) Close() { s.screen.Fini() }
