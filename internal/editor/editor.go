// Package editor implements spec.md §4.9: the component that owns one
// Buffer reference, a SelectionSet, viewport state, cursor direction,
// jumps, and title, and resolves a KeyEvent under the current Mode +
// SelectionMode into either an intrinsic DispatchEditor action or an
// escape to the application dispatcher.
//
// The teacher has no interactive component of its own (an LSP server
// answers one-shot requests, never owns a live cursor), so this
// package's shape follows spec.md §4.9 directly. Its logger and
// no-panic posture continue internal/buffer's established house style.
package editor

import (
	"github.com/tliron/commonlog"

	"github.com/kimod/kimod/internal/buffer"
	"github.com/kimod/kimod/internal/coord"
	"github.com/kimod/kimod/internal/keys"
	"github.com/kimod/kimod/internal/selection"
	"github.com/kimod/kimod/internal/selmode"
)

var logger = commonlog.GetLoggerf("kimod.editor")

// Mode is the editor's interaction mode (spec.md §3's Mode), gating
// keymap resolution and cursor style. It is distinct from
// internal/selection's Mode, which tags the active SelectionMode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeInsert
	ModeMultiCursor
	ModeFindOneChar
	ModeSwap
	ModeReplace
	ModeExtend
)

// LineRange is an inclusive-exclusive [Start, End) line span, used for
// viewport bookkeeping and jump scattering.
type LineRange struct{ Start, End int }

// Jump is a single scattered jump target: a short key-labeled position
// produced by a SelectionMode's Jumps operation.
type Jump struct {
	Key      string
	Position coord.Position
}

// DispatchEditor is an intrinsic editor-level action: one that the
// Editor itself fully resolves without escaping to the application
// dispatcher (spec.md §4.9's "Paste, undo, redo, save, cut, copy,
// select-all are intrinsic dispatches").
type DispatchEditor int

const (
	DispatchNone DispatchEditor = iota
	DispatchUndo
	DispatchRedo
	DispatchSave
	DispatchSaveWithoutFormatting
	DispatchCut
	DispatchCopy
	DispatchPaste
	DispatchSelectAll
	DispatchEnterInsertMode
	DispatchEnterNormalMode
	DispatchEnterMultiCursorMode
	DispatchEnterExtendMode
	DispatchMoveCurrent
	DispatchMoveNext
	DispatchMovePrevious
	DispatchMoveUp
	DispatchMoveDown
	DispatchMoveFirst
	DispatchMoveLast
	DispatchMoveParent
	DispatchMoveFirstChild
	DispatchCyclePrimaryForward
	DispatchCyclePrimaryBackward
)

// Outcome is what resolving one KeyEvent produced: either the Editor
// handled it intrinsically (Handled=true), or the key escapes to the
// application's own dispatcher (spec.md §4.9's "or an escape to the
// application dispatcher").
type Outcome struct {
	Handled bool
	Action  DispatchEditor
	Escaped keys.Key
}

// Component bridges a keymap to buffer edits: it owns one BufferId, a
// live SelectionSet, viewport state, cursor direction, and jump/title
// bookkeeping (spec.md §4.9).
type Component struct {
	BufferID string
	Buf      *buffer.Buffer

	Selections *selection.SelectionSet
	Engine     selection.Engine

	Mode Mode

	ScrollOffset      int
	VisibleLineRanges []LineRange
	CursorDirection   selection.CursorDirection

	Jumps []Jump
	Title string

	clipboard  string
	ifNotFound selection.IfCurrentNotFound
}

// New builds a Component over buf, with its SelectionSet starting as a
// single zero-width selection at the buffer's start, tagged with
// engine's mode.
func New(bufferID string, buf *buffer.Buffer, engine selection.Engine) (*Component, error) {
	sels, err := selection.New(engine.Mode(), 0, selection.Selection{
		Range: coord.NewCharIndexRange(0, 0),
	})
	if err != nil {
		return nil, err
	}
	return &Component{
		BufferID:        bufferID,
		Buf:             buf,
		Selections:      sels,
		Engine:          engine,
		Mode:            ModeNormal,
		CursorDirection: selection.CursorStart,
		ifNotFound:      selection.LookForward,
	}, nil
}

// SetSelectionMode retags the live SelectionSet with a new Engine,
// broadcasting a Current movement so the selections land on the new
// mode's occurrences immediately.
func (c *Component) SetSelectionMode(engine selection.Engine) error {
	c.Engine = engine
	return c.Selections.ApplyMovement(selection.MovementCurrent, engine, c.Buf, c.CursorDirection, c.ifNotFound, 0)
}

// Move broadcasts a single movement to every live selection via the
// component's current Engine.
func (c *Component) Move(movement selection.Movement) error {
	return c.Selections.ApplyMovement(movement, c.Engine, c.Buf, c.CursorDirection, c.ifNotFound, 0)
}

// MoveToIndex broadcasts a ToIndex movement.
func (c *Component) MoveToIndex(n int) error {
	return c.Selections.ApplyMovement(selection.MovementToIndex, c.Engine, c.Buf, c.CursorDirection, c.ifNotFound, n)
}

// SetCursorDirection flips which end of a selection's range acts as
// its cursor (spec.md §3's Selection.cursor).
func (c *Component) SetCursorDirection(dir selection.CursorDirection) {
	c.CursorDirection = dir
}

// Resolve maps a single KeyEvent, under the Component's current Mode,
// to an intrinsic action or an escape, per spec.md §4.9's keymap-index
// dispatch. The keymap table itself is deliberately small and direct
// (no legend/UI rendering, which spec.md §1 excludes); it only covers
// the movement vocabulary and the intrinsic dispatches spec.md names.
func (c *Component) Resolve(k keys.Key) Outcome {
	switch c.Mode {
	case ModeInsert:
		return c.resolveInsert(k)
	default:
		return c.resolveNormal(k)
	}
}

func (c *Component) resolveNormal(k keys.Key) Outcome {
	if k.Named == "" {
		switch k.Char {
		case 'i':
			return Outcome{Handled: true, Action: DispatchEnterInsertMode}
		case 'u':
			return Outcome{Handled: true, Action: DispatchUndo}
		case 'U':
			return Outcome{Handled: true, Action: DispatchRedo}
		case 'y':
			return Outcome{Handled: true, Action: DispatchCopy}
		case 'p':
			return Outcome{Handled: true, Action: DispatchPaste}
		case 'd':
			return Outcome{Handled: true, Action: DispatchCut}
		}
	}
	switch k.Named {
	case "enter":
		return Outcome{Handled: true, Action: DispatchMoveCurrent}
	case "left":
		return Outcome{Handled: true, Action: DispatchMovePrevious}
	case "right":
		return Outcome{Handled: true, Action: DispatchMoveNext}
	case "up":
		return Outcome{Handled: true, Action: DispatchMoveUp}
	case "down":
		return Outcome{Handled: true, Action: DispatchMoveDown}
	case "home":
		return Outcome{Handled: true, Action: DispatchMoveFirst}
	case "end":
		return Outcome{Handled: true, Action: DispatchMoveLast}
	case "tab":
		return Outcome{Handled: true, Action: DispatchCyclePrimaryForward}
	case "backtab":
		return Outcome{Handled: true, Action: DispatchCyclePrimaryBackward}
	}
	return Outcome{Handled: false, Escaped: k}
}

func (c *Component) resolveInsert(k keys.Key) Outcome {
	if k.Named == "esc" {
		return Outcome{Handled: true, Action: DispatchEnterNormalMode}
	}
	return Outcome{Handled: false, Escaped: k}
}

// Cut copies the primary selection's text to the component's clipboard
// and returns that text; it does not delete it from the buffer.
// Building the EditTransaction that deletes it is the caller's job (it needs
// access to internal/edit, which this package avoids importing to keep
// the dependency direction buffer->edit, editor->{buffer,selection}
// rather than introducing a cycle back through edit's dependents).
func (c *Component) Cut() string {
	sel := c.Selections.Primary()
	text := c.Buf.Slice(sel.ExtendedRange())
	c.clipboard = text
	return text
}

// Copy copies the primary selection's text without editing the buffer.
func (c *Component) Copy() string {
	text := c.Buf.Slice(c.Selections.Primary().ExtendedRange())
	c.clipboard = text
	return text
}

// Clipboard returns the component's last cut/copied text.
func (c *Component) Clipboard() string { return c.clipboard }

// SetClipboard overwrites the component's clipboard (used by Paste
// dispatches sourced from an external host clipboard over IPC).
func (c *Component) SetClipboard(text string) { c.clipboard = text }

// SelectAll replaces the SelectionSet with a single selection spanning
// the whole buffer.
func (c *Component) SelectAll() error {
	sels, err := selection.New(c.Selections.Mode(), 0, selection.Selection{
		Range: coord.NewCharIndexRange(0, coord.CharIndex(c.Buf.LenChars())),
	})
	if err != nil {
		return err
	}
	c.Selections = sels
	return nil
}

// UpdateViewport recomputes VisibleLineRanges from a scroll offset and
// a viewport height in lines.
func (c *Component) UpdateViewport(scrollOffset, height int) {
	c.ScrollOffset = scrollOffset
	total := c.Buf.LenLines()
	end := scrollOffset + height
	if end > total {
		end = total
	}
	if end < scrollOffset {
		end = scrollOffset
	}
	c.VisibleLineRanges = []LineRange{{Start: scrollOffset, End: end}}
}

// SetJumps converts scattered selmode.JumpTarget byte ranges into
// editor Jumps (positions), dropping any target whose range no longer
// maps onto the buffer (spec.md §4.2's jumps operation feeds
// editor.jump over IPC as {key, position} pairs, per spec.md §6).
func (c *Component) SetJumps(targets []selmode.JumpTarget) {
	jumps := make([]Jump, 0, len(targets))
	for _, t := range targets {
		charRange, err := c.Buf.ByteRangeToCharIndexRange(t.Range)
		if err != nil {
			continue
		}
		pos, err := c.Buf.CharToPosition(charRange.Start)
		if err != nil {
			continue
		}
		jumps = append(jumps, Jump{Key: t.Key, Position: pos})
	}
	c.Jumps = jumps
	logger.Debugf("scattered %d jump targets for buffer %s", len(jumps), c.BufferID)
}

// ClearJumps discards any scattered jump targets (e.g. after the user
// teleports to one, or cancels).
func (c *Component) ClearJumps() { c.Jumps = nil }
