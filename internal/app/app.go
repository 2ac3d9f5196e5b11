// Package app implements spec.md §4.10's Application: it routes
// dispatches, manages component layout (split rectangles), threads a
// background work channel, receives external events (file watcher
// notifications and key input) on one message bus, and renders each frame by diffing a
// freshly built grid against the previous frame.
//
// The teacher has no analogous top-level orchestrator (an LSP server's
// main loop is a single glspserver.RunStdio() call with no component
// tree), so this package's shape follows spec.md §4.10/§5 directly. Its
// single-owner-thread dispatch loop is grounded on the teacher's own
// single-goroutine document-state pattern in the teacher's own
// internal/state/state.go (all mutation behind one mutex, no worker holds a
// reference into it) generalized to spec.md §5's "single main thread
// owns all mutable editor state" rule, with auxiliary work arriving
// only as messages on bounded channels (internal/worker).
package app

import (
	"context"

	"github.com/tliron/commonlog"

	"github.com/kimod/kimod/internal/arena"
	"github.com/kimod/kimod/internal/buffer"
	"github.com/kimod/kimod/internal/editor"
	"github.com/kimod/kimod/internal/keys"
	"github.com/kimod/kimod/internal/selection"
	"github.com/kimod/kimod/internal/tui"
	"github.com/kimod/kimod/internal/worker"
)

var logger = commonlog.GetLoggerf("kimod.app")

// BufferID addresses an editor.Component in the arena, breaking the
// App/Component cyclic-ownership problem spec.md §9 calls out (no
// component holds a Go pointer to another; every cross-reference is by
// ID through the arena).
type BufferID = arena.ID

// Rect is one split rectangle in the layout tree (spec.md §4.10
// "manages component layout (split rectangles)").
type Rect struct {
	X, Y, W, H int
}

// Pane binds one layout Rect to the component it displays.
type Pane struct {
	Rect     Rect
	BufferID BufferID
}

// Event is one item on the single external event bus App.Run drains:
// a file watcher notification or a keystroke routed at a pane. Exactly
// one of the fields is set.
type Event struct {
	FileChanged *worker.FileEvent
	KeyInput    *KeyInputEvent
}

// KeyInputEvent is a keystroke routed at the active pane, the IPC
// keyboard.input{key, uri, content_hash} message reduced to what App
// needs to dispatch it.
type KeyInputEvent struct {
	BufferID BufferID
	Key      keys.Key
}

// App owns every mutable piece of editor state: the component arena,
// the pane layout, and the dispatch/event buses. All of it is touched
// only from the goroutine running Run, per spec.md §5's single-owner
// rule.
type App struct {
	components *arena.Map[*editor.Component]
	panes      []Pane
	active     int

	dispatch chan func()
	events   chan Event

	watcher worker.FileWatcher
}

// New creates an empty App. Dispatches and events are accepted once
// Run is pumping; callers typically call Dispatch/Post from other
// goroutines (IPC reader, file watcher) and let Run serialize them.
func New() *App {
	return &App{
		components: arena.New[*editor.Component](),
		dispatch:   make(chan func(), 64),
		events:     make(chan Event, 64),
	}
}

// SetFileWatcher attaches the background file watcher App.Run drains
// FileChanged events from; passing nil disables it.
func (a *App) SetFileWatcher(w worker.FileWatcher) {
	a.watcher = w
}

// OpenBuffer inserts buf as a new component and adds it to the layout
// as a single full-screen pane if the layout was empty, returning the
// component's arena ID.
func (a *App) OpenBuffer(buf *buffer.Buffer, engine selection.Engine) (BufferID, error) {
	comp, err := editor.New("", buf, engine)
	if err != nil {
		return arena.NilID, err
	}
	id := a.components.Insert(comp)
	comp.BufferID = id.String()
	a.components.Set(id, comp)

	if len(a.panes) == 0 {
		a.panes = append(a.panes, Pane{BufferID: id})
	}
	return id, nil
}

// CloseBuffer removes a component and any panes displaying it.
func (a *App) CloseBuffer(id BufferID) {
	a.components.Remove(id)
	kept := a.panes[:0]
	for _, p := range a.panes {
		if p.BufferID != id {
			kept = append(kept, p)
		}
	}
	a.panes = kept
	if a.active >= len(a.panes) {
		a.active = 0
	}
}

// Component looks up a live component by id.
func (a *App) Component(id BufferID) (*editor.Component, bool) {
	return a.components.Get(id)
}

// ActivePane returns the pane currently receiving keyboard input, or
// false if no pane is open.
func (a *App) ActivePane() (Pane, bool) {
	if a.active < 0 || a.active >= len(a.panes) {
		return Pane{}, false
	}
	return a.panes[a.active], true
}

// FocusNext cycles the active pane forward, wrapping around.
func (a *App) FocusNext() {
	if len(a.panes) == 0 {
		return
	}
	a.active = (a.active + 1) % len(a.panes)
}

// SplitLayout recomputes each pane's Rect by evenly dividing width x
// height into equal horizontal strips, in pane order — the minimal
// split-rectangle layout spec.md §4.10 names, deliberately not a full
// binary-split-tree layout engine (out of scope per spec.md §1's "not
// a polished product" note).
func (a *App) SplitLayout(width, height int) {
	if len(a.panes) == 0 {
		return
	}
	strip := height / len(a.panes)
	y := 0
	for i := range a.panes {
		h := strip
		if i == len(a.panes)-1 {
			h = height - y
		}
		a.panes[i].Rect = Rect{X: 0, Y: y, W: width, H: h}
		y += h
	}
}

// Dispatch enqueues fn to run on the owning goroutine inside Run. Safe
// to call from any goroutine.
func (a *App) Dispatch(fn func()) {
	a.dispatch <- fn
}

// Post enqueues an external event for Run to handle. Safe to call from
// any goroutine (the file watcher's goroutine, an IPC reader
// goroutine, …).
func (a *App) Post(ev Event) {
	a.events <- ev
}

// Run drains the dispatch and event buses until ctx is cancelled, the
// single place App's mutable state is touched (spec.md §5's "single
// main thread owns all mutable editor state"). Redraws are pull-based:
// after each batch drains, Run paints one frame via screen, skipping
// the paint if screen is nil (headless/test mode).
func (a *App) Run(ctx context.Context, screen *tui.Screen) {
	var fileEvents <-chan worker.FileEvent
	if a.watcher != nil {
		fileEvents = a.watcher.Events()
	}

	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-a.dispatch:
			fn()
			a.drainThenRender(screen)
		case ev := <-a.events:
			a.handleEvent(ev)
			a.drainThenRender(screen)
		case fe, ok := <-fileEvents:
			if !ok {
				fileEvents = nil
				continue
			}
			a.handleEvent(Event{FileChanged: &fe})
			a.drainThenRender(screen)
		}
	}
}

// drainThenRender drains any dispatches/events queued synchronously by
// the handler just run, then renders one frame — this is what makes a
// "dispatch batch" in spec.md §5's ordering rule.
func (a *App) drainThenRender(screen *tui.Screen) {
	for {
		select {
		case fn := <-a.dispatch:
			fn()
			continue
		case ev := <-a.events:
			a.handleEvent(ev)
			continue
		default:
		}
		break
	}
	if screen != nil {
		width, height := screen.Size()
		screen.Paint(a.Render(width, height))
	}
}

func (a *App) handleEvent(ev Event) {
	switch {
	case ev.KeyInput != nil:
		a.handleKeyInput(*ev.KeyInput)
	case ev.FileChanged != nil:
		logger.Debugf("file changed: %s (%s)", ev.FileChanged.Path, ev.FileChanged.Op)
	}
}

func (a *App) handleKeyInput(ev KeyInputEvent) {
	comp, ok := a.components.Get(ev.BufferID)
	if !ok {
		return
	}
	outcome := comp.Resolve(ev.Key)
	if !outcome.Handled {
		logger.Debugf("unhandled key %s for buffer %s", ev.Key, ev.BufferID.String())
	}
}

// Render builds a fresh width x height grid from the current pane
// layout, writing each pane's visible buffer lines into its Rect — the
// "renders each frame by diffing a freshly built grid against the
// previous frame" half of spec.md §4.10 (the diff itself lives in
// internal/tui.Screen.Paint).
func (a *App) Render(width, height int) *tui.Grid {
	a.SplitLayout(width, height)
	grid := tui.NewGrid(width, height)

	for _, pane := range a.panes {
		comp, ok := a.components.Get(pane.BufferID)
		if !ok {
			continue
		}
		a.renderPane(grid, pane, comp)
	}
	return grid
}

func (a *App) renderPane(grid *tui.Grid, pane Pane, comp *editor.Component) {
	for row := 0; row < pane.Rect.H; row++ {
		line, err := comp.Buf.GetLineByLineIndex(comp.ScrollOffset + row)
		if err != nil {
			break
		}
		grid.WriteString(pane.Rect.X, pane.Rect.Y+row, line, "")
	}
}
