// Command kimod is the terminal entry point: it resolves an
// Environment, opens the file named on the command line into a Buffer,
// wires it into an App-owned Editor component, and pumps tcell key
// events through the App's single-owner dispatch loop until the user
// quits (ctrl+c) or closes the terminal.
//
// Per spec.md §1, command-line parsing and the terminal frontend
// itself are external collaborators this repo treats as ordinary
// plumbing, not core subject matter; this file is deliberately the
// thinnest possible wiring over internal/app, internal/editor, and
// internal/tui; it carries no flag parsing beyond a bare os.Args[1]
// path, matching the teacher's own single-purpose main.go.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/kimod/kimod/internal/app"
	"github.com/kimod/kimod/internal/buffer"
	"github.com/kimod/kimod/internal/env"
	"github.com/kimod/kimod/internal/keys"
	"github.com/kimod/kimod/internal/selmode"
	"github.com/kimod/kimod/internal/tui"
)

func main() {
	commonlog.Configure(1, nil)

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: kimod <file>")
		os.Exit(1)
	}

	if err := run(os.Args[1]); err != nil {
		fmt.Fprintln(os.Stderr, "kimod:", err)
		os.Exit(1)
	}
}

func run(path string) error {
	_, err := env.New()
	if err != nil {
		return err
	}

	lang, _ := buffer.DetectLanguage(path, "")
	buf, err := buffer.Open(path, lang)
	if err != nil {
		return err
	}

	a := app.New()
	bufID, err := a.OpenBuffer(buf, selmode.Character())
	if err != nil {
		return err
	}

	screen, err := tui.NewScreen()
	if err != nil {
		return err
	}
	defer screen.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go pumpKeys(ctx, cancel, screen, a, bufID)

	a.Run(ctx, screen)
	return nil
}

// pumpKeys translates tcell key events into App.Post'd KeyInputEvents,
// the goroutine-safe producer side of spec.md §5's single-consumer
// dispatch loop. ctrl+c quits; every other event is handed to the
// active pane's editor.Component via Resolve.
func pumpKeys(ctx context.Context, cancel context.CancelFunc, screen *tui.Screen, a *app.App, bufID app.BufferID) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		ev := screen.PollEvent()
		switch tev := ev.(type) {
		case *tcell.EventKey:
			if tev.Key() == tcell.KeyCtrlC {
				cancel()
				return
			}
			k, ok := translateKey(tev)
			if !ok {
				continue
			}
			if k.Mods&keys.ModCtrl != 0 && k.Char == 'c' {
				cancel()
				return
			}
			a.Post(app.Event{KeyInput: &app.KeyInputEvent{BufferID: bufID, Key: k}})
		case *tcell.EventResize:
			screen.Size()
		}
	}
}

// tcellNamedKeys maps tcell's named key constants to spec.md §6's key
// grammar names.
var tcellNamedKeys = map[tcell.Key]string{
	tcell.KeyEnter:      "enter",
	tcell.KeyEscape:     "esc",
	tcell.KeyBackspace:  "backspace",
	tcell.KeyBackspace2: "backspace",
	tcell.KeyLeft:       "left",
	tcell.KeyRight:      "right",
	tcell.KeyUp:         "up",
	tcell.KeyDown:       "down",
	tcell.KeyHome:       "home",
	tcell.KeyEnd:        "end",
	tcell.KeyPgUp:       "pageup",
	tcell.KeyPgDn:       "pagedown",
	tcell.KeyTab:        "tab",
	tcell.KeyBacktab:    "backtab",
	tcell.KeyDelete:     "delete",
	tcell.KeyInsert:     "insert",
}

// translateKey converts a tcell key event into a keys.Key, reusing
// internal/keys' own Modifier bitset rather than inventing a parallel
// one.
func translateKey(ev *tcell.EventKey) (keys.Key, bool) {
	var mods keys.Modifier
	if ev.Modifiers()&tcell.ModCtrl != 0 {
		mods |= keys.ModCtrl
	}
	if ev.Modifiers()&tcell.ModAlt != 0 {
		mods |= keys.ModAlt
	}
	if ev.Modifiers()&tcell.ModShift != 0 {
		mods |= keys.ModShift
	}

	if name, ok := tcellNamedKeys[ev.Key()]; ok {
		return keys.Key{Named: name, Mods: mods}, true
	}
	if ev.Key() == tcell.KeyRune {
		return keys.Key{Char: ev.Rune(), Mods: mods}, true
	}
	return keys.Key{}, false
}
