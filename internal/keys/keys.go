// Package keys implements spec.md §6's key-event grammar: parsing and
// canonicalizing key chords and chord sequences for macros, keymap
// tables, and tests.
//
// The teacher has no keybinding concept (an LSP server never resolves
// keypresses), so this package's grammar and error taxonomy follow
// spec.md §6/§9 directly; its typed-sentinel-error shape
// (UnknownKeyError/UnknownModifierError) matches the no-panic,
// structured-error style internal/buffer's errors.go already
// establishes for this repo.
package keys

import (
	"fmt"
	"strings"
)

// Modifier is a bitset of held modifier keys.
type Modifier int

const (
	ModCtrl Modifier = 1 << iota
	ModAlt
	ModShift
)

func (m Modifier) has(bit Modifier) bool { return m&bit != 0 }

// namedKeys is the closed vocabulary of non-printable key names
// spec.md §6 lists, keyed by lowercase name.
var namedKeys = map[string]bool{
	"enter": true, "esc": true, "backspace": true,
	"left": true, "right": true, "up": true, "down": true,
	"home": true, "end": true, "pageup": true, "pagedown": true,
	"tab": true, "backtab": true, "delete": true, "insert": true,
	"space": true,
	"f1": true, "f2": true, "f3": true, "f4": true, "f5": true, "f6": true,
	"f7": true, "f8": true, "f9": true, "f10": true, "f11": true, "f12": true,
}

// Key is one parsed chord: either a named key or a printable
// character, plus its modifier set.
type Key struct {
	Named string // lowercase name from namedKeys, or "" for a Char key
	Char  rune   // valid when Named == ""
	Mods  Modifier
}

// UnknownKeyError reports a key token that matches neither a named key
// nor a single printable character.
type UnknownKeyError struct{ Token string }

func (e *UnknownKeyError) Error() string { return fmt.Sprintf("keys: unknown key %q", e.Token) }

// UnknownModifierError reports a modifier segment that is not
// ctrl/alt/shift.
type UnknownModifierError struct{ Token string }

func (e *UnknownModifierError) Error() string {
	return fmt.Sprintf("keys: unknown modifier %q", e.Token)
}

// Parse parses a single chord token, e.g. "ctrl+alt+A" or "space"
// (spec.md §6). An uppercase letter key implies ModShift even when
// "shift+" isn't written explicitly.
func Parse(token string) (Key, error) {
	parts := strings.Split(token, "+")
	keyPart := parts[len(parts)-1]
	modParts := parts[:len(parts)-1]

	var mods Modifier
	for _, m := range modParts {
		switch strings.ToLower(m) {
		case "ctrl":
			mods |= ModCtrl
		case "alt":
			mods |= ModAlt
		case "shift":
			mods |= ModShift
		default:
			return Key{}, &UnknownModifierError{Token: m}
		}
	}

	lower := strings.ToLower(keyPart)
	if namedKeys[lower] {
		return Key{Named: lower, Mods: mods}, nil
	}

	runes := []rune(keyPart)
	if len(runes) != 1 {
		return Key{}, &UnknownKeyError{Token: keyPart}
	}
	r := runes[0]
	if r >= 'A' && r <= 'Z' {
		mods |= ModShift
	}
	return Key{Char: r, Mods: mods}, nil
}

// ParseSequence parses a space-separated sequence of chord tokens,
// e.g. "ctrl+a b c" (spec.md §9's `keys!("a b c")` macro equivalent).
func ParseSequence(s string) ([]Key, error) {
	fields := strings.Fields(s)
	out := make([]Key, 0, len(fields))
	for _, f := range fields {
		k, err := Parse(f)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, nil
}

// display renders k in canonical form: modifiers lowercase and sorted
// ctrl, alt, shift, joined with "+" to the lowercase key name/char.
// Shift is reported explicitly even when it was implied by an
// uppercase letter on input, since the parsed Key no longer
// distinguishes the two spellings.
func display(k Key) string {
	var mods []string
	if k.Mods.has(ModCtrl) {
		mods = append(mods, "ctrl")
	}
	if k.Mods.has(ModAlt) {
		mods = append(mods, "alt")
	}
	if k.Mods.has(ModShift) {
		mods = append(mods, "shift")
	}

	key := k.Named
	if key == "" {
		key = strings.ToLower(string(k.Char))
	}
	if len(mods) == 0 {
		return key
	}
	return strings.Join(mods, "+") + "+" + key
}

// Display renders a parsed Key back to its canonical string form.
func Display(k Key) string { return display(k) }

// Canonicalize parses token and re-renders it in canonical form, so
// that display(parse(k)) == canonicalize(k) holds by construction
// (spec.md §8).
func Canonicalize(token string) (string, error) {
	k, err := Parse(token)
	if err != nil {
		return "", err
	}
	return display(k), nil
}
