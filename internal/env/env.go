// Package env implements spec.md §9's "Global state... consolidated
// into a single Environment context handed to components at
// construction; no hidden singletons" design note.
package env

import (
	"os"
	"path/filepath"
)

// Keyboard is a physical keyboard layout (spec.md §6). internal/keys
// does not consult it; chords are displayed the same under every layout.
type Keyboard string

const (
	KeyboardQWERTY  Keyboard = "QWERTY"
	KeyboardDvorak  Keyboard = "DVORAK"
	KeyboardColemak Keyboard = "COLEMAK"
)

const appName = "kimod"

// Environment bundles every piece of process-global state a component
// needs, handed in at construction instead of read from a package-level
// singleton (spec.md §9).
type Environment struct {
	WorkingDir string
	ConfigDir  string
	CacheDir   string
	LogDir     string
	RuntimeDir string
	Keyboard   Keyboard
}

// New resolves an Environment from the process's current working
// directory and standard XDG-style base directories under appName
// (spec.md §6's "config/cache/log directories resolved through
// standard XDG-style base directories under the application name").
func New() (Environment, error) {
	wd, err := os.Getwd()
	if err != nil {
		return Environment{}, err
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return Environment{}, err
	}
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return Environment{}, err
	}

	return Environment{
		WorkingDir: wd,
		ConfigDir:  filepath.Join(configDir, appName),
		CacheDir:   filepath.Join(cacheDir, appName),
		LogDir:     filepath.Join(cacheDir, appName, "log"),
		RuntimeDir: runtimeDir(),
		Keyboard:   parseKeyboard(os.Getenv("KI_EDITOR_KEYBOARD")),
	}, nil
}

// runtimeDir resolves $XDG_RUNTIME_DIR, falling back to the cache
// directory's runtime subfolder on platforms (or sandboxes) that don't
// set it.
func runtimeDir() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, appName)
	}
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appName, "run")
	}
	return filepath.Join(cacheDir, appName, "run")
}

func parseKeyboard(v string) Keyboard {
	switch Keyboard(v) {
	case KeyboardDvorak, KeyboardColemak:
		return Keyboard(v)
	default:
		return KeyboardQWERTY
	}
}
