package env

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDefaultsToQWERTY(t *testing.T) {
	t.Setenv("KI_EDITOR_KEYBOARD", "")
	e, err := New()
	require.NoError(t, err)
	require.Equal(t, KeyboardQWERTY, e.Keyboard)
	require.NotEmpty(t, e.ConfigDir)
	require.NotEmpty(t, e.CacheDir)
}

func TestNewHonorsKeyboardEnvVar(t *testing.T) {
	t.Setenv("KI_EDITOR_KEYBOARD", "DVORAK")
	e, err := New()
	require.NoError(t, err)
	require.Equal(t, KeyboardDvorak, e.Keyboard)
}

func TestNewRejectsUnknownKeyboard(t *testing.T) {
	t.Setenv("KI_EDITOR_KEYBOARD", "nonsense")
	e, err := New()
	require.NoError(t, err)
	require.Equal(t, KeyboardQWERTY, e.Keyboard)
}
