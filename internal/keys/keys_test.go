package keys

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSeedScenario(t *testing.T) {
	k, err := Parse("ctrl+alt+A")
	require.NoError(t, err)
	require.Equal(t, 'A', k.Char)
	require.True(t, k.Mods.has(ModCtrl))
	require.True(t, k.Mods.has(ModAlt))
	require.True(t, k.Mods.has(ModShift))

	space, err := Parse("space")
	require.NoError(t, err)
	require.Equal(t, "space", space.Named)
	require.Equal(t, Modifier(0), space.Mods)
}

func TestParseTable(t *testing.T) {
	cases := []struct {
		token   string
		named   string
		char    rune
		mods    Modifier
		wantErr bool
	}{
		{token: "a", char: 'a'},
		{token: "A", char: 'A', mods: ModShift},
		{token: "ctrl+a", char: 'a', mods: ModCtrl},
		{token: "shift+tab", named: "tab", mods: ModShift},
		{token: "F5", named: "f5"},
		{token: "ctrl+unknownmod+a", wantErr: true},
		{token: "ctrl+nope", wantErr: true},
	}
	for _, c := range cases {
		k, err := Parse(c.token)
		if c.wantErr {
			require.Error(t, err, c.token)
			continue
		}
		require.NoError(t, err, c.token)
		require.Equal(t, c.named, k.Named, c.token)
		require.Equal(t, c.char, k.Char, c.token)
		require.Equal(t, c.mods, k.Mods, c.token)
	}
}

func TestDisplayCanonicalizeRoundTrip(t *testing.T) {
	tokens := []string{"ctrl+alt+A", "space", "shift+tab", "ctrl+z", "F1"}
	for _, tok := range tokens {
		k, err := Parse(tok)
		require.NoError(t, err)
		canon, err := Canonicalize(tok)
		require.NoError(t, err)
		require.Equal(t, canon, Display(k), tok)
	}
}

func TestParseSequence(t *testing.T) {
	keys, err := ParseSequence("ctrl+a b c")
	require.NoError(t, err)
	require.Len(t, keys, 3)
	require.Equal(t, 'a', keys[0].Char)
	require.True(t, keys[0].Mods.has(ModCtrl))
	require.Equal(t, 'b', keys[1].Char)
	require.Equal(t, 'c', keys[2].Char)
}
