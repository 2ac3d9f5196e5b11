package rope

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRopeRoundTrip(t *testing.T) {
	r := NewRope("hello, world")
	require.Equal(t, "hello, world", r.String())
	require.Equal(t, 12, r.LenChars())
}

func TestRopeSpliceSeedScenario(t *testing.T) {
	// spec.md §8 seed scenario 4: Edit{3..5, "XYZ"} on "abcdefg".
	r := NewRope("abcdefg")
	spliced := r.Splice(3, 5, "XYZ")
	require.Equal(t, "abcXYZfg", spliced.String())
}

func TestRopeLineIndexing(t *testing.T) {
	// spec.md §8 seed scenario 2.
	r := NewRope("a\n\n\nb\nc\n  hello")
	require.Equal(t, 6, r.LenLines())
	line, ok := r.Line(0)
	require.True(t, ok)
	require.Equal(t, "a", line)
	line, ok = r.Line(1)
	require.True(t, ok)
	require.Equal(t, "", line)
	line, ok = r.Line(5)
	require.True(t, ok)
	require.Equal(t, "  hello", line)
}

func TestRopeCharByteRoundTrip(t *testing.T) {
	r := NewRope("héllo wörld")
	for c := 0; c <= r.LenChars(); c++ {
		b, ok := r.CharToByte(c)
		require.True(t, ok)
		back, ok := r.ByteToChar(b)
		require.True(t, ok)
		require.Equal(t, c, back, "char %d -> byte %d -> char %d", c, b, back)
	}
}

func TestRopeBalancesLargeInput(t *testing.T) {
	big := make([]byte, 0, maxLeaf*5)
	for i := 0; i < maxLeaf*5; i++ {
		big = append(big, byte('a'+i%26))
	}
	r := NewRope(string(big))
	require.Equal(t, len(big), r.LenChars())
	require.Equal(t, string(big), r.String())
}

func TestRopeInsertDelete(t *testing.T) {
	r := NewRope("helloworld")
	r2 := r.Insert(5, ", ")
	require.Equal(t, "hello, world", r2.String())
	// Original untouched: ropes are immutable.
	require.Equal(t, "helloworld", r.String())

	r3 := r2.Delete(5, 7)
	require.Equal(t, "helloworld", r3.String())
}
