package selmode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kimod/kimod/internal/buffer"
	"github.com/kimod/kimod/internal/coord"
	"github.com/kimod/kimod/internal/selection"
)

func paramsAt(buf *buffer.Buffer, char int) selection.Params {
	return selection.Params{Buffer: buf, Cursor: coord.CharIndex(char)}
}

// Seed scenario 1 (spec.md §8): SyntaxNode.current on `x` inside a Rust
// `fn main() { let x = 1; }`, then parent, then parent again.
func TestSyntaxNodeSeedScenario(t *testing.T) {
	lang, ok := buffer.LanguageByName("rust")
	require.True(t, ok)
	content := "fn main() { let x = 1; }"
	buf := buffer.New(content, lang)

	cursor := strings.Index(content, "x")
	require.GreaterOrEqual(t, cursor, 0)

	mode := SyntaxNode()
	p := paramsAt(buf, cursor)

	cur, ok, err := mode.Current(p, selection.LookForward)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "x", content[cur.Start:cur.End])

	letStmt, ok, err := mode.Parent(p)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "let x = 1;", content[letStmt.Start:letStmt.End])

	block, ok, err := mode.Parent(paramsAt(buf, int(letStmt.Start)))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "{ let x = 1; }", content[block.Start:block.End])
}

// Seed scenario 2 (spec.md §8): Line mode on `a\n\n\nb\nc\n  hello`
// yields `a`, "", "", `b`, `c`, `hello` with leading whitespace trimmed.
func TestLineModeSeedScenario(t *testing.T) {
	content := "a\n\n\nb\nc\n  hello"
	buf := buffer.New(content, nil)

	flat := Line().FlatMode
	rs, err := flat.ranges(buf)
	require.NoError(t, err)

	want := []string{"a", "", "", "b", "c", "hello"}
	require.Len(t, rs, len(want))
	for i, r := range rs {
		require.Equal(t, want[i], content[r.Start:r.End], "range %d", i)
	}
}

// Seed scenario 3 (spec.md §8): NamingConventionAgnostic("ali bu") over
// ten differently-cased tokens returns all ten matches.
func TestNamingConventionAgnosticSeedScenario(t *testing.T) {
	content := "AliBu aliBu ali-bu ali_bu Ali Bu ALI BU ali bu ALI-BU ALI_BU Ali-Bu"
	buf := buffer.New(content, nil)

	flat := NamingConventionAgnostic("ali bu")
	rs, err := flat.ranges(buf)
	require.NoError(t, err)
	require.Len(t, rs, 10)
}

func TestInsideParenMovement(t *testing.T) {
	content := "f(a, g(b, c), d)"
	buf := buffer.New(content, nil)

	mode := Inside(InsideParen)
	cursor := strings.Index(content, "b")
	p := paramsAt(buf, cursor)

	cur, ok, err := mode.Current(p, selection.LookForward)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "b, c", content[cur.Start:cur.End])

	outer, ok, err := mode.Up(p)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "a, g(b, c), d", content[outer.Start:outer.End])

	_, ok, err = mode.Next(p)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestTokenFallbackTokenizer(t *testing.T) {
	content := "foo = bar(42)"
	buf := buffer.New(content, nil)

	flat := Token()
	rs, err := flat.ranges(buf)
	require.NoError(t, err)
	require.NotEmpty(t, rs)
	require.Equal(t, "foo", content[rs[0].Start:rs[0].End])
}
