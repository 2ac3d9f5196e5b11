package search

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiteralFindsEveryNonOverlappingOccurrence(t *testing.T) {
	matches := Literal("abcabcabc", "abc", true)
	require.Len(t, matches, 3)
	assert.Equal(t, Match{Start: 0, End: 3}, matches[0])
	assert.Equal(t, Match{Start: 3, End: 6}, matches[1])
	assert.Equal(t, Match{Start: 6, End: 9}, matches[2])
}

func TestLiteralCaseInsensitive(t *testing.T) {
	matches := Literal("Foo foo FOO", "foo", false)
	assert.Len(t, matches, 3)
}

func TestLiteralCaseSensitiveSkipsMismatchedCase(t *testing.T) {
	matches := Literal("Foo foo FOO", "foo", true)
	require.Len(t, matches, 1)
	assert.Equal(t, 4, matches[0].Start)
}

func TestLiteralEmptyPatternMatchesNothing(t *testing.T) {
	assert.Nil(t, Literal("anything", "", true))
}

func TestCompileEscapedTreatsPatternAsLiteral(t *testing.T) {
	m, err := Compile(`a.b`, RegexConfig{Escaped: true, CaseSensitive: true})
	require.NoError(t, err)
	assert.Empty(t, m.FindAll("axb"))
	assert.Len(t, m.FindAll("a.b"), 1)
}

func TestCompileRegexRE2Path(t *testing.T) {
	m, err := Compile(`\d+`, RegexConfig{CaseSensitive: true})
	require.NoError(t, err)
	matches := m.FindAll("room 12 has 345 seats")
	require.Len(t, matches, 2)
	assert.Equal(t, "12", "room 12 has 345 seats"[matches[0].Start:matches[0].End])
	assert.Equal(t, "345", "room 12 has 345 seats"[matches[1].Start:matches[1].End])
}

func TestCompileCaseInsensitiveRE2(t *testing.T) {
	m, err := Compile(`hello`, RegexConfig{CaseSensitive: false})
	require.NoError(t, err)
	assert.Len(t, m.FindAll("HELLO there hello"), 2)
}

func TestCompileWholeWordBoundary(t *testing.T) {
	m, err := Compile(`cat`, RegexConfig{CaseSensitive: true, MatchWholeWord: true})
	require.NoError(t, err)
	matches := m.FindAll("cat concatenate cat")
	require.Len(t, matches, 2)
}

func TestCompileBackreferenceUsesBacktrackingEngine(t *testing.T) {
	m, err := Compile(`(\w+) \1`, RegexConfig{CaseSensitive: true})
	require.NoError(t, err)
	matches := m.FindAll("hello hello world world!")
	require.Len(t, matches, 2)
}

func TestCompileLookaheadUsesBacktrackingEngine(t *testing.T) {
	m, err := Compile(`foo(?=bar)`, RegexConfig{CaseSensitive: true})
	require.NoError(t, err)
	matches := m.FindAll("foobar foobaz")
	require.Len(t, matches, 1)
}

func TestCompileInvalidPatternErrors(t *testing.T) {
	_, err := Compile(`(unclosed`, RegexConfig{CaseSensitive: true})
	assert.Error(t, err)
}

// TestNamingConventionAgnosticFindAndReplace exercises the seed scenario:
// a fixed set of renderings of "ali bu" inside one line, searched and
// replaced naming-convention-agnostically with "cha dako".
func TestNamingConventionAgnosticFindAndReplace(t *testing.T) {
	content := "AliBu aliBu ali-bu ali_bu Ali Bu ALI BU ali bu ALI-BU ALI_BU Ali-Bu"

	matches := FindNamingConventionAgnostic(content, "ali bu")
	require.Len(t, matches, 10)

	renderings := ReplaceNamingConventionAgnostic("cha dako")
	var rendered []string
	for _, m := range matches {
		rendered = append(rendered, renderings[m.Convention])
	}
	assert.ElementsMatch(t, []string{
		"ChaDako", "chaDako", "cha-dako", "cha_dako", "Cha Dako",
		"CHA DAKO", "cha dako", "CHA-DAKO", "CHA_DAKO", "Cha-Dako",
	}, rendered)
}

func TestFindNamingConventionAgnosticNoMatch(t *testing.T) {
	matches := FindNamingConventionAgnostic("nothing relevant here", "quux zap")
	assert.Empty(t, matches)
}

func TestRenderAllConventions(t *testing.T) {
	words := []string{"foo", "bar"}
	assert.Equal(t, "fooBar", Render(ConventionCamel, words))
	assert.Equal(t, "FooBar", Render(ConventionPascal, words))
	assert.Equal(t, "foo_bar", Render(ConventionSnake, words))
	assert.Equal(t, "foo-bar", Render(ConventionKebab, words))
	assert.Equal(t, "Foo Bar", Render(ConventionTitle, words))
	assert.Equal(t, "FOO BAR", Render(ConventionUpper, words))
	assert.Equal(t, "foo bar", Render(ConventionLower, words))
	assert.Equal(t, "foobar", Render(ConventionFlat, words))
	assert.Equal(t, "Foo-Bar", Render(ConventionTrain, words))
	assert.Equal(t, "FOO_BAR", Render(ConventionUpperSnake, words))
	assert.Equal(t, "FOO-BAR", Render(ConventionUpperKebab, words))
}

func TestReplaceWalksDirectoryHonoringGitignore(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("ignored.txt\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("see spot run"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("see spot run"), 0o644))

	res, err := Replace(ReplaceConfig{
		Root:        dir,
		Pattern:     "spot",
		Replacement: "rex",
		Regex:       RegexConfig{Escaped: true, CaseSensitive: true},
	})
	require.NoError(t, err)
	require.Len(t, res.AffectedPaths, 1)
	assert.Equal(t, filepath.Join(dir, "a.txt"), res.AffectedPaths[0])

	changed, err := os.ReadFile(filepath.Join(dir, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "see rex run", string(changed))

	untouched, err := os.ReadFile(filepath.Join(dir, "ignored.txt"))
	require.NoError(t, err)
	assert.Equal(t, "see spot run", string(untouched))
}

func TestReplaceNamingConventionAgnosticAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.go"), []byte("var aliBu int\nvar ali_bu string\n"), 0o644))

	res, err := Replace(ReplaceConfig{
		Root:           dir,
		Pattern:        "ali bu",
		Replacement:    "cha dako",
		NamingAgnostic: true,
	})
	require.NoError(t, err)
	require.Len(t, res.AffectedPaths, 1)

	changed, err := os.ReadFile(filepath.Join(dir, "a.go"))
	require.NoError(t, err)
	assert.Equal(t, "var chaDako int\nvar cha_dako string\n", string(changed))
}
