package diff

import (
	"testing"

	dmp "github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeHunksSingleLineChange(t *testing.T) {
	old := "one\ntwo\nthree\n"
	new := "one\nTWO\nthree\n"

	hunks := ComputeHunks(old, new)
	require.Len(t, hunks, 1)
	assert.Equal(t, [2]int{1, 2}, hunks[0].OldLineRange)
	assert.Equal(t, [2]int{1, 2}, hunks[0].NewLineRange)
	assert.Equal(t, []string{"two"}, hunks[0].Old)
	assert.Equal(t, []string{"TWO"}, hunks[0].New)
}

func TestComputeHunksInsertionOnly(t *testing.T) {
	old := "one\nthree\n"
	new := "one\ntwo\nthree\n"

	hunks := ComputeHunks(old, new)
	require.Len(t, hunks, 1)
	assert.Equal(t, [2]int{1, 1}, hunks[0].OldLineRange)
	assert.Equal(t, [2]int{1, 2}, hunks[0].NewLineRange)
	assert.Nil(t, hunks[0].Old)
	assert.Equal(t, []string{"two"}, hunks[0].New)
}

func TestComputeHunksNoDifference(t *testing.T) {
	content := "same\ncontent\n"
	assert.Empty(t, ComputeHunks(content, content))
}

func TestComputeHunksLineRangeReturnsNewSide(t *testing.T) {
	old := "a\nb\nc\n"
	new := "a\nB\nc\n"
	hunks := ComputeHunks(old, new)
	require.Len(t, hunks, 1)
	start, end := hunks[0].LineRange()
	assert.Equal(t, 1, start)
	assert.Equal(t, 2, end)
}

func TestComputeHunksNormalizesCommonIndent(t *testing.T) {
	old := "func f() {\n\t\tfoo()\n}\n"
	new := "func f() {\n\t\tbar()\n}\n"
	hunks := ComputeHunks(old, new)
	require.Len(t, hunks, 1)
	assert.Equal(t, []string{"foo()"}, hunks[0].Old)
	assert.Equal(t, []string{"bar()"}, hunks[0].New)
}

func TestCharDiffHighlightsSubstitution(t *testing.T) {
	diffs := CharDiff("hello world", "hello there")
	var insert, remove bool
	for _, d := range diffs {
		switch d.Type {
		case dmp.DiffInsert:
			insert = true
		case dmp.DiffDelete:
			remove = true
		}
	}
	assert.True(t, insert)
	assert.True(t, remove)
}
