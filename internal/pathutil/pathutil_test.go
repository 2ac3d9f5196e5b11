package pathutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMinimalUniquePathsSinglePath(t *testing.T) {
	got := MinimalUniquePaths([]string{"/home/user/documents/file.txt"})
	require.Equal(t, []string{"file.txt"}, got)
}

func TestMinimalUniquePathsUniqueFilenames(t *testing.T) {
	got := MinimalUniquePaths([]string{
		"/home/user/documents/file1.txt",
		"/home/user/downloads/file2.txt",
		"/var/log/file3.txt",
	})
	require.Equal(t, []string{"file1.txt", "file2.txt", "file3.txt"}, got)
}

func TestMinimalUniquePathsDuplicateFilenames(t *testing.T) {
	got := MinimalUniquePaths([]string{
		"/home/user/documents/file.txt",
		"/home/user/downloads/file.txt",
		"/var/log/unique.txt",
	})
	require.Equal(t, []string{"documents/file.txt", "downloads/file.txt", "unique.txt"}, got)
}

func TestMinimalUniquePathsMultipleLevelsOfDuplication(t *testing.T) {
	got := MinimalUniquePaths([]string{
		"/home/user1/documents/project/file.txt",
		"/home/user1/downloads/project/file.txt",
		"/home/user2/documents/project/file.txt",
		"/var/log/project/file.txt",
	})
	require.Equal(t, []string{
		"user1/documents/project/file.txt",
		"downloads/project/file.txt",
		"user2/documents/project/file.txt",
		"log/project/file.txt",
	}, got)
}

// TestMinimalUniquePathsAllUnique is the "Minimal-unique-path" property
// of spec.md §8, uniqueness half: every output is unique.
func TestMinimalUniquePathsAllUnique(t *testing.T) {
	inputs := []string{
		"/home/a/b/c/file.txt",
		"/home/a/b/d/file.txt",
		"/home/a/x/d/file.txt",
		"/var/file.txt",
		"/var/other.txt",
	}
	got := MinimalUniquePaths(inputs)

	seen := make(map[string]bool)
	for _, rep := range got {
		require.False(t, seen[rep], "duplicate representation %q", rep)
		seen[rep] = true
	}
}

func TestCanonicalizeRejectsMissingPath(t *testing.T) {
	_, err := Canonicalize("/this/path/does/not/exist/hopefully")
	require.Error(t, err)
}
