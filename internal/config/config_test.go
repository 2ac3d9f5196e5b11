package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "kimod.toml", `
[languages.go]
extensions = [".go"]
lsp_command = ["gopls"]
formatter_command = ["gofmt"]
line_comment_prefix = "//"
block_comment_affixes = ["/*", "*/"]
tree_sitter_grammar = "golang"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Contains(t, cfg.Languages, "go")
	assert.Equal(t, []string{".go"}, cfg.Languages["go"].Extensions)
	assert.Equal(t, []string{"gopls"}, cfg.Languages["go"].LSPCommand)
}

func TestLoadTOMLRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "kimod.toml", `
[languages.go]
extensions = [".go"]
nonexistent_field = true
`)

	_, err := Load(path)
	require.Error(t, err)
	var unknownErr *ErrUnknownKeys
	assert.ErrorAs(t, err, &unknownErr)
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "kimod.json", `{
		"languages": {
			"rust": {"extensions": [".rs"], "lsp_command": ["rust-analyzer"]}
		}
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{".rs"}, cfg.Languages["rust"].Extensions)
}

func TestForPathPrefersFileNameOverExtension(t *testing.T) {
	cfg := &Config{Languages: map[string]PerLanguageConfig{
		"make": {FileNames: []string{"Makefile"}},
		"text": {Extensions: []string{".txt"}},
	}}

	got, ok := cfg.ForPath("/project/Makefile")
	require.True(t, ok)
	assert.Equal(t, []string{"Makefile"}, got.FileNames)

	got, ok = cfg.ForPath("/project/notes.txt")
	require.True(t, ok)
	assert.Equal(t, []string{".txt"}, got.Extensions)

	_, ok = cfg.ForPath("/project/unknown.xyz")
	assert.False(t, ok)
}
