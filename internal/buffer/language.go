package buffer

import (
	"path/filepath"
	"regexp"
	"strings"

	bashgr "github.com/alexaandru/go-sitter-forest/bash"
	gogr "github.com/alexaandru/go-sitter-forest/golang"
	jsgr "github.com/alexaandru/go-sitter-forest/javascript"
	jsongr "github.com/alexaandru/go-sitter-forest/json"
	mdgr "github.com/alexaandru/go-sitter-forest/markdown"
	phpgr "github.com/alexaandru/go-sitter-forest/php"
	pygr "github.com/alexaandru/go-sitter-forest/python"
	rustgr "github.com/alexaandru/go-sitter-forest/rust"
	twiggr "github.com/alexaandru/go-sitter-forest/twig"
	xmlgr "github.com/alexaandru/go-sitter-forest/xml"
	yamlgr "github.com/alexaandru/go-sitter-forest/yaml"
	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// Language describes one tree-sitter grammar binding: the extensions
// and file names that select it, plus the factory that lazily builds
// its sitter.Language handle (built once per process, not per buffer).
//
// Grounded on shinyvision-vimfony/internal/php/document.go's
// sitter.NewLanguage(phpforest.GetLanguage()) pattern, generalized from
// a single hardcoded PHP grammar to the full language table spec.md §2's
// DOMAIN STACK row calls for.
type Language struct {
	Name       string
	Extensions []string
	FileNames  []string
	// ShebangNames are the interpreter/mode names this language answers
	// to in a shebang line or a `mode:`/`ft=` directive.
	ShebangNames []string

	grammar func() sitter.Language
	built   *sitter.Language
}

// Sitter returns (and memoizes) the sitter.Language handle for l.
func (l *Language) Sitter() sitter.Language {
	if l.built == nil {
		lang := l.grammar()
		l.built = &lang
	}
	return *l.built
}

var languageTable = []*Language{
	{Name: "php", Extensions: []string{".php"}, ShebangNames: []string{"php"}, grammar: func() sitter.Language { return sitter.NewLanguage(phpgr.GetLanguage()) }},
	{Name: "twig", Extensions: []string{".twig"}, ShebangNames: []string{"twig"}, grammar: func() sitter.Language { return sitter.NewLanguage(twiggr.GetLanguage()) }},
	{Name: "xml", Extensions: []string{".xml", ".xsd"}, ShebangNames: []string{"xml"}, grammar: func() sitter.Language { return sitter.NewLanguage(xmlgr.GetLanguage()) }},
	{Name: "yaml", Extensions: []string{".yaml", ".yml"}, ShebangNames: []string{"yaml"}, grammar: func() sitter.Language { return sitter.NewLanguage(yamlgr.GetLanguage()) }},
	{Name: "json", Extensions: []string{".json"}, ShebangNames: []string{"json"}, grammar: func() sitter.Language { return sitter.NewLanguage(jsongr.GetLanguage()) }},
	{Name: "go", Extensions: []string{".go"}, ShebangNames: []string{"go"}, grammar: func() sitter.Language { return sitter.NewLanguage(gogr.GetLanguage()) }},
	{Name: "rust", Extensions: []string{".rs"}, ShebangNames: []string{"rust", "rs"}, grammar: func() sitter.Language { return sitter.NewLanguage(rustgr.GetLanguage()) }},
	{Name: "python", Extensions: []string{".py"}, ShebangNames: []string{"python", "python3"}, grammar: func() sitter.Language { return sitter.NewLanguage(pygr.GetLanguage()) }},
	{Name: "javascript", Extensions: []string{".js", ".jsx", ".mjs"}, ShebangNames: []string{"node", "javascript"}, grammar: func() sitter.Language { return sitter.NewLanguage(jsgr.GetLanguage()) }},
	{Name: "markdown", Extensions: []string{".md", ".markdown"}, ShebangNames: []string{"markdown"}, grammar: func() sitter.Language { return sitter.NewLanguage(mdgr.GetLanguage()) }},
	{Name: "bash", Extensions: []string{".sh", ".bash"}, FileNames: []string{".bashrc", ".bash_profile"}, ShebangNames: []string{"bash", "sh"}, grammar: func() sitter.Language { return sitter.NewLanguage(bashgr.GetLanguage()) }},
}

// LanguageByName returns the language table entry with the given name.
func LanguageByName(name string) (*Language, bool) {
	for _, l := range languageTable {
		if l.Name == name {
			return l, true
		}
	}
	return nil, false
}

// firstLineDirective matches spec.md §4.1's first-line language
// detection regex: a shebang interpreter path, or a `mode:`/`ft=` editor
// modeline directive.
var firstLineDirective = regexp.MustCompile(`(?:^#!.*/|mode:|ft\s*=)\s*(\w+)`)

// DetectLanguage infers a file's language by, in priority order: a
// first-line shebang/modeline directive, the file extension, then the
// bare file name. Returns (nil, false) when nothing matches, in which
// case Buffer.Open proceeds without a syntax tree (spec.md §7:
// GrammarLoadFailed is degraded, never fatal).
func DetectLanguage(path string, firstLine string) (*Language, bool) {
	if m := firstLineDirective.FindStringSubmatch(firstLine); m != nil {
		name := strings.ToLower(m[1])
		for _, l := range languageTable {
			for _, s := range l.ShebangNames {
				if s == name {
					return l, true
				}
			}
		}
	}

	ext := strings.ToLower(filepath.Ext(path))
	for _, l := range languageTable {
		for _, e := range l.Extensions {
			if e == ext {
				return l, true
			}
		}
	}

	base := filepath.Base(path)
	for _, l := range languageTable {
		for _, fn := range l.FileNames {
			if fn == base {
				return l, true
			}
		}
	}

	return nil, false
}
