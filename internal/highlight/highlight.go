// Package highlight implements spec.md §4.7: evaluating a language's
// tree-sitter highlight query against a buffer's syntax tree and
// mapping capture names onto a closed set of style keys.
//
// Grounded on internal/analyzer/php.go's query-compile-then-
// QueryCursor.Matches-iterate idiom (the teacher's only tree-sitter
// query usage), extended here from a single hardcoded attribute query
// to an arbitrary highlight query sourced per spec.md §4.7's priority
// list (sanitized nvim-treesitter query, then the grammar's own
// default query).
package highlight

import (
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/kimod/kimod/internal/buffer"
	"github.com/kimod/kimod/internal/coord"
)

// StyleKey is one of the closed set of highlight styles spec.md §4.7
// names; unrecognized capture names fall through to StyleNone.
type StyleKey string

const (
	StyleVariable     StyleKey = "Variable"
	StyleKeyword      StyleKey = "Keyword"
	StyleFunction     StyleKey = "Function"
	StyleType         StyleKey = "Type"
	StyleString       StyleKey = "String"
	StyleComment      StyleKey = "Comment"
	StyleNumber       StyleKey = "Number"
	StyleTag          StyleKey = "Tag"
	StyleTagAttribute StyleKey = "TagAttribute"
	StyleBoolean      StyleKey = "Boolean"
	StyleConstant     StyleKey = "Constant"
	StyleOperator     StyleKey = "Operator"
	StylePunctuation  StyleKey = "Punctuation"
	StyleMarkup       StyleKey = "Markup"
	StyleNone         StyleKey = ""
)

// Decoration is one highlighted byte range, per spec.md §4.7.
type Decoration struct {
	Range coord.ByteRange
	Style StyleKey
}

// SanitizeQuery rewrites an nvim-treesitter query source so it compiles
// against a plain tree-sitter grammar, per spec.md §4.7:
//   - `lua-match?`/`vim-match?` predicates become `match?`
//   - non-highlight captures (@none, @conceal, @spell, @nospell) are
//     stripped entirely, since this package has no concealment or
//     spellcheck rendering to feed them to.
func SanitizeQuery(src string) string {
	src = strings.ReplaceAll(src, "lua-match?", "match?")
	src = strings.ReplaceAll(src, "vim-match?", "match?")
	for _, tag := range []string{"@none", "@conceal", "@spell", "@nospell"} {
		src = stripCaptureLines(src, tag)
	}
	return src
}

// stripCaptureLines removes any query line whose only capture tag is
// tag, leaving lines that combine tag with other content untouched
// (a conservative sanitizer: spec.md only asks to strip the capture,
// and a whole-line removal is the safe approximation when the capture
// is the line's entire purpose).
func stripCaptureLines(src, tag string) string {
	lines := strings.Split(src, "\n")
	out := lines[:0]
	for _, l := range lines {
		trimmed := strings.TrimSpace(l)
		if trimmed == tag || strings.HasSuffix(trimmed, ") "+tag) || strings.HasSuffix(trimmed, ")"+tag) {
			continue
		}
		out = append(out, l)
	}
	return strings.Join(out, "\n")
}

// captureStyle maps an nvim-treesitter capture name (without its
// leading '@') to this package's closed StyleKey set, via longest
// matching prefix since captures nest ("variable.parameter",
// "punctuation.bracket").
func captureStyle(capture string) StyleKey {
	switch {
	case strings.HasPrefix(capture, "keyword"):
		return StyleKeyword
	case strings.HasPrefix(capture, "function") || strings.HasPrefix(capture, "method"):
		return StyleFunction
	case strings.HasPrefix(capture, "type"):
		return StyleType
	case strings.HasPrefix(capture, "string"):
		return StyleString
	case strings.HasPrefix(capture, "comment"):
		return StyleComment
	case strings.HasPrefix(capture, "number") || strings.HasPrefix(capture, "float"):
		return StyleNumber
	case capture == "tag" || strings.HasPrefix(capture, "tag.") && !strings.HasPrefix(capture, "tag.attribute"):
		return StyleTag
	case strings.HasPrefix(capture, "tag.attribute"):
		return StyleTagAttribute
	case strings.HasPrefix(capture, "boolean"):
		return StyleBoolean
	case strings.HasPrefix(capture, "constant"):
		return StyleConstant
	case strings.HasPrefix(capture, "operator"):
		return StyleOperator
	case strings.HasPrefix(capture, "punctuation"):
		return StylePunctuation
	case strings.HasPrefix(capture, "markup"):
		return StyleMarkup
	case strings.HasPrefix(capture, "variable"):
		return StyleVariable
	default:
		return StyleNone
	}
}

// Highlighter evaluates one compiled query against a buffer's tree.
type Highlighter struct {
	query *sitter.Query
}

// Compile builds a Highlighter from querySource, sanitizing it first.
// If the sanitized query fails to compile, it falls back to
// defaultQuery (the grammar's own bundled query), per spec.md §4.7.
func Compile(lang sitter.Language, querySource, defaultQuery string) (*Highlighter, error) {
	sanitized := SanitizeQuery(querySource)
	q, err := sitter.NewQuery(lang, []byte(sanitized))
	if err != nil {
		q, err = sitter.NewQuery(lang, []byte(defaultQuery))
		if err != nil {
			return nil, err
		}
	}
	return &Highlighter{query: q}, nil
}

// Evaluate runs h's query against buf's current tree, returning one
// Decoration per capture in ascending start-byte order. A buffer with
// no syntax tree yields no decorations.
func (h *Highlighter) Evaluate(buf *buffer.Buffer) []Decoration {
	root, ok := buf.RootNode()
	if !ok {
		return nil
	}
	content := []byte(buf.Content())
	qc := sitter.NewQueryCursor()
	it := qc.Matches(h.query, root, content)

	var out []Decoration
	for {
		m := it.Next()
		if m == nil {
			break
		}
		for _, c := range m.Captures {
			name := h.query.CaptureNameForID(c.Index)
			style := captureStyle(name)
			if style == StyleNone {
				continue
			}
			out = append(out, Decoration{
				Range: coord.ByteRange{Start: uint32(c.Node.StartByte()), End: uint32(c.Node.EndByte())},
				Style: style,
			})
		}
	}
	return out
}
