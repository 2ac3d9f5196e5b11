package selmode

import (
	"unicode"
	"unicode/utf8"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/kimod/kimod/internal/buffer"
	"github.com/kimod/kimod/internal/coord"
	"github.com/kimod/kimod/internal/selection"
)

// leafRanges walks root collecting every node with no children (a
// tree-sitter "token"), in left-to-right order. Grounded on the
// teacher's stack-based traversal idiom
// (internal/php/class_analysis.go's `stack := []sitter.Node{root}`).
func leafRanges(root sitter.Node) []coord.ByteRange {
	var out []coord.ByteRange
	var walk func(n sitter.Node)
	walk = func(n sitter.Node) {
		if n.ChildCount() == 0 {
			if n.EndByte() > n.StartByte() {
				out = append(out, coord.ByteRange{Start: uint32(n.StartByte()), End: uint32(n.EndByte())})
			}
			return
		}
		for i := uint32(0); i < n.ChildCount(); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	return out
}

// fallbackTokenize is the language-agnostic tokenizer spec.md §4.2
// names as Token's fallback when no tree-sitter tree is available: runs
// of identifier characters, runs of digits, or single punctuation/
// operator characters, skipping whitespace.
func fallbackTokenize(content []byte) []coord.ByteRange {
	var out []coord.ByteRange
	i := 0
	for i < len(content) {
		r, size := utf8.DecodeRune(content[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case unicode.IsLetter(r) || r == '_':
			start := i
			for i < len(content) {
				r2, size2 := utf8.DecodeRune(content[i:])
				if !(unicode.IsLetter(r2) || unicode.IsDigit(r2) || r2 == '_') {
					break
				}
				i += size2
			}
			out = append(out, coord.ByteRange{Start: uint32(start), End: uint32(i)})
		case unicode.IsDigit(r):
			start := i
			for i < len(content) {
				r2, size2 := utf8.DecodeRune(content[i:])
				if !unicode.IsDigit(r2) {
					break
				}
				i += size2
			}
			out = append(out, coord.ByteRange{Start: uint32(start), End: uint32(i)})
		default:
			out = append(out, coord.ByteRange{Start: uint32(i), End: uint32(i + size)})
			i += size
		}
	}
	return out
}

// Token iterates tree-sitter leaf tokens when a syntax tree is
// available, falling back to a language-agnostic tokenizer otherwise
// (spec.md §4.2).
func Token() FlatMode {
	return FlatMode{ModeTag: selection.ModeToken, Iter: func(buf *buffer.Buffer) ([]coord.ByteRange, error) {
		if root, ok := buf.RootNode(); ok {
			return leafRanges(root), nil
		}
		return fallbackTokenize([]byte(buf.Content())), nil
	}}
}

// SyntaxToken iterates tree-sitter leaf tokens only; it yields nothing
// when the buffer has no syntax tree, per spec.md §7's degraded-mode
// rule for tree-based selection modes.
func SyntaxToken() FlatMode {
	return FlatMode{ModeTag: selection.ModeSyntaxToken, Iter: func(buf *buffer.Buffer) ([]coord.ByteRange, error) {
		root, ok := buf.RootNode()
		if !ok {
			return nil, nil
		}
		return leafRanges(root), nil
	}}
}
