package selmode

import (
	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/kimod/kimod/internal/buffer"
	"github.com/kimod/kimod/internal/coord"
	"github.com/kimod/kimod/internal/search"
	"github.com/kimod/kimod/internal/selection"
)

// Find iterates every match of pattern under cfg (spec.md §4.2/§4.6).
func Find(pattern string, cfg search.RegexConfig) (FlatMode, error) {
	matcher, err := search.Compile(pattern, cfg)
	if err != nil {
		return FlatMode{}, err
	}
	return FlatMode{ModeTag: selection.ModeFind, Iter: func(buf *buffer.Buffer) ([]coord.ByteRange, error) {
		matches := matcher.FindAll(buf.Content())
		out := make([]coord.ByteRange, 0, len(matches))
		for _, m := range matches {
			out = append(out, coord.ByteRange{Start: uint32(m.Start), End: uint32(m.End)})
		}
		return out, nil
	}}, nil
}

// NamingConventionAgnostic iterates every occurrence of pattern's words
// under any of the 11 common casings (spec.md §4.2/§4.6).
func NamingConventionAgnostic(pattern string) FlatMode {
	return FlatMode{ModeTag: selection.ModeNamingConventionAgnostic, Iter: func(buf *buffer.Buffer) ([]coord.ByteRange, error) {
		matches := search.FindNamingConventionAgnostic(buf.Content(), pattern)
		out := make([]coord.ByteRange, 0, len(matches))
		for _, m := range matches {
			out = append(out, coord.ByteRange{Start: uint32(m.Start), End: uint32(m.End)})
		}
		return out, nil
	}}
}

// AstGrep iterates every tree-sitter node matching a query pattern
// compiled against the buffer's language, using the grammar's own query
// language rather than a bespoke pattern matcher (spec.md §4.2's
// AstGrep), mirroring the teacher's query-compile-then-capture idiom in
// internal/analyzer/php.go's attributeQuery/QueryCursor.Matches usage.
func AstGrep(queryPattern string) FlatMode {
	return FlatMode{ModeTag: selection.ModeAstGrep, Iter: func(buf *buffer.Buffer) ([]coord.ByteRange, error) {
		root, ok := buf.RootNode()
		if !ok {
			return nil, nil
		}
		lang := buf.Language()
		if lang == nil {
			return nil, nil
		}
		q, qerr := sitter.NewQuery(lang.Sitter(), []byte(queryPattern))
		if qerr != nil {
			return nil, qerr
		}

		content := []byte(buf.Content())
		qc := sitter.NewQueryCursor()
		it := qc.Matches(q, root, content)

		var out []coord.ByteRange
		for {
			m := it.Next()
			if m == nil {
				break
			}
			for _, c := range m.Captures {
				n := c.Node
				out = append(out, coord.ByteRange{Start: uint32(n.StartByte()), End: uint32(n.EndByte())})
			}
		}
		return out, nil
	}}
}
