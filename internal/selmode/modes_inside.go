package selmode

import (
	"github.com/kimod/kimod/internal/buffer"
	"github.com/kimod/kimod/internal/coord"
	"github.com/kimod/kimod/internal/selection"
)

// InsideKind names the delimiter pair an Inside mode matches against:
// parens/braces/brackets, or a custom open/close rune. When Open ==
// Close (quotes, backticks) pairs are matched by alternating toggle
// rather than nesting depth.
type InsideKind struct {
	Open, Close rune
}

var (
	InsideParen   = InsideKind{'(', ')'}
	InsideBrace   = InsideKind{'{', '}'}
	InsideBracket = InsideKind{'[', ']'}
)

// InsideQuote builds a kind for a self-paired delimiter such as `"`,
// `'` or a backtick.
func InsideQuote(q rune) InsideKind { return InsideKind{q, q} }

// InsideCustom builds a kind for an arbitrary open/close rune pair.
func InsideCustom(open, close rune) InsideKind { return InsideKind{open, close} }

type pairSpan struct {
	openByte, closeByte int // byte offset of the open/close delimiter itself
}

// span returns the byte range strictly between the delimiters (the
// "inside" of the pair), matching spec.md §4.2's Inside semantics.
func (p pairSpan) span() coord.ByteRange {
	return coord.ByteRange{Start: uint32(p.openByte + 1), End: uint32(p.closeByte)}
}

// findBracketPairs walks content collecting every balanced pair of kind, in
// nesting order, for bracket-style (Open != Close) delimiters.
func findBracketPairs(content []byte, kind InsideKind) []pairSpan {
	var stack []int
	var out []pairSpan
	for i := 0; i < len(content); i++ {
		switch rune(content[i]) {
		case kind.Open:
			stack = append(stack, i)
		case kind.Close:
			if len(stack) == 0 {
				continue
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			out = append(out, pairSpan{openByte: open, closeByte: i})
		}
	}
	return out
}

// findQuotePairs toggles open/close on each occurrence of a self-paired
// delimiter (quotes, backticks), skipping escaped ones (`\"`).
func findQuotePairs(content []byte, kind InsideKind) []pairSpan {
	var out []pairSpan
	openAt := -1
	for i := 0; i < len(content); i++ {
		if rune(content[i]) != kind.Open {
			continue
		}
		if i > 0 && content[i-1] == '\\' {
			continue
		}
		if openAt < 0 {
			openAt = i
		} else {
			out = append(out, pairSpan{openByte: openAt, closeByte: i})
			openAt = -1
		}
	}
	return out
}

func pairsOf(content []byte, kind InsideKind) []pairSpan {
	if kind.Open == kind.Close {
		return findQuotePairs(content, kind)
	}
	return findBracketPairs(content, kind)
}

// insideMode implements Inside(kind): the span between a pair of
// delimiters, navigable by current/up (enclosing pair)/down (innermost
// nested pair) only. Per spec.md §9 its iterator deliberately returns
// nothing — Next/Previous/First/Last/ToIndex all report not-found.
type insideMode struct {
	kind InsideKind
}

// Inside builds the SelectionMode for the given delimiter kind.
func Inside(kind InsideKind) selection.Engine { return insideMode{kind: kind} }

func (m insideMode) Mode() selection.Mode { return selection.ModeInside }

func (m insideMode) pairs(buf *buffer.Buffer) []pairSpan {
	return pairsOf([]byte(buf.Content()), m.kind)
}

// innermostContaining returns the smallest pair whose open/close
// delimiters straddle byteOffset.
func innermostContaining(pairs []pairSpan, byteOffset int) (pairSpan, bool) {
	best := -1
	for i, p := range pairs {
		if p.openByte <= byteOffset && byteOffset <= p.closeByte {
			if best < 0 || (p.closeByte-p.openByte) < (pairs[best].closeByte-pairs[best].openByte) {
				best = i
			}
		}
	}
	if best < 0 {
		return pairSpan{}, false
	}
	return pairs[best], true
}

func (m insideMode) Current(p selection.Params, ifNotFound selection.IfCurrentNotFound) (coord.ByteRange, bool, error) {
	buf, ok := asBuffer(p)
	if !ok {
		return coord.ByteRange{}, false, nil
	}
	cb, ok := cursorByte(buf, p.Cursor)
	if !ok {
		return coord.ByteRange{}, false, nil
	}
	pair, ok := innermostContaining(m.pairs(buf), cb)
	if !ok {
		return coord.ByteRange{}, false, nil
	}
	return pair.span(), true, nil
}

// currentPair re-derives the enclosing pair from the cursor, used by
// Up/Down to locate the pair to walk outward/inward from.
func (m insideMode) currentPair(p selection.Params) (*buffer.Buffer, pairSpan, bool) {
	buf, ok := asBuffer(p)
	if !ok {
		return nil, pairSpan{}, false
	}
	cb, ok := cursorByte(buf, p.Cursor)
	if !ok {
		return buf, pairSpan{}, false
	}
	pair, ok := innermostContaining(m.pairs(buf), cb)
	return buf, pair, ok
}

func (m insideMode) Up(p selection.Params) (coord.ByteRange, bool, error) {
	buf, cur, ok := m.currentPair(p)
	if !ok {
		return coord.ByteRange{}, false, nil
	}
	pairs := m.pairs(buf)
	best := -1
	for i, p := range pairs {
		if p.openByte < cur.openByte && p.closeByte > cur.closeByte {
			if best < 0 || (p.closeByte-p.openByte) < (pairs[best].closeByte-pairs[best].openByte) {
				best = i
			}
		}
	}
	if best < 0 {
		return coord.ByteRange{}, false, nil
	}
	return pairs[best].span(), true, nil
}

func (m insideMode) Down(p selection.Params) (coord.ByteRange, bool, error) {
	buf, cur, ok := m.currentPair(p)
	if !ok {
		return coord.ByteRange{}, false, nil
	}
	pairs := m.pairs(buf)
	best := -1
	for i, p := range pairs {
		if p.openByte > cur.openByte && p.closeByte < cur.closeByte {
			if best < 0 || (p.closeByte-p.openByte) > (pairs[best].closeByte-pairs[best].openByte) {
				best = i
			}
		}
	}
	if best < 0 {
		return coord.ByteRange{}, false, nil
	}
	return pairs[best].span(), true, nil
}

func (m insideMode) Parent(p selection.Params) (coord.ByteRange, bool, error)     { return m.Up(p) }
func (m insideMode) FirstChild(p selection.Params) (coord.ByteRange, bool, error) { return m.Down(p) }

func (m insideMode) Next(selection.Params) (coord.ByteRange, bool, error) {
	return coord.ByteRange{}, false, nil
}
func (m insideMode) Previous(selection.Params) (coord.ByteRange, bool, error) {
	return coord.ByteRange{}, false, nil
}
func (m insideMode) First(selection.Params) (coord.ByteRange, bool, error) {
	return coord.ByteRange{}, false, nil
}
func (m insideMode) Last(selection.Params) (coord.ByteRange, bool, error) {
	return coord.ByteRange{}, false, nil
}
func (m insideMode) ToIndex(selection.Params, int) (coord.ByteRange, bool, error) {
	return coord.ByteRange{}, false, nil
}
