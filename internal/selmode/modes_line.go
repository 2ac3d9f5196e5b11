package selmode

import (
	"strings"

	"github.com/kimod/kimod/internal/buffer"
	"github.com/kimod/kimod/internal/coord"
	"github.com/kimod/kimod/internal/selection"
)

func lineRanges(buf *buffer.Buffer, trimLeading bool) ([]coord.ByteRange, error) {
	n := buf.LenLines()
	out := make([]coord.ByteRange, 0, n)
	for line := 0; line < n; line++ {
		br, err := buf.LineToByteRange(line)
		if err != nil {
			return nil, err
		}
		if trimLeading {
			content, _ := buf.GetLineByLineIndex(line)
			lead := len(content) - len(strings.TrimLeft(content, " \t"))
			br.Start += uint32(lead)
		}
		out = append(out, br)
	}
	return out, nil
}

// LineMode implements Line/LineFull: flat iteration over lines, but
// with Up overridden to climb to the nearest enclosing line with
// strictly less indentation (spec.md §4.2: "up climbs to the nearest
// enclosing indent parent"), instead of FlatMode's default
// previous-occurrence behavior.
type LineMode struct {
	FlatMode
}

// Line iterates lines trimmed of leading whitespace.
func Line() LineMode {
	flat := FlatMode{ModeTag: selection.ModeLine, Iter: func(buf *buffer.Buffer) ([]coord.ByteRange, error) {
		return lineRanges(buf, true)
	}}
	return LineMode{FlatMode: flat}
}

// LineFull iterates lines including their leading whitespace.
func LineFull() LineMode {
	flat := FlatMode{ModeTag: selection.ModeLineFull, Iter: func(buf *buffer.Buffer) ([]coord.ByteRange, error) {
		return lineRanges(buf, false)
	}}
	return LineMode{FlatMode: flat}
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

func (m LineMode) Up(p selection.Params) (coord.ByteRange, bool, error) {
	buf, ok := asBuffer(p)
	if !ok {
		return coord.ByteRange{}, false, nil
	}
	cb, ok := cursorByte(buf, p.Cursor)
	if !ok {
		return coord.ByteRange{}, false, nil
	}
	c, err := buf.ByteToChar(cb)
	if err != nil {
		return coord.ByteRange{}, false, nil
	}
	line, err := buf.CharToLine(c)
	if err != nil {
		return coord.ByteRange{}, false, nil
	}
	content, err := buf.GetLineByLineIndex(line)
	if err != nil {
		return coord.ByteRange{}, false, nil
	}
	indent := indentOf(content)

	for l := line - 1; l >= 0; l-- {
		candidate, err := buf.GetLineByLineIndex(l)
		if err != nil {
			continue
		}
		if strings.TrimSpace(candidate) == "" {
			continue
		}
		if indentOf(candidate) < indent {
			br, err := buf.LineToByteRange(l)
			if err != nil {
				return coord.ByteRange{}, false, nil
			}
			return br, true, nil
		}
	}
	return coord.ByteRange{}, false, nil
}
