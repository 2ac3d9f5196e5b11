package ipc

import (
	"strings"
	"unicode/utf16"

	"github.com/kimod/kimod/internal/coord"
)

// ToUTF16Column converts a logical-character column within line into
// the UTF-16 code-unit column most wire protocols (LSP included) use,
// grounded on the teacher's own protocol.Position.IndexIn(text) UTF-16
// index resolution in the teacher's own internal/server/server.go's
// didChange: a rune outside the Basic Multilingual Plane costs two
// UTF-16 units, not one.
func ToUTF16Column(line string, charColumn int) int {
	runes := []rune(line)
	if charColumn > len(runes) {
		charColumn = len(runes)
	}
	units := 0
	for _, r := range runes[:charColumn] {
		units += len(utf16.Encode([]rune{r}))
	}
	return units
}

// FromUTF16Column converts a UTF-16 code-unit column within line back
// to a logical-character column, the inverse of ToUTF16Column.
func FromUTF16Column(line string, utf16Column int) int {
	runes := []rune(line)
	units := 0
	for i, r := range runes {
		if units >= utf16Column {
			return i
		}
		units += len(utf16.Encode([]rune{r}))
	}
	return len(runes)
}

// ToWirePosition converts a coord.Position (logical line/column) into
// the {line, utf16_column} pair the IPC wire format carries, given the
// full buffer content to look up the line's text.
func ToWirePosition(content string, p coord.Position) (line int, utf16Column int) {
	lines := strings.Split(content, "\n")
	if p.Line < 0 || p.Line >= len(lines) {
		return p.Line, p.Column
	}
	return p.Line, ToUTF16Column(lines[p.Line], p.Column)
}

// FromWirePosition is the inverse of ToWirePosition.
func FromWirePosition(content string, line, utf16Column int) coord.Position {
	lines := strings.Split(content, "\n")
	if line < 0 || line >= len(lines) {
		return coord.Position{Line: line, Column: utf16Column}
	}
	return coord.Position{Line: line, Column: FromUTF16Column(lines[line], utf16Column)}
}
