package selmode

import (
	"unicode"
	"unicode/utf8"

	"github.com/clipperhouse/uax29/v2/words"

	"github.com/kimod/kimod/internal/buffer"
	"github.com/kimod/kimod/internal/coord"
	"github.com/kimod/kimod/internal/selection"
)

// Character iterates every character in the buffer (spec.md §4.2).
func Character() FlatMode {
	return FlatMode{ModeTag: selection.ModeCharacter, Iter: func(buf *buffer.Buffer) ([]coord.ByteRange, error) {
		content := []byte(buf.Content())
		var out []coord.ByteRange
		for i := 0; i < len(content); {
			_, size := utf8.DecodeRune(content[i:])
			if size <= 0 {
				size = 1
			}
			out = append(out, coord.ByteRange{Start: uint32(i), End: uint32(i + size)})
			i += size
		}
		return out, nil
	}}
}

// isIdentifierWord reports whether a uax29 word segment looks like an
// identifier run rather than whitespace or punctuation.
func isIdentifierWord(tok []byte) bool {
	if len(tok) == 0 {
		return false
	}
	r, _ := utf8.DecodeRune(tok)
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// Word iterates identifier-like runs using UAX #29 word segmentation
// (spec.md §4.2), the same Unicode text-segmentation library
// other_examples' peco-peco go.mod already depends on for its own
// input tokenization.
func Word() FlatMode {
	return FlatMode{ModeTag: selection.ModeWord, Iter: func(buf *buffer.Buffer) ([]coord.ByteRange, error) {
		content := []byte(buf.Content())
		var out []coord.ByteRange
		offset := 0
		seg := words.NewSegmenter(content)
		for seg.Next() {
			tok := seg.Bytes()
			if isIdentifierWord(tok) {
				out = append(out, coord.ByteRange{Start: uint32(offset), End: uint32(offset + len(tok))})
			}
			offset += len(tok)
		}
		return out, nil
	}}
}

// WordFine further splits each Word run at case boundaries
// (camelCase -> "camel", "Case") and digit/letter boundaries
// (per spec.md §4.2's WordFine).
func WordFine() FlatMode {
	return FlatMode{ModeTag: selection.ModeWordFine, Iter: func(buf *buffer.Buffer) ([]coord.ByteRange, error) {
		content := []byte(buf.Content())
		var out []coord.ByteRange
		offset := 0
		seg := words.NewSegmenter(content)
		for seg.Next() {
			tok := seg.Bytes()
			if isIdentifierWord(tok) {
				for _, r := range splitFineRuns(tok) {
					out = append(out, coord.ByteRange{Start: uint32(offset + r[0]), End: uint32(offset + r[1])})
				}
			}
			offset += len(tok)
		}
		return out, nil
	}}
}

// splitFineRuns returns the byte sub-ranges of tok split at
// lower→upper case transitions and letter↔digit transitions.
func splitFineRuns(tok []byte) [][2]int {
	type runeInfo struct {
		offset int
		r      rune
	}
	var runes []runeInfo
	for i := 0; i < len(tok); {
		r, size := utf8.DecodeRune(tok[i:])
		runes = append(runes, runeInfo{offset: i, r: r})
		i += size
	}
	if len(runes) == 0 {
		return nil
	}

	var bounds []int
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1].r, runes[i].r
		boundary := false
		switch {
		case unicode.IsUpper(cur) && unicode.IsLower(prev):
			boundary = true
		case unicode.IsDigit(cur) != unicode.IsDigit(prev):
			boundary = true
		case unicode.IsUpper(prev) && unicode.IsUpper(cur) && i+1 < len(runes) && unicode.IsLower(runes[i+1].r):
			boundary = true
		}
		if boundary {
			bounds = append(bounds, runes[i].offset)
		}
	}

	var out [][2]int
	start := 0
	for _, b := range bounds {
		out = append(out, [2]int{start, b})
		start = b
	}
	out = append(out, [2]int{start, len(tok)})
	return out
}
