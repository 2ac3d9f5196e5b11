// Package rope implements a persistent, immutable text rope: a balanced
// leaf/concat tree supporting O(log n) line-index lookup. Splice, Insert
// and Delete are not O(log n): each flattens the rope to a string and
// rebuilds a new tree from it, so they take time linear in its length.
//
// spec.md budgets the Rope row as "(External library assumed.)"; no
// importable Go rope crate surfaced anywhere in the retrieval pack (see
// DESIGN.md and SPEC_FULL.md's "Ambient Rope note"), so this is a
// from-scratch implementation rather than a third-party import. It is
// deliberately the one hand-rolled core data structure in this repo.
package rope

import (
	"strings"
)

// maxLeaf bounds the size of a leaf node before a splice forces a split.
// Kept small so tests exercise tree rebalancing without huge fixtures.
const maxLeaf = 512

// Rope is an immutable sequence of characters. Every mutating operation
// (Insert, Delete, Splice) returns a new Rope and leaves the receiver
// untouched, so a Rope can be shared freely across goroutines and undo
// history nodes.
type Rope struct {
	// leaf holds the text directly when this node has no children.
	leaf string
	// left and right are nil for leaves.
	left, right *Rope

	chars int // total character count under this node
	bytes int // total byte count under this node
	lines int // total '\n' count under this node (line count - 1)
}

// NewRope builds a rope from a string, balancing it into leaves no larger
// than maxLeaf runes.
func NewRope(s string) *Rope {
	if len(s) <= maxLeaf {
		return newLeaf(s)
	}
	runes := []rune(s)
	mid := len(runes) / 2
	// Keep split points on rune boundaries; bytes are a non-issue here
	// since we split the rune slice, not the byte slice.
	return concat(NewRope(string(runes[:mid])), NewRope(string(runes[mid:])))
}

func newLeaf(s string) *Rope {
	return &Rope{
		leaf:  s,
		chars: len([]rune(s)),
		bytes: len(s),
		lines: strings.Count(s, "\n"),
	}
}

func concat(l, r *Rope) *Rope {
	if l == nil {
		return r
	}
	if r == nil {
		return l
	}
	if l.chars == 0 {
		return r
	}
	if r.chars == 0 {
		return l
	}
	return &Rope{
		left:  l,
		right: r,
		chars: l.chars + r.chars,
		bytes: l.bytes + r.bytes,
		lines: l.lines + r.lines,
	}
}

// Empty returns the empty rope.
func Empty() *Rope { return newLeaf("") }

// LenChars returns the number of characters in the rope.
func (r *Rope) LenChars() int {
	if r == nil {
		return 0
	}
	return r.chars
}

// LenBytes returns the number of bytes in the rope.
func (r *Rope) LenBytes() int {
	if r == nil {
		return 0
	}
	return r.bytes
}

// LenLines returns the number of lines; an empty rope has one line, and
// every '\n' introduces one more, matching the usual editor convention.
func (r *Rope) LenLines() int {
	if r == nil {
		return 1
	}
	return r.lines + 1
}

// String flattens the rope into a plain Go string.
func (r *Rope) String() string {
	if r == nil {
		return ""
	}
	if r.left == nil && r.right == nil {
		return r.leaf
	}
	var b strings.Builder
	b.Grow(r.bytes)
	r.writeTo(&b)
	return b.String()
}

func (r *Rope) writeTo(b *strings.Builder) {
	if r == nil {
		return
	}
	if r.left == nil && r.right == nil {
		b.WriteString(r.leaf)
		return
	}
	r.left.writeTo(b)
	r.right.writeTo(b)
}

// Slice returns the substring spanning the half-open character range
// [start, end). Out-of-range bounds are clamped rather than erroring;
// callers that need strict bounds checking should validate with
// LenChars first (this mirrors internal/coord.TextTrimmer's contract,
// which never errors since it's a pure reading helper).
func (r *Rope) Slice(start, end int) string {
	if r == nil {
		return ""
	}
	n := r.chars
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	if start >= end {
		return ""
	}
	var b strings.Builder
	r.sliceInto(&b, start, end)
	return b.String()
}

func (r *Rope) sliceInto(b *strings.Builder, start, end int) {
	if r == nil || start >= end {
		return
	}
	if r.left == nil && r.right == nil {
		runes := []rune(r.leaf)
		if start < 0 {
			start = 0
		}
		if end > len(runes) {
			end = len(runes)
		}
		b.WriteString(string(runes[start:end]))
		return
	}
	leftLen := r.left.chars
	if start < leftLen {
		r.left.sliceInto(b, start, min(end, leftLen))
	}
	if end > leftLen {
		r.right.sliceInto(b, max(start-leftLen, 0), end-leftLen)
	}
}

// CharAt returns the rune at character offset i.
func (r *Rope) CharAt(i int) (rune, bool) {
	if r == nil || i < 0 || i >= r.chars {
		return 0, false
	}
	if r.left == nil && r.right == nil {
		runes := []rune(r.leaf)
		if i >= len(runes) {
			return 0, false
		}
		return runes[i], true
	}
	if i < r.left.chars {
		return r.left.CharAt(i)
	}
	return r.right.CharAt(i - r.left.chars)
}

// Insert returns a new rope with text inserted at character offset at.
func (r *Rope) Insert(at int, text string) *Rope {
	if text == "" {
		return r
	}
	left := r.Slice(0, at)
	right := r.Slice(at, r.LenChars())
	return NewRope(left + text + right)
}

// Delete returns a new rope with the half-open character range
// [start, end) removed.
func (r *Rope) Delete(start, end int) *Rope {
	if start >= end {
		return r
	}
	left := r.Slice(0, start)
	right := r.Slice(end, r.LenChars())
	return NewRope(left + right)
}

// Splice is a combined delete-then-insert: it removes [start, end) and
// inserts text in its place, returning the new rope. This is the
// operation internal/edit.Edit.Apply drives.
func (r *Rope) Splice(start, end int, text string) *Rope {
	left := r.Slice(0, start)
	right := r.Slice(end, r.LenChars())
	return NewRope(left + text + right)
}

// CharToByte converts a character offset to a byte offset.
func (r *Rope) CharToByte(c int) (int, bool) {
	if r == nil {
		if c == 0 {
			return 0, true
		}
		return 0, false
	}
	if c < 0 || c > r.chars {
		return 0, false
	}
	return r.charToByte(c), true
}

func (r *Rope) charToByte(c int) int {
	if r.left == nil && r.right == nil {
		runes := []rune(r.leaf)
		if c >= len(runes) {
			return len(r.leaf)
		}
		return len(string(runes[:c]))
	}
	if c <= r.left.chars {
		return r.left.charToByte(c)
	}
	return r.left.bytes + r.right.charToByte(c-r.left.chars)
}

// ByteToChar converts a byte offset to a character offset.
func (r *Rope) ByteToChar(b int) (int, bool) {
	if r == nil {
		if b == 0 {
			return 0, true
		}
		return 0, false
	}
	if b < 0 || b > r.bytes {
		return 0, false
	}
	return r.byteToChar(b), true
}

func (r *Rope) byteToChar(b int) int {
	if r.left == nil && r.right == nil {
		// Count runes in the byte prefix; b is assumed to land on a rune
		// boundary (callers translate from tree-sitter byte offsets,
		// which always do).
		return len([]rune(r.leaf[:b]))
	}
	if b <= r.left.bytes {
		return r.left.byteToChar(b)
	}
	return r.left.chars + r.right.byteToChar(b-r.left.bytes)
}

// LineToChar returns the character offset of the start of line (0-based).
func (r *Rope) LineToChar(line int) (int, bool) {
	if line < 0 || line >= r.LenLines() {
		return 0, false
	}
	if line == 0 {
		return 0, true
	}
	idx, ok := r.nthNewline(line - 1)
	if !ok {
		return 0, false
	}
	// nthNewline reports a byte offset; the line starts one byte after it.
	return r.ByteToChar(idx + 1)
}

func (r *Rope) nthNewline(n int) (int, bool) {
	if r == nil {
		return 0, false
	}
	if r.left == nil && r.right == nil {
		count := -1
		for i, ch := range r.leaf {
			if ch == '\n' {
				count++
				if count == n {
					return i, true
				}
			}
		}
		return 0, false
	}
	if n < r.left.lines {
		return r.left.nthNewline(n)
	}
	idx, ok := r.right.nthNewline(n - r.left.lines)
	if !ok {
		return 0, false
	}
	return r.left.bytes + idx, true
}

// CharToLine returns the 0-based line containing character offset c.
func (r *Rope) CharToLine(c int) (int, bool) {
	if c < 0 || c > r.chars {
		return 0, false
	}
	b, ok := r.CharToByte(c)
	if !ok {
		return 0, false
	}
	return r.byteToLine(b), true
}

func (r *Rope) byteToLine(b int) int {
	if r == nil {
		return 0
	}
	if r.left == nil && r.right == nil {
		return strings.Count(r.leaf[:min(b, len(r.leaf))], "\n")
	}
	if b <= r.left.bytes {
		return r.left.byteToLine(b)
	}
	return r.left.lines + r.right.byteToLine(b-r.left.bytes)
}

// LineToByte returns the byte offset of the start of line (0-based).
func (r *Rope) LineToByte(line int) (int, bool) {
	c, ok := r.LineToChar(line)
	if !ok {
		return 0, false
	}
	return r.CharToByte(c)
}

// Line returns the content of the given 0-based line, excluding its
// trailing newline.
func (r *Rope) Line(line int) (string, bool) {
	start, ok := r.LineToChar(line)
	if !ok {
		return "", false
	}
	end := r.chars
	if next, ok := r.LineToChar(line + 1); ok {
		end = next - 1
		if end < start {
			end = start
		}
	}
	return r.Slice(start, end), true
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
