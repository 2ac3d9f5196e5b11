// Package coord defines the newtypes used for every coordinate translation
// in the editor: byte offsets, character offsets, and line/column positions.
// Arithmetic on these types saturates at zero instead of wrapping or
// panicking, mirroring the rest of the editor's no-panic-on-bad-input
// posture (see internal/buffer).
package coord

import "fmt"

// CharIndex is a zero-based logical character offset into a rope.
type CharIndex int

// Add returns c+n, saturating at 0.
func (c CharIndex) Add(n int) CharIndex {
	v := int(c) + n
	if v < 0 {
		return 0
	}
	return CharIndex(v)
}

// Sub returns c-o as a plain int, which may be negative.
func (c CharIndex) Sub(o CharIndex) int {
	return int(c) - int(o)
}

func (c CharIndex) String() string {
	return fmt.Sprintf("CharIndex(%d)", int(c))
}

// ByteRange is a half-open [Start, End) range of bytes. Info carries
// opaque caller-defined metadata (diagnostics, hover payloads, …) and is
// ignored by range arithmetic and equality helpers below.
type ByteRange struct {
	Start uint32
	End   uint32
	Info  any
}

// Len returns the number of bytes the range spans.
func (b ByteRange) Len() uint32 {
	if b.End < b.Start {
		return 0
	}
	return b.End - b.Start
}

// Contains reports whether other lies entirely within b.
func (b ByteRange) Contains(other ByteRange) bool {
	return b.Start <= other.Start && other.End <= b.End
}

// Overlaps reports whether b and other share at least one byte.
func (b ByteRange) Overlaps(other ByteRange) bool {
	return b.Start < other.End && other.Start < b.End
}

// CharIndexRange is a half-open [Start, End) range of CharIndex. The
// invariant Start <= End is enforced by every constructor and mutator in
// this package; callers that build one directly are responsible for it.
type CharIndexRange struct {
	Start CharIndex
	End   CharIndex
}

// NewCharIndexRange builds a range, swapping the bounds if given reversed.
func NewCharIndexRange(a, b CharIndex) CharIndexRange {
	if a > b {
		a, b = b, a
	}
	return CharIndexRange{Start: a, End: b}
}

// Len returns the number of characters spanned.
func (r CharIndexRange) Len() int {
	if r.End < r.Start {
		return 0
	}
	return int(r.End - r.Start)
}

// IsEmpty reports whether the range spans zero characters.
func (r CharIndexRange) IsEmpty() bool {
	return r.Start == r.End
}

// Shift translates both bounds by n characters, saturating at 0.
func (r CharIndexRange) Shift(n int) CharIndexRange {
	return CharIndexRange{Start: r.Start.Add(n), End: r.End.Add(n)}
}

// Superset reports whether r contains other entirely.
func (r CharIndexRange) Superset(other CharIndexRange) bool {
	return r.Start <= other.Start && other.End <= r.End
}

// CollapseToCursorEnd returns a zero-width range positioned at r.End,
// the conventional resting place for a cursor after an edit or movement
// that does not keep an extended selection.
func (r CharIndexRange) CollapseToCursorEnd() CharIndexRange {
	return CharIndexRange{Start: r.End, End: r.End}
}

// CollapseToCursorStart mirrors CollapseToCursorEnd for r.Start.
func (r CharIndexRange) CollapseToCursorStart() CharIndexRange {
	return CharIndexRange{Start: r.Start, End: r.Start}
}

// CharAt reports the i'th character offset inside the range (0-based).
// It is the caller's job to pair this with a rope lookup; CharIndexRange
// only knows offsets, not content.
func (r CharIndexRange) CharAt(i int) (CharIndex, bool) {
	if i < 0 || i >= r.Len() {
		return 0, false
	}
	return r.Start.Add(i), true
}

// TextTrimmer slices and trims content; implemented by the rope so that
// TrimWhitespace below can stay generic over rope internals.
type TextTrimmer interface {
	// Slice returns the text in [start, end).
	Slice(start, end CharIndex) string
}

// TrimWhitespace narrows r to exclude leading/trailing whitespace, using
// trimmer to read the underlying text. An all-whitespace range collapses
// to a zero-width range at its original start.
func (r CharIndexRange) TrimWhitespace(trimmer TextTrimmer) CharIndexRange {
	text := trimmer.Slice(r.Start, r.End)
	runes := []rune(text)
	lead := 0
	for lead < len(runes) && isSpace(runes[lead]) {
		lead++
	}
	trail := len(runes)
	for trail > lead && isSpace(runes[trail-1]) {
		trail--
	}
	return CharIndexRange{Start: r.Start.Add(lead), End: r.Start.Add(trail)}
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

// Position is a zero-based {line, column} pair in logical characters,
// never bytes.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Less orders positions first by line, then by column.
func (p Position) Less(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}

// ApplyEdit remaps r across a single edit occupying editRange in the
// pre-edit rope, which changed the document length by charsOffset
// characters. It implements the cross-selection remap policy of the edit
// algebra (marks and selections not themselves touched by a transaction
// are carried across it by this rule, not by re-running the transaction):
//
//   - edit entirely after r: r unchanged
//   - edit entirely before r: r shifts by charsOffset
//   - edit strictly contains r (not touching either edge): r is dropped
//   - r contains the edit: r expands/shrinks by charsOffset
//   - edit overlaps r's front: r is truncated from the front to the edit's end
//   - edit overlaps r's back: r is truncated from the back to the edit's start
//   - edit equals r, or is a superset of r: r is dropped
//
// The second return value is false when r should be dropped.
func (r CharIndexRange) ApplyEdit(editRange CharIndexRange, charsOffset int) (CharIndexRange, bool) {
	editEnd := editRange.End.Add(charsOffset)

	switch {
	case editRange.Start >= r.End:
		// Edit entirely at or after r's end: no effect.
		return r, true

	case editRange.End <= r.Start:
		// Edit entirely before r: shift both bounds.
		return r.Shift(charsOffset), true

	case editRange == r, editRange.Superset(r):
		// Edit equals r, or swallows it (from either side, or both): drop.
		return CharIndexRange{}, false

	case r.Start < editRange.Start && editRange.End < r.End:
		// Edit strictly nested inside r, touching neither edge: r's end
		// moves by the offset, its start is untouched.
		return CharIndexRange{Start: r.Start, End: r.End.Add(charsOffset)}, true

	case editRange.Start <= r.Start:
		// Edit overlaps r's front (or starts exactly at it): truncate from
		// front to the edit's new end.
		return CharIndexRange{Start: editEnd, End: r.End.Add(charsOffset)}, true

	default:
		// Edit overlaps r's back (or ends exactly at it): truncate from
		// back to the edit's start.
		return CharIndexRange{Start: r.Start, End: editRange.Start}, true
	}
}
