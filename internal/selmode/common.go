// Package selmode implements the SelectionMode engine of spec.md §4.2:
// a small capability set (Current/Next/Previous/Up/Down/First/Last/
// Parent/FirstChild/ToIndex/Jumps) realized by 17 concrete modes, each
// producing an ordered, duplicate-free sequence of byte ranges over a
// buffer.
//
// The teacher has no analogous polymorphic-iterator concept (LSP
// requests are answered by bespoke per-feature tree walks, never a
// uniform movement vocabulary), so the shape of Engine/Params here
// follows spec.md §4.2 directly, per internal/selection's layering
// decision. Concrete tree-walking helpers (stack-based named-child
// traversal) are grounded on the teacher's own AST traversal idiom,
// e.g. internal/php/class_analysis.go's `stack := []sitter.Node{root}`
// loop, reused here for SyntaxNode/SyntaxToken/Inside.
package selmode

import (
	"sort"

	"github.com/kimod/kimod/internal/buffer"
	"github.com/kimod/kimod/internal/coord"
	"github.com/kimod/kimod/internal/selection"
)

// asBuffer type-asserts p.Buffer to *buffer.Buffer, the only concrete
// Buffer implementation in this repo. Every mode in this package goes
// through this helper instead of repeating the assertion.
func asBuffer(p selection.Params) (*buffer.Buffer, bool) {
	b, ok := p.Buffer.(*buffer.Buffer)
	return b, ok
}

func cursorByte(buf *buffer.Buffer, cursor coord.CharIndex) (int, bool) {
	b, err := buf.CharToByte(cursor)
	return b, err == nil
}

// IterFunc produces the ordered, duplicate-free byte ranges a flat mode
// iterates over. Implementations must return ranges sorted ascending by
// Start, ties broken by End (spec.md §4.2's Engine.iter contract).
type IterFunc func(buf *buffer.Buffer) ([]coord.ByteRange, error)

// FlatMode provides the default Current/Next/Previous/First/Last/
// ToIndex implementations spec.md §4.2 says are "derived from iter" for
// modes with no hierarchical structure. Up and Down default to Previous
// and Next; Parent and FirstChild report not-found. A concrete mode may
// embed FlatMode and override them (Line overrides Up).
type FlatMode struct {
	ModeTag selection.Mode
	Iter    IterFunc
}

func (f FlatMode) Mode() selection.Mode { return f.ModeTag }

func (f FlatMode) ranges(buf *buffer.Buffer) ([]coord.ByteRange, error) {
	rs, err := f.Iter(buf)
	if err != nil {
		return nil, err
	}
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].Start != rs[j].Start {
			return rs[i].Start < rs[j].Start
		}
		return rs[i].End < rs[j].End
	})
	return rs, nil
}

func (f FlatMode) Current(p selection.Params, ifNotFound selection.IfCurrentNotFound) (coord.ByteRange, bool, error) {
	buf, ok := asBuffer(p)
	if !ok {
		return coord.ByteRange{}, false, nil
	}
	rs, err := f.ranges(buf)
	if err != nil || len(rs) == 0 {
		return coord.ByteRange{}, false, err
	}
	cb, ok := cursorByte(buf, p.Cursor)
	if !ok {
		return coord.ByteRange{}, false, nil
	}
	cursorU := uint32(cb)

	var containing *coord.ByteRange
	var before, after *coord.ByteRange
	for i := range rs {
		r := rs[i]
		if r.Start <= cursorU && cursorU < r.End {
			containing = &rs[i]
			break
		}
		if r.End <= cursorU {
			before = &rs[i]
		}
		if after == nil && r.Start > cursorU {
			after = &rs[i]
		}
	}
	if containing != nil {
		return *containing, true, nil
	}
	if ifNotFound == selection.LookForward {
		if after != nil {
			return *after, true, nil
		}
		if before != nil {
			return *before, true, nil
		}
	} else {
		if before != nil {
			return *before, true, nil
		}
		if after != nil {
			return *after, true, nil
		}
	}
	return coord.ByteRange{}, false, nil
}

func (f FlatMode) Next(p selection.Params) (coord.ByteRange, bool, error) {
	buf, ok := asBuffer(p)
	if !ok {
		return coord.ByteRange{}, false, nil
	}
	rs, err := f.ranges(buf)
	if err != nil {
		return coord.ByteRange{}, false, err
	}
	cb, ok := cursorByte(buf, p.Cursor)
	if !ok {
		return coord.ByteRange{}, false, nil
	}
	cursorU := uint32(cb)
	for _, r := range rs {
		if r.Start > cursorU {
			return r, true, nil
		}
	}
	return coord.ByteRange{}, false, nil
}

func (f FlatMode) Previous(p selection.Params) (coord.ByteRange, bool, error) {
	buf, ok := asBuffer(p)
	if !ok {
		return coord.ByteRange{}, false, nil
	}
	rs, err := f.ranges(buf)
	if err != nil {
		return coord.ByteRange{}, false, err
	}
	cb, ok := cursorByte(buf, p.Cursor)
	if !ok {
		return coord.ByteRange{}, false, nil
	}
	cursorU := uint32(cb)
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i].End < cursorU || (rs[i].Start < cursorU && rs[i].End <= cursorU) {
			return rs[i], true, nil
		}
	}
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i].Start < cursorU {
			return rs[i], true, nil
		}
	}
	return coord.ByteRange{}, false, nil
}

func (f FlatMode) First(p selection.Params) (coord.ByteRange, bool, error) {
	buf, ok := asBuffer(p)
	if !ok {
		return coord.ByteRange{}, false, nil
	}
	rs, err := f.ranges(buf)
	if err != nil || len(rs) == 0 {
		return coord.ByteRange{}, false, err
	}
	return rs[0], true, nil
}

func (f FlatMode) Last(p selection.Params) (coord.ByteRange, bool, error) {
	buf, ok := asBuffer(p)
	if !ok {
		return coord.ByteRange{}, false, nil
	}
	rs, err := f.ranges(buf)
	if err != nil || len(rs) == 0 {
		return coord.ByteRange{}, false, err
	}
	return rs[len(rs)-1], true, nil
}

func (f FlatMode) ToIndex(p selection.Params, n int) (coord.ByteRange, bool, error) {
	buf, ok := asBuffer(p)
	if !ok {
		return coord.ByteRange{}, false, nil
	}
	rs, err := f.ranges(buf)
	if err != nil || len(rs) == 0 {
		return coord.ByteRange{}, false, err
	}
	if n < 0 {
		n = 0
	}
	if n >= len(rs) {
		n = len(rs) - 1
	}
	return rs[n], true, nil
}

// Up and Down fall back to Previous and Next; concrete modes that need
// other vertical movement embed FlatMode and override these.
func (f FlatMode) Up(p selection.Params) (coord.ByteRange, bool, error) { return f.Previous(p) }
func (f FlatMode) Down(p selection.Params) (coord.ByteRange, bool, error) {
	return f.Next(p)
}

func (f FlatMode) Parent(p selection.Params) (coord.ByteRange, bool, error) {
	return coord.ByteRange{}, false, nil
}

func (f FlatMode) FirstChild(p selection.Params) (coord.ByteRange, bool, error) {
	return coord.ByteRange{}, false, nil
}

// Jumps scatters jump targets across the given visible line ranges, one
// per occurrence this mode's iterator yields inside those lines, each
// labeled by a short key drawn from chars (spec.md §4.2's "jumps").
// Keys are assigned single-character first, then as the smallest
// not-yet-used two-character combination, so short sequences are
// preferred and a bounded alphabet still covers many targets.
func Jumps(buf *buffer.Buffer, iter IterFunc, chars []rune, visibleLineRanges [][2]int) ([]JumpTarget, error) {
	rs, err := iter(buf)
	if err != nil {
		return nil, err
	}
	sort.Slice(rs, func(i, j int) bool { return rs[i].Start < rs[j].Start })

	var inView []coord.ByteRange
	for _, r := range rs {
		c, err := buf.ByteToChar(int(r.Start))
		if err != nil {
			continue
		}
		line, err := buf.CharToLine(c)
		if err != nil {
			continue
		}
		for _, lr := range visibleLineRanges {
			if line >= lr[0] && line < lr[1] {
				inView = append(inView, r)
				break
			}
		}
	}

	labels := jumpLabels(len(inView), chars)
	out := make([]JumpTarget, 0, len(inView))
	for i, r := range inView {
		out = append(out, JumpTarget{Range: r, Key: labels[i]})
	}
	return out, nil
}

// JumpTarget is one scattered, key-labeled jump destination.
type JumpTarget struct {
	Range coord.ByteRange
	Key   string
}

func jumpLabels(n int, chars []rune) []string {
	if len(chars) == 0 || n == 0 {
		return nil
	}
	labels := make([]string, 0, n)
	for i := 0; i < len(chars) && len(labels) < n; i++ {
		labels = append(labels, string(chars[i]))
	}
	for i := 0; len(labels) < n; i++ {
		for j := 0; j < len(chars) && len(labels) < n; j++ {
			labels = append(labels, string(chars[i%len(chars)])+string(chars[j]))
		}
	}
	return labels
}
