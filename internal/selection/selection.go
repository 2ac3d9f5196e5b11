// Package selection implements Selection and SelectionSet (spec.md §3,
// §4.3): the cursor/extended-range model and the non-empty,
// sorted, pairwise-non-overlapping multi-cursor set built on top of it.
//
// The teacher has no analogous concept (LSP requests carry ephemeral
// single positions, never a persistent multi-cursor set), so this
// package's shape follows spec.md directly; its small invariant-bearing
// structs are laid out the way the teacher lays out its own
// invariant-bearing value types (internal/php/types.go's
// LineColumnRange, ByteRange).
package selection

import (
	"fmt"
	"sort"

	"github.com/kimod/kimod/internal/coord"
)

// CursorDirection says which end of a selection's range is the cursor.
type CursorDirection int

const (
	CursorStart CursorDirection = iota
	CursorEnd
)

// Selection is a single cursor/range pair: the unit of all editor
// manipulation, per the GLOSSARY.
type Selection struct {
	Range      coord.CharIndexRange
	Info       any
	Anchor     *coord.CharIndex
	IsExtended bool
}

// Cursor returns the end of Range that acts as the cursor, per dir.
func (s Selection) Cursor(dir CursorDirection) coord.CharIndex {
	if dir == CursorStart {
		return s.Range.Start
	}
	return s.Range.End
}

// ExtendedRange returns Range when the selection isn't extended, or the
// span between Anchor and Range when it is.
func (s Selection) ExtendedRange() coord.CharIndexRange {
	if !s.IsExtended || s.Anchor == nil {
		return s.Range
	}
	return coord.NewCharIndexRange(*s.Anchor, s.Range.End)
}

// Mode is the tagged sum of available SelectionModes (spec.md §4.2);
// concrete movement semantics live in internal/selmode, whose
// implementations each report the Mode they correspond to.
type Mode string

const (
	ModeCharacter              Mode = "Character"
	ModeWord                   Mode = "Word"
	ModeWordFine               Mode = "WordFine"
	ModeToken                  Mode = "Token"
	ModeSyntaxToken            Mode = "SyntaxToken"
	ModeLine                   Mode = "Line"
	ModeLineFull               Mode = "LineFull"
	ModeSyntaxNode             Mode = "SyntaxNode"
	ModeSyntaxNodeFine         Mode = "SyntaxNodeFine"
	ModeMark                   Mode = "Mark"
	ModeDiagnostic             Mode = "Diagnostic"
	ModeGitHunk                Mode = "GitHunk"
	ModeLocalQuickfix          Mode = "LocalQuickfix"
	ModeFind                   Mode = "Find"
	ModeAstGrep                Mode = "AstGrep"
	ModeNamingConventionAgnostic Mode = "NamingConventionAgnostic"
	ModeInside                 Mode = "Inside"
)

// IfCurrentNotFound is the tiebreaker policy for Current when the cursor
// sits between two occurrences.
type IfCurrentNotFound int

const (
	LookForward IfCurrentNotFound = iota
	LookBackward
)

// Direction drives Next/Previous and CyclePrimary.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// Movement is the uniform movement vocabulary broadcast to a
// SelectionSet (spec.md §4.2's operation table).
type Movement int

const (
	MovementCurrent Movement = iota
	MovementNext
	MovementPrevious
	MovementUp
	MovementDown
	MovementFirst
	MovementLast
	MovementParent
	MovementFirstChild
	MovementToIndex
)

// Engine is the capability set every SelectionMode implements
// (internal/selmode's concrete modes, one per Mode tag). Ranges are reported in bytes
// to stay aligned with tree-sitter's own coordinate space; ApplyMovement
// converts them to CharIndexRange via a Converter before installing them
// on a Selection.
type Engine interface {
	Mode() Mode
	Current(p Params, ifNotFound IfCurrentNotFound) (coord.ByteRange, bool, error)
	Next(p Params) (coord.ByteRange, bool, error)
	Previous(p Params) (coord.ByteRange, bool, error)
	Up(p Params) (coord.ByteRange, bool, error)
	Down(p Params) (coord.ByteRange, bool, error)
	First(p Params) (coord.ByteRange, bool, error)
	Last(p Params) (coord.ByteRange, bool, error)
	Parent(p Params) (coord.ByteRange, bool, error)
	FirstChild(p Params) (coord.ByteRange, bool, error)
	ToIndex(p Params, n int) (coord.ByteRange, bool, error)
}

// Params bundles what an Engine needs to answer a single movement query
// for one selection. Buffer is typed as any because internal/selmode
// sits below internal/buffer in the import graph: each mode implementation
// type-asserts the specific read-only view it needs (line access,
// tree-sitter node access, diagnostics, …) out of the concrete buffer
// passed in by the caller.
type Params struct {
	Buffer any
	Cursor coord.CharIndex
}

// Converter maps an Engine's byte ranges back into CharIndexRange. The
// concrete implementation is internal/buffer.Buffer.
type Converter interface {
	ByteRangeToCharIndexRange(b coord.ByteRange) (coord.CharIndexRange, error)
}

// ErrEmptySelectionSet is returned by constructors given no selections.
var ErrEmptySelectionSet = fmt.Errorf("selection: set must contain at least one selection")

// ErrPrimaryOutOfRange is returned when a requested primary index has no
// corresponding selection.
type ErrPrimaryOutOfRange struct {
	Index, Len int
}

func (e *ErrPrimaryOutOfRange) Error() string {
	return fmt.Sprintf("selection: primary index %d out of range for %d selections", e.Index, e.Len)
}

// SelectionSet is a non-empty, sorted, pairwise-non-overlapping list of
// Selections with one primary, tagged by the mode that produced it.
type SelectionSet struct {
	selections []Selection
	primary    int
	mode       Mode
}

// New builds a SelectionSet from sels, normalizing order/overlap and
// preserving primary's logical position across any merge.
func New(mode Mode, primary int, sels ...Selection) (*SelectionSet, error) {
	if len(sels) == 0 {
		return nil, ErrEmptySelectionSet
	}
	if primary < 0 || primary >= len(sels) {
		return nil, &ErrPrimaryOutOfRange{Index: primary, Len: len(sels)}
	}
	s := &SelectionSet{selections: append([]Selection(nil), sels...), primary: primary, mode: mode}
	s.normalize()
	return s, nil
}

// Len returns the number of selections currently in the set.
func (s *SelectionSet) Len() int { return len(s.selections) }

// All returns a copy of the set's selections, in sorted order.
func (s *SelectionSet) All() []Selection {
	return append([]Selection(nil), s.selections...)
}

// Primary returns the current primary selection.
func (s *SelectionSet) Primary() Selection { return s.selections[s.primary] }

// PrimaryIndex returns the current primary's index.
func (s *SelectionSet) PrimaryIndex() int { return s.primary }

// Mode returns the set's active SelectionMode tag.
func (s *SelectionSet) Mode() Mode { return s.mode }

// SetMode retags the set without touching its selections.
func (s *SelectionSet) SetMode(mode Mode) { s.mode = mode }

// AddSecondary inserts sel as a non-primary selection, re-establishing
// sort/overlap invariants (merging if it overlaps an existing one) while
// preserving which underlying cursor is primary.
func (s *SelectionSet) AddSecondary(sel Selection) {
	primaryRange := s.selections[s.primary].Range
	s.selections = append(s.selections, sel)
	s.normalizeKeeping(primaryRange)
}

// Remove drops the selection at index, refusing to empty the set.
func (s *SelectionSet) Remove(index int) error {
	if len(s.selections) == 1 {
		return fmt.Errorf("selection: cannot remove the last selection")
	}
	if index < 0 || index >= len(s.selections) {
		return &ErrPrimaryOutOfRange{Index: index, Len: len(s.selections)}
	}
	primaryRange := s.selections[s.primary].Range
	wasPrimary := index == s.primary
	s.selections = append(s.selections[:index:index], s.selections[index+1:]...)
	if wasPrimary {
		// spec.md doesn't pin successor semantics; the nearest selection
		// by start (clamped to the new length) is the least surprising
		// landing spot after deleting the primary cursor.
		if index >= len(s.selections) {
			index = len(s.selections) - 1
		}
		s.primary = index
		return nil
	}
	s.normalizeKeeping(primaryRange)
	return nil
}

// CyclePrimary moves the primary index forward or backward, wrapping.
func (s *SelectionSet) CyclePrimary(dir Direction) {
	n := len(s.selections)
	if n <= 1 {
		return
	}
	if dir == Forward {
		s.primary = (s.primary + 1) % n
	} else {
		s.primary = (s.primary - 1 + n) % n
	}
}

// KeepOnlyPrimary collapses the set down to just its primary selection.
func (s *SelectionSet) KeepOnlyPrimary() {
	s.selections = []Selection{s.selections[s.primary]}
	s.primary = 0
}

// Filter keeps only selections matching pred, refusing to empty the set.
// If pred excludes the primary, the new primary is the surviving
// selection whose start is nearest the old primary's start.
func (s *SelectionSet) Filter(pred func(Selection) bool) error {
	primaryRange := s.selections[s.primary].Range
	var kept []Selection
	for _, sel := range s.selections {
		if pred(sel) {
			kept = append(kept, sel)
		}
	}
	if len(kept) == 0 {
		return fmt.Errorf("selection: filter would empty the set")
	}
	s.selections = kept
	s.reindexPrimary(primaryRange)
	return nil
}

// Map rebuilds every selection's Range via f, then re-sorts and merges.
func (s *SelectionSet) Map(f func(coord.CharIndexRange) coord.CharIndexRange) {
	primaryRange := s.selections[s.primary].Range
	for i := range s.selections {
		s.selections[i].Range = f(s.selections[i].Range)
	}
	newPrimaryRange := f(primaryRange)
	s.normalizeKeeping(newPrimaryRange)
}

// ApplyMovement broadcasts movement to every selection independently via
// engine, converting each resulting ByteRange back to a CharIndexRange
// through conv, then re-establishes the SelectionSet invariants. conv is
// also passed to engine as each query's Params.Buffer.
// toIndex is only consulted for MovementToIndex.
func (s *SelectionSet) ApplyMovement(movement Movement, engine Engine, conv Converter, cursorDir CursorDirection, ifNotFound IfCurrentNotFound, toIndex int) error {
	primaryRange := s.selections[s.primary].Range
	next := make([]Selection, 0, len(s.selections))
	for _, sel := range s.selections {
		p := Params{Buffer: conv, Cursor: sel.Cursor(cursorDir)}
		var (
			br    coord.ByteRange
			found bool
			err   error
		)
		switch movement {
		case MovementCurrent:
			br, found, err = engine.Current(p, ifNotFound)
		case MovementNext:
			br, found, err = engine.Next(p)
		case MovementPrevious:
			br, found, err = engine.Previous(p)
		case MovementUp:
			br, found, err = engine.Up(p)
		case MovementDown:
			br, found, err = engine.Down(p)
		case MovementFirst:
			br, found, err = engine.First(p)
		case MovementLast:
			br, found, err = engine.Last(p)
		case MovementParent:
			br, found, err = engine.Parent(p)
		case MovementFirstChild:
			br, found, err = engine.FirstChild(p)
		case MovementToIndex:
			br, found, err = engine.ToIndex(p, toIndex)
		default:
			return fmt.Errorf("selection: unknown movement %d", movement)
		}
		if err != nil {
			return err
		}
		if !found {
			// No candidate in this direction for this cursor: the
			// selection holds its ground rather than disappearing.
			next = append(next, sel)
			continue
		}
		charRange, err := conv.ByteRangeToCharIndexRange(br)
		if err != nil {
			return err
		}
		sel.Range = charRange
		sel.IsExtended = false
		sel.Anchor = nil
		next = append(next, sel)
	}
	s.selections = next
	s.mode = engine.Mode()
	s.normalizeKeeping(primaryRange)
	return nil
}

// normalize sorts and merges overlapping selections without trying to
// track any prior primary identity (used only by the New constructor,
// where the caller-supplied primary index is the authority).
func (s *SelectionSet) normalize() {
	primaryRange := s.selections[s.primary].Range
	s.normalizeKeeping(primaryRange)
}

// normalizeKeeping sorts s.selections by range start, merges overlapping
// runs into the union of their ranges, and relocates the primary index
// to whichever surviving selection contains primaryRange's start — the
// "primary index is preserved (mapped to the surviving selection)"
// invariant from spec.md §4.3.
func (s *SelectionSet) normalizeKeeping(primaryRange coord.CharIndexRange) {
	sort.SliceStable(s.selections, func(i, j int) bool {
		return s.selections[i].Range.Start < s.selections[j].Range.Start
	})

	merged := make([]Selection, 0, len(s.selections))
	for _, sel := range s.selections {
		if n := len(merged); n > 0 && sel.Range.Start < merged[n-1].Range.End {
			last := &merged[n-1]
			if sel.Range.End > last.Range.End {
				last.Range.End = sel.Range.End
			}
			continue
		}
		merged = append(merged, sel)
	}
	s.selections = merged
	s.reindexPrimary(primaryRange)
}

// reindexPrimary relocates s.primary to the selection containing (or
// nearest to) primaryRange.Start after a mutation may have reshuffled or
// merged the slice.
func (s *SelectionSet) reindexPrimary(primaryRange coord.CharIndexRange) {
	for i, sel := range s.selections {
		if sel.Range.Start <= primaryRange.Start && primaryRange.Start <= sel.Range.End {
			s.primary = i
			return
		}
	}
	// primaryRange no longer matches anything (e.g. it was filtered
	// out): fall back to the nearest selection by start.
	best, bestDist := 0, -1
	for i, sel := range s.selections {
		d := sel.Range.Start.Sub(primaryRange.Start)
		if d < 0 {
			d = -d
		}
		if bestDist == -1 || d < bestDist {
			best, bestDist = i, d
		}
	}
	s.primary = best
}
