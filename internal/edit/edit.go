// Package edit implements the EditTransaction algebra: the only legal way
// to mutate a buffer's content, per spec.md §4.4. An EditTransaction is an
// ordered list of ActionGroups; every edit inside every group is declared
// by its caller against the pre-transaction rope. Groups are applied in
// the order given; within one group, edits are disjoint and may be
// applied in any order relative to each other, but because a rope splice
// shifts everything after it, edits are actually spliced in ascending
// position order, each one shifted by the net effect of every edit
// already applied — whether that edit belongs to an earlier group or an
// earlier position in the same group. See orderedEdits for the single
// place this accumulated-offset bookkeeping happens.
package edit

import (
	"errors"
	"fmt"
	"sort"

	"github.com/kimod/kimod/internal/coord"
	"github.com/kimod/kimod/internal/rope"
)

// ErrOverlappingEdits is returned when two edits within the same
// ActionGroup have overlapping ranges.
var ErrOverlappingEdits = errors.New("edit: overlapping edits in action group")

// ErrInvalidEditRange is returned when an edit's range falls outside the
// rope it is being validated against.
type ErrInvalidEditRange struct {
	Range coord.CharIndexRange
	Len   int
}

func (e *ErrInvalidEditRange) Error() string {
	return fmt.Sprintf("edit: range %v out of bounds for rope of length %d", e.Range, e.Len)
}

// Edit describes a single splice: replace the text in Range with New,
// where Old captures what was there before (needed to build the inverse
// without re-reading the rope).
type Edit struct {
	Range coord.CharIndexRange
	Old   string
	New   string
}

// CharsOffset is the signed change in rope length this edit produces.
func (e Edit) CharsOffset() int {
	return len([]rune(e.New)) - len([]rune(e.Old))
}

// Apply splices e into r, returning the new rope.
func (e Edit) Apply(r *rope.Rope) *rope.Rope {
	return r.Splice(int(e.Range.Start), int(e.Range.End), e.New)
}

// Inverse returns the Edit that undoes e, expressed in the coordinate
// frame that exists immediately after e itself was applied.
func (e Edit) Inverse() Edit {
	newEnd := e.Range.Start.Add(len([]rune(e.New)))
	return Edit{
		Range: coord.CharIndexRange{Start: e.Range.Start, End: newEnd},
		Old:   e.New,
		New:   e.Old,
	}
}

// Action is either an Edit or a post-application Selection request.
type Action struct {
	Edit   *Edit
	Select *SelectAction
}

// SelectAction is the payload of a Select action: the post-application
// selection to install, declared against the same pre-transaction frame
// as the Edits in its group.
type SelectAction struct {
	Range      coord.CharIndexRange
	IsPrimary  bool
	IsExtended bool
}

// NewEditAction wraps e as an Action.
func NewEditAction(e Edit) Action { return Action{Edit: &e} }

// NewSelectAction wraps s as an Action.
func NewSelectAction(s SelectAction) Action { return Action{Select: &s} }

func actionStart(a Action) coord.CharIndex {
	switch {
	case a.Edit != nil:
		return a.Edit.Range.Start
	case a.Select != nil:
		return a.Select.Range.Start
	default:
		return 0
	}
}

// ActionGroup is a set of Actions whose Edit ranges are pairwise disjoint,
// all declared against the same pre-transaction rope.
type ActionGroup struct {
	Actions []Action
}

func (g ActionGroup) edits() []Edit {
	var out []Edit
	for _, a := range g.Actions {
		if a.Edit != nil {
			out = append(out, *a.Edit)
		}
	}
	return out
}

func (g ActionGroup) validateDisjoint() error {
	edits := g.edits()
	sort.Slice(edits, func(i, j int) bool { return edits[i].Range.Start < edits[j].Range.Start })
	for i := 1; i < len(edits); i++ {
		if edits[i].Range.Start < edits[i-1].Range.End {
			return ErrOverlappingEdits
		}
	}
	return nil
}

// EditTransaction is an ordered list of ActionGroups, applied atomically:
// either every group applies, or the rope is left untouched.
//
// A later group's ranges are rebased by the single accumulated offset of
// every edit in every earlier group, per the pre-transaction frame rule
// above. That is exact when the later group's positions fall after every
// edit in the groups before it (the common case: operate on a region,
// then operate on what follows it); a later group referencing a
// pre-transaction position that falls between two differently-sized
// edits from an earlier group will be rebased by the total offset rather
// than the precise partial offset, and should be expressed as its own
// group instead if that distinction matters.
type EditTransaction struct {
	Groups []ActionGroup
	// SortKey orders transactions relative to others when a caller is
	// merging several together (e.g. a multi-file replace batches one
	// transaction per file and wants deterministic apply order); it has
	// no effect on a transaction applied in isolation.
	SortKey int
}

// Result is the outcome of successfully applying an EditTransaction.
type Result struct {
	Rope *rope.Rope
	// Selections holds the post-application selection ranges requested by
	// Action.Select entries, in final rope coordinates.
	Selections []SelectAction
	CharsAdded int // net characters added by the whole transaction (may be negative)
	Inverse    EditTransaction
}

// orderedAction pairs an Action with the offset accumulated by every edit
// applied before it — across earlier groups, and within its own group,
// earlier in position.
type orderedAction struct {
	action Action
	offset int
}

// orderedActions returns every action across every group of t, in the
// exact order they will be spliced into the rope, each tagged with the
// cumulative character offset to add to its declared (pre-transaction)
// range before using it.
func (t EditTransaction) orderedActions() []orderedAction {
	var out []orderedAction
	offset := 0
	for _, g := range t.Groups {
		ordered := append([]Action(nil), g.Actions...)
		sort.SliceStable(ordered, func(i, j int) bool {
			return actionStart(ordered[i]) < actionStart(ordered[j])
		})
		for _, a := range ordered {
			out = append(out, orderedAction{action: a, offset: offset})
			if a.Edit != nil {
				offset += a.Edit.CharsOffset()
			}
		}
	}
	return out
}

// Apply runs the transaction against r. Every group's disjointness is
// validated before anything is spliced; each edit's bounds are checked
// against the working rope as it is reached. r itself is never modified,
// so an invalid transaction never partially applies.
func (t EditTransaction) Apply(r *rope.Rope) (Result, error) {
	for gi, g := range t.Groups {
		if err := g.validateDisjoint(); err != nil {
			return Result{}, fmt.Errorf("group %d: %w", gi, err)
		}
	}

	working := r
	var selections []SelectAction
	var appliedInOrder []Edit

	for _, oa := range t.orderedActions() {
		switch {
		case oa.action.Edit != nil:
			e := *oa.action.Edit
			e.Range = e.Range.Shift(oa.offset)
			if int(e.Range.Start) < 0 || int(e.Range.End) > working.LenChars() {
				return Result{}, &ErrInvalidEditRange{Range: e.Range, Len: working.LenChars()}
			}
			working = e.Apply(working)
			appliedInOrder = append(appliedInOrder, e)

		case oa.action.Select != nil:
			s := *oa.action.Select
			s.Range = s.Range.Shift(oa.offset)
			selections = append(selections, s)
		}
	}

	// Each edit's Inverse() is declared in the rope state that exists
	// right after it (and only it) was applied; because every later edit
	// in appliedInOrder sits at a strictly greater position, none of them
	// can shift a position to their left, so that declared range stays
	// valid all the way through to the final rope too. That means the
	// inverse groups can be handed straight back through this same
	// ascending-position, forward-offset-accumulating Apply() machinery
	// in the SAME order as appliedInOrder (not reversed): reversing them
	// would apply the accumulated offset from a later (rightward) edit to
	// an earlier (leftward) one that was never shifted by it.
	invGroups := make([]ActionGroup, len(appliedInOrder))
	for i, e := range appliedInOrder {
		invGroups[i] = ActionGroup{Actions: []Action{NewEditAction(e.Inverse())}}
	}

	totalOffset := 0
	for _, e := range appliedInOrder {
		totalOffset += e.CharsOffset()
	}

	return Result{
		Rope:       working,
		Selections: selections,
		CharsAdded: totalOffset,
		Inverse:    EditTransaction{Groups: invGroups},
	}, nil
}

// ApplyToRanges remaps a set of existing CharIndexRanges (selections or
// marks not themselves part of the transaction) across every edit t
// performs, in the same application order Apply uses.
func (t EditTransaction) ApplyToRanges(ranges []coord.CharIndexRange) []coord.CharIndexRange {
	live := append([]coord.CharIndexRange(nil), ranges...)
	for _, oa := range t.orderedActions() {
		if oa.action.Edit == nil {
			continue
		}
		e := *oa.action.Edit
		e.Range = e.Range.Shift(oa.offset)
		next := live[:0]
		for _, r := range live {
			if mapped, ok := r.ApplyEdit(e.Range, e.CharsOffset()); ok {
				next = append(next, mapped)
			}
		}
		live = next
	}
	return live
}
