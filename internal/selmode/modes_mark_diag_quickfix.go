package selmode

import (
	"github.com/kimod/kimod/internal/buffer"
	"github.com/kimod/kimod/internal/coord"
	"github.com/kimod/kimod/internal/selection"
)

func charRangeToByteRange(buf *buffer.Buffer, r coord.CharIndexRange) (coord.ByteRange, bool) {
	start, err := buf.CharToByte(r.Start)
	if err != nil {
		return coord.ByteRange{}, false
	}
	end, err := buf.CharToByte(r.End)
	if err != nil {
		return coord.ByteRange{}, false
	}
	return coord.ByteRange{Start: uint32(start), End: uint32(end)}, true
}

// Mark iterates every mark the buffer currently holds (spec.md §4.2).
func Mark() FlatMode {
	return FlatMode{ModeTag: selection.ModeMark, Iter: func(buf *buffer.Buffer) ([]coord.ByteRange, error) {
		marks := buf.Marks()
		out := make([]coord.ByteRange, 0, len(marks))
		for _, m := range marks {
			if br, ok := charRangeToByteRange(buf, m); ok {
				out = append(out, br)
			}
		}
		return out, nil
	}}
}

// Diagnostic iterates diagnostics at or above the given severity
// (spec.md §4.2's Diagnostic(kind)); pass buffer.SeverityHint to
// include every diagnostic regardless of severity.
func Diagnostic(minSeverity buffer.Severity) FlatMode {
	return FlatMode{ModeTag: selection.ModeDiagnostic, Iter: func(buf *buffer.Buffer) ([]coord.ByteRange, error) {
		diags := buf.Diagnostics()
		out := make([]coord.ByteRange, 0, len(diags))
		for _, d := range diags {
			if d.Severity > minSeverity {
				continue
			}
			if br, ok := charRangeToByteRange(buf, d.Range); ok {
				out = append(out, br)
			}
		}
		return out, nil
	}}
}

// LocalQuickfix iterates quickfix entries whose path matches the
// buffer's own path (spec.md §4.2's LocalQuickfix, scoped to "local" as
// opposed to a workspace-wide quickfix list).
func LocalQuickfix() FlatMode {
	return FlatMode{ModeTag: selection.ModeLocalQuickfix, Iter: func(buf *buffer.Buffer) ([]coord.ByteRange, error) {
		items := buf.QuickfixItems()
		out := make([]coord.ByteRange, 0, len(items))
		for _, it := range items {
			if it.Path != "" && it.Path != buf.Path() {
				continue
			}
			if br, ok := charRangeToByteRange(buf, it.Range); ok {
				out = append(out, br)
			}
		}
		return out, nil
	}}
}
