package selmode

import (
	"github.com/kimod/kimod/internal/buffer"
	"github.com/kimod/kimod/internal/coord"
	"github.com/kimod/kimod/internal/diff"
	"github.com/kimod/kimod/internal/selection"
)

// GitHunk iterates the changed-line hunks between baseline (typically
// the buffer's last-committed content, fetched by the caller — git
// plumbing itself is out of this package's scope per spec.md §1) and
// the buffer's current content (spec.md §4.8).
func GitHunk(baseline string) FlatMode {
	return FlatMode{ModeTag: selection.ModeGitHunk, Iter: func(buf *buffer.Buffer) ([]coord.ByteRange, error) {
		hunks := diff.ComputeHunks(baseline, buf.Content())
		out := make([]coord.ByteRange, 0, len(hunks))
		for _, h := range hunks {
			start, end := h.LineRange()
			if start >= end {
				// A pure deletion collapses to zero new lines; anchor it
				// at the insertion point instead of skipping the hunk.
				end = start + 1
			}
			last := end - 1
			if last >= buf.LenLines() {
				last = buf.LenLines() - 1
			}
			if start >= buf.LenLines() {
				start = buf.LenLines() - 1
			}
			startBr, err := buf.LineToByteRange(start)
			if err != nil {
				continue
			}
			endBr, err := buf.LineToByteRange(last)
			if err != nil {
				continue
			}
			out = append(out, coord.ByteRange{Start: startBr.Start, End: endBr.End})
		}
		return out, nil
	}}
}
