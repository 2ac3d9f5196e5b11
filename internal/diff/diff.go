// Package diff computes hunks between a buffer's current content and a
// baseline (last-committed) content, per spec.md §4.8. It backs the
// GitHunk selection mode in internal/selmode.
//
// Grounded on other_examples/manifests/nzinfo-texere's go.mod, which
// already carries github.com/sergi/go-diff for Myers diffing; no pack
// repo hand-rolls its own diff algorithm, so this package wraps that
// library rather than reimplementing LCS/Myers.
package diff

import (
	"strings"

	dmp "github.com/sergi/go-diff/diffmatchpatch"
)

// Hunk is a contiguous region where content differs from the baseline,
// expressed as 0-based half-open line ranges (spec.md §4.8).
type Hunk struct {
	// OldLineRange and NewLineRange are half-open [start, end) line
	// ranges in the baseline and current content respectively.
	OldLineRange [2]int
	NewLineRange [2]int
	Old          []string
	New          []string
}

// LineRange returns the hunk's range in the content it is displayed
// against, i.e. NewLineRange, the conventional "where is this hunk now"
// answer the GitHunk selection mode iterates over.
func (h Hunk) LineRange() (start, end int) {
	return h.NewLineRange[0], h.NewLineRange[1]
}

// ComputeHunks diffs old against new at line granularity using a
// zero-context Myers diff (spec.md §4.8: "Use a zero-context diff"),
// then normalizes each hunk's leading whitespace to the minimum common
// indent across the hunk before returning it. It computes no
// per-character diff; CharDiff does that for a pair of single lines.
func ComputeHunks(old, new string) []Hunk {
	d := dmp.New()
	oldLines, newLines, lineArray := d.DiffLinesToChars(old, new)
	diffs := d.DiffMain(oldLines, newLines, false)
	diffs = d.DiffCharsToLines(diffs, lineArray)

	var hunks []Hunk
	oldLine, newLine := 0, 0
	for i := 0; i < len(diffs); i++ {
		switch diffs[i].Type {
		case dmp.DiffEqual:
			oldLine += countLines(diffs[i].Text)
			newLine += countLines(diffs[i].Text)

		case dmp.DiffDelete, dmp.DiffInsert:
			var delText, insText string
			oldStart, newStart := oldLine, newLine
			j := i
			for j < len(diffs) && (diffs[j].Type == dmp.DiffDelete || diffs[j].Type == dmp.DiffInsert) {
				if diffs[j].Type == dmp.DiffDelete {
					delText += diffs[j].Text
				} else {
					insText += diffs[j].Text
				}
				j++
			}
			oldLine += countLines(delText)
			newLine += countLines(insText)
			i = j - 1

			h := Hunk{
				OldLineRange: [2]int{oldStart, oldLine},
				NewLineRange: [2]int{newStart, newLine},
				Old:          splitLines(delText),
				New:          splitLines(insText),
			}
			normalizeIndent(&h)
			hunks = append(hunks, h)
		}
	}
	return hunks
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + boolToInt(!strings.HasSuffix(s, "\n"))
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// normalizeIndent trims the minimum common leading-whitespace count
// shared by every non-empty line across both sides of the hunk, per
// spec.md §4.8.
func normalizeIndent(h *Hunk) {
	min := -1
	consider := func(lines []string) {
		for _, l := range lines {
			if strings.TrimSpace(l) == "" {
				continue
			}
			n := len(l) - len(strings.TrimLeft(l, " \t"))
			if min == -1 || n < min {
				min = n
			}
		}
	}
	consider(h.Old)
	consider(h.New)
	if min <= 0 {
		return
	}
	strip := func(lines []string) []string {
		out := make([]string, len(lines))
		for i, l := range lines {
			if len(l) >= min {
				out[i] = l[min:]
			} else {
				out[i] = strings.TrimLeft(l, " \t")
			}
		}
		return out
	}
	h.Old = strip(h.Old)
	h.New = strip(h.New)
}

// CharDiff computes a per-character diff between old and new, only
// meaningful (and only called by callers) when both are a single line,
// per spec.md §4.8.
func CharDiff(old, new string) []dmp.Diff {
	d := dmp.New()
	return d.DiffMain(old, new, false)
}
