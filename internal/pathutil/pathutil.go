// Package pathutil implements two supplemented features restored from
// original_source/ (spec.md §9): minimal-unique-path computation and a
// canonicalized-path newtype.
package pathutil

import (
	"path/filepath"
	"strings"
)

// suffixAtDepth returns the last depth+1 path components of path,
// joined by filepath.Separator, or the whole path if it has fewer
// components than that.
func suffixAtDepth(components []string, depth int) string {
	take := depth + 1
	if len(components) <= take {
		return strings.Join(components, string(filepath.Separator))
	}
	return strings.Join(components[len(components)-take:], string(filepath.Separator))
}

// MinimalUniquePaths returns, for every path in paths, the shortest
// path-separator-delimited suffix that still uniquely identifies it
// among the set (spec.md §8's "Minimal-unique-path" invariant; the
// recursive group-by-suffix-then-recurse-on-duplicates algorithm is
// grounded on original_source/shared/src/get_minimal_unique_paths.rs's
// get_minimal_unique_paths_internal).
//
// Duplicate entries in paths (by value) are both kept and both
// assigned whatever representation their group resolves to; the
// result is indexed positionally, matching the input slice's order.
func MinimalUniquePaths(paths []string) []string {
	out := make([]string, len(paths))
	assignMinimalUniquePaths(paths, rangeIndices(len(paths)), 0, out)
	return out
}

func rangeIndices(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

const maxAncestorDepth = 20

func assignMinimalUniquePaths(paths []string, indices []int, depth int, out []string) {
	if len(indices) == 0 {
		return
	}
	if depth > maxAncestorDepth {
		for _, i := range indices {
			out[i] = filepath.ToSlash(paths[i])
		}
		return
	}

	groups := make(map[string][]int)
	var order []string
	for _, i := range indices {
		components := strings.Split(filepath.ToSlash(paths[i]), "/")
		rep := suffixAtDepth(components, depth)
		if _, ok := groups[rep]; !ok {
			order = append(order, rep)
		}
		groups[rep] = append(groups[rep], i)
	}

	var duplicates []int
	for _, rep := range order {
		idxs := groups[rep]
		if len(idxs) == 1 {
			out[idxs[0]] = rep
			continue
		}
		duplicates = append(duplicates, idxs...)
	}
	assignMinimalUniquePaths(paths, duplicates, depth+1, out)
}
