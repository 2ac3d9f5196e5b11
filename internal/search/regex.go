// Package search implements spec.md §4.6: literal/whole-word/
// case-sensitive/regex matching plus its naming-convention-agnostic
// variant, and the gitignore-aware multi-file replace.
//
// Grounded on the regex-engine split other_examples/manifests'
// nzinfo-texere, sacenox-symb, and treykane-cli-notes go.mod files all
// carry github.com/dlclark/regexp2 alongside stdlib regexp: this
// package picks the RE2-backed stdlib path when a pattern has no
// backreference/lookaround, and falls back to regexp2's backtracking
// engine only when the pattern actually needs it, rather than paying
// regexp2's slower engine unconditionally.
package search

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dlclark/regexp2"
)

// RegexConfig controls how a search pattern compiles, per spec.md §4.6.
type RegexConfig struct {
	Escaped        bool // treat Pattern as a literal string, not a regex
	CaseSensitive  bool
	MatchWholeWord bool
}

// Matcher finds non-overlapping matches of a compiled pattern in text,
// returning each match's half-open byte range.
type Matcher interface {
	FindAll(text string) []Match
}

// Match is one matcher hit.
type Match struct {
	Start, End int
	Groups     []string
}

// backtrackFeatures matches regex constructs RE2 cannot express:
// backreferences (\1) and lookaround ((?=...), (?!...), (?<=...), (?<!...)).
var backtrackFeatures = regexp.MustCompile(`\\[1-9]|\(\?[=!]|\(\?<[=!]`)

// Compile builds a Matcher for pattern under cfg, selecting the
// backtracking regexp2 engine only when the pattern needs a feature RE2
// doesn't support.
func Compile(pattern string, cfg RegexConfig) (Matcher, error) {
	expr := pattern
	if cfg.Escaped {
		expr = regexp.QuoteMeta(pattern)
	}
	if cfg.MatchWholeWord {
		expr = `\b(?:` + expr + `)\b`
	}

	if !cfg.Escaped && backtrackFeatures.MatchString(pattern) {
		opts := regexp2.RE2
		if !cfg.CaseSensitive {
			opts |= regexp2.IgnoreCase
		}
		re, err := regexp2.Compile(expr, opts&^regexp2.RE2)
		if err != nil {
			return nil, fmt.Errorf("search: invalid backtracking pattern: %w", err)
		}
		return &regexp2Matcher{re: re}, nil
	}

	if !cfg.CaseSensitive {
		expr = `(?i)` + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("search: invalid pattern: %w", err)
	}
	return &re2Matcher{re: re}, nil
}

type re2Matcher struct{ re *regexp.Regexp }

func (m *re2Matcher) FindAll(text string) []Match {
	idx := m.re.FindAllStringSubmatchIndex(text, -1)
	out := make([]Match, 0, len(idx))
	for _, pair := range idx {
		groups := make([]string, 0, len(pair)/2-1)
		for g := 2; g < len(pair); g += 2 {
			if pair[g] < 0 {
				groups = append(groups, "")
				continue
			}
			groups = append(groups, text[pair[g]:pair[g+1]])
		}
		out = append(out, Match{Start: pair[0], End: pair[1], Groups: groups})
	}
	return out
}

type regexp2Matcher struct{ re *regexp2.Regexp }

func (m *regexp2Matcher) FindAll(text string) []Match {
	var out []Match
	// regexp2 reports Index and Length in runes; Match carries bytes.
	runes := []rune(text)
	match, err := m.re.FindStringMatch(text)
	for err == nil && match != nil {
		groups := match.Groups()
		var captured []string
		for _, g := range groups[1:] {
			captured = append(captured, g.String())
		}
		start := len(string(runes[:match.Index]))
		end := start + len(string(runes[match.Index:match.Index+match.Length]))
		out = append(out, Match{Start: start, End: end, Groups: captured})
		match, err = m.re.FindNextMatch(match)
	}
	return out
}

// Literal is a convenience wrapper for the common "find every
// occurrence of this literal string" case, skipping regex entirely.
func Literal(text, pattern string, caseSensitive bool) []Match {
	haystack, needle := text, pattern
	if !caseSensitive {
		haystack = strings.ToLower(haystack)
		needle = strings.ToLower(needle)
	}
	if needle == "" {
		return nil
	}
	var out []Match
	start := 0
	for {
		idx := strings.Index(haystack[start:], needle)
		if idx < 0 {
			break
		}
		absStart := start + idx
		out = append(out, Match{Start: absStart, End: absStart + len(needle)})
		start = absStart + len(needle)
	}
	return out
}
