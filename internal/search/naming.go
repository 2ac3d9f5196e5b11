package search

import (
	"strings"
	"unicode"

	"github.com/iancoleman/strcase"
)

// Convention names one of the casings NamingConventionAgnostic matches
// across, per spec.md §4.2/§4.6's "all common casings" list.
type Convention int

const (
	ConventionCamel Convention = iota
	ConventionPascal
	ConventionSnake
	ConventionKebab
	ConventionTitle
	ConventionUpper
	ConventionLower
	ConventionFlat
	ConventionTrain
	ConventionUpperSnake
	ConventionUpperKebab
)

var allConventions = []Convention{
	ConventionCamel, ConventionPascal, ConventionSnake, ConventionKebab,
	ConventionTitle, ConventionUpper, ConventionLower, ConventionFlat,
	ConventionTrain, ConventionUpperSnake, ConventionUpperKebab,
}

// Render joins words according to c. words are plain lowercase tokens
// (e.g. ["ali", "bu"]).
func Render(c Convention, words []string) string {
	switch c {
	case ConventionCamel:
		return strcase.ToLowerCamel(strings.Join(words, "_"))
	case ConventionPascal:
		return strcase.ToCamel(strings.Join(words, "_"))
	case ConventionSnake:
		return strings.Join(words, "_")
	case ConventionKebab:
		return strings.Join(words, "-")
	case ConventionTitle:
		return titleJoin(words, " ")
	case ConventionUpper:
		return strings.ToUpper(strings.Join(words, " "))
	case ConventionLower:
		return strings.ToLower(strings.Join(words, " "))
	case ConventionFlat:
		return strings.ToLower(strings.Join(words, ""))
	case ConventionTrain:
		return titleJoin(words, "-")
	case ConventionUpperSnake:
		return strings.ToUpper(strings.Join(words, "_"))
	case ConventionUpperKebab:
		return strings.ToUpper(strings.Join(words, "-"))
	default:
		return strings.Join(words, " ")
	}
}

func titleJoin(words []string, sep string) string {
	titled := make([]string, len(words))
	for i, w := range words {
		if w == "" {
			continue
		}
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		titled[i] = string(r)
	}
	return strings.Join(titled, sep)
}

// splitWords breaks a pattern string ("ali bu") into its lowercase word
// tokens, the shared vocabulary every casing is rendered from.
func splitWords(pattern string) []string {
	fields := strings.FieldsFunc(pattern, func(r rune) bool {
		return r == ' ' || r == '_' || r == '-'
	})
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		words = append(words, strings.ToLower(f))
	}
	return words
}

// NamingConventionMatch is one occurrence of a naming-convention-agnostic
// search, tagged with the convention it was rendered in so Replace can
// preserve it.
type NamingConventionMatch struct {
	Start, End int
	Convention Convention
}

// FindNamingConventionAgnostic finds every occurrence, under any common
// casing, of pattern's word sequence within text, per spec.md §4.2's
// NamingConventionAgnostic mode.
func FindNamingConventionAgnostic(text, pattern string) []NamingConventionMatch {
	words := splitWords(pattern)
	if len(words) == 0 {
		return nil
	}

	var out []NamingConventionMatch
	for _, c := range allConventions {
		rendered := Render(c, words)
		for _, m := range Literal(text, rendered, true) {
			out = append(out, NamingConventionMatch{Start: m.Start, End: m.End, Convention: c})
		}
	}
	return dedupeByStart(out)
}

func dedupeByStart(matches []NamingConventionMatch) []NamingConventionMatch {
	seen := make(map[int]bool, len(matches))
	out := matches[:0]
	for _, m := range matches {
		if seen[m.Start] {
			continue
		}
		seen[m.Start] = true
		out = append(out, m)
	}
	return out
}

// ReplaceNamingConventionAgnostic renders replacement (a plain "word
// word" string) in the same convention as each match, so that e.g. a
// PascalCase match is replaced with a PascalCase rendering of the
// replacement rather than a literal substitution.
func ReplaceNamingConventionAgnostic(replacement string) map[Convention]string {
	words := splitWords(replacement)
	out := make(map[Convention]string, len(allConventions))
	for _, c := range allConventions {
		out[c] = Render(c, words)
	}
	return out
}
