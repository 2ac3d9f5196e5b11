package search

import (
	"fmt"
	"os"
	"path/filepath"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/kimod/kimod/internal/buffer"
	"github.com/kimod/kimod/internal/coord"
	"github.com/kimod/kimod/internal/edit"
)

// ReplaceConfig describes one multi-file find-and-replace run, per
// spec.md §4.6.
type ReplaceConfig struct {
	Root           string
	Pattern        string
	Replacement    string
	Regex          RegexConfig
	NamingAgnostic bool
}

// ReplaceResult reports what Replace did.
type ReplaceResult struct {
	AffectedPaths []string
}

// Replace walks Root honoring any .gitignore found at its top level
// (spec.md §4.6's "WalkBuilder"), opens a Buffer for every regular file
// it doesn't ignore, and applies a transactional replacement of every
// match it finds, saving the result without formatting. It returns the
// set of paths it modified.
func Replace(cfg ReplaceConfig) (ReplaceResult, error) {
	gi, _ := ignore.CompileIgnoreFile(filepath.Join(cfg.Root, ".gitignore"))

	var affected []string
	err := filepath.WalkDir(cfg.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(cfg.Root, path)
		if relErr == nil && gi != nil && gi.MatchesPath(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		changed, err := replaceInFile(path, cfg)
		if err != nil {
			return fmt.Errorf("search: replace in %s: %w", path, err)
		}
		if changed {
			affected = append(affected, path)
		}
		return nil
	})
	if err != nil {
		return ReplaceResult{}, err
	}
	return ReplaceResult{AffectedPaths: affected}, nil
}

func replaceInFile(path string, cfg ReplaceConfig) (bool, error) {
	buf, err := buffer.Open(path, nil)
	if err != nil {
		return false, err
	}
	content := buf.Content()

	var groups []edit.ActionGroup
	if cfg.NamingAgnostic {
		matches := FindNamingConventionAgnostic(content, cfg.Pattern)
		if len(matches) == 0 {
			return false, nil
		}
		renderings := ReplaceNamingConventionAgnostic(cfg.Replacement)
		var actions []edit.Action
		for _, m := range matches {
			actions = append(actions, edit.NewEditAction(edit.Edit{
				Range: byteRangeToCharRange(buf, m.Start, m.End),
				Old:   content[m.Start:m.End],
				New:   renderings[m.Convention],
			}))
		}
		groups = []edit.ActionGroup{{Actions: actions}}
	} else {
		matcher, err := Compile(cfg.Pattern, cfg.Regex)
		if err != nil {
			return false, err
		}
		matches := matcher.FindAll(content)
		if len(matches) == 0 {
			return false, nil
		}
		var actions []edit.Action
		for _, m := range matches {
			actions = append(actions, edit.NewEditAction(edit.Edit{
				Range: byteRangeToCharRange(buf, m.Start, m.End),
				Old:   content[m.Start:m.End],
				New:   cfg.Replacement,
			}))
		}
		groups = []edit.ActionGroup{{Actions: actions}}
	}

	tx := edit.EditTransaction{Groups: groups}
	if _, err := buf.ApplyEditTransaction(tx); err != nil {
		return false, err
	}
	return true, buf.SaveWithoutFormatting()
}

func byteRangeToCharRange(buf *buffer.Buffer, start, end int) coord.CharIndexRange {
	s, _ := buf.ByteToChar(start)
	e, _ := buf.ByteToChar(end)
	return coord.CharIndexRange{Start: s, End: e}
}
