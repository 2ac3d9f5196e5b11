// Package workspace implements spec.md §6's "Persisted state": a JSON
// file per workspace keyed by canonical working directory, holding
// marked files, marks, and prompt histories, with a versioned schema
// and a migration chain chosen by the file's own version string.
//
// The teacher persists nothing across process runs (an LSP server is
// re-initialized by its client every session), so this package follows
// spec.md §6 directly. It borrows the teacher's strict-JSON loading
// posture from its own internal/config.Config.Load (read, then
// json.Unmarshal, no partial-success states) rather than inventing a
// new persistence idiom.
package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"

	"github.com/kimod/kimod/internal/pathutil"
)

var logger = commonlog.GetLoggerf("kimod.workspace")

// CurrentVersion is the schema version written by this build. Loading a
// file with an older version runs it through the migration chain below
// before it is returned to the caller.
const CurrentVersion = "2"

// Mark is a persisted, user-pinned character range, keyed by the file
// it belongs to (spec.md's Mark, persisted per workspace rather than
// held only in a live Buffer).
type Mark struct {
	Path  string `json:"path"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// State is the decoded shape of one workspace's persisted-state file
// (spec.md §6's "{marked_files, marks, prompt_histories}").
type State struct {
	Version         string              `json:"version"`
	MarkedFiles     []string            `json:"marked_files"`
	Marks           []Mark              `json:"marks"`
	PromptHistories map[string][]string `json:"prompt_histories"`
}

func newState() *State {
	return &State{
		Version:         CurrentVersion,
		PromptHistories: make(map[string][]string),
	}
}

// registry maps a canonicalized working directory to the uuid that
// names its persisted-state file, so the file name itself reveals
// nothing about the workspace path (DESIGN.md's rationale for
// google/uuid over ksuid here: workspace identity is not a sequence,
// so a non-sortable random id is the better fit).
type registry struct {
	WorkspaceIDs map[string]string `json:"workspace_ids"`
}

// Store resolves and persists workspace State under a base directory
// (normally env.Environment.CacheDir).
type Store struct {
	baseDir string
}

// NewStore returns a Store rooted at baseDir, creating it if absent.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("workspace: cannot create store dir %s: %w", baseDir, err)
	}
	return &Store{baseDir: baseDir}, nil
}

func (s *Store) registryPath() string { return filepath.Join(s.baseDir, "registry.json") }

func (s *Store) loadRegistry() (*registry, error) {
	data, err := os.ReadFile(s.registryPath())
	if os.IsNotExist(err) {
		return &registry{WorkspaceIDs: make(map[string]string)}, nil
	}
	if err != nil {
		return nil, err
	}
	var r registry
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("workspace: malformed registry: %w", err)
	}
	if r.WorkspaceIDs == nil {
		r.WorkspaceIDs = make(map[string]string)
	}
	return &r, nil
}

func (s *Store) saveRegistry(r *registry) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.registryPath(), data, 0o644)
}

// idFor resolves (creating if necessary) the uuid naming workingDir's
// persisted-state file, keyed by its canonical path.
func (s *Store) idFor(workingDir string) (string, error) {
	canon, err := pathutil.Canonicalize(workingDir)
	if err != nil {
		return "", err
	}
	key := canon.String()

	r, err := s.loadRegistry()
	if err != nil {
		return "", err
	}
	if id, ok := r.WorkspaceIDs[key]; ok {
		return id, nil
	}
	id := uuid.NewString()
	r.WorkspaceIDs[key] = id
	if err := s.saveRegistry(r); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) dataPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

// Load resolves workingDir's persisted state, migrating it to
// CurrentVersion if it was written by an older build. A workspace with
// no prior state returns a fresh, empty State rather than an error.
func (s *Store) Load(workingDir string) (*State, error) {
	id, err := s.idFor(workingDir)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.dataPath(id))
	if os.IsNotExist(err) {
		return newState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("workspace: cannot read state for %s: %w", workingDir, err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("workspace: malformed state file: %w", err)
	}

	migrated, err := migrate(raw)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(migrated)
	if err != nil {
		return nil, err
	}
	var st State
	if err := json.Unmarshal(encoded, &st); err != nil {
		return nil, fmt.Errorf("workspace: state did not survive migration: %w", err)
	}
	if st.PromptHistories == nil {
		st.PromptHistories = make(map[string][]string)
	}
	return &st, nil
}

// Save writes st to workingDir's persisted-state file, stamping it with
// CurrentVersion.
func (s *Store) Save(workingDir string, st *State) error {
	id, err := s.idFor(workingDir)
	if err != nil {
		return err
	}
	st.Version = CurrentVersion
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.dataPath(id), data, 0o644); err != nil {
		return fmt.Errorf("workspace: cannot write state for %s: %w", workingDir, err)
	}
	return nil
}

// upgrade transforms a raw decoded JSON document from one schema
// version to the next. Each entry in the chain below is a
// from_previous_version step, per spec.md §6's "composes
// from_previous_version upgrades to current".
type upgrade func(map[string]any) map[string]any

// migrations maps a version string to the upgrade producing the next
// version, so migrate can compose from_previous_version steps without
// every version needing to know how to reach CurrentVersion directly.
var migrations = map[string]upgrade{
	"1": fromVersion1,
	"":  fromVersion1, // pre-versioning files: version field was absent.
}

// fromVersion1 renames version 1's "pinned_files" field to "marked_files"
// (the name this schema has used since version 2) and introduces an
// empty prompt_histories map if absent.
func fromVersion1(doc map[string]any) map[string]any {
	if v, ok := doc["pinned_files"]; ok {
		doc["marked_files"] = v
		delete(doc, "pinned_files")
	}
	if _, ok := doc["prompt_histories"]; !ok {
		doc["prompt_histories"] = map[string]any{}
	}
	doc["version"] = "2"
	return doc
}

// migrate walks doc's version field through the migration chain until
// it reaches CurrentVersion.
func migrate(doc map[string]any) (map[string]any, error) {
	seen := map[string]bool{}
	for {
		version, _ := doc["version"].(string)
		if version == CurrentVersion {
			return doc, nil
		}
		if seen[version] {
			return nil, fmt.Errorf("workspace: migration cycle detected at version %q", version)
		}
		seen[version] = true

		step, ok := migrations[version]
		if !ok {
			return nil, fmt.Errorf("workspace: no migration path from version %q", version)
		}
		logger.Infof("migrating workspace state from version %q", version)
		doc = step(doc)
	}
}
