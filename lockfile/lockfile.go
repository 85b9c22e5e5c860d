// Package lockfile implements grist.lock, which records the fingerprint
// of every message id per source document. Comparing a build against the
// lock tells which ids are new, which changed their text or meaning, and
// which disappeared, so translators are only asked for what moved.
//
// The lock file is stored alongside .grist.yaml.
package lockfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// LockFileName is the default lock file name.
const LockFileName = "grist.lock"

// Version is the lock file format version.
const Version = 1

// ---------------------------------------------------------------------------
// Types
// ---------------------------------------------------------------------------

// LockFile is the grist.lock structure.
type LockFile struct {
	Version int                          `yaml:"version"`
	Sources map[string]map[string]string `yaml:"sources"` // source -> id -> fingerprint

	mu   sync.Mutex `yaml:"-"`
	path string     `yaml:"-"`
}

// Changes lists the ids of a source that differ from the lock.
type Changes struct {
	Added   []string
	Changed []string
	Removed []string
}

// Empty reports whether nothing changed.
func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Changed) == 0 && len(c.Removed) == 0
}

// String summarizes c as "2 added, 1 changed, 0 removed".
func (c Changes) String() string {
	return fmt.Sprintf("%d added, %d changed, %d removed", len(c.Added), len(c.Changed), len(c.Removed))
}

// ---------------------------------------------------------------------------
// Loading and saving
// ---------------------------------------------------------------------------

// Load reads the lock file in dir. A missing file yields an empty lock.
func Load(dir string) (*LockFile, error) {
	path := filepath.Join(dir, LockFileName)
	lf := &LockFile{Version: Version, path: path}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, lf); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		if lf.Version > Version {
			return nil, fmt.Errorf("%s: unsupported lock version %d", path, lf.Version)
		}
	}
	if lf.Sources == nil {
		lf.Sources = make(map[string]map[string]string)
	}
	return lf, nil
}

// Save writes the lock file back to where it was loaded from.
func (lf *LockFile) Save() error {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	if lf.path == "" {
		return fmt.Errorf("lock file path not set")
	}
	data, err := yaml.Marshal(lf)
	if err != nil {
		return fmt.Errorf("marshaling lock file: %w", err)
	}
	if err := os.WriteFile(lf.path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", lf.path, err)
	}
	return nil
}

// Path returns the lock file path.
func (lf *LockFile) Path() string { return lf.path }

// ---------------------------------------------------------------------------
// Fingerprint tracking
// ---------------------------------------------------------------------------

// Diff compares the current id -> fingerprint map of a source with the
// lock. Every list is sorted.
func (lf *LockFile) Diff(source string, current map[string]string) Changes {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	var c Changes
	locked := lf.Sources[source]
	for id, fp := range current {
		old, ok := locked[id]
		switch {
		case !ok:
			c.Added = append(c.Added, id)
		case old != fp:
			c.Changed = append(c.Changed, id)
		}
	}
	for id := range locked {
		if _, ok := current[id]; !ok {
			c.Removed = append(c.Removed, id)
		}
	}
	sort.Strings(c.Added)
	sort.Strings(c.Changed)
	sort.Strings(c.Removed)
	return c
}

// Record replaces the locked fingerprints of a source.
func (lf *LockFile) Record(source string, current map[string]string) {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	m := make(map[string]string, len(current))
	for id, fp := range current {
		m[id] = fp
	}
	lf.Sources[source] = m
}

// Prune drops sources not listed in keep.
func (lf *LockFile) Prune(keep []string) {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	valid := make(map[string]bool, len(keep))
	for _, s := range keep {
		valid[s] = true
	}
	for s := range lf.Sources {
		if !valid[s] {
			delete(lf.Sources, s)
		}
	}
}

// ---------------------------------------------------------------------------
// Stats
// ---------------------------------------------------------------------------

// Stats returns the number of sources and ids in the lock file.
func (lf *LockFile) Stats() (sources, ids int) {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	sources = len(lf.Sources)
	for _, m := range lf.Sources {
		ids += len(m)
	}
	return
}

// SourceNames returns the sorted source names.
func (lf *LockFile) SourceNames() []string {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	names := make([]string, 0, len(lf.Sources))
	for s := range lf.Sources {
		names = append(names, s)
	}
	sort.Strings(names)
	return names
}

// Summary returns a human-readable summary string.
func (lf *LockFile) Summary() string {
	sources, ids := lf.Stats()
	if sources == 0 {
		return "empty"
	}
	var parts []string
	for _, s := range lf.SourceNames() {
		parts = append(parts, fmt.Sprintf("%s: %d ids", s, len(lf.Sources[s])))
	}
	return fmt.Sprintf("%d sources, %d ids (%s)", sources, ids, strings.Join(parts, ", "))
}
