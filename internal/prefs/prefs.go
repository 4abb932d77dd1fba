// Package prefs persists the dashboard's few user preferences as a small
// key=value file under the user's home directory. Only the language flag
// lives here today.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LanguageKey stores the active UI language ("en" or "om").
const LanguageKey = "language"

// Store is the boundary the dashboard reads and writes preferences through.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// FileStore keeps preferences in a key=value file, loaded once at startup
// and written back whole on every change.
type FileStore struct {
	path   string
	values map[string]string
}

// DefaultPath returns the per-user preference file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot locate home directory: %w", err)
	}
	return filepath.Join(home, ".waterdash", "prefs"), nil
}

// Open loads the preference file at path. A missing file is an empty store,
// not an error; malformed lines are skipped.
func Open(path string) (*FileStore, error) {
	s := &FileStore{path: path, values: map[string]string{}}

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("cannot load preferences: %w", err)
	}
	for _, ln := range strings.Split(string(b), "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" || strings.HasPrefix(ln, "#") {
			continue
		}
		kv := strings.SplitN(ln, "=", 2)
		if len(kv) != 2 {
			continue
		}
		s.values[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
	}
	return s, nil
}

// Get returns the stored value for key.
func (s *FileStore) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Set stores key=value and writes the file back out, creating its directory
// on first use. Keys are written sorted so the file diffs cleanly.
func (s *FileStore) Set(key, value string) error {
	s.values[key] = value

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("cannot create preference directory: %w", err)
	}

	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, s.values[k])
	}
	if err := os.WriteFile(s.path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("cannot write preferences: %w", err)
	}
	return nil
}

// Memory is an in-process store for tests and ephemeral runs.
type Memory map[string]string

func (m Memory) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func (m Memory) Set(key, value string) error {
	m[key] = value
	return nil
}
