// Package jsonfile implements stores backed by single JSON files.
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/colonyops/quill/internal/core/recent"
)

// recentFile is the root JSON structure stored on disk.
type recentFile struct {
	Entries []recent.Entry `json:"entries"`
}

// RecentStore implements recent.Store using a JSON file for persistence.
type RecentStore struct {
	path string
	mu   sync.RWMutex
}

// NewRecentStore creates a new JSON file recent store at the given path.
func NewRecentStore(path string) *RecentStore {
	return &RecentStore{path: path}
}

// List returns all entries, newest first.
func (s *RecentStore) List() ([]recent.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := s.load()
	if err != nil {
		return nil, err
	}
	return file.Entries, nil
}

// Get returns the entry for a path. Returns recent.ErrNotFound if absent.
func (s *RecentStore) Get(path string) (recent.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := s.load()
	if err != nil {
		return recent.Entry{}, err
	}

	for _, entry := range file.Entries {
		if entry.Path == path {
			return entry, nil
		}
	}
	return recent.Entry{}, recent.ErrNotFound
}

// Touch records a file as most recently opened, replacing any previous entry
// for the same path and pruning to maxEntries.
func (s *RecentStore) Touch(entry recent.Entry, maxEntries int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		return err
	}

	entries := make([]recent.Entry, 0, len(file.Entries)+1)
	entries = append(entries, entry)
	for _, e := range file.Entries {
		if e.Path != entry.Path {
			entries = append(entries, e)
		}
	}

	if maxEntries > 0 && len(entries) > maxEntries {
		entries = entries[:maxEntries]
	}

	return s.save(recentFile{Entries: entries})
}

// Clear removes all entries.
func (s *RecentStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(recentFile{Entries: []recent.Entry{}})
}

func (s *RecentStore) load() (recentFile, error) {
	var file recentFile

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return file, nil
	}
	if err != nil {
		return file, fmt.Errorf("read recent store: %w", err)
	}

	if err := json.Unmarshal(data, &file); err != nil {
		return file, fmt.Errorf("parse recent store: %w", err)
	}
	return file, nil
}

// save writes through a temp file and renames so a crash mid-write cannot
// leave a truncated store behind.
func (s *RecentStore) save(file recentFile) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal recent store: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write recent store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace recent store: %w", err)
	}
	return nil
}
